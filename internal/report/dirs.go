package report

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Run sub-folders.
const (
	PlateRunDir = "plateRun"
	ControlsDir = "controlsData"
	PlotsDir    = "qcPlots"
	SummaryDir  = "summary"
)

// RunFolders lists every sub-folder a run writes into.
var RunFolders = []string{PlateRunDir, ControlsDir, PlotsDir, SummaryDir}

// EnsureDirectories creates parent/runName and the named sub-folders inside it,
// returning a map from folder name to path. Existing folders are reused.
func EnsureDirectories(parent, runName string, folders []string) (map[string]string, error) {
	base := filepath.Join(parent, runName)
	if err := os.MkdirAll(base, 0o755); err != nil {
		return nil, errors.Wrap(err, "failed to create run directory")
	}

	dirs := make(map[string]string, len(folders))
	for _, folder := range folders {
		path := filepath.Join(base, folder)
		if err := os.MkdirAll(path, 0o755); err != nil {
			return nil, errors.Wrapf(err, "failed to create %s directory", folder)
		}
		dirs[folder] = path
	}
	return dirs, nil
}
