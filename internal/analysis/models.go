package analysis

import "github.com/user/feor_plateqc_go/internal/parser"

// Control type tags used in control tables and plots.
const (
	PositiveControlType = "1mM FAC"
	NegativeControlType = "Vehicle"
)

// SignalPair holds the two fluorescence channels of one plate. Row i of FeOR
// and row i of Hoechst are the same physical wells.
type SignalPair struct {
	FeOR    *parser.Matrix
	Hoechst *parser.Matrix
}

// ControlSet holds the normalized control well readings of one plate.
type ControlSet struct {
	Positive []parser.Reading
	Negative []parser.Reading // first negative column, then the next
}

// QCResult holds the plate quality metrics. ZPrime is not clamped: values
// at or below zero mean the assay window is unusable.
type QCResult struct {
	SignalToBackground float64
	ZPrime             float64

	PositiveMean float64
	NegativeMean float64
	PositiveSD   float64
	NegativeSD   float64
	PositiveN    int
	NegativeN    int
}

// ControlRecord is one control well reading in long format.
type ControlRecord struct {
	ControlType string
	Plate       string // original, unsanitized label
	Value       parser.Reading
}

// PlateResult is the outcome of processing one plate block. Err is set when
// the plate failed; QC, Controls and Normalized are only meaningful otherwise.
type PlateResult struct {
	Index   int    // 0-based block position
	Label   string // label as read from the export
	Name    string // sanitized label, used for keys and file names
	RawRows [][]string

	QC         QCResult
	Controls   []ControlRecord
	Normalized *parser.Matrix

	Err error
}

// OK reports whether the plate produced QC metrics.
func (p *PlateResult) OK() bool { return p.Err == nil }

// RunResults maps sanitized plate names to their results in block order.
type RunResults struct {
	TotalBlocks int
	Failed      []*PlateResult

	order  []string
	plates map[string]*PlateResult
}

func NewRunResults() *RunResults {
	return &RunResults{
		Failed: make([]*PlateResult, 0),
		order:  make([]string, 0),
		plates: make(map[string]*PlateResult),
	}
}

// Set stores a successful plate under its name. A repeated name overwrites the
// earlier value but keeps its original position; Set reports whether that happened.
func (r *RunResults) Set(p *PlateResult) (replaced bool) {
	if _, ok := r.plates[p.Name]; ok {
		replaced = true
	} else {
		r.order = append(r.order, p.Name)
	}
	r.plates[p.Name] = p
	return replaced
}

// Get returns the result stored under name.
func (r *RunResults) Get(name string) (*PlateResult, bool) {
	p, ok := r.plates[name]
	return p, ok
}

// Names returns the stored plate names in insertion order.
func (r *RunResults) Names() []string {
	return append([]string(nil), r.order...)
}

// Plates returns the stored results in insertion order.
func (r *RunResults) Plates() []*PlateResult {
	out := make([]*PlateResult, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.plates[name])
	}
	return out
}

func (r *RunResults) Len() int { return len(r.order) }

// QC returns the metrics for name.
func (r *RunResults) QC(name string) (QCResult, bool) {
	p, ok := r.plates[name]
	if !ok {
		return QCResult{}, false
	}
	return p.QC, true
}
