package analysis

import "github.com/samber/lo"

// Layout describes where the two channels and the control wells sit in a
// cleaned plate matrix. Column indices are 0-based after the metadata columns
// have been removed.
type Layout struct {
	ChannelAWidth       int   `yaml:"channel_a_width" validate:"gt=0"`
	ChannelBStart       int   `yaml:"channel_b_start" validate:"gtefield=ChannelAWidth"`
	ChannelBWidth       int   `yaml:"channel_b_width" validate:"eqfield=ChannelAWidth"`
	PositiveControlCol  int   `yaml:"positive_control_col" validate:"gte=0,ltfield=ChannelAWidth"`
	NegativeControlCols []int `yaml:"negative_control_cols" validate:"min=1,unique,dive,gte=0"`
}

// DefaultLayout is the 12-column dual-read format: FeOR in columns 0-11, a
// spacer in 12, Hoechst in 13-24. Column 10 holds the 1mM FAC wells and
// columns 0 and 11 the vehicle wells.
func DefaultLayout() Layout {
	return Layout{
		ChannelAWidth:       12,
		ChannelBStart:       13,
		ChannelBWidth:       12,
		PositiveControlCol:  10,
		NegativeControlCols: []int{0, 11},
	}
}

// MinCleanedCols is the width a cleaned matrix needs for SplitSignals.
func (l Layout) MinCleanedCols() int { return l.ChannelBStart + l.ChannelBWidth }

// MinNormalizedCols is the width a normalized matrix needs for ExtractControls.
func (l Layout) MinNormalizedCols() int {
	return max(l.PositiveControlCol, lo.Max(l.NegativeControlCols)) + 1
}
