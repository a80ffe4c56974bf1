package analysis

import (
	"github.com/samber/lo"

	"github.com/user/feor_plateqc_go/internal/parser"
)

// BuildControlTable reshapes control readings into long format: all positive
// readings first, then all negative readings, each in input order.
func BuildControlTable(controls ControlSet, plateLabel string) []ControlRecord {
	tag := func(controlType string) func(parser.Reading, int) ControlRecord {
		return func(v parser.Reading, _ int) ControlRecord {
			return ControlRecord{ControlType: controlType, Plate: plateLabel, Value: v}
		}
	}
	return append(
		lo.Map(controls.Positive, tag(PositiveControlType)),
		lo.Map(controls.Negative, tag(NegativeControlType))...,
	)
}

// ControlValues returns the valid readings of one control type.
func ControlValues(records []ControlRecord, controlType string) []float64 {
	return parser.ValidValues(lo.FilterMap(records, func(r ControlRecord, _ int) (parser.Reading, bool) {
		return r.Value, r.ControlType == controlType
	}))
}
