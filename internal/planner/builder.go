package planner

import (
	"math"
	"time"

	"github.com/stratviz-lab/stratviz/internal/dataset"
	"github.com/stratviz-lab/stratviz/pkg/errors"
)

// priceColumns are the mandatory columns without which no panel can render.
var priceColumns = [4]string{"Open", "High", "Low", "Close"}

// signalTypeColumn is the categorical partition column for positioning
// price traces; its values are "buy" and "sell".
const signalTypeColumn = "signal_type"

// BuildPlan realizes the plot plan for a normalized dataset: the selected
// layout plus every trace whose rule's required columns are present, in the
// fixed declared order. Missing optional columns are never an error; only
// absent mandatory price columns fail.
func BuildPlan(ds *dataset.Dataset, layout PanelLayout, mode Mode) (*PlotPlan, error) {
	for _, name := range priceColumns {
		if !ds.HasColumn(name) {
			return nil, errors.NewMissingColumn(name)
		}
	}

	plan := &PlotPlan{
		Panels:         layout.Panels,
		Traces:         make([]Trace, 0),
		ReferenceLines: make([]ReferenceLine, 0),
	}

	plan.Traces = append(plan.Traces, priceRangeTraces(ds, mode)...)

	for _, rule := range rulesForMode(mode) {
		trace, realized := realizeRule(ds, rule)
		if !realized {
			continue
		}

		plan.Traces = append(plan.Traces, trace)

		if rule.withReferenceLines {
			plan.ReferenceLines = append(plan.ReferenceLines, oscillatorReferenceLines...)
		}
	}

	return plan, nil
}

// priceRangeTraces builds the always-present candlestick trace(s). Swing
// mode emits one unconditional trace; positioning partitions rows by the
// signal_type value, falling back to a single trace when the partition
// column is absent.
func priceRangeTraces(ds *dataset.Dataset, mode Mode) []Trace {
	allRows := make([]int, ds.NumRows())
	for i := range allRows {
		allRows[i] = i
	}

	if mode == ModePositioning {
		if partition := ds.Column(signalTypeColumn); partition.IsSome() {
			values := partition.Unwrap()

			buy := rowsMatching(values, "buy")
			sell := rowsMatching(values, "sell")

			return []Trace{
				candlestick(ds, buy, "Buy Context", Style{IncreasingColor: "blue", DecreasingColor: "blue"}),
				candlestick(ds, sell, "Sell Context", Style{IncreasingColor: "red", DecreasingColor: "red"}),
			}
		}

		return []Trace{candlestick(ds, allRows, "Candlestick", Style{IncreasingColor: "grey", DecreasingColor: "black"})}
	}

	return []Trace{candlestick(ds, allRows, "Candlestick", Style{IncreasingColor: "grey", DecreasingColor: "black"})}
}

func candlestick(ds *dataset.Dataset, rows []int, name string, style Style) Trace {
	return Trace{
		PanelIndex:     0,
		Kind:           TraceKindPriceRange,
		Name:           name,
		X:              timesAt(ds.Index(), rows),
		Open:           floatsAt(ds, "Open", rows),
		High:           floatsAt(ds, "High", rows),
		Low:            floatsAt(ds, "Low", rows),
		Close:          floatsAt(ds, "Close", rows),
		Style:          style,
		DefaultVisible: true,
	}
}

func realizeRule(ds *dataset.Dataset, rule traceRule) (Trace, bool) {
	switch rule.kind {
	case TraceKindLine:
		return realizeLine(ds, rule)
	case TraceKindMarker, TraceKindTextMarker:
		return realizeMarker(ds, rule)
	case TraceKindBar:
		return realizeBar(ds, rule)
	default:
		return Trace{}, false
	}
}

func realizeLine(ds *dataset.Dataset, rule traceRule) (Trace, bool) {
	if !ds.HasColumn(rule.valueColumn) {
		return Trace{}, false
	}

	allRows := make([]int, ds.NumRows())
	for i := range allRows {
		allRows[i] = i
	}

	return Trace{
		PanelIndex:     rule.panel,
		Kind:           TraceKindLine,
		Name:           rule.name,
		X:              timesAt(ds.Index(), allRows),
		Y:              floatsAt(ds, rule.valueColumn, allRows),
		Style:          rule.style,
		DefaultVisible: !rule.hidden,
	}, true
}

// realizeMarker gates on the boolean signal column: both the signal and its
// paired price column must be present, and at least one row must be true.
func realizeMarker(ds *dataset.Dataset, rule traceRule) (Trace, bool) {
	signal := ds.Column(rule.signalColumn)
	if signal.IsNone() || !ds.HasColumn(rule.priceColumn) {
		return Trace{}, false
	}

	rows := make([]int, 0)

	for i, v := range signal.Unwrap() {
		if v.Truthy() {
			rows = append(rows, i)
		}
	}

	if len(rows) == 0 {
		return Trace{}, false
	}

	y := floatsAt(ds, rule.priceColumn, rows)
	for i := range y {
		y[i] *= rule.priceScale
	}

	trace := Trace{
		PanelIndex:     rule.panel,
		Kind:           rule.kind,
		Name:           rule.name,
		X:              timesAt(ds.Index(), rows),
		Y:              y,
		Style:          rule.style,
		DefaultVisible: !rule.hidden,
	}

	if rule.kind == TraceKindTextMarker {
		text := make([]string, len(rows))
		for i := range text {
			text[i] = rule.text
		}

		trace.Text = text
	}

	return trace, true
}

func realizeBar(ds *dataset.Dataset, rule traceRule) (Trace, bool) {
	if !ds.HasColumn(rule.valueColumn) {
		return Trace{}, false
	}

	allRows := make([]int, ds.NumRows())
	for i := range allRows {
		allRows[i] = i
	}

	trace := Trace{
		PanelIndex:     rule.panel,
		Kind:           TraceKindBar,
		Name:           rule.name,
		X:              timesAt(ds.Index(), allRows),
		Y:              floatsAt(ds, rule.valueColumn, allRows),
		Style:          rule.style,
		DefaultVisible: !rule.hidden,
	}

	if rule.colorColumn != "" {
		if colors := ds.Column(rule.colorColumn); colors.IsSome() {
			values := colors.Unwrap()

			perPoint := make([]string, len(values))
			for i, v := range values {
				perPoint[i], _ = v.Str()
			}

			trace.Colors = perPoint
		}
	}

	return trace, true
}

func rowsMatching(values []dataset.Value, match string) []int {
	rows := make([]int, 0)

	for i, v := range values {
		if s, ok := v.Str(); ok && s == match {
			rows = append(rows, i)
		}
	}

	return rows
}

func timesAt(index []time.Time, rows []int) []time.Time {
	out := make([]time.Time, 0, len(rows))

	for _, i := range rows {
		if i < len(index) {
			out = append(out, index[i])
		} else {
			out = append(out, time.Time{})
		}
	}

	return out
}

func floatsAt(ds *dataset.Dataset, column string, rows []int) []float64 {
	values := ds.Column(column).Unwrap()

	out := make([]float64, 0, len(rows))

	for _, i := range rows {
		if f, ok := values[i].Number(); ok {
			out = append(out, f)
		} else {
			out = append(out, math.NaN())
		}
	}

	return out
}
