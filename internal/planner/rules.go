package planner

// traceRule is a static declarative binding from required column(s) to one
// realized trace. The two rule tables below are process-wide configuration,
// partitioned by mode and walked in declaration order: overlays first, then
// markers, then the secondary panel. A rule whose required columns are
// absent is skipped silently; marker rules additionally require at least
// one true row in their signal column.
type traceRule struct {
	name string
	kind TraceKind

	panel int

	// valueColumn is the y source for line and bar rules.
	valueColumn string

	// signalColumn gates marker and text_marker rules; priceColumn supplies
	// their y values, scaled by priceScale.
	signalColumn string
	priceColumn  string
	priceScale   float64

	// text is the glyph repeated per point on text_marker rules.
	text string

	// colorColumn optionally supplies per-point colors for bar rules.
	colorColumn string

	style Style

	// hidden traces are present in the plan but only shown on explicit
	// legend interaction.
	hidden bool

	// oscillator rules carry the fixed horizontal reference lines of the
	// secondary panel.
	withReferenceLines bool
}

// oscillatorReferenceLines are added unconditionally whenever the
// oscillator trace exists.
var oscillatorReferenceLines = []ReferenceLine{
	{PanelIndex: 1, Value: 100, Style: Style{Color: "green", Dash: "dash"}},
	{PanelIndex: 1, Value: 0, Style: Style{Color: "black"}},
	{PanelIndex: 1, Value: -100, Style: Style{Color: "red", Dash: "dash"}},
}

var swingRules = []traceRule{
	// price-panel overlays
	{name: "MA 20", kind: TraceKindLine, panel: 0, valueColumn: "MA20", style: Style{Color: "red", Width: 1.5}},
	{name: "MA 40", kind: TraceKindLine, panel: 0, valueColumn: "MA40", style: Style{Color: "blue", Width: 1.5}},
	{name: "SL 1x Lower", kind: TraceKindLine, panel: 0, valueColumn: "Dyn_SL_1x_Lower", style: Style{Color: "grey", Width: 1}, hidden: true},
	{name: "SL 2x Lower", kind: TraceKindLine, panel: 0, valueColumn: "Dyn_SL_2x_Lower", style: Style{Color: "grey", Width: 1}, hidden: true},
	{name: "SL 1x Upper", kind: TraceKindLine, panel: 0, valueColumn: "Dyn_SL_1x_Upper", style: Style{Color: "grey", Width: 1}, hidden: true},
	{name: "SL 2x Upper", kind: TraceKindLine, panel: 0, valueColumn: "Dyn_SL_2x_Upper", style: Style{Color: "grey", Width: 1}, hidden: true},
	{name: "Trailing SL 1x", kind: TraceKindLine, panel: 0, valueColumn: "Dyn_Trail_SL_1x", style: Style{Color: "grey", Width: 1}, hidden: true},
	{name: "Trailing SL 2x", kind: TraceKindLine, panel: 0, valueColumn: "Dyn_Trail_SL_2x", style: Style{Color: "grey", Width: 1}, hidden: true},
	// entry/exit markers at their paired prices
	{name: "Entry_Buy_Signal", kind: TraceKindMarker, panel: 0, signalColumn: "Entry_Buy_Signal", priceColumn: "Entry_Buy_Price", priceScale: 1, style: Style{Color: "green", Symbol: "triangle-up", Size: 10}},
	{name: "Entry_Buy_Signal2", kind: TraceKindMarker, panel: 0, signalColumn: "Entry_Buy_Signal2", priceColumn: "Entry_Buy_Price2", priceScale: 1, style: Style{Color: "purple", Symbol: "triangle-up", Size: 10}},
	{name: "Trigger_Sell_Signal", kind: TraceKindMarker, panel: 0, signalColumn: "Trigger_Sell_Signal", priceColumn: "Trigger_Sell_Price", priceScale: 1, style: Style{Color: "red", Symbol: "triangle-down", Size: 10}},
	// earnings markers float above the high
	{name: "Earnings", kind: TraceKindTextMarker, panel: 0, signalColumn: "is_earnings_date", priceColumn: "High", priceScale: 1.01, text: "E", style: Style{Color: "purple", Symbol: "star", Size: 12}},
	{name: "Earnings Ahead", kind: TraceKindTextMarker, panel: 0, signalColumn: "is_earnings_warning", priceColumn: "High", priceScale: 1.02, text: "!", style: Style{Color: "orange", Symbol: "diamond", Size: 10}},
	// secondary panel
	{name: "CCI (6)", kind: TraceKindLine, panel: 1, valueColumn: "CCI", style: Style{Color: "blue"}, withReferenceLines: true},
	{name: "CCI MA (1)", kind: TraceKindLine, panel: 1, valueColumn: "CCI_MA", style: Style{Color: "orange", Dash: "dot"}, hidden: true},
}

var positioningRules = []traceRule{
	{name: "SMA 40", kind: TraceKindLine, panel: 0, valueColumn: "SMA", style: Style{Color: "orange", Width: 1}},
	{name: "Entry Buy Signal", kind: TraceKindMarker, panel: 0, signalColumn: "entry_buy_signal", priceColumn: "Low", priceScale: 0.995, style: Style{Color: "green", Symbol: "triangle-up", Size: 10}},
	{name: "Entry Buy Signal 2", kind: TraceKindMarker, panel: 0, signalColumn: "entry_buy_signal2", priceColumn: "Low", priceScale: 0.995, style: Style{Color: "purple", Symbol: "triangle-up", Size: 10}},
	{name: "Trigger Sell Signal", kind: TraceKindMarker, panel: 0, signalColumn: "trigger_sell_signal", priceColumn: "High", priceScale: 1.005, style: Style{Color: "red", Symbol: "triangle-down", Size: 10}},
	{name: "Earnings", kind: TraceKindTextMarker, panel: 0, signalColumn: "is_earnings_date", priceColumn: "High", priceScale: 1.01, text: "E", style: Style{Color: "purple", Symbol: "star", Size: 12}},
	{name: "Earnings Ahead", kind: TraceKindTextMarker, panel: 0, signalColumn: "is_earnings_warning", priceColumn: "High", priceScale: 1.02, text: "!", style: Style{Color: "orange", Symbol: "diamond", Size: 10}},
	{name: "TIF", kind: TraceKindBar, panel: 1, valueColumn: "TIF", colorColumn: "TIF_color"},
}

func rulesForMode(mode Mode) []traceRule {
	if mode == ModePositioning {
		return positioningRules
	}

	return swingRules
}
