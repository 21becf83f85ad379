package planner

import "time"

// TraceKind is the renderable kind of one trace.
type TraceKind string

const (
	TraceKindPriceRange TraceKind = "price_range"
	TraceKindLine       TraceKind = "line"
	TraceKindMarker     TraceKind = "marker"
	TraceKindBar        TraceKind = "bar"
	TraceKindTextMarker TraceKind = "text_marker"
)

// Style holds the fixed styling constants of a trace or reference line.
type Style struct {
	Color           string  `json:"color,omitempty"`
	IncreasingColor string  `json:"increasing_color,omitempty"`
	DecreasingColor string  `json:"decreasing_color,omitempty"`
	Dash            string  `json:"dash,omitempty"`
	Symbol          string  `json:"symbol,omitempty"`
	Size            float64 `json:"size,omitempty"`
	Width           float64 `json:"width,omitempty"`
}

// Trace is one realized visual series bound to actual column data.
type Trace struct {
	PanelIndex int       `json:"panel_index"`
	Kind       TraceKind `json:"kind"`
	Name       string    `json:"name"`

	X []time.Time `json:"x"`

	// Y is set for line, marker, bar and text_marker traces.
	Y []float64 `json:"y,omitempty"`

	// Open/High/Low/Close are set for price_range traces.
	Open  []float64 `json:"open,omitempty"`
	High  []float64 `json:"high,omitempty"`
	Low   []float64 `json:"low,omitempty"`
	Close []float64 `json:"close,omitempty"`

	// Text carries the glyphs of text_marker traces, one per point.
	Text []string `json:"text,omitempty"`

	// Colors carries per-point colors for bar traces.
	Colors []string `json:"colors,omitempty"`

	Style Style `json:"style"`

	// DefaultVisible distinguishes "hidden until legend interaction" from
	// absent: a present trace with DefaultVisible=false still occupies its
	// legend slot.
	DefaultVisible bool `json:"default_visible"`
}

// ReferenceLine is a fixed horizontal line on a panel.
type ReferenceLine struct {
	PanelIndex int     `json:"panel_index"`
	Value      float64 `json:"value"`
	Style      Style   `json:"style"`
}

// PlotPlan is the sole contract between this core and the presentation
// layer: the selected panel layout plus the realized traces and reference
// lines, in a fixed emission order consumers may rely on for stable legend
// ordering. It is constructed fresh per request and never shared.
type PlotPlan struct {
	Panels         []Panel         `json:"panels"`
	Traces         []Trace         `json:"traces"`
	ReferenceLines []ReferenceLine `json:"reference_lines"`
}
