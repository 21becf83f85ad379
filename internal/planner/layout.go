package planner

import "fmt"

// Panel describes one stacked chart region.
type Panel struct {
	HeightFraction float64 `json:"height_fraction"`
	Title          string  `json:"title"`
	SharesXAxis    bool    `json:"shares_x_axis"`
}

// PanelLayout is the ordered panel template for one strategy context,
// selected once per request and immutable afterwards.
type PanelLayout struct {
	Panels []Panel `json:"panels"`
}

// PlanLayout selects the fixed panel template for the context. It is a pure
// total function over the enumerated mode/timeframe domain: only the mode
// picks the template, timeframe and ticker substitute into titles.
func PlanLayout(ctx StrategyContext) PanelLayout {
	tf := ctx.titleTimeframe()

	if ctx.Mode == ModePositioning {
		return PanelLayout{Panels: []Panel{
			{
				HeightFraction: 0.5,
				Title:          fmt.Sprintf("%s Positioning – %s: Candlestick + Signals", tf, ctx.Ticker),
				SharesXAxis:    true,
			},
			{
				HeightFraction: 0.3,
				Title:          fmt.Sprintf("%s Positioning – %s: TIF", tf, ctx.Ticker),
				SharesXAxis:    true,
			},
		}}
	}

	return PanelLayout{Panels: []Panel{
		{
			HeightFraction: 0.7,
			Title:          fmt.Sprintf("%s Swing – %s: Candlestick + MA(20/40) + Dynamic SLs", tf, ctx.Ticker),
			SharesXAxis:    true,
		},
		{
			HeightFraction: 0.3,
			Title:          fmt.Sprintf("%s Swing – %s: CCI(6) + MA(1)", tf, ctx.Ticker),
			SharesXAxis:    true,
		},
	}}
}
