// Package planner selects the panel layout for a strategy context and
// builds the declarative plot plan from whichever columns the normalized
// dataset happens to carry.
package planner

import (
	"strings"

	"github.com/stratviz-lab/stratviz/pkg/errors"
)

// Mode is the trading-strategy presentation mode.
type Mode string

const (
	ModeSwing       Mode = "swing"
	ModePositioning Mode = "positioning"
)

// Timeframe is the sampling granularity of the underlying dataset. It only
// affects display titles.
type Timeframe string

const (
	TimeframeDaily  Timeframe = "daily"
	TimeframeWeekly Timeframe = "weekly"
)

// StrategyContext is the immutable per-request plot context. Construct it
// with NewStrategyContext; invalid values are rejected there, so downstream
// planning is total.
type StrategyContext struct {
	Mode      Mode
	Timeframe Timeframe
	Ticker    string
}

// NewStrategyContext validates and builds a strategy context.
func NewStrategyContext(mode, timeframe, ticker string) (StrategyContext, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(mode)))
	if m != ModeSwing && m != ModePositioning {
		return StrategyContext{}, errors.Newf(errors.ErrCodeUnknownStrategyMode, "unknown strategy mode %q", mode).WithDetail(mode)
	}

	tf := Timeframe(strings.ToLower(strings.TrimSpace(timeframe)))
	if tf != TimeframeDaily && tf != TimeframeWeekly {
		return StrategyContext{}, errors.Newf(errors.ErrCodeUnknownTimeframe, "unknown timeframe %q", timeframe).WithDetail(timeframe)
	}

	return StrategyContext{Mode: m, Timeframe: tf, Ticker: ticker}, nil
}

// titleTimeframe renders the timeframe the way panel titles expect it.
func (c StrategyContext) titleTimeframe() string {
	switch c.Timeframe {
	case TimeframeWeekly:
		return "Weekly"
	default:
		return "Daily"
	}
}
