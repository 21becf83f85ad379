package planner

import (
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/stratviz-lab/stratviz/pkg/errors"
)

type LayoutTestSuite struct {
	suite.Suite
}

func TestLayoutSuite(t *testing.T) {
	suite.Run(t, new(LayoutTestSuite))
}

func (suite *LayoutTestSuite) TestNewStrategyContext() {
	ctx, err := NewStrategyContext("swing", "daily", "AAPL")
	suite.NoError(err)
	suite.Equal(ModeSwing, ctx.Mode)
	suite.Equal(TimeframeDaily, ctx.Timeframe)
	suite.Equal("AAPL", ctx.Ticker)

	// construction normalizes case and whitespace
	ctx, err = NewStrategyContext(" Positioning ", "WEEKLY", "MSFT")
	suite.NoError(err)
	suite.Equal(ModePositioning, ctx.Mode)
	suite.Equal(TimeframeWeekly, ctx.Timeframe)
}

func (suite *LayoutTestSuite) TestUnknownStrategyErrors() {
	_, err := NewStrategyContext("scalping", "daily", "AAPL")
	suite.Error(err)
	suite.True(errors.IsUnknownStrategyError(err))
	suite.Equal(errors.ErrCodeUnknownStrategyMode, errors.GetCode(err))

	_, err = NewStrategyContext("swing", "hourly", "AAPL")
	suite.Error(err)
	suite.True(errors.IsUnknownStrategyError(err))
	suite.Equal(errors.ErrCodeUnknownTimeframe, errors.GetCode(err))
}

func (suite *LayoutTestSuite) TestSwingLayout() {
	ctx, err := NewStrategyContext("swing", "daily", "AAPL")
	suite.NoError(err)

	layout := PlanLayout(ctx)
	suite.Len(layout.Panels, 2)
	suite.Equal(0.7, layout.Panels[0].HeightFraction)
	suite.Equal(0.3, layout.Panels[1].HeightFraction)
	suite.Equal("Daily Swing – AAPL: Candlestick + MA(20/40) + Dynamic SLs", layout.Panels[0].Title)
	suite.Equal("Daily Swing – AAPL: CCI(6) + MA(1)", layout.Panels[1].Title)
	suite.True(layout.Panels[0].SharesXAxis)
	suite.True(layout.Panels[1].SharesXAxis)
}

func (suite *LayoutTestSuite) TestPositioningLayout() {
	ctx, err := NewStrategyContext("positioning", "weekly", "AAPL")
	suite.NoError(err)

	layout := PlanLayout(ctx)
	suite.Len(layout.Panels, 2)
	suite.Equal(0.5, layout.Panels[0].HeightFraction)
	suite.Equal(0.3, layout.Panels[1].HeightFraction)
	suite.Equal("Weekly Positioning – AAPL: Candlestick + Signals", layout.Panels[0].Title)
	suite.Equal("Weekly Positioning – AAPL: TIF", layout.Panels[1].Title)
}

func (suite *LayoutTestSuite) TestPlanLayoutIsPure() {
	ctx, err := NewStrategyContext("swing", "weekly", "NVDA")
	suite.NoError(err)

	first := PlanLayout(ctx)
	second := PlanLayout(ctx)
	suite.Equal(first, second)
}

func (suite *LayoutTestSuite) TestTimeframeOnlyChangesTitles() {
	daily, err := NewStrategyContext("swing", "daily", "AAPL")
	suite.NoError(err)
	weekly, err := NewStrategyContext("swing", "weekly", "AAPL")
	suite.NoError(err)

	dailyLayout := PlanLayout(daily)
	weeklyLayout := PlanLayout(weekly)

	suite.Equal(len(dailyLayout.Panels), len(weeklyLayout.Panels))

	for i := range dailyLayout.Panels {
		suite.Equal(dailyLayout.Panels[i].HeightFraction, weeklyLayout.Panels[i].HeightFraction)
		suite.NotEqual(dailyLayout.Panels[i].Title, weeklyLayout.Panels[i].Title)
	}
}
