package plotter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/stratviz-lab/stratviz/internal/logger"
	"github.com/stratviz-lab/stratviz/internal/store"
	"github.com/stratviz-lab/stratviz/pkg/errors"
)

const swingPayload = `{
	"Date": ["2024-01-02", "2024-01-03", "2024-01-04"],
	"Open": [100, 101, 102],
	"High": [102, 103, 104],
	"Low": [99, 100, 101],
	"Close": [101, 102, 103],
	"MA20": [100.5, 101.5, 102.5],
	"Entry_Buy_Signal": [false, true, false],
	"Entry_Buy_Price": [null, 100.2, null]
}`

type ClientTestSuite struct {
	suite.Suite
	logger *logger.Logger
	store  store.DatasetStore
	client *Client
}

func TestClientSuite(t *testing.T) {
	suite.Run(t, new(ClientTestSuite))
}

func (suite *ClientTestSuite) SetupSuite() {
	log, err := logger.NewLogger()
	suite.Require().NoError(err)
	suite.logger = log
}

func (suite *ClientTestSuite) SetupTest() {
	s, err := store.NewFilesystemStore(suite.T().TempDir(), suite.logger)
	suite.Require().NoError(err)
	suite.store = s

	ctx := context.Background()
	suite.Require().NoError(s.Put(ctx, "daily/swing/AAPL.json", []byte(swingPayload)))
	suite.Require().NoError(s.Put(ctx, "daily/swing/broken.json", []byte(`[1, 2]`)))

	client, err := NewClient(ClientConfig{Store: s, Logger: suite.logger})
	suite.Require().NoError(err)
	suite.client = client
}

func (suite *ClientTestSuite) TestNewClientRequiresStore() {
	_, err := NewClient(ClientConfig{Logger: suite.logger})
	suite.Error(err)
}

func (suite *ClientTestSuite) TestListDatasets() {
	keys, err := suite.client.ListDatasets(context.Background(), "daily/")
	suite.NoError(err)
	suite.Equal([]string{"daily/swing/AAPL.json", "daily/swing/broken.json"}, keys)
}

func (suite *ClientTestSuite) TestLoadDataset() {
	loadID, err := suite.client.LoadDataset(context.Background(), "daily/swing/AAPL.json")
	suite.NoError(err)
	suite.NotEmpty(loadID)
}

func (suite *ClientTestSuite) TestLoadDatasetMissingKey() {
	_, err := suite.client.LoadDataset(context.Background(), "daily/swing/TSLA.json")
	suite.Error(err)
	suite.True(errors.IsStoreError(err))
}

func (suite *ClientTestSuite) TestLoadDatasetDecodeFailure() {
	_, err := suite.client.LoadDataset(context.Background(), "daily/swing/broken.json")
	suite.Error(err)
	suite.True(errors.IsDecodeError(err))
}

func (suite *ClientTestSuite) TestBuildPlotLoadsOnDemand() {
	result, err := suite.client.BuildPlot(context.Background(), PlotRequest{
		Key:       "daily/swing/AAPL.json",
		Mode:      "swing",
		Timeframe: "daily",
		Ticker:    "AAPL",
	})
	suite.NoError(err)
	suite.NotEmpty(result.LoadID)
	suite.Equal("daily/swing/AAPL.json", result.Key)
	suite.Len(result.Layout.Panels, 2)
	suite.Equal("Daily Swing – AAPL: Candlestick + MA(20/40) + Dynamic SLs", result.Layout.Panels[0].Title)

	names := make([]string, 0, len(result.Plan.Traces))
	for _, trace := range result.Plan.Traces {
		names = append(names, trace.Name)
	}

	suite.Equal([]string{"Candlestick", "MA 20", "Entry_Buy_Signal"}, names)
}

func (suite *ClientTestSuite) TestBuildPlotReusesSession() {
	ctx := context.Background()

	loadID, err := suite.client.LoadDataset(ctx, "daily/swing/AAPL.json")
	suite.Require().NoError(err)

	// empty key means "whatever is loaded"
	result, err := suite.client.BuildPlot(ctx, PlotRequest{
		Mode:      "positioning",
		Timeframe: "weekly",
		Ticker:    "AAPL",
	})
	suite.NoError(err)
	suite.Equal(loadID, result.LoadID)
	suite.Equal("daily/swing/AAPL.json", result.Key)
	suite.Equal("Weekly Positioning – AAPL: Candlestick + Signals", result.Layout.Panels[0].Title)
}

func (suite *ClientTestSuite) TestBuildPlotSwitchesDataset() {
	ctx := context.Background()

	first, err := suite.client.LoadDataset(ctx, "daily/swing/AAPL.json")
	suite.Require().NoError(err)

	suite.Require().NoError(suite.store.Put(ctx, "weekly/swing/MSFT.json", []byte(swingPayload)))

	result, err := suite.client.BuildPlot(ctx, PlotRequest{
		Key:       "weekly/swing/MSFT.json",
		Mode:      "swing",
		Timeframe: "weekly",
		Ticker:    "MSFT",
	})
	suite.NoError(err)
	suite.NotEqual(first, result.LoadID)
	suite.Equal("weekly/swing/MSFT.json", result.Key)
}

func (suite *ClientTestSuite) TestBuildPlotRejectsUnknownMode() {
	_, err := suite.client.BuildPlot(context.Background(), PlotRequest{
		Key:       "daily/swing/AAPL.json",
		Mode:      "scalping",
		Timeframe: "daily",
		Ticker:    "AAPL",
	})
	suite.Error(err)
	suite.True(errors.IsUnknownStrategyError(err))
}

func (suite *ClientTestSuite) TestBuildPlotValidatesRequest() {
	_, err := suite.client.BuildPlot(context.Background(), PlotRequest{
		Key: "daily/swing/AAPL.json",
	})
	suite.Error(err)
}
