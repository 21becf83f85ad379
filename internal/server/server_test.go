package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/stratviz-lab/stratviz/internal/config"
	"github.com/stratviz-lab/stratviz/internal/logger"
	"github.com/stratviz-lab/stratviz/internal/store"
	"github.com/stratviz-lab/stratviz/pkg/plotter"
)

const positioningPayload = `{
	"Date": ["2024-01-02", "2024-01-03"],
	"Open": [100, 101],
	"High": [102, 103],
	"Low": [99, 100],
	"Close": [101, 102],
	"signal_type": ["buy", "sell"],
	"TIF": [3, 5]
}`

type ServerTestSuite struct {
	suite.Suite
	ts     *httptest.Server
	client *plotter.Client
}

func TestServerSuite(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}

func (suite *ServerTestSuite) SetupTest() {
	log, err := logger.NewLogger()
	suite.Require().NoError(err)

	s, err := store.NewFilesystemStore(suite.T().TempDir(), log)
	suite.Require().NoError(err)

	suite.Require().NoError(s.Put(context.Background(), "weekly/positioning/AAPL.json", []byte(positioningPayload)))

	client, err := plotter.NewClient(plotter.ClientConfig{Store: s, Logger: log})
	suite.Require().NoError(err)
	suite.client = client

	srv := NewServer(client, config.ServerConfig{
		Addr:         ":0",
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}, log)

	suite.ts = httptest.NewServer(srv.Router())
}

func (suite *ServerTestSuite) TearDownTest() {
	suite.ts.Close()
	suite.NoError(suite.client.Close())
}

func (suite *ServerTestSuite) get(path string) *http.Response {
	resp, err := http.Get(suite.ts.URL + path)
	suite.Require().NoError(err)

	return resp
}

func (suite *ServerTestSuite) postJSON(path string, body any) *http.Response {
	payload, err := json.Marshal(body)
	suite.Require().NoError(err)

	resp, err := http.Post(suite.ts.URL+path, "application/json", bytes.NewReader(payload))
	suite.Require().NoError(err)

	return resp
}

func (suite *ServerTestSuite) decode(resp *http.Response, out any) {
	defer resp.Body.Close()
	suite.Require().NoError(json.NewDecoder(resp.Body).Decode(out))
}

func (suite *ServerTestSuite) TestHealth() {
	resp := suite.get("/api/v1/health")
	suite.Equal(http.StatusOK, resp.StatusCode)
	suite.NotEmpty(resp.Header.Get("X-Request-Id"))

	var body map[string]string
	suite.decode(resp, &body)
	suite.Equal("ok", body["status"])
}

func (suite *ServerTestSuite) TestListDatasets() {
	resp := suite.get("/api/v1/datasets?prefix=weekly/")
	suite.Equal(http.StatusOK, resp.StatusCode)

	var body listResponse
	suite.decode(resp, &body)
	suite.Equal([]string{"weekly/positioning/AAPL.json"}, body.Keys)
}

func (suite *ServerTestSuite) TestListDatasetsEmpty() {
	resp := suite.get("/api/v1/datasets?prefix=nothing/")
	suite.Equal(http.StatusOK, resp.StatusCode)

	var body listResponse
	suite.decode(resp, &body)
	suite.Empty(body.Keys)
}

func (suite *ServerTestSuite) TestUploadDataset() {
	req, err := http.NewRequest(http.MethodPut,
		suite.ts.URL+"/api/v1/datasets/daily/swing/MSFT.json",
		bytes.NewReader([]byte(positioningPayload)))
	suite.Require().NoError(err)

	resp, err := http.DefaultClient.Do(req)
	suite.Require().NoError(err)
	suite.Equal(http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	list := suite.get("/api/v1/datasets?prefix=daily/")

	var body listResponse
	suite.decode(list, &body)
	suite.Equal([]string{"daily/swing/MSFT.json"}, body.Keys)
}

func (suite *ServerTestSuite) TestUploadRejectsUndecodablePayload() {
	req, err := http.NewRequest(http.MethodPut,
		suite.ts.URL+"/api/v1/datasets/daily/swing/bad.json",
		bytes.NewReader([]byte(`[1, 2, "mixed"]`)))
	suite.Require().NoError(err)

	resp, err := http.DefaultClient.Do(req)
	suite.Require().NoError(err)

	defer resp.Body.Close()
	suite.Equal(http.StatusUnprocessableEntity, resp.StatusCode)
}

func (suite *ServerTestSuite) TestLoadDataset() {
	resp := suite.postJSON("/api/v1/load", loadRequest{Key: "weekly/positioning/AAPL.json"})
	suite.Equal(http.StatusOK, resp.StatusCode)

	var body loadResponse
	suite.decode(resp, &body)
	suite.NotEmpty(body.LoadID)
	suite.Equal("weekly/positioning/AAPL.json", body.Key)
}

func (suite *ServerTestSuite) TestLoadDatasetNotFound() {
	resp := suite.postJSON("/api/v1/load", loadRequest{Key: "missing.json"})

	defer resp.Body.Close()
	suite.Equal(http.StatusNotFound, resp.StatusCode)
}

func (suite *ServerTestSuite) TestLoadDatasetRequiresKey() {
	resp := suite.postJSON("/api/v1/load", loadRequest{})

	defer resp.Body.Close()
	suite.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (suite *ServerTestSuite) TestPlot() {
	resp := suite.postJSON("/api/v1/plot", plotter.PlotRequest{
		Key:       "weekly/positioning/AAPL.json",
		Mode:      "positioning",
		Timeframe: "weekly",
		Ticker:    "AAPL",
	})
	suite.Equal(http.StatusOK, resp.StatusCode)

	var body plotter.PlotResult
	suite.decode(resp, &body)
	suite.NotEmpty(body.LoadID)
	suite.Len(body.Layout.Panels, 2)
	suite.Equal("Weekly Positioning – AAPL: Candlestick + Signals", body.Layout.Panels[0].Title)
	suite.NotEmpty(body.Plan.Traces)
}

func (suite *ServerTestSuite) TestPlotUnknownMode() {
	resp := suite.postJSON("/api/v1/plot", plotter.PlotRequest{
		Key:       "weekly/positioning/AAPL.json",
		Mode:      "scalping",
		Timeframe: "weekly",
		Ticker:    "AAPL",
	})

	var body errorResponse
	suite.decode(resp, &body)
	suite.Equal(http.StatusBadRequest, resp.StatusCode)
	suite.Equal("scalping", body.Detail)
	suite.NotEmpty(body.RequestID)
}

func (suite *ServerTestSuite) TestPlotMissingTicker() {
	resp := suite.postJSON("/api/v1/plot", plotter.PlotRequest{
		Key:       "weekly/positioning/AAPL.json",
		Mode:      "positioning",
		Timeframe: "weekly",
	})

	defer resp.Body.Close()
	suite.Equal(http.StatusBadRequest, resp.StatusCode)
}
