// Package plotter is the public entry point for turning stored strategy
// result payloads into declarative plot plans.
package plotter

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/stratviz-lab/stratviz/internal/dataset"
	"github.com/stratviz-lab/stratviz/internal/logger"
	"github.com/stratviz-lab/stratviz/internal/normalizer"
	"github.com/stratviz-lab/stratviz/internal/planner"
	"github.com/stratviz-lab/stratviz/internal/resolver"
	"github.com/stratviz-lab/stratviz/internal/session"
	"github.com/stratviz-lab/stratviz/internal/store"
	"go.uber.org/zap"
)

// ClientConfig holds the collaborators of a plotter client.
type ClientConfig struct {
	Store  store.DatasetStore `validate:"required"`
	Logger *logger.Logger     `validate:"required"`
}

// PlotRequest describes one plot to build. Key selects the stored payload;
// an empty Key reuses the dataset most recently loaded by this client.
type PlotRequest struct {
	Key       string
	Mode      string `validate:"required"`
	Timeframe string `validate:"required"`
	Ticker    string `validate:"required"`
}

// PlotResult pairs the built plan with the session identifier of the
// dataset it was built from.
type PlotResult struct {
	LoadID string              `json:"load_id"`
	Key    string              `json:"key"`
	Layout planner.PanelLayout `json:"layout"`
	Plan   *planner.PlotPlan   `json:"plan"`
}

// Client loads datasets from the store and builds plot plans from them.
type Client struct {
	store    store.DatasetStore
	logger   *logger.Logger
	session  *session.Session
	validate *validator.Validate
}

// NewClient creates a plotter client with the given configuration.
func NewClient(config ClientConfig) (*Client, error) {
	validate := validator.New()
	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("invalid client configuration: %w", err)
	}

	return &Client{
		store:    config.Store,
		logger:   config.Logger,
		session:  session.NewSession(config.Logger),
		validate: validate,
	}, nil
}

// ListDatasets returns the stored payload keys matching the prefix.
func (c *Client) ListDatasets(ctx context.Context, prefix string) ([]string, error) {
	return c.store.List(ctx, prefix)
}

// PutDataset uploads a raw payload under key, overwriting any existing one.
// The payload is checked to decode before it is stored.
func (c *Client) PutDataset(ctx context.Context, key string, body []byte) error {
	if _, err := resolver.Resolve(body); err != nil {
		return err
	}

	return c.store.Put(ctx, key, body)
}

// LoadDataset fetches, decodes and normalizes the payload stored under key,
// then installs it as the client's current dataset. It returns the load
// identifier assigned to the dataset.
func (c *Client) LoadDataset(ctx context.Context, key string) (string, error) {
	payload, err := c.store.Fetch(ctx, key)
	if err != nil {
		return "", err
	}

	ds, err := resolver.Resolve(payload.Body)
	if err != nil {
		return "", err
	}

	ds, err = normalizer.Normalize(ds)
	if err != nil {
		return "", err
	}

	loadID := c.session.SetDataset(key, ds)

	c.logger.Info("dataset ready",
		zap.String("key", key),
		zap.String("load_id", loadID),
		zap.Int("rows", ds.NumRows()),
		zap.Strings("columns", ds.Columns()),
	)

	return loadID, nil
}

// BuildPlot builds the plot plan for one request, loading the dataset first
// when the session does not already hold it.
func (c *Client) BuildPlot(ctx context.Context, req PlotRequest) (*PlotResult, error) {
	if err := c.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid plot request: %w", err)
	}

	strategyCtx, err := planner.NewStrategyContext(req.Mode, req.Timeframe, req.Ticker)
	if err != nil {
		return nil, err
	}

	key, ds, err := c.currentDataset(ctx, req.Key)
	if err != nil {
		return nil, err
	}

	layout := planner.PlanLayout(strategyCtx)

	plan, err := planner.BuildPlan(ds, layout, strategyCtx.Mode)
	if err != nil {
		return nil, err
	}

	return &PlotResult{
		LoadID: c.session.LoadID(),
		Key:    key,
		Layout: layout,
		Plan:   plan,
	}, nil
}

// currentDataset returns the session dataset when it satisfies the requested
// key, loading from the store otherwise.
func (c *Client) currentDataset(ctx context.Context, key string) (string, *dataset.Dataset, error) {
	sessionKey, ds, ok := c.session.Dataset()
	if ok && (key == "" || key == sessionKey) {
		return sessionKey, ds, nil
	}

	if key == "" {
		key = sessionKey
	}

	if _, err := c.LoadDataset(ctx, key); err != nil {
		return "", nil, err
	}

	sessionKey, ds, _ = c.session.Dataset()

	return sessionKey, ds, nil
}

// Close releases the underlying store.
func (c *Client) Close() error {
	return c.store.Close()
}
