package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/stratviz-lab/stratviz/internal/config"
	"github.com/stratviz-lab/stratviz/internal/logger"
	"github.com/stratviz-lab/stratviz/internal/server"
	"github.com/stratviz-lab/stratviz/internal/store"
	"github.com/stratviz-lab/stratviz/pkg/plotter"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

// loadConfig reads the config file named by the flag, falling back to the
// defaults when no flag is given.
func loadConfig(cmd *cli.Command) (config.Config, error) {
	path := cmd.String("config")
	if path == "" {
		return config.DefaultConfig(), nil
	}

	return config.Load(path)
}

// buildClient wires the logger, store and plotter client from the config.
func buildClient(cfg config.Config) (*plotter.Client, *logger.Logger, error) {
	appLogger, err := logger.NewLoggerWithLevel(logger.ParseLevel(cfg.Log.Level))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}

	datasetStore, err := store.New(store.Config{
		Driver: store.Driver(cfg.Store.Driver),
		Path:   cfg.Store.Path,
	}, appLogger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open store: %w", err)
	}

	client, err := plotter.NewClient(plotter.ClientConfig{Store: datasetStore, Logger: appLogger})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create plotter client: %w", err)
	}

	return client, appLogger, nil
}

// serveAction starts the HTTP server and blocks until interrupted.
func serveAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if addr := cmd.String("addr"); addr != "" {
		cfg.Server.Addr = addr
	}

	client, appLogger, err := buildClient(cfg)
	if err != nil {
		return err
	}

	defer client.Close()

	srv := server.NewServer(client, cfg.Server, appLogger)
	if err := srv.Start(); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	<-sigCtx.Done()

	appLogger.Info("shutting down", zap.String("addr", srv.Address()))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Stop(shutdownCtx)
}

// planAction builds a single plot plan and prints it as JSON.
func planAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	client, _, err := buildClient(cfg)
	if err != nil {
		return err
	}

	defer client.Close()

	result, err := client.BuildPlot(ctx, plotter.PlotRequest{
		Key:       cmd.String("key"),
		Mode:      cmd.String("mode"),
		Timeframe: cmd.String("timeframe"),
		Ticker:    cmd.String("ticker"),
	})
	if err != nil {
		return fmt.Errorf("failed to build plot: %w", err)
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")

	return encoder.Encode(result)
}

// schemaAction prints the JSON schema of the config file.
func schemaAction(_ context.Context, _ *cli.Command) error {
	cfg := config.DefaultConfig()

	schemaJSON, err := cfg.GenerateSchemaJSON()
	if err != nil {
		return fmt.Errorf("failed to generate schema: %w", err)
	}

	fmt.Println(schemaJSON)

	return nil
}

func main() {
	configFlag := &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to the YAML configuration file",
	}

	cmd := &cli.Command{
		Name:  "stratviz",
		Usage: "Serve and plot trading-strategy result datasets",
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Start the HTTP server",
				Flags: []cli.Flag{
					configFlag,
					&cli.StringFlag{
						Name:    "addr",
						Aliases: []string{"a"},
						Usage:   "Listen address, overrides the config file",
					},
				},
				Action: serveAction,
			},
			{
				Name:  "plan",
				Usage: "Build one plot plan and print it as JSON",
				Flags: []cli.Flag{
					configFlag,
					&cli.StringFlag{
						Name:     "key",
						Aliases:  []string{"k"},
						Usage:    "Stored payload key",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "mode",
						Aliases:  []string{"m"},
						Usage:    "Strategy mode (swing, positioning)",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "timeframe",
						Aliases: []string{"f"},
						Usage:   "Dataset timeframe (daily, weekly)",
						Value:   "daily",
					},
					&cli.StringFlag{
						Name:     "ticker",
						Aliases:  []string{"t"},
						Usage:    "Ticker symbol for panel titles",
						Required: true,
					},
				},
				Action: planAction,
			},
			{
				Name:   "schema",
				Usage:  "Print the configuration file JSON schema",
				Action: schemaAction,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
