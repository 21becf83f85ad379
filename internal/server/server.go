// Package server exposes the plotting pipeline over HTTP.
package server

import (
	"context"
	"fmt"
	"net"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/stratviz-lab/stratviz/internal/config"
	"github.com/stratviz-lab/stratviz/internal/logger"
	"github.com/stratviz-lab/stratviz/pkg/plotter"
	"go.uber.org/zap"
)

// Server serves the dataset and plot endpoints.
type Server struct {
	client *plotter.Client
	logger *logger.Logger
	config config.ServerConfig

	httpServer *http.Server
	listener   net.Listener
}

// NewServer creates a server around an already constructed plotter client.
func NewServer(client *plotter.Client, cfg config.ServerConfig, log *logger.Logger) *Server {
	return &Server{
		client: client,
		logger: log,
		config: cfg,
	}
}

// Router builds the HTTP routing table.
func (s *Server) Router() http.Handler {
	router := mux.NewRouter()

	router.HandleFunc("/api/v1/health", s.handleHealth).Methods("GET")
	router.HandleFunc("/api/v1/datasets", s.handleListDatasets).Methods("GET")
	router.HandleFunc("/api/v1/datasets/{key:.+}", s.handleUploadDataset).Methods("PUT")
	router.HandleFunc("/api/v1/load", s.handleLoadDataset).Methods("POST")
	router.HandleFunc("/api/v1/plot", s.handlePlot).Methods("POST")

	router.Use(s.requestLogMiddleware)

	return router
}

// Start begins serving on the configured address. It returns once the
// listener is bound; serving continues on a background goroutine.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return fmt.Errorf("failed to create listener: %w", err)
	}

	s.listener = listener

	s.httpServer = &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: s.config.ReadTimeout,
		ReadTimeout:       s.config.ReadTimeout,
		WriteTimeout:      s.config.WriteTimeout,
	}

	go func() {
		if err := s.httpServer.Serve(listener); err != http.ErrServerClosed {
			s.logger.Error("http server error", zap.Error(err))
		}
	}()

	s.logger.Info("server listening", zap.String("addr", s.Address()))

	return nil
}

// Stop gracefully shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}

	return s.httpServer.Shutdown(ctx)
}

// Address returns the bound listen address.
func (s *Server) Address() string {
	if s.listener == nil {
		return ""
	}

	return s.listener.Addr().String()
}
