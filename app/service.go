// Package app assembles the trainer and the prediction service from configuration.
package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/kilianp07/routetime/api"
	"github.com/kilianp07/routetime/api/predict"
	"github.com/kilianp07/routetime/config"
	coremetrics "github.com/kilianp07/routetime/core/metrics"
	"github.com/kilianp07/routetime/core/prediction"
	"github.com/kilianp07/routetime/infra/artifact"
	"github.com/kilianp07/routetime/infra/logger"
	_ "github.com/kilianp07/routetime/infra/metrics" // registers metrics sinks
)

// Service serves predictions from one loaded model.
type Service struct {
	Model  *artifact.Artifact
	server *http.Server
	sink   coremetrics.MetricsSink
	cfg    config.ServerConfig
	log    logger.Logger
}

// New loads the model artifact and builds the HTTP server. A missing or
// incompatible artifact is an error; there is no fallback model.
func New(cfg *config.Config, log logger.Logger) (*Service, error) {
	model, err := artifact.Load(cfg.Model.Path)
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}
	log.Infow("model loaded", map[string]any{
		"model_id":   model.ID,
		"path":       cfg.Model.Path,
		"trained_at": model.TrainedAt,
		"samples":    model.Samples,
		"trees":      len(model.Forest.Trees),
	})

	sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}

	engine := prediction.NewEngine(model, prediction.DefaultPolicy)
	handler := predict.NewHandler(engine, model.ID, sink, logger.New("predict"))
	router := api.NewRouter(handler, model.ID, logger.New("http"))

	return &Service{
		Model: model,
		server: &http.Server{
			Addr:              cfg.Server.Address,
			Handler:           router,
			ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout(),
		},
		sink: sink,
		cfg:  cfg.Server,
		log:  log,
	}, nil
}

// Handler returns the service router.
func (s *Service) Handler() http.Handler { return s.server.Handler }

// Run listens on the configured address and serves until ctx is cancelled.
func (s *Service) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Address)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Address, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully.
func (s *Service) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Infof("prediction service listening on %s", ln.Addr())
		errCh <- s.server.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout())
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.log.Infof("prediction service stopped")
	return nil
}

// Close releases the metrics sinks.
func (s *Service) Close() error { return coremetrics.Close(s.sink) }
