package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/yourname/devtrack/internal"
	"github.com/yourname/devtrack/internal/api"
	"github.com/yourname/devtrack/internal/auth"
	"github.com/yourname/devtrack/internal/storage"
)

const shutdownTimeout = 10 * time.Second

// server is the api.App the HTTP handlers run against.
type server struct {
	logger   internal.Logger
	store    storage.Store
	tokens   auth.TokenIssuer
	location *time.Location
}

func (s *server) Logger() internal.Logger   { return s.logger }
func (s *server) Store() storage.Store      { return s.store }
func (s *server) Tokens() auth.TokenIssuer  { return s.tokens }
func (s *server) Location() *time.Location { return s.location }

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func runServe(ctx context.Context) error {
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := storage.Open(ctx, cfg.DBType, cfg.DBDSN, cfg.DataFile, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Errorf("closing storage: %v", err)
		}
	}()

	provider, tokens, err := auth.NewProvider(auth.Options{
		Mode:       cfg.AuthMode,
		Secret:     cfg.SessionSecret,
		TTL:        cfg.SessionTTL,
		ServiceURL: cfg.AuthServiceURL,
	}, store, logger)
	if err != nil {
		return err
	}

	app := &server{logger: logger, store: store, tokens: tokens, location: cfg.Location()}
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           api.NewRouter(app, provider, cfg.CORSOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("Server running on :%s (storage=%s, auth=%s)", cfg.Port, cfg.DBType, cfg.AuthMode)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
