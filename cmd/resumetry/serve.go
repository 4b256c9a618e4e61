package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/resumetry/backend/internal/api"
	"github.com/resumetry/backend/internal/config"
	"github.com/resumetry/backend/internal/ddblocal"
	"github.com/resumetry/backend/internal/store"
)

func newServeCmd() *cobra.Command {
	var local bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if local {
				cfg.Store.Local = true
			}
			return serve(cfg)
		},
	}
	cmd.Flags().BoolVar(&local, "local", false, "use the embedded local store instead of DynamoDB")
	return cmd
}

func serve(cfg config.Config) error {
	setupLogging(cfg.Log.Level)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	def := store.Definition(cfg.Store.Table)

	var ddb store.DynamoClient
	if cfg.Store.Local {
		local, err := ddblocal.Open(ddblocal.Options{Path: cfg.Store.DataDir}, def)
		if err != nil {
			return fmt.Errorf("open local store: %w", err)
		}
		defer local.Close()
		slog.Info("using embedded local store", "dataDir", cfg.Store.DataDir)
		ddb = local
	} else {
		client, err := store.NewDynamoClient(ctx, cfg.Store.Region, cfg.Store.Endpoint)
		if err != nil {
			return err
		}
		if err := store.EnsureTable(ctx, client, def); err != nil {
			return err
		}
		ddb = client
	}

	apps := store.NewApplications(ddb, def)

	handler := api.NewRouter(api.Deps{
		Store:       apps,
		Version:     version,
		CORSOrigins: cfg.Server.CORSOrigins,
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("listening", "addr", addr, "table", cfg.Store.Table)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutting down")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func setupLogging(level string) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
}
