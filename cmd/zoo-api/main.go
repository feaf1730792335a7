// zoo-api serves the zoo CRUD API.
//
//	zoo-api [serve] --config config/local.yaml
//	zoo-api openapi --format yaml > openapi.yaml
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aanand-mishra/zoo-api/internal/app"
	"github.com/aanand-mishra/zoo-api/internal/config"
	"github.com/aanand-mishra/zoo-api/internal/docs"
	"github.com/aanand-mishra/zoo-api/internal/logger"
)

// Version is set at build time via -ldflags "-X main.Version=...".
var Version = "dev"

var configPath string

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	serveCmd := newServeCmd()

	root := &cobra.Command{
		Use:          "zoo-api",
		Short:        "CRUD API for users, zookeepers, habitats and animals",
		Version:      Version,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE:         serveCmd.RunE,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "",
		"path to the configuration YAML file (falls back to CONFIG_PATH, then environment only)")

	root.AddCommand(serveCmd, newOpenAPICmd())
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server (default command)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context())
		},
	}
}

func serve(ctx context.Context) error {
	cfg := config.MustLoad(configPath)

	log := logger.New(cfg.Env, os.Stdout)
	slog.SetDefault(log)

	log.Info("starting zoo-api",
		slog.String("env", cfg.Env),
		slog.String("version", Version),
		slog.String("storage", cfg.Storage.Backend),
		slog.String("id_scheme", cfg.IDScheme),
	)

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Error("failed to initialise application", slog.String("error", err.Error()))
		return err
	}
	log.Info("storage initialised", slog.String("backend", cfg.Storage.Backend))

	serverErr := make(chan error, 1)
	go func() {
		log.Info("server started",
			slog.String("address", cfg.HTTPServer.Addr),
			slog.String("docs", "http://"+cfg.HTTPServer.Addr+"/doc"),
		)
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	select {
	case <-done:
		log.Info("shutdown signal received, stopping server...")
	case err := <-serverErr:
		log.Error("server encountered an error", slog.String("error", err.Error()))
		_ = a.Stores.Close(context.Background())
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPServer.ShutdownTimeout)
	defer cancel()

	if err := a.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to shutdown server gracefully", slog.String("error", err.Error()))
		return err
	}

	log.Info("server stopped gracefully")
	return nil
}

func newOpenAPICmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "openapi",
		Short: "Print the OpenAPI document to stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ids, err := app.NewIDs(config.IDSchemeUUID)
			if err != nil {
				return err
			}
			doc := docs.Build(app.Routes(app.MemoryStores(ids), logger.Nop()), docs.DefaultInfo)

			var out []byte
			switch format {
			case "json":
				out, err = docs.JSON(doc)
			case "yaml":
				out, err = docs.YAML(doc)
			default:
				return fmt.Errorf("unknown format %q: use json or yaml", format)
			}
			if err != nil {
				return err
			}

			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format: json or yaml")
	return cmd
}
