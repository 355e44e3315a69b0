package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/The-One-Reborn-developer/servis-plus/internal/config"
	"github.com/The-One-Reborn-developer/servis-plus/internal/handler"
	"github.com/The-One-Reborn-developer/servis-plus/internal/hub"
	"github.com/The-One-Reborn-developer/servis-plus/internal/repository/postgres"
)

// App is the main application container.
type App struct {
	Config  *config.Config
	Logger  *zap.Logger
	Hub     *hub.Hub
	Handler *handler.Handler
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "servis-plus",
		Short: "Delivery marketplace backend for the Servis-Plus Telegram Mini-App",
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP and websocket server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return postgres.RunMigrations(cfg.PostgresURL, cfg.MigrationsURL)
		},
	}

	rootCmd.AddCommand(serveCmd, migrateCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runServe() error {
	app, cleanup, err := InitializeApp()
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer cleanup()
	defer app.Logger.Sync()

	router := mux.NewRouter()
	app.Handler.RegisterRoutes(router)

	server := &http.Server{
		Addr:              ":" + app.Config.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		app.Logger.Info("server starting", zap.String("port", app.Config.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-signals:
		app.Logger.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	app.Hub.Clear()
	app.Logger.Info("server shutdown completed")
	return nil
}
