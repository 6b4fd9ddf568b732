package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gerrit-reviewstats/api"
	"gerrit-reviewstats/internal/config"
	"gerrit-reviewstats/internal/handler"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newServeCmd(cfg *config.Config, logger *logrus.Logger) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve reviewer statistics over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			if port != "" {
				cfg.ServerPort = port
			}
			return runServer(*cfg, logger)
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "Listen port (default SERVER_PORT)")

	return cmd
}

func runServer(cfg config.Config, logger *logrus.Logger) error {
	logger.SetFormatter(&logrus.JSONFormatter{})

	statsUC, cleanup, err := newStatsUseCase(cfg, logger)
	if err != nil {
		logger.WithError(err).Error("Failed to initialise")
		return err
	}
	defer cleanup()

	// Echo + Handlers
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(handler.LoggingMiddleware(logger))

	api.RegisterHandlers(e, handler.NewAPIHandler(statsUC, cfg.ProjectsDir, logger))

	// Запуск сервера
	go func() {
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf("Server stopped: %v", err)
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Errorf("Shutdown failed: %v", err)
		return err
	}

	logger.Info("Server exited")
	return nil
}
