package main

import (
	"context"
	"os"
	"os/signal"

	"gerrit-reviewstats/internal/config"

	"github.com/sirupsen/logrus"
)

func main() {
	// Логгер
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logrus.InfoLevel)

	// Конфиг
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Debugf(".env not loaded: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd(cfg, logger).ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
