package main

import (
	"fmt"

	"gerrit-reviewstats/internal/config"
	"gerrit-reviewstats/internal/database"
	"gerrit-reviewstats/internal/domain"
	"gerrit-reviewstats/internal/gerrit"
	"gerrit-reviewstats/internal/repository"
	"gerrit-reviewstats/internal/usecase"

	"github.com/sirupsen/logrus"
)

// newStatsUseCase собирает зависимости построения отчета.
// Возвращаемая функция освобождает соединения.
func newStatsUseCase(cfg config.Config, logger *logrus.Logger) (*usecase.StatsUseCase, func(), error) {
	runner, err := gerrit.NewSSHRunner(gerrit.SSHConfig{
		Host:       cfg.GerritHost,
		Port:       cfg.GerritPort,
		User:       cfg.GerritUser,
		KeyFile:    cfg.GerritKey,
		KnownHosts: cfg.GerritKnownHosts,
	}, logger)
	if err != nil {
		return nil, nil, err
	}

	cache, closeCache, err := newChangeCache(cfg, logger)
	if err != nil {
		runner.Close()
		return nil, nil, err
	}

	client := gerrit.NewClient(runner, cfg.GerritQueryInterval, logger)
	changeRepo := repository.NewChangeRepository(client, cache, logger)
	projectRepo := repository.NewProjectRepository(cfg.ProjectsDir, logger)

	cleanup := func() {
		closeCache()
		if err := runner.Close(); err != nil {
			logger.WithError(err).Debug("Failed to close gerrit connection")
		}
	}

	return usecase.NewStatsUseCase(projectRepo, changeRepo, logger), cleanup, nil
}

func newChangeCache(cfg config.Config, logger *logrus.Logger) (domain.ChangeCache, func(), error) {
	switch cfg.CacheBackend {
	case config.CacheBackendFile:
		return repository.NewFileCache(cfg.CacheDir, cfg.CacheTTL), func() {}, nil

	case config.CacheBackendPostgres:
		db, err := database.NewPostgresDB(cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("database connection failed: %w", err)
		}
		logger.Debug("Database connected")
		return repository.NewPostgresCache(db, cfg.CacheTTL), func() { db.Close() }, nil

	case config.CacheBackendNone:
		return nil, func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unknown cache backend %q", cfg.CacheBackend)
	}
}
