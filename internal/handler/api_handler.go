package handler

import (
	"gerrit-reviewstats/api"
	"gerrit-reviewstats/internal/domain"

	"github.com/sirupsen/logrus"
)

type APIHandler struct {
	HealthHandler
	*StatsHandler
}

func NewAPIHandler(
	statsUseCase domain.StatsUseCase,
	projectsDir string,
	logger logrus.FieldLogger,
) api.ServerInterface {

	return &APIHandler{
		StatsHandler: NewStatsHandler(statsUseCase, projectsDir, logger),
	}
}
