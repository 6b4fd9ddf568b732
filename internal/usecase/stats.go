package usecase

import (
	"context"
	"fmt"
	"time"

	"gerrit-reviewstats/internal/domain"

	"github.com/sirupsen/logrus"
)

const secondsPerDay = 24 * 60 * 60

// StatsUseCase реализует построение отчета по ревьюверам.
type StatsUseCase struct {
	projectRepo domain.ProjectRegistry
	changeRepo  domain.ChangeFetcher
	aggregator  *Aggregator
	logger      logrus.FieldLogger
	now         func() time.Time
}

// NewStatsUseCase создает новый экземпляр StatsUseCase.
func NewStatsUseCase(projectRepo domain.ProjectRegistry, changeRepo domain.ChangeFetcher, logger logrus.FieldLogger) *StatsUseCase {
	return &StatsUseCase{
		projectRepo: projectRepo,
		changeRepo:  changeRepo,
		aggregator:  NewAggregator(logger),
		logger:      logger,
		now:         time.Now,
	}
}

// WithClock подменяет источник текущего времени.
func (uc *StatsUseCase) WithClock(now func() time.Time) *StatsUseCase {
	uc.now = now
	return uc
}

// Cutoff возвращает самую раннюю метку времени голоса, попадающего в окно из days дней.
func Cutoff(now time.Time, days int) int64 {
	return now.Unix() - int64(days)*secondsPerDay
}

// ReviewerReport загружает проекты, собирает по ним изменения и строит отчет.
func (uc *StatsUseCase) ReviewerReport(ctx context.Context, req domain.ReportRequest) (*domain.Report, error) {
	// 0 дней - окно начинается в момент запуска.
	if req.Days < 0 {
		return nil, domain.ErrInvalidDays
	}

	projects, err := uc.projectRepo.GetProjectsInfo(ctx, req.Selector)
	if err != nil {
		return nil, err
	}
	if len(projects) == 0 {
		return nil, domain.ErrNoProjects
	}

	cutoff := Cutoff(uc.now(), req.Days)
	stats := make(domain.ReviewerStats)

	// Каждый проект сворачивается в свою карту и затем суммируется:
	// один ревьювер может встречаться в нескольких проектах.
	for _, project := range projects {
		changes, err := uc.changeRepo.GetChanges(ctx, project, req.Fetch)
		if err != nil {
			return nil, fmt.Errorf("failed to get changes for %s: %w", project.Name, err)
		}

		projectStats := make(domain.ReviewerStats)
		uc.aggregator.ProcessChanges(project, changes, projectStats, cutoff)
		stats.Merge(projectStats)

		uc.logger.WithFields(logrus.Fields{
			"project":   project.Name,
			"changes":   len(changes),
			"reviewers": len(projectStats),
		}).Debug("Project aggregated")
	}

	report := BuildReport(projects, stats, req.Days)
	report.AllProjects = req.Selector.All
	return report, nil
}
