package repository

import (
	"context"
	"errors"

	"gerrit-reviewstats/internal/domain"

	"github.com/sirupsen/logrus"
)

// ChangeRepository отдает изменения проекта, используя кеш для полной истории.
type ChangeRepository struct {
	source domain.ChangeFetcher
	cache  domain.ChangeCache
	logger logrus.FieldLogger
}

// NewChangeRepository создает новый экземпляр ChangeRepository.
// cache может быть nil - тогда каждый запрос уходит в source.
func NewChangeRepository(source domain.ChangeFetcher, cache domain.ChangeCache, logger logrus.FieldLogger) *ChangeRepository {
	return &ChangeRepository{
		source: source,
		cache:  cache,
		logger: logger,
	}
}

// GetChanges возвращает изменения проекта.
// Кешируется только полная история: открытые изменения и stable-ветки
// запрашиваются всегда.
func (r *ChangeRepository) GetChanges(ctx context.Context, project *domain.Project, opts domain.FetchOptions) ([]domain.Change, error) {
	logEntry := r.logger.WithField("project", project.Name)
	useCache := r.cache != nil && opts.FullHistory()

	if useCache {
		changes, err := r.cache.Get(ctx, project.Name)
		switch {
		case err == nil && len(changes) > 0:
			logEntry.WithField("changes", len(changes)).Debug("Using cached changes")
			return changes, nil
		case err != nil && !errors.Is(err, domain.ErrCacheMiss):
			logEntry.WithError(err).Warn("Failed to read change cache")
		}
	}

	logEntry.Debug("Getting changes from gerrit")
	changes, err := r.source.GetChanges(ctx, project, opts)
	if err != nil {
		return nil, err
	}

	if useCache {
		if err := r.cache.Put(ctx, project.Name, changes); err != nil {
			logEntry.WithError(err).Warn("Failed to store change cache")
		}
	}

	return changes, nil
}
