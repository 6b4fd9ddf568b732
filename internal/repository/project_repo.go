package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"gerrit-reviewstats/internal/domain"

	"github.com/sirupsen/logrus"
)

// ProjectRepository загружает описания проектов из JSON-файлов.
type ProjectRepository struct {
	baseDir string
	logger  logrus.FieldLogger
}

// NewProjectRepository создает новый экземпляр ProjectRepository.
func NewProjectRepository(baseDir string, logger logrus.FieldLogger) *ProjectRepository {
	return &ProjectRepository{
		baseDir: baseDir,
		logger:  logger,
	}
}

// GetProjectsInfo возвращает описания выбранных проектов.
// При selector.All читаются все *.json из каталога, неофициальные проекты пропускаются.
// Отсутствующие файлы пропускаются, ошибка разбора прерывает загрузку.
func (r *ProjectRepository) GetProjectsInfo(ctx context.Context, selector domain.ProjectSelector) ([]*domain.Project, error) {
	var files []string
	if selector.All {
		matches, err := filepath.Glob(filepath.Join(r.baseDir, "*.json"))
		if err != nil {
			return nil, fmt.Errorf("failed to list projects in %s: %w", r.baseDir, err)
		}
		sort.Strings(matches)
		files = matches
	} else if selector.Path != "" {
		files = []string{selector.Path}
	}

	projects := make([]*domain.Project, 0, len(files))
	for _, fn := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		project, err := readProject(fn)
		if errors.Is(err, fs.ErrNotExist) {
			r.logger.WithField("file", fn).Warn("Project file not found")
			continue
		}
		if err != nil {
			r.logger.WithError(err).WithField("file", fn).Error("Failed to parse project file")
			return nil, err
		}

		if selector.All && project.Unofficial {
			r.logger.WithField("project", project.Name).Debug("Skipping unofficial project")
			continue
		}
		projects = append(projects, project)
	}

	return projects, nil
}

func readProject(fn string) (*domain.Project, error) {
	data, err := os.ReadFile(fn)
	if err != nil {
		return nil, err
	}

	var project domain.Project
	if err := json.Unmarshal(data, &project); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrInvalidProject, fn, err)
	}
	if project.Name == "" {
		return nil, fmt.Errorf("%w: %s: missing name", domain.ErrInvalidProject, fn)
	}
	if project.CoreTeam == nil {
		project.CoreTeam = domain.NewSet()
	}

	return &project, nil
}
