// Package mocks содержит testify-моки доменных интерфейсов.
package mocks

import (
	"context"

	"gerrit-reviewstats/internal/domain"

	"github.com/stretchr/testify/mock"
)

type ProjectRegistry struct {
	mock.Mock
}

func (m *ProjectRegistry) GetProjectsInfo(ctx context.Context, selector domain.ProjectSelector) ([]*domain.Project, error) {
	args := m.Called(ctx, selector)
	projects, _ := args.Get(0).([]*domain.Project)
	return projects, args.Error(1)
}

type ChangeFetcher struct {
	mock.Mock
}

func (m *ChangeFetcher) GetChanges(ctx context.Context, project *domain.Project, opts domain.FetchOptions) ([]domain.Change, error) {
	args := m.Called(ctx, project, opts)
	changes, _ := args.Get(0).([]domain.Change)
	return changes, args.Error(1)
}

type ChangeCache struct {
	mock.Mock
}

func (m *ChangeCache) Get(ctx context.Context, project string) ([]domain.Change, error) {
	args := m.Called(ctx, project)
	changes, _ := args.Get(0).([]domain.Change)
	return changes, args.Error(1)
}

func (m *ChangeCache) Put(ctx context.Context, project string, changes []domain.Change) error {
	args := m.Called(ctx, project, changes)
	return args.Error(0)
}

type StatsUseCase struct {
	mock.Mock
}

func (m *StatsUseCase) ReviewerReport(ctx context.Context, req domain.ReportRequest) (*domain.Report, error) {
	args := m.Called(ctx, req)
	report, _ := args.Get(0).(*domain.Report)
	return report, args.Error(1)
}
