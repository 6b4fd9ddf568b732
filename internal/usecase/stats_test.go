package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"gerrit-reviewstats/internal/domain"
	"gerrit-reviewstats/internal/mocks"
	"gerrit-reviewstats/internal/usecase"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Unix(1_700_000_000, 0)

func newStatsUseCase(projectRepo *mocks.ProjectRegistry, changeRepo *mocks.ChangeFetcher) *usecase.StatsUseCase {
	logger, _ := test.NewNullLogger()
	return usecase.NewStatsUseCase(projectRepo, changeRepo, logger).WithClock(func() time.Time { return now })
}

// votes строит изменение с n голосами +1 от username внутри окна.
func votes(username string, n int) domain.Change {
	approvals := make([]domain.Approval, n)
	for i := range approvals {
		approvals[i] = vote(username, "1", now.Unix()-int64(i))
	}
	return domain.Change{Status: "MERGED", PatchSets: []domain.PatchSet{{Approvals: approvals}}}
}

func TestCutoff(t *testing.T) {
	assert.Equal(t, now.Unix()-14*24*60*60, usecase.Cutoff(now, 14))
	assert.Equal(t, now.Unix()-24*60*60, usecase.Cutoff(now, 1))
}

func TestStatsUseCase_ReviewerReport_MergesProjects(t *testing.T) {
	ctx := context.Background()
	projectRepo := &mocks.ProjectRegistry{}
	changeRepo := &mocks.ChangeFetcher{}
	uc := newStatsUseCase(projectRepo, changeRepo)

	nova := &domain.Project{Name: "nova", CoreTeam: domain.NewSet("core1")}
	glance := &domain.Project{Name: "glance", CoreTeam: domain.NewSet("core2")}
	selector := domain.ProjectSelector{All: true}

	projectRepo.On("GetProjectsInfo", ctx, selector).Return([]*domain.Project{nova, glance}, nil)
	changeRepo.On("GetChanges", ctx, nova, domain.FetchOptions{}).Return([]domain.Change{votes("alice", 5), votes("core2", 1)}, nil)
	changeRepo.On("GetChanges", ctx, glance, domain.FetchOptions{}).Return([]domain.Change{votes("alice", 7)}, nil)

	report, err := uc.ReviewerReport(ctx, domain.ReportRequest{Selector: selector, Days: 14})

	require.NoError(t, err)
	require.Len(t, report.Rows, 2)
	assert.Equal(t, "alice", report.Rows[0].Username)
	assert.Equal(t, 12, report.Rows[0].Total)
	assert.Equal(t, 12, report.Rows[0].Votes.PlusOne)
	assert.Equal(t, "core2", report.Rows[1].Username)
	assert.True(t, report.Rows[1].CoreMember)
	assert.Equal(t, 13, report.TotalReviews)
	assert.True(t, report.AllProjects)
	assert.Equal(t, []string{"nova", "glance"}, report.Projects)

	projectRepo.AssertExpectations(t)
	changeRepo.AssertExpectations(t)
}

func TestStatsUseCase_ReviewerReport_AppliesWindow(t *testing.T) {
	ctx := context.Background()
	projectRepo := &mocks.ProjectRegistry{}
	changeRepo := &mocks.ChangeFetcher{}
	uc := newStatsUseCase(projectRepo, changeRepo)

	nova := newProject()
	selector := domain.ProjectSelector{Path: "projects/nova.json"}
	fetch := domain.FetchOptions{OnlyOpen: true}
	cutoff := usecase.Cutoff(now, 7)

	changes := []domain.Change{{PatchSets: []domain.PatchSet{{Approvals: []domain.Approval{
		vote("alice", "1", cutoff-1),
		vote("alice", "-1", cutoff),
	}}}}}

	projectRepo.On("GetProjectsInfo", ctx, selector).Return([]*domain.Project{nova}, nil)
	changeRepo.On("GetChanges", ctx, nova, fetch).Return(changes, nil)

	report, err := uc.ReviewerReport(ctx, domain.ReportRequest{Selector: selector, Days: 7, Fetch: fetch})

	require.NoError(t, err)
	require.Len(t, report.Rows, 1)
	assert.Equal(t, 1, report.Rows[0].Total)
	assert.Equal(t, 1, report.Rows[0].Votes.MinusOne)
	assert.False(t, report.AllProjects)
}

func TestStatsUseCase_ReviewerReport_InvalidDays(t *testing.T) {
	uc := newStatsUseCase(&mocks.ProjectRegistry{}, &mocks.ChangeFetcher{})

	report, err := uc.ReviewerReport(context.Background(), domain.ReportRequest{Days: -1})

	assert.ErrorIs(t, err, domain.ErrInvalidDays)
	assert.Nil(t, report)
}

func TestStatsUseCase_ReviewerReport_ZeroDays(t *testing.T) {
	ctx := context.Background()
	projectRepo := &mocks.ProjectRegistry{}
	changeRepo := &mocks.ChangeFetcher{}
	uc := newStatsUseCase(projectRepo, changeRepo)

	nova := newProject()
	selector := domain.ProjectSelector{Path: "projects/nova.json"}
	changes := []domain.Change{{PatchSets: []domain.PatchSet{{Approvals: []domain.Approval{
		vote("alice", "1", now.Unix()-1),
		vote("bob", "-1", now.Unix()),
	}}}}}

	projectRepo.On("GetProjectsInfo", ctx, selector).Return([]*domain.Project{nova}, nil)
	changeRepo.On("GetChanges", ctx, nova, domain.FetchOptions{}).Return(changes, nil)

	report, err := uc.ReviewerReport(ctx, domain.ReportRequest{Selector: selector, Days: 0})

	require.NoError(t, err)
	require.Len(t, report.Rows, 1)
	assert.Equal(t, "bob", report.Rows[0].Username)
	assert.Equal(t, 0, report.Days)
}

func TestStatsUseCase_ReviewerReport_NoProjects(t *testing.T) {
	ctx := context.Background()
	projectRepo := &mocks.ProjectRegistry{}
	uc := newStatsUseCase(projectRepo, &mocks.ChangeFetcher{})

	selector := domain.ProjectSelector{Path: "missing.json"}
	projectRepo.On("GetProjectsInfo", ctx, selector).Return([]*domain.Project{}, nil)

	report, err := uc.ReviewerReport(ctx, domain.ReportRequest{Selector: selector, Days: 14})

	assert.ErrorIs(t, err, domain.ErrNoProjects)
	assert.Nil(t, report)
}

func TestStatsUseCase_ReviewerReport_RegistryError(t *testing.T) {
	ctx := context.Background()
	projectRepo := &mocks.ProjectRegistry{}
	uc := newStatsUseCase(projectRepo, &mocks.ChangeFetcher{})

	selector := domain.ProjectSelector{Path: "broken.json"}
	projectRepo.On("GetProjectsInfo", ctx, selector).Return(nil, domain.ErrInvalidProject)

	_, err := uc.ReviewerReport(ctx, domain.ReportRequest{Selector: selector, Days: 14})

	assert.ErrorIs(t, err, domain.ErrInvalidProject)
}

func TestStatsUseCase_ReviewerReport_FetchError(t *testing.T) {
	ctx := context.Background()
	projectRepo := &mocks.ProjectRegistry{}
	changeRepo := &mocks.ChangeFetcher{}
	uc := newStatsUseCase(projectRepo, changeRepo)

	nova := newProject()
	selector := domain.ProjectSelector{Path: "projects/nova.json"}
	projectRepo.On("GetProjectsInfo", ctx, selector).Return([]*domain.Project{nova}, nil)
	changeRepo.On("GetChanges", ctx, nova, domain.FetchOptions{}).Return(nil, errors.Join(domain.ErrGerritQuery, errors.New("connection refused")))

	report, err := uc.ReviewerReport(ctx, domain.ReportRequest{Selector: selector, Days: 14})

	assert.ErrorIs(t, err, domain.ErrGerritQuery)
	assert.Contains(t, err.Error(), "nova")
	assert.Nil(t, report)
}
