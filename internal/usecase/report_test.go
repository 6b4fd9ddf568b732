package usecase_test

import (
	"testing"

	"gerrit-reviewstats/internal/domain"
	"gerrit-reviewstats/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildReport_ExcludesCIAccounts(t *testing.T) {
	stats := domain.ReviewerStats{
		"jenkins":    {Total: 500, Votes: domain.Votes{PlusOne: 500}},
		"SmokeStack": {Total: 300, Votes: domain.Votes{MinusOne: 300}},
		"JENKINS":    {Total: 10, Votes: domain.Votes{PlusOne: 10}},
		"alice":      {Total: 1, Votes: domain.Votes{PlusOne: 1}},
	}

	report := usecase.BuildReport([]*domain.Project{newProject()}, stats, 14)

	require.Len(t, report.Rows, 1)
	assert.Equal(t, "alice", report.Rows[0].Username)
	assert.Equal(t, 1, report.TotalReviews)
	assert.Equal(t, 1, report.TotalReviewers)
}

func TestBuildReport_SortsByTotalThenUsername(t *testing.T) {
	stats := domain.ReviewerStats{
		"dave":  {Total: 3, Votes: domain.Votes{PlusOne: 3}},
		"bob":   {Total: 7, Votes: domain.Votes{PlusOne: 7}},
		"carol": {Total: 3, Votes: domain.Votes{PlusOne: 3}},
		"alice": {Total: 3, Votes: domain.Votes{PlusOne: 3}},
	}

	report := usecase.BuildReport([]*domain.Project{newProject()}, stats, 14)

	names := make([]string, len(report.Rows))
	for i, row := range report.Rows {
		names[i] = row.Username
	}
	assert.Equal(t, []string{"bob", "alice", "carol", "dave"}, names)
	assert.Equal(t, 16, report.TotalReviews)
}

func TestBuildReport_MarksMembersOfAnyCoreTeam(t *testing.T) {
	projects := []*domain.Project{
		{Name: "nova", CoreTeam: domain.NewSet("core1")},
		{Name: "glance", CoreTeam: domain.NewSet("glancecore")},
	}
	stats := domain.ReviewerStats{
		"core1":      {Total: 2, Votes: domain.Votes{PlusTwo: 2}},
		"glancecore": {Total: 1, Votes: domain.Votes{PlusTwo: 1}},
		"alice":      {Total: 1, Votes: domain.Votes{PlusOne: 1}},
	}

	report := usecase.BuildReport(projects, stats, 30)

	core := map[string]bool{}
	for _, row := range report.Rows {
		core[row.Username] = row.CoreMember
	}
	assert.Equal(t, map[string]bool{"core1": true, "glancecore": true, "alice": false}, core)
	assert.Equal(t, []string{"nova", "glance"}, report.Projects)
	assert.Equal(t, 30, report.Days)
}

func TestBuildReport_Ratios(t *testing.T) {
	testCases := []struct {
		name              string
		stat              domain.ReviewerStat
		ratio             float64
		ratioDefined      bool
		disagreementRatio float64
	}{
		{
			name:              "Mixed votes",
			stat:              domain.ReviewerStat{Total: 8, Votes: domain.Votes{MinusTwo: 1, MinusOne: 1, PlusOne: 4, PlusTwo: 2}, Disagreements: 3},
			ratio:             75,
			ratioDefined:      true,
			disagreementRatio: 50,
		},
		{
			name:              "Only negative votes",
			stat:              domain.ReviewerStat{Total: 3, Votes: domain.Votes{MinusOne: 2, MinusTwo: 1}, Disagreements: 2},
			ratio:             0,
			ratioDefined:      true,
			disagreementRatio: 0,
		},
		{
			name:              "No decisive votes",
			stat:              domain.ReviewerStat{},
			ratio:             0,
			ratioDefined:      false,
			disagreementRatio: 0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			stat := tc.stat
			report := usecase.BuildReport([]*domain.Project{newProject()}, domain.ReviewerStats{"alice": &stat}, 14)

			require.Len(t, report.Rows, 1)
			row := report.Rows[0]
			assert.InDelta(t, tc.ratio, row.Ratio, 1e-9)
			assert.Equal(t, tc.ratioDefined, row.RatioDefined)
			assert.InDelta(t, tc.disagreementRatio, row.DisagreementRatio, 1e-9)
			assert.Equal(t, tc.stat.Votes, row.Votes)
			assert.Equal(t, tc.stat.Disagreements, row.Disagreements)
		})
	}
}

func TestBuildReport_Empty(t *testing.T) {
	report := usecase.BuildReport([]*domain.Project{newProject()}, domain.ReviewerStats{}, 14)

	assert.Empty(t, report.Rows)
	assert.Equal(t, 0, report.TotalReviews)
	assert.Equal(t, 0, report.TotalReviewers)
}
