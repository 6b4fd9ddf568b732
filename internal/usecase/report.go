package usecase

import (
	"sort"
	"strings"

	"gerrit-reviewstats/internal/domain"
)

// Служебные аккаунты CI, которые не попадают в отчет.
var excludedReviewers = domain.NewSet("jenkins", "smokestack")

func isExcludedReviewer(username string) bool {
	return excludedReviewers.Has(strings.ToLower(username))
}

// BuildReport ранжирует ревьюверов и считает производные показатели.
// При равном числе ревью порядок определяется username по возрастанию.
func BuildReport(projects []*domain.Project, stats domain.ReviewerStats, days int) *domain.Report {
	report := &domain.Report{
		Days:        days,
		Projects:    make([]string, 0, len(projects)),
		AllProjects: len(projects) > 1,
		Rows:        make([]domain.ReviewerRow, 0, len(stats)),
	}
	for _, p := range projects {
		report.Projects = append(report.Projects, p.Name)
	}

	for username, stat := range stats {
		if isExcludedReviewer(username) {
			continue
		}
		report.Rows = append(report.Rows, buildRow(projects, username, stat))
	}

	sort.Slice(report.Rows, func(i, j int) bool {
		if report.Rows[i].Total != report.Rows[j].Total {
			return report.Rows[i].Total > report.Rows[j].Total
		}
		return report.Rows[i].Username < report.Rows[j].Username
	})

	for _, row := range report.Rows {
		report.TotalReviews += row.Total
	}
	report.TotalReviewers = len(report.Rows)

	return report
}

func buildRow(projects []*domain.Project, username string, stat *domain.ReviewerStat) domain.ReviewerRow {
	row := domain.ReviewerRow{
		Username:      username,
		CoreMember:    inAnyCoreTeam(projects, username),
		Total:         stat.Total,
		Votes:         stat.Votes,
		Disagreements: stat.Disagreements,
	}

	plus := float64(stat.Votes.Plus())
	minus := float64(stat.Votes.Minus())
	if plus+minus > 0 {
		row.Ratio = plus / (plus + minus) * 100
		row.RatioDefined = true
	}
	if plus > 0 {
		row.DisagreementRatio = float64(stat.Disagreements) / plus * 100
	}

	return row
}

func inAnyCoreTeam(projects []*domain.Project, username string) bool {
	for _, p := range projects {
		if p.IsCoreMember(username) {
			return true
		}
	}
	return false
}
