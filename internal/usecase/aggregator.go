package usecase

import (
	"gerrit-reviewstats/internal/domain"

	"github.com/sirupsen/logrus"
)

// Aggregator сворачивает историю голосов проекта в статистику ревьюверов.
type Aggregator struct {
	logger logrus.FieldLogger
}

// NewAggregator создает новый экземпляр Aggregator.
func NewAggregator(logger logrus.FieldLogger) *Aggregator {
	return &Aggregator{logger: logger}
}

// ProcessChanges учитывает все патчсеты всех изменений проекта.
func (a *Aggregator) ProcessChanges(project *domain.Project, changes []domain.Change, stats domain.ReviewerStats, cutoff int64) {
	for i := range changes {
		for j := range changes[i].PatchSets {
			a.ProcessPatchset(project, &changes[i].PatchSets[j], stats, cutoff)
		}
	}
}

// ProcessPatchset учитывает голоса Code Review одного патчсета в stats.
//
// Голоса раньше cutoff не считаются, но голоса core-команды любой давности
// задают границы для подсчета несогласий.
func (a *Aggregator) ProcessPatchset(project *domain.Project, patchset *domain.PatchSet, stats domain.ReviewerStats, cutoff int64) {
	latestCorePos, latestCoreNeg := latestCoreVotes(project, patchset)

	for i := range patchset.Approvals {
		approval := &patchset.Approvals[i]
		if approval.GrantedOn < cutoff || !approval.IsCodeReview() {
			continue
		}

		reviewer := approval.Reviewer()
		score, err := approval.Score()
		if err != nil || !validScore(score) {
			a.logger.WithFields(logrus.Fields{
				"project":  project.Name,
				"reviewer": reviewer,
				"value":    approval.Value,
			}).Warn("Skipping code review vote with unexpected value")
			continue
		}

		stat := stats.Reviewer(reviewer)
		stat.Total++
		stat.Votes.Add(score)

		// Несогласие: голос поставлен раньше последнего противоположного голоса core-команды.
		switch {
		case score > 0 && approval.GrantedOn < latestCoreNeg:
			stat.Disagreements++
		case score < 0 && approval.GrantedOn < latestCorePos:
			stat.Disagreements++
		}
	}
}

// latestCoreVotes возвращает время последнего положительного и последнего
// неположительного голоса core-команды на патчсете; 0 - голосов не было.
func latestCoreVotes(project *domain.Project, patchset *domain.PatchSet) (pos, neg int64) {
	for i := range patchset.Approvals {
		approval := &patchset.Approvals[i]
		if !approval.IsCodeReview() || !project.IsCoreMember(approval.Reviewer()) {
			continue
		}
		score, err := approval.Score()
		if err != nil {
			continue
		}
		if score > 0 {
			pos = max(pos, approval.GrantedOn)
		} else {
			neg = max(neg, approval.GrantedOn)
		}
	}
	return pos, neg
}

func validScore(score int) bool {
	return score >= -2 && score <= 2 && score != 0
}
