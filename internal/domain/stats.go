package domain

import "context"

// Votes - количество голосов Code Review по значениям.
type Votes struct {
	MinusTwo int `json:"-2" yaml:"-2"`
	MinusOne int `json:"-1" yaml:"-1"`
	PlusOne  int `json:"+1" yaml:"+1"`
	PlusTwo  int `json:"+2" yaml:"+2"`
}

// Add учитывает голос. Возвращает false для значений вне {-2, -1, 1, 2}.
func (v *Votes) Add(score int) bool {
	switch score {
	case -2:
		v.MinusTwo++
	case -1:
		v.MinusOne++
	case 1:
		v.PlusOne++
	case 2:
		v.PlusTwo++
	default:
		return false
	}
	return true
}

// Plus - сумма положительных голосов.
func (v Votes) Plus() int { return v.PlusOne + v.PlusTwo }

// Minus - сумма отрицательных голосов.
func (v Votes) Minus() int { return v.MinusOne + v.MinusTwo }

// ReviewerStat - накопленная статистика одного ревьювера.
type ReviewerStat struct {
	Votes         Votes `json:"votes"`
	Total         int   `json:"total"`
	Disagreements int   `json:"disagreements"`
}

// ReviewerStats - статистика по ревьюверам, ключ - username.
// Владеет ей вызывающий код; запись только из одной горутины.
type ReviewerStats map[string]*ReviewerStat

// Reviewer возвращает запись ревьювера, создавая пустую при отсутствии.
func (s ReviewerStats) Reviewer(username string) *ReviewerStat {
	stat, ok := s[username]
	if !ok {
		stat = &ReviewerStat{}
		s[username] = stat
	}
	return stat
}

// Merge прибавляет other к s по ключу ревьювера.
func (s ReviewerStats) Merge(other ReviewerStats) {
	for username, o := range other {
		stat := s.Reviewer(username)
		stat.Votes.MinusTwo += o.Votes.MinusTwo
		stat.Votes.MinusOne += o.Votes.MinusOne
		stat.Votes.PlusOne += o.Votes.PlusOne
		stat.Votes.PlusTwo += o.Votes.PlusTwo
		stat.Total += o.Total
		stat.Disagreements += o.Disagreements
	}
}

// ReviewerRow - строка итогового отчета.
type ReviewerRow struct {
	Username          string  `json:"username" yaml:"username"`
	CoreMember        bool    `json:"core_member" yaml:"core_member"`
	Total             int     `json:"total" yaml:"total"`
	Votes             Votes   `json:"votes" yaml:"votes"`
	Ratio             float64 `json:"ratio" yaml:"ratio"`
	RatioDefined      bool    `json:"ratio_defined" yaml:"ratio_defined"`
	Disagreements     int     `json:"disagreements" yaml:"disagreements"`
	DisagreementRatio float64 `json:"disagreement_ratio" yaml:"disagreement_ratio"`
}

// Report - ранжированный отчет по ревьюверам.
type Report struct {
	Days           int           `json:"days" yaml:"days"`
	Projects       []string      `json:"projects" yaml:"projects"`
	AllProjects    bool          `json:"all_projects" yaml:"all_projects"`
	Rows           []ReviewerRow `json:"reviewers" yaml:"reviewers"`
	TotalReviews   int           `json:"total_reviews" yaml:"total_reviews"`
	TotalReviewers int           `json:"total_reviewers" yaml:"total_reviewers"`
}

// ReportRequest - параметры построения отчета.
type ReportRequest struct {
	Selector ProjectSelector
	Days     int
	Fetch    FetchOptions
}

// StatsUseCase определяет бизнес-логику построения отчета по ревьюверам.
type StatsUseCase interface {
	ReviewerReport(ctx context.Context, req ReportRequest) (*Report, error)
}
