package domain

import (
	"context"
	"strconv"
)

// Типы голосов Gerrit.
const (
	ApprovalCodeReview = "CRVW"
	ApprovalApproved   = "APRV"
	ApprovalWorkflow   = "Workflow"
)

// UnknownReviewer - имя, под которым учитываются голоса без username.
const UnknownReviewer = "unknown"

// Account - автор голоса.
type Account struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	Username string `json:"username,omitempty"`
}

// Approval представляет один голос на патчсете.
type Approval struct {
	Type        string   `json:"type"`
	Description string   `json:"description,omitempty"`
	Value       string   `json:"value"`
	GrantedOn   int64    `json:"grantedOn"`
	By          *Account `json:"by,omitempty"`
}

// Reviewer возвращает username автора голоса или UnknownReviewer.
func (a *Approval) Reviewer() string {
	if a.By == nil || a.By.Username == "" {
		return UnknownReviewer
	}
	return a.By.Username
}

// IsCodeReview сообщает, является ли голос голосом Code Review.
func (a *Approval) IsCodeReview() bool {
	return a.Type == ApprovalCodeReview
}

// Score разбирает значение голоса. Gerrit передает его строкой.
func (a *Approval) Score() (int, error) {
	return strconv.Atoi(a.Value)
}

// PatchSet - ревизия изменения со списком голосов.
type PatchSet struct {
	Revision  string     `json:"revision,omitempty"`
	CreatedOn int64      `json:"createdOn,omitempty"`
	Approvals []Approval `json:"approvals,omitempty"`
}

// Change - изменение (review) в Gerrit.
type Change struct {
	Project     string     `json:"project,omitempty"`
	Branch      string     `json:"branch,omitempty"`
	ID          string     `json:"id,omitempty"`
	Subject     string     `json:"subject,omitempty"`
	Status      string     `json:"status,omitempty"`
	CreatedOn   int64      `json:"createdOn,omitempty"`
	LastUpdated int64      `json:"lastUpdated,omitempty"`
	SortKey     string     `json:"sortKey,omitempty"`
	PatchSets   []PatchSet `json:"patchSets,omitempty"`
}

// FetchOptions сужает запрос изменений.
type FetchOptions struct {
	// OnlyOpen - только открытые изменения (status:open).
	OnlyOpen bool
	// Stable - имя stable-ветки без префикса "stable/".
	Stable string
}

// FullHistory сообщает, запрашивается ли вся история проекта.
// Только такие результаты можно кешировать.
func (o FetchOptions) FullHistory() bool {
	return !o.OnlyOpen && o.Stable == ""
}

// ChangeFetcher определяет контракт для получения изменений проекта.
type ChangeFetcher interface {
	GetChanges(ctx context.Context, project *Project, opts FetchOptions) ([]Change, error)
}

// ChangeCache определяет контракт кеша изменений с ограниченным сроком жизни.
// Get возвращает ErrCacheMiss, если записи нет или она устарела.
type ChangeCache interface {
	Get(ctx context.Context, project string) ([]Change, error)
	Put(ctx context.Context, project string, changes []Change) error
}
