// Package api описывает HTTP-интерфейс сервиса статистики ревью.
package api

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
)

// Defines values for GetStatsReviewersParamsFormat.
const (
	FormatJSON GetStatsReviewersParamsFormat = "json"
	FormatText GetStatsReviewersParamsFormat = "text"
)

// Defines values for ErrorResponseErrorCode.
const (
	INTERNALERROR  ErrorResponseErrorCode = "INTERNAL_ERROR"
	INVALIDPROJECT ErrorResponseErrorCode = "INVALID_PROJECT"
	INVALIDREQUEST ErrorResponseErrorCode = "INVALID_REQUEST"
	NOTFOUND       ErrorResponseErrorCode = "NOT_FOUND"
	UPSTREAMERROR  ErrorResponseErrorCode = "UPSTREAM_ERROR"
)

// ErrorResponse defines model for ErrorResponse.
type ErrorResponse struct {
	Error struct {
		Code    ErrorResponseErrorCode `json:"code"`
		Message string                 `json:"message"`
	} `json:"error"`
}

// ErrorResponseErrorCode defines model for ErrorResponse.Error.Code.
type ErrorResponseErrorCode string

// Votes defines model for Votes.
type Votes struct {
	MinusTwo int `json:"-2"`
	MinusOne int `json:"-1"`
	PlusOne  int `json:"+1"`
	PlusTwo  int `json:"+2"`
}

// ReviewerRow defines model for ReviewerRow.
type ReviewerRow struct {
	Username          string   `json:"username"`
	CoreMember        bool     `json:"core_member"`
	Total             int      `json:"total"`
	Votes             Votes    `json:"votes"`
	Ratio             *float64 `json:"ratio"`
	Disagreements     int      `json:"disagreements"`
	DisagreementRatio float64  `json:"disagreement_ratio"`
}

// ReviewerReport defines model for ReviewerReport.
type ReviewerReport struct {
	Days           int           `json:"days"`
	Projects       []string      `json:"projects"`
	AllProjects    bool          `json:"all_projects"`
	Reviewers      []ReviewerRow `json:"reviewers"`
	TotalReviews   int           `json:"total_reviews"`
	TotalReviewers int           `json:"total_reviewers"`
}

// GetStatsReviewersParams defines parameters for GetStatsReviewers.
type GetStatsReviewersParams struct {
	Project  *string                        `form:"project,omitempty" json:"project,omitempty"`
	All      *bool                          `form:"all,omitempty" json:"all,omitempty"`
	Days     *int                           `form:"days,omitempty" json:"days,omitempty"`
	OnlyOpen *bool                          `form:"only_open,omitempty" json:"only_open,omitempty"`
	Stable   *string                        `form:"stable,omitempty" json:"stable,omitempty"`
	Format   *GetStatsReviewersParamsFormat `form:"format,omitempty" json:"format,omitempty"`
}

// GetStatsReviewersParamsFormat defines parameters for GetStatsReviewers.
type GetStatsReviewersParamsFormat string

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// (GET /health)
	GetHealth(ctx echo.Context) error
	// (GET /stats/reviewers)
	GetStatsReviewers(ctx echo.Context, params GetStatsReviewersParams) error
}

// ServerInterfaceWrapper converts echo contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

// GetHealth converts echo context to params.
func (w *ServerInterfaceWrapper) GetHealth(ctx echo.Context) error {
	return w.Handler.GetHealth(ctx)
}

// GetStatsReviewers converts echo context to params.
func (w *ServerInterfaceWrapper) GetStatsReviewers(ctx echo.Context) error {
	var params GetStatsReviewersParams
	query := ctx.QueryParams()

	bindings := []struct {
		name string
		dest interface{}
	}{
		{"project", &params.Project},
		{"all", &params.All},
		{"days", &params.Days},
		{"only_open", &params.OnlyOpen},
		{"stable", &params.Stable},
		{"format", &params.Format},
	}
	for _, b := range bindings {
		if err := runtime.BindQueryParameter("form", true, false, b.name, query, b.dest); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter %s: %s", b.name, err))
		}
	}

	return w.Handler.GetStatsReviewers(ctx, params)
}

// EchoRouter is the subset of echo routing used by RegisterHandlers.
type EchoRouter interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// RegisterHandlers adds each server route to the EchoRouter.
func RegisterHandlers(router EchoRouter, si ServerInterface) {
	wrapper := ServerInterfaceWrapper{Handler: si}

	router.GET("/health", wrapper.GetHealth)
	router.GET("/stats/reviewers", wrapper.GetStatsReviewers)
}
