package handler

import (
	"errors"
	"net/http"

	"gerrit-reviewstats/api"
	"gerrit-reviewstats/internal/domain"
)

// Вспомогательные функции преобразования доменных моделей в API модели

func toAPIReport(r *domain.Report) api.ReviewerReport {
	rows := make([]api.ReviewerRow, len(r.Rows))
	for i, row := range r.Rows {
		rows[i] = api.ReviewerRow{
			Username:   row.Username,
			CoreMember: row.CoreMember,
			Total:      row.Total,
			Votes: api.Votes{
				MinusTwo: row.Votes.MinusTwo,
				MinusOne: row.Votes.MinusOne,
				PlusOne:  row.Votes.PlusOne,
				PlusTwo:  row.Votes.PlusTwo,
			},
			Disagreements:     row.Disagreements,
			DisagreementRatio: row.DisagreementRatio,
		}
		// Неопределенное отношение отдаем как null
		if row.RatioDefined {
			ratio := row.Ratio
			rows[i].Ratio = &ratio
		}
	}

	return api.ReviewerReport{
		Days:           r.Days,
		Projects:       r.Projects,
		AllProjects:    r.AllProjects,
		Reviewers:      rows,
		TotalReviews:   r.TotalReviews,
		TotalReviewers: r.TotalReviewers,
	}
}

func toErrorResponse(code api.ErrorResponseErrorCode, message string) api.ErrorResponse {
	var resp api.ErrorResponse
	resp.Error.Code = code
	resp.Error.Message = message
	return resp
}

func toAPIErrorResponse(httpErr domain.HTTPError) api.ErrorResponse {
	return toErrorResponse(api.ErrorResponseErrorCode(httpErr.Code), httpErr.Message)
}

func getHTTPStatusCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrNoProjects):
		return http.StatusNotFound

	case errors.Is(err, domain.ErrInvalidProject), errors.Is(err, domain.ErrInvalidDays):
		return http.StatusBadRequest

	case errors.Is(err, domain.ErrGerritQuery):
		return http.StatusBadGateway

	default:
		return http.StatusInternalServerError
	}
}
