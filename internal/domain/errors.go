package domain

import "errors"

// Domain errors
var (
	ErrNoProjects     = errors.New("no projects selected")
	ErrInvalidProject = errors.New("invalid project descriptor")
	ErrInvalidDays    = errors.New("days must not be negative")

	ErrCacheMiss   = errors.New("cache miss")
	ErrGerritQuery = errors.New("gerrit query failed")
)

// HTTPError для ответов API
type HTTPError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Маппинг domain ошибок в HTTP ошибки
var ErrorMapping = map[error]HTTPError{
	ErrNoProjects:     {Code: "NOT_FOUND", Message: "no projects matched the selector"},
	ErrInvalidProject: {Code: "INVALID_PROJECT", Message: "project descriptor is malformed"},
	ErrInvalidDays:    {Code: "INVALID_REQUEST", Message: "days must not be negative"},
	ErrGerritQuery:    {Code: "UPSTREAM_ERROR", Message: "gerrit query failed"},
}

// ToHTTPError преобразует domain ошибку в HTTP ошибку.
// Обернутые ошибки распознаются через errors.Is.
func ToHTTPError(err error) (HTTPError, bool) {
	for domainErr, httpErr := range ErrorMapping {
		if errors.Is(err, domainErr) {
			return httpErr, true
		}
	}
	return HTTPError{}, false
}
