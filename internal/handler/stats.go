package handler

import (
	"bytes"
	"net/http"
	"path/filepath"
	"strings"

	"gerrit-reviewstats/api"
	"gerrit-reviewstats/internal/domain"
	"gerrit-reviewstats/internal/report"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

const defaultDays = 14

// StatsHandler обрабатывает HTTP-запросы статистики ревьюверов.
type StatsHandler struct {
	*BaseHandler
	statsUseCase domain.StatsUseCase
	projectsDir  string
}

// NewStatsHandler создает новый экземпляр StatsHandler.
func NewStatsHandler(statsUseCase domain.StatsUseCase, projectsDir string, logger logrus.FieldLogger) *StatsHandler {
	return &StatsHandler{
		BaseHandler:  NewBaseHandler(logger),
		statsUseCase: statsUseCase,
		projectsDir:  projectsDir,
	}
}

// GetStatsReviewers строит отчет по ревьюверам в JSON или текстом.
func (h *StatsHandler) GetStatsReviewers(c echo.Context, params api.GetStatsReviewersParams) error {
	req := h.toReportRequest(params)

	logEntry := h.logRequest(c, "get_reviewer_stats").WithFields(logrus.Fields{
		"project": req.Selector.Path,
		"all":     req.Selector.All,
		"days":    req.Days,
	})
	logEntry.Info("Building reviewer report")

	if !req.Selector.All && req.Selector.Path == "" {
		return c.JSON(http.StatusBadRequest, toErrorResponse(api.INVALIDREQUEST, "project or all is required"))
	}

	rep, err := h.statsUseCase.ReviewerReport(c.Request().Context(), req)
	if err != nil {
		logEntry.WithError(err).Error("Failed to build reviewer report")
		if httpErr, exists := domain.ToHTTPError(err); exists {
			return c.JSON(getHTTPStatusCode(err), toAPIErrorResponse(httpErr))
		}
		return c.JSON(http.StatusInternalServerError, toErrorResponse(api.INTERNALERROR, err.Error()))
	}

	logEntry.WithField("reviewers", rep.TotalReviewers).Info("Reviewer report built")

	if params.Format != nil && *params.Format == api.FormatText {
		var buf bytes.Buffer
		if err := report.WriteText(&buf, rep); err != nil {
			return c.JSON(http.StatusInternalServerError, toErrorResponse(api.INTERNALERROR, err.Error()))
		}
		return c.Blob(http.StatusOK, echo.MIMETextPlainCharsetUTF8, buf.Bytes())
	}

	return c.JSON(http.StatusOK, toAPIReport(rep))
}

func (h *StatsHandler) toReportRequest(params api.GetStatsReviewersParams) domain.ReportRequest {
	req := domain.ReportRequest{Days: defaultDays}

	if params.All != nil {
		req.Selector.All = *params.All
	}
	if params.Project != nil && *params.Project != "" {
		// Принимаем только имя проекта: файл ищется в каталоге проектов.
		name := strings.TrimSuffix(filepath.Base(*params.Project), ".json")
		req.Selector.Path = filepath.Join(h.projectsDir, name+".json")
	}
	if params.Days != nil {
		req.Days = *params.Days
	}
	if params.OnlyOpen != nil {
		req.Fetch.OnlyOpen = *params.OnlyOpen
	}
	if params.Stable != nil {
		req.Fetch.Stable = *params.Stable
	}

	return req
}
