package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type BaseHandler struct {
	logger logrus.FieldLogger
}

func NewBaseHandler(logger logrus.FieldLogger) *BaseHandler {
	return &BaseHandler{
		logger: logger,
	}
}

func (h *BaseHandler) logRequest(c echo.Context, operation string) *logrus.Entry {
	return h.logger.WithFields(logrus.Fields{
		"operation": operation,
		"method":    c.Request().Method,
		"path":      c.Request().URL.Path,
		"query":     c.QueryString(),
		"ip":        c.RealIP(),
	})
}
