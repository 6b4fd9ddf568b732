package handler

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// LoggingMiddleware пишет в лог каждый запрос с кодом ответа и длительностью
func LoggingMiddleware(logger logrus.FieldLogger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				// Отдаем ошибку echo сразу, чтобы в лог попал итоговый статус
				c.Error(err)
			}

			status := c.Response().Status
			entry := logger.WithFields(logrus.Fields{
				"method":     c.Request().Method,
				"uri":        c.Request().URL.RequestURI(),
				"status":     status,
				"latency":    time.Since(start),
				"user_agent": c.Request().UserAgent(),
				"ip":         c.RealIP(),
			})
			if err != nil {
				entry = entry.WithField("error", err.Error())
			}

			switch {
			case status >= 500:
				entry.Error("Server error")
			case status >= 400:
				entry.Warn("Client error")
			default:
				entry.Info("Request processed")
			}

			return nil
		}
	}
}
