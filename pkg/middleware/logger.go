package middleware

import (
	"time"

	"rule-one/pkg/logger"

	"github.com/labstack/echo/v4"
)

// RequestLogger attaches a request-scoped logger to the request context and
// logs one line per request once the handler returns.
func RequestLogger(log *logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()

			reqLog := log.With(
				logger.StringField("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
				logger.StringField("method", req.Method),
				logger.StringField("path", req.URL.Path),
			)
			c.SetRequest(req.WithContext(logger.NewContext(req.Context(), reqLog)))

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			reqLog.Info("Request completed",
				logger.IntField("status", c.Response().Status),
				logger.DurationField("latency", time.Since(start)),
			)
			return nil
		}
	}
}
