package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"todo-api/pkg/log"
	"todo-api/pkg/msg"
)

const swaggerPrefix = "/swagger/"

// SetupRequestLogger logs every request except the health check and the swagger UI.
func SetupRequestLogger(e *echo.Echo, contextPath string) {
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogError:     true,
		LogRequestID: true,
		Skipper:      requestLogSkipper(contextPath),
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.String("route", c.Path()),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("request_id", v.RequestID),
			}
			if id := c.Param("id"); id != "" {
				fields = append(fields, zap.String("task_id", id))
			}

			if v.Error == nil {
				log.Info(msg.GetMessage("app.req-end", v.Method, v.URI, v.Status, v.Latency, v.RequestID), fields...)
				return nil
			}

			fields = append(fields, zap.Error(v.Error))
			log.Error(msg.GetMessage("app.req-fail", v.Method, v.URI, v.Status, v.Latency, v.RequestID, v.Error), fields...)
			return nil
		},
	}))
}

func requestLogSkipper(contextPath string) echomw.Skipper {
	healthPath := strings.TrimSuffix(contextPath, "/") + "/health"
	return func(c echo.Context) bool {
		path := c.Request().URL.Path
		return path == healthPath || strings.HasPrefix(path, swaggerPrefix)
	}
}
