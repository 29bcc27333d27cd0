package http

import (
	"log/slog"
	"net/http"
	"strings"

	"partnerdelivery/internal/core/ports"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const sessionKey = "session"

// authenticate accepts the token from the Authorization bearer header, or from the
// access_token query parameter for EventSource clients that cannot set headers.
func (s *Server) authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := strings.TrimSpace(strings.TrimPrefix(c.Request().Header.Get(echo.HeaderAuthorization), "Bearer "))
		if token == "" {
			token = c.QueryParam("access_token")
		}

		session, err := s.deps.Auth.Authenticate(c.Request().Context(), token)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, Error{Code: http.StatusUnauthorized, Message: "Sign in required"})
		}
		c.Set(sessionKey, session)
		return next(c)
	}
}

// requireOperational lets through only partners whose account may take orders.
func (s *Server) requireOperational(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, err := s.deps.Auth.RequireOperational(c.Request().Context(), sessionOf(c)); err != nil {
			return s.fail(c, err)
		}
		return next(c)
	}
}

func sessionOf(c echo.Context) ports.Session {
	session, _ := c.Get(sessionKey).(ports.Session)
	return session
}

func (s *Server) requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			level := slog.LevelInfo
			switch {
			case v.Status >= http.StatusInternalServerError:
				level = slog.LevelError
			case v.Status >= http.StatusBadRequest:
				level = slog.LevelWarn
			}
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("request_id", v.RequestID),
			}
			if v.Error != nil {
				attrs = append(attrs, slog.String("error", v.Error.Error()))
			}
			s.logger.LogAttrs(c.Request().Context(), level, "request", attrs...)
			return nil
		},
	})
}
