package api

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/mboulet/authcore/internal/controller"
	"github.com/mboulet/authcore/internal/models"
	"github.com/mboulet/authcore/internal/service"
)

// AuthGuard validates the inbound access token and attaches the decoded
// identity to the request context. Authentication lasts for the current
// request only; no server-side state outlives it. Rejections are logged with
// the failure kind but never with the token or an email.
func AuthGuard(authService *service.AuthService, transport controller.TokenTransport, log *zap.SugaredLogger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			accessToken := transport.AccessToken(c)
			if accessToken == "" {
				log.Infow("request rejected", "reason", "missing token", "uri", c.Request().RequestURI)
				return service.ErrUnauthorized
			}

			identity, err := authService.Authenticate(c.Request().Context(), accessToken)
			if err != nil {
				log.Infow("request rejected", "reason", err.Error(), "uri", c.Request().RequestURI)
				return err
			}

			c.Set(models.MwIdentityKey, identity)

			return next(c)
		}
	}
}

func GetLoggerMiddlewareConfig(a *API) echomiddleware.RequestLoggerConfig {
	return echomiddleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogRemoteIP: true,
		LogError:    true,

		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			fields := []interface{}{
				"method", c.Request().Method,
				"uri", v.URI,
				"status", v.Status,
				"remote_ip", v.RemoteIP,
			}
			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
				a.log.Errorw("Request", fields...)
			} else {
				a.log.Infow("Request", fields...)
			}
			return nil
		},
	}
}
