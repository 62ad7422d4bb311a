package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/mboulet/authcore/internal/models"
	"github.com/mboulet/authcore/internal/service"
	"github.com/mboulet/authcore/internal/util"
)

// ErrorHandler maps domain errors onto the response envelope. Driver and
// library errors never reach the client; anything unrecognized becomes a
// logged 500.
func ErrorHandler(log *zap.SugaredLogger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		switch {
		case errors.Is(err, service.ErrRefreshTokenMissing):
			writeError(c, log, http.StatusBadRequest, "Refresh token missing", "")
			return
		case errors.Is(err, service.ErrEmailTaken):
			writeError(c, log, http.StatusBadRequest, "email is already taken", "")
			return
		case errors.Is(err, service.ErrInvalidCredentials):
			writeError(c, log, http.StatusUnauthorized, "Invalid credentials", "")
			return
		case isUnauthorizedTokenError(err):
			writeError(c, log, http.StatusUnauthorized, "Unauthorized", err.Error())
			return
		}

		var respErr util.ResponseError
		if errors.As(err, &respErr) {
			writeError(c, log, respErr.Status, respErr.Msg, "")
			return
		}

		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			if httpErr.Code == http.StatusInternalServerError {
				log.Errorw("HTTP error", "error", err, "uri", c.Request().RequestURI)
			}
			msg, ok := httpErr.Message.(string)
			if !ok {
				msg = http.StatusText(httpErr.Code)
			}
			writeError(c, log, httpErr.Code, msg, "")
			return
		}

		log.Errorw("unhandled error", "error", err, "uri", c.Request().RequestURI)
		writeError(c, log, http.StatusInternalServerError, "Internal server error", "")
	}
}

func writeError(c echo.Context, log *zap.SugaredLogger, status int, reason, message string) {
	resp := models.ErrorResponse{Success: false, Error: reason, Message: message}
	if err := c.JSON(status, resp); err != nil {
		log.Errorw("failed to write json response", "error", err)
	}
}

func isUnauthorizedTokenError(err error) bool {
	return errors.Is(err, service.ErrTokenExpired) ||
		errors.Is(err, service.ErrTokenMalformed) ||
		errors.Is(err, service.ErrTokenSignatureInvalid) ||
		errors.Is(err, service.ErrInvalidRefreshToken) ||
		errors.Is(err, service.ErrUnauthorized)
}
