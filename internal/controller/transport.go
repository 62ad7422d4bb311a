package controller

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/mboulet/authcore/internal/models"
	"github.com/mboulet/authcore/internal/util"
)

const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"

	bearerPrefix = "Bearer "
)

// TokenTransport decides where tokens travel between client and server.
// One implementation is chosen at startup from TOKEN_STORAGE; nothing
// branches on it per request.
type TokenTransport interface {
	// AccessToken extracts the inbound access token, or "" when absent.
	AccessToken(c echo.Context) string
	// RefreshToken extracts the presented refresh token, or "" when absent.
	RefreshToken(c echo.Context) string
	// WritePair delivers a freshly minted pair to the client.
	WritePair(c echo.Context, pair *models.TokenPair, message string) error
	// Clear removes whatever WritePair placed on the client.
	Clear(c echo.Context)
}

func NewTokenTransport(cfg *util.AuthConfig) TokenTransport {
	if cfg.TokenStorage == util.TokenStorageHeader {
		return &HeaderTransport{}
	}
	return &CookieTransport{secure: cfg.CookieSecure}
}

func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if !strings.HasPrefix(header, bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
}

// CookieTransport keeps tokens in httpOnly cookies, opaque to client scripts.
type CookieTransport struct {
	secure bool
}

func (t *CookieTransport) AccessToken(c echo.Context) string {
	// a Bearer header wins when both are present
	if token := bearerToken(c); token != "" {
		return token
	}
	cookie, err := c.Cookie(AccessTokenCookie)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func (t *CookieTransport) RefreshToken(c echo.Context) string {
	cookie, err := c.Cookie(RefreshTokenCookie)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func (t *CookieTransport) WritePair(c echo.Context, pair *models.TokenPair, message string) error {
	c.SetCookie(t.newCookie(AccessTokenCookie, pair.AccessToken, int(pair.AccessTTL.Seconds())))
	c.SetCookie(t.newCookie(RefreshTokenCookie, pair.RefreshToken, int(pair.RefreshTTL.Seconds())))
	return c.JSON(http.StatusOK, models.StatusResponse{Success: true, Message: message})
}

func (t *CookieTransport) Clear(c echo.Context) {
	c.SetCookie(t.newCookie(AccessTokenCookie, "", -1))
	c.SetCookie(t.newCookie(RefreshTokenCookie, "", -1))
}

func (t *CookieTransport) newCookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   t.secure,
		SameSite: http.SameSiteStrictMode,
	}
}

// HeaderTransport returns tokens in the response body; the client re-attaches
// the access token as a Bearer header and presents the refresh token in the
// request body.
type HeaderTransport struct{}

func (t *HeaderTransport) AccessToken(c echo.Context) string {
	return bearerToken(c)
}

func (t *HeaderTransport) RefreshToken(c echo.Context) string {
	var req models.TokenRefreshRequest
	if err := c.Bind(&req); err != nil {
		return ""
	}
	return req.RefreshToken
}

func (t *HeaderTransport) WritePair(c echo.Context, pair *models.TokenPair, message string) error {
	return c.JSON(http.StatusOK, models.TokenPairResponse{
		Success:          true,
		Message:          message,
		AccessToken:      pair.AccessToken,
		RefreshToken:     pair.RefreshToken,
		ExpiresIn:        int64(pair.AccessTTL.Seconds()),
		RefreshExpiresIn: int64(pair.RefreshTTL.Seconds()),
	})
}

func (t *HeaderTransport) Clear(echo.Context) {}
