package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/mboulet/authcore/internal/models"
	"github.com/mboulet/authcore/internal/service"
	"github.com/mboulet/authcore/internal/util"
)

type Controller struct {
	zapLogger   *zap.SugaredLogger
	authService *service.AuthService
	transport   TokenTransport
}

func NewController(logger *zap.SugaredLogger, authService *service.AuthService, transport TokenTransport) *Controller {
	return &Controller{
		zapLogger:   logger,
		authService: authService,
		transport:   transport,
	}
}

// RegisterRoutes wires the auth routes under prefix. The guard middleware is
// built in the api package and passed in to avoid an import cycle.
func RegisterRoutes(e *echo.Echo, c *Controller, guard echo.MiddlewareFunc, prefix string) {
	g := e.Group(prefix)
	g.GET("/up", c.CheckServer)
	g.POST("/register", c.Register)
	g.POST("/login", c.Login)
	g.POST("/refresh-token", c.Refresh)
	g.POST("/logout", c.Logout, guard)
	g.GET("/me", c.Me, guard)
}

// (GET /up).
func (c *Controller) CheckServer(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "OK"})
}

// (POST /register).
func (c *Controller) Register(ctx echo.Context) error {
	var req models.RegisterRequest
	if err := ctx.Bind(&req); err != nil {
		return util.NewResponseError(http.StatusBadRequest, "invalid request body")
	}
	if err := validateBody(registerSchema, map[string]interface{}{
		"email":    req.Email,
		"username": req.Username,
		"password": req.Password,
	}); err != nil {
		return err
	}

	if _, err := c.authService.Register(ctx.Request().Context(), req.Email, req.Username, req.Password); err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, models.StatusResponse{Success: true})
}

// (POST /login).
func (c *Controller) Login(ctx echo.Context) error {
	var req models.LoginRequest
	if err := ctx.Bind(&req); err != nil {
		return util.NewResponseError(http.StatusBadRequest, "invalid request body")
	}
	if err := validateBody(loginSchema, map[string]interface{}{
		"email":    req.Email,
		"password": req.Password,
	}); err != nil {
		return err
	}

	pair, err := c.authService.Login(ctx.Request().Context(), req.Email, req.Password, clientMeta(ctx))
	if err != nil {
		return err
	}
	return c.transport.WritePair(ctx, pair, "Login successful")
}

// (POST /refresh-token).
func (c *Controller) Refresh(ctx echo.Context) error {
	refreshToken := c.transport.RefreshToken(ctx)

	pair, err := c.authService.Refresh(ctx.Request().Context(), refreshToken, clientMeta(ctx))
	if err != nil {
		return err
	}
	return c.transport.WritePair(ctx, pair, "Access token refreshed")
}

// (POST /logout).
func (c *Controller) Logout(ctx echo.Context) error {
	refreshToken := c.transport.RefreshToken(ctx)

	if err := c.authService.Logout(ctx.Request().Context(), refreshToken); err != nil {
		return err
	}
	c.transport.Clear(ctx)
	return ctx.JSON(http.StatusOK, models.StatusResponse{Success: true, Message: "Logged out successfully"})
}

// (GET /me).
func (c *Controller) Me(ctx echo.Context) error {
	identity, ok := ctx.Get(models.MwIdentityKey).(*models.Identity)
	if !ok {
		return service.ErrUnauthorized
	}
	return ctx.JSON(http.StatusOK, models.IdentityResponse{Success: true, User: *identity})
}

func clientMeta(ctx echo.Context) models.ClientMeta {
	return models.ClientMeta{
		IPAddress: ctx.RealIP(),
		UserAgent: ctx.Request().UserAgent(),
	}
}
