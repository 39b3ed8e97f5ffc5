package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/safespace/support-portal/internal/api/middleware"
	"github.com/safespace/support-portal/internal/core/domain"
	"github.com/safespace/support-portal/internal/core/ports"
)

// SessionHandler exposes login, logout and the navigation transitions.
type SessionHandler struct {
	nav       ports.NavigationService
	jwtSecret string
	tokenTTL  time.Duration
}

func NewSessionHandler(nav ports.NavigationService, jwtSecret string, tokenTTL time.Duration) *SessionHandler {
	return &SessionHandler{nav: nav, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expires_at"`
	Screen    *ports.Screen `json:"screen"`
}

type selectTabRequest struct {
	Tab string `json:"tab" validate:"required,oneof=chat tools resources community"`
}

type openTopicRequest struct {
	Topic string `json:"topic" validate:"required"`
}

// Login starts a session and authenticates it.
//
// @Summary      Log in
// @Description  Username of at most 8 characters and a 6-digit numeric password.
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      201   {object}  loginResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /v1/session [post]
func (h *SessionHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	ctx := c.Request().Context()
	sess, err := h.nav.Start(ctx)
	if err != nil {
		return err
	}
	screen, err := h.nav.Login(ctx, sess, req.Username, req.Password)
	if err != nil {
		return err
	}

	token, exp, err := middleware.IssueToken(h.jwtSecret, sess, h.tokenTTL, time.Now())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, loginResponse{Token: token, ExpiresAt: exp, Screen: screen})
}

// Logout discards the session.
//
// @Summary   Log out
// @Tags      session
// @Security  BearerAuth
// @Success   204
// @Failure   401  {object}  map[string]string
// @Router    /v1/session [delete]
func (h *SessionHandler) Logout(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	if err := h.nav.Logout(c.Request().Context(), sess); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Current describes the session's screen.
//
// @Summary   Current screen
// @Tags      session
// @Produce   json
// @Security  BearerAuth
// @Success   200  {object}  ports.Screen
// @Failure   401  {object}  map[string]string
// @Router    /v1/session [get]
func (h *SessionHandler) Current(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.nav.Current(sess))
}

// SelectTab switches the top-level tab.
//
// @Summary   Select tab
// @Tags      session
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     body  body      selectTabRequest  true  "Tab"
// @Success   200   {object}  ports.Screen
// @Failure   401   {object}  map[string]string
// @Failure   422   {object}  map[string]string
// @Router    /v1/session/tab [put]
func (h *SessionHandler) SelectTab(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	var req selectTabRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	screen, err := h.nav.SelectTab(c.Request().Context(), sess, domain.Tab(req.Tab))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, screen)
}

// OpenTopic drills into a community topic.
//
// @Summary   Open topic
// @Tags      session
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     body  body      openTopicRequest  true  "Topic"
// @Success   200   {object}  ports.Screen
// @Failure   404   {object}  map[string]string
// @Failure   409   {object}  map[string]string
// @Router    /v1/session/topic [put]
func (h *SessionHandler) OpenTopic(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	var req openTopicRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	screen, err := h.nav.OpenTopic(c.Request().Context(), sess, domain.Topic(req.Topic))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, screen)
}

// Back returns from a topic to the community overview.
//
// @Summary   Back to topics
// @Tags      session
// @Produce   json
// @Security  BearerAuth
// @Success   200  {object}  ports.Screen
// @Failure   409  {object}  map[string]string
// @Router    /v1/session/topic [delete]
func (h *SessionHandler) Back(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	screen, err := h.nav.Back(c.Request().Context(), sess)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, screen)
}
