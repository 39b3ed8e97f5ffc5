package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/safespace/support-portal/docs"
	"github.com/safespace/support-portal/internal/api/handler"
	"github.com/safespace/support-portal/internal/api/middleware"
	"github.com/safespace/support-portal/internal/core/domain"
	"github.com/safespace/support-portal/internal/core/ports"
)

// Deps is everything the router needs. Services are built by the caller so
// tests can wire the real core over temporary storage.
type Deps struct {
	Navigation   ports.NavigationService
	Conversation ports.ConversationService
	Community    ports.CommunityService
	Appointments ports.AppointmentService
	Catalog      ports.CatalogService
	Sessions     ports.SessionStore

	JWTSecret  string
	SessionTTL time.Duration
	Checks     map[string]handler.Check
	Logger     zerolog.Logger

	// HTTPMetrics receives the per-route request collectors. Nil uses a
	// fresh registry; /metrics serves it together with the default one.
	HTTPMetrics *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	reg := d.HTTPMetrics
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Logger))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "support",
		Registerer: reg,
	}))

	// --- Handlers ---
	sessionHandler := handler.NewSessionHandler(d.Navigation, d.JWTSecret, d.SessionTTL)
	chatHandler := handler.NewChatHandler(d.Conversation, d.Sessions)
	communityHandler := handler.NewCommunityHandler(d.Community)
	appointmentHandler := handler.NewAppointmentHandler(d.Appointments)
	resourcesHandler := handler.NewResourcesHandler(d.Catalog)

	// --- Public routes ---
	e.POST("/v1/session", sessionHandler.Login)

	// --- Session routes ---
	v1 := e.Group("/v1", middleware.Auth(d.JWTSecret, d.Sessions))

	v1.GET("/session", sessionHandler.Current)
	v1.DELETE("/session", sessionHandler.Logout)
	v1.PUT("/session/tab", sessionHandler.SelectTab)
	v1.PUT("/session/topic", sessionHandler.OpenTopic)
	v1.DELETE("/session/topic", sessionHandler.Back)

	v1.GET("/chat", chatHandler.History)
	v1.POST("/chat", chatHandler.Send)

	v1.GET("/community", communityHandler.Overview)
	v1.GET("/community/topics/:topic", communityHandler.List, middleware.RequireState(domain.StateCommunityTopic))
	v1.POST("/community/comments", communityHandler.Post, middleware.RequireState(domain.StateCommunityTopic))

	v1.POST("/appointments", appointmentHandler.Book)
	v1.GET("/appointments", appointmentHandler.List)

	v1.GET("/resources", resourcesHandler.Resources)
	v1.GET("/wellness/affirmation", resourcesHandler.Affirmation)
	v1.GET("/wellness/meditation", resourcesHandler.Meditation)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(d.Checks)

	e.GET("/health", healthHandler.Liveness)            // liveness
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness

	// --- Operations ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: prometheus.Gatherers{prometheus.DefaultGatherer, reg},
	}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			switch {
			case v.Status >= 500:
				evt = log.Error().Err(v.Error)
			case v.Error != nil:
				evt = log.Warn().Err(v.Error)
			}
			evt.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
