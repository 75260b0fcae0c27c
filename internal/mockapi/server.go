// Package mockapi is a fake VRChat API for local development and end-to-end
// tests. It serves a small fixture graph from an in-memory Store.
package mockapi

import (
	"context"
	"net"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/valyala/fasthttp/fasthttpadaptor"

	"github.com/birbparty/vrcsdk/internal/telemetry"
)

// BasePath is where the API is mounted, matching the real host layout.
const BasePath = "/api/1"

// Config controls the fake server.
type Config struct {
	// AuthCookie, when set, must be sent as the "auth" cookie on every route
	// except /config.
	AuthCookie string
	// Latency is added to every API response.
	Latency time.Duration
	Logger  *logrus.Logger
}

// Server is the fake API.
type Server struct {
	app      *fiber.App
	store    *Store
	cfg      Config
	registry *prometheus.Registry
	requests *prometheus.CounterVec
}

// New builds a server over store. A nil store gets NewStore().
func New(cfg Config, store *Store) *Server {
	if store == nil {
		store = NewStore()
	}

	reg := prometheus.NewRegistry()
	s := &Server{
		store:    store,
		cfg:      cfg,
		registry: reg,
		requests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "vrc_mock_requests_total",
			Help: "Requests served by the mock API by route and status",
		}, []string{"method", "route", "status"}),
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "vrc-mock",
		ErrorHandler:          errorHandler,
		UnescapePath:          true,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
		IdleTimeout:           120 * time.Second,
		DisableStartupMessage: true,
	})

	s.app.Use(recover.New())
	s.app.Use(requestid.New())
	s.app.Use(telemetry.FiberTracingMiddleware())
	s.app.Use(telemetry.FiberLoggingMiddleware(cfg.Logger))
	s.app.Use(s.countRequests)

	metrics := fasthttpadaptor.NewFastHTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	s.app.Get("/metrics", func(c *fiber.Ctx) error {
		metrics(c.Context())
		return nil
	})

	s.setupRoutes()
	return s
}

// App exposes the fiber app, mainly for app.Test.
func (s *Server) App() *fiber.App {
	return s.app
}

// Store returns the backing fixture store.
func (s *Server) Store() *Store {
	return s.store
}

// Listen serves on addr until Shutdown.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Serve serves on ln until Shutdown.
func (s *Server) Serve(ln net.Listener) error {
	return s.app.Listener(ln)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) countRequests(c *fiber.Ctx) error {
	err := c.Next()
	status := c.Response().StatusCode()
	if fe, ok := err.(*fiber.Error); ok {
		status = fe.Code
	} else if err != nil {
		status = fiber.StatusInternalServerError
	}
	s.requests.WithLabelValues(c.Method(), c.Route().Path, statusText(status)).Inc()
	return err
}

func (s *Server) delay(c *fiber.Ctx) error {
	if s.cfg.Latency > 0 {
		select {
		case <-time.After(s.cfg.Latency):
		case <-c.UserContext().Done():
			return c.UserContext().Err()
		}
	}
	return c.Next()
}

// requireAuth checks the auth cookie.
func (s *Server) requireAuth(c *fiber.Ctx) error {
	if s.cfg.AuthCookie == "" || c.Cookies("auth") == s.cfg.AuthCookie {
		return c.Next()
	}
	return fiber.NewError(fiber.StatusUnauthorized, "Missing Credentials")
}
