// Package api exposes the agent over HTTP.
package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/agentic-automator/agent/contract"
)

const (
	healthPath  = "/api/v1/health"
	metricsPath = "/metrics"
)

type Config struct {
	AppName     string   `envconfig:"APP_NAME" default:"Agentic AI Automator"`
	ListenAddr  string   `envconfig:"LISTEN_ADDR" default:":8000"`
	APIAuthKey  string   `envconfig:"API_AUTH_KEY"`
	CORSOrigins []string `envconfig:"CORS_ORIGINS" default:"*"`
}

// Agent is the capability the HTTP layer serves.
type Agent interface {
	Plan(ctx context.Context, goal string, maxSteps int) (contractx.Plan, error)
	Execute(ctx context.Context, goal string, maxSteps int) (contractx.ExecutionReport, error)
}

type Server struct {
	cfg     Config
	agent   Agent
	tools   contractx.ToolRegistry
	limiter contractx.RateLimiter
	echo    *echo.Echo
}

// New wires routes and middleware. limiter may be nil to disable rate
// limiting.
func New(cfg Config, agent Agent, tools contractx.ToolRegistry, limiter contractx.RateLimiter) *Server {
	s := &Server{
		cfg:     cfg,
		agent:   agent,
		tools:   tools,
		limiter: limiter,
		echo:    echo.New(),
	}

	e := s.echo
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = s.handleError

	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(requestLogger())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: origins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization, headerAPIKey},
	}))
	if limiter != nil {
		e.Use(rateLimit(limiter))
	}
	if key := strings.TrimSpace(cfg.APIAuthKey); key != "" {
		e.Use(apiKeyAuth(key, healthPath, metricsPath))
	}

	e.GET(healthPath, s.health)
	e.GET(metricsPath, echo.WrapHandler(promhttp.Handler()))

	agentGroup := e.Group("/api/v1/agent")
	agentGroup.GET("/tools", s.listTools)
	agentGroup.POST("/plan", s.plan)
	agentGroup.POST("/execute", s.execute)

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// Start blocks serving on addr until Shutdown.
func (s *Server) Start(addr string) error {
	if addr == "" {
		addr = s.cfg.ListenAddr
	}
	log.Info().Str("addr", addr).Msg("http server listening")
	return s.echo.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
