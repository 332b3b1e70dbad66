// Package httpapi exposes the conversation, working-notes, voice, and
// account-erasure endpoints.
package httpapi

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/neuronaut/clarity/pkg/engine"
	"github.com/neuronaut/clarity/pkg/logging"
	"github.com/neuronaut/clarity/pkg/memory"
	"github.com/neuronaut/clarity/pkg/voice"
)

type Config struct {
	Port int
}

type Server struct {
	cfg    Config
	echo   *echo.Echo
	engine *engine.Engine
	voice  *voice.Service
	store  memory.Store
	local  *memory.LocalStore
	log    *slog.Logger
}

func NewServer(cfg Config, eng *engine.Engine, voiceSvc *voice.Service, store memory.Store, local *memory.LocalStore, logger *slog.Logger) *Server {
	if cfg.Port == 0 {
		cfg.Port = 8080
	}
	if logger == nil {
		logger = slog.Default()
	}
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	s := &Server{
		cfg:    cfg,
		echo:   e,
		engine: eng,
		voice:  voiceSvc,
		store:  store,
		local:  local,
		log:    logging.NewComponentLogger(logger, "httpapi"),
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.echo.POST("/api/agent", s.handleAgent)
	s.echo.GET("/api/working-notes", s.handleListNotes)
	s.echo.POST("/api/working-notes", s.handleAddNote)
	s.echo.POST("/api/voice", s.handleVoice)
	s.echo.POST("/api/account/erase", s.handleErase)
}

// Start blocks serving HTTP until Shutdown.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.log.Info("http server starting", slog.String("addr", addr))
	if err := s.echo.Start(addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Echo exposes the router for tests.
func (s *Server) Echo() *echo.Echo { return s.echo }
