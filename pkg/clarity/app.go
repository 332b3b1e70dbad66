package clarity

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/neuronaut/clarity/pkg/engine"
	"github.com/neuronaut/clarity/pkg/memory"
	"github.com/neuronaut/clarity/pkg/transport/httpapi"
	"github.com/neuronaut/clarity/pkg/voice"
)

// App owns every long-lived component of the service.
type App struct {
	cfg    Config
	store  *memory.SQLiteStore
	engine *engine.Engine
	voice  *voice.Service
	server *httpapi.Server
	logger *slog.Logger
}

func NewApp(cfg Config, registry *ProviderRegistry, logger *slog.Logger) (*App, error) {
	if registry == nil {
		registry = DefaultProviderRegistry()
	}
	if logger == nil {
		logger = slog.Default()
	}

	adapter, err := registry.BuildLLM(cfg.Vendors.LLM)
	if err != nil {
		return nil, fmt.Errorf("build llm: %w", err)
	}
	synth, err := registry.BuildTTS(cfg.Vendors.TTS)
	if err != nil {
		return nil, fmt.Errorf("build tts: %w", err)
	}

	store, err := memory.OpenSQLite(cfg.Storage.DSN)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	eng := engine.New(buildPolicy(cfg.Policy), adapter, store, logger)

	voiceSvc := voice.NewService(voice.Config{
		SignedLimit: cfg.Voice.SignedLimit,
		GuestLimit:  cfg.Voice.GuestLimit,
		MaxChars:    cfg.Voice.MaxChars,
		Timeout:     time.Duration(cfg.Voice.TimeoutMS) * time.Millisecond,
	}, synth, voice.NewSQLiteQuotaStore(store.DB()), logger)

	server := httpapi.NewServer(httpapi.Config{Port: cfg.Server.Port},
		eng, voiceSvc, store, memory.NewLocalStore(0), logger)

	return &App{
		cfg:    cfg,
		store:  store,
		engine: eng,
		voice:  voiceSvc,
		server: server,
		logger: logger,
	}, nil
}

// Serve blocks until the HTTP listener stops.
func (a *App) Serve() error {
	a.logger.Info("clarity listening",
		slog.Int("port", a.cfg.Server.Port),
		slog.String("environment", a.cfg.Environment))
	return a.server.Start()
}

// Drain shuts the HTTP server down and closes storage.
func (a *App) Drain() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := a.server.Shutdown(ctx)
	if cerr := a.store.Close(); err == nil {
		err = cerr
	}
	return err
}

func (a *App) Engine() *engine.Engine { return a.engine }

func (a *App) Server() *httpapi.Server { return a.server }

func buildPolicy(cfg PolicyConfig) engine.Policy {
	policy := engine.DefaultPolicy()
	if cfg.Persona != "" {
		policy.Persona = cfg.Persona
	}
	if len(cfg.BlockedPhrases) > 0 {
		policy.BlockedPhrases = cfg.BlockedPhrases
	}
	if cfg.RedirectReply != "" {
		policy.RedirectReply = cfg.RedirectReply
	}
	if cfg.FallbackReply != "" {
		policy.FallbackReply = cfg.FallbackReply
	}
	if cfg.ClarifyReply != "" {
		policy.ClarifyReply = cfg.ClarifyReply
	}
	if cfg.ReplyTemperature > 0 {
		policy.ReplyTemperature = cfg.ReplyTemperature
	}
	if cfg.ReplyTimeoutMS > 0 {
		policy.ReplyTimeout = time.Duration(cfg.ReplyTimeoutMS) * time.Millisecond
	}
	if cfg.NoteTimeoutMS > 0 {
		policy.NoteTimeout = time.Duration(cfg.NoteTimeoutMS) * time.Millisecond
	}
	if cfg.MemoryLimit > 0 {
		policy.MemoryLimit = cfg.MemoryLimit
	}
	return policy
}
