package voice

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/neuronaut/clarity/pkg/adapters/tts"
	"github.com/neuronaut/clarity/pkg/errorsx"
	"github.com/neuronaut/clarity/pkg/logging"
	"github.com/neuronaut/clarity/pkg/resilience"
)

// Limits are per rolling 24h window.
const (
	DefaultSignedLimit = 3
	DefaultGuestLimit  = 1
	DefaultMaxChars    = 800
)

// Subject identifies the quota owner: an authenticated identity when
// present, otherwise the caller's IP address.
type Subject struct {
	Identity string
	IP       string
}

func (s Subject) signed() bool { return strings.TrimSpace(s.Identity) != "" }

func (s Subject) key() string {
	if s.signed() {
		return s.Identity
	}
	if strings.TrimSpace(s.IP) != "" {
		return "ip:" + s.IP
	}
	return "ip:unknown"
}

type Config struct {
	SignedLimit int
	GuestLimit  int
	MaxChars    int
	Timeout     time.Duration
}

// Service runs quota-gated synthesis.
type Service struct {
	cfg     Config
	synth   tts.Synthesizer
	quota   QuotaStore
	breaker *resilience.CircuitBreaker
	now     func() time.Time
	log     *slog.Logger
}

func NewService(cfg Config, synth tts.Synthesizer, quota QuotaStore, logger *slog.Logger) *Service {
	if cfg.SignedLimit <= 0 {
		cfg.SignedLimit = DefaultSignedLimit
	}
	if cfg.GuestLimit <= 0 {
		cfg.GuestLimit = DefaultGuestLimit
	}
	if cfg.MaxChars <= 0 {
		cfg.MaxChars = DefaultMaxChars
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		cfg:     cfg,
		synth:   synth,
		quota:   quota,
		breaker: resilience.NewCircuitBreaker(3, 30*time.Second),
		now:     time.Now,
		log:     logging.NewComponentLogger(logger, "voice"),
	}
}

// ContentType reports the MIME type of Synthesize output.
func (s *Service) ContentType() string { return s.synth.ContentType() }

// Synthesize converts text to audio for the subject. Quota exhaustion comes
// back as a reasoned error (guest_limit_reached / signed_limit_reached) so
// the caller can surface it.
func (s *Service) Synthesize(ctx context.Context, text string, subject Subject) ([]byte, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.New("empty text")
	}
	// The cap counts characters, not bytes; accented text must not be cut
	// short or split mid-rune.
	if runes := []rune(text); len(runes) > s.cfg.MaxChars {
		text = string(runes[:s.cfg.MaxChars])
	}

	limit := s.cfg.GuestLimit
	limitReason := errorsx.ReasonGuestLimitReached
	if subject.signed() {
		limit = s.cfg.SignedLimit
		limitReason = errorsx.ReasonSignedLimitReached
	}

	allowed, err := s.quota.Allow(ctx, subject.key(), limit, s.now())
	if err != nil {
		return nil, errorsx.Wrap(err, errorsx.ReasonTTSSynthesize)
	}
	if !allowed {
		s.log.Info("voice quota exhausted",
			slog.Bool("signed", subject.signed()))
		return nil, errorsx.Wrap(errLimitReached, limitReason)
	}

	if !s.breaker.Allow() {
		s.log.Warn("tts breaker open",
			slog.Duration("retry_after", s.breaker.RetryAfter()))
		return nil, errorsx.Wrap(errProviderCooling, errorsx.ReasonTTSUnavailable)
	}

	callCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()
	audio, err := s.synth.Synthesize(callCtx, text)
	if err != nil {
		s.breaker.OnError(err)
		if resilience.IsRateLimit(err) {
			return nil, errorsx.Wrap(err, errorsx.ReasonTTSRateLimit)
		}
		return nil, errorsx.Wrap(err, errorsx.ReasonTTSSynthesize)
	}
	s.breaker.OnSuccess()
	return audio, nil
}

type limitError struct{}

func (limitError) Error() string { return "daily voice limit reached" }

var errLimitReached = limitError{}

type coolingError struct{}

func (coolingError) Error() string { return "voice provider cooling down" }

var errProviderCooling = coolingError{}
