package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	pterrors "github.com/randalmurphal/pipetrack/pkg/pipetrack/errors"
	"github.com/randalmurphal/pipetrack/pkg/pipetrack/eventlog"
	"github.com/randalmurphal/pipetrack/pkg/pipetrack/observability"
)

// Settings are the validated runtime settings of a pipetrack process.
type Settings struct {
	LogLevel  slog.Level
	LogFormat string
	Store     string
	StorePath string
	Metrics   bool
	Tracing   bool
	Retry     pterrors.RetryConfig
}

// DefaultSettings returns the settings used for keys absent from a Config.
func DefaultSettings() Settings {
	return Settings{
		LogLevel:  slog.LevelInfo,
		LogFormat: observability.FormatJSON,
		Store:     eventlog.KindMemory,
		Retry:     pterrors.NoRetry,
	}
}

// ErrInvalidSettings wraps every validation failure from LoadSettings.
var ErrInvalidSettings = errors.New("invalid settings")

// LoadSettings extracts and validates Settings from cfg.
func LoadSettings(cfg Config) (Settings, error) {
	s := DefaultSettings()

	if level, ok := cfg.stringValue("log.level"); ok {
		if err := s.LogLevel.UnmarshalText([]byte(level)); err != nil {
			return Settings{}, fmt.Errorf("%w: log.level %q", ErrInvalidSettings, level)
		}
	}
	s.LogFormat = strings.ToLower(cfg.String("log.format", s.LogFormat))
	s.Store = strings.ToLower(cfg.String("store.kind", s.Store))
	s.StorePath = cfg.String("store.path", s.StorePath)
	s.Metrics = cfg.Bool("metrics", s.Metrics)
	s.Tracing = cfg.Bool("tracing", s.Tracing)

	if cfg.Has("retry") {
		retry := cfg.Section("retry")
		s.Retry = pterrors.RetryConfig{
			MaxAttempts:    retry.Int("max_attempts", pterrors.DefaultRetry.MaxAttempts),
			InitialBackoff: retry.Duration("initial_backoff", pterrors.DefaultRetry.InitialBackoff),
			MaxBackoff:     retry.Duration("max_backoff", pterrors.DefaultRetry.MaxBackoff),
			BackoffFactor:  retry.Float("backoff_factor", pterrors.DefaultRetry.BackoffFactor),
			Jitter:         retry.Float("jitter", pterrors.DefaultRetry.Jitter),
		}
	}

	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate checks that the settings are usable.
func (s Settings) Validate() error {
	var errs []error

	switch s.LogFormat {
	case observability.FormatJSON, observability.FormatText:
	default:
		errs = append(errs, fmt.Errorf("log.format %q must be json or text", s.LogFormat))
	}

	switch s.Store {
	case eventlog.KindMemory:
	case eventlog.KindSQLite:
		if s.StorePath == "" {
			errs = append(errs, errors.New("store.path is required for sqlite"))
		}
	default:
		errs = append(errs, fmt.Errorf("store.kind %q must be memory or sqlite", s.Store))
	}

	if s.Retry.MaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("retry.max_attempts must be at least 1, got %d", s.Retry.MaxAttempts))
	}
	if s.Retry.BackoffFactor < 0 {
		errs = append(errs, errors.New("retry.backoff_factor must not be negative"))
	}
	if s.Retry.Jitter < 0 || s.Retry.Jitter > 1 {
		errs = append(errs, fmt.Errorf("retry.jitter must be within [0, 1], got %g", s.Retry.Jitter))
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidSettings, errors.Join(errs...))
}

// OpenStore opens the event store the settings describe.
func (s Settings) OpenStore() (eventlog.Store, error) {
	return eventlog.Open(s.Store, s.StorePath)
}
