// Package config loads the runtime and supervisor settings. Values are layered: struct
// defaults, then an optional YAML file, then BACKOFF_ prefixed environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/hedisam/backoffactor/actor"
	"github.com/hedisam/backoffactor/backoff"
	"github.com/hedisam/backoffactor/internal/logging"
	"github.com/hedisam/backoffactor/internal/mailbox"
)

const (
	VariantOnStop    = "on_stop"
	VariantOnFailure = "on_failure"

	ResetAuto   = "auto"
	ResetManual = "manual"
)

type Config struct {
	Log     LogConfig     `koanf:"log"`
	Mailbox MailboxConfig `koanf:"mailbox"`
	Backoff BackoffConfig `koanf:"backoff"`
	Metrics MetricsConfig `koanf:"metrics"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

type MailboxConfig struct {
	Kind     string `koanf:"kind"`
	Capacity uint64 `koanf:"capacity"`
}

type BackoffConfig struct {
	Variant      string        `koanf:"variant"`
	Min          time.Duration `koanf:"min"`
	Max          time.Duration `koanf:"max"`
	RandomFactor float64       `koanf:"random_factor"`
	Reset        string        `koanf:"reset"`
	// ResetAfter is the auto reset delay, zero means Min
	ResetAfter time.Duration `koanf:"reset_after"`
}

type MetricsConfig struct {
	Enabled bool   `koanf:"enabled"`
	Addr    string `koanf:"addr"`
}

func defaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: logging.FormatJSON,
		},
		Mailbox: MailboxConfig{
			Kind:     string(mailbox.RingBuffer),
			Capacity: mailbox.DefaultCapacity,
		},
		Backoff: BackoffConfig{
			Variant:      VariantOnFailure,
			Min:          100 * time.Millisecond,
			Max:          10 * time.Second,
			RandomFactor: 0.2,
			Reset:        ResetAuto,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Addr:    ":9102",
		},
	}
}

func (c *Config) Validate() error {
	switch strings.ToLower(c.Log.Format) {
	case logging.FormatJSON, logging.FormatConsole:
	default:
		return fmt.Errorf("invalid log format: %q", c.Log.Format)
	}
	switch mailbox.Kind(c.Mailbox.Kind) {
	case mailbox.RingBuffer, mailbox.MPSC:
	default:
		return fmt.Errorf("invalid mailbox kind: %q", c.Mailbox.Kind)
	}
	switch c.Backoff.Variant {
	case VariantOnStop, VariantOnFailure:
	default:
		return fmt.Errorf("invalid backoff variant: %q", c.Backoff.Variant)
	}
	switch c.Backoff.Reset {
	case ResetAuto, ResetManual:
	default:
		return fmt.Errorf("invalid backoff reset: %q", c.Backoff.Reset)
	}
	if c.Metrics.Enabled && c.Metrics.Addr == "" {
		return fmt.Errorf("metrics address must not be empty")
	}
	// the backoff parameters are checked by the supervisor options
	if _, err := c.BackoffOptions(func(*actor.Actor) {}, "validate"); err != nil {
		return err
	}
	return nil
}

// BackoffOptions builds the options of a supervisor running fn under childName
func (c *Config) BackoffOptions(fn actor.Func, childName string) (backoff.Options, error) {
	b := c.Backoff
	var opts backoff.Options
	switch b.Variant {
	case VariantOnStop:
		opts = backoff.OnStop(fn, childName, b.Min, b.Max, b.RandomFactor)
	case VariantOnFailure:
		opts = backoff.OnFailure(fn, childName, b.Min, b.Max, b.RandomFactor)
	default:
		return opts, fmt.Errorf("invalid backoff variant: %q", b.Variant)
	}

	switch b.Reset {
	case ResetAuto:
		opts = opts.SetAutoReset(b.ResetAfter)
	case ResetManual:
		opts = opts.SetManualReset()
	default:
		return opts, fmt.Errorf("invalid backoff reset: %q", b.Reset)
	}

	if err := opts.Validate(); err != nil {
		return opts, fmt.Errorf("backoff: %w", err)
	}
	return opts, nil
}

func (c *Config) LoggingConfig() logging.Config {
	return logging.Config{Level: c.Log.Level, Format: c.Log.Format}
}

func (c *Config) MailboxConfig() actor.MailboxConfig {
	return actor.MailboxConfig{Kind: c.Mailbox.Kind, Capacity: c.Mailbox.Capacity}
}
