package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
)

// Options are the resolved command line settings.
type Options struct {
	ConfigFile string

	Event     string `validate:"required"`
	Race      string `validate:"required"`
	Splits    bool
	BatchSize int    `validate:"min=1"`
	Format    string `validate:"oneof=json csv"`
	Output    string

	BaseURL   string        `validate:"required,url"`
	UserAgent string        `validate:"required"`
	Timeout   time.Duration `validate:"gte=0"`

	LogLevel  string `validate:"oneof=debug info warn error"`
	LogPretty bool
	Quiet     bool

	RedisAddr string        `validate:"omitempty,hostname_port"`
	RedisTTL  time.Duration `validate:"gt=0"`

	MetricsFile string
}

// Validate checks the options after flags, environment and config file have
// been merged.
func (o *Options) Validate() error {
	if err := validator.New().Struct(o); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}
	return nil
}

// OutputPath returns the file the results are written to.
func (o *Options) OutputPath() string {
	if o.Output != "" {
		return o.Output
	}
	return filepath.Join("data", fmt.Sprintf("%s_%s.%s", o.Event, o.Race, o.Format))
}
