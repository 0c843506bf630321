package main

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/cobra"

	"github.com/KirkDiggler/alloy-horizon/internal/errors"
)

// processConfig is read from the environment; flags override it
type processConfig struct {
	RedisAddr     string        `env:"HORIZON_REDIS_ADDR"`
	RedisPassword string        `env:"HORIZON_REDIS_PASSWORD"`
	RedisDB       int           `env:"HORIZON_REDIS_DB" envDefault:"0"`
	RedisTLS      bool          `env:"HORIZON_REDIS_TLS" envDefault:"false"`
	Slot          string        `env:"HORIZON_SAVE_SLOT" envDefault:"autosave"`
	TickInterval  time.Duration `env:"HORIZON_TICK_INTERVAL" envDefault:"500ms"`
	LogLevel      string        `env:"HORIZON_LOG_LEVEL" envDefault:"info"`
	LogFormat     string        `env:"HORIZON_LOG_FORMAT" envDefault:"text"`
	BalancePath   string        `env:"HORIZON_BALANCE_PATH"`
	Name          string        `env:"HORIZON_CHARACTER_NAME" envDefault:"Frame"`
}

// Validate checks the values that have a fixed set of choices
func (c *processConfig) Validate() error {
	vb := errors.NewValidationBuilder()

	errors.ValidateEnum("LogLevel", strings.ToLower(c.LogLevel), []string{"debug", "info", "warn", "error"}, vb)
	errors.ValidateEnum("LogFormat", strings.ToLower(c.LogFormat), []string{"text", "json"}, vb)
	if c.TickInterval <= 0 {
		vb.InvalidField("TickInterval", "must be positive")
	}
	if c.RedisDB < 0 {
		vb.InvalidField("RedisDB", "must not be negative")
	}

	return vb.Build()
}

var cfg processConfig

func bindFlags(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.StringVar(&cfg.RedisAddr, "redis-addr", "", "redis address for save slots; empty keeps saves in memory")
	f.StringVar(&cfg.Slot, "slot", "", "save slot to load at start and write on exit")
	f.DurationVar(&cfg.TickInterval, "interval", 0, "auto-advance tick interval")
	f.StringVar(&cfg.LogLevel, "log-level", "", "debug, info, warn or error")
	f.StringVar(&cfg.LogFormat, "log-format", "", "text or json")
	f.StringVar(&cfg.BalancePath, "balance", "", "path to a balance YAML file")
	f.StringVar(&cfg.Name, "name", "", "character name for a new game")
}

// loadConfig parses the environment, then lets any flag the user set win
func loadConfig(cmd *cobra.Command) error {
	fromEnv := processConfig{}
	if err := env.Parse(&fromEnv); err != nil {
		return errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to parse environment")
	}

	flags := cmd.Flags()
	overrides := map[string]func(){
		"redis-addr": func() { fromEnv.RedisAddr = cfg.RedisAddr },
		"slot":       func() { fromEnv.Slot = cfg.Slot },
		"interval":   func() { fromEnv.TickInterval = cfg.TickInterval },
		"log-level":  func() { fromEnv.LogLevel = cfg.LogLevel },
		"log-format": func() { fromEnv.LogFormat = cfg.LogFormat },
		"balance":    func() { fromEnv.BalancePath = cfg.BalancePath },
		"name":       func() { fromEnv.Name = cfg.Name },
	}
	for name, apply := range overrides {
		if flags.Changed(name) {
			apply()
		}
	}

	if err := fromEnv.Validate(); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}

	cfg = fromEnv
	return nil
}

func setupLogging(c processConfig) {
	var level slog.Level
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if strings.EqualFold(c.LogFormat, "json") {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}
