package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"

	"deepregrets/game"
	"deepregrets/meta"
)

// Config controls a batch of simulated games.
type Config struct {
	Players      int      `env:"DR_PLAYERS"      envDefault:"3"`
	Games        int      `env:"DR_GAMES"        envDefault:"10"`
	Seed         uint64   `env:"DR_SEED"` // 0 picks a seed from the clock
	Parallel     int      `env:"DR_PARALLEL"     envDefault:"1"`
	Difficulties []string `env:"DR_DIFFICULTIES" envDefault:"medium,hard,easy"         envSeparator:","`
	Strategies   []string `env:"DR_STRATEGIES"   envDefault:"balanced,aggressive,cautious" envSeparator:","`
	Characters   []string `env:"DR_CHARACTERS"   envSeparator:","` // empty rotates through the catalog
	Lookahead    int      `env:"DR_LOOKAHEAD"    envDefault:"4"`
	MaxActions   int      `env:"DR_MAX_ACTIONS"  envDefault:"5000"`
	Days         int      `env:"DR_DAYS"`
	FishbuckCap  int      `env:"DR_FISHBUCK_CAP"`
	CatalogFile  string   `env:"DR_CATALOG"`
	OutputDir    string   `env:"DR_OUTPUT_DIR"   envDefault:"experiments/results"`
	LogLevel     string   `env:"DR_LOG_LEVEL"    envDefault:"info"`
}

// Load reads the configuration from the process environment.
func Load() (Config, error) {
	return parse(env.Options{})
}

// LoadFrom reads the configuration from the given variables only.
func LoadFrom(environment map[string]string) (Config, error) {
	return parse(env.Options{Environment: environment})
}

func parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if c.Players < 1 {
		errs = append(errs, fmt.Errorf("DR_PLAYERS must be at least 1, got %d", c.Players))
	}
	if c.Games < 1 {
		errs = append(errs, fmt.Errorf("DR_GAMES must be at least 1, got %d", c.Games))
	}
	if c.Parallel < 1 {
		errs = append(errs, fmt.Errorf("DR_PARALLEL must be at least 1, got %d", c.Parallel))
	}
	if c.MaxActions < 1 {
		errs = append(errs, fmt.Errorf("DR_MAX_ACTIONS must be at least 1, got %d", c.MaxActions))
	}
	if len(c.Difficulties) == 0 || len(c.Strategies) == 0 {
		errs = append(errs, errors.New("DR_DIFFICULTIES and DR_STRATEGIES need at least one entry"))
	}
	if c.Days < 0 || c.Days > meta.DAYS {
		errs = append(errs, fmt.Errorf("DR_DAYS must be between 1 and %d", meta.DAYS))
	}
	return errors.Join(errs...)
}

// Rules is the standard rule set with any overrides applied.
func (c Config) Rules() game.Rules {
	rules := game.NewStandardRules()
	if c.Days > 0 {
		rules.Days = c.Days
	}
	if c.FishbuckCap > 0 {
		rules.FishbuckCap = c.FishbuckCap
	}
	return rules
}
