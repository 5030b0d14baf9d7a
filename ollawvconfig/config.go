package ollawvconfig

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// ErrConfigInvalid wraps a specific reason, realizing spec.md §7's
// ConfigurationInvalid taxonomy entry as a concrete error.
var ErrConfigInvalid = errors.New("ollawvconfig: invalid configuration")

const (
	BiasYes = "yes"
	BiasNo  = "no"
)

// Config mirrors spec.md §6's configuration table, one field per row.
type Config struct {
	CLow       float64 `mapstructure:"c_low"`
	CHigh      float64 `mapstructure:"c_high"`
	GammaLow   float64 `mapstructure:"gamma_low"`
	GammaHigh  float64 `mapstructure:"gamma_high"`
	Resolution int     `mapstructure:"resolution"`
	OuterFolds int     `mapstructure:"outer_folds"`
	InnerFolds int     `mapstructure:"inner_folds"`
	Bias       string  `mapstructure:"bias"`
	Epochs     float64 `mapstructure:"epochs"`
	Margin     float64 `mapstructure:"margin"`
	CacheSize  int     `mapstructure:"cache_size"`
	Input      string  `mapstructure:"input"`
}

// UseBias returns 1.0 if Bias == BiasYes, 0.0 otherwise - the form
// train.Params and pairwise.Params expect.
func (c Config) UseBias() float64 {
	if c.Bias == BiasYes {
		return 1.0
	}
	return 0.0
}

// DefaultConfig returns spec.md §6's documented defaults.
func DefaultConfig() Config {
	return Config{
		CLow:       0.001,
		CHigh:      10000,
		GammaLow:   1.0 / 1024, // 2^-10
		GammaHigh:  16,
		Resolution: 8,
		OuterFolds: 1,
		InnerFolds: 10,
		Bias:       BiasYes,
		Epochs:     0.5,
		Margin:     0.1,
		CacheSize:  200,
		Input:      "",
	}
}

// RegisterFlags binds every Config field to a pflag flag on fs, seeded with
// defaults.
func RegisterFlags(fs *pflag.FlagSet, defaults Config) {
	fs.Float64("c-low", defaults.CLow, "Penalty C search lower bound")
	fs.Float64("c-high", defaults.CHigh, "Penalty C search upper bound")
	fs.Float64("gamma-low", defaults.GammaLow, "RBF gamma search lower bound")
	fs.Float64("gamma-high", defaults.GammaHigh, "RBF gamma search upper bound")
	fs.Int("resolution", defaults.Resolution, "Grid resolution shared by C and gamma")
	fs.Int("outer-folds", defaults.OuterFolds, "Outer cross-validation fold count (1 disables)")
	fs.Int("inner-folds", defaults.InnerFolds, "Inner cross-validation fold count (1 disables)")
	fs.String("bias", defaults.Bias, "Whether to learn a bias term (yes|no)")
	fs.Float64("epochs", defaults.Epochs, "SGD iteration budget multiplier (it_max = ceil(epochs*n))")
	fs.Float64("margin", defaults.Margin, "Early-exit threshold, in units of C")
	fs.Int("cache-size", defaults.CacheSize, "Kernel cache budget in MiB")
	fs.String("input", defaults.Input, "Dataset file path")
}

// LoadOptions configures Load.
type LoadOptions struct {
	Cmd        flagBinder
	ConfigFile string
	Defaults   Config
}

type flagBinder interface {
	Flags() *pflag.FlagSet
}

// Load resolves every option from, in decreasing order of precedence, flags
// explicitly set on opts.Cmd, OLLAWV_-prefixed environment variables, the
// optional config file, and opts.Defaults, then validates the result.
func Load(opts LoadOptions) (Config, error) {
	v := viper.New()
	setDefaults(v, opts.Defaults)

	if opts.Cmd != nil {
		if err := v.BindPFlags(opts.Cmd.Flags()); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}
	registerAliases(v)

	v.SetEnvPrefix("OLLAWV")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, c Config) {
	v.SetDefault("c_low", c.CLow)
	v.SetDefault("c_high", c.CHigh)
	v.SetDefault("gamma_low", c.GammaLow)
	v.SetDefault("gamma_high", c.GammaHigh)
	v.SetDefault("resolution", c.Resolution)
	v.SetDefault("outer_folds", c.OuterFolds)
	v.SetDefault("inner_folds", c.InnerFolds)
	v.SetDefault("bias", c.Bias)
	v.SetDefault("epochs", c.Epochs)
	v.SetDefault("margin", c.Margin)
	v.SetDefault("cache_size", c.CacheSize)
	v.SetDefault("input", c.Input)
}

func registerAliases(v *viper.Viper) {
	v.RegisterAlias("c_low", "c-low")
	v.RegisterAlias("c_high", "c-high")
	v.RegisterAlias("gamma_low", "gamma-low")
	v.RegisterAlias("gamma_high", "gamma-high")
	v.RegisterAlias("resolution", "resolution")
	v.RegisterAlias("outer_folds", "outer-folds")
	v.RegisterAlias("inner_folds", "inner-folds")
	v.RegisterAlias("bias", "bias")
	v.RegisterAlias("epochs", "epochs")
	v.RegisterAlias("margin", "margin")
	v.RegisterAlias("cache_size", "cache-size")
	v.RegisterAlias("input", "input")
}

// Validate checks every ConfigurationInvalid case named in spec.md §7.
func (c Config) Validate() error {
	if c.Bias != BiasYes && c.Bias != BiasNo {
		return fmt.Errorf("%w: bias must be %q or %q, got %q", ErrConfigInvalid, BiasYes, BiasNo, c.Bias)
	}
	if c.Resolution <= 0 {
		return fmt.Errorf("%w: resolution must be > 0, got %d", ErrConfigInvalid, c.Resolution)
	}
	if c.CLow >= c.CHigh && c.Resolution > 1 {
		return fmt.Errorf("%w: c_low (%g) must be < c_high (%g) when resolution > 1", ErrConfigInvalid, c.CLow, c.CHigh)
	}
	if c.GammaLow >= c.GammaHigh && c.Resolution > 1 {
		return fmt.Errorf("%w: gamma_low (%g) must be < gamma_high (%g) when resolution > 1", ErrConfigInvalid, c.GammaLow, c.GammaHigh)
	}
	if c.OuterFolds <= 0 {
		return fmt.Errorf("%w: outer_folds must be > 0, got %d", ErrConfigInvalid, c.OuterFolds)
	}
	if c.InnerFolds <= 0 {
		return fmt.Errorf("%w: inner_folds must be > 0, got %d", ErrConfigInvalid, c.InnerFolds)
	}
	if c.Epochs <= 0 {
		return fmt.Errorf("%w: epochs must be > 0, got %g", ErrConfigInvalid, c.Epochs)
	}
	if c.Margin <= 0 {
		return fmt.Errorf("%w: margin must be > 0, got %g", ErrConfigInvalid, c.Margin)
	}
	if c.CacheSize <= 0 {
		return fmt.Errorf("%w: cache_size must be > 0, got %d", ErrConfigInvalid, c.CacheSize)
	}
	if c.Input == "" {
		return fmt.Errorf("%w: input is required", ErrConfigInvalid)
	}
	return nil
}
