package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"time"

	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/uyouii/mollifier/animation"
	"github.com/uyouii/mollifier/common"
	"github.com/uyouii/mollifier/mollifier"
	"github.com/uyouii/mollifier/view"
)

const EnvPrefix = "MOLLIFIER"

type Config struct {
	Addr string

	AnimationInterval time.Duration
	AnimationStep     float64

	IntegrationSteps int
	GridSteps        int

	LogLevel       string
	LogDevelopment bool

	Views map[string]view.Preset
}

// flagBindings maps viper keys to pflag names.
var flagBindings = map[string]string{
	"server.addr":              "addr",
	"animation.interval":       "animation-interval",
	"animation.step":           "animation-step",
	"engine.integration_steps": "integration-steps",
	"engine.grid_steps":        "grid-steps",
	"log.level":                "log-level",
	"log.development":          "log-development",
}

// RegisterFlags adds every configuration flag to fs.
func RegisterFlags(fs *flag.FlagSet) {
	fs.String("config", "", "path to a YAML configuration file")
	fs.String("addr", ":8080", "HTTP listen address")
	fs.Duration("animation-interval", animation.DefaultInterval, "time between animation ticks")
	fs.Float64("animation-step", animation.DefaultStep, "position advance per animation tick")
	fs.Int("integration-steps", mollifier.DefaultIntegrationSteps, "Riemann sum subintervals per convolution value")
	fs.Int("grid-steps", 0, "override the sampling grid of every view (0 keeps each view's own)")
	fs.String("log-level", "info", "log level: debug, info, warn, error")
	fs.Bool("log-development", false, "human readable development logging")
}

// Load loads and validates the configuration.
// Precedence: flags > env > config file > defaults.
// flagSet may be nil.
func Load(flagSet *flag.FlagSet) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("animation.interval", animation.DefaultInterval)
	v.SetDefault("animation.step", animation.DefaultStep)
	v.SetDefault("engine.integration_steps", mollifier.DefaultIntegrationSteps)
	v.SetDefault("engine.grid_steps", 0)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var fileData []byte
	if flagSet != nil {
		for key, name := range flagBindings {
			if f := flagSet.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
		if path, err := flagSet.GetString("config"); err == nil && path != "" {
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
			fileData = data
		}
	}

	if len(fileData) > 0 {
		v.SetConfigType("yaml")
		if err := v.ReadConfig(bytes.NewReader(fileData)); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	views, err := LoadViewPresets(fileData, view.DefaultPresets())
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Addr:              v.GetString("server.addr"),
		AnimationInterval: v.GetDuration("animation.interval"),
		AnimationStep:     v.GetFloat64("animation.step"),
		IntegrationSteps:  v.GetInt("engine.integration_steps"),
		GridSteps:         v.GetInt("engine.grid_steps"),
		LogLevel:          v.GetString("log.level"),
		LogDevelopment:    v.GetBool("log.development"),
		Views:             views,
	}
	if cfg.GridSteps > 0 {
		for name, p := range cfg.Views {
			p.Steps = cfg.GridSteps
			cfg.Views[name] = p
		}
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// LoadViewPresets overlays the "views" block of a YAML document on base.
// Fields a view leaves out keep their base value.
func LoadViewPresets(data []byte, base map[string]view.Preset) (map[string]view.Preset, error) {
	res := make(map[string]view.Preset, len(base))
	for name, p := range base {
		res[name] = p
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return res, nil
	}

	var doc struct {
		Views map[string]yaml.Node `yaml:"views"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode views: %w", err)
	}
	for name, node := range doc.Views {
		p, ok := res[name]
		if !ok {
			return nil, fmt.Errorf("view %q: %w", name, common.ErrorUnknownView)
		}
		if err := node.Decode(&p); err != nil {
			return nil, fmt.Errorf("failed to decode view %q: %w", name, err)
		}
		res[name] = p
	}
	return res, nil
}

func Validate(cfg *Config) error {
	if cfg.Addr == "" {
		return fmt.Errorf("empty server address: %w", common.ErrorInvalidValue)
	}
	if cfg.AnimationInterval <= 0 || cfg.AnimationStep <= 0 {
		return fmt.Errorf("animation interval %v step %v: %w", cfg.AnimationInterval, cfg.AnimationStep, common.ErrorInvalidValue)
	}
	if cfg.IntegrationSteps <= 0 {
		return fmt.Errorf("integration steps %d: %w", cfg.IntegrationSteps, common.ErrorInvalidValue)
	}
	for name, p := range cfg.Views {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("view %s: %w", name, err)
		}
	}
	return nil
}

func (c *Config) ViewOptions() view.Options {
	return view.Options{
		IntegrationSteps:  c.IntegrationSteps,
		AnimationStep:     c.AnimationStep,
		AnimationInterval: c.AnimationInterval,
	}
}
