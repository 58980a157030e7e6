package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config controls runtime behavior for the TUI app.
type Config struct {
	// DeckPath is a deck file. Empty means the builtin sample deck.
	DeckPath  string   `mapstructure:"deck"`
	LogPath   string   `mapstructure:"log"`
	Debug     bool     `mapstructure:"debug"`
	ASCIIOnly bool     `mapstructure:"ascii"`
	Shuffle   bool     `mapstructure:"shuffle"`
	Seed      uint64   `mapstructure:"seed"`
	UI        UIConfig `mapstructure:"ui"`
}

type UIConfig struct {
	Theme       string `mapstructure:"theme"`
	MotionLevel string `mapstructure:"motion"`
	Wrap        int    `mapstructure:"wrap"`
	// Prerender is how many cards on each side of the current one are
	// rendered ahead of time.
	Prerender int `mapstructure:"prerender"`
}

const envPrefix = "FLASHDECK"

func DefaultConfig() Config {
	return Config{
		UI: UIConfig{
			Theme:       "midnight",
			MotionLevel: "full",
			Prerender:   1,
		},
	}
}

func (c *Config) Validate() error {
	switch c.UI.Theme {
	case "", "midnight", "paper", "retro":
	default:
		return fmt.Errorf("invalid ui theme %q", c.UI.Theme)
	}
	if c.UI.Theme == "" {
		c.UI.Theme = "midnight"
	}
	switch c.UI.MotionLevel {
	case "", "off", "reduced", "full":
	default:
		return fmt.Errorf("invalid ui motion level %q", c.UI.MotionLevel)
	}
	if c.UI.MotionLevel == "" {
		c.UI.MotionLevel = "full"
	}
	if c.UI.Wrap < 0 {
		return fmt.Errorf("invalid ui wrap %d", c.UI.Wrap)
	}
	if c.UI.Prerender < 0 || c.UI.Prerender > 8 {
		return fmt.Errorf("ui prerender must be between 0 and 8, got %d", c.UI.Prerender)
	}
	if c.DeckPath != "" {
		info, err := os.Stat(c.DeckPath)
		if err != nil {
			return fmt.Errorf("deck: %w", err)
		}
		if info.IsDir() {
			return fmt.Errorf("deck %s is a directory", c.DeckPath)
		}
	}
	return nil
}

// NewViper returns a viper instance with flashdeck defaults and environment
// binding. Flags are bound by the caller.
func NewViper() *viper.Viper {
	v := viper.New()
	def := DefaultConfig()
	v.SetDefault("deck", def.DeckPath)
	v.SetDefault("log", def.LogPath)
	v.SetDefault("debug", def.Debug)
	v.SetDefault("ascii", def.ASCIIOnly)
	v.SetDefault("shuffle", def.Shuffle)
	v.SetDefault("seed", def.Seed)
	v.SetDefault("ui.theme", def.UI.Theme)
	v.SetDefault("ui.motion", def.UI.MotionLevel)
	v.SetDefault("ui.wrap", def.UI.Wrap)
	v.SetDefault("ui.prerender", def.UI.Prerender)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// LoadConfig reads the config file (if any) into v and returns the validated
// result. An explicit path must exist; the default path may be missing.
func LoadConfig(v *viper.Viper, path string) (Config, error) {
	v.SetConfigType("yaml")
	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath()
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			switch {
			case errors.As(err, &notFound), !explicit && errors.Is(err, os.ErrNotExist):
			default:
				return Config{}, fmt.Errorf("read config %s: %w", path, err)
			}
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

// DefaultConfigPath is $XDG_CONFIG_HOME/flashdeck/config.yaml.
func DefaultConfigPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "flashdeck", "config.yaml")
}
