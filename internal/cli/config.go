package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/matzehuels/rankplot/pkg/pipeline"
)

// envPrefix prefixes every environment variable read by the config,
// e.g. RANKPLOT_WIDTH or RANKPLOT_SERVER_ADDR.
const envPrefix = "RANKPLOT"

// Config holds defaults for every command. Command-line flags override it.
type Config struct {
	Width   float64  `mapstructure:"width"`
	Height  float64  `mapstructure:"height"`
	DPI     float64  `mapstructure:"dpi"`
	Formats []string `mapstructure:"formats"`
	Scale   float64  `mapstructure:"scale"`

	CacheDir string `mapstructure:"cache_dir"`
	NoCache  bool   `mapstructure:"no_cache"`

	Plot   PlotConfig   `mapstructure:"plot"`
	Server ServerConfig `mapstructure:"server"`
}

// PlotConfig holds chart defaults.
type PlotConfig struct {
	Palette       []string `mapstructure:"palette"`
	GreyColor     string   `mapstructure:"grey_color"`
	TextColor     string   `mapstructure:"text_color"`
	TickColor     string   `mapstructure:"tick_color"`
	LabelFontSize float64  `mapstructure:"label_fontsize"`
	TickFontSize  float64  `mapstructure:"tick_fontsize"`
}

// ServerConfig configures "rankplot serve".
type ServerConfig struct {
	Addr     string `mapstructure:"addr"`
	RedisURL string `mapstructure:"redis_url"`
}

// loadConfig reads path, or rankplot.toml from the working directory and
// the user config directory when path is empty. A missing default file is
// not an error. Environment variables override file values.
func loadConfig(path string) (*Config, error) {
	v := viper.New()
	setConfigDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(appName)
		v.SetConfigType("toml")
		v.AddConfigPath(".")
		if dir, err := configDir(); err == nil {
			v.AddConfigPath(dir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

func setConfigDefaults(v *viper.Viper) {
	v.SetDefault("width", pipeline.DefaultWidth)
	v.SetDefault("height", pipeline.DefaultHeight)
	v.SetDefault("dpi", pipeline.DefaultDPI)
	v.SetDefault("formats", []string{pipeline.FormatSVG})
	v.SetDefault("scale", 0)
	v.SetDefault("cache_dir", "")
	v.SetDefault("no_cache", false)

	// Registered so AutomaticEnv can see them.
	v.SetDefault("plot.palette", []string{})
	v.SetDefault("plot.grey_color", "")
	v.SetDefault("plot.text_color", "")
	v.SetDefault("plot.tick_color", "")
	v.SetDefault("plot.label_fontsize", 0)
	v.SetDefault("plot.tick_fontsize", 0)

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.redis_url", "")
}

// configDir returns the config directory using XDG standard (~/.config/rankplot/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}
