// Package config loads runtime settings from defaults, an optional
// config.yaml and FATURA_-prefixed environment variables, in that
// precedence order.
package config

import (
	"fmt"
	"strings"

	"github.com/cartaoclaro/fatura-parser/internal/parser"
	"github.com/spf13/viper"
)

// Server holds HTTP surface settings.
type Server struct {
	Port        int `mapstructure:"port"`
	BodyLimitMB int `mapstructure:"body_limit_mb"`
}

// Parser holds the thresholds threaded into the parse pipeline.
type Parser struct {
	LineTolerance   float64 `mapstructure:"line_tolerance"`
	GapThreshold    float64 `mapstructure:"gap_threshold"`
	MinTransactions int     `mapstructure:"min_transactions"`
	HeaderRows      int     `mapstructure:"header_rows"`
}

// Config is the full runtime configuration.
type Config struct {
	Server Server `mapstructure:"server"`
	Parser Parser `mapstructure:"parser"`
}

// ParserConfig converts the loaded settings into the parser package's
// config value.
func (c *Config) ParserConfig() parser.Config {
	return parser.Config{
		LineTolerance:   c.Parser.LineTolerance,
		GapThreshold:    c.Parser.GapThreshold,
		MinTransactions: c.Parser.MinTransactions,
		HeaderRows:      c.Parser.HeaderRows,
	}
}

// Load reads configuration. configPath may be empty, in which case only a
// config.yaml in the working directory is considered, and its absence is
// fine because defaults plus environment cover everything.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	def := parser.DefaultConfig()
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.body_limit_mb", 32)
	v.SetDefault("parser.line_tolerance", def.LineTolerance)
	v.SetDefault("parser.gap_threshold", def.GapThreshold)
	v.SetDefault("parser.min_transactions", def.MinTransactions)
	v.SetDefault("parser.header_rows", def.HeaderRows)

	v.SetEnvPrefix("FATURA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", configPath, err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return &cfg, nil
}
