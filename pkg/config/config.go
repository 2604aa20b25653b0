package config

import (
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config stores all configuration for the application.
type Config struct {
	InputFile    string        `mapstructure:"INPUT_FILE"`
	OutputFile   string        `mapstructure:"OUTPUT_FILE"`
	PaceSeconds  int           `mapstructure:"PACE_SECONDS"`
	FetchMode    string        `mapstructure:"FETCH_MODE"`
	Parser       string        `mapstructure:"PARSER"`
	FetchTimeout time.Duration `mapstructure:"FETCH_TIMEOUT"`
	UserAgents   string        `mapstructure:"USER_AGENTS"`
	Proxies      []string      `mapstructure:"PROXIES"`

	PostgresURL   string `mapstructure:"POSTGRES_URL"`
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	StatusAddr string `mapstructure:"STATUS_ADDR"`
	LogLevel   string `mapstructure:"LOG_LEVEL"`
	LogFile    string `mapstructure:"LOG_FILE"`
	Quiet      bool   `mapstructure:"QUIET"`
}

// flagKeys maps command-line flags onto configuration keys.
var flagKeys = map[string]string{
	"input":       "INPUT_FILE",
	"output":      "OUTPUT_FILE",
	"pace":        "PACE_SECONDS",
	"fetch-mode":  "FETCH_MODE",
	"parser":      "PARSER",
	"status-addr": "STATUS_ADDR",
	"log-level":   "LOG_LEVEL",
	"quiet":       "QUIET",
}

// Load reads configuration from the .env file, environment variables and, when given, command-line flags.
// Flags win over the environment, which wins over .env.
func Load(envFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(envFile)
	v.SetConfigType("env")
	v.AutomaticEnv()

	// A missing .env is fine; everything can come from the environment.
	_ = v.ReadInConfig()

	v.SetDefault("INPUT_FILE", "phone_links.csv")
	v.SetDefault("OUTPUT_FILE", "result.csv")
	v.SetDefault("PACE_SECONDS", 17)
	v.SetDefault("FETCH_MODE", "http")
	v.SetDefault("PARSER", "goquery")
	v.SetDefault("FETCH_TIMEOUT", 30*time.Second)
	v.SetDefault("USER_AGENTS", "")
	v.SetDefault("PROXIES", []string{})
	v.SetDefault("POSTGRES_URL", "")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("STATUS_ADDR", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FILE", "")
	v.SetDefault("QUIET", false)

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, err
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	cfg.Proxies = splitList(cfg.Proxies, ",")
	return &cfg, nil
}

// UserAgentList splits USER_AGENTS on "|"; user agent strings themselves contain commas.
func (c *Config) UserAgentList() []string {
	return splitList([]string{c.UserAgents}, "|")
}

// splitList accepts both real lists and a single separated env value.
func splitList(in []string, sep string) []string {
	var out []string
	for _, s := range in {
		for _, part := range strings.Split(s, sep) {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
