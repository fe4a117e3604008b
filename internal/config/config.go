// Package config loads launcher configuration from environment variables,
// with an optional .env file and an optional config file overlay. Real
// environment variables always win.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds everything the launcher needs to boot nanobot.
type Config struct {
	// Provider credentials, passed through into the generated nanobot
	// config. Empty when unset; never validated here.
	GroqAPIKey       string
	OpenRouterAPIKey string

	// Slack channel credentials. The channel is enabled in the generated
	// config only when both are present.
	SlackBotToken string
	SlackAppToken string

	// Supabase leads store. Both must be set for the leads index step to
	// run at all.
	SupabaseURL string
	SupabaseKey string

	// Port is the platform-facing port (PORT, default 10000). The health
	// endpoint binds it, because that is what the platform probes.
	Port int

	// GatewayPort is the bind port written into the nanobot config.
	// Defaults to Port+1 so the health endpoint keeps Port for itself.
	GatewayPort int

	// Bin is the nanobot binary name or path.
	Bin string

	// ConfigPath is where the generated nanobot config is written.
	ConfigPath string

	// MemoryPath is the agent memory markdown file.
	MemoryPath string

	// LogLevel: "debug", "info", "warn", "error". Default "info".
	LogLevel string

	// Leads index settings.
	LeadsTable  string
	LeadsLimit  int
	LeadsReport bool
	LeadsWatch  bool

	// PassPortFlag appends an explicit "--port <GatewayPort>" to the
	// nanobot argv.
	PassPortFlag bool

	// Optional binary bootstrap: download Bin from BinaryURL when it is
	// missing, verifying BinarySHA256 when set.
	BinaryURL    string
	BinarySHA256 string

	// HeartbeatInterval controls how often the sidecar logs system metrics.
	HeartbeatInterval time.Duration
}

// Load populates a Config from a .env file (if present), the environment,
// and an optional config file. Environment variables take precedence over
// the file; the .env file never overrides the real environment.
func Load(configFile string) (*Config, error) {
	// Best effort: a missing .env is the normal case in containers.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	bindEnv(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	cfg := &Config{
		GroqAPIKey:        v.GetString("groq_api_key"),
		OpenRouterAPIKey:  v.GetString("openrouter_api_key"),
		SlackBotToken:     v.GetString("slack_bot_token"),
		SlackAppToken:     v.GetString("slack_app_token"),
		SupabaseURL:       strings.TrimRight(v.GetString("supabase_url"), "/"),
		SupabaseKey:       v.GetString("supabase_key"),
		Port:              v.GetInt("port"),
		GatewayPort:       v.GetInt("gateway_port"),
		Bin:               v.GetString("bin"),
		ConfigPath:        expandHome(v.GetString("config_path")),
		MemoryPath:        expandHome(v.GetString("memory_path")),
		LogLevel:          v.GetString("log_level"),
		LeadsTable:        v.GetString("leads_table"),
		LeadsLimit:        v.GetInt("leads_limit"),
		LeadsReport:       v.GetBool("leads_report"),
		LeadsWatch:        v.GetBool("leads_watch"),
		PassPortFlag:      v.GetBool("pass_port_flag"),
		BinaryURL:         v.GetString("binary_url"),
		BinarySHA256:      v.GetString("binary_sha256"),
		HeartbeatInterval: v.GetDuration("heartbeat_interval"),
	}

	cfg.normalize()
	return cfg, nil
}

// SupabaseEnabled reports whether the leads index step should run.
// Missing credentials are a skip, not an error.
func (c *Config) SupabaseEnabled() bool {
	return c.SupabaseURL != "" && c.SupabaseKey != ""
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", 10000)
	v.SetDefault("bin", "nanobot")
	v.SetDefault("config_path", "~/.nanobot/config.json")
	v.SetDefault("memory_path", "~/.nanobot/workspace/memory/MEMORY.md")
	v.SetDefault("log_level", "info")
	v.SetDefault("leads_table", "leads")
	v.SetDefault("leads_limit", 50)
	v.SetDefault("heartbeat_interval", 60*time.Second)
}

func bindEnv(v *viper.Viper) {
	// Launcher knobs live under the NANOBOT_ prefix.
	v.SetEnvPrefix("NANOBOT")
	v.AutomaticEnv()

	// Platform and credential variables keep their conventional,
	// unprefixed names.
	_ = v.BindEnv("groq_api_key", "GROQ_API_KEY")
	_ = v.BindEnv("openrouter_api_key", "OPENROUTER_API_KEY")
	_ = v.BindEnv("slack_bot_token", "SLACK_BOT_TOKEN")
	_ = v.BindEnv("slack_app_token", "SLACK_APP_TOKEN")
	_ = v.BindEnv("supabase_url", "SUPABASE_URL")
	_ = v.BindEnv("supabase_key", "SUPABASE_KEY")
	_ = v.BindEnv("port", "PORT")
}

// normalize repairs values that would otherwise leave the launcher or the
// generated config unusable. Credentials are deliberately not validated.
func (c *Config) normalize() {
	if c.Port <= 0 || c.Port > 65535 {
		c.Port = 10000
	}
	if c.GatewayPort <= 0 || c.GatewayPort > 65535 {
		c.GatewayPort = c.Port + 1
		if c.GatewayPort > 65535 {
			// PORT is at the top of the range; Port+1 would not be a
			// valid port to write into the nanobot config.
			c.GatewayPort = 10001
		}
	}
	if c.Bin == "" {
		c.Bin = "nanobot"
	}
	if c.LeadsTable == "" {
		c.LeadsTable = "leads"
	}
	if c.LeadsLimit <= 0 {
		c.LeadsLimit = 50
	}
	if c.HeartbeatInterval <= 0 {
		c.HeartbeatInterval = 60 * time.Second
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		c.LogLevel = "info"
	}
}

// expandHome resolves a leading "~/" against the current user's home
// directory. Paths without the prefix pass through untouched.
func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil || home == "" {
			return path
		}
		if path == "~" {
			return home
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
