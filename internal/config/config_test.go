package config

import (
	"os"
	"testing"
	"time"
)

// clearBootEnv unsets every variable the launcher reads so tests see a
// clean container environment regardless of the host shell.
func clearBootEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"GROQ_API_KEY", "OPENROUTER_API_KEY",
		"SLACK_BOT_TOKEN", "SLACK_APP_TOKEN",
		"SUPABASE_URL", "SUPABASE_KEY",
		"PORT",
		"NANOBOT_BIN", "NANOBOT_CONFIG_PATH", "NANOBOT_MEMORY_PATH",
		"NANOBOT_GATEWAY_PORT", "NANOBOT_LOG_LEVEL",
		"NANOBOT_LEADS_TABLE", "NANOBOT_LEADS_LIMIT",
		"NANOBOT_LEADS_REPORT", "NANOBOT_LEADS_WATCH",
		"NANOBOT_PASS_PORT_FLAG", "NANOBOT_BINARY_URL",
		"NANOBOT_BINARY_SHA256", "NANOBOT_HEARTBEAT_INTERVAL",
	} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearBootEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Port != 10000 {
		t.Errorf("Port = %d, want 10000", cfg.Port)
	}
	if cfg.GatewayPort != 10001 {
		t.Errorf("GatewayPort = %d, want 10001", cfg.GatewayPort)
	}
	if cfg.Bin != "nanobot" {
		t.Errorf("Bin = %q, want %q", cfg.Bin, "nanobot")
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
	if cfg.LeadsTable != "leads" || cfg.LeadsLimit != 50 {
		t.Errorf("leads defaults = %q/%d, want leads/50", cfg.LeadsTable, cfg.LeadsLimit)
	}
	if cfg.HeartbeatInterval != 60*time.Second {
		t.Errorf("HeartbeatInterval = %v, want 60s", cfg.HeartbeatInterval)
	}
	if cfg.SupabaseEnabled() {
		t.Error("SupabaseEnabled() = true with no credentials")
	}
}

func TestLoadReadsPlatformEnv(t *testing.T) {
	clearBootEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("GROQ_API_KEY", "gsk_test")
	t.Setenv("SUPABASE_URL", "https://demo.supabase.co/")
	t.Setenv("SUPABASE_KEY", "sb-key")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Port != 9000 {
		t.Errorf("Port = %d, want 9000", cfg.Port)
	}
	if cfg.GatewayPort != 9001 {
		t.Errorf("GatewayPort = %d, want 9001", cfg.GatewayPort)
	}
	if cfg.GroqAPIKey != "gsk_test" {
		t.Errorf("GroqAPIKey = %q, want gsk_test", cfg.GroqAPIKey)
	}
	// Trailing slash is trimmed so URL joins stay predictable.
	if cfg.SupabaseURL != "https://demo.supabase.co" {
		t.Errorf("SupabaseURL = %q", cfg.SupabaseURL)
	}
	if !cfg.SupabaseEnabled() {
		t.Error("SupabaseEnabled() = false with both credentials set")
	}
}

func TestLoadReadsLauncherEnv(t *testing.T) {
	clearBootEnv(t)
	t.Setenv("NANOBOT_BIN", "/usr/local/bin/nanobot")
	t.Setenv("NANOBOT_GATEWAY_PORT", "18790")
	t.Setenv("NANOBOT_LEADS_WATCH", "true")
	t.Setenv("NANOBOT_PASS_PORT_FLAG", "true")
	t.Setenv("NANOBOT_LOG_LEVEL", "debug")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Bin != "/usr/local/bin/nanobot" {
		t.Errorf("Bin = %q", cfg.Bin)
	}
	if cfg.GatewayPort != 18790 {
		t.Errorf("GatewayPort = %d, want 18790", cfg.GatewayPort)
	}
	if !cfg.LeadsWatch || !cfg.PassPortFlag {
		t.Errorf("LeadsWatch/PassPortFlag = %v/%v, want true/true", cfg.LeadsWatch, cfg.PassPortFlag)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
}

func TestLoadRepairsGarbageValues(t *testing.T) {
	clearBootEnv(t)
	t.Setenv("PORT", "not-a-port")
	t.Setenv("NANOBOT_LEADS_LIMIT", "-3")
	t.Setenv("NANOBOT_LOG_LEVEL", "loud")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Port != 10000 {
		t.Errorf("Port = %d, want fallback 10000", cfg.Port)
	}
	if cfg.LeadsLimit != 50 {
		t.Errorf("LeadsLimit = %d, want fallback 50", cfg.LeadsLimit)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want fallback info", cfg.LogLevel)
	}
}

func TestLoadGatewayPortAtRangeTop(t *testing.T) {
	clearBootEnv(t)
	t.Setenv("PORT", "65535")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Port != 65535 {
		t.Errorf("Port = %d, want 65535", cfg.Port)
	}
	// Port+1 would be 65536; the derived default must stay a real port.
	if cfg.GatewayPort != 10001 {
		t.Errorf("GatewayPort = %d, want fallback 10001", cfg.GatewayPort)
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home dir")
	}
	if got := expandHome("~/.nanobot/config.json"); got != home+"/.nanobot/config.json" {
		t.Errorf("expandHome = %q", got)
	}
	if got := expandHome("/etc/nanobot.json"); got != "/etc/nanobot.json" {
		t.Errorf("expandHome should pass through absolute paths, got %q", got)
	}
}
