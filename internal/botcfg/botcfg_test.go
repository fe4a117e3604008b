package botcfg

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/nidus-labs/nanobot-launcher/internal/config"
)

func baseConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Port:        10000,
		GatewayPort: 10001,
		ConfigPath:  filepath.Join(t.TempDir(), "config.json"),
		MemoryPath:  "/data/memory/MEMORY.md",
	}
}

func TestMaterializeEmptyEnvIsValidJSON(t *testing.T) {
	cfg := baseConfig(t)

	if err := Materialize(cfg); err != nil {
		t.Fatalf("Materialize() error = %v", err)
	}
	data, err := os.ReadFile(cfg.ConfigPath)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("generated config is not valid JSON: %v", err)
	}
	for _, key := range []string{"agents", "providers", "gateway", "channels", "tools"} {
		if _, ok := doc[key]; !ok {
			t.Errorf("generated config missing %q section", key)
		}
	}
}

func TestBuildMissingCredentials(t *testing.T) {
	cfg := baseConfig(t)
	doc := Build(cfg)

	if doc.Providers.Groq.APIKey != "" || doc.Providers.OpenRouter.APIKey != "" {
		t.Error("missing provider keys should render as empty strings")
	}
	if doc.Channels.Slack.Enabled {
		t.Error("slack should be disabled without tokens")
	}
	if doc.Channels.Slack.BotToken != nil || doc.Channels.Slack.AppToken != nil {
		t.Error("missing slack tokens should be nil (JSON null)")
	}

	// The wire form must carry literal nulls, not omit the fields.
	data, err := json.Marshal(doc.Channels.Slack)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"enabled":false,"botToken":null,"appToken":null}`
	if string(data) != want {
		t.Errorf("slack JSON = %s, want %s", data, want)
	}
}

func TestBuildFullEnvironment(t *testing.T) {
	cfg := baseConfig(t)
	cfg.GatewayPort = 9000
	cfg.GroqAPIKey = "gsk_1"
	cfg.OpenRouterAPIKey = "sk-or-2"
	cfg.SlackBotToken = "xoxb-3"
	cfg.SlackAppToken = "xapp-4"

	doc := Build(cfg)

	if !doc.Channels.Slack.Enabled {
		t.Error("slack should be enabled with both tokens present")
	}
	if got := *doc.Channels.Slack.BotToken; got != "xoxb-3" {
		t.Errorf("BotToken = %q", got)
	}
	if doc.Gateway.Port != 9000 || doc.Gateway.Host != "0.0.0.0" {
		t.Errorf("gateway = %+v", doc.Gateway)
	}
	if doc.Agents.Defaults.MemoryPath != cfg.MemoryPath {
		t.Errorf("MemoryPath = %q", doc.Agents.Defaults.MemoryPath)
	}
}

func TestBuildOneTokenKeepsSlackDisabled(t *testing.T) {
	cfg := baseConfig(t)
	cfg.SlackBotToken = "xoxb-only"

	doc := Build(cfg)
	if doc.Channels.Slack.Enabled {
		t.Error("slack must stay disabled with only one token")
	}
	if doc.Channels.Slack.BotToken == nil {
		t.Error("present token should still be carried through")
	}
}

func TestMaterializeIsIdempotent(t *testing.T) {
	cfg := baseConfig(t)
	cfg.GroqAPIKey = "gsk_same"

	if err := Materialize(cfg); err != nil {
		t.Fatalf("first Materialize() error = %v", err)
	}
	first, _ := os.ReadFile(cfg.ConfigPath)

	if err := Materialize(cfg); err != nil {
		t.Fatalf("second Materialize() error = %v", err)
	}
	second, _ := os.ReadFile(cfg.ConfigPath)

	if diff := cmp.Diff(string(first), string(second)); diff != "" {
		t.Errorf("re-run changed the config (-first +second):\n%s", diff)
	}
}
