// Package botcfg materializes the nanobot configuration file. The schema is
// fixed; every value comes from the launcher environment or a static
// default, and the file is overwritten unconditionally on each boot.
package botcfg

import (
	"encoding/json"
	"fmt"

	"github.com/nidus-labs/nanobot-launcher/internal/config"
	"github.com/nidus-labs/nanobot-launcher/internal/fsutil"
)

// Defaults baked into every generated config. nanobot falls back to its own
// defaults for anything it does not recognize, so these only need to cover
// what the deployment actually pins.
const (
	defaultProvider    = "groq"
	defaultModel       = "llama-3.3-70b-versatile"
	defaultMaxTokens   = 4096
	defaultTemperature = 0.7
)

// File is the root of the generated nanobot config.
type File struct {
	Agents    Agents    `json:"agents"`
	Providers Providers `json:"providers"`
	Gateway   Gateway   `json:"gateway"`
	Channels  Channels  `json:"channels"`
	Tools     Tools     `json:"tools"`
}

type Agents struct {
	Defaults AgentDefaults `json:"defaults"`
}

type AgentDefaults struct {
	Provider    string  `json:"provider"`
	Model       string  `json:"model"`
	MaxTokens   int     `json:"maxTokens"`
	Temperature float64 `json:"temperature"`
	MemoryPath  string  `json:"memoryPath"`
}

type Providers struct {
	Groq       Provider `json:"groq"`
	OpenRouter Provider `json:"openrouter"`
}

// Provider carries a credential through verbatim. An unset key renders as
// "" rather than being omitted, matching what nanobot expects to find.
type Provider struct {
	APIKey string `json:"apiKey"`
}

type Gateway struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

type Channels struct {
	Slack Slack `json:"slack"`
}

// Slack tokens are pointers so absent credentials render as JSON null.
type Slack struct {
	Enabled  bool    `json:"enabled"`
	BotToken *string `json:"botToken"`
	AppToken *string `json:"appToken"`
}

type Tools struct {
	Shell Tool `json:"shell"`
	Web   Tool `json:"web"`
}

type Tool struct {
	Enabled bool `json:"enabled"`
}

// Build assembles the config document from the launcher environment.
// It performs no validation: empty credentials flow through as-is.
func Build(cfg *config.Config) File {
	slack := Slack{
		Enabled:  cfg.SlackBotToken != "" && cfg.SlackAppToken != "",
		BotToken: optional(cfg.SlackBotToken),
		AppToken: optional(cfg.SlackAppToken),
	}

	return File{
		Agents: Agents{Defaults: AgentDefaults{
			Provider:    defaultProvider,
			Model:       defaultModel,
			MaxTokens:   defaultMaxTokens,
			Temperature: defaultTemperature,
			MemoryPath:  cfg.MemoryPath,
		}},
		Providers: Providers{
			Groq:       Provider{APIKey: cfg.GroqAPIKey},
			OpenRouter: Provider{APIKey: cfg.OpenRouterAPIKey},
		},
		Gateway:  Gateway{Host: "0.0.0.0", Port: cfg.GatewayPort},
		Channels: Channels{Slack: slack},
		Tools: Tools{
			Shell: Tool{Enabled: true},
			Web:   Tool{Enabled: true},
		},
	}
}

// Materialize writes the config to cfg.ConfigPath, replacing whatever was
// there. A write failure here is fatal to the whole boot sequence.
func Materialize(cfg *config.Config) error {
	doc := Build(cfg)
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode nanobot config: %w", err)
	}
	data = append(data, '\n')

	if err := fsutil.WriteFileAtomic(cfg.ConfigPath, data, 0o600); err != nil {
		return fmt.Errorf("write nanobot config: %w", err)
	}
	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
