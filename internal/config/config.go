package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv     = "TRENDDECK_CONFIG"
	logLevelEnv       = "TRENDDECK_LOG_LEVEL"
	databaseDSNEnv    = "TRENDDECK_DB"
	geminiAPIKeyEnv   = "GOOGLE_API_KEY"
	geminiModelEnv    = "GEMINI_MODEL"
	chatGPTAPIKeyEnv  = "CHATGPT_API_KEY"
	chatGPTModelEnv   = "CHATGPT_MODEL"
	telegramTokenEnv  = "TELEGRAM_BOT_TOKEN"
	telegramChatIDEnv = "TELEGRAM_CHAT_ID"
)

// DefaultSystemPrompt encodes the tone to colour heuristic sent with every annotation request.
const DefaultSystemPrompt = `You receive a list of article URLs, one per line.
For each URL, infer the emotional tone of the article and answer with a single colour code in the form #RRGGBB.
Warnings, incidents and urgency lean red. Technical, data-driven writing leans blue.
Cheerful or beginner-friendly writing leans yellow. Calm or reflective writing leans green.
Answer with exactly one colour code per line, in the same order as the URLs, and nothing else.`

// Config holds high-level settings required across the application.
type Config struct {
	Logging       LoggingConfig      `yaml:"logging"`
	Feed          FeedConfig         `yaml:"feed"`
	Annotator     AnnotatorConfig    `yaml:"annotator"`
	Gemini        GeminiConfig       `yaml:"gemini"`
	ChatGPT       ChatGPTConfig      `yaml:"chatgpt"`
	Contrast      ContrastConfig     `yaml:"contrast"`
	Storage       StorageConfig      `yaml:"storage"`
	Scheduler     SchedulerConfig    `yaml:"scheduler"`
	Server        ServerConfig       `yaml:"server"`
	Notifications NotificationConfig `yaml:"notifications"`
}

// LoggingConfig selects slog level and handler format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// FeedConfig describes where trending articles come from.
type FeedConfig struct {
	Kind      string         `yaml:"kind"`
	Endpoint  string         `yaml:"endpoint"`
	BaseURL   string         `yaml:"baseUrl"`
	Timeout   time.Duration  `yaml:"timeout"`
	Selectors SelectorConfig `yaml:"selectors"`
}

// SelectorConfig holds CSS selectors used by the html feed kind.
type SelectorConfig struct {
	Item  string `yaml:"item"`
	Title string `yaml:"title"`
	Emoji string `yaml:"emoji"`
	Link  string `yaml:"link"`
}

// AnnotatorConfig controls the colour annotation step.
type AnnotatorConfig struct {
	Provider     string `yaml:"provider"`
	MaxRetries   int    `yaml:"maxRetries"`
	SystemPrompt string `yaml:"systemPrompt"`
}

// GeminiConfig defines how to contact the Google Gen AI API.
type GeminiConfig struct {
	APIKey  string `yaml:"apiKey"`
	Model   string `yaml:"model"`
	Backend string `yaml:"backend"`
	BaseURL string `yaml:"baseUrl"`
}

// ChatGPTConfig defines how to contact an OpenAI-compatible API.
type ChatGPTConfig struct {
	Endpoint string `yaml:"endpoint"`
	Model    string `yaml:"model"`
	APIKey   string `yaml:"apiKey"`
}

// ContrastConfig selects the perceptual lightness model (lab or luv).
type ContrastConfig struct {
	Model string `yaml:"model"`
}

// StorageConfig points at the SQLite deck history. An empty DSN disables history.
type StorageConfig struct {
	DSN string `yaml:"dsn"`
}

// SchedulerConfig defines how often serve refreshes the deck.
type SchedulerConfig struct {
	Interval time.Duration `yaml:"interval"`
}

// ServerConfig configures the HTTP presentation boundary.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// NotificationConfig encapsulates outbound channels (Telegram, etc.).
type NotificationConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
}

// TelegramConfig wires all data required to send messages.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
	APIBase  string `yaml:"apiBase"`
}

// Load reads YAML configuration from TRENDDECK_CONFIG (if set) and applies environment overrides.
func Load() Config {
	return LoadFile(os.Getenv(configPathEnv))
}

// LoadFile reads YAML configuration from path (if non-empty) and applies environment overrides.
func LoadFile(path string) Config {
	cfg := defaultConfig()

	if path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}

	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Storage.DSN = v
	}

	if v := os.Getenv(geminiAPIKeyEnv); v != "" {
		c.Gemini.APIKey = v
	}

	if v := os.Getenv(geminiModelEnv); v != "" {
		c.Gemini.Model = v
	}

	if v := os.Getenv(chatGPTAPIKeyEnv); v != "" {
		c.ChatGPT.APIKey = v
	}

	if v := os.Getenv(chatGPTModelEnv); v != "" {
		c.ChatGPT.Model = v
	}

	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Notifications.Telegram.BotToken = v
	}

	if v := os.Getenv(telegramChatIDEnv); v != "" {
		c.Notifications.Telegram.ChatID = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.Logging.Format != "" {
		base.Logging.Format = override.Logging.Format
	}

	if override.Feed.Kind != "" {
		base.Feed.Kind = override.Feed.Kind
	}
	if override.Feed.Endpoint != "" {
		base.Feed.Endpoint = override.Feed.Endpoint
	}
	if override.Feed.BaseURL != "" {
		base.Feed.BaseURL = override.Feed.BaseURL
	}
	if override.Feed.Timeout > 0 {
		base.Feed.Timeout = override.Feed.Timeout
	}
	if override.Feed.Selectors != (SelectorConfig{}) {
		base.Feed.Selectors = override.Feed.Selectors
	}

	if override.Annotator.Provider != "" {
		base.Annotator.Provider = override.Annotator.Provider
	}
	if override.Annotator.MaxRetries > 0 {
		base.Annotator.MaxRetries = override.Annotator.MaxRetries
	}
	if override.Annotator.SystemPrompt != "" {
		base.Annotator.SystemPrompt = override.Annotator.SystemPrompt
	}

	if override.Gemini.APIKey != "" {
		base.Gemini.APIKey = override.Gemini.APIKey
	}
	if override.Gemini.Model != "" {
		base.Gemini.Model = override.Gemini.Model
	}
	if override.Gemini.Backend != "" {
		base.Gemini.Backend = override.Gemini.Backend
	}
	if override.Gemini.BaseURL != "" {
		base.Gemini.BaseURL = override.Gemini.BaseURL
	}

	if override.ChatGPT.Endpoint != "" {
		base.ChatGPT.Endpoint = override.ChatGPT.Endpoint
	}
	if override.ChatGPT.Model != "" {
		base.ChatGPT.Model = override.ChatGPT.Model
	}
	if override.ChatGPT.APIKey != "" {
		base.ChatGPT.APIKey = override.ChatGPT.APIKey
	}

	if override.Contrast.Model != "" {
		base.Contrast.Model = override.Contrast.Model
	}

	if override.Storage.DSN != "" {
		base.Storage.DSN = override.Storage.DSN
	}

	if override.Scheduler.Interval > 0 {
		base.Scheduler.Interval = override.Scheduler.Interval
	}

	if override.Server.Addr != "" {
		base.Server.Addr = override.Server.Addr
	}

	if override.Notifications.Telegram.BotToken != "" {
		base.Notifications.Telegram.BotToken = override.Notifications.Telegram.BotToken
	}
	if override.Notifications.Telegram.ChatID != "" {
		base.Notifications.Telegram.ChatID = override.Notifications.Telegram.ChatID
	}
	if override.Notifications.Telegram.APIBase != "" {
		base.Notifications.Telegram.APIBase = override.Notifications.Telegram.APIBase
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Feed: FeedConfig{
			Kind:     "json",
			Endpoint: "https://zenn-api.vercel.app/api/trendTech",
			BaseURL:  "https://zenn.dev",
			Timeout:  15 * time.Second,
			Selectors: SelectorConfig{
				Item:  "article",
				Title: "h2",
				Emoji: ".emoji",
				Link:  "a",
			},
		},
		Annotator: AnnotatorConfig{
			Provider:     "gemini",
			MaxRetries:   3,
			SystemPrompt: DefaultSystemPrompt,
		},
		Gemini: GeminiConfig{
			Model:   "gemini-2.5-flash",
			Backend: "gemini-api",
		},
		ChatGPT: ChatGPTConfig{
			Endpoint: "https://api.openai.com/v1/chat/completions",
			Model:    "gpt-4o-mini",
		},
		Contrast:  ContrastConfig{Model: "lab"},
		Scheduler: SchedulerConfig{Interval: 30 * time.Minute},
		Server:    ServerConfig{Addr: ":8080"},
		Notifications: NotificationConfig{
			Telegram: TelegramConfig{APIBase: "https://api.telegram.org"},
		},
	}
}
