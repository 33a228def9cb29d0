package config

// Config is the root configuration for wabridge.
type Config struct {
	OpenAI  OpenAIConfig  `yaml:"openai,omitempty"`
	Server  ServerConfig  `yaml:"server,omitempty"`
	Reply   ReplyConfig   `yaml:"reply,omitempty"`
	Threads ThreadsConfig `yaml:"threads,omitempty"`
	Logging LoggingConfig `yaml:"logging,omitempty"`
}

// OpenAIConfig holds credentials and tuning for the Assistants API.
type OpenAIConfig struct {
	APIKey      string `yaml:"apiKey,omitempty"`      // supports ${ENV_VAR} references
	AssistantID string `yaml:"assistantId,omitempty"` // supports ${ENV_VAR} references
	BaseURL     string `yaml:"baseUrl,omitempty"`     // override for tests / proxies
	Model       string `yaml:"model,omitempty"`       // model override passed on run creation

	// Run polling behavior. The webhook blocks on the run, so the timeout
	// must stay under the provider's webhook response deadline.
	PollIntervalSeconds int `yaml:"pollIntervalSeconds,omitempty"`
	RunTimeoutSeconds   int `yaml:"runTimeoutSeconds,omitempty"`
}

// ServerConfig controls the webhook HTTP server.
type ServerConfig struct {
	Port           int    `yaml:"port,omitempty"`
	Bind           string `yaml:"bind,omitempty"` // "lan" | "loopback" | "custom"
	CustomBindHost string `yaml:"customBindHost,omitempty"`
}

// ReplyConfig controls outbound reply assembly.
type ReplyConfig struct {
	// MaxLength bounds each reply segment. WhatsApp caps messages at 1600
	// chars; 1500 leaves headroom for provider framing.
	MaxLength int    `yaml:"maxLength,omitempty"`
	Apology   string `yaml:"apology,omitempty"` // shown to the user when the pipeline fails
}

// ThreadsConfig selects the sender → thread mapping backend.
type ThreadsConfig struct {
	Store string `yaml:"store,omitempty"` // "memory" | "sqlite"
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level        string `yaml:"level,omitempty"`        // "silent" | "fatal" | "error" | "warn" | "info" | "debug" | "trace"
	ConsoleStyle string `yaml:"consoleStyle,omitempty"` // "pretty" | "json"
}
