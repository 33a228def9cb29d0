package config

import "fmt"

// DefaultApology is sent to the end user when the assistant pipeline fails.
// The chat channel has no structured error surface, so failures degrade to
// this fixed sentence while the underlying cause goes to the logs.
const DefaultApology = "Sorry, I'm having technical difficulties right now. Please try again in a moment."

// ConfigError represents a configuration error.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s", e.Message)
}

// Defaults returns a Config with sensible defaults applied.
func Defaults() Config {
	return Config{
		OpenAI: OpenAIConfig{
			PollIntervalSeconds: 1,
			RunTimeoutSeconds:   30,
		},
		Server: ServerConfig{
			Port: 5000,
			Bind: "lan",
		},
		Reply: ReplyConfig{
			MaxLength: 1500,
			Apology:   DefaultApology,
		},
		Threads: ThreadsConfig{
			Store: "memory",
		},
		Logging: LoggingConfig{
			Level:        "info",
			ConsoleStyle: "pretty",
		},
	}
}
