package config

import (
	"fmt"
	"slices"
)

// ValidationIssue describes a problem with a config value.
type ValidationIssue struct {
	Path    string
	Message string
}

func (v ValidationIssue) String() string {
	return fmt.Sprintf("%s: %s", v.Path, v.Message)
}

// Validate checks a Config for issues. Returns nil if valid.
// The two secrets are required: the relay must not serve traffic without them.
func Validate(cfg *Config) []ValidationIssue {
	var issues []ValidationIssue

	if cfg.OpenAI.APIKey == "" {
		issues = append(issues, ValidationIssue{
			Path:    "openai.apiKey",
			Message: "required (set OPENAI_API_KEY or openai.apiKey)",
		})
	}
	if cfg.OpenAI.AssistantID == "" {
		issues = append(issues, ValidationIssue{
			Path:    "openai.assistantId",
			Message: "required (set ASSISTANT_ID or openai.assistantId)",
		})
	}
	if cfg.OpenAI.PollIntervalSeconds < 0 {
		issues = append(issues, ValidationIssue{
			Path:    "openai.pollIntervalSeconds",
			Message: fmt.Sprintf("must be >= 0, got %d", cfg.OpenAI.PollIntervalSeconds),
		})
	}
	if cfg.OpenAI.RunTimeoutSeconds <= 0 {
		issues = append(issues, ValidationIssue{
			Path:    "openai.runTimeoutSeconds",
			Message: fmt.Sprintf("must be positive, got %d", cfg.OpenAI.RunTimeoutSeconds),
		})
	}

	if cfg.Server.Port < 0 || cfg.Server.Port > 65535 {
		issues = append(issues, ValidationIssue{
			Path:    "server.port",
			Message: fmt.Sprintf("port must be 0-65535, got %d", cfg.Server.Port),
		})
	}

	validBinds := []string{"lan", "loopback", "custom"}
	if cfg.Server.Bind != "" && !slices.Contains(validBinds, cfg.Server.Bind) {
		issues = append(issues, ValidationIssue{
			Path:    "server.bind",
			Message: fmt.Sprintf("must be one of %v, got %q", validBinds, cfg.Server.Bind),
		})
	}

	if cfg.Reply.MaxLength <= 0 {
		issues = append(issues, ValidationIssue{
			Path:    "reply.maxLength",
			Message: fmt.Sprintf("must be positive, got %d", cfg.Reply.MaxLength),
		})
	}

	validStores := []string{"memory", "sqlite"}
	if cfg.Threads.Store != "" && !slices.Contains(validStores, cfg.Threads.Store) {
		issues = append(issues, ValidationIssue{
			Path:    "threads.store",
			Message: fmt.Sprintf("must be one of %v, got %q", validStores, cfg.Threads.Store),
		})
	}

	validLogLevels := []string{"silent", "fatal", "error", "warn", "info", "debug", "trace"}
	if cfg.Logging.Level != "" && !slices.Contains(validLogLevels, cfg.Logging.Level) {
		issues = append(issues, ValidationIssue{
			Path:    "logging.level",
			Message: fmt.Sprintf("must be one of %v, got %q", validLogLevels, cfg.Logging.Level),
		})
	}

	validConsoleStyles := []string{"pretty", "json"}
	if cfg.Logging.ConsoleStyle != "" && !slices.Contains(validConsoleStyles, cfg.Logging.ConsoleStyle) {
		issues = append(issues, ValidationIssue{
			Path:    "logging.consoleStyle",
			Message: fmt.Sprintf("must be one of %v, got %q", validConsoleStyles, cfg.Logging.ConsoleStyle),
		})
	}

	return issues
}
