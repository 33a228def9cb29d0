package cli

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/soyeahso/wabridge/internal/config"
	"github.com/soyeahso/wabridge/internal/version"
)

func newStatusCmd() *cobra.Command {
	var url string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show wabridge status and configuration summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("wabridge %s (commit %s)\n\n", version.Version, version.Commit)

			// Show paths
			fmt.Printf("Config:  %s\n", paths.Config)
			fmt.Printf("Data:    %s\n", paths.Data)
			fmt.Printf("Logs:    %s\n", paths.Logs)
			fmt.Println()

			// Load config (missing file yields defaults plus environment)
			if _, err := os.Stat(paths.Config); os.IsNotExist(err) {
				fmt.Println("Config:  not found (using defaults)")
			}
			cfg, err := config.Load(paths.Config)
			if err != nil {
				fmt.Printf("Config:  error loading: %v\n", err)
				return nil
			}

			fmt.Printf("Server:  port=%d bind=%s\n", cfg.Server.Port, cfg.Server.Bind)
			fmt.Printf("Threads: store=%s\n", cfg.Threads.Store)
			fmt.Printf("Reply:   max_length=%d\n", cfg.Reply.MaxLength)
			fmt.Printf("OpenAI:  assistant=%s key=%s\n",
				presence(cfg.OpenAI.AssistantID), presence(cfg.OpenAI.APIKey))

			// Validation
			issues := config.Validate(&cfg)
			if len(issues) > 0 {
				fmt.Printf("\nValidation issues (%d):\n", len(issues))
				for _, issue := range issues {
					fmt.Printf("  - %s: %s\n", issue.Path, issue.Message)
				}
			}

			// Probe a running instance
			target := url
			if target == "" {
				target = fmt.Sprintf("http://127.0.0.1:%d/health", cfg.Server.Port)
			}
			fmt.Println()
			probeHealth(target)

			return nil
		},
	}

	cmd.Flags().StringVar(&url, "url", "", "health endpoint of a running instance (default http://127.0.0.1:<port>/health)")

	return cmd
}

func presence(s string) string {
	if s == "" {
		return "(not set)"
	}
	return "set"
}

func probeHealth(url string) {
	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		fmt.Printf("Health:  not running (%s unreachable)\n", url)
		return
	}
	defer resp.Body.Close()

	var body struct {
		Status   string `json:"status"`
		Error    string `json:"error"`
		Services struct {
			OpenAI struct {
				AssistantName  string `json:"assistant_name"`
				AssistantModel string `json:"assistant_model"`
			} `json:"openai"`
		} `json:"services"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		fmt.Printf("Health:  unexpected response from %s\n", url)
		return
	}

	if body.Status == "healthy" {
		fmt.Printf("Health:  healthy (assistant=%s model=%s)\n",
			body.Services.OpenAI.AssistantName, body.Services.OpenAI.AssistantModel)
	} else {
		fmt.Printf("Health:  %s: %s\n", body.Status, body.Error)
	}
}
