package cli

import (
	"context"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/soyeahso/wabridge/internal/assistant"
	"github.com/soyeahso/wabridge/internal/config"
	"github.com/soyeahso/wabridge/internal/gateway"
	"github.com/soyeahso/wabridge/internal/logging"
	"github.com/soyeahso/wabridge/internal/metrics"
	"github.com/soyeahso/wabridge/internal/store"
)

func newServeCmd() *cobra.Command {
	var (
		port int
		bind string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the webhook relay server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(paths.Config)
			if err != nil {
				return err
			}

			if port != 0 {
				cfg.Server.Port = port
			}
			if bind != "" {
				cfg.Server.Bind = bind
			}

			issues := config.Validate(&cfg)
			if len(issues) > 0 {
				for _, issue := range issues {
					log.Error().Str("path", issue.Path).Msg(issue.Message)
				}
				return fmt.Errorf("config validation failed with %d issue(s)", len(issues))
			}

			if err := paths.EnsureDirs(); err != nil {
				return fmt.Errorf("creating data directories: %w", err)
			}

			// The flag wins over the config file; otherwise rebuild the
			// logger with the configured level and style.
			if logLevel == "" {
				log = logging.New(nil, cfg.Logging.Level, cfg.Logging.ConsoleStyle)
			}

			client := assistant.NewClient(assistant.ClientConfig{
				APIKey:      cfg.OpenAI.APIKey,
				AssistantID: cfg.OpenAI.AssistantID,
				BaseURL:     cfg.OpenAI.BaseURL,
				Model:       cfg.OpenAI.Model,
			}, log)

			// Thread store (SQLite or in-memory)
			var threads assistant.ThreadStore
			if cfg.Threads.Store == "sqlite" {
				dbPath := filepath.Join(paths.Data, "wabridge.db")
				db, err := store.Open(dbPath, log)
				if err != nil {
					return fmt.Errorf("opening database: %w", err)
				}
				defer db.Close()
				threads = store.NewSQLiteThreadStore(db)
				log.Info().Str("path", dbPath).Msg("using SQLite thread store")
			} else {
				threads = store.NewMemoryThreadStore()
				log.Info().Msg("using in-memory thread store")
			}

			responder := assistant.NewResponder(client, threads, assistant.ResponderConfig{
				PollInterval: time.Duration(cfg.OpenAI.PollIntervalSeconds) * time.Second,
				RunTimeout:   time.Duration(cfg.OpenAI.RunTimeoutSeconds) * time.Second,
				Apology:      cfg.Reply.Apology,
			}, log)

			m := metrics.New(nil)

			// Block until SIGINT/SIGTERM
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv := gateway.New(cfg, responder, client, m, log)
			return srv.Start(ctx)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "override server port")
	cmd.Flags().StringVar(&bind, "bind", "", "override bind mode (lan, loopback, custom)")

	return cmd
}
