package cli

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/soyeahso/wabridge/internal/config"
	"github.com/soyeahso/wabridge/internal/logging"
)

var (
	cfgFile  string
	logLevel string

	// loaded at init time
	paths config.Paths
	log   *logging.Logger
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wabridge",
		Short: "wabridge — WhatsApp webhook relay for OpenAI assistants",
		Long:  "wabridge receives WhatsApp webhook callbacks, forwards each message to an OpenAI assistant on a per-sender thread, and replies with segmented messages.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// A local .env is optional; secrets usually arrive through it
			// in development.
			_ = godotenv.Load()

			var err error
			paths, err = config.ResolvePaths()
			if err != nil {
				return err
			}
			if cfgFile != "" {
				paths.Config = cfgFile
			}
			level := logLevel
			if level == "" {
				level = "info"
			}
			log = logging.New(nil, level, "pretty")
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.wabridge/config.yaml)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (trace, debug, info, warn, error, fatal, silent)")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newStatusCmd())

	return cmd
}

// Execute runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}
