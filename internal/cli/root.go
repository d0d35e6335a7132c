package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mazroni9/DasmAdminPanel/internal/config"
	"github.com/mazroni9/DasmAdminPanel/internal/logging"
)

// RootOptions holds global flags and the configuration shared by all commands.
type RootOptions struct {
	Format string // "json" | "text"

	Config config.Config
	Logger *slog.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command. Without a subcommand it serves the API.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "dasm-admin",
		Short: "DASM admin offer service",
		Long:  "Matches seller listings against the buyer directory and tracks the resulting offers.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return opts.load()
		},
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewBuyersCommand(opts))
	cmd.AddCommand(NewMatchCommand(opts))

	return cmd
}

func (o *RootOptions) load() error {
	envPath, envErr := config.LoadEnvFile()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	o.Config = cfg
	o.Logger = logging.New(cfg.Logging)

	switch {
	case envErr != nil:
		o.Logger.Warn("failed to load env file", "path", envPath, "error", envErr)
	case envPath != "":
		o.Logger.Debug("loaded env file", "path", envPath)
	}
	return nil
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
