package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mazroni9/DasmAdminPanel/internal/buyers"
	"github.com/mazroni9/DasmAdminPanel/internal/storage/postgres"
)

// NewBuyersCommand creates the buyers command group.
func NewBuyersCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "buyers",
		Short: "Manage the buyer directory",
	}
	cmd.AddCommand(newBuyersImportCommand(rootOpts))
	return cmd
}

func newBuyersImportCommand(rootOpts *RootOptions) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Load buyers from a YAML file into Postgres",
		Long: `Load buyers from a YAML file into the Postgres buyer directory.

Existing buyers with the same id are updated in place and keep their
position in the directory.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := buyers.LoadFile(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if dryRun {
				fmt.Fprintf(out, "%d buyers valid in %s\n", len(list), args[0])
				return nil
			}

			pool, err := connectPostgres(cmd.Context(), rootOpts.Config.Store.DatabaseURL)
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := postgres.NewBuyerRepository(pool).UpsertBuyers(cmd.Context(), list); err != nil {
				return err
			}
			fmt.Fprintf(out, "imported %d buyers\n", len(list))
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "validate the file without writing")
	return cmd
}
