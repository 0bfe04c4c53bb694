package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/yishak-cs/coffees/internal/database"
)

// NewMigrateCommand creates the migrate command with its up and down subcommands.
func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or revert schema migrations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:           "up",
		Short:         "Apply pending migrations",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rootOpts.open(false)
			if err != nil {
				return err
			}
			defer a.Close()
			return printVersion(cmd, a.DB)
		},
	})

	var target int
	down := &cobra.Command{
		Use:           "down",
		Short:         "Revert migrations newer than --to",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rootOpts.open(true)
			if err != nil {
				return err
			}
			defer a.Close()
			if err := database.MigrateDown(a.DB, target); err != nil {
				return err
			}
			return printVersion(cmd, a.DB)
		},
	}
	down.Flags().IntVar(&target, "to", 0, "schema version to revert to")
	cmd.AddCommand(down)

	return cmd
}

func printVersion(cmd *cobra.Command, db *gorm.DB) error {
	version, err := database.CurrentVersion(db)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "schema version %d\n", version)
	return nil
}
