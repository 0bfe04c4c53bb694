package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// NewSeedCommand creates the seed command.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed <file>",
		Short: "Import coffees from a CSV or YAML file",
		Long: `Import coffees from a CSV or YAML file.

CSV files need a header with title, brand and flavors columns, flavors
separated by "|". YAML files hold a list of {title, brand, flavors}.

Example:
  coffeectl seed coffees.csv`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rootOpts.open(false)
			if err != nil {
				return err
			}
			defer a.Close()

			n, err := a.Importer.ImportFile(context.Background(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d coffees\n", n)
			return nil
		},
	}
}
