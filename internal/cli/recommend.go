package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// NewRecommendCommand creates the recommend command.
func NewRecommendCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "recommend <coffee-id>",
		Short:         "Recommend a coffee and record the event",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil || id == 0 {
				return fmt.Errorf("invalid coffee id %q", args[0])
			}

			a, err := rootOpts.open(false)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := context.Background()
			coffee, err := a.Coffees.Get(ctx, uint(id))
			if err != nil {
				return err
			}
			if err := a.Recommendations.Recommend(ctx, coffee); err != nil {
				return err
			}

			if rootOpts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), coffee)
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatCoffee(*coffee))
			return nil
		},
	}
}
