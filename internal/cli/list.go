package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yishak-cs/coffees/internal/models"
)

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	Offset int
	Limit  int
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "list",
		Short:         "List coffees with their flavors",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listCoffees(opts, cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Offset, "offset", 0, "number of coffees to skip")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "maximum number of coffees (0 for all)")

	return cmd
}

func listCoffees(opts *ListOptions, cmd *cobra.Command) error {
	if opts.Offset < 0 || opts.Limit < 0 {
		return fmt.Errorf("offset and limit must not be negative")
	}

	a, err := opts.open(false)
	if err != nil {
		return err
	}
	defer a.Close()

	query := models.PaginationQuery{Offset: &opts.Offset}
	if opts.Limit > 0 {
		query.Limit = &opts.Limit
	}

	coffees, err := a.Coffees.List(context.Background(), query)
	if err != nil {
		return err
	}

	if opts.Format == "json" {
		return writeJSON(cmd.OutOrStdout(), coffees)
	}
	for _, coffee := range coffees {
		fmt.Fprintln(cmd.OutOrStdout(), formatCoffee(coffee))
	}
	return nil
}

func formatCoffee(coffee models.Coffee) string {
	names := make([]string, 0, len(coffee.Flavors))
	for _, flavor := range coffee.Flavors {
		names = append(names, flavor.Name)
	}
	return fmt.Sprintf("#%d %s (%s) recommendations=%d flavors=[%s]",
		coffee.ID, coffee.Title, coffee.Brand, coffee.Recommendations, strings.Join(names, ", "))
}
