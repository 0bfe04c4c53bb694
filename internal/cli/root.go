package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/yishak-cs/coffees/internal/app"
	"github.com/yishak-cs/coffees/pkg/helper"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Driver string
	DSN    string
	Format string // "json" | "text"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the coffees CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "coffeectl",
		Short: "Manage the coffees catalog",
		Long:  "Operator commands for the coffees catalog: schema migrations, seeding, listing and recommending.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.Driver, "driver", "", "database driver (sqlite|postgres), defaults to DB_DRIVER")
	cmd.PersistentFlags().StringVar(&opts.DSN, "dsn", "", "database DSN, defaults to DB_DSN")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewSeedCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewRecommendCommand(opts))

	return cmd
}

// config merges the global flags over the environment configuration.
func (o *RootOptions) config() helper.Config {
	_ = godotenv.Load()
	config := helper.LoadConfigFromEnv()
	if o.Driver != "" {
		config.Database.Driver = o.Driver
	}
	if o.DSN != "" {
		config.Database.DSN = o.DSN
	}
	return config
}

// open wires the application for a command.
func (o *RootOptions) open(skipMigrate bool) (*app.App, error) {
	return app.New(o.config(), skipMigrate)
}

// writeJSON prints v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
