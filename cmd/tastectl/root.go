package main

import (
	"fmt"
	"os"
	"slices"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ghuser/blindtasting/pkg/app"
	"github.com/ghuser/blindtasting/pkg/config"
	"github.com/ghuser/blindtasting/pkg/logger"
	appsvcs "github.com/ghuser/blindtasting/services/tasting/application/services"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Dir     string
	Catalog string
	Format  string // "text" | "json"
	Verbose bool
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for tastectl.
func NewRootCommand() *cobra.Command {
	_ = godotenv.Load()
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "tastectl",
		Short: "Manage blind tasting notes stored on this device",
		Long: `tastectl reads and edits the device-wide tasting store, the same file the
API serves to anonymous callers. Changes made here reach running servers
through their file watcher.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.Dir, "dir", envOr("LOCAL_STORE_DIR", ".data"), "directory holding the device tasting store")
	cmd.PersistentFlags().StringVar(&opts.Catalog, "catalog", os.Getenv("CATALOG_FILE"), "YAML wine catalog replacing the built-in one")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (text|json)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log store activity to stderr")

	cmd.AddCommand(NewAddCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewRevealCommand(opts))
	cmd.AddCommand(NewClearCommand(opts))
	cmd.AddCommand(NewWatchCommand(opts))
	cmd.AddCommand(NewCatalogCommand(opts))

	return cmd
}

// openServices wires the tasting services without a shared store.
func openServices(cmd *cobra.Command, opts *RootOptions) (*appsvcs.Services, error) {
	level := "warn"
	if opts.Verbose {
		level = "debug"
	}
	return appsvcs.New(&app.Application{
		Config: &config.Config{
			LocalStoreDir: opts.Dir,
			CatalogFile:   opts.Catalog,
			Environment:   config.EnvDevelopment,
		},
		Logger: logger.NewWithWriter(cmd.ErrOrStderr(), level),
	})
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
