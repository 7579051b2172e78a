package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/polestar/storefront/config"
	"github.com/polestar/storefront/internal/app"
)

// Set at build time with -ldflags "-X main.version=..."
var version = "develop"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:          "storefront",
		Short:        "Polestar Furniture storefront API",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to the yaml configuration file")

	// boot loads the configuration and initializes the application
	boot := func() (*app.Application, error) {
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		a := app.NewApplication(cfg)
		if err := a.Init(); err != nil {
			return nil, err
		}
		return a, nil
	}

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := boot()
			if err != nil {
				return err
			}
			defer a.Release()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.NewWebServer().Start(ctx)
		},
	})

	var track, drop bool
	migrate := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := boot()
			if err != nil {
				return err
			}
			defer a.Release()
			if a.DB() == nil {
				zap.L().Warn("memory store has no schema to migrate")
				return nil
			}
			if drop {
				if err := a.DropAll(); err != nil {
					return err
				}
				zap.L().Warn("dropped all tables")
			}
			return a.MigrateDB(track)
		},
	}
	migrate.Flags().BoolVar(&track, "track", false, "log every migration statement")
	migrate.Flags().BoolVar(&drop, "drop", false, "drop all tables before migrating")
	root.AddCommand(migrate)

	root.AddCommand(&cobra.Command{
		Use:   "seed",
		Short: "Load the default catalog into an empty database",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := boot()
			if err != nil {
				return err
			}
			defer a.Release()
			return a.Seed(context.Background())
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	})
	return root
}
