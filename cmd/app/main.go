package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"simple_cross/internal/app"
	"simple_cross/internal/infra"
)

var (
	configPath string

	rootCmd = &cobra.Command{
		Use:           "simplecross",
		Short:         "price-time priority crossing engine",
		Long:          "simplecross reads order commands (O, X, P) and prints fills, cancels, book entries and errors.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", infra.DefaultConfigPath, "path to the YAML config file")
}

// bootstrap initializes the app. An explicit --config must exist.
func bootstrap(cmd *cobra.Command) (*app.Bootstrap, error) {
	b := app.NewBootstrap()
	if err := b.Initialize(configPath, cmd.Flags().Changed("config")); err != nil {
		return nil, err
	}
	return b, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "simplecross:", err)
		os.Exit(1)
	}
}
