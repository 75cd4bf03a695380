package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sguter90/sensordash/pkg/config"
	"github.com/spf13/cobra"
)

type contextKey string

const configKey contextKey = "config"

var rootCmd = &cobra.Command{
	Use:   "sensordash",
	Short: "SensorDash - Temperature & Humidity Dashboard",
	Long: `SensorDash polls a sensor API for temperature and humidity readings
and serves a live dashboard with trends, status tiers and alerts.`,
	SilenceUsage: true,
}

func main() {
	ctx := context.WithValue(context.Background(), configKey, config.Load())
	rootCmd.SetContext(ctx)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// configFrom returns the configuration stored by main with the --source
// flag applied, validated
func configFrom(cmd *cobra.Command) (*config.Config, error) {
	cfg := cmd.Context().Value(configKey).(*config.Config)
	if name, err := cmd.Flags().GetString("source"); err == nil {
		cfg.UseSource(name)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
