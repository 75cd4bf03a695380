package main

import (
	"context"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sguter90/sensordash/pkg/config"
)

func newConfigCommand(cfg *config.Config, args ...string) *cobra.Command {
	cmd := &cobra.Command{Use: "test", RunE: func(*cobra.Command, []string) error { return nil }}
	cmd.Flags().String("source", "", "")
	cmd.SetContext(context.WithValue(context.Background(), configKey, cfg))
	cmd.ParseFlags(args)
	return cmd
}

func TestConfigFrom(t *testing.T) {
	testCases := []struct {
		name        string
		envSource   string
		args        []string
		expected    string
		expectError bool
	}{
		{name: "environment source", envSource: "demo", expected: "demo"},
		{name: "flag overrides environment", envSource: "api", args: []string{"--source", "demo"}, expected: "demo"},
		{name: "flag fixes invalid environment", envSource: "mock", args: []string{"--source=demo"}, expected: "demo"},
		{name: "invalid environment", envSource: "mock", expectError: true},
		{name: "invalid flag", envSource: "demo", args: []string{"--source", "mock"}, expectError: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &config.Config{Source: tc.envSource, APIURL: "http://localhost:7071/api", HTTPTimeout: 30 * time.Second}

			got, err := configFrom(newConfigCommand(cfg, tc.args...))

			if tc.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got.Source)
		})
	}
}
