package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/sguter90/sensordash/pkg/analysis"
	"github.com/sguter90/sensordash/pkg/dashboard"
	"github.com/sguter90/sensordash/pkg/fetcher"
	"github.com/sguter90/sensordash/pkg/models"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Fetch the dashboard once and print it",
	RunE:  runSnapshot,
}

func init() {
	snapshotCmd.Flags().String("source", "", "data source (api or demo), overrides DASHBOARD_SOURCE")
	snapshotCmd.Flags().String("range", string(models.DefaultRange), "chart range (1h, 6h, 24h or 7d)")
	snapshotCmd.Flags().Bool("json", false, "print the view as JSON")
	rootCmd.AddCommand(snapshotCmd)
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	cfg, err := configFrom(cmd)
	if err != nil {
		return err
	}

	rangeFlag, _ := cmd.Flags().GetString("range")
	tr, err := models.ParseTimeRange(rangeFlag)
	if err != nil {
		return err
	}

	src, err := selectSource(InitSourceRegistry(cfg), cfg.Source)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 4*cfg.HTTPTimeout)
	defer cancel()

	snap := fetcher.New(src, nil).FetchAll(ctx, uuid.NewString(), tr.Hours())

	now := time.Now()
	state := dashboard.SnapshotState(snap, tr, now)
	state.Connected = src.Probe(ctx) == nil
	view := dashboard.BuildView(state, analysis.DefaultThresholds(), now)

	out := cmd.OutOrStdout()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(view)
	}

	printView(out, view, isTerminal(out))
	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

var tierColors = map[analysis.Tier]string{
	analysis.TierNormal:  "\033[32m",
	analysis.TierWarning: "\033[33m",
	analysis.TierAlert:   "\033[31m",
}

const colorReset = "\033[0m"

func colorize(s string, tier analysis.Tier, color bool) string {
	c, ok := tierColors[tier]
	if !color || !ok {
		return s
	}
	return c + s + colorReset
}

func printView(w io.Writer, v dashboard.View, color bool) {
	if v.Banner != "" {
		fmt.Fprintf(w, "⚠ %s\n\n", v.Banner)
	}

	printMetric(w, "Temperature", v.Temperature, color)
	printMetric(w, "Humidity", v.Humidity, color)
	printMetric(w, "Heat Index", v.HeatIndex, color)

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Device:      %s (%s)\n", v.System.DeviceID, v.System.Location)
	fmt.Fprintf(w, "Sensor:      %s\n", v.System.SensorStatus)
	fmt.Fprintf(w, "WiFi:        %s\n", v.System.Wifi)
	fmt.Fprintf(w, "Connection:  %s\n", v.Connection)

	s := v.Statistics
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Avg Temp:    %s\n", s.AvgTemp)
	fmt.Fprintf(w, "Max Temp:    %s\n", s.MaxTemp)
	fmt.Fprintf(w, "Avg Hum:     %s\n", s.AvgHumidity)
	fmt.Fprintf(w, "Alerts:      %s\n", s.AlertCount)
	fmt.Fprintf(w, "Data Points: %s\n", s.DataPoints)
	fmt.Fprintf(w, "Uptime:      %s\n", s.Uptime)

	fmt.Fprintln(w)
	if v.NoAlerts != nil {
		fmt.Fprintf(w, "%s: %s\n", v.NoAlerts.Title, v.NoAlerts.Message)
	}
	for _, a := range v.Alerts {
		fmt.Fprintf(w, "[%s] %s (%s)\n", strings.ToUpper(a.Label), a.Title, a.TimeAgo)
		fmt.Fprintf(w, "    %s\n", a.Message)
		if a.Detail != "" {
			fmt.Fprintf(w, "    %s\n", a.Detail)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s (%s, %d samples)\n", v.LastUpdated, v.Range, v.Chart.Len())
}

func printMetric(w io.Writer, label string, m dashboard.MetricView, color bool) {
	value := m.Value
	if m.Fahrenheit != "" {
		value += " / " + m.Fahrenheit
	}
	line := fmt.Sprintf("%-12s %s", label+":", colorize(value, m.Tier, color))
	if m.Trend != "" {
		line += "  " + m.Trend
	}
	fmt.Fprintln(w, line)
}
