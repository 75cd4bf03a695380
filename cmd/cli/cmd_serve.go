package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sguter90/sensordash/pkg/broadcast"
	"github.com/sguter90/sensordash/pkg/config"
	"github.com/sguter90/sensordash/pkg/dashboard"
	"github.com/sguter90/sensordash/pkg/fetcher"
	"github.com/sguter90/sensordash/pkg/notify"
	"github.com/sguter90/sensordash/pkg/telemetry"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the SensorDash server",
	Long:  `Start the SensorDash server: refresh the dashboard every minute and serve it over HTTP and WebSocket.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("source", "", "data source (api or demo), overrides DASHBOARD_SOURCE")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := configFrom(cmd)
	if err != nil {
		return err
	}

	registry := InitSourceRegistry(cfg)
	src, err := selectSource(registry, cfg.Source)
	if err != nil {
		return err
	}

	metrics := telemetry.New()
	controller := dashboard.NewController(fetcher.New(src, metrics), dashboard.WithMetrics(metrics))

	latest := &dashboard.LatestView{}
	controller.AddSink(latest)

	hub := broadcast.NewHub(controller.View, cfg.AllowedOrigins, metrics)
	controller.AddSink(hub)

	if cfg.MQTTEnabled() {
		publisher, err := newMQTTPublisher(cfg)
		if err != nil {
			log.Printf("⚠ Tier notifications disabled: %v", err)
		} else {
			defer publisher.Close()
			controller.AddSink(notify.NewNotifier(publisher, cfg.MQTTTopicStatus))
			log.Printf("✓ Publishing tier changes to %s/<deviceId>", cfg.MQTTTopicStatus)
		}
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	monitor := dashboard.NewConnectionMonitor(src, dashboard.ProbeInterval, controller.SetConnected)
	monitor.Start(ctx)
	controller.Start(ctx)

	// Setup Router
	routeManager := NewRouteManager(controller, latest, hub, metrics, cfg.AllowedOrigins)
	routeManager.Setup()

	addr := cfg.Addr()

	// Start server
	server := &http.Server{
		Handler:     routeManager.Handler(),
		Addr:        addr,
		ReadTimeout: 5 * time.Second,
		// refresh requests wait for a whole cycle
		WriteTimeout: 4*cfg.HTTPTimeout + 10*time.Second,
	}

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Println("Shutdown signal received")

		controller.Stop()
		monitor.Stop()
		hub.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	log.Printf("Starting SensorDash server on %s...", addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

func newMQTTPublisher(cfg *config.Config) (*notify.MQTTPublisher, error) {
	return notify.NewMQTTPublisher(notify.MQTTConfig{
		Broker:   cfg.MQTTBroker,
		ClientID: cfg.MQTTClientID,
		Username: cfg.MQTTUsername,
		Password: cfg.MQTTPassword,
	})
}
