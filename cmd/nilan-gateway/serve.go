package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/carlsendk/nilan-gateway/internal/broker"
	"github.com/carlsendk/nilan-gateway/internal/bus"
	"github.com/carlsendk/nilan-gateway/internal/catalog"
	"github.com/carlsendk/nilan-gateway/internal/command"
	"github.com/carlsendk/nilan-gateway/internal/config"
	"github.com/carlsendk/nilan-gateway/internal/queryserver"
	"github.com/carlsendk/nilan-gateway/internal/scheduler"
)

func newServeCmd() *cobra.Command {
	var cfgPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the gateway",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cfgPath)
		},
	}

	cmd.Flags().StringVarP(&cfgPath, "config", "c", "nilan-gateway.yaml", "path to the YAML configuration")
	return cmd
}

func serve(cfgPath string) error {
	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}
	config.ApplyDefaults(cfg)
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("bad log level %q: %w", cfg.LogLevel, err)
	}
	log.SetLevel(level)

	// --------------------
	// Field bus (fail fast: no bus, no gateway)
	// --------------------

	busClient, err := bus.New(bus.Config{
		Mode:     cfg.Bus.Mode,
		Device:   cfg.Bus.Device,
		Baud:     cfg.Bus.Baud,
		DataBits: cfg.Bus.DataBits,
		Parity:   cfg.Bus.Parity,
		StopBits: cfg.Bus.StopBits,
		Endpoint: cfg.Bus.Endpoint,
		SlaveID:  cfg.Bus.SlaveID,
		Timeout:  time.Duration(cfg.Bus.TimeoutMs) * time.Millisecond,
	})
	if err != nil {
		return fmt.Errorf("bus open failed: %w", err)
	}
	defer busClient.Close()

	// --------------------
	// Command gateway + broker
	// --------------------

	gw := command.NewGateway(busClient, command.Rules(cfg.Topic.Root), nil)

	var subs []broker.Subscription
	for _, r := range gw.Rules() {
		subs = append(subs, broker.Subscription{Topic: r.Topic, Handler: gw.HandleMessage})
	}

	brokerClient := broker.New(broker.Config{
		Host:        cfg.Broker.Host,
		Port:        cfg.Broker.Port,
		Username:    cfg.Broker.Username,
		Password:    cfg.Broker.Password,
		ClientID:    cfg.Hostname,
		StatusTopic: cfg.Topic.Root + "/status",
	}, subs)
	defer brokerClient.Close()

	// --------------------
	// Poll scheduler
	// --------------------

	groups, err := pollGroups(cfg.Poll.Groups)
	if err != nil {
		return err
	}

	sched := scheduler.New(scheduler.Config{
		Interval: time.Duration(cfg.Poll.IntervalS) * time.Second,
		Prefix:   cfg.Topic.Root,
		Groups:   groups,
	}, busClient, brokerClient)

	gw.SetWake(sched.ForceDue)

	// --------------------
	// Query interface
	// --------------------

	qs, err := queryserver.New(cfg.Query.Listen, gw)
	if err != nil {
		return fmt.Errorf("query listener failed: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := qs.Serve(ctx); err != nil {
			log.WithError(err).Error("query server stopped")
		}
	}()

	log.WithFields(log.Fields{
		"broker": cfg.Broker.Host,
		"bus":    cfg.Bus.Mode,
		"listen": cfg.Query.Listen,
	}).Info("gateway running")

	sched.Run(ctx, func() { brokerClient.EnsureConnected() })
	return nil
}

// pollGroups resolves the configured subset against the catalog. Empty
// means the full catalog in priority order.
func pollGroups(names []string) ([]catalog.Group, error) {
	if len(names) == 0 {
		return catalog.Groups(), nil
	}

	groups := make([]catalog.Group, 0, len(names))
	for _, name := range names {
		g, ok := catalog.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("poll group %q is not in the catalog", name)
		}
		groups = append(groups, g)
	}
	return groups, nil
}
