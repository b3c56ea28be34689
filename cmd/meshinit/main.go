package main

import (
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/RustRoveri/network-initializer/pkg/config"
	"github.com/RustRoveri/network-initializer/pkg/controller"
	"github.com/RustRoveri/network-initializer/pkg/initializer"
	"github.com/RustRoveri/network-initializer/pkg/logging"
	"github.com/RustRoveri/network-initializer/pkg/metrics"
	"github.com/RustRoveri/network-initializer/pkg/validation"
)

func main() {
	configPath := flag.String("config", "", "Topology config file (YAML)")
	metricsAddr := flag.String("metrics-addr", "", "Metrics listen address (default :9090, or set METRICS_ADDR)")
	duration := flag.Duration("duration", 0, "Run duration (0 runs until interrupted)")
	flag.Parse()

	if *metricsAddr == "" {
		if env := os.Getenv("METRICS_ADDR"); env != "" {
			*metricsAddr = env
		} else {
			*metricsAddr = ":9090"
		}
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	if *configPath == "" {
		logger.Error("no config file given, use -config")
		os.Exit(2)
	}

	reg := metrics.NewRegistry()

	logger.Info("loading topology config", "path", *configPath)
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := validation.Validate(cfg); err != nil {
		var verr *validation.Error
		if errors.As(err, &verr) {
			reg.RecordValidationFailure(string(verr.Rule))
		}
		logger.Error("invalid topology", "error", err)
		os.Exit(1)
	}
	logger.Info("topology validated",
		"drones", len(cfg.Drones),
		"clients", len(cfg.Clients),
		"servers", len(cfg.Servers),
	)

	net, err := initializer.Init(cfg,
		initializer.WithLogger(logging.NewDefaultLogger()),
		initializer.WithMetrics(reg),
	)
	if err != nil {
		logger.Error("failed to initialize network", "error", err)
		os.Exit(1)
	}

	ctl := controller.New(net, logging.NewDefaultLogger())
	ctl.Start()

	// Expose prometheus metrics
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", reg.Handler())
		logger.Info("metrics server starting", "addr", *metricsAddr)
		if err := http.ListenAndServe(*metricsAddr, mux); err != nil {
			logger.Error("metrics server error", "error", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Periodic topology summary
	summaryTicker := time.NewTicker(30 * time.Second)
	defer summaryTicker.Stop()
	go func() {
		for range summaryTicker.C {
			d := net.Distributions
			logger.Info("topology summary",
				"nodes", net.Topology.Len(),
				"drones", d.TotalDrones(),
				"clients", d.TotalClients(),
				"servers", d.TotalServers(),
			)
		}
	}()

	logger.Info("network running",
		"nodes", net.Topology.Len(),
		"drone_impls", net.Distributions.TotalDrones(),
	)

	if *duration > 0 {
		select {
		case <-time.After(*duration):
			logger.Info("run duration elapsed")
		case <-sigChan:
			logger.Info("interrupted")
		}
	} else {
		<-sigChan
		logger.Info("interrupted")
	}

	logger.Info("shutting down")
	ctl.Stop()
	logger.Info("network exited")
}
