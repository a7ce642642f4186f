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

	"machmon/internal/config"
	"machmon/internal/controllers"
	"machmon/internal/middleware"
	"machmon/internal/monitor"
	"machmon/internal/output"
	"machmon/internal/routes"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"machmon/internal/services"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "machmon",
		Short: "Machine data extractor with threshold-based monitoring",
		Long: `machmon samples CPU, memory, disk and process statistics from the host.
With a zero interval it emits one JSON snapshot and exits; with a positive
interval it polls continuously and emits a snapshot whenever a configured
CPU or memory threshold is exceeded.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := buildConfig(cmd, configPath)
			if err != nil {
				return fatal(err)
			}
			if err := cfg.Validate(); err != nil {
				return fatal(err)
			}
			if err := run(cmd.Context(), cfg); err != nil {
				return fatal(err)
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&configPath, "config", "", "path to YAML configuration file")
	flags.Bool("extract-disk", false, "include disk information in snapshots")
	flags.Bool("extract-processes", false, "include process information in snapshots")
	flags.Int("monitor-interval", 0, "monitoring interval in seconds (0 = single snapshot)")
	flags.Int("cpu-trigger-percentage", 0, "CPU usage percentage that triggers an event (0-100, required)")
	flags.Int("mem-trigger-percentage", 0, "memory usage percentage that triggers an event (0-100, required)")
	flags.String("listen", "", "serve the local status API on this address (continuous mode only)")
	flags.String("agent-socket", "", "path to the agent notification socket")

	return cmd
}

// fatal reports a startup or runtime failure as the JSON error envelope.
// The process never exits silently.
func fatal(err error) error {
	log.Printf("[MAIN] Plugin execution failed: %v", err)
	output.WriteError(os.Stdout, err.Error())
	return err
}

// buildConfig layers CLI flags over the optional YAML file. A flag only
// overrides the file when it was set explicitly.
func buildConfig(cmd *cobra.Command, configPath string) (*config.Config, error) {
	var cfg *config.Config
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		cfg = &config.Config{}
	}

	flags := cmd.Flags()
	if flags.Changed("extract-disk") {
		cfg.ExtractDisk, _ = flags.GetBool("extract-disk")
	}
	if flags.Changed("extract-processes") {
		cfg.ExtractProcesses, _ = flags.GetBool("extract-processes")
	}
	if flags.Changed("monitor-interval") {
		cfg.MonitorInterval, _ = flags.GetInt("monitor-interval")
	}
	if flags.Changed("cpu-trigger-percentage") {
		v, _ := flags.GetInt("cpu-trigger-percentage")
		cfg.CPUTriggerPercent = &v
	}
	if flags.Changed("mem-trigger-percentage") {
		v, _ := flags.GetInt("mem-trigger-percentage")
		cfg.MemTriggerPercent = &v
	}
	if flags.Changed("listen") {
		cfg.Server.Listen, _ = flags.GetString("listen")
	}
	if flags.Changed("agent-socket") {
		cfg.Agent.SocketPath, _ = flags.GetString("agent-socket")
	}

	cfg.ApplyDefaults()
	return cfg, nil
}

func run(ctx context.Context, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	producer := services.NewProducer(services.DefaultExtractors())
	emitter := output.NewJSONEmitter(os.Stdout)
	include := services.Categories{Disk: cfg.ExtractDisk, Processes: cfg.ExtractProcesses}
	thresholds := monitor.Thresholds{
		CPUPercent: *cfg.CPUTriggerPercent,
		MemPercent: *cfg.MemTriggerPercent,
	}

	if cfg.SingleShot() {
		loop := monitor.New(monitor.Options{
			Include:  include,
			Producer: producer,
			Emitter:  emitter,
		})
		return loop.Run(ctx)
	}

	var notifier monitor.Notifier
	if cfg.Agent.SocketPath != "" {
		client := services.NewAgentClient(
			cfg.Agent.SocketPath,
			time.Duration(cfg.Agent.TimeoutSeconds)*time.Second,
			cfg.Agent.MaxRetries,
			time.Duration(cfg.Agent.RetryDelaySeconds)*time.Second,
		)
		if err := client.Connect(ctx); err != nil {
			return fmt.Errorf("failed to connect to agent: %w", err)
		}
		notifier = client
	}

	registry := prometheus.NewRegistry()
	metrics := monitor.NewMetrics(registry)

	g, ctx := errgroup.WithContext(ctx)

	var publisher monitor.Publisher
	if cfg.Server.Listen != "" {
		hub := services.NewStreamHub()
		publisher = hub
		g.Go(func() error {
			hub.Run(ctx)
			return nil
		})

		srv := &http.Server{
			Addr:    cfg.Server.Listen,
			Handler: buildEngine(cfg, producer, include, hub, registry),
		}
		g.Go(func() error {
			log.Printf("[SERVER] Status API listening on %s", cfg.Server.Listen)
			if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("status API server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	loop := monitor.New(monitor.Options{
		Interval:   cfg.Interval(),
		Thresholds: thresholds,
		Include:    include,
		Producer:   producer,
		Emitter:    emitter,
		Notifier:   notifier,
		Publisher:  publisher,
		Metrics:    metrics,
	})
	g.Go(func() error {
		return loop.Run(ctx)
	})

	return g.Wait()
}

func buildEngine(cfg *config.Config, producer *services.Producer, include services.Categories, hub *services.StreamHub, registry *prometheus.Registry) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.RateLimitMiddleware(middleware.NewRateLimiter()))

	auth := services.NewAuthService(cfg.Server.TokenSecret, 0)

	routes.RegisterMetricRoutes(r, controllers.NewMetricsController(producer, include), middleware.AuthMiddleware(auth))
	routes.RegisterStreamRoutes(r, controllers.NewStreamController(hub, auth))

	r.GET("/prometheus", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	return r
}
