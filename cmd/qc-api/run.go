package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	apiserver "github.com/brandworks/asset-qc/internal/api_server"
	"github.com/brandworks/asset-qc/internal/config"
	"github.com/brandworks/asset-qc/internal/events"
	"github.com/brandworks/asset-qc/internal/service"
	"github.com/brandworks/asset-qc/internal/store"
	"github.com/brandworks/asset-qc/internal/workflow"
	"github.com/brandworks/asset-qc/pkg/metrics"
	"github.com/brandworks/asset-qc/pkg/tracing"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the asset qc api",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, done := setup()
		defer done()

		zap.S().Info("Starting API service...")
		defer zap.S().Info("API service stopped")
		zap.S().Infof("Using config: %s", cfg)

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGHUP, syscall.SIGTERM, syscall.SIGQUIT)
		defer cancel()

		shutdownTracing, err := tracing.Init(ctx, tracing.Config{
			Exporter:     cfg.Service.Tracing.Exporter,
			OtlpEndpoint: cfg.Service.Tracing.OtlpEndpoint,
			SampleRatio:  cfg.Service.Tracing.SampleRatio,
			ServiceName:  "asset-qc-api",
			Version:      version,
		})
		if err != nil {
			zap.S().Fatalw("initializing tracing", "error", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = shutdownTracing(shutdownCtx)
		}()

		zap.S().Info("Initializing data store")
		db, err := store.InitDB(cfg)
		if err != nil {
			zap.S().Fatalw("initializing data store", "error", err)
		}

		s := store.NewStore(db, store.WithLogger(zap.S().Named("store")))
		defer s.Close()

		if err := migrate(ctx, cfg, db, s); err != nil {
			zap.S().Fatalw("running migrations", "error", err)
		}

		machine := newMachine(cfg)

		writer, topic, err := events.NewWriter(ctx, cfg.Service.Events)
		if err != nil {
			zap.S().Fatalw("creating events writer", "error", err)
		}
		producer := events.NewEventProducer(writer, events.WithOutputTopic(topic))
		defer func() {
			_ = producer.Close()
		}()

		metrics.RegisterAssetCollector(s)

		listener, err := newListener(cfg.Service.Address)
		if err != nil {
			zap.S().Fatalw("creating listener", "error", err)
		}
		metricsListener, err := newListener(cfg.Service.MetricsAddress)
		if err != nil {
			zap.S().Fatalw("creating metrics listener", "error", err)
		}

		server := apiserver.New(
			cfg,
			service.NewAssetService(s),
			service.NewQCService(s, machine, producer),
			listener,
		)
		metricsServer := apiserver.NewMetricServer(cfg.Service.MetricsAddress, metricsListener)

		if err := apiserver.RunAll(ctx, server, metricsServer); err != nil {
			zap.S().Errorw("server stopped", "error", err)
			return err
		}
		return nil
	},
}

func newMachine(cfg *config.Config) *workflow.Machine {
	stage, ok := workflow.ApprovedStageFromLabel(cfg.Service.Workflow.ApprovedStage)
	if !ok {
		zap.S().Warnf("QC_APPROVED_STAGE=%q is not an approval stage, using %s", cfg.Service.Workflow.ApprovedStage, stage)
	}
	machine := workflow.NewMachine(workflow.WithApprovedStage(stage))
	zap.S().Infof("approved assets land in stage %s", machine.ApprovedStage())
	return machine
}

func newListener(address string) (net.Listener, error) {
	if address == "" {
		address = "localhost:0"
	}
	return net.Listen("tcp", address)
}
