package cli

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/polycopy/trade-monitor/internal/clients/chainclient"
	"github.com/polycopy/trade-monitor/internal/clients/dataclient"
	"github.com/polycopy/trade-monitor/internal/config"
	"github.com/polycopy/trade-monitor/internal/db"
	dbmodel "github.com/polycopy/trade-monitor/internal/db/model"
	"github.com/polycopy/trade-monitor/internal/observability/metrics"
	"github.com/polycopy/trade-monitor/internal/observability/tracing"
	"github.com/polycopy/trade-monitor/internal/services"
)

func StartMonitorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start-monitor",
		Short: "Starts the Polymarket trade monitor",
		Args:  cobra.ExactArgs(0),
		RunE:  startMonitor,
	}

	return cmd
}

func startMonitor(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ctx = tracing.InjectTraceID(ctx)
	log := log.Ctx(ctx)

	// load config
	cfgPath := GetConfigPath()
	cfg, err := config.New(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg(fmt.Sprintf("error while loading config file: %s", cfgPath))
	}

	err = dbmodel.Setup(ctx, &cfg.Db, cfg.Monitor.TrackedAddresses)
	if err != nil {
		log.Fatal().Err(err).Msg("error while setting up monitor db model")
	}

	// create new db client
	var dbClient db.DbInterface
	dbClient, err = db.New(ctx, cfg.Db)
	if err != nil {
		log.Fatal().Err(err).Msg("error while creating db client")
	}
	dbClient = db.NewDbWithMetrics(dbClient)

	dataClient := dataclient.NewClient(&cfg.DataAPI)

	chainClient, err := chainclient.NewClient(&cfg.Chain)
	if err != nil {
		log.Fatal().Err(err).Msg("error while creating chain client")
	}

	reporter := services.NewLogReporter(*log)

	service := services.NewService(cfg, dbClient, dataClient, chainClient, reporter)

	// initialize metrics with the metrics port from config
	metricsPort := cfg.Metrics.GetMetricsPort()
	metrics.Init(metricsPort)

	return service.RunMonitorSync(ctx)
}
