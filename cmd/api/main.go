package main

import (
	"context"

	"github.com/vfg2006/insights-engine/internal/api"
	"github.com/vfg2006/insights-engine/internal/bootstrap"
	"github.com/vfg2006/insights-engine/internal/config"
	"github.com/vfg2006/insights-engine/internal/scheduler"
	"github.com/vfg2006/insights-engine/internal/usecases/authenticating"
	"github.com/vfg2006/insights-engine/pkg/log"
	"github.com/vfg2006/insights-engine/pkg/metrics"
)

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		log.L.Fatal(err)
	}

	log.Setup(cfg.App.LogLevel)
	log.L.Infof("main: log level set to %s", cfg.App.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	engine, err := bootstrap.NewEngine(ctx, cfg)
	if err != nil {
		log.L.WithError(err).Fatal("main: error building insights engine")
	}
	defer engine.Close()

	if cfg.Metrics.Enabled {
		metrics.Register()
	}

	authenticator := authenticating.NewService(cfg)

	dailyReportService, err := scheduler.NewDailyReportService(engine.Insighter, cfg)
	if err != nil {
		log.L.WithError(err).Fatal("main: invalid daily report configuration")
	}

	if err := dailyReportService.Start(ctx); err != nil {
		log.L.WithError(err).Error("main: error starting daily report scheduler")
	}

	server, err := api.New(cfg, engine.Insighter, authenticator, dailyReportService)
	if err != nil {
		log.L.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		log.L.Error(err)
	}
}
