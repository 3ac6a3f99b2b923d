package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/justinas/alice"
	"github.com/vfg2006/insights-engine/internal/api/handler"
	"github.com/vfg2006/insights-engine/internal/api/handler/router"
	"github.com/vfg2006/insights-engine/internal/config"
	"github.com/vfg2006/insights-engine/internal/usecases/authenticating"
	"github.com/vfg2006/insights-engine/internal/usecases/insighting"
	"github.com/vfg2006/insights-engine/pkg/log"
	"github.com/vfg2006/insights-engine/pkg/middleware"
)

const shutdownTimeout = 15 * time.Second

type Server struct {
	httpServer *http.Server
}

func New(
	cfg *config.Config,
	insightService insighting.CombinedInsighter,
	authenticator authenticating.Authenticator,
	reporter handler.DailyReporter,
) (*Server, error) {
	configs := []router.ConfigRouter{
		router.WithRoutes(handler.Healthcheck()...),
		router.WithRoutes(handler.Sales(insightService)...),
		router.WithRoutes(handler.Funnels(insightService)...),
		router.WithRoutes(handler.Reports(reporter)...),
	}
	if cfg.Metrics.Enabled {
		configs = append(configs, router.WithRoutes(handler.Metrics()...))
	}

	rt := router.New(configs...)
	log.L.WithField("routes", rt.Routes()).Debug("api: routes registered")

	middlewares := []alice.Constructor{
		middleware.LoggingMiddleware(),
		middleware.LogPanicMiddleware(),
		middleware.Cors(cfg.Server.AllowedOrigins),
	}

	if cfg.Auth.Disabled {
		log.L.Warn("api: authentication disabled by configuration")
		middlewares = append(middlewares, middleware.NoAuth())
	} else {
		middlewares = append(middlewares, middleware.AuthMiddleware(authenticator))
	}

	srv := &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
			Handler:           alice.New(middlewares...).Then(rt),
			ReadHeaderTimeout: 2 * time.Second,
			WriteTimeout:      cfg.Engine.QueryTimeout + 5*time.Second,
		},
	}

	return srv, nil
}

// Handler expõe a cadeia completa de middlewares e rotas
func (s Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s Server) Run(ctx context.Context) error {
	go func() {
		log.L.WithFields(log.Fields{
			"address": s.httpServer.Addr,
		}).Info("api: server starting")

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.L.WithError(err).Error("api: server stopped unexpectedly")
		}
	}()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	select {
	case <-done:
		log.L.Info("api: interrupt signal received")
	case <-ctx.Done():
		log.L.Info("api: application context cancelled")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.Shutdown(shutdownCtx); err != nil {
		log.L.WithError(err).Error("api: error during shutdown")
		return err
	}

	log.L.Info("api: server shut down")
	return nil
}

func (s Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
