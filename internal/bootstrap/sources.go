// Package bootstrap monta as fontes de registros e o serviço de insights a partir da configuração
package bootstrap

import (
	"context"
	"fmt"

	"github.com/vfg2006/insights-engine/infrastructure/database/clickhouse"
	"github.com/vfg2006/insights-engine/infrastructure/database/warehouse"
	"github.com/vfg2006/insights-engine/infrastructure/integrator/payments"
	"github.com/vfg2006/insights-engine/infrastructure/integrator/shopify"
	"github.com/vfg2006/insights-engine/infrastructure/integrator/shopify/shopifyclient"
	"github.com/vfg2006/insights-engine/infrastructure/repository"
	"github.com/vfg2006/insights-engine/internal/config"
	"github.com/vfg2006/insights-engine/internal/usecases/fetching"
	"github.com/vfg2006/insights-engine/internal/usecases/insighting"
	"github.com/vfg2006/insights-engine/pkg/log"
)

// Engine agrupa o serviço montado e as conexões que precisam ser fechadas
type Engine struct {
	Insighter insighting.CombinedInsighter
	closers   []func() error
}

// Close fecha as conexões abertas na montagem
func (e *Engine) Close() {
	for _, closer := range e.closers {
		if err := closer(); err != nil {
			log.L.WithError(err).Warn("bootstrap: error closing connection")
		}
	}
}

// NewEngine conecta as fontes configuradas em SALES_SOURCE e EVENTS_SOURCE
func NewEngine(ctx context.Context, cfg *config.Config) (*Engine, error) {
	engine := &Engine{}

	var warehouseConn *warehouse.Connection
	openWarehouse := func() (*warehouse.Connection, error) {
		if warehouseConn != nil {
			return warehouseConn, nil
		}

		conn, err := warehouse.NewConnection(ctx, cfg.Warehouse)
		if err != nil {
			return nil, fmt.Errorf("erro ao conectar ao warehouse: %w", err)
		}
		if err := conn.Ping(ctx); err != nil {
			conn.Close()
			return nil, fmt.Errorf("erro ao testar conexão com o warehouse: %w", err)
		}

		log.L.WithField("driver", cfg.Warehouse.Driver).Info("bootstrap: warehouse connection established")
		warehouseConn = conn
		engine.closers = append(engine.closers, conn.Close)
		return conn, nil
	}

	salesSource, err := newSalesSource(cfg, openWarehouse)
	if err != nil {
		engine.Close()
		return nil, err
	}

	eventsSource, err := newEventsSource(ctx, cfg, engine, openWarehouse)
	if err != nil {
		engine.Close()
		return nil, err
	}

	log.L.WithFields(log.Fields{
		"source":        salesSource.Name(),
		"events_source": eventsSource.Name(),
	}).Info("bootstrap: record sources ready")

	engine.Insighter = insighting.NewService(cfg, fetching.NewFetcher(cfg), salesSource, eventsSource)
	return engine, nil
}

func newSalesSource(cfg *config.Config, openWarehouse func() (*warehouse.Connection, error)) (fetching.Source, error) {
	switch cfg.Sources.Sales {
	case config.SourceShopify:
		return shopify.New(shopifyclient.NewClient(cfg)), nil
	case config.SourceStripe:
		return payments.New(cfg), nil
	case config.SourceWarehouse:
		conn, err := openWarehouse()
		if err != nil {
			return nil, err
		}
		return repository.NewOrderRepository(conn), nil
	}

	return nil, fmt.Errorf("fonte de vendas não suportada: %s", cfg.Sources.Sales)
}

func newEventsSource(
	ctx context.Context,
	cfg *config.Config,
	engine *Engine,
	openWarehouse func() (*warehouse.Connection, error),
) (fetching.Source, error) {
	switch cfg.Sources.Events {
	case config.SourceClickHouse:
		client, err := clickhouse.NewClient(ctx, cfg.ClickHouse)
		if err != nil {
			return nil, fmt.Errorf("erro ao conectar ao ClickHouse: %w", err)
		}
		engine.closers = append(engine.closers, client.Close)
		return repository.NewClickHouseEventRepository(client), nil
	case config.SourceWarehouse:
		conn, err := openWarehouse()
		if err != nil {
			return nil, err
		}
		return repository.NewEventRepository(conn), nil
	}

	return nil, fmt.Errorf("fonte de eventos não suportada: %s", cfg.Sources.Events)
}
