package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/vfg2006/insights-engine/internal/config"
	"github.com/vfg2006/insights-engine/pkg/log"
)

// Selecter é o subconjunto da conexão usado pelos repositórios
type Selecter interface {
	Select(ctx context.Context, dest any, query string, args ...any) error
}

type Client struct {
	Conn clickhouse.Conn
}

func NewClient(ctx context.Context, cfg config.ClickHouse) (*Client, error) {
	dialTimeout := cfg.DialTimeout
	if dialTimeout <= 0 {
		dialTimeout = 5 * time.Second
	}

	options := &clickhouse.Options{
		Addr: []string{fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
		},
		ClientInfo: clickhouse.ClientInfo{
			Products: []struct {
				Name    string
				Version string
			}{{Name: "insights-engine", Version: "1.0.0"}},
		},
		Compression: &clickhouse.Compression{
			Method: clickhouse.CompressionLZ4,
		},
		DialTimeout: dialTimeout,
	}

	conn, err := clickhouse.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to open clickhouse connection: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 2*dialTimeout)
	defer cancel()

	if err := conn.Ping(pingCtx); err != nil {
		return nil, fmt.Errorf("failed to ping clickhouse: %w", err)
	}

	log.L.WithFields(log.Fields{
		"host":     cfg.Host,
		"database": cfg.Database,
	}).Info("clickhouse: connected via native protocol")

	return &Client{Conn: conn}, nil
}

func (c *Client) Select(ctx context.Context, dest any, query string, args ...any) error {
	return c.Conn.Select(ctx, dest, query, args...)
}

func (c *Client) Close() error {
	if c.Conn == nil {
		return nil
	}
	return c.Conn.Close()
}
