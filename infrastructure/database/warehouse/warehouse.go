package warehouse

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/vfg2006/insights-engine/internal/config"
)

const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

type Conn interface {
	Queryer
	Placeholder() squirrel.PlaceholderFormat
	Close() error
	Ping(context.Context) error
}

type Connection struct {
	*sqlx.DB
	driver string
}

// NewConnection abre a conexão somente leitura com o warehouse.
// Para mysql o DSN precisa de parseTime=true.
func NewConnection(
	ctx context.Context,
	cfg config.Warehouse,
) (*Connection, error) {
	driver := strings.ToLower(cfg.Driver)
	if driver != DriverPostgres && driver != DriverMySQL {
		return nil, fmt.Errorf("driver de warehouse não suportado: %s", cfg.Driver)
	}

	db, err := sqlx.ConnectContext(ctx, driver, cfg.DSN)
	if err != nil {
		return nil, err
	}

	return &Connection{DB: db, driver: driver}, nil
}

func (c *Connection) Ping(ctx context.Context) error {
	return c.DB.PingContext(ctx)
}

// Placeholder retorna o formato de bind do driver ($1 no postgres, ? no mysql)
func (c *Connection) Placeholder() squirrel.PlaceholderFormat {
	return PlaceholderFor(c.driver)
}

func PlaceholderFor(driver string) squirrel.PlaceholderFormat {
	if driver == DriverMySQL {
		return squirrel.Question
	}
	return squirrel.Dollar
}
