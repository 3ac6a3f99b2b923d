package config

import (
	"fmt"
	"strings"

	"github.com/vfg2006/insights-engine/internal/domain"
)

// Validate garante que as credenciais das fontes selecionadas existem.
// Roda na inicialização, antes de qualquer consulta.
func (c *Config) Validate() error {
	switch c.Sources.Sales {
	case SourceShopify:
		if c.Shopify.StoreURL == "" {
			return domain.NewConfigurationError("SHOPIFY_STORE_URL", "required when SALES_SOURCE=shopify")
		}
		if c.Shopify.AccessToken == "" {
			return domain.NewConfigurationError("SHOPIFY_ACCESS_TOKEN", "required when SALES_SOURCE=shopify")
		}
	case SourceStripe:
		if c.Stripe.SecretKey == "" {
			return domain.NewConfigurationError("STRIPE_SECRET_KEY", "required when SALES_SOURCE=stripe")
		}
	case SourceWarehouse:
		if err := c.validateWarehouse("SALES_SOURCE"); err != nil {
			return err
		}
	default:
		return domain.NewConfigurationError("SALES_SOURCE", fmt.Sprintf("unsupported source %q", c.Sources.Sales))
	}

	switch c.Sources.Events {
	case SourceClickHouse:
		if c.ClickHouse.Host == "" || c.ClickHouse.Port == 0 || c.ClickHouse.Database == "" {
			return domain.NewConfigurationError("CLICKHOUSE_HOST", "host, native port and database are required when EVENTS_SOURCE=clickhouse")
		}
	case SourceWarehouse:
		if err := c.validateWarehouse("EVENTS_SOURCE"); err != nil {
			return err
		}
	default:
		return domain.NewConfigurationError("EVENTS_SOURCE", fmt.Sprintf("unsupported source %q", c.Sources.Events))
	}

	if c.Engine.PageSize <= 0 {
		return domain.NewConfigurationError("ENGINE_PAGE_SIZE", "must be positive")
	}

	if c.Engine.MaxPages <= 0 {
		return domain.NewConfigurationError("ENGINE_MAX_PAGES", "must be positive")
	}

	if c.Engine.MaxConcurrency <= 0 {
		return domain.NewConfigurationError("ENGINE_MAX_CONCURRENCY", "must be positive")
	}

	if !c.Auth.Disabled && c.Auth.Secret == "" && c.Auth.APIKeyHash == "" {
		return domain.NewConfigurationError("AUTH_SECRET", "AUTH_SECRET or AUTH_API_KEY_HASH is required unless AUTH_DISABLED=true")
	}

	return nil
}

func (c *Config) validateWarehouse(selectedBy string) error {
	if c.Warehouse.DSN == "" {
		return domain.NewConfigurationError("WAREHOUSE_DSN", "required when "+selectedBy+"=warehouse")
	}

	driver := strings.ToLower(c.Warehouse.Driver)
	if driver != "postgres" && driver != "mysql" {
		return domain.NewConfigurationError("WAREHOUSE_DRIVER", fmt.Sprintf("unsupported driver %q, expected postgres or mysql", c.Warehouse.Driver))
	}

	return nil
}

// IsDevelopment indica ambiente local
func (c *Config) IsDevelopment() bool {
	return c.App.Env == "" || c.App.Env == "development" || c.App.Env == "dev"
}
