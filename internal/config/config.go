package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Fontes de registros suportadas
const (
	SourceShopify    = "shopify"
	SourceStripe     = "stripe"
	SourceWarehouse  = "warehouse"
	SourceClickHouse = "clickhouse"
)

type Config struct {
	App        App        `mapstructure:",squash"`
	Server     Server     `mapstructure:",squash"`
	Auth       Auth       `mapstructure:",squash"`
	Shopify    Shopify    `mapstructure:",squash"`
	Stripe     Stripe     `mapstructure:",squash"`
	Warehouse  Warehouse  `mapstructure:",squash"`
	ClickHouse ClickHouse `mapstructure:",squash"`
	Engine     Engine     `mapstructure:",squash"`
	Sources    Sources    `mapstructure:",squash"`
	Report     Report     `mapstructure:",squash"`
	Metrics    Metrics    `mapstructure:",squash"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
	Env      string `mapstructure:"app_env"`
}

type Server struct {
	Host           string   `mapstructure:"host"`
	Port           string   `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type Auth struct {
	Secret     string `mapstructure:"auth_secret"`
	APIKeyHash string `mapstructure:"auth_api_key_hash"`
	Disabled   bool   `mapstructure:"auth_disabled"`
}

type Shopify struct {
	StoreURL    string `mapstructure:"shopify_store_url"`
	APIVersion  string `mapstructure:"shopify_api_version"`
	AccessToken string `mapstructure:"shopify_access_token"`
}

type Stripe struct {
	SecretKey string `mapstructure:"stripe_secret_key"`
}

type Warehouse struct {
	Driver string `mapstructure:"warehouse_driver"`
	DSN    string `mapstructure:"warehouse_dsn"`
}

type ClickHouse struct {
	Host        string        `mapstructure:"clickhouse_host"`
	Port        int           `mapstructure:"clickhouse_native_port"`
	Database    string        `mapstructure:"clickhouse_db_name"`
	Username    string        `mapstructure:"clickhouse_username"`
	Password    string        `mapstructure:"clickhouse_password"`
	DialTimeout time.Duration `mapstructure:"clickhouse_dial_timeout"`
}

// Engine controla paginação, timeouts e concorrência das consultas
type Engine struct {
	PageSize       int           `mapstructure:"engine_page_size"`
	MaxPages       int           `mapstructure:"engine_max_pages"`
	QueryTimeout   time.Duration `mapstructure:"engine_query_timeout"`
	MaxRetries     int           `mapstructure:"engine_max_retries"`
	RetryBackoff   time.Duration `mapstructure:"engine_retry_backoff"`
	MaxConcurrency int           `mapstructure:"engine_max_concurrency"`
	DefaultLimit   int           `mapstructure:"engine_default_product_limit"`
}

type Sources struct {
	Sales  string `mapstructure:"sales_source"`
	Events string `mapstructure:"events_source"`
}

type Report struct {
	CronSchedule string   `mapstructure:"report_cron"`
	Enabled      bool     `mapstructure:"report_enabled"`
	FunnelSteps  []string `mapstructure:"report_funnel_steps"`
	SegmentBy    string   `mapstructure:"report_segment_by"`
}

type Metrics struct {
	Enabled bool `mapstructure:"metrics_enabled"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)
	viper.SetDefault("ALLOWED_ORIGINS", "http://localhost:3000")

	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("LOG_LEVEL", "debug")

	viper.SetDefault("AUTH_SECRET", "")
	viper.SetDefault("AUTH_API_KEY_HASH", "")
	viper.SetDefault("AUTH_DISABLED", false)

	viper.SetDefault("SHOPIFY_STORE_URL", "")
	viper.SetDefault("SHOPIFY_API_VERSION", "2024-04")
	viper.SetDefault("SHOPIFY_ACCESS_TOKEN", "")

	viper.SetDefault("STRIPE_SECRET_KEY", "")

	viper.SetDefault("WAREHOUSE_DRIVER", "postgres")
	viper.SetDefault("WAREHOUSE_DSN", "")

	viper.SetDefault("CLICKHOUSE_HOST", "localhost")
	viper.SetDefault("CLICKHOUSE_NATIVE_PORT", 9000)
	viper.SetDefault("CLICKHOUSE_DB_NAME", "analytics")
	viper.SetDefault("CLICKHOUSE_USERNAME", "default")
	viper.SetDefault("CLICKHOUSE_PASSWORD", "")
	viper.SetDefault("CLICKHOUSE_DIAL_TIMEOUT", "5s")

	viper.SetDefault("ENGINE_PAGE_SIZE", 250)
	viper.SetDefault("ENGINE_MAX_PAGES", 100)
	viper.SetDefault("ENGINE_QUERY_TIMEOUT", "30s")
	viper.SetDefault("ENGINE_MAX_RETRIES", 2)
	viper.SetDefault("ENGINE_RETRY_BACKOFF", "500ms")
	viper.SetDefault("ENGINE_MAX_CONCURRENCY", 4)
	viper.SetDefault("ENGINE_DEFAULT_PRODUCT_LIMIT", 10)

	viper.SetDefault("SALES_SOURCE", SourceShopify)
	viper.SetDefault("EVENTS_SOURCE", SourceClickHouse)

	viper.SetDefault("REPORT_CRON", "0 6 * * *") // Todos os dias às 6h da manhã
	viper.SetDefault("REPORT_ENABLED", false)
	viper.SetDefault("REPORT_FUNNEL_STEPS", "")
	viper.SetDefault("REPORT_SEGMENT_BY", "")

	viper.SetDefault("METRICS_ENABLED", true)
}

// NewConfig carrega a configuração uma única vez. O resultado deve ser tratado como imutável.
func NewConfig() (*Config, error) {
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("Usando variáveis carregadas pelo godotenv (viper não conseguiu ler .env):", err)
	} else {
		logrus.Info("Arquivo .env lido pelo Viper com sucesso")
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
		filepath.Join(cwd, "../../.env"),
	}

	for _, location := range locations {
		if err := godotenv.Load(location); err == nil {
			logrus.Info("Arquivo .env carregado com sucesso de:", location)
			return
		}
	}

	logrus.Debug("Nenhum arquivo .env encontrado, usando apenas variáveis de ambiente")
}
