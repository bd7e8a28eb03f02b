package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	Gestion      GestionConfig
	Banco        BancoConfig
	Tax          TaxConfig
	Session      SessionConfig
	Redis        RedisConfig
	DB           DBConfig
	Password     PasswordConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	Outbox       OutboxConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Gestion.validate(); err != nil {
		return nil, err
	}
	if err := cfg.Banco.validate(); err != nil {
		return nil, err
	}
	if err := cfg.Tax.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"URBANDRIVE_APP_ENV" required:"true"`
	Port         string `envconfig:"URBANDRIVE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"URBANDRIVE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"URBANDRIVE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// GestionConfig points at the external fleet/booking API of record.
type GestionConfig struct {
	BaseURL string        `envconfig:"URBANDRIVE_GESTION_BASE_URL" required:"true"`
	Timeout time.Duration `envconfig:"URBANDRIVE_GESTION_TIMEOUT" default:"10s"`
}

func (g GestionConfig) validate() error {
	if !strings.HasPrefix(g.BaseURL, "http://") && !strings.HasPrefix(g.BaseURL, "https://") {
		return fmt.Errorf("gestion base url must be http(s), got %q", g.BaseURL)
	}
	return nil
}

// BancoConfig points at the MiBanca banking API and names the merchant
// account holder used as destination for customer payments.
type BancoConfig struct {
	BaseURL         string        `envconfig:"URBANDRIVE_BANCO_BASE_URL" required:"true"`
	MerchantLegalID string        `envconfig:"URBANDRIVE_BANCO_MERCHANT_LEGAL_ID" required:"true"`
	Timeout         time.Duration `envconfig:"URBANDRIVE_BANCO_TIMEOUT" default:"5s"`
}

func (b BancoConfig) validate() error {
	if !strings.HasPrefix(b.BaseURL, "http://") && !strings.HasPrefix(b.BaseURL, "https://") {
		return fmt.Errorf("banco base url must be http(s), got %q", b.BaseURL)
	}
	if strings.TrimSpace(b.MerchantLegalID) == "" {
		return fmt.Errorf("banco merchant legal id is required")
	}
	return nil
}

// TaxConfig carries the deployment's VAT rate. Different deployments run
// with different rates (0.08875 in NY, 0.12 in EC), so the rate is
// configuration, never a code constant.
type TaxConfig struct {
	Rate float64 `envconfig:"URBANDRIVE_TAX_RATE" required:"true"`
}

func (t TaxConfig) validate() error {
	if t.Rate < 0 || t.Rate >= 1 {
		return fmt.Errorf("tax rate must be in [0,1), got %v", t.Rate)
	}
	return nil
}

type SessionConfig struct {
	Secret     string        `envconfig:"URBANDRIVE_SESSION_SECRET" required:"true"`
	CookieName string        `envconfig:"URBANDRIVE_SESSION_COOKIE_NAME" default:"urbandrive_session"`
	TTL        time.Duration `envconfig:"URBANDRIVE_SESSION_TTL" default:"12h"`
	Secure     bool          `envconfig:"URBANDRIVE_SESSION_SECURE" default:"false"`
}

type RedisConfig struct {
	URL          string        `envconfig:"URBANDRIVE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"URBANDRIVE_REDIS_ADDR"`
	Password     string        `envconfig:"URBANDRIVE_REDIS_PASSWORD"`
	DB           int           `envconfig:"URBANDRIVE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"URBANDRIVE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"URBANDRIVE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"URBANDRIVE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"URBANDRIVE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"URBANDRIVE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// DBConfig configures the local operational database holding the saga step
// log and the outbox. Business data stays in the gestion API; this store only
// records what this process did.
type DBConfig struct {
	DSN    string `envconfig:"URBANDRIVE_DB_DSN"`
	Driver string `envconfig:"URBANDRIVE_DB_DRIVER" default:"postgres"`

	MaxOpenConns    int           `envconfig:"URBANDRIVE_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"URBANDRIVE_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"URBANDRIVE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"URBANDRIVE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"URBANDRIVE_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"URBANDRIVE_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"URBANDRIVE_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"URBANDRIVE_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"URBANDRIVE_ARGON_KEY_LEN" default:"32"`
}

type GCPConfig struct {
	ProjectID string `envconfig:"URBANDRIVE_GCP_PROJECT_ID"`
}

type PubSubConfig struct {
	ReservationTopic string `envconfig:"URBANDRIVE_PUBSUB_RESERVATION_TOPIC" default:"ud-reservation-events"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"URBANDRIVE_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"URBANDRIVE_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"URBANDRIVE_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"URBANDRIVE_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"URBANDRIVE_AUTO_MIGRATE" default:"false"`
}
