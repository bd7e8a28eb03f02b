package config

const (
	EnvPrefix = "URBANDRIVE"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvAppEnv            = "URBANDRIVE_APP_ENV"
	EnvPort              = "URBANDRIVE_APP_PORT"
	EnvGestionBaseURL    = "URBANDRIVE_GESTION_BASE_URL"
	EnvBancoBaseURL      = "URBANDRIVE_BANCO_BASE_URL"
	EnvBancoMerchantID   = "URBANDRIVE_BANCO_MERCHANT_LEGAL_ID"
	EnvTaxRate           = "URBANDRIVE_TAX_RATE"
	EnvSessionSecret     = "URBANDRIVE_SESSION_SECRET"
	EnvRedisURL          = "URBANDRIVE_REDIS_URL"
	EnvDBDSN             = "URBANDRIVE_DB_DSN"
)
