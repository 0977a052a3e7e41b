package config

// EnvPrefix scopes all environment variables read by Load.
const EnvPrefix = "STOWAGE"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

const (
	EnvAppEnv   = "STOWAGE_APP_ENV"
	EnvPort     = "STOWAGE_APP_PORT"
	EnvDBDSN    = "STOWAGE_DB_DSN"
	EnvDBHost   = "STOWAGE_DB_HOST"
	EnvDBUser   = "STOWAGE_DB_USER"
	EnvDBName   = "STOWAGE_DB_NAME"
	EnvRedisURL = "STOWAGE_REDIS_URL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
