package config

// EnvPrefix namespaces every environment variable the service reads.
const EnvPrefix = "INVENTAG"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

// Env var names referenced outside struct tags (tests, error messages).
const (
	EnvAppEnv                 = "INVENTAG_APP_ENV"
	EnvPort                   = "INVENTAG_APP_PORT"
	EnvDBDSN                  = "INVENTAG_DB_DSN"
	EnvDBHost                 = "INVENTAG_DB_HOST"
	EnvDBUser                 = "INVENTAG_DB_USER"
	EnvDBName                 = "INVENTAG_DB_NAME"
	EnvRedisURL               = "INVENTAG_REDIS_URL"
	EnvJWTSecret              = "INVENTAG_JWT_SECRET"
	EnvJWTIssuer              = "INVENTAG_JWT_ISSUER"
	EnvJWTExpMins             = "INVENTAG_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "INVENTAG_REFRESH_TOKEN_TTL_MINUTES"
	EnvReaderDefaultAddress   = "INVENTAG_READER_DEFAULT_ADDRESS"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
