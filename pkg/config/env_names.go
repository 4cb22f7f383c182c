package config

const (
	// EnvPrefix is passed to envconfig; individual fields carry the full
	// SHAREKIT_ name so the prefix stays empty.
	EnvPrefix = ""

	AppEnvDev  = "development"
	AppEnvProd = "production"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	EnvAppEnv = "SHAREKIT_APP_ENV"
	EnvDBDSN  = "SHAREKIT_DB_DSN"
	EnvDBHost = "SHAREKIT_DB_HOST"
	EnvDBUser = "SHAREKIT_DB_USER"
	EnvDBName = "SHAREKIT_DB_NAME"
)

var requiredDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
