package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Gateway      GatewayConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SHAREKIT_APP_ENV" required:"true"`
	Port         string `envconfig:"SHAREKIT_APP_PORT" default:"9090"`
	LogLevel     string `envconfig:"SHAREKIT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SHAREKIT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"SHAREKIT_DB_DSN"`
	Driver string `envconfig:"SHAREKIT_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"SHAREKIT_DB_HOST"`
	Port     int    `envconfig:"SHAREKIT_DB_PORT" default:"5432"`
	User     string `envconfig:"SHAREKIT_DB_USER"`
	Password string `envconfig:"SHAREKIT_DB_PASSWORD"`
	Name     string `envconfig:"SHAREKIT_DB_NAME"`
	SSLMode  string `envconfig:"SHAREKIT_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SHAREKIT_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SHAREKIT_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SHAREKIT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SHAREKIT_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type GatewayConfig struct {
	Port        string        `envconfig:"SHAREKIT_GATEWAY_PORT" default:"8080"`
	ServerURL   string        `envconfig:"SHAREKIT_GATEWAY_SERVER_URL" default:"http://localhost:9090"`
	Timeout     time.Duration `envconfig:"SHAREKIT_GATEWAY_TIMEOUT" default:"30s"`
	RateWindow  time.Duration `envconfig:"SHAREKIT_GATEWAY_RATE_WINDOW" default:"1m"`
	RateLimit   int           `envconfig:"SHAREKIT_GATEWAY_RATE_LIMIT" default:"120"`
	CORSOrigins []string      `envconfig:"SHAREKIT_GATEWAY_CORS_ORIGINS" default:"http://localhost:3000"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"SHAREKIT_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"SHAREKIT_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	if strings.EqualFold(db.Driver, DriverSQLite) {
		db.DSN = "file:sharekit.db?_fk=1"
		return nil
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range requiredDBEnvVars {
		if values[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
