package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "MDW"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "MDW_DB_DSN"
	EnvDBHost = "MDW_DB_HOST"
	EnvDBUser = "MDW_DB_USER"
	EnvDBName = "MDW_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
	FeatureFlags FeatureFlagsConfig
	BackOrders   BackOrdersConfig
	RateLimit    RateLimitConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	Outbox       OutboxConfig
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
	Env          string `envconfig:"MDW_APP_ENV" required:"true"`
	Port         string `envconfig:"MDW_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"MDW_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"MDW_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"MDW_DB_DSN"`
	Driver string `envconfig:"MDW_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"MDW_DB_HOST"`
	LegacyPort     int    `envconfig:"MDW_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"MDW_DB_USER"`
	LegacyPassword string `envconfig:"MDW_DB_PASSWORD"`
	LegacyName     string `envconfig:"MDW_DB_NAME"`
	LegacySSLMode  string `envconfig:"MDW_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"MDW_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"MDW_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"MDW_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"MDW_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"MDW_REDIS_URL"`
	Address      string        `envconfig:"MDW_REDIS_ADDR"`
	Password     string        `envconfig:"MDW_REDIS_PASSWORD"`
	DB           int           `envconfig:"MDW_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"MDW_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MDW_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"MDW_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"MDW_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"MDW_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"MDW_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"MDW_JWT_ISSUER" default:"milkdist-warehouse"`
	ExpirationMinutes int    `envconfig:"MDW_JWT_EXPIRATION_MINUTES" default:"60"`
}

// AccessTokenTTL returns the access token lifetime configured in minutes.
func (j JWTConfig) AccessTokenTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"MDW_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"MDW_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"MDW_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"MDW_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"MDW_ARGON_KEY_LEN" default:"32"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"MDW_AUTO_MIGRATE" default:"false"`
}

// BackOrdersConfig tunes the back-order listing path.
type BackOrdersConfig struct {
	// StatusScanCap bounds the unbounded fetch used when filtering on the
	// computed availability status. Requests whose candidate set exceeds the
	// cap are rejected instead of loading the whole table into memory.
	StatusScanCap int `envconfig:"MDW_BACKORDERS_STATUS_SCAN_CAP" default:"5000"`
}

type RateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"MDW_RATE_LIMIT_LOGIN_WINDOW" default:"5m"`
	LoginIPLimit    int           `envconfig:"MDW_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	LoginEmailLimit int           `envconfig:"MDW_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"8"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"MDW_GCP_PROJECT_ID"`
	ApplicationCredentials string `envconfig:"MDW_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	BackOrderTopic string `envconfig:"MDW_PUBSUB_BACKORDER_TOPIC" default:"mdw-backorder-events"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"MDW_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"MDW_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"MDW_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
