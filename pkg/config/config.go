package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	AuthRateLimit AuthRateLimitConfig
	Firebase      FirebaseConfig
	Stripe        StripeConfig
	Cloudinary    CloudinaryConfig
	CORS          CORSConfig
	FeatureFlags  FeatureFlagsConfig
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
	Env          string `envconfig:"SOKONI_APP_ENV" required:"true"`
	Port         string `envconfig:"SOKONI_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"SOKONI_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SOKONI_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"SOKONI_DB_DSN"`

	Host     string `envconfig:"SOKONI_DB_HOST"`
	Port     int    `envconfig:"SOKONI_DB_PORT" default:"5432"`
	User     string `envconfig:"SOKONI_DB_USER"`
	Password string `envconfig:"SOKONI_DB_PASSWORD"`
	Name     string `envconfig:"SOKONI_DB_NAME"`
	SSLMode  string `envconfig:"SOKONI_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SOKONI_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SOKONI_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SOKONI_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SOKONI_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SOKONI_REDIS_URL" required:"true"`
	Password     string        `envconfig:"SOKONI_REDIS_PASSWORD"`
	DB           int           `envconfig:"SOKONI_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SOKONI_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SOKONI_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SOKONI_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SOKONI_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SOKONI_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"SOKONI_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"SOKONI_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"SOKONI_JWT_EXPIRATION_MINUTES" default:"30"`
	RefreshTokenTTLMinutes int    `envconfig:"SOKONI_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type AuthRateLimitConfig struct {
	Window     time.Duration `envconfig:"SOKONI_AUTH_RATE_LIMIT_WINDOW" default:"1m"`
	IPLimit    int           `envconfig:"SOKONI_AUTH_RATE_LIMIT_IP_LIMIT" default:"20"`
	TokenLimit int           `envconfig:"SOKONI_AUTH_RATE_LIMIT_TOKEN_LIMIT" default:"5"`
}

type FirebaseConfig struct {
	ProjectID       string `envconfig:"SOKONI_FIREBASE_PROJECT_ID" required:"true"`
	CredentialsJSON string `envconfig:"SOKONI_FIREBASE_CREDENTIALS_JSON"`
	CredentialsFile string `envconfig:"SOKONI_FIREBASE_CREDENTIALS_FILE"`
}

type StripeConfig struct {
	APIKey   string `envconfig:"SOKONI_STRIPE_API_KEY"`
	Env      string `envconfig:"SOKONI_STRIPE_ENV" default:"test"`
	Currency string `envconfig:"SOKONI_STRIPE_CURRENCY" default:"usd"`
}

// Environment returns the normalized Stripe environment (test/live).
func (s StripeConfig) Environment() string {
	env := strings.TrimSpace(strings.ToLower(s.Env))
	if env == "" {
		return "test"
	}
	return env
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"SOKONI_AUTO_MIGRATE" default:"false"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"SOKONI_CORS_ORIGINS" default:"http://localhost:3000"`
}

type CloudinaryConfig struct {
	CloudName string `envconfig:"SOKONI_CLOUDINARY_CLOUD_NAME"`
	APIKey    string `envconfig:"SOKONI_CLOUDINARY_API_KEY"`
	APISecret string `envconfig:"SOKONI_CLOUDINARY_API_SECRET"`
	Folder    string `envconfig:"SOKONI_CLOUDINARY_FOLDER" default:"sokoni"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	parts := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range requiredDBEnvVars {
		if parts[env] == "" {
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
