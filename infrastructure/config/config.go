package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

const (
	DefaultAccessTokenTTL  = 30 * time.Minute
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour
)

// TokenConfig is the process-wide signing configuration. It is built once at
// startup and passed to the token codec, issuer and verifier; nothing mutates it.
type TokenConfig struct {
	Secret          []byte
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

func (c TokenConfig) Validate() error {
	if len(c.Secret) == 0 {
		return ErrMissingJWTSecret
	}
	// Claims carry whole seconds; anything shorter would make exp == iat.
	if c.AccessTokenTTL < time.Second || c.RefreshTokenTTL < time.Second {
		return ErrInvalidTokenTTL
	}
	return nil
}

type Config struct {
	DatabaseURL string
	Token       TokenConfig
	BcryptCost  int
	ServerPort  string
	ServerHost  string
	Environment string
	AutoMigrate bool

	RedisURL               string
	RateLimitEnabled       bool
	RateLimitIPAttempts    int
	RateLimitIPWindow      time.Duration
	RateLimitBlockDuration time.Duration

	LogLevel  string
	LogFormat string

	MetricsEnabled bool

	CORSEnabled          bool
	CORSAllowedOrigins   []string
	CORSAllowCredentials bool

	// TrustedProxies are the peers allowed to set X-Forwarded-For.
	TrustedProxies []string
}

var (
	ErrMissingDatabaseURL = errors.New("DATABASE_URL is required")
	ErrMissingJWTSecret   = errors.New("JWT_SECRET is required")
	ErrInvalidTokenTTL    = errors.New("invalid token TTL format")
	ErrInvalidBcryptCost  = errors.New("BCRYPT_COST out of range")
)

func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = os.Getenv("SECRET_KEY")
	}

	cfg := &Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		Token: TokenConfig{
			Secret: []byte(secret),
		},
		BcryptCost:  getEnvOrDefaultInt("BCRYPT_COST", bcrypt.DefaultCost),
		ServerPort:  getEnvOrDefault("SERVER_PORT", "8000"),
		ServerHost:  getEnvOrDefault("SERVER_HOST", "0.0.0.0"),
		Environment: getEnvOrDefault("ENV", "development"),
		AutoMigrate: getEnvOrDefaultBool("AUTO_MIGRATE", false),

		RedisURL:            getEnvOrDefault("REDIS_URL", "redis://localhost:6379/0"),
		RateLimitEnabled:    getEnvOrDefaultBool("RATE_LIMIT_ENABLED", false),
		RateLimitIPAttempts: getEnvOrDefaultInt("RATE_LIMIT_IP_ATTEMPTS", 5),

		LogLevel:  getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "json"),

		MetricsEnabled: getEnvOrDefaultBool("METRICS_ENABLED", true),

		CORSEnabled:          getEnvOrDefaultBool("CORS_ENABLED", true),
		CORSAllowCredentials: getEnvOrDefaultBool("CORS_ALLOW_CREDENTIALS", true),
		CORSAllowedOrigins:   parseList(getEnvOrDefault("CORS_ALLOWED_ORIGINS", "")),

		TrustedProxies: parseList(getEnvOrDefault("TRUSTED_PROXIES", "")),
	}

	if cfg.DatabaseURL == "" {
		return nil, ErrMissingDatabaseURL
	}

	accessTokenTTL, err := parseTokenTTL(getEnvOrDefault("JWT_ACCESS_TOKEN_TTL", strconv.Itoa(int(DefaultAccessTokenTTL.Seconds()))))
	if err != nil {
		return nil, ErrInvalidTokenTTL
	}
	cfg.Token.AccessTokenTTL = accessTokenTTL

	refreshTokenTTL, err := parseTokenTTL(getEnvOrDefault("JWT_REFRESH_TOKEN_TTL", strconv.Itoa(int(DefaultRefreshTokenTTL.Seconds()))))
	if err != nil {
		return nil, ErrInvalidTokenTTL
	}
	cfg.Token.RefreshTokenTTL = refreshTokenTTL

	if err := cfg.Token.Validate(); err != nil {
		return nil, err
	}

	if cfg.BcryptCost < bcrypt.MinCost || cfg.BcryptCost > bcrypt.MaxCost {
		return nil, ErrInvalidBcryptCost
	}

	ipWindow, err := parseTokenTTL(getEnvOrDefault("RATE_LIMIT_IP_WINDOW", "900"))
	if err != nil {
		return nil, ErrInvalidTokenTTL
	}
	cfg.RateLimitIPWindow = ipWindow

	blockDuration, err := parseTokenTTL(getEnvOrDefault("RATE_LIMIT_BLOCK_DURATION", "1800"))
	if err != nil {
		return nil, ErrInvalidTokenTTL
	}
	cfg.RateLimitBlockDuration = blockDuration

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvOrDefaultBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return defaultValue
		}
		return parsed
	}
	return defaultValue
}

func getEnvOrDefaultInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return defaultValue
		}
		return parsed
	}
	return defaultValue
}

// parseTokenTTL reads whole seconds; "1800" and "30m" are both accepted.
func parseTokenTTL(value string) (time.Duration, error) {
	if seconds, err := strconv.Atoi(value); err == nil {
		if seconds <= 0 {
			return 0, ErrInvalidTokenTTL
		}
		return time.Duration(seconds) * time.Second, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, ErrInvalidTokenTTL
	}
	return d, nil
}

func parseList(value string) []string {
	if value == "" {
		return []string{}
	}
	parts := strings.Split(value, ",")
	res := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			res = append(res, trimmed)
		}
	}
	return res
}
