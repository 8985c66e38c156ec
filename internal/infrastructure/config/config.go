package config

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string        `env:"PORT,      default=8080"`
	Env       string        `env:"ENV,       default=development"`
	JWTSecret string        `env:"JWT_SECRET"`
	LogLevel  string        `env:"LOG_LEVEL, default=info"`
	TokenTTL  time.Duration `env:"TOKEN_TTL, default=24h"`

	Mongo     MongoConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Generator GeneratorConfig
	Websites  WebsiteConfig
}

type MongoConfig struct {
	URI         string `env:"MONGO_URI,           default=mongodb://localhost:27017"`
	Database    string `env:"MONGO_DB,            default=website_builder"`
	MaxPoolSize uint64 `env:"MONGO_MAX_POOL_SIZE, default=50"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

type RateLimitConfig struct {
	Requests int           `env:"RATE_LIMIT_REQUESTS, default=50"`
	Window   time.Duration `env:"RATE_LIMIT_WINDOW,   default=1h"`
	// TrustedProxies lists the CIDRs whose X-Forwarded-For is honoured when
	// keying anonymous callers. Empty means the socket peer is the client.
	TrustedProxies []string `env:"TRUSTED_PROXIES"`
}

// ProxyRanges parses TrustedProxies.
func (c RateLimitConfig) ProxyRanges() ([]*net.IPNet, error) {
	ranges := make([]*net.IPNet, 0, len(c.TrustedProxies))
	for _, cidr := range c.TrustedProxies {
		_, ipNet, err := net.ParseCIDR(strings.TrimSpace(cidr))
		if err != nil {
			return nil, fmt.Errorf("TRUSTED_PROXIES: %w", err)
		}
		ranges = append(ranges, ipNet)
	}
	return ranges, nil
}

// GeneratorConfig selects the upstream text model. Provider is "gemini" or "openai".
type GeneratorConfig struct {
	Provider      string   `env:"GENERATOR_PROVIDER, default=gemini"`
	GeminiAPIKey  string   `env:"GEMINI_API_KEY"`
	GeminiModels  []string `env:"GEMINI_MODELS,      default=gemini-2.5-flash,gemini-pro"`
	OpenAIAPIKey  string   `env:"OPENAI_API_KEY"`
	OpenAIBaseURL string   `env:"OPENAI_BASE_URL"`
	OpenAIModel   string   `env:"OPENAI_MODEL,       default=gpt-4o-mini"`
}

type WebsiteConfig struct {
	UpdateFields  []string      `env:"WEBSITE_UPDATE_FIELDS, default=title,hero,about,services,contact,theme"`
	PreviewPublic bool          `env:"PREVIEW_PUBLIC,        default=false"`
	RoleCacheTTL  time.Duration `env:"ROLE_CACHE_TTL,        default=30s"`
}

var ErrMissingSecret = errors.New("JWT_SECRET is required")

// Load reads configuration from environment variables using go-envconfig.
func Load(logger zerolog.Logger) *Config {
	cfg, err := Parse(context.Background(), envconfig.OsLookuper())
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load configuration")
	}
	return cfg
}

// Parse builds a Config from the given lookuper and validates it.
func Parse(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.JWTSecret) == "" {
		return nil, ErrMissingSecret
	}
	if _, err := cfg.RateLimit.ProxyRanges(); err != nil {
		return nil, err
	}
	cfg.Generator.Provider = strings.ToLower(strings.TrimSpace(cfg.Generator.Provider))
	return &cfg, nil
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}
