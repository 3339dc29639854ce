package config

import (
	"os"
	"strconv"
)

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

// RedisConfig holds cache settings. An empty Addr disables redis entirely;
// the service degrades to uncached reads.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type JWTConfig struct {
	Secret string `yaml:"secret"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
}

// EnhanceConfig configures the external enhancement service client.
type EnhanceConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
	// TimeoutSeconds bounds every call; on expiry the caller takes the
	// same fallback path as a malformed response.
	TimeoutSeconds int `yaml:"timeout_seconds"`
	// MaxBreakdownDepth is the product-policy ceiling below which further
	// breakdown is offered (default 3).
	MaxBreakdownDepth int `yaml:"max_breakdown_depth"`
	// EstimateConcurrency caps in-flight calls during bulk estimation.
	EstimateConcurrency int `yaml:"estimate_concurrency"`
}

// DemoConfig selects the fixture read strategy for the demo account.
type DemoConfig struct {
	UserEmail string `yaml:"user_email"`
}

func OverrideDBFromEnv(cfg *DBConfig) {
	if host := os.Getenv("DB_HOST"); host != "" {
		cfg.Host = host
	}
	if port := os.Getenv("DB_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Port = p
		}
	}
	if user := os.Getenv("DB_USER"); user != "" {
		cfg.User = user
	}
	if password := os.Getenv("DB_PASSWORD"); password != "" {
		cfg.Password = password
	}
	if name := os.Getenv("DB_NAME"); name != "" {
		cfg.Name = name
	}
}

func OverrideRedisFromEnv(cfg *RedisConfig) {
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.Addr = addr
	}
	if password := os.Getenv("REDIS_PASSWORD"); password != "" {
		cfg.Password = password
	}
}

func OverrideJWTFromEnv(cfg *JWTConfig) {
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		cfg.Secret = secret
	}
}

func OverrideServerFromEnv(cfg *ServerConfig) {
	if port := os.Getenv("SERVER_PORT"); port != "" {
		cfg.Port = port
	}
}

func OverrideEnhanceFromEnv(cfg *EnhanceConfig) {
	if url := os.Getenv("ENHANCE_BASE_URL"); url != "" {
		cfg.BaseURL = url
	}
	if key := os.Getenv("ENHANCE_API_KEY"); key != "" {
		cfg.APIKey = key
	}
	if depth := os.Getenv("ENHANCE_MAX_BREAKDOWN_DEPTH"); depth != "" {
		if d, err := strconv.Atoi(depth); err == nil {
			cfg.MaxBreakdownDepth = d
		}
	}
}

func OverrideDemoFromEnv(cfg *DemoConfig) {
	if email := os.Getenv("DEMO_USER_EMAIL"); email != "" {
		cfg.UserEmail = email
	}
}
