package config

import (
	"os"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

type Config struct {
	ServiceName string `env:"SERVICE_NAME,default=portal-service"`
	ServerPort  string `env:"SERVER_PORT,default=8080"`
	CORSOrigin  string `env:"CORS_ORIGIN,default=http://localhost:5173"`

	// StoreDriver selects the persistence backend: "mongo" or "memory".
	StoreDriver    string        `env:"STORE_DRIVER,default=mongo"`
	MongoURI       string        `env:"MONGO_URI,default=mongodb://localhost:27017"`
	MongoDBName    string        `env:"MONGO_DB_NAME,default=social_service"`
	MongoTimeout   time.Duration `env:"MONGO_TIMEOUT,default=10s"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT,default=15s"`

	InstitutionalDomain string `env:"INSTITUTIONAL_DOMAIN,default=@uca.edu.sv"`

	GoogleClientID string        `env:"GOOGLE_CLIENT_ID"`
	TokenInfoURL   string        `env:"TOKENINFO_URL,default=https://oauth2.googleapis.com/tokeninfo"`
	TokenTimeout   time.Duration `env:"TOKENINFO_TIMEOUT,default=5s"`
	// JWTSecret enables HS256 tokens signed by the portal itself (local
	// development and integration environments).
	JWTSecret string `env:"JWT_SECRET"`

	LogFile  string `env:"LOG_FILE,default=logs/portal.log"`
	LogLevel string `env:"LOG_LEVEL,default=info"`
	LogToStd bool   `env:"LOG_STDOUT,default=true"`

	LoginRateLimit float64 `env:"LOGIN_RATE_LIMIT,default=5"`
	LoginRateBurst int     `env:"LOGIN_RATE_BURST,default=10"`
}

// Load reads the optional .env file at path and decodes the environment
// into a Config. A missing .env file is not an error.
func Load(path string) (*Config, error) {
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err != nil {
				return nil, errors.Wrapf(err, "config: load %s", path)
			}
		} else if !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "config: stat %s", path)
		}
	}

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && err != envdecode.ErrNoTargetFieldsAreSet {
		return nil, errors.Wrap(err, "config: decode environment")
	}
	cfg.InstitutionalDomain = strings.ToLower(strings.TrimSpace(cfg.InstitutionalDomain))
	if cfg.InstitutionalDomain != "" && !strings.HasPrefix(cfg.InstitutionalDomain, "@") {
		cfg.InstitutionalDomain = "@" + cfg.InstitutionalDomain
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreDriver {
	case "mongo", "memory":
	default:
		return errors.Errorf("config: unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.StoreDriver == "mongo" && c.MongoURI == "" {
		return errors.New("config: MONGO_URI is required for the mongo store")
	}
	if c.GoogleClientID == "" && c.JWTSecret == "" {
		return errors.New("config: one of GOOGLE_CLIENT_ID or JWT_SECRET must be set")
	}
	return nil
}
