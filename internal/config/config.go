package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Store drivers accepted in DB_DRIVER. The memory driver keeps everything in
// process and is meant for local runs and tests.
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config is the API server configuration.
type Config struct {
	AppName string `envconfig:"APP_NAME" default:"propnest"`
	Port    string `envconfig:"PORT" default:"5000"`

	DBDriver      string `envconfig:"DB_DRIVER" default:"mongo"`
	MongoURI      string `envconfig:"MONGO_URI" default:"mongodb://localhost:27017"`
	MongoDatabase string `envconfig:"MONGO_DATABASE" default:"propnest"`
	DatabaseURL   string `envconfig:"DATABASE_URL"`

	JWTSecret      string `envconfig:"JWT_SECRET" required:"true"`
	JWTExpireHours int    `envconfig:"JWT_EXPIRE_HOURS" default:"72"`
	AuthRateLimit  int    `envconfig:"AUTH_RATE_LIMIT" default:"20"`

	UploadDir   string   `envconfig:"UPLOAD_DIR" default:"uploads"`
	MaxUploadMB int64    `envconfig:"MAX_UPLOAD_MB" default:"10"`
	CORSOrigins []string `envconfig:"CORS_ORIGINS" default:"*"`

	// decoded on its own so its keys stay unprefixed
	Log LogConfig `ignored:"true"`
}

// LogConfig controls the stdout handler and the optional Fluent Bit sink.
type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	JSON           bool   `envconfig:"LOG_JSON" default:"false"`
	FluentEnabled  bool   `envconfig:"FLUENTBIT_ENABLED" default:"false"`
	FluentHost     string `envconfig:"FLUENTBIT_HOST" default:"localhost"`
	FluentPort     int    `envconfig:"FLUENTBIT_PORT" default:"24224"`
	FluentMinLevel string `envconfig:"FLUENTBIT_LOG_LEVEL" default:"info"`
}

// ClientConfig is what the command-line client needs to reach the API.
type ClientConfig struct {
	// BackendURL is the API origin. Server-relative upload paths are resolved against it.
	BackendURL       string `envconfig:"BACKEND_URL" default:"http://localhost:5000"`
	SessionFile      string `envconfig:"SESSION_FILE" default:".propnest-session.json"`
	PlaceholderImage string `envconfig:"PLACEHOLDER_IMAGE" default:"/placeholder.png"`
}

// Load reads .env (if any) and decodes the server configuration.
func Load(envPath ...string) (*Config, error) {
	loadDotEnv(envPath...)

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := envconfig.Process("", &cfg.Log); err != nil {
		return nil, fmt.Errorf("load log config: %w", err)
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET must not be empty")
	}
	switch cfg.DBDriver {
	case DriverMongo, DriverMemory:
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required when DB_DRIVER=%s", DriverPostgres)
		}
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER %q", cfg.DBDriver)
	}
	if cfg.JWTExpireHours <= 0 {
		cfg.JWTExpireHours = 72
	}
	return &cfg, nil
}

// LoadClient reads .env (if any) and decodes the client configuration.
func LoadClient(envPath ...string) (*ClientConfig, error) {
	loadDotEnv(envPath...)

	var cfg ClientConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load client config: %w", err)
	}
	return &cfg, nil
}

func loadDotEnv(envPath ...string) {
	var err error
	if len(envPath) > 0 {
		err = godotenv.Load(envPath...)
	} else {
		err = godotenv.Load()
	}
	if err != nil && !os.IsNotExist(err) {
		log.Printf("could not load .env: %v", err)
	}
}
