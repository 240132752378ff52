package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env"
	"github.com/joho/godotenv"
)

// Sequence backends accepted by SEQUENCE_BACKEND.
const (
	SequenceBackendMongo    = "mongo"
	SequenceBackendRedis    = "redis"
	SequenceBackendDynamoDB = "dynamodb"
	SequenceBackendSQLite   = "sqlite"
)

// Configuration holds the static settings needed to run the server.
type Configuration struct {
	Address          string `env:"ADDRESS" envDefault:":8080"`
	JwtSecret        string `env:"JWT_SECRET,required"`
	JwtExpireMinutes int    `env:"JWT_EXPIRE_MINUTES" envDefault:"30"`

	MongoDB_ConnectionURI string `env:"MONGODB_CONNECTION_URI,required"`
	MongoDB_DBName        string `env:"MONGODB_DBNAME" envDefault:"ExplorerHub"`

	CORS_Origins          string `env:"CORS_ORIGINS" envDefault:"*"` // comma separated, * = all
	CORS_AllowCredentials bool   `env:"CORS_ALLOW_CREDENTIALS" envDefault:"false"`
	RateLimit_Max         int    `env:"RATE_LIMIT_MAX" envDefault:"100"`
	RateLimit_Window      int    `env:"RATE_LIMIT_WINDOW" envDefault:"60"` // seconds
	RateLimit_Enabled     bool   `env:"RATE_LIMIT_ENABLED" envDefault:"true"`

	// Where the id counters live. The rest of the data is always in MongoDB.
	SequenceBackend string `env:"SEQUENCE_BACKEND" envDefault:"mongo"`
	// Pre-create the users/businesses/reviews/trips counters on boot.
	InitCounters bool `env:"INIT_COUNTERS" envDefault:"true"`

	Redis_Addr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	Redis_Password string `env:"REDIS_PASSWORD"`
	Redis_DB       int    `env:"REDIS_DB" envDefault:"0"`

	DynamoDB_CounterTable string `env:"DYNAMODB_COUNTER_TABLE" envDefault:"explorerhub_counters"`
	DynamoDB_Endpoint     string `env:"DYNAMODB_ENDPOINT"` // local/testing endpoint override
	AWS_Region            string `env:"AWS_REGION" envDefault:"us-east-1"`

	SQLite_CounterPath string `env:"SQLITE_COUNTER_PATH" envDefault:"./data/counters.db"`

	// Minutes between rating reconcile passes. 0 disables the worker.
	RatingReconcile_Interval  int `env:"RATING_RECONCILE_INTERVAL" envDefault:"60"`
	RatingReconcile_BatchSize int `env:"RATING_RECONCILE_BATCH_SIZE" envDefault:"200"`
}

// Validate checks the values env.Parse cannot check on its own.
func (c *Configuration) Validate() error {
	var errs []error
	if c.JwtExpireMinutes <= 0 {
		errs = append(errs, fmt.Errorf("JWT_EXPIRE_MINUTES must be positive, got %d", c.JwtExpireMinutes))
	}
	if c.RateLimit_Enabled && c.RateLimit_Window <= 0 {
		errs = append(errs, fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %d", c.RateLimit_Window))
	}

	if c.CORS_AllowCredentials {
		for _, origin := range c.CORSOriginList() {
			if origin == "*" {
				errs = append(errs, errors.New("CORS_ALLOW_CREDENTIALS=true needs explicit CORS_ORIGINS, not *"))
				break
			}
		}
	}

	if c.RatingReconcile_Interval < 0 {
		errs = append(errs, fmt.Errorf("RATING_RECONCILE_INTERVAL must not be negative, got %d", c.RatingReconcile_Interval))
	}

	switch strings.ToLower(c.SequenceBackend) {
	case SequenceBackendMongo:
	case SequenceBackendRedis:
		if c.Redis_Addr == "" {
			errs = append(errs, errors.New("REDIS_ADDR is required for the redis sequence backend"))
		}
	case SequenceBackendDynamoDB:
		if c.DynamoDB_CounterTable == "" {
			errs = append(errs, errors.New("DYNAMODB_COUNTER_TABLE is required for the dynamodb sequence backend"))
		}
		if c.AWS_Region == "" {
			errs = append(errs, errors.New("AWS_REGION is required for the dynamodb sequence backend"))
		}
	case SequenceBackendSQLite:
		if c.SQLite_CounterPath == "" {
			errs = append(errs, errors.New("SQLITE_COUNTER_PATH is required for the sqlite sequence backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown SEQUENCE_BACKEND %q", c.SequenceBackend))
	}
	return errors.Join(errs...)
}

// CORSOriginList splits CORS_ORIGINS. An empty list means every origin.
func (c *Configuration) CORSOriginList() []string {
	var origins []string
	for _, origin := range strings.Split(c.CORS_Origins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// getEnvPath returns config/env/<GO_ENV>.env, searching upward from the working directory.
func getEnvPath() string {
	goEnv := os.Getenv("GO_ENV")
	if goEnv == "" {
		goEnv = "development"
	}

	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		envDir := filepath.Join(currentDir, "config", "env")
		if _, err := os.Stat(envDir); err == nil {
			return filepath.Join(envDir, fmt.Sprintf("%s.env", goEnv))
		}
		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return ""
		}
		currentDir = parentDir
	}
}

// NewConfig loads the env files (the given ones, or config/env/<GO_ENV>.env) and parses
// the process environment. A missing env file is not an error; variables already set in
// the environment win over the file.
func NewConfig(files ...string) (*Configuration, error) {
	if len(files) == 0 {
		if envPath := getEnvPath(); envPath != "" {
			files = []string{envPath}
		}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return nil, fmt.Errorf("load env file %s: %w", f, err)
		}
	}

	cfg := Configuration{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.SequenceBackend = strings.ToLower(cfg.SequenceBackend)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
