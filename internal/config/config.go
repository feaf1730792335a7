// Package config loads application configuration from a YAML file and/or
// environment variables using cleanenv.
//
// Precedence, highest first: environment variables, the YAML file, the
// env-default tags below. With no file at all the service still starts on
// defaults (in-memory storage on localhost:3000).
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"slices"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/aanand-mishra/zoo-api/internal/id"
)

// Storage backends.
const (
	BackendMemory   = "memory"
	BackendMongoDB  = "mongodb"
	BackendDynamoDB = "dynamodb"
	BackendSQLite   = "sqlite"
)

// Identifier schemes.
const (
	IDSchemeUUID     = id.SchemeUUID
	IDSchemeSequence = id.SchemeSequence
)

var envs = []string{"dev", "staging", "prod"}

// Config is the root of the configuration tree.
type Config struct {
	Env      string `yaml:"env" env:"ENV" env-default:"dev"`
	IDScheme string `yaml:"id_scheme" env:"ID_SCHEME" env-default:"uuid"`

	HTTPServer HTTPServer `yaml:"http_server"`
	CORS       CORS       `yaml:"cors"`
	Storage    Storage    `yaml:"storage"`
}

type HTTPServer struct {
	Addr            string        `yaml:"address" env:"HTTP_SERVER_ADDR" env-default:"localhost:3000"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"HTTP_SERVER_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"HTTP_SERVER_WRITE_TIMEOUT" env-default:"10s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env:"HTTP_SERVER_IDLE_TIMEOUT" env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"HTTP_SERVER_SHUTDOWN_TIMEOUT" env-default:"5s"`
}

type CORS struct {
	// Empty means every origin.
	AllowedOrigins []string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-separator:","`
}

type Storage struct {
	Backend  string   `yaml:"backend" env:"STORAGE_BACKEND" env-default:"memory"`
	SQLite   SQLite   `yaml:"sqlite"`
	MongoDB  MongoDB  `yaml:"mongodb"`
	DynamoDB DynamoDB `yaml:"dynamodb"`
}

type SQLite struct {
	Path string `yaml:"path" env:"SQLITE_PATH" env-default:"storage/zoo.db"`
}

type MongoDB struct {
	URI            string        `yaml:"uri" env:"MONGODB_URI" env-default:"mongodb://localhost:27017"`
	Database       string        `yaml:"database" env:"MONGODB_DATABASE" env-default:"zoo"`
	ConnectTimeout time.Duration `yaml:"connect_timeout" env:"MONGODB_CONNECT_TIMEOUT" env-default:"10s"`
}

type DynamoDB struct {
	Region       string `yaml:"region" env:"DYNAMODB_REGION" env-default:"us-east-1"`
	Endpoint     string `yaml:"endpoint" env:"DYNAMODB_ENDPOINT"`
	TablePrefix  string `yaml:"table_prefix" env:"DYNAMODB_TABLE_PREFIX" env-default:"zoo_"`
	CreateTables bool   `yaml:"create_tables" env:"DYNAMODB_CREATE_TABLES" env-default:"false"`
}

// Load reads the YAML file at path (when non-empty) plus the environment,
// then validates the result.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config.Load: config file %s: %w", path, err)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config.Load: read %s: %w", path, err)
		}
	} else {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("config.Load: read env: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	return &cfg, nil
}

// MustLoad is Load for program start-up: it resolves the path from the
// argument or CONFIG_PATH and exits the process on any error.
func MustLoad(path string) *Config {
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}

	cfg, err := Load(path)
	if err != nil {
		log.Fatalf("cannot load config: %s", err.Error())
	}
	return cfg
}

// Validate rejects values no component can act on.
func (c *Config) Validate() error {
	var errs []error

	if !slices.Contains(envs, c.Env) {
		errs = append(errs, fmt.Errorf("env %q: must be one of %v", c.Env, envs))
	}

	switch c.IDScheme {
	case IDSchemeUUID:
	case IDSchemeSequence:
		// Counters restart at 1 with the process; persisted ids would collide.
		if c.Storage.Backend != BackendMemory {
			errs = append(errs, fmt.Errorf("id_scheme %s requires the %s backend", IDSchemeSequence, BackendMemory))
		}
	default:
		errs = append(errs, fmt.Errorf("id_scheme %q: must be %s or %s", c.IDScheme, IDSchemeUUID, IDSchemeSequence))
	}

	if c.HTTPServer.Addr == "" {
		errs = append(errs, errors.New("http_server.address is required"))
	}

	switch c.Storage.Backend {
	case BackendMemory:
	case BackendSQLite:
		if c.Storage.SQLite.Path == "" {
			errs = append(errs, errors.New("storage.sqlite.path is required"))
		}
	case BackendMongoDB:
		if c.Storage.MongoDB.URI == "" || c.Storage.MongoDB.Database == "" {
			errs = append(errs, errors.New("storage.mongodb.uri and storage.mongodb.database are required"))
		}
	case BackendDynamoDB:
		if c.Storage.DynamoDB.Region == "" {
			errs = append(errs, errors.New("storage.dynamodb.region is required"))
		}
	default:
		errs = append(errs, fmt.Errorf("storage.backend %q: must be one of %s, %s, %s, %s",
			c.Storage.Backend, BackendMemory, BackendSQLite, BackendMongoDB, BackendDynamoDB))
	}

	return errors.Join(errs...)
}
