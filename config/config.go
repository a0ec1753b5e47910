/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/suparena/memorystore/datastore"
	"github.com/suparena/memorystore/datastore/ddb"
	"github.com/suparena/memorystore/datastore/memory"
	"github.com/suparena/memorystore/errors"
)

// EnvPrefix prefixes every environment variable read by Load, e.g. MEMSTORE_LOG_LEVEL.
const EnvPrefix = "memstore"

const (
	BackendMemory   = "memory"
	BackendDynamoDB = "dynamodb"
)

// Config holds the settings needed to build a storage adapter.
type Config struct {
	LogLevel   string
	IDStrategy memory.IDStrategy
	Backend    string
	SchemaFile string
	SeedFile   string

	AWSRegion    string
	AWSAccessKey string
	AWSSecretKey string
	DDBTable     string
}

// LoadEnvFiles loads .env and .env.local if present. Variables already set
// in the environment win.
func LoadEnvFiles() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")
}

// RegisterFlags adds the configuration flags to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("log-level", "info", "log level (debug, info, warn, error)")
	fs.String("id-strategy", string(memory.IDSequence), "id generation for the memory backend (sequence, uuid)")
	fs.String("backend", BackendMemory, "storage backend (memory, dynamodb)")
	fs.String("schema-file", "", "YAML file with model definitions")
	fs.String("seed-file", "", "YAML file with records to load at startup")
	fs.String("aws-region", "", "AWS region for the dynamodb backend")
	fs.String("aws-access-key", "", "AWS access key for the dynamodb backend")
	fs.String("aws-secret-key", "", "AWS secret key for the dynamodb backend")
	fs.String("ddb-table", "", "DynamoDB table for the dynamodb backend")
}

// Load reads the configuration from fs (may be nil) and MEMSTORE_* environment variables.
func Load(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("log-level", "info")
	v.SetDefault("id-strategy", string(memory.IDSequence))
	v.SetDefault("backend", BackendMemory)

	if fs != nil {
		if err := v.BindPFlags(fs); err != nil {
			return nil, fmt.Errorf("failed to bind flags: %w", err)
		}
	}

	cfg := &Config{
		LogLevel:     v.GetString("log-level"),
		IDStrategy:   memory.IDStrategy(v.GetString("id-strategy")),
		Backend:      v.GetString("backend"),
		SchemaFile:   v.GetString("schema-file"),
		SeedFile:     v.GetString("seed-file"),
		AWSRegion:    v.GetString("aws-region"),
		AWSAccessKey: v.GetString("aws-access-key"),
		AWSSecretKey: v.GetString("aws-secret-key"),
		DDBTable:     v.GetString("ddb-table"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the enumerated settings.
func (c *Config) Validate() error {
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return errors.NewValidationError("log-level", err.Error())
	}
	switch c.IDStrategy {
	case memory.IDSequence, memory.IDUUID:
	default:
		return errors.NewValidationError("id-strategy", fmt.Sprintf("unknown strategy %q", c.IDStrategy))
	}
	switch c.Backend {
	case BackendMemory:
	case BackendDynamoDB:
		if c.DDBTable == "" || c.AWSRegion == "" {
			return errors.NewValidationError("ddb-table", "the dynamodb backend needs ddb-table and aws-region")
		}
	default:
		return errors.NewValidationError("backend", fmt.Sprintf("unknown backend %q", c.Backend))
	}
	return nil
}

// NewLogger builds a production zap logger at the given level.
func NewLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, errors.NewValidationError("log-level", err.Error())
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}

// NewAdapter builds the configured storage adapter.
func (c *Config) NewAdapter(ctx context.Context, logger *zap.Logger) (datastore.Adapter, error) {
	switch c.Backend {
	case BackendDynamoDB:
		client, err := ddb.NewDynamoDBClient(ctx, c.AWSAccessKey, c.AWSSecretKey, c.AWSRegion)
		if err != nil {
			return nil, err
		}
		return ddb.New(client, c.DDBTable, ddb.WithLogger(logger)), nil
	default:
		return memory.New(memory.WithLogger(logger), memory.WithIDStrategy(c.IDStrategy)), nil
	}
}
