/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package config loads process configuration from defaults, an optional YAML
// file and KILN_ environment variables, in that order, and validates it.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/tomoncle/kiln/database"
)

const (
	EnvPrefix = "KILN_"

	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"
)

type Config struct {
	Env               string        `yaml:"env" validate:"required,oneof=development production test"`
	Host              string        `yaml:"host" validate:"required"`
	Port              int           `yaml:"port" validate:"required,min=1,max=65535"`
	DatabaseURL       string        `yaml:"database_url"`
	ApplicationSecret string        `yaml:"application_secret" validate:"required"`
	ApplicationURL    string        `yaml:"application_url" validate:"required,url"`
	DocsPassword      string        `yaml:"docs_password"`
	LogLevel          string        `yaml:"log_level" validate:"oneof=trace debug info warn error"`
	LogFormat         string        `yaml:"log_format" validate:"oneof=text json"`
	DBQueryLog        bool          `yaml:"db_query_log"`
	DBSlowQuery       time.Duration `yaml:"db_slow_query"`
	DBMigrate         bool          `yaml:"db_migrate"`
	CORSOrigins       []string      `yaml:"cors_allowed_origins"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout" validate:"min=0"`

	// Pool is only read from the YAML file.
	Pool database.ConnectionConfig `yaml:"database"`
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"host":                 "0.0.0.0",
		"log_level":            "info",
		"log_format":           "text",
		"db_slow_query":        "2s",
		"cors_allowed_origins": []string{"*"},
		"shutdown_timeout":     "10s",
	}
}

// Load reads configuration from the environment. KILN_CONFIG_FILE names an
// optional YAML file applied beneath the environment.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("could not load config defaults: %w", err)
	}

	if path := os.Getenv(EnvPrefix + "CONFIG_FILE"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("could not load config file %s: %w", path, err)
		}
	}

	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("could not load env variables: %w", err)
	}

	cfg := &Config{}
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "yaml"}); err != nil {
		return nil, fmt.Errorf("could not unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var validate = validator.New()

// Validate checks struct rules and reports every failing field.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("config validation failed: %w", err)
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s (%s)", envName(fe.Field()), fe.Tag()))
	}
	return fmt.Errorf("config validation failed: %s", strings.Join(fields, ", "))
}

// Address is the HTTP listen address.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// Database returns the database settings derived from c.
func (c *Config) Database() database.Config {
	pool := c.Pool
	pool.EnableQueryLog = c.DBQueryLog
	pool.SlowQueryTime = c.DBSlowQuery
	return database.Config{
		URL:              c.DatabaseURL,
		ConnectionConfig: pool,
		MigrateOnStartup: c.DBMigrate,
	}
}

var envNames = map[string]string{
	"Env":               "ENV",
	"Host":              "HOST",
	"Port":              "PORT",
	"ApplicationSecret": "APPLICATION_SECRET",
	"ApplicationURL":    "APPLICATION_URL",
	"LogLevel":          "LOG_LEVEL",
	"LogFormat":         "LOG_FORMAT",
	"ShutdownTimeout":   "SHUTDOWN_TIMEOUT",
}

func envName(field string) string {
	if name, ok := envNames[field]; ok {
		return EnvPrefix + name
	}
	return field
}
