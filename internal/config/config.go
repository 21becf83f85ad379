// Package config loads and validates the application configuration file.
package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"gopkg.in/yaml.v3"
)

// Config is the application configuration.
type Config struct {
	Store  StoreConfig  `yaml:"store" json:"store" jsonschema:"title=Store,description=Dataset store backing the pipeline"`
	Server ServerConfig `yaml:"server" json:"server" jsonschema:"title=Server,description=HTTP server settings"`
	Log    LogConfig    `yaml:"log" json:"log" jsonschema:"title=Log,description=Logging settings"`
}

// StoreConfig selects and configures the dataset store.
type StoreConfig struct {
	Driver string `yaml:"driver" json:"driver" validate:"required,oneof=filesystem duckdb" jsonschema:"title=Driver,description=Store driver,enum=filesystem,enum=duckdb"`
	Path   string `yaml:"path" json:"path" validate:"required" jsonschema:"title=Path,description=Payload directory or database file"`
}

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	Addr         string        `yaml:"addr" json:"addr" validate:"required" jsonschema:"title=Address,description=Listen address"`
	ReadTimeout  time.Duration `yaml:"read_timeout" json:"read_timeout" jsonschema:"title=Read Timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" json:"write_timeout" jsonschema:"title=Write Timeout"`
}

// LogConfig holds the logging settings.
type LogConfig struct {
	Level string `yaml:"level" json:"level" validate:"omitempty,oneof=debug info warn error" jsonschema:"title=Level,enum=debug,enum=info,enum=warn,enum=error"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Store: StoreConfig{
			Driver: "filesystem",
			Path:   "data",
		},
		Server: ServerConfig{
			Addr:         ":8050",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads and validates a configuration file, filling unset fields from
// the defaults.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	body, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	if err := yaml.Unmarshal(body, &cfg); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks the configuration against its validation tags.
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}

// GenerateSchema generates a JSON schema for the configuration file.
func (c *Config) GenerateSchema() (*jsonschema.Schema, error) {
	reflector := jsonschema.Reflector{
		ExpandedStruct:            true,
		AllowAdditionalProperties: false,
	}

	schema := reflector.Reflect(c)
	schema.Title = "stratviz-config"
	schema.Description = "Configuration schema for stratviz"
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return schema, nil
}

// GenerateSchemaJSON generates the JSON schema as an indented string.
func (c *Config) GenerateSchemaJSON() (string, error) {
	schema, err := c.GenerateSchema()
	if err != nil {
		return "", err
	}

	schemaBytes, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", err
	}

	return string(schemaBytes), nil
}
