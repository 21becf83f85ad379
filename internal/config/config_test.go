package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type ConfigTestSuite struct {
	suite.Suite
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func (suite *ConfigTestSuite) writeConfig(content string) string {
	path := filepath.Join(suite.T().TempDir(), "config.yaml")
	suite.Require().NoError(os.WriteFile(path, []byte(content), 0o644))

	return path
}

func (suite *ConfigTestSuite) TestDefaultConfig() {
	cfg := DefaultConfig()

	suite.Equal("filesystem", cfg.Store.Driver)
	suite.Equal(":8050", cfg.Server.Addr)
	suite.Equal("info", cfg.Log.Level)
	suite.Equal(15*time.Second, cfg.Server.ReadTimeout)
	suite.NoError(cfg.Validate())
}

func (suite *ConfigTestSuite) TestLoadOverridesDefaults() {
	path := suite.writeConfig(`
store:
  driver: duckdb
  path: payloads.db
log:
  level: debug
`)

	cfg, err := Load(path)
	suite.NoError(err)
	suite.Equal("duckdb", cfg.Store.Driver)
	suite.Equal("payloads.db", cfg.Store.Path)
	suite.Equal("debug", cfg.Log.Level)

	// untouched fields keep their defaults
	suite.Equal(":8050", cfg.Server.Addr)
}

func (suite *ConfigTestSuite) TestLoadRejectsInvalidDriver() {
	path := suite.writeConfig(`
store:
  driver: s3
  path: bucket
`)

	_, err := Load(path)
	suite.Error(err)
}

func (suite *ConfigTestSuite) TestLoadMissingFile() {
	_, err := Load(filepath.Join(suite.T().TempDir(), "missing.yaml"))
	suite.Error(err)
}

func (suite *ConfigTestSuite) TestGenerateSchema() {
	cfg := DefaultConfig()

	schema, err := cfg.GenerateSchema()
	suite.NoError(err)
	suite.Equal("stratviz-config", schema.Title)
	suite.Equal("http://json-schema.org/draft-07/schema#", schema.Version)
}

func (suite *ConfigTestSuite) TestGenerateSchemaJSON() {
	cfg := DefaultConfig()

	schemaJSON, err := cfg.GenerateSchemaJSON()
	suite.NoError(err)
	suite.NotEmpty(schemaJSON)

	var parsed map[string]any
	suite.NoError(json.Unmarshal([]byte(schemaJSON), &parsed))
	suite.Equal("stratviz-config", parsed["title"])
}
