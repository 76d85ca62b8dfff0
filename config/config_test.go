package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}

	applyDefaults(cfg)

	assert.Equal(t, defaultProfile, cfg.Env.Profile)
	assert.Equal(t, defaultMaxRequestBodySize, cfg.HTTP.MaxRequestBodySize)
	require.NotNil(t, cfg.Migration)
	assert.Equal(t, defaultMigrationBatchSize, cfg.Migration.BatchSize)
	assert.Equal(t, defaultMigrationWorkers, cfg.Migration.Workers)
	assert.Equal(t, defaultMigrationSampleSize, cfg.Migration.SampleSize)
	assert.Equal(t, defaultMigrationPageTimeout, cfg.Migration.PageTimeout)
	require.NotNil(t, cfg.Relational)
	assert.Equal(t, defaultSlowQueryThreshold, cfg.Relational.SlowQueryThreshold)
	assert.False(t, cfg.Relational.AutoMigrate)
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := &Config{Migration: &MigrationConfig{BatchSize: 10, Workers: 2, SampleSize: -1, PageTimeout: time.Second}}
	cfg.Env.Profile = "aws"

	applyDefaults(cfg)

	assert.Equal(t, "aws", cfg.Env.Profile)
	assert.Equal(t, 10, cfg.Migration.BatchSize)
	assert.Equal(t, 2, cfg.Migration.Workers)
	assert.Equal(t, 0, cfg.Migration.SampleSize)
	assert.Equal(t, time.Second, cfg.Migration.PageTimeout)
}

func TestLoadWithEnv_EnvOverridesYAML(t *testing.T) {
	dir := t.TempDir()
	content := []byte(`env:
  env: test
  profile: local
migration:
  batchSize: 50
  pageTimeout: 5s
docstore:
  urlTemplate: "mem://{collection}/{key}"
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.yaml"), content, 0o600))

	t.Setenv("ENV_PROFILE", "hybrid")
	t.Setenv("MIGRATION_BATCHSIZE", "25")

	wd, err := os.Getwd()
	require.NoError(t, err)
	rel, err := filepath.Rel(wd, dir)
	require.NoError(t, err)

	cfg, err := LoadWithEnv[Config]("app", rel)
	require.NoError(t, err)

	assert.Equal(t, "hybrid", cfg.Env.Profile)
	require.NotNil(t, cfg.Migration)
	assert.Equal(t, 25, cfg.Migration.BatchSize)
	assert.Equal(t, 5*time.Second, cfg.Migration.PageTimeout)
	require.NotNil(t, cfg.Docstore)
	assert.Equal(t, "mem://{collection}/{key}", cfg.Docstore.URLTemplate)
}

func TestLoadWithEnv_MissingFile(t *testing.T) {
	_, err := LoadWithEnv[Config]("does-not-exist")
	require.Error(t, err)
}
