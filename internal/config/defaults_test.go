package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestApplyDefaults_EmptyConfig(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, DefaultSessionBackend, cfg.Session.Backend)
	assert.Equal(t, DefaultCookieName, cfg.Session.CookieName)
	assert.Equal(t, DefaultPubChemBaseURL, cfg.PubChem.BaseURL)
	assert.Equal(t, DefaultLookupTimeout, cfg.Toxicity.Timeout)
	assert.Empty(t, cfg.Toxicity.Endpoint)
	assert.Equal(t, 300, cfg.Render.ImageWidth)
	assert.Equal(t, 320, cfg.Render.ViewerWidth)
	assert.Equal(t, 0.25, cfg.Conformer.ErrorTolerance)
	assert.False(t, cfg.Kafka.Enabled)
	assert.False(t, cfg.Postgres.Enabled)
	assert.Equal(t, DefaultPostgresPort, cfg.Postgres.Port)
	assert.Equal(t, DefaultPostgresDatabase, cfg.Postgres.Database)
	assert.Equal(t, DefaultWorkerHealthPort, cfg.Worker.HealthPort)
	assert.Equal(t, DefaultWorkerRetryBackoff, cfg.Worker.RetryBackoff)
}

func TestApplyDefaults_PreserveExistingValues(t *testing.T) {
	cfg := &Config{}
	cfg.Server.Port = 9999
	cfg.Session.TTL = time.Minute
	ApplyDefaults(cfg)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, time.Minute, cfg.Session.TTL)
}

func TestApplyDefaults_Nil(t *testing.T) {
	assert.NotPanics(t, func() { ApplyDefaults(nil) })
}

//Personal.AI order the ending
