package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, 3, cfg.Ledger.TxMaxRetries)
	assert.Equal(t, 10*time.Second, cfg.Ledger.StatementTimeout)
	assert.Equal(t, time.UTC, cfg.Ledger.Location())
	assert.Zero(t, cfg.Sweeper.Interval)
	assert.Equal(t, 25, cfg.DB.MaxConns)
}

func TestFromViper_Ledger(t *testing.T) {
	v := viper.New()
	v.Set("LEDGER_TX_MAX_RETRIES", "5")
	v.Set("LEDGER_STATEMENT_TIMEOUT", "2s")
	v.Set("LEDGER_TIMEZONE", "America/Bogota")
	v.Set("SWEEP_INTERVAL", "3600")

	cfg, err := fromViper(v)
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Ledger.TxMaxRetries)
	assert.Equal(t, 2*time.Second, cfg.Ledger.StatementTimeout)
	assert.Equal(t, "America/Bogota", cfg.Ledger.Location().String())
	assert.Equal(t, time.Hour, cfg.Sweeper.Interval)
}

func TestFromViper_ZonaInvalida(t *testing.T) {
	v := viper.New()
	v.Set("LEDGER_TIMEZONE", "Marte/Olympus")

	_, err := fromViper(v)
	assert.Error(t, err)
}

func TestFromViper_ReintentosNegativos(t *testing.T) {
	v := viper.New()
	v.Set("LEDGER_TX_MAX_RETRIES", -1)

	_, err := fromViper(v)
	assert.Error(t, err)
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "ledger", Password: "p@ss:word", DBName: "inv", SSLMode: "disable"}
	assert.Equal(t, "postgres://ledger:p%40ss%3Aword@db:5432/inv?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://x@y/z"
	assert.Equal(t, "postgres://x@y/z", c.ConnectionString())
}
