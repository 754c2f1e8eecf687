package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWhenFileMissing(t *testing.T) {
	// when
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))

	// then
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
}

func TestLoad_FileAndEnvOverrides(t *testing.T) {
	// given
	path := filepath.Join(t.TempDir(), "application.yaml")
	yaml := `
db:
  host: db.internal
  port: 6543
finance:
  timezone: Europe/Bratislava
  defaultcommissionpercent: 12
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))
	t.Setenv("LEDGER_DB_USER", "reporter")
	t.Setenv("LEDGER_FINANCE_CACHEENABLED", "false")

	// when
	cfg, err := Load(path)

	// then
	require.NoError(t, err)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 6543, cfg.Database.Port)
	assert.Equal(t, "reporter", cfg.Database.User)
	assert.Equal(t, "ledger", cfg.Database.Name)
	assert.Equal(t, "Europe/Bratislava", cfg.Finance.Timezone)
	assert.Equal(t, 12, cfg.Finance.DefaultCommissionPercent)
	assert.False(t, cfg.Finance.CacheEnabled)
}
