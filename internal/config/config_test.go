package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("MONEYDASH_CONFIG", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, filepath.Join(home, ".local", "share", "moneydash", "moneydash.db"), cfg.Database.Path)
	require.Equal(t, "$", cfg.UI.CurrencySymbol)
	require.Equal(t, time.Second, cfg.UI.AnimationDuration())
	require.Equal(t, []string{"Super Special Bank", "Cash Cow"}, cfg.Defaults.Methods)
}

func TestSaveThenLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.toml")
	t.Setenv("HOME", dir)
	t.Setenv("MONEYDASH_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)
	cfg.UI.CurrencySymbol = "€"
	cfg.UI.AnimationMS = 250
	cfg.Defaults.Methods = []string{"Wallet"}
	require.NoError(t, Save(cfg))

	_, err = os.Stat(path)
	require.NoError(t, err)

	got, err := Load()
	require.NoError(t, err)
	require.Equal(t, "€", got.UI.CurrencySymbol)
	require.Equal(t, 250*time.Millisecond, got.UI.AnimationDuration())
	require.Equal(t, []string{"Wallet"}, got.Defaults.Methods)
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("MONEYDASH_CONFIG", "")
	t.Setenv("MONEYDASH_UI_CURRENCY_SYMBOL", "£")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "£", cfg.UI.CurrencySymbol)
}

func TestLocationFallback(t *testing.T) {
	require.Equal(t, time.Local, UIConfig{Timezone: "Not/AZone"}.Location())
	require.Equal(t, "UTC", UIConfig{Timezone: "UTC"}.Location().String())
}
