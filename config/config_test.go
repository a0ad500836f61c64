package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	c, err := Load("", nil)
	require.NoError(t, err)
	require.Equal(t, uint64(100), c.AliceFunds)
	require.Equal(t, uint64(300), c.BobFunds)
	require.Equal(t, uint64(10), c.BigBlind)
	require.Equal(t, "kyber", c.Dealer)
	require.True(t, c.Compress)
	require.False(t, c.Auto)
	require.Equal(t, "info", c.LogLevel)
}

func TestLoadLayers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "match.yaml")
	require.NoError(t, os.WriteFile(path, []byte("big_blind: 20\ndealer: trusted\nseed: 9\nalice_funds: 500\n"), 0o600))
	t.Setenv("POKER_ALICE_FUNDS", "700")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	Flags(fs)
	require.NoError(t, fs.Parse([]string{"--bob-funds", "50", "--auto"}))

	c, err := Load(path, fs)
	require.NoError(t, err)
	require.Equal(t, uint64(20), c.BigBlind)
	require.Equal(t, "trusted", c.Dealer)
	require.Equal(t, uint64(9), c.Seed)
	require.Equal(t, uint64(700), c.AliceFunds, "environment overrides the file")
	require.Equal(t, uint64(50), c.BobFunds, "flags override defaults")
	require.True(t, c.Auto)
}

func TestUnsetFlagsDoNotOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "match.yaml")
	require.NoError(t, os.WriteFile(path, []byte("big_blind: 40\n"), 0o600))
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	Flags(fs)
	require.NoError(t, fs.Parse(nil))

	c, err := Load(path, fs)
	require.NoError(t, err)
	require.Equal(t, uint64(40), c.BigBlind)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	require.Error(t, err)

	t.Setenv("POKER_DEALER", "croupier")
	_, err = Load("", nil)
	require.ErrorContains(t, err, "unknown dealer")
}

func TestValidate(t *testing.T) {
	c := Config{BigBlind: 0, Dealer: "kyber"}
	require.Error(t, c.Validate())
	c.BigBlind = 2
	require.NoError(t, c.Validate())
}
