package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holger24/AFD-sub001/internal/errors"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, CurrentConfigVersion, cfg.Version)
	assert.Equal(t, 40, cfg.Rows)
	assert.Equal(t, "bars", cfg.Style)
	assert.Equal(t, 4, cfg.HistoryLength)
	assert.False(t, cfg.AutoSave)
	assert.Equal(t, 250*time.Millisecond, cfg.Pacing.Min)
	assert.Equal(t, 250*time.Millisecond, cfg.Pacing.Step)
	assert.Equal(t, 3500*time.Millisecond, cfg.Pacing.Max)
	assert.Equal(t, "auto", cfg.Output.Color)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, ConfigFileName)

	content := `
version: 1
work_dir: /var/spool/afd_mon
rows: 25
style: both
history_length: 8
auto_save: true
pacing:
  min: 500ms
  step: 1s
  max: 10s
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o644))

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, "/var/spool/afd_mon", cfg.WorkDir)
	assert.Equal(t, 25, cfg.Rows)
	assert.Equal(t, "both", cfg.Style)
	assert.Equal(t, 8, cfg.HistoryLength)
	assert.True(t, cfg.AutoSave)
	assert.Equal(t, 500*time.Millisecond, cfg.Pacing.Min)
	assert.Equal(t, time.Second, cfg.Pacing.Step)
	assert.Equal(t, 10*time.Second, cfg.Pacing.Max)
}

func TestLoadMergesDefaults(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, ConfigFileName)
	require.NoError(t, os.WriteFile(configPath, []byte("work_dir: /srv/mon\n"), 0o644))

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, "/srv/mon", cfg.WorkDir)
	assert.Equal(t, 40, cfg.Rows, "unset fields keep their defaults")
	assert.Equal(t, "bars", cfg.Style)
	assert.Equal(t, 250*time.Millisecond, cfg.Pacing.Min)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, ConfigFileName)
	require.NoError(t, os.WriteFile(configPath, []byte("rows: [not a number\n"), 0o644))

	_, err := Load(configPath)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestWorkDirPaths(t *testing.T) {
	cfg := &Config{WorkDir: "/srv/mon"}

	assert.Equal(t, "/srv/mon/fifodir/msa_status", cfg.MSAPath())
	assert.Equal(t, "/srv/mon/fifodir", cfg.FifoDir())
	assert.Equal(t, "/srv/mon/fifodir/mon_status", cfg.StatusPath())
	assert.Equal(t, "/srv/mon/fifodir/MON_ACTIVE", cfg.ActivePath())
	assert.Equal(t, "/srv/mon/etc/monctrl.setup", cfg.SetupPath())
	assert.Equal(t, "/srv/mon/etc/mon.permissions", cfg.PermissionPath())

	cfg.PermissionFile = "/etc/mon.permissions"
	assert.Equal(t, "/etc/mon.permissions", cfg.PermissionPath())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(c *Config) {}, false},
		{"future version", func(c *Config) { c.Version = 99 }, true},
		{"empty work dir", func(c *Config) { c.WorkDir = "" }, true},
		{"zero rows", func(c *Config) { c.Rows = 0 }, true},
		{"absurd rows", func(c *Config) { c.Rows = 500 }, true},
		{"bad style", func(c *Config) { c.Style = "sparkles" }, true},
		{"chars style ok", func(c *Config) { c.Style = "chars" }, false},
		{"history too long", func(c *Config) { c.HistoryLength = 9 }, true},
		{"no history ok", func(c *Config) { c.HistoryLength = 0 }, false},
		{"zero pacing min", func(c *Config) { c.Pacing.Min = 0 }, true},
		{"max below min", func(c *Config) { c.Pacing.Max = 100 * time.Millisecond }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.WorkDir = "/srv/mon"
			tt.mutate(cfg)

			err := Validate(cfg)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsCode(err, errors.ErrConfig))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFindPrefersExplicitPath(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("rows: 10\n"), 0o644))

	found, err := Find(configPath)
	require.NoError(t, err)
	assert.Equal(t, configPath, found)

	_, err = Find(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
}

func TestExpandTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "afd_mon"), ExpandTilde("~/afd_mon"))
	assert.Equal(t, home, ExpandTilde("~"))
	assert.Equal(t, "/srv/mon", ExpandTilde("/srv/mon"))
	assert.Equal(t, "", ExpandTilde(""))
}

func TestExpandVariables(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "afd_mon"), Expand("${HOME}/afd_mon"))

	t.Setenv("AFD_MON_WORK_DIR", "/srv/mon")
	assert.Equal(t, "/srv/mon/etc", Expand("${AFD_MON_WORK_DIR}/etc"))
}
