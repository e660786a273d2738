package config

import (
	"path/filepath"
	"time"
)

// CurrentConfigVersion is the schema version for the config file.
// Increment when making breaking changes to the config structure.
const CurrentConfigVersion = 1

// Well-known files under the monitor work directory.
const (
	fifoSubdir     = "fifodir"
	etcSubdir      = "etc"
	msaFileName    = "msa_status"
	statusFileName = "mon_status"
	activeFileName = "MON_ACTIVE"
	setupFileName  = "monctrl.setup"
	permFileName   = "mon.permissions"
)

// Config represents the complete .monctrl.yaml configuration file.
type Config struct {
	Version int `yaml:"version" mapstructure:"version"`

	// WorkDir is the monitor work directory holding the mapped status
	// area, the collector fifos, and the setup files. Supports ~ and
	// ${HOME}/${USER} expansion.
	WorkDir string `yaml:"work_dir" mapstructure:"work_dir"`

	// PermissionFile overrides the default permission file location.
	PermissionFile string `yaml:"permission_file" mapstructure:"permission_file"`

	// Rows is the operator's target row count before the display splits
	// into columns.
	Rows int `yaml:"rows" mapstructure:"rows"`

	// Style selects the right-hand side of each line: "bars", "chars",
	// or "both".
	Style string `yaml:"style" mapstructure:"style"`

	// HistoryLength is the number of cells per history strip, 0 to 8.
	HistoryLength int `yaml:"history_length" mapstructure:"history_length"`

	// AutoSave persists the fold setup on exit.
	AutoSave bool `yaml:"auto_save" mapstructure:"auto_save"`

	Pacing PacingConfig `yaml:"pacing" mapstructure:"pacing"`
	Output OutputConfig `yaml:"output" mapstructure:"output"`
}

// PacingConfig bounds the adaptive redraw tick.
type PacingConfig struct {
	// Min is the period after a tick that drew something.
	Min time.Duration `yaml:"min" mapstructure:"min"`

	// Step is added to the period after every quiet tick.
	Step time.Duration `yaml:"step" mapstructure:"step"`

	// Max caps the period however quiet the fabric gets.
	Max time.Duration `yaml:"max" mapstructure:"max"`
}

// OutputConfig controls terminal output formatting.
type OutputConfig struct {
	// Color mode: "auto", "always", or "never".
	Color string `yaml:"color" mapstructure:"color"`
}

// MSAPath returns the mapped status-area file.
func (c *Config) MSAPath() string {
	return filepath.Join(c.WorkDir, fifoSubdir, msaFileName)
}

// FifoDir returns the collector's fifo directory.
func (c *Config) FifoDir() string {
	return filepath.Join(c.WorkDir, fifoSubdir)
}

// StatusPath returns the monitor-health record file.
func (c *Config) StatusPath() string {
	return filepath.Join(c.WorkDir, fifoSubdir, statusFileName)
}

// ActivePath returns the collector's active marker file.
func (c *Config) ActivePath() string {
	return filepath.Join(c.WorkDir, fifoSubdir, activeFileName)
}

// SetupPath returns the saved display setup file.
func (c *Config) SetupPath() string {
	return filepath.Join(c.WorkDir, etcSubdir, setupFileName)
}

// PermissionPath returns the permission file, honoring the override.
func (c *Config) PermissionPath() string {
	if c.PermissionFile != "" {
		return c.PermissionFile
	}
	return filepath.Join(c.WorkDir, etcSubdir, permFileName)
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version:       CurrentConfigVersion,
		WorkDir:       "${HOME}/afd_mon",
		Rows:          40,
		Style:         "bars",
		HistoryLength: 4,
		AutoSave:      false,
		Pacing: PacingConfig{
			Min:  250 * time.Millisecond,
			Step: 250 * time.Millisecond,
			Max:  3500 * time.Millisecond,
		},
		Output: OutputConfig{
			Color: "auto",
		},
	}
}
