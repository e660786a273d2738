package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/holger24/AFD-sub001/internal/errors"
)

const (
	// ConfigFileName is the default config file name.
	ConfigFileName = ".monctrl.yaml"
	// GlobalConfigDir is the directory for global config.
	GlobalConfigDir = ".config/monctrl"
	// GlobalConfigFile is the global config file name.
	GlobalConfigFile = "config.yaml"
)

// Load reads config from the specified path.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Config file not found",
				"Run 'monctrl init' to create a config file, or specify one with --config")
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to read config file",
			"Check the file exists and is valid YAML")
	}

	return parseConfig(v, path)
}

// Find locates the config file using the search order:
// 1. Explicit path (from --config flag)
// 2. .monctrl.yaml in current directory
// 3. ~/.config/monctrl/config.yaml (global defaults)
//
// Returns the path to the config file, or empty string if not found.
func Find(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			if os.IsNotExist(err) {
				return "", errors.WrapWithCode(err, errors.ErrConfig,
					"Specified config file not found: "+explicit,
					"Check the path is correct")
			}
			return "", errors.WrapWithCode(err, errors.ErrConfig,
				"Cannot access config file: "+explicit,
				"Check file permissions")
		}
		return explicit, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot determine current directory",
			"Check directory permissions")
	}

	localConfig := filepath.Join(cwd, ConfigFileName)
	if _, err := os.Stat(localConfig); err == nil {
		return localConfig, nil
	}

	if home, _ := os.UserHomeDir(); home != "" {
		globalConfig := filepath.Join(home, GlobalConfigDir, GlobalConfigFile)
		if _, err := os.Stat(globalConfig); err == nil {
			return globalConfig, nil
		}
	}

	return "", nil
}

// LoadOrDefault loads config from the found path, or returns defaults if
// not found. 'monctrl init' relies on this working without existing config.
func LoadOrDefault() (*Config, error) {
	path, err := Find("")
	if err != nil {
		return nil, err
	}

	if path == "" {
		cfg := DefaultConfig()
		cfg.WorkDir = Expand(cfg.WorkDir)
		return cfg, nil
	}

	return Load(path)
}

// parseConfig converts viper config to our Config struct with defaults
// merged in.
func parseConfig(v *viper.Viper, path string) (*Config, error) {
	cfg := DefaultConfig()

	setDefaults(v)

	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid config format",
			"Check the YAML syntax in "+path)
	}

	cfg.WorkDir = Expand(ExpandTilde(cfg.WorkDir))
	cfg.PermissionFile = Expand(ExpandTilde(cfg.PermissionFile))

	return cfg, nil
}

// setDefaults configures viper's merge-in defaults. Durations arrive as
// strings and viper parses them into time.Duration fields.
func setDefaults(v *viper.Viper) {
	v.SetDefault("rows", 40)
	v.SetDefault("style", "bars")
	v.SetDefault("history_length", 4)
	v.SetDefault("auto_save", false)
	v.SetDefault("pacing.min", "250ms")
	v.SetDefault("pacing.step", "250ms")
	v.SetDefault("pacing.max", "3500ms")
	v.SetDefault("output.color", "auto")
}
