package config

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/holger24/AFD-sub001/internal/errors"
)

// Setup is the operator's saved display state, restored on the next start.
// Closed groups are stored pipe-joined the way the collector's other
// tools expect them.
type Setup struct {
	Style         string `yaml:"style"`
	HistoryLength int    `yaml:"history_length"`
	Rows          int    `yaml:"rows"`
	ClosedGroups  string `yaml:"closed_groups"`
}

// ClosedGroupList splits the pipe-joined closed-group aliases.
func (s *Setup) ClosedGroupList() []string {
	if s.ClosedGroups == "" {
		return nil
	}
	return strings.Split(s.ClosedGroups, "|")
}

// SetClosedGroups stores the aliases pipe-joined.
func (s *Setup) SetClosedGroups(aliases []string) {
	s.ClosedGroups = strings.Join(aliases, "|")
}

// LoadSetup reads the saved setup. A missing file is not an error: the
// zero Setup means "defaults, everything open".
func LoadSetup(path string) (*Setup, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Setup{}, nil
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot read the setup file at "+path, "")
	}

	var s Setup
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"The setup file at "+path+" is not valid YAML",
			"Delete it; monctrl will recreate it on the next save.")
	}
	return &s, nil
}

// SaveSetup writes the setup, creating the directory if needed.
func (s *Setup) SaveSetup(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot create the setup directory for "+path, "")
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, "Couldn't encode the setup", "")
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot write the setup file at "+path, "")
	}
	return nil
}
