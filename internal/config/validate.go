package config

import (
	"fmt"

	"github.com/holger24/AFD-sub001/internal/errors"
	"github.com/holger24/AFD-sub001/internal/msa"
)

// validStyles are the accepted line styles.
var validStyles = map[string]bool{
	"bars":       true,
	"chars":      true,
	"characters": true,
	"both":       true,
	"chars+bars": true,
}

// Validate checks the config for errors and returns structured error
// messages.
func Validate(cfg *Config) error {
	if cfg.Version > CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("This config is from the future (version %d, but monctrl only knows up to %d)", cfg.Version, CurrentConfigVersion),
			"Update monctrl, or lower the version field.")
	}

	if cfg.WorkDir == "" {
		return errors.New(errors.ErrConfig,
			"No monitor work directory configured",
			"Set work_dir in the config file, or export AFD_MON_WORK_DIR.")
	}

	if cfg.Rows < 1 || cfg.Rows > 200 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("rows is %d, but must be between 1 and 200", cfg.Rows),
			"Pick the row count your terminal can actually show.")
	}

	if !validStyles[cfg.Style] {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Unknown line style %q", cfg.Style),
			"Use one of: bars, chars, both.")
	}

	if cfg.HistoryLength < 0 || cfg.HistoryLength > msa.MaxLogHistory {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("history_length is %d, but must be between 0 and %d", cfg.HistoryLength, msa.MaxLogHistory),
			"Each history strip holds at most the MSA's ring length.")
	}

	if cfg.Pacing.Min <= 0 || cfg.Pacing.Step <= 0 {
		return errors.New(errors.ErrConfig,
			"Pacing min and step must be positive durations",
			"Try the defaults: min 250ms, step 250ms, max 3500ms.")
	}

	if cfg.Pacing.Max < cfg.Pacing.Min {
		return errors.New(errors.ErrConfig,
			"Pacing max is below pacing min",
			"The redraw period grows from min toward max; max must be at least min.")
	}

	return nil
}
