package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"gopkg.in/yaml.v3"

	"github.com/holger24/AFD-sub001/internal/config"
	"github.com/holger24/AFD-sub001/internal/errors"
)

// InitOptions holds options for the init command.
type InitOptions struct {
	WorkDir        string // Pre-specified work directory
	Overwrite      bool   // Overwrite existing config without asking
	NonInteractive bool   // Skip prompts, use defaults
}

// Init creates a new .monctrl.yaml configuration file.
func Init(opts InitOptions) error {
	configPath := filepath.Join(".", config.ConfigFileName)

	if _, err := os.Stat(configPath); err == nil && !opts.Overwrite {
		var overwrite bool

		if opts.NonInteractive {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Config file already exists: %s", configPath),
				"Use --force to overwrite")
		}

		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Config file '%s' already exists. Overwrite?", config.ConfigFileName)).
					Value(&overwrite),
			),
		)

		if err := form.Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to get user input",
				"Try running with --force to overwrite")
		}

		if !overwrite {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	cfg := config.DefaultConfig()
	workDir := opts.WorkDir
	style := cfg.Style
	rows := strconv.Itoa(cfg.Rows)

	if opts.NonInteractive {
		if workDir == "" {
			workDir = cfg.WorkDir
		}
	} else {
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Monitor work directory").
					Description("Where the collector keeps its status area (supports ${HOME}, ${USER})").
					Placeholder("${HOME}/afd_mon").
					Value(&workDir),
			),
			huh.NewGroup(
				huh.NewSelect[string]().
					Title("Line style").
					Description("What the right-hand side of each site line shows").
					Options(
						huh.NewOption("Bars", "bars"),
						huh.NewOption("Characters", "chars"),
						huh.NewOption("Both", "both"),
					).
					Value(&style),
			),
			huh.NewGroup(
				huh.NewInput().
					Title("Rows per column").
					Description("Target row count before the layout splits into columns").
					Placeholder("40").
					Value(&rows).
					Validate(func(s string) error {
						n, err := strconv.Atoi(strings.TrimSpace(s))
						if err != nil || n < 1 || n > 200 {
							return fmt.Errorf("rows must be a number between 1 and 200")
						}
						return nil
					}),
			),
			huh.NewGroup(
				huh.NewConfirm().
					Title("Save fold state on exit?").
					Value(&cfg.AutoSave),
			),
		)

		if err := form.Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to get user input",
				"Run 'monctrl init --non-interactive' to use defaults")
		}
	}

	if workDir != "" {
		cfg.WorkDir = workDir
	}
	cfg.Style = style
	if n, err := strconv.Atoi(strings.TrimSpace(rows)); err == nil {
		cfg.Rows = n
	}

	out, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to encode config", "")
	}
	if err := os.WriteFile(configPath, out, 0o644); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to write "+configPath,
			"Check directory permissions")
	}

	fmt.Printf("Wrote %s\n", configPath)
	return nil
}
