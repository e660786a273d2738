package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/holger24/AFD-sub001/internal/config"
	"github.com/holger24/AFD-sub001/internal/errors"
)

// Global flags available to all subcommands.
var (
	cfgFileFlag string
	workDirFlag string
	colorFlag   string
	rowsFlag    int
	styleFlag   string
)

// rootCmd is the base "monctrl" command. Running it without a subcommand
// starts the console, which is what operators do all day.
var rootCmd = &cobra.Command{
	Use:   "monctrl",
	Short: "Monitoring console for the AFD distribution fabric",
	Long: `monctrl is the operator console of the multi-site file distribution
fabric. It attaches to the shared status area the monitor collector
maintains, shows every remote site as one line of lights, counters, and
bars, and dispatches operator actions gated by the permission file.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConsole()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFileFlag, "config", "", "config file (default .monctrl.yaml, then ~/.config/monctrl/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&workDirFlag, "work-dir", "", "monitor work directory (overrides config and AFD_MON_WORK_DIR)")
	rootCmd.PersistentFlags().StringVar(&colorFlag, "color", "", "color output: auto, always, or never")
	rootCmd.PersistentFlags().IntVar(&rowsFlag, "rows", 0, "target row count before the display splits into columns")
	rootCmd.PersistentFlags().StringVar(&styleFlag, "style", "", "line style: bars, chars, or both")
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if code, ok := errors.GetExitCode(err); ok {
			os.Exit(code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig resolves the effective configuration from the flag, the
// search path, and the defaults, then applies the global overrides.
func loadConfig() (*config.Config, error) {
	path, err := config.Find(cfgFileFlag)
	if err != nil {
		return nil, err
	}

	var cfg *config.Config
	if path == "" {
		cfg = config.DefaultConfig()
	} else {
		cfg, err = config.Load(path)
		if err != nil {
			return nil, err
		}
	}

	if workDirFlag != "" {
		cfg.WorkDir = config.Expand(config.ExpandTilde(workDirFlag))
	}
	if colorFlag != "" {
		cfg.Output.Color = colorFlag
	}
	if rowsFlag > 0 {
		cfg.Rows = rowsFlag
	}
	if styleFlag != "" {
		cfg.Style = styleFlag
	}

	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyColorMode forces the lipgloss color profile when the operator
// insists, and falls back to plain output off a terminal.
func applyColorMode(mode string) {
	switch mode {
	case "never":
		lipgloss.SetColorProfile(termenv.Ascii)
	case "always":
		lipgloss.SetColorProfile(termenv.TrueColor)
	default:
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			lipgloss.SetColorProfile(termenv.Ascii)
		}
	}
}
