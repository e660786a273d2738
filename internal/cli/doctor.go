package cli

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/holger24/AFD-sub001/internal/doctor"
	"github.com/holger24/AFD-sub001/internal/errors"
	"github.com/holger24/AFD-sub001/internal/ui"
)

// doctorCmd diagnoses work-directory and collector issues.
var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose work-directory and collector issues",
	Long: `Run diagnostic checks against the monitor work directory.

Checks:
  - Work directory and config validity
  - Status area presence, version, and size
  - Collector liveness behind the active marker
  - Command pipe availability
  - Permission file syntax

Examples:
  monctrl doctor
  monctrl doctor --work-dir /var/afd_mon`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return doctorCommand()
	},
}

var (
	doctorPassStyle = lipgloss.NewStyle().Foreground(ui.ColorSuccess)
	doctorWarnStyle = lipgloss.NewStyle().Foreground(ui.ColorWarning)
	doctorFailStyle = lipgloss.NewStyle().Foreground(ui.ColorError)
	doctorCatStyle  = lipgloss.NewStyle().Foreground(ui.ColorMuted).Bold(true)
)

func doctorCommand() error {
	cfg, err := loadConfig()
	if err != nil {
		return bootstrapFailure(err)
	}
	applyColorMode(cfg.Output.Color)

	checks := doctor.FabricChecks(cfg)
	grouped := doctor.GroupByCategory(checks)

	categories := make([]string, 0, len(grouped))
	for cat := range grouped {
		categories = append(categories, cat)
	}
	sort.Strings(categories)

	var all []doctor.CheckResult
	for _, cat := range categories {
		fmt.Println(doctorCatStyle.Render(cat))
		results := doctor.RunAll(grouped[cat])
		for _, r := range results {
			fmt.Printf("  %s %s\n", statusSymbol(r.Status), r.Message)
			if r.Suggestion != "" && r.Status != doctor.StatusPass {
				fmt.Printf("    %s\n", r.Suggestion)
			}
		}
		all = append(all, results...)
	}

	fmt.Println()
	fmt.Println(doctor.Summary(all))

	if doctor.HasFailures(all) {
		return errors.NewExitError(1)
	}
	return nil
}

func statusSymbol(s doctor.CheckStatus) string {
	switch s {
	case doctor.StatusPass:
		return doctorPassStyle.Render(ui.SymbolSuccess)
	case doctor.StatusWarn:
		return doctorWarnStyle.Render(ui.SymbolWarn)
	default:
		return doctorFailStyle.Render(ui.SymbolFail)
	}
}
