package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/holger24/AFD-sub001/internal/config"
	"github.com/holger24/AFD-sub001/internal/console"
	"github.com/holger24/AFD-sub001/internal/errors"
	"github.com/holger24/AFD-sub001/internal/logger"
	"github.com/holger24/AFD-sub001/internal/msa"
)

// runCmd starts the monitoring console, same as the bare root command.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the monitoring console",
	Long: `Attach to the monitor status area and start the interactive console.

The console shows one line per remote site and refreshes at an adaptive
pace: busy fabrics repaint four times a second, quiet ones back off to
one repaint every few seconds.

Examples:
  monctrl run
  monctrl run --work-dir /var/afd_mon
  monctrl run --color never`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConsole()
	},
}

// runConsole performs the fatal-or-running bootstrap: config, permission
// file, status area. Anything that fails here exits with code 1.
func runConsole() error {
	cfg, err := loadConfig()
	if err != nil {
		return bootstrapFailure(err)
	}
	applyColorMode(cfg.Output.Color)

	log := logger.NewEnvLogger("monctrl")

	perms, err := config.LoadPermissions(cfg.PermissionPath())
	if err != nil {
		return bootstrapFailure(err)
	}

	reader, err := msa.Attach(cfg.MSAPath(), log)
	if err != nil {
		return bootstrapFailure(err)
	}
	defer reader.Close()

	m := console.New(*cfg, reader, reader, reader, perms, log)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return errors.Wrap(err, "Console terminated unexpectedly")
	}
	return nil
}

// bootstrapFailure prints the structured error and converts it to the
// operator-visible exit code 1. It writes to stderr directly; going
// through rootCmd would make its initializer depend on itself.
func bootstrapFailure(err error) error {
	fmt.Fprintln(os.Stderr, err)
	return errors.NewExitError(1)
}
