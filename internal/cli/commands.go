package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/holger24/AFD-sub001/internal/errors"
)

// Command-specific flags
var (
	initWorkDirFlag    string
	initForce          bool
	initNonInteractive bool
)

// initCmd creates a new .monctrl.yaml configuration
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create .monctrl.yaml configuration",
	Long: `Initialize a new monctrl configuration file.

Creates a .monctrl.yaml file in the current directory with sensible
defaults. Guides you through the work directory and display options
with interactive prompts.

Examples:
  monctrl init
  monctrl init --work-dir /var/afd_mon
  monctrl init --force`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Init(InitOptions{
			WorkDir:        initWorkDirFlag,
			Overwrite:      initForce,
			NonInteractive: initNonInteractive,
		})
	},
}

// completionCmd generates shell completion scripts
var completionCmd = &cobra.Command{
	Use:       "completion [bash|zsh|fish|powershell]",
	Short:     "Generate shell completion script",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(os.Stdout)
		case "zsh":
			return rootCmd.GenZshCompletion(os.Stdout)
		case "fish":
			return rootCmd.GenFishCompletion(os.Stdout, true)
		case "powershell":
			return rootCmd.GenPowerShellCompletion(os.Stdout)
		}
		return errors.New(errors.ErrConfig,
			"Unsupported shell: "+args[0],
			"Use bash, zsh, fish, or powershell")
	},
}

func init() {
	// init command flags
	initCmd.Flags().StringVar(&initWorkDirFlag, "work-dir", "", "pre-specify the monitor work directory")
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite existing config")
	initCmd.Flags().BoolVar(&initNonInteractive, "non-interactive", false, "skip prompts, use defaults")

	// Register all commands
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(completionCmd)
}
