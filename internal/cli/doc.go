// Package cli implements the monctrl command-line interface.
//
// The package is organized around Cobra commands, with each command
// delegating to the internal packages for the actual work:
//
//	monctrl             - Start the monitoring console (default)
//	monctrl run         - Same, spelled out
//	monctrl send        - Dispatch one action without the console
//	monctrl doctor      - Diagnose work-directory and collector issues
//	monctrl init        - Create a .monctrl.yaml config
//	monctrl version     - Print version information
//	monctrl completion  - Generate shell completion scripts
//
// # Flag Handling
//
// Global flags (--config, --work-dir, --color, --rows, --style) are
// defined on the root command and available to all subcommands. Command-specific flags live
// on the individual commands.
//
// # Exit Codes
//
// Fatal bootstrap conditions (missing status area, version mismatch,
// unreadable permission file) exit with code 1. Everything the console
// can survive is reported on its error line instead.
package cli
