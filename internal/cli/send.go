package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/holger24/AFD-sub001/internal/config"
	"github.com/holger24/AFD-sub001/internal/dispatch"
	"github.com/holger24/AFD-sub001/internal/display"
	"github.com/holger24/AFD-sub001/internal/errors"
	"github.com/holger24/AFD-sub001/internal/logger"
	"github.com/holger24/AFD-sub001/internal/msa"
	"github.com/holger24/AFD-sub001/internal/ui"
	"github.com/holger24/AFD-sub001/internal/util"
)

// sendActions maps the action names accepted on the command line.
var sendActions = map[string]dispatch.Action{
	"retry":   dispatch.ActionRetry,
	"switch":  dispatch.ActionSwitch,
	"enable":  dispatch.ActionEnable,
	"disable": dispatch.ActionDisable,
	"ping":    dispatch.ActionPing,
}

// sendCmd dispatches one action against named sites without starting
// the console. Useful from cron jobs and shell one-liners.
var sendCmd = &cobra.Command{
	Use:   "send <action> <alias>...",
	Short: "Dispatch one action without the console",
	Long: `Dispatch a single operator action against one or more sites.

Supported actions: retry, switch, enable, disable, ping.
The same permission file gates these as in the console.

Examples:
  monctrl send retry berlin
  monctrl send disable berlin paris
  monctrl send ping tokyo`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return sendCommand(args[0], args[1:])
	},
}

func sendCommand(actionName string, aliases []string) error {
	action, ok := sendActions[actionName]
	if !ok {
		names := make([]string, 0, len(sendActions))
		for n := range sendActions {
			names = append(names, n)
		}
		sort.Strings(names)
		suggestion := "Use one of: " + strings.Join(names, ", ")
		if similar := util.SuggestSimilar(actionName, names, 1); len(similar) > 0 {
			suggestion = fmt.Sprintf("Did you mean %q?", similar[0])
		}
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Unknown action %q", actionName), suggestion)
	}

	cfg, err := loadConfig()
	if err != nil {
		return bootstrapFailure(err)
	}

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

	geo := display.NewGeometry(display.ParseLineStyle(cfg.Style), cfg.HistoryLength, cfg.Rows)
	store := display.NewStore(geo)
	for i := 0; i < reader.NumSites(); i++ {
		store.Rows = append(store.Rows, store.NewRow(reader.Site(i)))
	}
	store.RecomputeVisibility()

	for _, alias := range aliases {
		i := store.FindByAlias(alias)
		if i < 0 {
			known := make([]string, 0, len(store.Rows))
			for _, r := range store.Rows {
				if !r.IsGroup() {
					known = append(known, r.Alias)
				}
			}
			hint := "Check the alias; 'monctrl' shows every site the collector knows."
			if similar := util.SuggestSimilar(alias, known, 3); len(similar) > 0 {
				hint = "Did you mean: " + strings.Join(similar, ", ") + "?"
			}
			return errors.New(errors.ErrMSA,
				fmt.Sprintf("No site named %q in the status area", alias), hint)
		}
		store.ToggleSelect(i, false)
	}

	d := dispatch.NewDispatcher(store, reader, dispatch.NewTable(log),
		&dispatch.ExecSpawner{WorkDir: cfg.WorkDir}, perms, cfg.FifoDir(), log)
	res := d.Dispatch(action)

	for _, msg := range res.Messages {
		fmt.Printf("%s %s\n", ui.SymbolSuccess, msg)
	}
	// One-shot invocation, so the blocking ping burst runs right here.
	failed := len(res.Errs) > 0
	for _, host := range res.Pings {
		line, err := d.Ping(host)
		if err != nil {
			fmt.Printf("%s Ping to %s failed: %v\n", ui.SymbolFail, host, err)
			failed = true
			continue
		}
		fmt.Printf("%s %s\n", ui.SymbolSuccess, line)
	}
	for _, e := range res.Errs {
		fmt.Printf("%s %v\n", ui.SymbolFail, e)
	}
	if failed {
		return errors.NewExitError(1)
	}
	return nil
}
