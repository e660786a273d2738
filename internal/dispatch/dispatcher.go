package dispatch

import (
	"fmt"

	"github.com/holger24/AFD-sub001/internal/display"
	"github.com/holger24/AFD-sub001/internal/errors"
	"github.com/holger24/AFD-sub001/internal/logger"
	"github.com/holger24/AFD-sub001/internal/msa"
)

// Permission is an oracle verdict for one action token.
type Permission int

const (
	PermNone Permission = iota
	PermAll
	PermLimited
)

// Oracle answers permission queries. PermLimited comes with the alias
// list the operator is restricted to.
type Oracle interface {
	Allowed(token string) (Permission, []string)
}

// Toggler writes a site's toggle back to the MSA. *msa.Reader implements
// it; tests use msatest.FakeMSA.
type Toggler interface {
	SetToggle(i int, v uint8)
}

// Result is what one dispatch produced: the site indices whose rows need
// a repaint, operator-facing messages, and per-row errors. Errors never
// stop the remaining rows.
type Result struct {
	Affected []int
	Messages []string
	Errs     []error

	// Pings lists the hosts an ActionPing dispatch selected. The probe
	// itself blocks on the network, so the caller runs it off the event
	// loop through Ping and reports the line when it lands.
	Pings []string
}

func (r *Result) errf(err error) {
	r.Errs = append(r.Errs, err)
}

// Dispatcher performs gated operator actions against the store, the MSA,
// the collector fifos, and the process table.
type Dispatcher struct {
	store  *display.Store
	msa    Toggler
	table  *Table
	spawn  Spawner
	oracle Oracle
	ping   PingFunc
	log    logger.Logger

	// FifoDir is the collector's fifo directory.
	FifoDir string
}

// NewDispatcher wires a dispatcher. ping may be nil, in which case the
// real prober is used.
func NewDispatcher(store *display.Store, toggler Toggler, table *Table, spawn Spawner, oracle Oracle, fifoDir string, log logger.Logger) *Dispatcher {
	if log == nil {
		log = logger.Noop()
	}
	return &Dispatcher{
		store:   store,
		msa:     toggler,
		table:   table,
		spawn:   spawn,
		oracle:  oracle,
		ping:    PingHost,
		log:     log,
		FifoDir: fifoDir,
	}
}

// SetPing overrides the ping prober.
func (d *Dispatcher) SetPing(fn PingFunc) {
	d.ping = fn
}

// Ping probes one host from a Result's Pings list. It blocks for the
// duration of the burst and must not run on the event loop.
func (d *Dispatcher) Ping(host string) (string, error) {
	return d.ping(host)
}

// Table exposes the process table for the engine's switch-kill path and
// the console's exit sweep.
func (d *Dispatcher) Table() *Table {
	return d.table
}

// Dispatch runs one action across the current selection. After the side
// effects, transient selections are cleared; static selections persist.
func (d *Dispatcher) Dispatch(a Action) Result {
	var res Result

	targets := d.targets()
	if a.NeedsSelection() && len(targets) == 0 {
		res.errf(errors.New(errors.ErrPerm,
			fmt.Sprintf("No site selected for %s", a),
			"Select at least one site first."))
		return res
	}

	perm, allowList := d.oracle.Allowed(a.PermissionToken())
	if perm == PermNone {
		res.errf(errors.New(errors.ErrPerm,
			fmt.Sprintf("You don't have permission for %s", a),
			fmt.Sprintf("Ask your administrator to grant the %q token.", a.PermissionToken())))
		return res
	}

	if !a.NeedsSelection() {
		d.spawnGlobal(a, &res)
	} else {
		for _, i := range targets {
			r := d.store.Rows[i]
			if perm == PermLimited && !contains(allowList, r.Alias) {
				res.errf(errors.New(errors.ErrPerm,
					fmt.Sprintf("%s is not permitted on %s", a, r.Alias),
					"Your permission token is limited to specific sites."))
				continue
			}
			d.apply(a, i, r, &res)
		}
	}

	for _, i := range d.store.ClearTransient() {
		res.Affected = append(res.Affected, i)
	}
	return res
}

// targets returns the selected non-group site indices.
func (d *Dispatcher) targets() []int {
	var out []int
	for _, i := range d.store.SelectedIndices() {
		if !d.store.Rows[i].IsGroup() {
			out = append(out, i)
		}
	}
	return out
}

// apply performs the action's side effect for one row.
func (d *Dispatcher) apply(a Action, i int, r *display.Row, res *Result) {
	switch a {
	case ActionRetry:
		if r.ConnectStatus != msa.StatusDisconnected && r.ConnectStatus != msa.StatusError {
			res.Messages = append(res.Messages,
				fmt.Sprintf("%s: nothing to retry", r.Alias))
			return
		}
		if err := WriteRetry(d.FifoDir, i); err != nil {
			res.errf(err)
			return
		}
		d.log.Info("retry queued for %s", r.Alias)
		res.Affected = append(res.Affected, i)

	case ActionSwitch:
		if r.SwitchingMode == msa.SwitchNone {
			res.errf(errors.New(errors.ErrMSA,
				fmt.Sprintf("%s has no second hostname to switch to", r.Alias),
				"Only sites with auto or user switching can be switched."))
			return
		}
		d.msa.SetToggle(i, 1-r.Toggle)
		d.log.Info("switched %s to %s", r.Alias, r.Hostnames[1-r.Toggle])
		res.Affected = append(res.Affected, i)

	case ActionEnable:
		if err := WriteMonCmd(d.FifoDir, MonCmdEnable, i); err != nil {
			res.errf(err)
			return
		}
		d.log.Info("enable sent for %s", r.Alias)
		res.Affected = append(res.Affected, i)

	case ActionDisable:
		if err := WriteMonCmd(d.FifoDir, MonCmdDisable, i); err != nil {
			res.errf(err)
			return
		}
		d.log.Info("disable sent for %s", r.Alias)
		res.Affected = append(res.Affected, i)

	case ActionPing:
		host := r.Hostnames[r.Toggle]
		if host == "" {
			host = r.Alias
		}
		res.Pings = append(res.Pings, host)
		res.Affected = append(res.Affected, i)

	default:
		d.spawnForSite(a, i, r, res)
	}
}

// spawnForSite launches the action's helper for one row, deduplicating on
// (site, program): a live helper is raised, not duplicated.
func (d *Dispatcher) spawnForSite(a Action, i int, r *display.Row, res *Result) {
	program, args := helperArgv(a, r)
	if program == "" {
		res.errf(errors.New(errors.ErrSpawn,
			fmt.Sprintf("No helper program mapped for %s", a), ""))
		return
	}

	if e, ok := d.table.Lookup(i, program); ok && e.proc != nil && e.proc.Alive() {
		res.Messages = append(res.Messages,
			fmt.Sprintf("%s is already open for %s", program, r.Alias))
		return
	}

	pid, proc, err := d.spawn.Spawn(program, args...)
	if err != nil {
		res.errf(err)
		return
	}
	d.table.Register(i, program, pid, proc)
	res.Affected = append(res.Affected, i)
}

// spawnGlobal launches the selection-free helpers. They are tracked under
// a synthetic site index so the exit sweep still reaps them.
func (d *Dispatcher) spawnGlobal(a Action, res *Result) {
	program, args := helperArgv(a, nil)

	if e, ok := d.table.Lookup(-1, program); ok && e.proc != nil && e.proc.Alive() {
		res.Messages = append(res.Messages,
			fmt.Sprintf("%s is already open", program))
		return
	}

	pid, proc, err := d.spawn.Spawn(program, args...)
	if err != nil {
		res.errf(err)
		return
	}
	if _, ok := d.table.Register(-1, program, pid, proc); !ok {
		// Lost a race for the slot; the duplicate must not outlive the
		// sweep untracked.
		d.log.Warn("%s (pid %d) spawned twice, stopping the duplicate", program, pid)
		_ = proc.Kill()
	}
}

// helperArgv maps an action to its external program and arguments. r is
// nil for the selection-free actions.
func helperArgv(a Action, r *display.Row) (string, []string) {
	alias := ""
	host := ""
	if r != nil {
		alias = r.Alias
		host = r.Hostnames[r.Toggle]
		if host == "" {
			host = alias
		}
	}

	switch a {
	case ActionInfo:
		return "mon_info", []string{"-a", alias}
	case ActionTraceroute:
		return "traceroute", []string{host}
	case ActionSysLog:
		return "show_log", []string{"--system", alias}
	case ActionEventLog:
		return "show_log", []string{"--event", alias}
	case ActionReceiveLog:
		return "show_log", []string{"--receive", alias}
	case ActionTransferLog:
		return "show_log", []string{"--transfer", alias}
	case ActionInputLog:
		return "show_log", []string{"--input", alias}
	case ActionProductionLog:
		return "show_log", []string{"--production", alias}
	case ActionOutputLog:
		return "show_log", []string{"--output", alias}
	case ActionDeleteLog:
		return "show_log", []string{"--delete", alias}
	case ActionControlPanel:
		return "afd_ctrl", []string{"-h", alias}
	case ActionQueue:
		return "show_queue", []string{alias}
	case ActionLoadViews:
		return "afd_load", nil
	case ActionStartAMG:
		return "afd_cmd", []string{"--start-amg", alias}
	case ActionStopAMG:
		return "afd_cmd", []string{"--stop-amg", alias}
	case ActionStartFD:
		return "afd_cmd", []string{"--start-fd", alias}
	case ActionStopFD:
		return "afd_cmd", []string{"--stop-fd", alias}
	case ActionRereadDirConfig:
		return "afd_cmd", []string{"--reread-dir-config", alias}
	case ActionRereadHostConfig:
		return "afd_cmd", []string{"--reread-host-config", alias}
	case ActionEditHostConfig:
		return "edit_hc", []string{alias}
	case ActionDirectoryControl:
		return "dir_ctrl", []string{"-h", alias}
	case ActionStartup:
		return "afd_cmd", []string{"--startup", alias}
	case ActionShutdown:
		return "afd_cmd", []string{"--shutdown", alias}
	default:
		return "", nil
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
