// Package dispatch gates operator actions through the permission oracle
// and performs their side effects: collector fifo writes, MSA toggle
// flips, in-process pings, and spawned viewer processes tracked in the
// process table.
package dispatch

// Action is one operator-issued command.
type Action int

const (
	ActionRetry Action = iota
	ActionSwitch
	ActionEnable
	ActionDisable
	ActionInfo
	ActionPing
	ActionTraceroute
	ActionSysLog
	ActionEventLog
	ActionReceiveLog
	ActionTransferLog
	ActionInputLog
	ActionProductionLog
	ActionOutputLog
	ActionDeleteLog
	ActionControlPanel
	ActionQueue
	ActionLoadViews
	ActionStartAMG
	ActionStopAMG
	ActionStartFD
	ActionStopFD
	ActionRereadDirConfig
	ActionRereadHostConfig
	ActionEditHostConfig
	ActionDirectoryControl
	ActionStartup
	ActionShutdown
)

// String returns the action's display name.
func (a Action) String() string {
	if int(a) < len(actionNames) {
		return actionNames[a]
	}
	return "unknown"
}

var actionNames = []string{
	"retry",
	"switch",
	"enable",
	"disable",
	"info",
	"ping",
	"traceroute",
	"system log",
	"event log",
	"receive log",
	"transfer log",
	"input log",
	"production log",
	"output log",
	"delete log",
	"control panel",
	"queue",
	"load views",
	"start AMG",
	"stop AMG",
	"start FD",
	"stop FD",
	"reread DIR_CONFIG",
	"reread HOST_CONFIG",
	"edit HOST_CONFIG",
	"directory control",
	"startup",
	"shutdown",
}

// PermissionToken returns the permission-file token guarding the action.
func (a Action) PermissionToken() string {
	switch a {
	case ActionRetry:
		return "retry"
	case ActionSwitch:
		return "switch_host"
	case ActionEnable, ActionDisable:
		return "disable_afd"
	case ActionInfo:
		return "mon_info"
	case ActionPing, ActionTraceroute:
		return "mon_ctrl"
	case ActionSysLog:
		return "show_slog"
	case ActionEventLog:
		return "show_elog"
	case ActionReceiveLog:
		return "show_rlog"
	case ActionTransferLog:
		return "show_tlog"
	case ActionInputLog:
		return "show_ilog"
	case ActionProductionLog:
		return "show_plog"
	case ActionOutputLog:
		return "show_olog"
	case ActionDeleteLog:
		return "show_dlog"
	case ActionControlPanel:
		return "afd_ctrl"
	case ActionQueue:
		return "show_queue"
	case ActionLoadViews:
		return "afd_load"
	case ActionStartAMG, ActionStopAMG:
		return "amg_ctrl"
	case ActionStartFD, ActionStopFD:
		return "fd_ctrl"
	case ActionRereadDirConfig:
		return "rr_dc"
	case ActionRereadHostConfig:
		return "rr_hc"
	case ActionEditHostConfig:
		return "edit_hc"
	case ActionDirectoryControl:
		return "dir_ctrl"
	case ActionStartup:
		return "startup"
	case ActionShutdown:
		return "shutdown"
	default:
		return "mon_ctrl"
	}
}

// NeedsSelection reports whether the action operates on selected rows.
// The global load views run without a site selection.
func (a Action) NeedsSelection() bool {
	return a != ActionLoadViews
}
