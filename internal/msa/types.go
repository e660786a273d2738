// Package msa reads the Monitor Status Area, the shared-memory region the
// collector daemon maintains with one record per observed AFD plus a small
// monitor-health record. The console maps the region read-only; the single
// write-back is the host toggle.
package msa

import "time"

// CurrentMSAVersion is the on-disk layout tag this console understands.
// The collector writes it into the region header; a mismatch is fatal.
const CurrentMSAVersion = 3

// Fixed string field sizes within a site record.
const (
	MaxAliasLength     = 40
	MaxRemoteCmdLength = 10
	MaxHostnameLength  = 40
	MaxWorkDirLength   = 64
	MaxUserNameLength  = 26
)

// LogFifoSize is the number of slots in the per-site system log ring.
const LogFifoSize = 8

// MaxLogHistory is the widest history strip the collector records.
// The console may display fewer cells (config history_length 0..8).
const MaxLogHistory = 8

// SwitchingMode describes how a site with two hostnames fails over.
type SwitchingMode uint8

const (
	SwitchNone SwitchingMode = iota
	SwitchAuto
	SwitchUser
)

// String returns a human-readable label for the switching mode.
func (m SwitchingMode) String() string {
	switch m {
	case SwitchAuto:
		return "auto"
	case SwitchUser:
		return "user"
	default:
		return "none"
	}
}

// SubsystemState is the reported state of a remote subsystem (AMG, FD,
// archive watch).
type SubsystemState uint8

const (
	SubsystemOff SubsystemState = iota
	SubsystemOn
	SubsystemStopped
	SubsystemShutdown
)

// String returns a human-readable label for the subsystem state.
func (s SubsystemState) String() string {
	switch s {
	case SubsystemOn:
		return "on"
	case SubsystemStopped:
		return "stopped"
	case SubsystemShutdown:
		return "shutdown"
	default:
		return "off"
	}
}

// ConnectStatus is the collector's view of the link to a site.
type ConnectStatus uint8

const (
	StatusNormal ConnectStatus = iota
	StatusWarn
	StatusError
	StatusDisconnected
	StatusDisabled
)

// String returns a human-readable label for the connect status.
func (s ConnectStatus) String() string {
	switch s {
	case StatusNormal:
		return "ok"
	case StatusWarn:
		return "warn"
	case StatusError:
		return "error"
	case StatusDisconnected:
		return "disconnected"
	case StatusDisabled:
		return "disabled"
	default:
		return "unknown"
	}
}

// SiteRecord is one decoded MSA entry. Field values are each consistent on
// their own, but the record as a whole is not a snapshot: the collector may
// update other fields between the individual reads.
type SiteRecord struct {
	Alias          string
	RemoteCmd      string // empty means this row is a group header
	Toggle         uint8
	SwitchingMode  SwitchingMode
	AMG            SubsystemState
	FD             SubsystemState
	ArchiveWatch   SubsystemState
	ConnectStatus  ConnectStatus
	SysLogFifo     [LogFifoSize]byte
	LogHistory     [3][MaxLogHistory]byte
	SysLogEC       uint32
	JobsInQueue    uint32
	NoOfTransfers  uint32
	HostErrorCnt   uint32
	NoOfHosts      uint32
	MaxConnections uint32
	DangerNoOfJobs uint32
	ErrorCount     uint32
	Files          uint64
	Bytes          uint64
	ConnectionRate uint64
	LastDataTime   int64
	TransferRate   float64
	Options        uint32
	Hostnames      [2]string
	RemoteWorkDir  string
	ConvertFrom    string
	ConvertTo      string
}

// IsGroup reports whether this record is a synthetic group header.
func (r *SiteRecord) IsGroup() bool {
	return r.RemoteCmd == ""
}

// AllSubsystemsOn reports whether AMG, FD, and archive watch are all running.
func (r *SiteRecord) AllSubsystemsOn() bool {
	return r.AMG == SubsystemOn && r.FD == SubsystemOn && r.ArchiveWatch == SubsystemOn
}

// MonitorStatus is the collector's own health record in the secondary region.
type MonitorStatus struct {
	Running    uint8
	SysLogEC   uint32
	EventLogEC uint32
}

// LastDataAge returns how long ago the site last moved data.
func (r *SiteRecord) LastDataAge(now time.Time) time.Duration {
	if r.LastDataTime <= 0 {
		return 0
	}
	return now.Sub(time.Unix(r.LastDataTime, 0))
}
