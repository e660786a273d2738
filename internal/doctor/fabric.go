package doctor

import (
	"encoding/binary"
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"github.com/holger24/AFD-sub001/internal/config"
	"github.com/holger24/AFD-sub001/internal/dispatch"
	"github.com/holger24/AFD-sub001/internal/msa"
)

// FabricChecks builds the standard check set for a configuration.
func FabricChecks(cfg *config.Config) []Check {
	return []Check{
		&WorkDirCheck{WorkDir: cfg.WorkDir},
		&MSACheck{Path: cfg.MSAPath()},
		&CollectorCheck{ActivePath: cfg.ActivePath()},
		&CmdFifoCheck{FifoDir: cfg.FifoDir()},
		&PermissionsCheck{Path: cfg.PermissionPath()},
	}
}

// WorkDirCheck verifies the monitor work directory exists.
type WorkDirCheck struct {
	WorkDir string
}

func (c *WorkDirCheck) Name() string     { return "work_dir" }
func (c *WorkDirCheck) Category() string { return "CONFIG" }

func (c *WorkDirCheck) Run() CheckResult {
	info, err := os.Stat(c.WorkDir)
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("Work directory missing: %s", c.WorkDir),
			Suggestion: "Set work_dir in your config or export AFD_MON_WORK_DIR",
		}
	}
	if !info.IsDir() {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("%s is not a directory", c.WorkDir),
			Suggestion: "Point work_dir at the monitor work directory",
		}
	}
	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("Work directory: %s", c.WorkDir),
	}
}

// MSACheck verifies the mapped status area exists, carries the expected
// version, and is exactly as large as its site count demands.
type MSACheck struct {
	Path string
}

func (c *MSACheck) Name() string     { return "status_area" }
func (c *MSACheck) Category() string { return "MSA" }

func (c *MSACheck) Run() CheckResult {
	f, err := os.Open(c.Path)
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("Cannot open status area: %v", err),
			Suggestion: "Start the monitor collector; it creates the status area",
		}
	}
	defer f.Close()

	header := make([]byte, msa.HeaderSize)
	if _, err := f.ReadAt(header, 0); err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    "Status area is truncated",
			Suggestion: "The collector may still be initializing; retry in a moment",
		}
	}

	if header[0] != msa.CurrentMSAVersion {
		return CheckResult{
			Name:    c.Name(),
			Status:  StatusFail,
			Message: fmt.Sprintf("Status area version %d, console expects %d", header[0], msa.CurrentMSAVersion),
			Suggestion: "Upgrade whichever side is older so collector and console " +
				"agree on the layout",
		}
	}

	n := int(binary.LittleEndian.Uint32(header[4:]))
	info, err := f.Stat()
	if err == nil && info.Size() < int64(msa.RegionSize(n)) {
		return CheckResult{
			Name:    c.Name(),
			Status:  StatusFail,
			Message: fmt.Sprintf("Status area holds %d sites but is only %d bytes", n, info.Size()),
		}
	}

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("Status area v%d, %d sites", header[0], n),
	}
}

// CollectorCheck verifies the collector behind the active marker is
// still alive.
type CollectorCheck struct {
	ActivePath string
}

func (c *CollectorCheck) Name() string     { return "collector" }
func (c *CollectorCheck) Category() string { return "MSA" }

func (c *CollectorCheck) Run() CheckResult {
	pids, err := msa.ReadActivePids(c.ActivePath)
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    "No active marker found",
			Suggestion: "The collector writes MON_ACTIVE on startup; is it running?",
		}
	}
	if len(pids) == 0 {
		return CheckResult{
			Name:    c.Name(),
			Status:  StatusWarn,
			Message: "Active marker carries no pids",
		}
	}
	if err := unix.Kill(pids[0], 0); err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("Collector pid %d is gone", pids[0]),
			Suggestion: "Restart the monitor collector",
		}
	}
	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("Collector running, pid %d", pids[0]),
	}
}

// CmdFifoCheck verifies the shared command pipe exists and is a fifo.
type CmdFifoCheck struct {
	FifoDir string
}

func (c *CmdFifoCheck) Name() string     { return "command_fifo" }
func (c *CmdFifoCheck) Category() string { return "FIFO" }

func (c *CmdFifoCheck) Run() CheckResult {
	path := dispatch.MonCmdFifoPath(c.FifoDir)
	info, err := os.Stat(path)
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("Command pipe missing: %s", path),
			Suggestion: "The collector creates its pipes on startup",
		}
	}
	if info.Mode()&os.ModeNamedPipe == 0 {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("%s exists but is not a named pipe", path),
			Suggestion: "Remove the stray file and restart the collector",
		}
	}
	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: "Command pipe present",
	}
}

// PermissionsCheck verifies the permission file parses. A missing file is
// fatal for the console, so it fails here too.
type PermissionsCheck struct {
	Path string
}

func (c *PermissionsCheck) Name() string     { return "permissions" }
func (c *PermissionsCheck) Category() string { return "PERM" }

func (c *PermissionsCheck) Run() CheckResult {
	perms, err := config.LoadPermissions(c.Path)
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("Permission file unusable: %v", err),
			Suggestion: "Create mon.permissions with one token per line, or 'all'",
		}
	}
	perm, _ := perms.Allowed("startup")
	if perm == dispatch.PermNone {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    "Permission file grants no startup control",
			Suggestion: "Add the startup token if this console should manage collectors",
		}
	}
	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: "Permission file valid",
	}
}
