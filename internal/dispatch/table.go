package dispatch

import (
	"sync"
	"syscall"
	"time"

	"github.com/holger24/AFD-sub001/internal/logger"
)

// Process is the handle the table needs: os.Process satisfies it, tests
// substitute a fake.
type Process interface {
	Signal(sig syscall.Signal) error
	Kill() error
	Alive() bool
}

// Entry tracks one spawned child.
type Entry struct {
	Program   string
	PID       int
	SiteIndex int

	proc Process
}

type tableKey struct {
	site    int
	program string
}

// Table is the process table: every viewer or helper the console spawned,
// keyed by (site, program) so a second request raises the existing child
// instead of piling up duplicates.
type Table struct {
	mu      sync.Mutex
	entries map[tableKey]*Entry
	log     logger.Logger

	// KillGrace is how long the exit sweep waits between SIGINT and
	// SIGKILL.
	KillGrace time.Duration
}

// NewTable creates an empty process table.
func NewTable(log logger.Logger) *Table {
	if log == nil {
		log = logger.Noop()
	}
	return &Table{
		entries:   make(map[tableKey]*Entry),
		log:       log,
		KillGrace: 2 * time.Second,
	}
}

// Register adds a child to the table. If a live child for the same
// (site, program) pair is already tracked, the existing entry is returned
// with ok=false and the caller should raise it instead of spawning.
func (t *Table) Register(siteIndex int, program string, pid int, proc Process) (*Entry, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := tableKey{site: siteIndex, program: program}
	if e, exists := t.entries[key]; exists {
		if e.proc != nil && e.proc.Alive() {
			return e, false
		}
		delete(t.entries, key)
	}

	e := &Entry{Program: program, PID: pid, SiteIndex: siteIndex, proc: proc}
	t.entries[key] = e
	t.log.Debug("tracking %s (pid %d) for site %d", program, pid, siteIndex)
	return e, true
}

// Lookup returns the tracked entry for (site, program), if any.
func (t *Table) Lookup(siteIndex int, program string) (*Entry, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.entries[tableKey{site: siteIndex, program: program}]
	return e, ok
}

// Remove drops the entry for (site, program) without signalling it.
func (t *Table) Remove(siteIndex int, program string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.entries, tableKey{site: siteIndex, program: program})
}

// Size returns the number of tracked children.
func (t *Table) Size() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

// KillSite terminates every tracked child of the given site, so stale
// remote sessions do not outlive a host switch.
func (t *Table) KillSite(siteIndex int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for key, e := range t.entries {
		if key.site != siteIndex {
			continue
		}
		if e.proc != nil {
			_ = e.proc.Kill()
		}
		t.log.Debug("killed %s (pid %d) on switch of site %d", e.Program, e.PID, siteIndex)
		delete(t.entries, key)
	}
}

// Sweep is the exit path: SIGINT everything, give children the grace
// period to wind down, then SIGKILL whatever is still alive.
func (t *Table) Sweep() {
	t.mu.Lock()
	entries := make([]*Entry, 0, len(t.entries))
	for _, e := range t.entries {
		entries = append(entries, e)
	}
	t.entries = make(map[tableKey]*Entry)
	t.mu.Unlock()

	if len(entries) == 0 {
		return
	}

	for _, e := range entries {
		if e.proc != nil {
			_ = e.proc.Signal(syscall.SIGINT)
		}
	}

	deadline := time.Now().Add(t.KillGrace)
	for time.Now().Before(deadline) {
		alive := false
		for _, e := range entries {
			if e.proc != nil && e.proc.Alive() {
				alive = true
				break
			}
		}
		if !alive {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}

	for _, e := range entries {
		if e.proc != nil && e.proc.Alive() {
			t.log.Debug("child %s (pid %d) ignored SIGINT, killing", e.Program, e.PID)
			_ = e.proc.Kill()
		}
	}
}
