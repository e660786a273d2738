package dispatch

import (
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProc records signals and can be told to die on SIGINT.
type fakeProc struct {
	mu        sync.Mutex
	alive     bool
	signals   []syscall.Signal
	killed    bool
	dieOnInt  bool
}

func newFakeProc() *fakeProc {
	return &fakeProc{alive: true}
}

func (f *fakeProc) Signal(sig syscall.Signal) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signals = append(f.signals, sig)
	if sig == syscall.SIGINT && f.dieOnInt {
		f.alive = false
	}
	return nil
}

func (f *fakeProc) Kill() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.killed = true
	f.alive = false
	return nil
}

func (f *fakeProc) Alive() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.alive
}

func TestRegisterDeduplicatesLiveChildren(t *testing.T) {
	tbl := NewTable(nil)
	proc := newFakeProc()

	first, ok := tbl.Register(0, "show_log", 100, proc)
	require.True(t, ok)

	second, ok := tbl.Register(0, "show_log", 200, newFakeProc())
	assert.False(t, ok, "live child for the same site and program is reused")
	assert.Same(t, first, second)
	assert.Equal(t, 1, tbl.Size())
}

func TestRegisterReplacesDeadChildren(t *testing.T) {
	tbl := NewTable(nil)
	dead := newFakeProc()
	dead.alive = false

	tbl.Register(0, "show_log", 100, dead)
	e, ok := tbl.Register(0, "show_log", 200, newFakeProc())

	assert.True(t, ok)
	assert.Equal(t, 200, e.PID)
	assert.Equal(t, 1, tbl.Size())
}

func TestRegisterKeepsSitesApart(t *testing.T) {
	tbl := NewTable(nil)

	tbl.Register(0, "show_log", 100, newFakeProc())
	tbl.Register(1, "show_log", 101, newFakeProc())
	tbl.Register(0, "mon_info", 102, newFakeProc())

	assert.Equal(t, 3, tbl.Size())
}

func TestKillSiteOnlyTouchesItsChildren(t *testing.T) {
	tbl := NewTable(nil)
	mine := newFakeProc()
	other := newFakeProc()
	tbl.Register(0, "show_log", 100, mine)
	tbl.Register(1, "show_log", 101, other)

	tbl.KillSite(0)

	assert.True(t, mine.killed)
	assert.False(t, other.killed)
	assert.Equal(t, 1, tbl.Size())
	_, ok := tbl.Lookup(1, "show_log")
	assert.True(t, ok)
}

func TestSweepEscalatesToKill(t *testing.T) {
	tbl := NewTable(nil)
	tbl.KillGrace = 100 * time.Millisecond

	polite := newFakeProc()
	polite.dieOnInt = true
	stubborn := newFakeProc()
	tbl.Register(0, "show_log", 100, polite)
	tbl.Register(1, "mon_info", 101, stubborn)

	tbl.Sweep()

	assert.Contains(t, polite.signals, syscall.SIGINT)
	assert.False(t, polite.killed, "a child that honors SIGINT is not killed")
	assert.Contains(t, stubborn.signals, syscall.SIGINT)
	assert.True(t, stubborn.killed, "a lingering child is killed after the grace period")
	assert.Equal(t, 0, tbl.Size())
}

func TestSweepOnEmptyTableReturnsImmediately(t *testing.T) {
	tbl := NewTable(nil)
	tbl.KillGrace = 5 * time.Second

	start := time.Now()
	tbl.Sweep()
	assert.Less(t, time.Since(start), time.Second)
}
