// Package watchdog keeps the collector itself honest: it tracks the
// monitor-health record, the active marker with its pid list, the two
// global log event counters, and the wall clock, emitting deltas on its
// own adaptive tick independent of the site diff engine.
package watchdog

import (
	"os"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sys/unix"

	"github.com/holger24/AFD-sub001/internal/logger"
	"github.com/holger24/AFD-sub001/internal/msa"
	"github.com/holger24/AFD-sub001/internal/sink"
)

// TickResult reports what one watchdog tick did and when to run the next.
type TickResult struct {
	Deltas int
	Next   time.Duration
}

// Watchdog mirrors the monitor-health state between ticks.
type Watchdog struct {
	statusPath string
	activePath string
	out        sink.Sink
	log        logger.Logger

	Min  time.Duration
	Step time.Duration
	Max  time.Duration

	period time.Duration

	running    bool
	haveStatus bool
	sysLogEC   uint32
	eventLogEC uint32
	lastMinute int
	pids       []int

	activeMtime time.Time
	markerDirty atomic.Bool
	watcher     *fsnotify.Watcher
	readFailed  bool
}

// New creates a watchdog over the health record and active marker paths.
func New(statusPath, activePath string, out sink.Sink, log logger.Logger) *Watchdog {
	if log == nil {
		log = logger.Noop()
	}
	return &Watchdog{
		statusPath: statusPath,
		activePath: activePath,
		out:        out,
		log:        log,
		Min:        time.Second,
		Step:       time.Second,
		Max:        10 * time.Second,
		period:     time.Second,
		lastMinute: -1,
	}
}

// Period returns the current adaptive tick period.
func (w *Watchdog) Period() time.Duration {
	return w.period
}

// Start arms the fsnotify watch on the active marker. Failure is not
// fatal: the per-tick stat fallback covers filesystems without inotify.
func (w *Watchdog) Start() {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		w.log.Warn("marker watch unavailable, falling back to stat: %v", err)
		return
	}
	if err := watcher.Add(w.activePath); err != nil {
		w.log.Warn("cannot watch %s, falling back to stat: %v", w.activePath, err)
		_ = watcher.Close()
		return
	}
	w.watcher = watcher

	go func() {
		for {
			select {
			case _, ok := <-watcher.Events:
				if !ok {
					return
				}
				w.markerDirty.Store(true)
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			}
		}
	}()
}

// Close releases the fsnotify watch.
func (w *Watchdog) Close() {
	if w.watcher != nil {
		_ = w.watcher.Close()
		w.watcher = nil
	}
}

// Tick runs one watchdog cycle: liveness, marker, counters, clock.
func (w *Watchdog) Tick(now time.Time) TickResult {
	deltas := 0
	deltas += w.checkStatus()
	deltas += w.checkMarker()
	deltas += w.checkClock(now)

	// The down LED oscillates while the collector is gone; its repaint
	// is a delta so the loop keeps animating at Min.
	if !w.running && w.haveStatus {
		w.out.MonLED(false, now.Second()%2 == 0)
		deltas++
	}

	if deltas > 0 {
		w.period = w.Min
		w.out.Flush()
	} else {
		w.period += w.Step
		if w.period > w.Max {
			w.period = w.Max
		}
	}
	return TickResult{Deltas: deltas, Next: w.period}
}

// checkStatus diffs the health record: liveness flag and the two global
// event counters.
func (w *Watchdog) checkStatus() int {
	st, err := msa.ReadMonitorStatus(w.statusPath)
	if err != nil {
		if !w.readFailed {
			w.readFailed = true
			w.out.Error("monitor health record unreadable: " + err.Error())
		}
		return 0
	}
	w.readFailed = false

	deltas := 0
	running := st.Running != 0
	if !w.haveStatus || running != w.running {
		w.haveStatus = true
		w.running = running
		w.out.MonLED(running, false)
		w.log.Debug("collector liveness now %v", running)
		deltas++
	}

	if st.SysLogEC != w.sysLogEC {
		w.sysLogEC = st.SysLogEC
		w.out.LogArc(sink.ArcSysLog, int(st.SysLogEC%msa.LogFifoSize))
		deltas++
	}
	if st.EventLogEC != w.eventLogEC {
		w.eventLogEC = st.EventLogEC
		w.out.LogArc(sink.ArcEventLog, int(st.EventLogEC%msa.LogFifoSize))
		deltas++
	}
	return deltas
}

// checkMarker re-reads the pid list when the active marker moved, and
// synthesizes a down transition if the collector pid vanished while the
// flag still says running.
func (w *Watchdog) checkMarker() int {
	moved := w.markerDirty.Swap(false)
	if info, err := os.Stat(w.activePath); err == nil {
		if !info.ModTime().Equal(w.activeMtime) {
			w.activeMtime = info.ModTime()
			moved = true
		}
	}
	if !moved {
		return 0
	}

	pids, err := msa.ReadActivePids(w.activePath)
	if err != nil {
		w.log.Debug("active marker unreadable: %v", err)
		return 0
	}
	w.pids = pids

	if w.running && (len(pids) == 0 || !pidAlive(pids[0])) {
		w.running = false
		w.out.MonLED(false, false)
		w.log.Warn("collector pid gone while health flag still set")
		return 1
	}
	return 0
}

// checkClock emits a clock delta on every minute boundary.
func (w *Watchdog) checkClock(now time.Time) int {
	minute := now.Hour()*60 + now.Minute()
	if minute == w.lastMinute {
		return 0
	}
	w.lastMinute = minute
	w.out.Clock(now)
	return 1
}

// Pids returns the last pid list read from the active marker.
func (w *Watchdog) Pids() []int {
	return w.pids
}

// pidAlive probes a process with the null signal.
func pidAlive(pid int) bool {
	return unix.Kill(pid, 0) == nil
}
