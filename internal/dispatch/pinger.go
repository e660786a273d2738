package dispatch

import (
	"fmt"
	"time"

	"github.com/go-ping/ping"
)

// PingFunc probes a host and returns a one-line result for the log view.
// Split out as a function type so tests avoid real network traffic.
type PingFunc func(host string) (string, error)

// PingHost sends a short unprivileged ping burst and summarizes the
// round-trip statistics.
func PingHost(host string) (string, error) {
	pinger, err := ping.NewPinger(host)
	if err != nil {
		return "", err
	}
	pinger.Count = 3
	pinger.Timeout = 3 * time.Second
	pinger.SetPrivileged(false)

	if err := pinger.Run(); err != nil {
		return "", err
	}

	stats := pinger.Statistics()
	if stats.PacketsRecv == 0 {
		return fmt.Sprintf("%s: no reply to %d packets", host, stats.PacketsSent), nil
	}
	return fmt.Sprintf("%s: %d/%d replies, rtt min/avg/max %v/%v/%v",
		host, stats.PacketsRecv, stats.PacketsSent,
		stats.MinRtt.Round(time.Microsecond),
		stats.AvgRtt.Round(time.Microsecond),
		stats.MaxRtt.Round(time.Microsecond)), nil
}
