package msa

import (
	"encoding/binary"
	"os"
	"strconv"
	"strings"

	"github.com/holger24/AFD-sub001/internal/errors"
)

// ReadMonitorStatus reads the small monitor-health record the collector
// keeps next to the MSA. The file is tiny and local, so a plain read per
// watchdog tick is fine.
func ReadMonitorStatus(path string) (MonitorStatus, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return MonitorStatus{}, errors.WrapWithCode(err, errors.ErrMSA,
			"Cannot read monitor status record: "+path, "")
	}
	if len(b) < MonStatusSize {
		return MonitorStatus{}, errors.New(errors.ErrMSA,
			"Monitor status record truncated", "")
	}
	return MonitorStatus{
		Running:    b[offMonRunning],
		SysLogEC:   binary.LittleEndian.Uint32(b[offMonSysLogEC:]),
		EventLogEC: binary.LittleEndian.Uint32(b[offMonEventLogEC:]),
	}, nil
}

// ReadActivePids parses the collector's active-marker file: one pid per
// line, the collector's own pid first. Blank lines are skipped.
func ReadActivePids(path string) ([]int, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrMSA,
			"Cannot read active marker: "+path, "")
	}

	var pids []int
	for _, line := range strings.Split(string(b), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		pid, err := strconv.Atoi(line)
		if err != nil {
			continue
		}
		pids = append(pids, pid)
	}
	return pids, nil
}
