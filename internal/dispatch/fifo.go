package dispatch

import (
	"encoding/binary"
	"fmt"
	"path/filepath"

	"golang.org/x/sys/unix"

	"github.com/holger24/AFD-sub001/internal/errors"
)

// Collector command bytes accepted on MON_CMD_FIFO.
const (
	MonCmdEnable  byte = 'E'
	MonCmdDisable byte = 'D'
)

// Named pipes exposed by the collector under the fifo directory.
const (
	retryFifoPrefix = "RETRY_MON_FIFO"
	monCmdFifo      = "MON_CMD_FIFO"
)

// writeFifo opens the pipe write-only and non-blocking, writes one tiny
// record, and closes. A collector that is not reading shows up as ENXIO,
// which callers surface as a FIFO error rather than blocking the loop.
func writeFifo(path string, payload []byte) error {
	fd, err := unix.Open(path, unix.O_WRONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrFifo,
			fmt.Sprintf("Couldn't open the collector pipe at %s", path),
			"Check that the monitor collector is running and owns its fifo directory.")
	}
	defer unix.Close(fd)

	if _, err := unix.Write(fd, payload); err != nil {
		return errors.WrapWithCode(err, errors.ErrFifo,
			fmt.Sprintf("Couldn't write to the collector pipe at %s", path),
			"The collector may have stopped reading. Restart it and retry.")
	}
	return nil
}

// WriteRetry queues a retry for the given site on its per-site pipe.
func WriteRetry(fifoDir string, siteIndex int) error {
	payload := make([]byte, 4)
	binary.LittleEndian.PutUint32(payload, uint32(siteIndex))
	path := filepath.Join(fifoDir, fmt.Sprintf("%s%d", retryFifoPrefix, siteIndex))
	return writeFifo(path, payload)
}

// WriteMonCmd sends a one-byte command plus the site index on the shared
// command pipe.
func WriteMonCmd(fifoDir string, cmd byte, siteIndex int) error {
	payload := make([]byte, 5)
	payload[0] = cmd
	binary.LittleEndian.PutUint32(payload[1:], uint32(siteIndex))
	return writeFifo(MonCmdFifoPath(fifoDir), payload)
}

// MonCmdFifoPath returns the location of the shared command pipe.
func MonCmdFifoPath(fifoDir string) string {
	return filepath.Join(fifoDir, monCmdFifo)
}
