package msa_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holger24/AFD-sub001/internal/errors"
	"github.com/holger24/AFD-sub001/internal/logger"
	"github.com/holger24/AFD-sub001/internal/msa"
	"github.com/holger24/AFD-sub001/internal/msa/msatest"
)

func writeImage(t *testing.T, b *msatest.Builder) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "msa")
	require.NoError(t, b.WriteFile(path))
	return path
}

func TestAttachAndDecode(t *testing.T) {
	rec := msatest.Site("berlin")
	rec.Toggle = 1
	rec.SwitchingMode = msa.SwitchAuto
	rec.ConnectStatus = msa.StatusError
	rec.JobsInQueue = 42
	rec.NoOfTransfers = 3
	rec.Files = 1234
	rec.Bytes = 9876543
	rec.TransferRate = 2048.5
	rec.Hostnames[0] = "berlin-a.example.org"
	rec.Hostnames[1] = "berlin-b.example.org"
	rec.RemoteWorkDir = "/var/spool/afd"

	b := msatest.NewBuilder().
		Add(msatest.Group("europe")).
		Add(rec)
	path := writeImage(t, b)

	r, err := msa.Attach(path, logger.Noop())
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, 2, r.NumSites())

	group := r.Site(0)
	assert.Equal(t, "europe", group.Alias)
	assert.True(t, group.IsGroup())

	got := r.Site(1)
	assert.Equal(t, "berlin", got.Alias)
	assert.False(t, got.IsGroup())
	assert.Equal(t, uint8(1), got.Toggle)
	assert.Equal(t, msa.SwitchAuto, got.SwitchingMode)
	assert.Equal(t, msa.StatusError, got.ConnectStatus)
	assert.Equal(t, uint32(42), got.JobsInQueue)
	assert.Equal(t, uint32(3), got.NoOfTransfers)
	assert.Equal(t, uint64(1234), got.Files)
	assert.Equal(t, uint64(9876543), got.Bytes)
	assert.InDelta(t, 2048.5, got.TransferRate, 0.001)
	assert.Equal(t, "berlin-a.example.org", got.Hostnames[0])
	assert.Equal(t, "berlin-b.example.org", got.Hostnames[1])
	assert.Equal(t, "/var/spool/afd", got.RemoteWorkDir)
	assert.True(t, got.AllSubsystemsOn())
}

func TestAttachVersionMismatch(t *testing.T) {
	b := msatest.NewBuilder().Add(msatest.Site("x"))
	b.Version = msa.CurrentMSAVersion + 1
	path := writeImage(t, b)

	_, err := msa.Attach(path, nil)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrMSA))
	assert.Contains(t, err.Error(), "version mismatch")
}

func TestAttachUnavailable(t *testing.T) {
	_, err := msa.Attach(filepath.Join(t.TempDir(), "missing"), nil)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrMSA))
}

func TestRefreshDetectsResize(t *testing.T) {
	b := msatest.NewBuilder().
		Add(msatest.Site("one")).
		Add(msatest.Site("two"))
	path := writeImage(t, b)

	r, err := msa.Attach(path, nil)
	require.NoError(t, err)
	defer r.Close()

	resized, n, err := r.Refresh()
	require.NoError(t, err)
	assert.False(t, resized)
	assert.Equal(t, 2, n)

	// Collector adds a third site and rewrites the region.
	b.Add(msatest.Site("three"))
	require.NoError(t, b.WriteFile(path))

	resized, n, err = r.Refresh()
	require.NoError(t, err)
	assert.True(t, resized)
	assert.Equal(t, 3, n)
	assert.Equal(t, "three", r.Site(2).Alias)
}

func TestRefreshDetectsShrink(t *testing.T) {
	b := msatest.NewBuilder().
		Add(msatest.Site("one")).
		Add(msatest.Site("two")).
		Add(msatest.Site("three"))
	path := writeImage(t, b)

	r, err := msa.Attach(path, nil)
	require.NoError(t, err)
	defer r.Close()

	b.Sites = b.Sites[:1]
	require.NoError(t, b.WriteFile(path))

	resized, n, err := r.Refresh()
	require.NoError(t, err)
	assert.True(t, resized)
	assert.Equal(t, 1, n)
}

func TestSetToggleWritesThrough(t *testing.T) {
	b := msatest.NewBuilder().Add(msatest.Site("berlin"))
	path := writeImage(t, b)

	r, err := msa.Attach(path, nil)
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, uint8(0), r.Site(0).Toggle)
	r.SetToggle(0, 1)
	assert.Equal(t, uint8(1), r.Site(0).Toggle)

	// Re-attach sees the persisted toggle.
	r2, err := msa.Attach(path, nil)
	require.NoError(t, err)
	defer r2.Close()
	assert.Equal(t, uint8(1), r2.Site(0).Toggle)
}

func TestSiteOutOfRange(t *testing.T) {
	b := msatest.NewBuilder().Add(msatest.Site("only"))
	path := writeImage(t, b)

	r, err := msa.Attach(path, nil)
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, msa.SiteRecord{}, r.Site(5))
	assert.Equal(t, msa.SiteRecord{}, r.Site(-1))
}

func TestPatchSiteInPlace(t *testing.T) {
	b := msatest.NewBuilder().Add(msatest.Site("berlin"))
	path := writeImage(t, b)

	r, err := msa.Attach(path, nil)
	require.NoError(t, err)
	defer r.Close()

	rec := msatest.Site("berlin")
	rec.NoOfTransfers = 7
	require.NoError(t, msatest.PatchSite(path, 0, rec))

	// The mapping observes the in-place update without any Refresh.
	assert.Equal(t, uint32(7), r.Site(0).NoOfTransfers)
}

func TestReadMonitorStatus(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mon_status")
	st := msa.MonitorStatus{Running: 1, SysLogEC: 10, EventLogEC: 20}
	require.NoError(t, os.WriteFile(path, msatest.StatusBytes(st), 0o644))

	got, err := msa.ReadMonitorStatus(path)
	require.NoError(t, err)
	assert.Equal(t, st, got)
}

func TestReadActivePids(t *testing.T) {
	path := filepath.Join(t.TempDir(), "MON_ACTIVE")
	require.NoError(t, os.WriteFile(path, []byte("4711\n4712\n\nnot-a-pid\n4713\n"), 0o644))

	pids, err := msa.ReadActivePids(path)
	require.NoError(t, err)
	assert.Equal(t, []int{4711, 4712, 4713}, pids)
}
