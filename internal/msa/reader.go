package msa

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"

	"golang.org/x/sys/unix"

	"github.com/holger24/AFD-sub001/internal/errors"
	"github.com/holger24/AFD-sub001/internal/logger"
)

// Reader provides access to a mapped Monitor Status Area.
//
// The mapping is read-mostly: the collector updates it concurrently and the
// reader takes no locks. Every individual field decode is consistent but a
// whole record is not a snapshot; the diff engine tolerates partial overlap.
type Reader struct {
	path string
	file *os.File
	data []byte
	n    int
	log  logger.Logger
}

// Attach opens and maps the MSA file at path.
//
// Returns an errors.Error with code MSA when the file cannot be opened or
// mapped (Unavailable) or when the layout version tag differs from
// CurrentMSAVersion (VersionMismatch). Both are fatal bootstrap conditions.
func Attach(path string, log logger.Logger) (*Reader, error) {
	if log == nil {
		log = logger.Noop()
	}

	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrMSA,
			"Cannot open monitor status area: "+path,
			"Check that the collector is running and AFD_MON_WORK_DIR is correct")
	}

	r := &Reader{path: path, file: f, log: log}
	if err := r.remap(); err != nil {
		_ = f.Close()
		return nil, err
	}

	version := r.data[offVersion]
	if version != CurrentMSAVersion {
		_ = r.Close()
		return nil, errors.New(errors.ErrMSA,
			fmt.Sprintf("Monitor status area version mismatch: collector writes v%d, console expects v%d", version, CurrentMSAVersion),
			"Upgrade the older of the two so the layout tags match")
	}

	r.n = r.siteCount()
	log.Debug("attached MSA %s: version %d, %d sites", path, version, r.n)
	return r, nil
}

// remap sizes the mapping to the current file length.
func (r *Reader) remap() error {
	if r.data != nil {
		_ = unix.Munmap(r.data)
		r.data = nil
	}

	fi, err := r.file.Stat()
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrMSA,
			"Cannot stat monitor status area", "")
	}
	if fi.Size() < HeaderSize {
		return errors.New(errors.ErrMSA,
			fmt.Sprintf("Monitor status area too small: %d bytes", fi.Size()),
			"The collector has not finished initializing; retry shortly")
	}

	data, err := unix.Mmap(int(r.file.Fd()), 0, int(fi.Size()),
		unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrMSA,
			"Cannot map monitor status area", "")
	}

	r.data = data
	return nil
}

// siteCount reads the current header count, clamped to what the mapping
// can actually hold.
func (r *Reader) siteCount() int {
	n := int(binary.LittleEndian.Uint32(r.data[offSiteCount:]))
	max := (len(r.data) - HeaderSize) / SiteRecordSize
	if n > max {
		n = max
	}
	if n < 0 {
		n = 0
	}
	return n
}

// NumSites returns the site count seen at the last Attach or Refresh.
func (r *Reader) NumSites() int {
	return r.n
}

// Refresh re-reads the header count and remaps when the region grew or
// shrank. It reports whether the site count changed.
func (r *Reader) Refresh() (resized bool, n int, err error) {
	// Remap first when the file grew beyond the current mapping.
	fi, statErr := r.file.Stat()
	if statErr == nil && int(fi.Size()) != len(r.data) {
		if err := r.remap(); err != nil {
			return false, r.n, err
		}
	}

	n = r.siteCount()
	if n != r.n {
		r.log.Debug("MSA resized: %d -> %d sites", r.n, n)
		r.n = n
		return true, n, nil
	}
	return false, n, nil
}

// Site decodes the record at index i. Out-of-range indices yield a zero
// record; the caller reconciles against NumSites.
func (r *Reader) Site(i int) SiteRecord {
	if i < 0 || i >= r.n {
		return SiteRecord{}
	}
	return decodeSite(r.data[HeaderSize+i*SiteRecordSize:])
}

// SetToggle writes the host toggle for site i back into the region.
// This is the only field the console ever writes.
func (r *Reader) SetToggle(i int, v uint8) {
	if i < 0 || i >= r.n {
		return
	}
	r.data[HeaderSize+i*SiteRecordSize+offToggle] = v
}

// Close unmaps the region and closes the backing file.
func (r *Reader) Close() error {
	if r.data != nil {
		_ = unix.Munmap(r.data)
		r.data = nil
	}
	if r.file != nil {
		err := r.file.Close()
		r.file = nil
		return err
	}
	return nil
}

// decodeSite decodes one site record from b (b must hold SiteRecordSize bytes).
func decodeSite(b []byte) SiteRecord {
	var rec SiteRecord

	rec.Alias = cString(b[offAlias : offAlias+MaxAliasLength])
	rec.RemoteCmd = cString(b[offRemoteCmd : offRemoteCmd+MaxRemoteCmdLength])
	rec.Toggle = b[offToggle]
	rec.SwitchingMode = SwitchingMode(b[offSwitchingMode])
	rec.AMG = SubsystemState(b[offAMG])
	rec.FD = SubsystemState(b[offFD])
	rec.ArchiveWatch = SubsystemState(b[offArchiveWatch])
	rec.ConnectStatus = ConnectStatus(b[offConnectStatus])
	copy(rec.SysLogFifo[:], b[offSysLogFifo:offSysLogFifo+LogFifoSize])
	for t := 0; t < 3; t++ {
		copy(rec.LogHistory[t][:], b[offLogHistory+t*MaxLogHistory:offLogHistory+(t+1)*MaxLogHistory])
	}
	rec.SysLogEC = binary.LittleEndian.Uint32(b[offSysLogEC:])
	rec.JobsInQueue = binary.LittleEndian.Uint32(b[offJobsInQueue:])
	rec.NoOfTransfers = binary.LittleEndian.Uint32(b[offNoOfTransfers:])
	rec.HostErrorCnt = binary.LittleEndian.Uint32(b[offHostErrorCnt:])
	rec.NoOfHosts = binary.LittleEndian.Uint32(b[offNoOfHosts:])
	rec.MaxConnections = binary.LittleEndian.Uint32(b[offMaxConn:])
	rec.DangerNoOfJobs = binary.LittleEndian.Uint32(b[offDangerJobs:])
	rec.ErrorCount = binary.LittleEndian.Uint32(b[offErrorCount:])
	rec.Files = binary.LittleEndian.Uint64(b[offFiles:])
	rec.Bytes = binary.LittleEndian.Uint64(b[offBytes:])
	rec.ConnectionRate = binary.LittleEndian.Uint64(b[offConnRate:])
	rec.LastDataTime = int64(binary.LittleEndian.Uint64(b[offLastDataTime:]))
	rec.TransferRate = math.Float64frombits(binary.LittleEndian.Uint64(b[offTransferRate:]))
	rec.Options = binary.LittleEndian.Uint32(b[offOptions:])
	rec.Hostnames[0] = cString(b[offHostname0 : offHostname0+MaxHostnameLength])
	rec.Hostnames[1] = cString(b[offHostname1 : offHostname1+MaxHostnameLength])
	rec.RemoteWorkDir = cString(b[offRemoteWorkDir : offRemoteWorkDir+MaxWorkDirLength])
	rec.ConvertFrom = cString(b[offConvertFrom : offConvertFrom+MaxUserNameLength])
	rec.ConvertTo = cString(b[offConvertTo : offConvertTo+MaxUserNameLength])

	return rec
}

// cString interprets b as a NUL-terminated byte string.
func cString(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}
