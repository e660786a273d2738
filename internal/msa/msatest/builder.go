// Package msatest builds Monitor Status Area images in memory so tests can
// exercise the reader and the display engine without a running collector.
package msatest

import (
	"encoding/binary"
	"math"
	"os"

	"github.com/holger24/AFD-sub001/internal/msa"
)

// Builder accumulates site records and produces an MSA byte image.
type Builder struct {
	Version byte
	Sites   []msa.SiteRecord
}

// NewBuilder creates a builder with the current layout version.
func NewBuilder() *Builder {
	return &Builder{Version: msa.CurrentMSAVersion}
}

// Add appends a site record and returns the builder for chaining.
func (b *Builder) Add(rec msa.SiteRecord) *Builder {
	b.Sites = append(b.Sites, rec)
	return b
}

// Site returns a minimal valid remote-site record with the given alias.
func Site(alias string) msa.SiteRecord {
	return msa.SiteRecord{
		Alias:          alias,
		RemoteCmd:      "ssh",
		AMG:            msa.SubsystemOn,
		FD:             msa.SubsystemOn,
		ArchiveWatch:   msa.SubsystemOn,
		NoOfHosts:      1,
		MaxConnections: 5,
		DangerNoOfJobs: 500,
	}
}

// Group returns a group-header record with the given alias.
func Group(alias string) msa.SiteRecord {
	return msa.SiteRecord{Alias: alias}
}

// Bytes encodes the full region image.
func (b *Builder) Bytes() []byte {
	out := make([]byte, msa.RegionSize(len(b.Sites)))
	out[0] = b.Version
	binary.LittleEndian.PutUint32(out[4:], uint32(len(b.Sites)))
	for i, rec := range b.Sites {
		encodeSite(out[msa.HeaderSize+i*msa.SiteRecordSize:], rec)
	}
	return out
}

// WriteFile writes the image to path with collector-style permissions.
func (b *Builder) WriteFile(path string) error {
	return os.WriteFile(path, b.Bytes(), 0o644)
}

// PatchSite rewrites the record at index i inside an existing image file.
// Used by tests that mutate a mapped region in place.
func PatchSite(path string, i int, rec msa.SiteRecord) error {
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return err
	}
	defer f.Close()

	buf := make([]byte, msa.SiteRecordSize)
	encodeSite(buf, rec)
	_, err = f.WriteAt(buf, int64(msa.HeaderSize+i*msa.SiteRecordSize))
	return err
}

// StatusBytes encodes a monitor-health record image.
func StatusBytes(st msa.MonitorStatus) []byte {
	out := make([]byte, msa.MonStatusSize)
	out[0] = st.Running
	binary.LittleEndian.PutUint32(out[4:], st.SysLogEC)
	binary.LittleEndian.PutUint32(out[8:], st.EventLogEC)
	return out
}

func encodeSite(b []byte, rec msa.SiteRecord) {
	putString(b[0:], rec.Alias, msa.MaxAliasLength)
	putString(b[msa.MaxAliasLength:], rec.RemoteCmd, msa.MaxRemoteCmdLength)

	fixed := msa.MaxAliasLength + msa.MaxRemoteCmdLength
	b[fixed+0] = rec.Toggle
	b[fixed+1] = byte(rec.SwitchingMode)
	b[fixed+2] = byte(rec.AMG)
	b[fixed+3] = byte(rec.FD)
	b[fixed+4] = byte(rec.ArchiveWatch)
	b[fixed+5] = byte(rec.ConnectStatus)
	copy(b[fixed+6:], rec.SysLogFifo[:])
	hist := fixed + 6 + msa.LogFifoSize
	for t := 0; t < 3; t++ {
		copy(b[hist+t*msa.MaxLogHistory:], rec.LogHistory[t][:])
	}

	u32 := hist + 3*msa.MaxLogHistory
	for j, v := range []uint32{
		rec.SysLogEC, rec.JobsInQueue, rec.NoOfTransfers, rec.HostErrorCnt,
		rec.NoOfHosts, rec.MaxConnections, rec.DangerNoOfJobs, rec.ErrorCount,
	} {
		binary.LittleEndian.PutUint32(b[u32+4*j:], v)
	}

	u64 := u32 + 4*8
	binary.LittleEndian.PutUint64(b[u64+0:], rec.Files)
	binary.LittleEndian.PutUint64(b[u64+8:], rec.Bytes)
	binary.LittleEndian.PutUint64(b[u64+16:], rec.ConnectionRate)
	binary.LittleEndian.PutUint64(b[u64+24:], uint64(rec.LastDataTime))
	binary.LittleEndian.PutUint64(b[u64+32:], math.Float64bits(rec.TransferRate))
	binary.LittleEndian.PutUint32(b[u64+40:], rec.Options)
	// 4 pad bytes after options

	str := u64 + 48
	putString(b[str:], rec.Hostnames[0], msa.MaxHostnameLength)
	putString(b[str+msa.MaxHostnameLength:], rec.Hostnames[1], msa.MaxHostnameLength)
	putString(b[str+2*msa.MaxHostnameLength:], rec.RemoteWorkDir, msa.MaxWorkDirLength)
	cv := str + 2*msa.MaxHostnameLength + msa.MaxWorkDirLength
	putString(b[cv:], rec.ConvertFrom, msa.MaxUserNameLength)
	putString(b[cv+msa.MaxUserNameLength:], rec.ConvertTo, msa.MaxUserNameLength)
}

func putString(b []byte, s string, max int) {
	if len(s) >= max {
		s = s[:max-1]
	}
	copy(b, s)
	// remainder stays zero (NUL padding)
}
