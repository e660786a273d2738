package msa

// Binary layout of the mapped region. All multi-byte fields are
// little-endian and sit at fixed offsets so the collector and the console
// agree without any framing.

// Region header: one version byte, three pad bytes, then the site count.
const (
	offVersion   = 0
	offSiteCount = 4
	HeaderSize   = 8
)

// Offsets of the fields within one site record.
const (
	offAlias         = 0                                // [MaxAliasLength]byte
	offRemoteCmd     = offAlias + MaxAliasLength        // [MaxRemoteCmdLength]byte
	offToggle        = offRemoteCmd + MaxRemoteCmdLength // byte
	offSwitchingMode = offToggle + 1                    // byte
	offAMG           = offSwitchingMode + 1             // byte
	offFD            = offAMG + 1                       // byte
	offArchiveWatch  = offFD + 1                        // byte
	offConnectStatus = offArchiveWatch + 1              // byte
	offSysLogFifo    = offConnectStatus + 1             // [LogFifoSize]byte
	offLogHistory    = offSysLogFifo + LogFifoSize      // [3][MaxLogHistory]byte
	offSysLogEC      = offLogHistory + 3*MaxLogHistory  // uint32
	offJobsInQueue   = offSysLogEC + 4                  // uint32
	offNoOfTransfers = offJobsInQueue + 4               // uint32
	offHostErrorCnt  = offNoOfTransfers + 4             // uint32
	offNoOfHosts     = offHostErrorCnt + 4              // uint32
	offMaxConn       = offNoOfHosts + 4                 // uint32
	offDangerJobs    = offMaxConn + 4                   // uint32
	offErrorCount    = offDangerJobs + 4                // uint32
	offFiles         = offErrorCount + 4                // uint64
	offBytes         = offFiles + 8                     // uint64
	offConnRate      = offBytes + 8                     // uint64
	offLastDataTime  = offConnRate + 8                  // int64
	offTransferRate  = offLastDataTime + 8              // float64
	offOptions       = offTransferRate + 8              // uint32
	offPad           = offOptions + 4                   // uint32 pad, keeps 8-byte alignment
	offHostname0     = offPad + 4                       // [MaxHostnameLength]byte
	offHostname1     = offHostname0 + MaxHostnameLength // [MaxHostnameLength]byte
	offRemoteWorkDir = offHostname1 + MaxHostnameLength // [MaxWorkDirLength]byte
	offConvertFrom   = offRemoteWorkDir + MaxWorkDirLength // [MaxUserNameLength]byte
	offConvertTo     = offConvertFrom + MaxUserNameLength  // [MaxUserNameLength]byte
	recordEnd        = offConvertTo + MaxUserNameLength

	// SiteRecordSize is recordEnd rounded up to 8-byte alignment.
	SiteRecordSize = (recordEnd + 7) &^ 7
)

// Layout of the secondary monitor-health region.
const (
	offMonRunning    = 0
	offMonSysLogEC   = 4
	offMonEventLogEC = 8
	MonStatusSize    = 12
)

// RegionSize returns the byte size of an MSA region holding n sites.
func RegionSize(n int) int {
	return HeaderSize + n*SiteRecordSize
}
