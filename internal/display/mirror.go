package display

import (
	"github.com/holger24/AFD-sub001/internal/msa"
	"github.com/holger24/AFD-sub001/internal/sink"
)

// Inverse is the tri-state selection mode of a row.
type Inverse int

const (
	InverseOff Inverse = iota
	InverseOn          // transient, cleared after an action dispatch
	InverseStatic      // sticky, survives actions
)

// PlusMinus is the fold state of a group and its members.
type PlusMinus int

const (
	PlusMinusOpen PlusMinus = iota
	PlusMinusClosed
)

// BlinkPhase is the two-phase oscillator animating LEDs of a site with a
// subsystem reported off.
type BlinkPhase int

const (
	BlinkOn BlinkPhase = iota
	BlinkTrBar
)

// Row is the per-site mirror: every authoritative MSA field the diff engine
// compares, plus the derived display quantities.
type Row struct {
	// Mirrored MSA fields.
	Alias          string
	RemoteCmd      string
	Toggle         uint8
	SwitchingMode  msa.SwitchingMode
	AMG            msa.SubsystemState
	FD             msa.SubsystemState
	ArchiveWatch   msa.SubsystemState
	ConnectStatus  msa.ConnectStatus
	SysLogFifo     [msa.LogFifoSize]byte
	LogHistory     [3][msa.MaxLogHistory]byte
	SysLogEC       uint32
	JobsInQueue    uint32
	NoOfTransfers  uint32
	HostErrorCnt   uint32
	NoOfHosts      uint32
	MaxConnections uint32
	DangerNoOfJobs uint32
	ErrorCount     uint32
	Files          uint64
	Bytes          uint64
	ConnectionRate uint64
	LastDataTime   int64
	TransferRate   float64
	Hostnames      [2]string

	// Derived display fields.
	AliasLen      int
	DisplayString string
	Scale         [2]float64 // [0] per transfer, [1] per host
	BarLength     [3]int     // indexed by sink.BarRate/BarActive/BarError
	AverageTR     float64
	MaxAverageTR  float64
	StrFiles      string
	StrBytes      string
	StrRate       string
	StrConnRate   string
	StrErrors     string
	StrQueue      string
	StrTransfers  string
	StrErrorHosts string
	BlinkFlag     bool
	BlinkPhase    BlinkPhase
	PlusMinus     PlusMinus
	Inverse       Inverse
	GreenOffset   int
	BlueOffset    int
	LinkMax       uint32
}

// IsGroup reports whether the row is a group header.
func (r *Row) IsGroup() bool {
	return r.RemoteCmd == ""
}

// Visible reports whether the row appears in the visible position list.
// Group headers are always visible; members only while their fold is open.
func (r *Row) Visible() bool {
	return r.IsGroup() || r.PlusMinus == PlusMinusOpen
}

// Selected reports whether the row is selected in either mode.
func (r *Row) Selected() bool {
	return r.Inverse != InverseOff
}

// Store owns the mirror array, the layout vectors, and the selection
// counters. The diff engine and the selection handlers are its only
// mutators.
type Store struct {
	Rows             []*Row
	VisiblePositions []int
	NoOfVisible      int
	NoOfInvisible    int
	NoSelected       int
	NoSelectedStatic int
	Geo              Geometry

	// lastDragged guards drag-toggle against re-firing on the same row.
	lastDragged int
}

// NewStore creates an empty store with the given geometry.
func NewStore(geo Geometry) *Store {
	return &Store{Geo: geo, lastDragged: -1}
}

// NewRow builds a fresh mirror row from an MSA record with all derived
// fields computed. A new row blinks iff any subsystem is off.
func (s *Store) NewRow(rec msa.SiteRecord) *Row {
	r := &Row{
		Alias:          rec.Alias,
		RemoteCmd:      rec.RemoteCmd,
		Toggle:         rec.Toggle,
		SwitchingMode:  rec.SwitchingMode,
		AMG:            rec.AMG,
		FD:             rec.FD,
		ArchiveWatch:   rec.ArchiveWatch,
		ConnectStatus:  rec.ConnectStatus,
		SysLogFifo:     rec.SysLogFifo,
		LogHistory:     rec.LogHistory,
		SysLogEC:       rec.SysLogEC,
		JobsInQueue:    rec.JobsInQueue,
		NoOfTransfers:  rec.NoOfTransfers,
		HostErrorCnt:   rec.HostErrorCnt,
		NoOfHosts:      rec.NoOfHosts,
		MaxConnections: rec.MaxConnections,
		DangerNoOfJobs: rec.DangerNoOfJobs,
		ErrorCount:     rec.ErrorCount,
		Files:          rec.Files,
		Bytes:          rec.Bytes,
		ConnectionRate: rec.ConnectionRate,
		LastDataTime:   rec.LastDataTime,
		TransferRate:   rec.TransferRate,
		Hostnames:      rec.Hostnames,
		AliasLen:       len(rec.Alias),
		LinkMax:        rec.DangerNoOfJobs * 2,
	}

	maxBar := s.Geo.MaxBarLength
	r.Scale[0] = ActiveScale(rec.MaxConnections, maxBar)
	r.Scale[1] = ErrorScale(rec.NoOfHosts, maxBar)
	r.BarLength[sink.BarActive] = ActiveBar(rec.NoOfTransfers, rec.MaxConnections, maxBar)
	r.BarLength[sink.BarError] = ErrorBar(rec.HostErrorCnt, rec.NoOfHosts, maxBar)
	r.AverageTR = rec.TransferRate
	r.MaxAverageTR = rec.TransferRate
	r.BarLength[sink.BarRate] = RateBar(r.AverageTR, r.MaxAverageTR, maxBar)
	r.GreenOffset, r.BlueOffset = ColorOffsets(r.BarLength[sink.BarActive], s.Geo.StepSize)

	r.DisplayString = FormatDisplayString(rec.Alias, rec.Toggle, rec.SwitchingMode.String(), s.Geo.AliasWidth)
	r.StrFiles = FormatCount(rec.Files)
	r.StrBytes = FormatBytes(rec.Bytes)
	r.StrRate = FormatRate(rec.TransferRate)
	r.StrConnRate = FormatCount(rec.ConnectionRate)
	r.StrErrors = FormatErrorCount(rec.ErrorCount)
	r.StrQueue = FormatQueue(rec.JobsInQueue)
	r.StrTransfers = FormatTransfers(rec.NoOfTransfers)
	r.StrErrorHosts = FormatErrorHosts(rec.HostErrorCnt)

	if !rec.IsGroup() && !rec.AllSubsystemsOn() {
		r.BlinkFlag = true
	}

	return r
}

// FindByAlias returns the index of the row with the given alias, or -1.
func (s *Store) FindByAlias(alias string) int {
	for i, r := range s.Rows {
		if r.Alias == alias {
			return i
		}
	}
	return -1
}

// FindByHostname matches alias or the secondary real hostname, for the
// operator search path.
func (s *Store) FindByHostname(name string) int {
	for i, r := range s.Rows {
		if r.Alias == name || r.Hostnames[1] == name {
			return i
		}
	}
	return -1
}

// RecomputeVisibility rebuilds the visible position list and the
// visible/invisible counters from the rows' fold states.
func (s *Store) RecomputeVisibility() {
	s.VisiblePositions = s.VisiblePositions[:0]
	for i, r := range s.Rows {
		if r.Visible() {
			s.VisiblePositions = append(s.VisiblePositions, i)
		}
	}
	s.NoOfVisible = len(s.VisiblePositions)
	s.NoOfInvisible = len(s.Rows) - s.NoOfVisible
}

// VisibleIndex returns the visible position of site index i, or -1 when
// the row is folded away.
func (s *Store) VisibleIndex(i int) int {
	for pos, idx := range s.VisiblePositions {
		if idx == i {
			return pos
		}
	}
	return -1
}

// LocateXY maps a visible position to surface coordinates using the
// current geometry.
func (s *Store) LocateXY(pos int) (x, y int) {
	return s.Geo.LocateXY(pos)
}

// clearSelection forces a row to InverseOff, decrementing whichever
// selection counter it was held under. Safe to call on unselected rows.
func (s *Store) clearSelection(r *Row) {
	switch r.Inverse {
	case InverseOn:
		s.NoSelected--
	case InverseStatic:
		s.NoSelectedStatic--
	}
	r.Inverse = InverseOff
}

// SelectionCount returns the number of rows selected in either mode.
func (s *Store) SelectionCount() int {
	return s.NoSelected + s.NoSelectedStatic
}

// SelectedIndices returns the site indices of all selected rows in order.
func (s *Store) SelectedIndices() []int {
	var out []int
	for i, r := range s.Rows {
		if r.Selected() {
			out = append(out, i)
		}
	}
	return out
}
