package msatest

import "github.com/holger24/AFD-sub001/internal/msa"

// FakeMSA is a slice-backed stand-in for the mapped reader. Tests mutate
// Records directly between ticks.
type FakeMSA struct {
	Records []msa.SiteRecord
}

// NewFakeMSA creates a fake provider over the given records.
func NewFakeMSA(records ...msa.SiteRecord) *FakeMSA {
	return &FakeMSA{Records: records}
}

// NumSites returns the current record count.
func (f *FakeMSA) NumSites() int {
	return len(f.Records)
}

// Site returns the record at i, or a zero record when out of range.
func (f *FakeMSA) Site(i int) msa.SiteRecord {
	if i < 0 || i >= len(f.Records) {
		return msa.SiteRecord{}
	}
	return f.Records[i]
}

// SetToggle flips the toggle field like the real write-back.
func (f *FakeMSA) SetToggle(i int, v uint8) {
	if i >= 0 && i < len(f.Records) {
		f.Records[i].Toggle = v
	}
}

// Find returns the index of the record with the given alias, or -1.
func (f *FakeMSA) Find(alias string) int {
	for i := range f.Records {
		if f.Records[i].Alias == alias {
			return i
		}
	}
	return -1
}
