package display

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatCount(t *testing.T) {
	tests := []struct {
		in   uint64
		want string
	}{
		{0, "   0"},
		{42, "  42"},
		{9999, "9999"},
		{10000, " 10k"},
		{999999, "999k"},
		{1000000, "  1M"},
		{2500000000, "  2G"},
	}

	for _, tt := range tests {
		got := FormatCount(tt.in)
		assert.Equal(t, tt.want, got)
		assert.Len(t, got, 4, "cell width is fixed")
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   uint64
		want string
	}{
		{0, "   0"},
		{512, " 512"},
		{10000, "  9K"},
		{1048576, "  1M"},
		{5 * 1073741824, "  5G"},
		{2 * 1099511627776, "  2T"},
	}

	for _, tt := range tests {
		got := FormatBytes(tt.in)
		assert.Equal(t, tt.want, got)
		assert.Len(t, got, 4)
	}
}

func TestFormatRateClampsNegative(t *testing.T) {
	assert.Equal(t, "   0", FormatRate(-3.5))
	assert.Equal(t, " 100", FormatRate(100.9))
}

func TestFormatTransfersSaturates(t *testing.T) {
	assert.Equal(t, " 0", FormatTransfers(0))
	assert.Equal(t, " 7", FormatTransfers(7))
	assert.Equal(t, "99", FormatTransfers(99))
	assert.Equal(t, "99", FormatTransfers(250))
}

func TestFormatErrorHostsSaturates(t *testing.T) {
	assert.Equal(t, " 0", FormatErrorHosts(0))
	assert.Equal(t, "99", FormatErrorHosts(100))
}

func TestFormatErrorCount(t *testing.T) {
	tests := []struct {
		in   uint32
		want string
	}{
		{0, "  0"},
		{999, "999"},
		{1000, " 1k"},
		{5000000, " 5M"},
	}

	for _, tt := range tests {
		got := FormatErrorCount(tt.in)
		assert.Equal(t, tt.want, got)
		assert.Len(t, got, 3)
	}
}

func TestFormatDisplayString(t *testing.T) {
	tests := []struct {
		name   string
		alias  string
		toggle uint8
		mode   string
		width  int
		want   string
	}{
		{"no switching pads to width", "ber", 0, "none", 8, "ber     "},
		{"primary toggle suffix", "ber", 0, "auto", 8, "ber   <1"},
		{"secondary toggle suffix", "ber", 1, "user", 8, "ber   <2"},
		{"long alias truncates", "verylongalias", 0, "none", 6, "verylo"},
		{"suffix wins over alias", "verylongalias", 1, "auto", 6, "very<2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatDisplayString(tt.alias, tt.toggle, tt.mode, tt.width)
			assert.Equal(t, tt.want, got)
			assert.Len(t, got, tt.width)
		})
	}
}
