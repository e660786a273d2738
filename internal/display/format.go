package display

import "fmt"

// Fixed-width right-justified counter formatters. Every formatter returns
// the same byte string for the same input, so the diff engine can compare
// formatted cells directly.

// FormatCount renders a counter in 4 characters with k/M/G scaling.
func FormatCount(n uint64) string {
	switch {
	case n < 10000:
		return fmt.Sprintf("%4d", n)
	case n < 1000000:
		return fmt.Sprintf("%3dk", n/1000)
	case n < 1000000000:
		return fmt.Sprintf("%3dM", n/1000000)
	default:
		return fmt.Sprintf("%3dG", n/1000000000)
	}
}

// FormatBytes renders a byte total in 4 characters with binary scaling.
func FormatBytes(n uint64) string {
	switch {
	case n < 10000:
		return fmt.Sprintf("%4d", n)
	case n < 1048576:
		return fmt.Sprintf("%3dK", n/1024)
	case n < 1073741824:
		return fmt.Sprintf("%3dM", n/1048576)
	case n < 1099511627776:
		return fmt.Sprintf("%3dG", n/1073741824)
	default:
		return fmt.Sprintf("%3dT", n/1099511627776)
	}
}

// FormatRate renders a bytes-per-second rate in 4 characters.
func FormatRate(r float64) string {
	if r < 0 {
		r = 0
	}
	return FormatBytes(uint64(r))
}

// FormatQueue renders the jobs-in-queue counter in 4 characters.
func FormatQueue(n uint32) string {
	return FormatCount(uint64(n))
}

// FormatTransfers renders the active-transfer count in 2 characters,
// saturating at 99.
func FormatTransfers(n uint32) string {
	if n > 99 {
		n = 99
	}
	return fmt.Sprintf("%2d", n)
}

// FormatErrorHosts renders the host-error counter in 2 characters,
// saturating at 99.
func FormatErrorHosts(n uint32) string {
	if n > 99 {
		n = 99
	}
	return fmt.Sprintf("%2d", n)
}

// FormatErrorCount renders the error total in 3 characters with scaling.
func FormatErrorCount(n uint32) string {
	switch {
	case n < 1000:
		return fmt.Sprintf("%3d", n)
	case n < 1000000:
		return fmt.Sprintf("%2dk", n/1000)
	default:
		return fmt.Sprintf("%2dM", n/1000000)
	}
}

// FormatDisplayString builds the fixed-width identifier cell: the alias
// left-justified, with a toggle suffix when the site switches between two
// hostnames.
func FormatDisplayString(alias string, toggle uint8, mode string, width int) string {
	suffix := ""
	if mode != "none" {
		if toggle == 0 {
			suffix = "<1"
		} else {
			suffix = "<2"
		}
	}
	avail := width - len(suffix)
	if avail < 0 {
		avail = 0
	}
	if len(alias) > avail {
		alias = alias[:avail]
	}
	return fmt.Sprintf("%-*s%s", avail, alias, suffix)
}
