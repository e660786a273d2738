package ui

// Unicode symbols for per-line status in command output.
const (
	SymbolSuccess = "✓"
	SymbolFail    = "✗"
	SymbolWarn    = "!"
)
