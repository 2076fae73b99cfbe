package domain

// Target states of a translation unit, as used in XLIFF 1.2 files.
const (
	StateNew        = "new"
	StateTranslated = "translated"
	StateFinal      = "final"
)

// IsKnownState reports whether s is one of the states the editor offers.
func IsKnownState(s string) bool {
	switch s {
	case StateNew, StateTranslated, StateFinal:
		return true
	default:
		return false
	}
}

// SourceReference points at the place in the application source a message was extracted from.
type SourceReference struct {
	SourceFile string `json:"sourcefile"`
	LineNumber int    `json:"linenumber"`
}
