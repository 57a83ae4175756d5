package arena

// Limits holds the capacity table from spec §6. Defaults match the spec;
// the CLI (cmd/lexforge) may override individual fields.
type Limits struct {
	MaxNonTerminals     int
	MaxNonTermNameLen   int
	MaxTerminalBytes    int
	MaxExprNodes        int
	MaxLineLength       int
	MaxNFAStates        int
	MaxNFAEdgesPerState int
	MaxNFAHandles       int
}

// DefaultLimits returns the capacity table exactly as specified.
func DefaultLimits() Limits {
	const maxNonTerminals = 256
	const maxNFAStates = 1024
	l := Limits{
		MaxNonTerminals:     maxNonTerminals,
		MaxNonTermNameLen:   64,
		MaxTerminalBytes:    8192,
		MaxExprNodes:        4 * maxNonTerminals,
		MaxLineLength:       1024,
		MaxNFAStates:        maxNFAStates,
		MaxNFAEdgesPerState: 128,
		MaxNFAHandles:       maxNFAStates / 4,
	}
	return l
}
