package arena

import "fmt"

// TerminalPool is a single contiguous buffer holding decoded terminal bytes.
// Each terminal is stored as its bytes followed by a NUL; the offset at
// which a terminal begins is its handle, and terminals are immutable once
// inserted. The NUL terminator lets the NFA driver recover a terminal's
// length without a side table.
type TerminalPool struct {
	buf []byte
	max int
}

// NewTerminalPool creates a pool with a fixed maximum number of bytes.
func NewTerminalPool(maxBytes int) *TerminalPool {
	return &TerminalPool{buf: make([]byte, 0, maxBytes), max: maxBytes}
}

// Insert appends the decoded bytes of a terminal plus a NUL terminator and
// returns the offset at which the terminal begins. Empty terminals are
// rejected by the caller (spec: the empty string is not a legal terminal).
func (p *TerminalPool) Insert(decoded []byte) (int, error) {
	if len(p.buf)+len(decoded)+1 > p.max {
		return 0, fmt.Errorf("%w: terminal pool exhausted (max %d bytes)", ErrCapacityExceeded, p.max)
	}
	offset := len(p.buf)
	p.buf = append(p.buf, decoded...)
	p.buf = append(p.buf, 0)
	return offset, nil
}

// Bytes returns the NUL-terminated bytes of the terminal starting at offset,
// not including the NUL.
func (p *TerminalPool) Bytes(offset int) []byte {
	end := offset
	for end < len(p.buf) && p.buf[end] != 0 {
		end++
	}
	return p.buf[offset:end]
}
