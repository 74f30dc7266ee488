// Package scanner implements the byte-cursor lexing surface shared by
// the parser: position-tracked advancement, whitespace skipping, and
// low-level byte predicates. It has no notion of JSON grammar beyond
// character classification; the parser drives it.
package scanner

import "github.com/shapestone/shape-expand/internal/position"

// Scanner is a position-tracking cursor over a byte buffer.
type Scanner struct {
	data []byte
	pos  int
	cur  position.Position
}

// New creates a Scanner positioned at the start of data.
func New(data []byte) *Scanner {
	return &Scanner{data: data, cur: position.Start()}
}

// Pos returns the current position.
func (s *Scanner) Pos() position.Position {
	return s.cur
}

// AtEnd reports whether the cursor has consumed all of data.
func (s *Scanner) AtEnd() bool {
	return s.pos >= len(s.data)
}

// Peek returns the byte at the cursor without advancing.
func (s *Scanner) Peek() (byte, bool) {
	if s.pos >= len(s.data) {
		return 0, false
	}
	return s.data[s.pos], true
}

// PeekAt returns the byte offset bytes ahead of the cursor without advancing.
func (s *Scanner) PeekAt(offset int) (byte, bool) {
	idx := s.pos + offset
	if idx >= len(s.data) {
		return 0, false
	}
	return s.data[idx], true
}

// Advance consumes and returns the byte at the cursor.
func (s *Scanner) Advance() (byte, bool) {
	b, ok := s.Peek()
	if !ok {
		return 0, false
	}
	s.pos++
	s.cur = s.cur.Advance(b)
	return b, true
}

// SkipWhitespace consumes runs of space, tab, CR, and LF.
func (s *Scanner) SkipWhitespace() {
	for {
		b, ok := s.Peek()
		if !ok || !isWhitespace(b) {
			return
		}
		s.Advance()
	}
}

// Slice returns data[from.Offset:s.pos], the bytes consumed since from.
func (s *Scanner) Slice(from position.Position) string {
	return string(s.data[from.Offset:s.pos])
}

// Seek rewinds (or fast-forwards) the cursor to a previously observed
// position, e.g. to backtrack a number parse past a dangling fraction
// or exponent fragment.
func (s *Scanner) Seek(p position.Position) {
	s.pos = p.Offset
	s.cur = p
}

func isWhitespace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\n'
}

// IsDigit reports whether b is an ASCII decimal digit.
func IsDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// IsHexDigit reports whether b is an ASCII hexadecimal digit.
func IsHexDigit(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

// IsBareKeyStop reports whether b terminates a bare (unquoted) partial
// object key: `:`, `,`, `}`, or whitespace.
func IsBareKeyStop(b byte) bool {
	switch b {
	case ':', ',', '}', ' ', '\t', '\r', '\n':
		return true
	default:
		return false
	}
}

// IsAlpha reports whether b is an ASCII letter, used to scan the
// alphabetic run a truncated `true`/`false`/`null` literal is checked
// against.
func IsAlpha(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
