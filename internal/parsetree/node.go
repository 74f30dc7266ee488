// Package parsetree defines the tagged parse tree the parser produces:
// a tree of value nodes carrying source positions and completion flags,
// consumed immutably by the completer.
//
// Completeness is encoded structurally rather than as a separate state
// field: every node carries an optional End position, and a node is
// complete iff End is set. Containers are complete iff their closing
// delimiter was consumed; strings iff the closing quote was consumed;
// numbers always, including one cut short by EOF (its text drops any
// dangling fraction or exponent, and a lone "-" is kept as is); booleans
// and null iff the whole keyword was matched.
package parsetree

import "github.com/shapestone/shape-expand/internal/position"

// Kind discriminates the variant held by a Node.
type Kind int

const (
	KindObject Kind = iota
	KindArray
	KindString
	KindNumber
	KindBool
	KindNull
)

// Entry is one key/value pair inside an Object node.
//
// A dangling partial key, quoted or bare, still sets Key to the text
// read so far, so a truncated key remains visible to prefix matching.
// An entry with a key and colon but no value yet has Value == nil and
// HasColon == true.
type Entry struct {
	Key      *string
	Value    *Node
	HasColon bool
}

// Node is a tagged union over the JSON value kinds. Only the fields
// relevant to Kind are meaningful; the rest are zero.
type Node struct {
	Kind Kind

	Start position.Position
	End   *position.Position

	// Object
	Entries []Entry

	// Array
	Elements []*Node

	// String
	Text   string
	Closed bool

	// Number
	Raw string

	// Bool
	BoolValue bool
}

// IsComplete reports whether the node's closing delimiter (or terminal
// character, for numbers and literals) was observed before EOF.
func (n *Node) IsComplete() bool {
	return n != nil && n.End != nil
}
