// Package jsonexpand completes partial JSON text: byte prefixes of a
// conceptually complete JSON document, such as those arriving token by
// token from a streaming LLM response, into a fully-formed,
// schema-conformant value.
//
// Given a JSON Schema and an arbitrary prefix, Expand returns either a
// value whose shape matches the schema (with defaults filled in for
// properties the prefix hasn't reached yet) or nil, signaling that the
// prefix is unrecoverably malformed. It is designed to be called
// repeatedly on an ever-growing buffer so a caller can render
// increasingly refined snapshots of the final value as more of the
// stream arrives.
//
// The schema is treated purely as a source of structure, defaults,
// required-sets, and pattern rules: out-of-range numbers, bad string
// formats, and enum mismatches are never rejected, and values pass
// through unvalidated. Full JSON-Schema validation is out of scope.
package jsonexpand

import (
	"bytes"
	"fmt"

	"github.com/shapestone/shape-expand/internal/completer"
	"github.com/shapestone/shape-expand/internal/parser"
	"github.com/shapestone/shape-expand/internal/rawschema"
)

// Schema is an already-parsed JSON Schema document, as produced by
// ParseSchema.
type Schema = rawschema.Schema

// ParseSchema decodes a JSON Schema document. The only error this
// package ever returns comes from here: schema compilation is the one
// point at which a malformed input is a programmer/configuration error
// rather than an ordinary streaming artifact.
func ParseSchema(data []byte) (*Schema, error) {
	schema, err := rawschema.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("jsonexpand: %w", err)
	}
	return schema, nil
}

// Expand completes prefix against schema.
//
// An empty or whitespace-only prefix returns the schema's own default
// (falling back to a type-based zero value, and finally to nil). A
// non-empty prefix that the parser cannot make any sense of (two
// consecutive commas in an object, a closing brace or bracket dangling
// past an already-complete root value, or any other structurally
// impossible byte) also returns nil. Since a legitimate parse can also
// produce a JSON null, the two are only distinguishable by the caller
// knowing whether prefix was empty.
func Expand(schema *Schema, prefix []byte) any {
	trimmed := bytes.TrimSpace(prefix)
	if len(trimmed) == 0 {
		return completer.DefaultForSchema(schema)
	}

	tree, ok := parser.Parse(prefix, schema)
	if !ok {
		return nil
	}
	return completer.Complete(tree, schema)
}

// ExpandJSON is a convenience wrapper that parses schemaJSON before
// expanding prefix against it.
func ExpandJSON(schemaJSON []byte, prefix []byte) (any, error) {
	schema, err := ParseSchema(schemaJSON)
	if err != nil {
		return nil, err
	}
	return Expand(schema, prefix), nil
}
