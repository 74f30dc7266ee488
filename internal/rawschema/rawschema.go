// Package rawschema parses JSON Schema documents into
// github.com/kaptinlin/jsonschema's Schema type, which this module
// reuses purely as a structural data model, never compiled or
// validated against. Full JSON-Schema validation (formats, numeric
// bounds, enum enforcement) is explicitly out of scope; only structure,
// defaults, required-sets, and pattern rules are read from it.
package rawschema

import (
	"encoding/json"
	"fmt"

	"github.com/kaptinlin/jsonschema"
)

// Schema is the raw, unresolved schema as parsed from JSON Schema text.
type Schema = jsonschema.Schema

// SchemaMap is the map type used by Schema.Properties/PatternProperties.
type SchemaMap = jsonschema.SchemaMap

// NewSchemaMap builds a *SchemaMap from a plain Go map, for synthesizing
// merged schemas (e.g. allOf flattening).
func NewSchemaMap(m map[string]*Schema) *SchemaMap {
	sm := SchemaMap(m)
	return &sm
}

// Parse decodes a JSON Schema document into a *Schema.
//
// Schema.UnmarshalJSON (defined by kaptinlin/jsonschema) is reused as-is;
// it already knows how to fold Draft-7 tuple-form "items"/"additionalItems"
// into PrefixItems/Items and "definitions" into $defs. No compiler step
// runs afterward; this package never calls jsonschema.NewCompiler.
func Parse(data []byte) (*Schema, error) {
	schema := &Schema{}
	if err := json.Unmarshal(data, schema); err != nil {
		return nil, fmt.Errorf("rawschema: invalid schema document: %w", err)
	}
	return schema, nil
}

// Empty returns the permissive "true" schema: no type constraint, no
// properties, no default. Used wherever an empty schema is called for,
// e.g. an array with no items schema, or a property with no matching
// sub-schema.
func Empty() *Schema {
	return &Schema{}
}
