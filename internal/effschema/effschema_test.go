package effschema

import (
	"testing"

	"github.com/shapestone/shape-expand/internal/rawschema"
)

func mustParse(t *testing.T, doc string) *rawschema.Schema {
	t.Helper()
	s, err := rawschema.Parse([]byte(doc))
	if err != nil {
		t.Fatalf("rawschema.Parse: %v", err)
	}
	return s
}

func TestResolveProperties(t *testing.T) {
	schema := mustParse(t, `{
		"type": "object",
		"required": ["name"],
		"properties": {
			"name": {"type": "string"},
			"age": {"type": "integer", "default": 0}
		}
	}`)

	eff := Resolve(schema, schema)

	if !eff.IsRequired("name") {
		t.Fatal("name should be required")
	}
	if eff.IsRequired("age") {
		t.Fatal("age should not be required")
	}
	if eff.PropertySchema("missing") != nil {
		t.Fatal("PropertySchema(missing) should be nil")
	}
	if s := eff.PropertySchema("age"); s == nil {
		t.Fatal("PropertySchema(age) should resolve")
	}
}

func TestResolvePatternProperties(t *testing.T) {
	schema := mustParse(t, `{
		"type": "object",
		"patternProperties": {
			"^x-": {"type": "string"}
		}
	}`)
	eff := Resolve(schema, schema)

	if !eff.IsKnownKey("x-foo") {
		t.Fatal("x-foo should match patternProperties")
	}
	if eff.IsKnownKey("foo") {
		t.Fatal("foo should not match patternProperties")
	}
}

func TestUniquePrefixMatch(t *testing.T) {
	schema := mustParse(t, `{
		"properties": {
			"temperature": {"type": "number"},
			"humidity": {"type": "number"}
		}
	}`)
	eff := Resolve(schema, schema)

	match, ok := eff.UniquePrefixMatch("temp")
	if !ok || match != "temperature" {
		t.Fatalf("UniquePrefixMatch(temp) = (%q, %v), want (temperature, true)", match, ok)
	}

	_, ok = eff.UniquePrefixMatch("t")
	if !ok {
		t.Fatal("UniquePrefixMatch(t) should uniquely match temperature")
	}

	_, ok = eff.UniquePrefixMatch("")
	if ok {
		t.Fatal("UniquePrefixMatch(\"\") should be ambiguous across both properties")
	}
}

func TestAllOfMerge(t *testing.T) {
	schema := mustParse(t, `{
		"allOf": [
			{"properties": {"a": {"type": "string"}}, "required": ["a"]},
			{"properties": {"b": {"type": "number"}}, "required": ["b"]}
		]
	}`)
	eff := Resolve(schema, schema)

	if !eff.AllOfMerged {
		t.Fatal("AllOfMerged should be true")
	}
	if eff.PropertySchema("a") == nil || eff.PropertySchema("b") == nil {
		t.Fatal("both allOf branches' properties should be present")
	}
	if !eff.IsRequired("a") || !eff.IsRequired("b") {
		t.Fatal("required sets from both allOf branches should union")
	}
}

func TestItemSchemaTuple(t *testing.T) {
	schema := mustParse(t, `{
		"prefixItems": [
			{"type": "string"},
			{"type": "number"}
		]
	}`)
	eff := Resolve(schema, schema)

	if eff.ItemSchema(0) == nil || eff.ItemSchema(1) == nil {
		t.Fatal("in-bounds tuple indices should resolve")
	}
	overflow := eff.ItemSchema(5)
	if overflow == nil {
		t.Fatal("overflow index should resolve to the empty schema, not nil")
	}
}

func TestPermitsNull(t *testing.T) {
	unconstrained := Resolve(mustParse(t, `{}`), nil)
	if !unconstrained.PermitsNull() {
		t.Fatal("a schema with no type constraint should permit null")
	}

	stringOnly := Resolve(mustParse(t, `{"type":"string"}`), nil)
	if stringOnly.PermitsNull() {
		t.Fatal("a string-only schema should not permit null")
	}

	nullable := Resolve(mustParse(t, `{"type":["string","null"]}`), nil)
	if !nullable.PermitsNull() {
		t.Fatal("a [string,null] schema should permit null")
	}
}

func TestSelfReferenceSentinel(t *testing.T) {
	schema := mustParse(t, `{
		"type": "object",
		"properties": {
			"children": {
				"type": "array",
				"items": {"$ref": "#"}
			}
		}
	}`)
	childrenSchema := schema.Properties
	if childrenSchema == nil {
		t.Fatal("expected properties to be set")
	}
	childEff := Resolve((*childrenSchema)["children"], schema)
	if childEff.Items != schema {
		t.Fatal("items with $ref:# should resolve to the root schema")
	}
	if !childEff.SuppressItemDefault {
		t.Fatal("SuppressItemDefault should be set for a self-referential items schema")
	}
}
