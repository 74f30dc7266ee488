package rawschema

import "testing"

func TestParse(t *testing.T) {
	schema, err := Parse([]byte(`{"type":"object","properties":{"a":{"type":"string"}}}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if schema.Properties == nil {
		t.Fatal("expected Properties to be set")
	}
	if _, ok := (*schema.Properties)["a"]; !ok {
		t.Fatal("expected property \"a\" to be present")
	}
}

func TestParseInvalid(t *testing.T) {
	if _, err := Parse([]byte(`not json`)); err == nil {
		t.Fatal("expected an error for invalid schema JSON")
	}
}

func TestEmpty(t *testing.T) {
	s := Empty()
	if s.Properties != nil {
		t.Fatal("Empty() should have no properties")
	}
	if len(s.Type) != 0 {
		t.Fatal("Empty() should have no type constraint")
	}
}
