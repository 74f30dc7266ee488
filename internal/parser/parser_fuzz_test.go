package parser

import (
	"testing"

	"github.com/shapestone/shape-expand/internal/rawschema"
)

// FuzzParse feeds random prefixes to Parse to make sure it never panics,
// including on truncations of otherwise-valid JSON documents.
//
// Run with: go test -fuzz=FuzzParse -fuzztime=30s
func FuzzParse(f *testing.F) {
	seeds := []string{
		`{}`,
		`[]`,
		`null`,
		`true`,
		`false`,
		`0`,
		`-456`,
		`123.456`,
		`1.23e10`,
		`""`,
		`"hello"`,
		`{"key": "value"}`,
		`{"a": 1, "b": 2}`,
		`[1, 2, 3]`,
		`{"nested": {"obj": {"value": 42}}}`,
		// Truncated prefixes: the interesting inputs for this parser.
		`{"a":1,`,
		`{"a":1,,"b":2}`,
		`{"temp`,
		`[1,2.`,
		`tr`,
		`nu`,
		`-`,
		`1e`,
		`"esc\`,
		`"uni\u00`,
	}

	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, input string) {
		defer func() {
			if r := recover(); r != nil {
				t.Errorf("Parse panicked on input %q: %v", input, r)
			}
		}()

		_, _ = Parse([]byte(input), rawschema.Empty())
	})
}
