// Package effschema resolves a raw JSON Schema into the effective view
// the parser and completer actually consume: flattened allOf, a
// required set, compiled patternProperties, and per-index item
// resolution. anyOf/oneOf are deliberately passed through unchanged:
// callers only ever see the raw schema's own surface properties for
// those keywords; this package never disambiguates a union.
package effschema

import (
	"regexp"

	"github.com/shapestone/shape-expand/internal/rawschema"
)

// PatternEntry pairs a compiled patternProperties regex with its schema.
// Invalid patterns are dropped silently; a malformed schema fragment
// never fails parsing or completion.
type PatternEntry struct {
	Pattern *regexp.Regexp
	Schema  *rawschema.Schema
}

// Effective is the schema view the parser and completer operate on.
type Effective struct {
	raw  *rawschema.Schema
	root *rawschema.Schema

	Properties        map[string]*rawschema.Schema
	PatternProperties []PatternEntry
	Required          map[string]struct{}
	TypeList          []string

	Items       *rawschema.Schema
	PrefixItems []*rawschema.Schema

	AdditionalPropertiesAllowed bool

	HasDefault bool
	Default    any

	AllOfMerged bool

	// SuppressItemDefault is set when Items resolved through a "$ref":
	// "#" sentinel inside an array's items. The completer must not
	// recurse into that schema's own default expansion, or a
	// self-referential schema would expand forever.
	SuppressItemDefault bool
}

// Resolve builds the effective view of raw, given the root schema of the
// current expand() call (needed to interpret a bare "#" self-reference).
// A nil raw resolves to the permissive empty schema.
func Resolve(raw *rawschema.Schema, root *rawschema.Schema) *Effective {
	if raw == nil {
		raw = rawschema.Empty()
	}
	if root == nil {
		root = raw
	}

	merged := raw
	allOfMerged := false
	if len(raw.AllOf) > 0 {
		merged = mergeAllOf(raw)
		allOfMerged = true
	}

	eff := &Effective{
		raw:         merged,
		root:        root,
		Required:    toSet(merged.Required),
		TypeList:    typeList(merged),
		AllOfMerged: allOfMerged,
	}

	if merged.Properties != nil {
		eff.Properties = map[string]*rawschema.Schema(*merged.Properties)
	}

	if merged.PatternProperties != nil {
		for pattern, sub := range *merged.PatternProperties {
			re, err := regexp.Compile(pattern)
			if err != nil {
				continue
			}
			eff.PatternProperties = append(eff.PatternProperties, PatternEntry{Pattern: re, Schema: sub})
		}
	}

	eff.AdditionalPropertiesAllowed = additionalPropertiesAllowed(merged.AdditionalProperties)

	if merged.Default != nil {
		eff.HasDefault = true
		eff.Default = merged.Default
	}

	resolveItems(eff, merged, root)

	return eff
}

func resolveItems(eff *Effective, merged *rawschema.Schema, root *rawschema.Schema) {
	eff.PrefixItems = merged.PrefixItems
	if merged.Items == nil {
		return
	}
	if merged.Items.Ref == "#" {
		eff.Items = root
		eff.SuppressItemDefault = true
		return
	}
	if merged.Items.Ref != "" {
		eff.Items = rawschema.Empty()
		return
	}
	eff.Items = merged.Items
}

// PropertySchema resolves the sub-schema for key k: first an explicit
// properties entry, else the first matching patternProperties regex,
// else nil (caller should treat as the empty schema).
func (e *Effective) PropertySchema(k string) *rawschema.Schema {
	if s, ok := e.Properties[k]; ok {
		return s
	}
	for _, pe := range e.PatternProperties {
		if pe.Pattern.MatchString(k) {
			return pe.Schema
		}
	}
	return nil
}

// IsKnownKey reports whether k is an explicit property or matches a
// patternProperties regex, i.e. whether it counts as a "recognised" key
// for the malformed-prefix sentinel during completion.
func (e *Effective) IsKnownKey(k string) bool {
	if _, ok := e.Properties[k]; ok {
		return true
	}
	for _, pe := range e.PatternProperties {
		if pe.Pattern.MatchString(k) {
			return true
		}
	}
	return false
}

// IsRequired reports whether k is in the schema's required set.
func (e *Effective) IsRequired(k string) bool {
	_, ok := e.Required[k]
	return ok
}

// UniquePrefixMatch implements the partial-key disambiguation rule: if
// exactly one property name in the schema starts with p, returns it.
// Matching is case-sensitive and purely prefix-based.
func (e *Effective) UniquePrefixMatch(p string) (string, bool) {
	var match string
	count := 0
	for k := range e.Properties {
		if len(k) >= len(p) && k[:len(p)] == p {
			match = k
			count++
			if count > 1 {
				return "", false
			}
		}
	}
	if count == 1 {
		return match, true
	}
	return "", false
}

// ItemSchema returns the sub-schema that governs element i of an array,
// honoring Draft-07 tuple ("prefixItems") form:
// indices within the tuple use their per-index schema; indices beyond it
// (overflow relative to the tuple) fall back to the empty schema rather
// than to Items.
func (e *Effective) ItemSchema(i int) *rawschema.Schema {
	if len(e.PrefixItems) > 0 {
		if i < len(e.PrefixItems) {
			return e.PrefixItems[i]
		}
		return rawschema.Empty()
	}
	if e.Items != nil {
		return e.Items
	}
	return rawschema.Empty()
}

// PermitsNull reports whether the effective type list includes "null",
// or declares no type constraint at all (in which case every type,
// including null, is implicitly permitted).
func (e *Effective) PermitsNull() bool {
	if len(e.TypeList) == 0 {
		return true
	}
	for _, t := range e.TypeList {
		if t == "null" {
			return true
		}
	}
	return false
}

func toSet(keys []string) map[string]struct{} {
	if len(keys) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}
	return set
}

func typeList(s *rawschema.Schema) []string {
	if len(s.Type) == 0 {
		return nil
	}
	return append([]string(nil), []string(s.Type)...)
}

func additionalPropertiesAllowed(ap *rawschema.Schema) bool {
	if ap == nil {
		return true
	}
	if ap.Boolean != nil {
		return *ap.Boolean
	}
	return true
}

// mergeAllOf flattens raw.AllOf into a single synthetic schema: a
// left-to-right union of properties.SchemaMap (later entries overwrite
// keys), a set-union of required, and last-wins for default. The
// schema's own surface fields (outside allOf) are merged in first, so a
// later allOf branch can still override them.
func mergeAllOf(raw *rawschema.Schema) *rawschema.Schema {
	self := *raw
	self.AllOf = nil
	branches := append([]*rawschema.Schema{&self}, raw.AllOf...)

	result := &rawschema.Schema{}
	requiredSeen := map[string]struct{}{}
	var required []string
	properties := map[string]*rawschema.Schema{}
	patternProperties := map[string]*rawschema.Schema{}

	for _, branch := range branches {
		if branch == nil {
			continue
		}
		if branch.Properties != nil {
			for k, v := range *branch.Properties {
				properties[k] = v
			}
		}
		if branch.PatternProperties != nil {
			for k, v := range *branch.PatternProperties {
				patternProperties[k] = v
			}
		}
		for _, req := range branch.Required {
			if _, ok := requiredSeen[req]; !ok {
				requiredSeen[req] = struct{}{}
				required = append(required, req)
			}
		}
		if branch.Default != nil {
			result.Default = branch.Default
		}
		if len(branch.Type) > 0 {
			result.Type = branch.Type
		}
		if branch.Items != nil {
			result.Items = branch.Items
		}
		if len(branch.PrefixItems) > 0 {
			result.PrefixItems = branch.PrefixItems
		}
		if branch.AdditionalProperties != nil {
			result.AdditionalProperties = branch.AdditionalProperties
		}
	}

	if len(properties) > 0 {
		result.Properties = rawschema.NewSchemaMap(properties)
	}
	if len(patternProperties) > 0 {
		result.PatternProperties = rawschema.NewSchemaMap(patternProperties)
	}
	result.Required = required

	return result
}
