// Package completer folds a parsetree.Node against an effective schema to
// produce a final JSON value: filling schema defaults for properties the
// prefix never reached, disambiguating the malformed-garbage sentinel,
// and coercing incomplete primitives to their nearest sensible value.
//
// Completion never panics and never returns a Go error. The only
// failure mode it knows is the JSON-null sentinel described in the
// package-level Complete doc comment.
package completer

import (
	"strconv"
	"strings"

	"github.com/shapestone/shape-expand/internal/effschema"
	"github.com/shapestone/shape-expand/internal/parsetree"
	"github.com/shapestone/shape-expand/internal/rawschema"
)

// Complete folds tree against schema and returns the resulting JSON
// value (as a generic Go value: map[string]any, []any, string, float64,
// bool, or nil). A nil return is the failure sentinel when tree
// represents an incomplete object whose every entry is unrecognised;
// see completeObject for the exact rule. A parse failure on a non-empty
// prefix is handled by the caller (pkg/jsonexpand), which returns the
// null sentinel directly without invoking Complete.
func Complete(tree *parsetree.Node, schema *rawschema.Schema) any {
	return completeValue(tree, schema, schema, false)
}

// DefaultForSchema returns default_for(schema, useTypeDefaults=true), the
// value used for an empty top-level prefix.
func DefaultForSchema(schema *rawschema.Schema) any {
	eff := effschema.Resolve(schema, schema)
	return defaultFor(eff, true)
}

// completeValue folds tree against schema. suppressDefault is true when
// this value is itself an array element reached through a "$ref":"#"
// sentinel in the parent array's items: it is threaded down from
// completeArray so the per-element completeObject call (not the array's
// own, already-spent Effective) is the one that actually skips the
// object-default merge and missing-property fill-in passes.
func completeValue(tree *parsetree.Node, schema, root *rawschema.Schema, suppressDefault bool) any {
	eff := effschema.Resolve(schema, root)
	if tree == nil {
		return defaultFor(eff, true)
	}
	switch tree.Kind {
	case parsetree.KindObject:
		return completeObject(tree, eff, root, suppressDefault)
	case parsetree.KindArray:
		return completeArray(tree, eff, root)
	case parsetree.KindString:
		return tree.Text
	case parsetree.KindNumber:
		return completeNumber(tree.Raw)
	case parsetree.KindBool:
		return tree.BoolValue
	case parsetree.KindNull:
		return nil
	default:
		return nil
	}
}

func completeObject(tree *parsetree.Node, eff *effschema.Effective, root *rawschema.Schema, suppressDefault bool) any {
	if !tree.IsComplete() && len(tree.Entries) > 0 && allEntriesUnrecognized(tree.Entries, eff) {
		return nil
	}
	suppressDefault = suppressDefault || eff.SuppressItemDefault

	result := map[string]any{}
	for _, entry := range tree.Entries {
		if entry.Key == nil {
			continue
		}
		key := *entry.Key
		propSchema := eff.PropertySchema(key)

		switch {
		case entry.Value != nil:
			result[key] = completePropertyValue(entry.Value, propSchema, eff, key, root)
		case entry.HasColon:
			propEff := effschema.Resolve(propSchema, root)
			result[key] = defaultFor(propEff, !eff.IsRequired(key))
		default:
			// dangling partial with no colon: contributes nothing
		}
	}

	if len(tree.Entries) == 0 && eff.HasDefault && !suppressDefault {
		return eff.Default
	}

	if eff.HasDefault && !suppressDefault {
		if base, ok := eff.Default.(map[string]any); ok {
			result = mergeObjects(base, result)
		}
	}

	if !suppressDefault {
		for name, propSchema := range eff.Properties {
			if _, present := result[name]; present {
				continue
			}
			if eff.IsRequired(name) {
				continue
			}
			propEff := effschema.Resolve(propSchema, root)
			if propEff.HasDefault {
				result[name] = propEff.Default
			}
		}
	}

	if !eff.AdditionalPropertiesAllowed {
		for key := range result {
			if eff.IsKnownKey(key) {
				continue
			}
			delete(result, key)
		}
	}

	return result
}

// completePropertyValue handles one entry whose value was actually
// parsed. A literal JSON null is preserved when the property's own
// schema permits the null type; otherwise the property's default is
// substituted instead of a bare null (see SPEC_FULL.md's resolution of
// the open question on null-vs-missing).
func completePropertyValue(value *parsetree.Node, propSchema *rawschema.Schema, eff *effschema.Effective, key string, root *rawschema.Schema) any {
	if value.Kind == parsetree.KindNull {
		propEff := effschema.Resolve(propSchema, root)
		if propEff.PermitsNull() {
			return nil
		}
		return defaultFor(propEff, !eff.IsRequired(key))
	}
	return completeValue(value, propSchema, root, false)
}

func allEntriesUnrecognized(entries []parsetree.Entry, eff *effschema.Effective) bool {
	for _, entry := range entries {
		if entry.HasColon {
			return false
		}
		if entry.Key == nil {
			continue
		}
		if eff.IsKnownKey(*entry.Key) {
			return false
		}
		if _, ok := eff.UniquePrefixMatch(*entry.Key); ok {
			return false
		}
	}
	return true
}

func completeArray(tree *parsetree.Node, eff *effschema.Effective, root *rawschema.Schema) any {
	result := make([]any, 0, len(tree.Elements))
	for i, elem := range tree.Elements {
		itemSchema := eff.ItemSchema(i)
		result = append(result, completeValue(elem, itemSchema, root, eff.SuppressItemDefault))
	}
	return result
}

func completeNumber(raw string) any {
	s := raw
	for _, suffix := range []string{"e+", "e-", "E+", "E-", "e", "E", "."} {
		if strings.HasSuffix(s, suffix) {
			s = strings.TrimSuffix(s, suffix)
			break
		}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return float64(0)
	}
	return v
}

// defaultFor resolves a property's fallback value: an explicit schema
// default always wins; otherwise, if useTypeDefaults is set, the first
// declared type's canonical zero value is returned; with neither, it
// returns nil, which callers store as a JSON null value.
func defaultFor(eff *effschema.Effective, useTypeDefaults bool) any {
	if eff.HasDefault {
		return eff.Default
	}
	if useTypeDefaults && len(eff.TypeList) > 0 {
		switch eff.TypeList[0] {
		case "object":
			return map[string]any{}
		case "array":
			return []any{}
		case "string":
			return ""
		case "number", "integer":
			return float64(0)
		case "boolean":
			return false
		case "null":
			return nil
		}
	}
	return nil
}

// mergeObjects deep-merges override on top of base: shared keys whose
// values are both objects recurse; any other shared key takes override's
// value; arrays are never merged element-wise.
func mergeObjects(base, override map[string]any) map[string]any {
	result := make(map[string]any, len(base)+len(override))
	for k, v := range base {
		result[k] = v
	}
	for k, v := range override {
		if baseVal, ok := result[k]; ok {
			if baseObj, ok := baseVal.(map[string]any); ok {
				if overrideObj, ok := v.(map[string]any); ok {
					result[k] = mergeObjects(baseObj, overrideObj)
					continue
				}
			}
		}
		result[k] = v
	}
	return result
}
