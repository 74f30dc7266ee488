// Package parser implements the prefix-tolerant, schema-aware JSON
// parser: it walks a byte buffer that may end mid-token or mid-container
// and produces a parsetree.Node describing exactly how far the input got,
// rather than failing the way a strict decoder would.
//
// Only the handful of conditions called out below are treated as
// unrecoverably malformed (parsing aborts and reports failure to the
// caller); every other form of truncation yields an incomplete node
// instead.
package parser

import (
	"github.com/shapestone/shape-expand/internal/effschema"
	"github.com/shapestone/shape-expand/internal/parsetree"
	"github.com/shapestone/shape-expand/internal/rawschema"
	"github.com/shapestone/shape-expand/internal/scanner"
)

// Parser walks a byte buffer under the guidance of a schema, producing a
// parsetree.Node. A Parser is single-use: construct one per Parse call.
type Parser struct {
	s    *scanner.Scanner
	root *rawschema.Schema
}

// Parse parses input against schema. ok is false iff the trimmed input is
// empty, or the prefix is unrecoverably malformed (two consecutive commas
// in an object, a closing delimiter dangling past a complete root value,
// or a byte that cannot begin any JSON value where one is required). In
// both cases tree is nil.
func Parse(input []byte, schema *rawschema.Schema) (tree *parsetree.Node, ok bool) {
	s := scanner.New(input)
	s.SkipWhitespace()
	if s.AtEnd() {
		return nil, false
	}

	p := &Parser{s: s, root: schema}
	node, valueOK := p.parseValue(schema)
	if !valueOK {
		return nil, false
	}

	if node.IsComplete() {
		s.SkipWhitespace()
		if b, has := s.Peek(); has && (b == '}' || b == ']') {
			return nil, false
		}
	}

	return node, true
}

func (p *Parser) parseValue(schema *rawschema.Schema) (*parsetree.Node, bool) {
	b, has := p.s.Peek()
	if !has {
		return nil, false
	}
	switch {
	case b == '{':
		return p.parseObject(schema)
	case b == '[':
		return p.parseArray(schema)
	case b == '"':
		return p.parseStringNode()
	case b == 't':
		return p.parseLiteral("true", parsetree.KindBool, true)
	case b == 'f':
		return p.parseLiteral("false", parsetree.KindBool, false)
	case b == 'n':
		return p.parseLiteral("null", parsetree.KindNull, false)
	case b == '-' || scanner.IsDigit(b):
		return p.parseNumber()
	default:
		return nil, false
	}
}

func (p *Parser) parseObject(schema *rawschema.Schema) (*parsetree.Node, bool) {
	start := p.s.Pos()
	p.s.Advance()
	eff := effschema.Resolve(schema, p.root)
	node := &parsetree.Node{Kind: parsetree.KindObject, Start: start}

	for {
		p.s.SkipWhitespace()
		b, has := p.s.Peek()
		if !has {
			return node, true
		}
		if b == '}' {
			p.s.Advance()
			end := p.s.Pos()
			node.End = &end
			return node, true
		}

		var key *string
		if b == '"' {
			keyNode, _ := p.parseStringNode()
			k := keyNode.Text
			key = &k
			if !keyNode.IsComplete() {
				node.Entries = append(node.Entries, parsetree.Entry{Key: key})
				return node, true
			}
		} else if scanner.IsBareKeyStop(b) {
			return nil, false
		} else {
			partial := p.scanBarePartialKey()
			if partial == "" {
				return nil, false
			}
			key = &partial
		}

		p.s.SkipWhitespace()
		hasColon := false
		if b2, has2 := p.s.Peek(); has2 && b2 == ':' {
			hasColon = true
			p.s.Advance()
			p.s.SkipWhitespace()
		}

		entry := parsetree.Entry{Key: key, HasColon: hasColon}
		if hasColon {
			if b3, has3 := p.s.Peek(); has3 && b3 != ',' && b3 != '}' {
				subSchema := propertySchemaFor(eff, *key)
				valNode, valOK := p.parseValue(subSchema)
				if !valOK {
					return nil, false
				}
				entry.Value = valNode
			}
		}
		node.Entries = append(node.Entries, entry)

		p.s.SkipWhitespace()
		b4, has4 := p.s.Peek()
		if !has4 {
			return node, true
		}
		if b4 == ',' {
			p.s.Advance()
			p.s.SkipWhitespace()
			if b5, has5 := p.s.Peek(); has5 && b5 == ',' {
				return nil, false
			}
			continue
		}
		if b4 == '}' {
			p.s.Advance()
			end := p.s.Pos()
			node.End = &end
			return node, true
		}
		return node, true
	}
}

// propertySchemaFor resolves the sub-schema used to parse a value: an
// exact properties/patternProperties match, else a unique-prefix match
// against the declared property names, else the empty schema.
func propertySchemaFor(eff *effschema.Effective, key string) *rawschema.Schema {
	if s := eff.PropertySchema(key); s != nil {
		return s
	}
	if match, ok := eff.UniquePrefixMatch(key); ok {
		if s := eff.PropertySchema(match); s != nil {
			return s
		}
	}
	return rawschema.Empty()
}

func (p *Parser) scanBarePartialKey() string {
	start := p.s.Pos()
	for {
		b, has := p.s.Peek()
		if !has || scanner.IsBareKeyStop(b) {
			break
		}
		p.s.Advance()
	}
	return p.s.Slice(start)
}

func (p *Parser) parseArray(schema *rawschema.Schema) (*parsetree.Node, bool) {
	start := p.s.Pos()
	p.s.Advance()
	eff := effschema.Resolve(schema, p.root)
	node := &parsetree.Node{Kind: parsetree.KindArray, Start: start}

	for {
		p.s.SkipWhitespace()
		b, has := p.s.Peek()
		if !has {
			return node, true
		}
		if b == ']' {
			p.s.Advance()
			end := p.s.Pos()
			node.End = &end
			return node, true
		}

		elemSchema := eff.ItemSchema(len(node.Elements))
		elem, elemOK := p.parseValue(elemSchema)
		if !elemOK {
			return nil, false
		}
		node.Elements = append(node.Elements, elem)
		if !elem.IsComplete() {
			return node, true
		}

		p.s.SkipWhitespace()
		b2, has2 := p.s.Peek()
		if !has2 {
			return node, true
		}
		if b2 == ',' {
			p.s.Advance()
			continue
		}
		if b2 == ']' {
			p.s.Advance()
			end := p.s.Pos()
			node.End = &end
			return node, true
		}
		return node, true
	}
}

func (p *Parser) parseStringNode() (*parsetree.Node, bool) {
	start := p.s.Pos()
	p.s.Advance() // opening quote
	var text []byte

	for {
		b, has := p.s.Advance()
		if !has {
			return &parsetree.Node{Kind: parsetree.KindString, Start: start, Text: string(text)}, true
		}
		if b == '"' {
			end := p.s.Pos()
			return &parsetree.Node{Kind: parsetree.KindString, Start: start, Text: string(text), Closed: true, End: &end}, true
		}
		if b != '\\' {
			text = append(text, b)
			continue
		}

		esc, has := p.s.Advance()
		if !has {
			return &parsetree.Node{Kind: parsetree.KindString, Start: start, Text: string(text)}, true
		}
		switch esc {
		case '"', '\\', '/':
			text = append(text, esc)
		case 'n':
			text = append(text, '\n')
		case 't':
			text = append(text, '\t')
		case 'r':
			text = append(text, '\r')
		case 'b':
			text = append(text, '\b')
		case 'f':
			text = append(text, '\f')
		case 'u':
			r, ok := p.readUnicodeEscape()
			if !ok {
				return &parsetree.Node{Kind: parsetree.KindString, Start: start, Text: string(text)}, true
			}
			text = append(text, r...)
		default:
			text = append(text, esc)
		}
	}
}

// readUnicodeEscape consumes the 4 hex digits of a \uXXXX escape. If
// fewer than 4 digits remain before EOF, decoding stops gracefully and ok
// is false; the caller leaves the string open rather than guessing.
func (p *Parser) readUnicodeEscape() (text string, ok bool) {
	start := p.s.Pos()
	for i := 0; i < 4; i++ {
		b, has := p.s.Peek()
		if !has || !scanner.IsHexDigit(b) {
			return "", false
		}
		p.s.Advance()
	}
	hex := p.s.Slice(start)
	return string(rune(decodeHex4(hex))), true
}

func decodeHex4(hex string) int {
	v := 0
	for _, c := range hex {
		v <<= 4
		switch {
		case c >= '0' && c <= '9':
			v |= int(c - '0')
		case c >= 'a' && c <= 'f':
			v |= int(c-'a') + 10
		case c >= 'A' && c <= 'F':
			v |= int(c-'A') + 10
		}
	}
	return v
}

func (p *Parser) parseNumber() (*parsetree.Node, bool) {
	start := p.s.Pos()
	if b, has := p.s.Peek(); has && b == '-' {
		p.s.Advance()
	}
	if p.s.AtEnd() {
		end := p.s.Pos()
		return &parsetree.Node{Kind: parsetree.KindNumber, Start: start, Raw: p.s.Slice(start), End: &end}, true
	}

	b, _ := p.s.Peek()
	if !scanner.IsDigit(b) {
		return nil, false
	}
	if b == '0' {
		p.s.Advance()
	} else {
		for {
			b, has := p.s.Peek()
			if !has || !scanner.IsDigit(b) {
				break
			}
			p.s.Advance()
		}
	}

	fracStart := p.s.Pos()
	if b, has := p.s.Peek(); has && b == '.' {
		p.s.Advance()
		digits := 0
		for {
			b, has := p.s.Peek()
			if !has || !scanner.IsDigit(b) {
				break
			}
			p.s.Advance()
			digits++
		}
		if digits == 0 {
			after := p.s.Pos()
			p.s.Seek(fracStart)
			raw := p.s.Slice(start)
			p.s.Seek(after)
			end := fracStart
			return &parsetree.Node{Kind: parsetree.KindNumber, Start: start, Raw: raw, End: &end}, true
		}
	}

	expStart := p.s.Pos()
	if b, has := p.s.Peek(); has && (b == 'e' || b == 'E') {
		p.s.Advance()
		if b2, has2 := p.s.Peek(); has2 && (b2 == '+' || b2 == '-') {
			p.s.Advance()
		}
		digits := 0
		for {
			b, has := p.s.Peek()
			if !has || !scanner.IsDigit(b) {
				break
			}
			p.s.Advance()
			digits++
		}
		if digits == 0 {
			after := p.s.Pos()
			p.s.Seek(expStart)
			raw := p.s.Slice(start)
			p.s.Seek(after)
			end := expStart
			return &parsetree.Node{Kind: parsetree.KindNumber, Start: start, Raw: raw, End: &end}, true
		}
	}

	end := p.s.Pos()
	return &parsetree.Node{Kind: parsetree.KindNumber, Start: start, Raw: p.s.Slice(start), End: &end}, true
}

// parseLiteral matches a true/false/null keyword. It scans the full
// alphabetic run at the cursor (not just characters matching keyword
// one-by-one): if that run equals keyword, the node is complete; if it is
// a proper prefix of keyword, the node is an incomplete Bool/Null node
// (collapsed to the keyword's value by the completer); otherwise the run
// is not a prefix of any recognized keyword and parsing fails.
func (p *Parser) parseLiteral(keyword string, kind parsetree.Kind, boolValue bool) (*parsetree.Node, bool) {
	start := p.s.Pos()
	alpha := p.scanAlpha()

	if alpha == keyword {
		end := p.s.Pos()
		node := &parsetree.Node{Kind: kind, Start: start, End: &end}
		if kind == parsetree.KindBool {
			node.BoolValue = boolValue
		}
		return node, true
	}
	if len(alpha) < len(keyword) && keyword[:len(alpha)] == alpha {
		node := &parsetree.Node{Kind: kind, Start: start}
		if kind == parsetree.KindBool {
			node.BoolValue = boolValue
		}
		return node, true
	}
	return nil, false
}

func (p *Parser) scanAlpha() string {
	start := p.s.Pos()
	for {
		b, has := p.s.Peek()
		if !has || !scanner.IsAlpha(b) {
			break
		}
		p.s.Advance()
	}
	return p.s.Slice(start)
}
