package mapping

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// ErrMalformedMapping is wrapped by every decode failure.
var ErrMalformedMapping = errors.New("malformed mapping document")

const (
	fixedMember  = "fixed"
	customMember = "custom"
	indent       = "    "
)

// Decode parses a mapping document. Tier order on disk becomes insertion
// order in memory. A missing tier decodes as empty; anything that is not an
// object of strings is rejected, as is data after the document.
func Decode(data []byte) (*Table, error) {
	if !json.Valid(data) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrMalformedMapping)
	}
	data = bytes.TrimSpace(data)
	if data[0] != '{' {
		return nil, fmt.Errorf("%w: document is %v", ErrMalformedMapping, errNotObject)
	}

	members := orderedmap.New[string, json.RawMessage]()
	if err := members.UnmarshalJSON(data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedMapping, err)
	}

	table := NewTable()
	for pair := members.Oldest(); pair != nil; pair = pair.Next() {
		switch pair.Key {
		case fixedMember:
			if err := table.Fixed.UnmarshalJSON(pair.Value); err != nil {
				return nil, fmt.Errorf("%w: tier %q: %v", ErrMalformedMapping, pair.Key, err)
			}
		case customMember:
			if err := table.Custom.UnmarshalJSON(pair.Value); err != nil {
				return nil, fmt.Errorf("%w: tier %q: %v", ErrMalformedMapping, pair.Key, err)
			}
		default:
			table.extra.Set(pair.Key, pair.Value)
		}
	}
	return table, nil
}

// Encode renders the table with four-space indentation, keys in insertion
// order and non-ASCII text left as is.
func Encode(t *Table) ([]byte, error) {
	var compact bytes.Buffer
	compact.WriteByte('{')

	fixed, err := t.Fixed.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("tier %q: %w", fixedMember, err)
	}
	writeMember(&compact, fixedMember, fixed)

	custom, err := t.Custom.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("tier %q: %w", customMember, err)
	}
	compact.WriteByte(',')
	writeMember(&compact, customMember, custom)

	for name, value := range t.extraMembers() {
		var member bytes.Buffer
		if err := json.Compact(&member, value); err != nil {
			return nil, fmt.Errorf("member %q: %w", name, err)
		}
		compact.WriteByte(',')
		writeMember(&compact, name, member.Bytes())
	}
	compact.WriteByte('}')

	var out bytes.Buffer
	if err := json.Indent(&out, compact.Bytes(), "", indent); err != nil {
		return nil, err
	}
	return unescapeLiterals(out.Bytes()), nil
}

func writeMember(buf *bytes.Buffer, name string, value []byte) {
	// Marshalling a string cannot fail.
	key, _ := json.Marshal(name)
	buf.Write(key)
	buf.WriteByte(':')
	buf.Write(value)
}

// literalEscapes are the \u escapes the JSON encoders emit for text the
// document keeps literal: the HTML characters and the two line separators.
var literalEscapes = map[string]string{
	"003c": "<",
	"003e": ">",
	"0026": "&",
	"2028": "\u2028",
	"2029": "\u2029",
}

// unescapeLiterals rewrites literalEscapes back to their characters. Other
// escapes, including an escaped backslash followed by "u", are copied as is.
func unescapeLiterals(data []byte) []byte {
	out := make([]byte, 0, len(data))
	for i := 0; i < len(data); i++ {
		c := data[i]
		if c != '\\' || i+1 == len(data) {
			out = append(out, c)
			continue
		}
		if data[i+1] == 'u' && i+6 <= len(data) {
			if lit, ok := literalEscapes[strings.ToLower(string(data[i+2:i+6]))]; ok {
				out = append(out, lit...)
				i += 5
				continue
			}
		}
		out = append(out, c, data[i+1])
		i++
	}
	return out
}
