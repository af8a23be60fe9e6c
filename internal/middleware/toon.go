package middleware

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// Toon re-serializes a text block's JSON object or array in a compact,
// indentation-based notation: scalar fields as "key: value" lines, and
// arrays of uniform objects as a tabular header row followed by one row per
// element. No pack library produces this format; the writer below is
// hand-rolled against the shape described for the transform.
func Toon(_ string, result *mcp.CallToolResult) (*mcp.CallToolResult, error) {
	return mapTextBlocks(result, func(text string) string {
		var parsed interface{}
		if err := json.Unmarshal([]byte(text), &parsed); err != nil {
			return text
		}
		switch parsed.(type) {
		case map[string]interface{}, []interface{}:
		default:
			return text
		}
		var b strings.Builder
		writeToon(&b, parsed, 0)
		return strings.TrimRight(b.String(), "\n")
	}), nil
}

func writeToon(b *strings.Builder, v interface{}, depth int) {
	switch val := v.(type) {
	case map[string]interface{}:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			writeToonField(b, k, val[k], depth)
		}
	case []interface{}:
		if rows, headers, ok := tabularize(val); ok {
			indent(b, depth)
			b.WriteString(strings.Join(headers, ","))
			b.WriteByte('\n')
			for _, row := range rows {
				indent(b, depth)
				b.WriteString(strings.Join(row, ","))
				b.WriteByte('\n')
			}
			return
		}
		for _, elem := range val {
			indent(b, depth)
			b.WriteString("- ")
			b.WriteString(toonScalarOrInline(elem))
			b.WriteByte('\n')
		}
	default:
		indent(b, depth)
		b.WriteString(toonScalarOrInline(val))
		b.WriteByte('\n')
	}
}

func writeToonField(b *strings.Builder, key string, v interface{}, depth int) {
	switch v.(type) {
	case map[string]interface{}, []interface{}:
		indent(b, depth)
		b.WriteString(key)
		b.WriteString(":\n")
		writeToon(b, v, depth+1)
	default:
		indent(b, depth)
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(toonScalarOrInline(v))
		b.WriteByte('\n')
	}
}

// tabularize reports whether elems is a non-empty slice of objects that all
// share the same set of scalar-valued keys, the shape that benefits from a
// header row instead of one block per element.
func tabularize(elems []interface{}) (rows [][]string, headers []string, ok bool) {
	if len(elems) == 0 {
		return nil, nil, false
	}
	first, isObj := elems[0].(map[string]interface{})
	if !isObj {
		return nil, nil, false
	}
	for k := range first {
		headers = append(headers, k)
	}
	sort.Strings(headers)

	rows = make([][]string, 0, len(elems))
	for _, e := range elems {
		obj, isObj := e.(map[string]interface{})
		if !isObj || len(obj) != len(headers) {
			return nil, nil, false
		}
		row := make([]string, len(headers))
		for i, h := range headers {
			val, present := obj[h]
			if !present {
				return nil, nil, false
			}
			if _, isNested := val.(map[string]interface{}); isNested {
				return nil, nil, false
			}
			if _, isNested := val.([]interface{}); isNested {
				return nil, nil, false
			}
			row[i] = toonScalarOrInline(val)
		}
		rows = append(rows, row)
	}
	return rows, headers, true
}

func toonScalarOrInline(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case string:
		return val
	default:
		var b strings.Builder
		writeToon(&b, v, 0)
		return strings.TrimSpace(b.String())
	}
}

func indent(b *strings.Builder, depth int) {
	for i := 0; i < depth; i++ {
		b.WriteString("  ")
	}
}
