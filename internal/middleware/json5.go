package middleware

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/titanous/json5"
)

// JSON5 re-serializes a text block's JSON as JSON5: object keys that are
// valid bare identifiers lose their quotes. Text that isn't valid JSON5
// passes through unchanged.
func JSON5(_ string, result *mcp.CallToolResult) (*mcp.CallToolResult, error) {
	return mapTextBlocks(result, func(text string) string {
		var parsed interface{}
		if err := json5.Unmarshal([]byte(text), &parsed); err != nil {
			return text
		}
		var b strings.Builder
		writeJSON5(&b, parsed)
		return b.String()
	}), nil
}

// writeJSON5 has no library counterpart in the pack, since json5's own
// package only decodes; encoding back to the permissive form is hand-rolled.
func writeJSON5(b *strings.Builder, v interface{}) {
	switch val := v.(type) {
	case map[string]interface{}:
		writeJSON5Object(b, val)
	case []interface{}:
		b.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				b.WriteByte(',')
			}
			writeJSON5(b, elem)
		}
		b.WriteByte(']')
	case string:
		b.WriteString(strconv.Quote(val))
	case nil:
		b.WriteString("null")
	case bool:
		fmt.Fprintf(b, "%t", val)
	case float64:
		b.WriteString(strconv.FormatFloat(val, 'f', -1, 64))
	default:
		fmt.Fprintf(b, "%v", val)
	}
}

func writeJSON5Object(b *strings.Builder, obj map[string]interface{}) {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	b.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(',')
		}
		if isBareIdentifier(k) {
			b.WriteString(k)
		} else {
			b.WriteString(strconv.Quote(k))
		}
		b.WriteByte(':')
		writeJSON5(b, obj[k])
	}
	b.WriteByte('}')
}

func isBareIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r == '$':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
