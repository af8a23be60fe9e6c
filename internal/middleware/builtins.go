package middleware

import (
	"regexp"

	"github.com/mark3labs/mcp-go/mcp"
)

// quotedKeyPattern matches a JSON-style quoted object key immediately
// followed by a colon, e.g. `"word":`. It operates on raw text and does
// not require the text to actually be JSON.
var quotedKeyPattern = regexp.MustCompile(`"([A-Za-z_][A-Za-z0-9_]*)":`)

// StripJSONKeys replaces `"word":` with `word:` in every text block.
func StripJSONKeys(_ string, result *mcp.CallToolResult) (*mcp.CallToolResult, error) {
	return mapTextBlocks(result, func(text string) string {
		return quotedKeyPattern.ReplaceAllString(text, "$1:")
	}), nil
}

// StripResultWrapper unwraps `{"result": <value>}` text blocks to just
// <value> (stringified as-is if it's a string, else re-encoded as JSON).
func StripResultWrapper(_ string, result *mcp.CallToolResult) (*mcp.CallToolResult, error) {
	return mapTextBlocks(result, func(text string) string {
		return withParsedJSON(text, func(v interface{}) (interface{}, bool) {
			obj, ok := v.(map[string]interface{})
			if !ok || len(obj) != 1 {
				return nil, false
			}
			inner, hasResult := obj["result"]
			if !hasResult {
				return nil, false
			}
			return inner, true
		})
	}), nil
}

// ExtractJSONResults replaces text that parses to an object containing a
// `results` key with that key's value.
func ExtractJSONResults(_ string, result *mcp.CallToolResult) (*mcp.CallToolResult, error) {
	return mapTextBlocks(result, func(text string) string {
		return withParsedJSON(text, func(v interface{}) (interface{}, bool) {
			obj, ok := v.(map[string]interface{})
			if !ok {
				return nil, false
			}
			inner, ok := obj["results"]
			if !ok {
				return nil, false
			}
			return inner, true
		})
	}), nil
}
