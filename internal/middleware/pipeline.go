// Package middleware implements the per-service response-transform chain
// applied to a tool's result before it reaches the front server's caller.
package middleware

import (
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"mcpd/pkg/logging"
)

// ResponseFunc transforms one tool's result. Implementations are pure with
// respect to the caller: any failure must surface as an error rather than
// silently dropping content.
type ResponseFunc func(toolName string, result *mcp.CallToolResult) (*mcp.CallToolResult, error)

// Middleware pairs a name with an optional response transform.
type Middleware struct {
	Name     string
	Response ResponseFunc
}

// registry of built-ins, looked up by the config-file identifier.
var registry = map[string]ResponseFunc{
	"strip-json-keys":     StripJSONKeys,
	"strip-result-wrapper": StripResultWrapper,
	"extract-json-results": ExtractJSONResults,
	"json5":                JSON5,
	"toon":                 Toon,
}

// Lookup resolves a config-file middleware identifier to a Middleware, or
// reports ok=false for an unrecognized name.
func Lookup(name string) (Middleware, bool) {
	fn, ok := registry[name]
	if !ok {
		return Middleware{}, false
	}
	return Middleware{Name: name, Response: fn}, true
}

// BuildPipeline resolves an ordered list of middleware identifiers from a
// service's config into the Middlewares that make up its response chain.
// Unknown identifiers are dropped with a warning rather than failing the
// whole chain, since one misconfigured transform shouldn't take down every
// other one applied after it.
func BuildPipeline(names []string) []Middleware {
	chain := make([]Middleware, 0, len(names))
	for _, name := range names {
		mw, ok := Lookup(name)
		if !ok {
			logging.Warn("Middleware", "unknown response middleware %q, skipping", name)
			continue
		}
		chain = append(chain, mw)
	}
	return chain
}

// Apply folds result through every middleware in pipeline, in order. A
// middleware that errors logs the failure and passes the untransformed
// result through rather than dropping content.
func Apply(pipeline []Middleware, toolName string, result *mcp.CallToolResult) *mcp.CallToolResult {
	current := result
	for _, mw := range pipeline {
		if mw.Response == nil {
			continue
		}
		next, err := mw.Response(toolName, current)
		if err != nil {
			logging.Error("Middleware", err, "middleware %s failed for tool %s, passing result through unchanged", mw.Name, toolName)
			continue
		}
		current = next
	}
	return current
}

// mapTextBlocks applies fn to every text content block's string, passing
// non-text blocks through untouched. This is the shared "(a)" helper every
// built-in transform is written against.
func mapTextBlocks(result *mcp.CallToolResult, fn func(text string) string) *mcp.CallToolResult {
	if result == nil {
		return result
	}
	out := *result
	out.Content = make([]mcp.Content, len(result.Content))
	for i, block := range result.Content {
		if tc, ok := block.(mcp.TextContent); ok {
			out.Content[i] = mcp.NewTextContent(fn(tc.Text))
		} else {
			out.Content[i] = block
		}
	}
	return &out
}

// withParsedJSON is the shared "(b)" helper: it attempts to JSON-decode
// text, hands the parsed value to transform, and re-serializes the
// transform's result. If the text doesn't parse as JSON, or transform
// returns (nil, false) (the "null sentinel"), the original text passes
// through unchanged.
func withParsedJSON(text string, transform func(v interface{}) (interface{}, bool)) string {
	var parsed interface{}
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return text
	}
	replaced, ok := transform(parsed)
	if !ok {
		return text
	}
	// A string result is emitted as-is, not re-quoted as a JSON string
	// literal; everything else is JSON-encoded.
	if s, ok := replaced.(string); ok {
		return s
	}
	encoded, err := json.Marshal(replaced)
	if err != nil {
		return text
	}
	return string(encoded)
}
