// Package template resolves the `${...}` placeholders the config schema
// allows inside string values: `${env.VAR}`, `${workspaceRoot}`, `${home}`.
package template

import (
	"os"
	"regexp"
)

// Engine substitutes `${...}` placeholders recursively across strings,
// maps, and slices. Unknown placeholders are left literal rather than
// erroring, since a config value might legitimately contain a `${...}`
// the author didn't intend as a substitution.
type Engine struct {
	pattern      *regexp.Regexp
	workspaceDir string
	homeDir      string
}

// New creates an Engine rooted at workspaceDir (used for ${workspaceRoot}).
func New(workspaceDir string) *Engine {
	home, _ := os.UserHomeDir()
	return &Engine{
		pattern:      regexp.MustCompile(`\$\{([^}]+)\}`),
		workspaceDir: workspaceDir,
		homeDir:      home,
	}
}

// Replace walks value (string, map[string]interface{}, []interface{}, or
// any pass-through scalar) substituting placeholders in every string found.
func (e *Engine) Replace(value interface{}) interface{} {
	switch v := value.(type) {
	case string:
		return e.replaceString(v)
	case map[string]interface{}:
		out := make(map[string]interface{}, len(v))
		for k, val := range v {
			out[k] = e.Replace(val)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, val := range v {
			out[i] = e.Replace(val)
		}
		return out
	default:
		return value
	}
}

// ReplaceString substitutes placeholders in a single string; exported for
// callers that already know they're working with strings (e.g. env maps).
func (e *Engine) ReplaceString(s string) string {
	return e.replaceString(s)
}

func (e *Engine) replaceString(s string) string {
	return e.pattern.ReplaceAllStringFunc(s, func(match string) string {
		name := match[2 : len(match)-1] // strip ${ and }
		if resolved, ok := e.resolve(name); ok {
			return resolved
		}
		return match
	})
}

func (e *Engine) resolve(name string) (string, bool) {
	switch {
	case name == "workspaceRoot":
		return e.workspaceDir, true
	case name == "home":
		return e.homeDir, true
	case len(name) > 4 && name[:4] == "env.":
		v, ok := os.LookupEnv(name[4:])
		return v, ok
	default:
		return "", false
	}
}
