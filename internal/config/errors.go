package config

import (
	"fmt"
	"strings"
)

// LoadError represents a structured failure while loading or validating
// mcpd.yml: missing required field, bad enum, unreachable explicit path.
type LoadError struct {
	FilePath  string
	Service   string // empty for file-level errors
	ErrorType string // "parse", "validation", "io"
	Message   string
}

func (e LoadError) Error() string {
	if e.Service != "" {
		return fmt.Sprintf("[%s] service %q: %s: %s", e.FilePath, e.Service, e.ErrorType, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.FilePath, e.ErrorType, e.Message)
}

// LoadErrors collects every validation failure found in one config file so
// all of them can be reported at once instead of stopping at the first.
type LoadErrors []LoadError

func (es LoadErrors) Error() string {
	if len(es) == 0 {
		return "no configuration errors"
	}
	if len(es) == 1 {
		return es[0].Error()
	}
	parts := make([]string, len(es))
	for i, e := range es {
		parts[i] = e.Error()
	}
	return fmt.Sprintf("%d configuration errors:\n  %s", len(es), strings.Join(parts, "\n  "))
}

func (es *LoadErrors) Add(e LoadError) {
	*es = append(*es, e)
}

func (es LoadErrors) HasErrors() bool {
	return len(es) > 0
}
