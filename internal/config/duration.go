package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// yamlDuration accepts either a bare number of milliseconds or a
// "<num>(ms|s|m)" string, per the schema's duration grammar. No ecosystem
// library in the pack parses this hybrid numeric-or-suffixed form, so it's
// hand-rolled.
type yamlDuration time.Duration

func (d *yamlDuration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw interface{}
	if err := unmarshal(&raw); err != nil {
		return err
	}
	parsed, err := parseDurationValue(raw)
	if err != nil {
		return err
	}
	*d = yamlDuration(parsed)
	return nil
}

func parseDurationValue(raw interface{}) (time.Duration, error) {
	switch v := raw.(type) {
	case nil:
		return 0, nil
	case int:
		return time.Duration(v) * time.Millisecond, nil
	case int64:
		return time.Duration(v) * time.Millisecond, nil
	case float64:
		return time.Duration(v) * time.Millisecond, nil
	case string:
		return parseDurationString(v)
	default:
		return 0, fmt.Errorf("invalid duration value %v (%T)", raw, raw)
	}
}

func parseDurationString(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty duration")
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Duration(n) * time.Millisecond, nil
	}
	for _, suffix := range []string{"ms", "s", "m"} {
		if strings.HasSuffix(s, suffix) {
			numPart := strings.TrimSuffix(s, suffix)
			n, err := strconv.ParseFloat(numPart, 64)
			if err != nil {
				return 0, fmt.Errorf("invalid duration %q: %w", s, err)
			}
			switch suffix {
			case "ms":
				return time.Duration(n * float64(time.Millisecond)), nil
			case "s":
				return time.Duration(n * float64(time.Second)), nil
			case "m":
				return time.Duration(n * float64(time.Minute)), nil
			}
		}
	}
	return 0, fmt.Errorf("invalid duration %q: expected <num>(ms|s|m) or a raw ms number", s)
}

// resolveDurations copies the parsed raw durations into the public
// time.Duration fields, applying defaults where the YAML omitted them.
func resolveDurations(cfg *Config) {
	for name, svc := range cfg.Services {
		if svc.Readiness.TimeoutRaw == 0 {
			svc.Readiness.Timeout = 30 * time.Second
		} else {
			svc.Readiness.Timeout = time.Duration(svc.Readiness.TimeoutRaw)
		}
		if svc.Readiness.IntervalRaw == 0 {
			svc.Readiness.Interval = 500 * time.Millisecond
		} else {
			svc.Readiness.Interval = time.Duration(svc.Readiness.IntervalRaw)
		}
		cfg.Services[name] = svc
	}
}
