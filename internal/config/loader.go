package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"mcpd/internal/template"
)

// DefaultSearchPaths returns the config search order: ./mcpd.yml then
// ~/.config/mcpd/config.yml. An explicit path from -c/--config always wins
// and is checked by the caller before falling back to this list.
func DefaultSearchPaths() []string {
	paths := []string{"mcpd.yml"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "mcpd", "config.yml"))
	}
	return paths
}

// Load resolves the config file to use (explicitPath if set, else the first
// existing entry in DefaultSearchPaths), parses it, substitutes `${...}`
// placeholders, applies schema defaults, and validates the result.
func Load(explicitPath string) (*Config, string, error) {
	path, err := resolvePath(explicitPath)
	if err != nil {
		return nil, "", err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, LoadError{FilePath: path, ErrorType: "io", Message: err.Error()}
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, path, LoadError{FilePath: path, ErrorType: "parse", Message: err.Error()}
	}
	if cfg.Services == nil {
		cfg.Services = map[string]ServiceConfig{}
	}

	substitute(&cfg, filepath.Dir(path))
	applyDefaults(&cfg)
	resolveDurations(&cfg)

	if errs := ValidateConfig(&cfg, path); errs.HasErrors() {
		return nil, path, errs
	}

	return &cfg, path, nil
}

func resolvePath(explicitPath string) (string, error) {
	if explicitPath != "" {
		if _, err := os.Stat(explicitPath); err != nil {
			return "", LoadError{FilePath: explicitPath, ErrorType: "io", Message: "config path does not exist"}
		}
		return explicitPath, nil
	}
	for _, candidate := range DefaultSearchPaths() {
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", LoadError{FilePath: "mcpd.yml", ErrorType: "io", Message: "no config file found in default search paths"}
}

// substitute applies ${env.VAR}/${workspaceRoot}/${home} substitution to
// every string-valued field that can reasonably carry one: command, args,
// cwd, env values, and url fields.
func substitute(cfg *Config, workspaceRoot string) {
	eng := template.New(workspaceRoot)
	for name, svc := range cfg.Services {
		svc.Command = eng.ReplaceString(svc.Command)
		svc.Cwd = eng.ReplaceString(svc.Cwd)
		svc.URL = eng.ReplaceString(svc.URL)
		svc.Readiness.URL = eng.ReplaceString(svc.Readiness.URL)
		for i, a := range svc.Args {
			svc.Args[i] = eng.ReplaceString(a)
		}
		if svc.Env != nil {
			replaced := make(map[string]string, len(svc.Env))
			for k, v := range svc.Env {
				replaced[k] = eng.ReplaceString(v)
			}
			svc.Env = replaced
		}
		cfg.Services[name] = svc
	}
}

// StateFilePath returns the persisted supervisor state file path, rooted
// next to the config file that was loaded.
func StateFilePath(configPath string) string {
	return filepath.Join(filepath.Dir(configPath), ".mcpd-state.json")
}

// PIDFilePath returns the daemon PID file path, rooted next to the config
// file that was loaded.
func PIDFilePath(configPath string) string {
	return filepath.Join(filepath.Dir(configPath), ".mcpd.pid")
}
