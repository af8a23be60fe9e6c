package config

// applyDefaults fills in the schema's documented defaults for any field the
// YAML left unset.
func applyDefaults(cfg *Config) {
	for name, svc := range cfg.Services {
		if svc.Transport == "" {
			svc.Transport = TransportSSE
		}
		if svc.Restart == "" {
			svc.Restart = RestartOnFailure
		}
		if svc.Readiness.Check == "" {
			svc.Readiness.Check = "http"
		}
		cfg.Services[name] = svc
	}
}
