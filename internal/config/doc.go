// Package config loads mcpd.yml: searched at ./mcpd.yml then
// ~/.config/mcpd/config.yml unless an explicit path is given, parsed with
// gopkg.in/yaml.v3, substituted for ${env.VAR}/${workspaceRoot}/${home},
// defaulted, and validated before the supervisor ever sees a ServiceConfig.
package config
