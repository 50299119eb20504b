// Package config loads the static service configuration: HTTP server
// settings, logging, rate limiting, the gate parameters (idle session
// lifespan, blacklist, audit webhook), and the license registry table.
// Configuration comes from a YAML file with PLUGINGATE_* environment
// overrides, is validated once, and never reloads.
package config
