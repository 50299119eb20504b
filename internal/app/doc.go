// Package app wires the application together: configuration, logging,
// telemetry, the audit dispatcher, the gate service, and the HTTP router,
// plus server lifecycle with graceful shutdown.
package app
