// Package session holds the in-memory session model and store. Sessions are
// keyed by client address only; license authorization additionally constrains
// the client port, but that check lives in the gate service, not here.
package session
