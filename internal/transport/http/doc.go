// Package http contains the HTTP delivery layer: the session issuance and
// plugin download handlers routed to the gate service, plus health and
// version endpoints. The delivery layer holds no authorization logic; it
// parses the caller's network identity, asks the gate, and renders either
// the result or the uniform not-found denial.
package http
