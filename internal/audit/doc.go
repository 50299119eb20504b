// Package audit delivers allow/deny decision notifications to an external
// monitoring channel. Dispatch is fire-and-forget: events flow through a
// bounded queue to a sink (Discord webhook in production), and neither a
// full queue nor a delivery failure ever reaches the requester.
package audit
