// Package gate implements the session issuance and license authorization
// state machines. It is the decision core of the service: everything else
// (HTTP routing, webhook delivery, config loading, file serving) is glue
// around Service.Issue and Service.Authorize.
package gate
