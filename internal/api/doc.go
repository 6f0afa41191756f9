// Package api implements the request/response query layer: a REST client for
// the provider's HTTP API. Calls are single-shot with bounded retries; all
// long-lived state belongs to the streaming client.
package api
