// Package stream implements the real-time streaming client.
//
// The streaming client:
//   - Maintains one long-lived WebSocket connection to the provider's feed
//   - Tracks desired channel subscriptions independent of connection state
//   - Decodes inbound frames into typed per-channel events
//   - Dispatches events to registered handlers in arrival order
//   - Reconnects with exponential backoff and replays subscriptions
package stream
