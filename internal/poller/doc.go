// Package poller implements the network snapshot poller.
//
// The snapshot poller:
//   - Polls the REST API on a fixed interval for chain and mempool state
//   - Fetches tip height, fees, difficulty, and prices concurrently
//   - Derives fee, retarget, and halving summaries from the raw payloads
//   - Serves as a backup data source when the stream is reconnecting
package poller
