// Package model defines the typed representations of provider data: blocks,
// projected mempool blocks, fee recommendations, difficulty adjustment,
// addresses, and transactions. Field names and JSON tags follow the
// provider's wire schema.
package model
