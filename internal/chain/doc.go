// Package chain derives presentation-ready Bitcoin network summaries from
// raw provider data: recommended fee rates recomputed from projected mempool
// blocks, retarget-epoch progress, and halving estimates.
package chain
