package model

import "encoding/json"

// -----------------------------------------------------------------------------
// Blocks
// -----------------------------------------------------------------------------

// Block is a mined block summary.
type Block struct {
	ID                string       `json:"id"`
	Height            int64        `json:"height"`
	Version           int64        `json:"version"`
	Timestamp         int64        `json:"timestamp"` // Unix seconds
	TxCount           int          `json:"tx_count"`
	Size              int64        `json:"size"`
	Weight            int64        `json:"weight"`
	MerkleRoot        string       `json:"merkle_root"`
	PreviousBlockHash string       `json:"previousblockhash"`
	Nonce             int64        `json:"nonce"`
	Bits              int64        `json:"bits"`
	Difficulty        float64      `json:"difficulty"`
	Extras            *BlockExtras `json:"extras,omitempty"`
}

// BlockExtras carries the provider's enriched block data.
type BlockExtras struct {
	TotalFees  int64     `json:"totalFees"` // sats
	MedianFee  float64   `json:"medianFee"` // sat/vB
	FeeRange   []float64 `json:"feeRange"`
	Reward     int64     `json:"reward"` // sats, subsidy + fees
	AvgFeeRate float64   `json:"avgFeeRate"`
	Pool       Pool      `json:"pool"`
}

// Pool identifies the mining pool credited with a block.
type Pool struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// ParseBlock decodes a block payload.
func ParseBlock(data []byte) (Block, error) {
	var b Block
	err := json.Unmarshal(data, &b)
	return b, err
}

// ParseBlocks decodes a block-list payload.
func ParseBlocks(data []byte) ([]Block, error) {
	var bs []Block
	err := json.Unmarshal(data, &bs)
	return bs, err
}

// -----------------------------------------------------------------------------
// Mempool
// -----------------------------------------------------------------------------

// MempoolBlock is one projected block: the next ~1MvB slice of the mempool.
type MempoolBlock struct {
	BlockSize  int64     `json:"blockSize"`  // bytes
	BlockVSize float64   `json:"blockVSize"` // vbytes
	NTx        int       `json:"nTx"`
	TotalFees  int64     `json:"totalFees"` // sats
	MedianFee  float64   `json:"medianFee"` // sat/vB
	FeeRange   []float64 `json:"feeRange"`  // sat/vB, ascending
}

// ParseMempoolBlocks decodes a projected-blocks payload.
func ParseMempoolBlocks(data []byte) ([]MempoolBlock, error) {
	var mbs []MempoolBlock
	err := json.Unmarshal(data, &mbs)
	return mbs, err
}

// MempoolInfo is the node's mempool summary.
type MempoolInfo struct {
	Loaded        bool    `json:"loaded"`
	Size          int64   `json:"size"`  // tx count
	Bytes         int64   `json:"bytes"` // vsize total
	Usage         int64   `json:"usage"`
	TotalFee      float64 `json:"total_fee"`
	MaxMempool    int64   `json:"maxmempool"`
	MempoolMinFee float64 `json:"mempoolminfee"`
}

// -----------------------------------------------------------------------------
// Fees and difficulty
// -----------------------------------------------------------------------------

// RecommendedFees are the provider's fee recommendations in sat/vB.
type RecommendedFees struct {
	FastestFee  float64 `json:"fastestFee"`
	HalfHourFee float64 `json:"halfHourFee"`
	HourFee     float64 `json:"hourFee"`
	EconomyFee  float64 `json:"economyFee"`
	MinimumFee  float64 `json:"minimumFee"`
}

// DifficultyAdjustment describes progress through the current retarget epoch.
type DifficultyAdjustment struct {
	ProgressPercent       float64 `json:"progressPercent"`
	DifficultyChange      float64 `json:"difficultyChange"`
	EstimatedRetargetDate int64   `json:"estimatedRetargetDate"` // ms since epoch
	RemainingBlocks       int64   `json:"remainingBlocks"`
	RemainingTime         int64   `json:"remainingTime"` // ms
	PreviousRetarget      float64 `json:"previousRetarget"`
	NextRetargetHeight    int64   `json:"nextRetargetHeight"`
	TimeAvg               int64   `json:"timeAvg"` // ms between blocks
	TimeOffset            int64   `json:"timeOffset"`
	ExpectedBlocks        float64 `json:"expectedBlocks"`
}

// -----------------------------------------------------------------------------
// Addresses and transactions
// -----------------------------------------------------------------------------

// AddressInfo summarizes an address's confirmed and mempool activity.
type AddressInfo struct {
	Address      string       `json:"address"`
	ChainStats   AddressStats `json:"chain_stats"`
	MempoolStats AddressStats `json:"mempool_stats"`
}

// AddressStats counts funded and spent outputs for one address.
type AddressStats struct {
	FundedTxoCount int64 `json:"funded_txo_count"`
	FundedTxoSum   int64 `json:"funded_txo_sum"` // sats
	SpentTxoCount  int64 `json:"spent_txo_count"`
	SpentTxoSum    int64 `json:"spent_txo_sum"` // sats
	TxCount        int64 `json:"tx_count"`
}

// Balance returns the confirmed balance in sats.
func (a AddressInfo) Balance() int64 {
	return a.ChainStats.FundedTxoSum - a.ChainStats.SpentTxoSum
}

// Transaction is a transaction summary.
type Transaction struct {
	TxID     string   `json:"txid"`
	Version  int32    `json:"version"`
	Locktime uint32   `json:"locktime"`
	Size     int64    `json:"size"`
	Weight   int64    `json:"weight"`
	Fee      int64    `json:"fee"` // sats
	Status   TxStatus `json:"status"`
}

// TxStatus is a transaction's confirmation status.
type TxStatus struct {
	Confirmed   bool   `json:"confirmed"`
	BlockHeight int64  `json:"block_height"`
	BlockHash   string `json:"block_hash"`
	BlockTime   int64  `json:"block_time"`
}

// ParseTransactions decodes a transaction-list payload.
func ParseTransactions(data []byte) ([]Transaction, error) {
	var txs []Transaction
	err := json.Unmarshal(data, &txs)
	return txs, err
}

// UTXO is an unspent output belonging to an address.
type UTXO struct {
	TxID   string   `json:"txid"`
	Vout   uint32   `json:"vout"`
	Value  int64    `json:"value"` // sats
	Status TxStatus `json:"status"`
}

// Prices is the provider's exchange-rate snapshot.
type Prices struct {
	Time int64   `json:"time"` // Unix seconds
	USD  float64 `json:"USD"`
	EUR  float64 `json:"EUR"`
	GBP  float64 `json:"GBP"`
	CAD  float64 `json:"CAD"`
	CHF  float64 `json:"CHF"`
	AUD  float64 `json:"AUD"`
	JPY  float64 `json:"JPY"`
}

// LivePoint is one sample of the 2-hour incoming-transaction chart.
type LivePoint struct {
	Added           int64 `json:"added"`
	Count           int   `json:"count"`
	VBytesPerSecond int64 `json:"vbytes_per_second"`
}
