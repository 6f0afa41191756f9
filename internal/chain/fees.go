package chain

import (
	"math"

	"github.com/bitwatch/mempool-data/internal/model"
)

// Fee calculation constants. The size thresholds and mempool multiplier
// mirror the provider's own frontend estimation.
const (
	DefaultFee          = 1.0 // sat/vB floor
	DefaultMaxMempoolMB = 300

	smallBlockVSize       = 500_000
	mediumBlockVSize      = 950_000
	mempoolSizeMultiplier = 3.99

	bytesPerMB = 1024 * 1024
	bytesPerGB = 1024 * 1024 * 1024
)

// FeeReport holds recommended fee rates for the standard confirmation
// targets, plus mempool congestion statistics. It can be seeded from the
// provider's own recommendations and recomputed from projected mempool
// blocks as they stream in.
type FeeReport struct {
	FastestFee  float64 // next block
	HalfHourFee float64 // ~3 blocks
	HourFee     float64 // ~6 blocks
	EconomyFee  float64
	MinimumFee  float64

	MempoolVSize   float64
	MempoolSizeMB  float64
	MempoolSizeGB  float64
	MempoolTxCount int
	MempoolBlocks  int
	MaxMempoolMB   float64
}

// NewFeeReport returns a report with floor fees and no mempool data.
func NewFeeReport() *FeeReport {
	return &FeeReport{
		MinimumFee:   DefaultFee,
		MaxMempoolMB: DefaultMaxMempoolMB,
	}
}

// UpdateRecommended overwrites the fee targets with the provider's own
// recommendations. Zero values are ignored so a partial payload does not
// erase known fees.
func (f *FeeReport) UpdateRecommended(rec model.RecommendedFees) {
	if rec.FastestFee > 0 {
		f.FastestFee = rec.FastestFee
	}
	if rec.HalfHourFee > 0 {
		f.HalfHourFee = rec.HalfHourFee
	}
	if rec.HourFee > 0 {
		f.HourFee = rec.HourFee
	}
	if rec.EconomyFee > 0 {
		f.EconomyFee = rec.EconomyFee
	}
	if rec.MinimumFee > 0 {
		f.MinimumFee = rec.MinimumFee
	}
}

// UpdateMempoolBlocks recomputes congestion statistics and fee targets from
// projected mempool blocks. It returns false if blocks is empty.
func (f *FeeReport) UpdateMempoolBlocks(blocks []model.MempoolBlock) bool {
	if len(blocks) == 0 {
		return false
	}

	vsize, count, minimumFee := f.mempoolStats(blocks)
	f.MinimumFee = minimumFee
	f.MempoolVSize = vsize
	f.MempoolSizeMB = vsize / bytesPerMB * mempoolSizeMultiplier
	f.MempoolSizeGB = vsize / bytesPerGB * mempoolSizeMultiplier
	f.MempoolTxCount = count
	f.MempoolBlocks = int(math.Ceil(vsize / 1e6))

	first, second, third := f.medianFees(blocks)
	f.setRecommended(minimumFee, first, second, third)
	return true
}

// mempoolStats totals the projected blocks and derives the purging floor:
// the cheapest fee still inside the configured mempool size limit.
func (f *FeeReport) mempoolStats(blocks []model.MempoolBlock) (vsize float64, count int, minimumFee float64) {
	maxMempool := f.MaxMempoolMB
	if maxMempool == 0 {
		maxMempool = DefaultMaxMempoolMB
	}

	for _, block := range blocks {
		vsize += block.BlockVSize
		count += block.NTx
		if vsize/bytesPerMB*mempoolSizeMultiplier < maxMempool && len(block.FeeRange) > 0 {
			minimumFee = block.FeeRange[0]
		}
	}

	return vsize, count, math.Max(minimumFee, DefaultFee)
}

// optimizeMedianFee smooths one projected block's median fee. next is nil
// for the deepest block considered; hasPrev marks that previous carries the
// preceding target's fee.
func (f *FeeReport) optimizeMedianFee(block model.MempoolBlock, next *model.MempoolBlock, previous float64, hasPrev bool) float64 {
	useFee := block.MedianFee
	if hasPrev {
		useFee = (block.MedianFee + previous) / 2
	}

	if block.BlockVSize <= smallBlockVSize {
		return DefaultFee
	}
	if block.BlockVSize <= mediumBlockVSize && next == nil {
		multiplier := (block.BlockVSize - smallBlockVSize) / smallBlockVSize
		return math.Max(useFee*multiplier, DefaultFee)
	}
	return useFee
}

// medianFees derives the fee targets for the next one, three, and six
// blocks from the projected block queue.
func (f *FeeReport) medianFees(blocks []model.MempoolBlock) (first, second, third float64) {
	first, second, third = DefaultFee, DefaultFee, DefaultFee

	switch {
	case len(blocks) > 1:
		first = f.optimizeMedianFee(blocks[0], &blocks[1], 0, false)
	case len(blocks) == 1:
		first = f.optimizeMedianFee(blocks[0], nil, 0, false)
	}

	switch {
	case len(blocks) > 2:
		second = f.optimizeMedianFee(blocks[1], &blocks[2], first, true)
	case len(blocks) > 1:
		second = f.optimizeMedianFee(blocks[1], nil, first, true)
	}

	switch {
	case len(blocks) > 3:
		third = f.optimizeMedianFee(blocks[2], &blocks[3], second, true)
	case len(blocks) > 2:
		third = f.optimizeMedianFee(blocks[2], nil, second, true)
	}

	return first, second, third
}

// setRecommended finalizes the targets, clamping to the minimum and keeping
// fees monotonically non-increasing with confirmation time.
func (f *FeeReport) setRecommended(minimumFee, first, second, third float64) {
	fastest := math.Max(minimumFee, first)
	halfHour := math.Max(minimumFee, second)
	hour := math.Max(minimumFee, third)

	f.EconomyFee = math.Max(minimumFee, math.Min(2*minimumFee, third))
	f.FastestFee = math.Max(math.Max(fastest, halfHour), math.Max(hour, f.EconomyFee))
	f.HalfHourFee = math.Max(halfHour, math.Max(hour, f.EconomyFee))
	f.HourFee = math.Max(hour, f.EconomyFee)
}
