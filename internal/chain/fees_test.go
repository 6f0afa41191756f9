package chain

import (
	"math"
	"testing"

	"github.com/bitwatch/mempool-data/internal/model"
)

func makeMempoolBlocks(n int) []model.MempoolBlock {
	blocks := make([]model.MempoolBlock, 0, n)
	for i := 0; i < n; i++ {
		blocks = append(blocks, model.MempoolBlock{
			BlockVSize: float64(1_000_000 - i*100_000),
			MedianFee:  float64(10 - i),
			NTx:        100 - i*10,
			FeeRange:   []float64{1, 2, 3, 4, 5, 7, 10},
		})
	}
	return blocks
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestNewFeeReport_Defaults(t *testing.T) {
	f := NewFeeReport()
	if f.MinimumFee != DefaultFee {
		t.Errorf("MinimumFee = %v, want %v", f.MinimumFee, DefaultFee)
	}
	if f.MaxMempoolMB != DefaultMaxMempoolMB {
		t.Errorf("MaxMempoolMB = %v, want %v", f.MaxMempoolMB, DefaultMaxMempoolMB)
	}
	if f.FastestFee != 0 || f.MempoolVSize != 0 {
		t.Error("expected zero fee targets and mempool stats before any update")
	}
}

func TestFeeReport_UpdateRecommended(t *testing.T) {
	f := NewFeeReport()
	f.UpdateRecommended(model.RecommendedFees{
		FastestFee:  10,
		HalfHourFee: 5,
		HourFee:     3,
		EconomyFee:  2,
		MinimumFee:  1,
	})

	if f.FastestFee != 10 || f.HalfHourFee != 5 || f.HourFee != 3 {
		t.Errorf("targets = %v/%v/%v, want 10/5/3", f.FastestFee, f.HalfHourFee, f.HourFee)
	}
	if f.EconomyFee != 2 || f.MinimumFee != 1 {
		t.Errorf("economy/minimum = %v/%v, want 2/1", f.EconomyFee, f.MinimumFee)
	}
}

func TestFeeReport_UpdateRecommendedPartial(t *testing.T) {
	f := NewFeeReport()
	f.UpdateRecommended(model.RecommendedFees{FastestFee: 10, HalfHourFee: 5, HourFee: 3, EconomyFee: 2, MinimumFee: 1})

	// Zero fields must not erase the previous values.
	f.UpdateRecommended(model.RecommendedFees{FastestFee: 20})

	if f.FastestFee != 20 {
		t.Errorf("FastestFee = %v, want 20", f.FastestFee)
	}
	if f.HalfHourFee != 5 || f.HourFee != 3 || f.MinimumFee != 1 {
		t.Errorf("other targets changed: %v/%v/%v", f.HalfHourFee, f.HourFee, f.MinimumFee)
	}
}

func TestFeeReport_UpdateMempoolBlocks(t *testing.T) {
	f := NewFeeReport()
	if !f.UpdateMempoolBlocks(makeMempoolBlocks(5)) {
		t.Fatal("UpdateMempoolBlocks returned false")
	}

	// Totals: 1.0+0.9+0.8+0.7+0.6 MvB, 100+90+80+70+60 txs.
	if f.MempoolVSize != 4_000_000 {
		t.Errorf("MempoolVSize = %v, want 4000000", f.MempoolVSize)
	}
	if f.MempoolTxCount != 400 {
		t.Errorf("MempoolTxCount = %d, want 400", f.MempoolTxCount)
	}
	if f.MempoolBlocks != 4 {
		t.Errorf("MempoolBlocks = %d, want 4", f.MempoolBlocks)
	}

	// First block is over the medium threshold: its median passes through.
	// Deeper targets average with the previous target's fee.
	if f.FastestFee != 10 {
		t.Errorf("FastestFee = %v, want 10", f.FastestFee)
	}
	if !almostEqual(f.HalfHourFee, 9.5) {
		t.Errorf("HalfHourFee = %v, want 9.5", f.HalfHourFee)
	}
	if !almostEqual(f.HourFee, 8.75) {
		t.Errorf("HourFee = %v, want 8.75", f.HourFee)
	}
	// Whole mempool fits: purging floor stays at the default, economy is
	// capped at twice the floor.
	if f.MinimumFee != 1 {
		t.Errorf("MinimumFee = %v, want 1", f.MinimumFee)
	}
	if f.EconomyFee != 2 {
		t.Errorf("EconomyFee = %v, want 2", f.EconomyFee)
	}
}

func TestFeeReport_UpdateMempoolBlocksEmpty(t *testing.T) {
	f := NewFeeReport()
	if f.UpdateMempoolBlocks(nil) {
		t.Error("expected false for empty input")
	}
	if f.UpdateMempoolBlocks([]model.MempoolBlock{}) {
		t.Error("expected false for empty slice")
	}
}

func TestFeeReport_SmallBlockFloorsToDefault(t *testing.T) {
	f := NewFeeReport()
	f.UpdateMempoolBlocks([]model.MempoolBlock{{
		BlockVSize: 400_000,
		MedianFee:  25,
		NTx:        40,
		FeeRange:   []float64{1, 2, 5},
	}})

	// A half-empty next block means everything confirms at the floor.
	if f.FastestFee != DefaultFee || f.HalfHourFee != DefaultFee || f.HourFee != DefaultFee {
		t.Errorf("targets = %v/%v/%v, want all %v", f.FastestFee, f.HalfHourFee, f.HourFee, DefaultFee)
	}
}

func TestFeeReport_MediumTailBlockScalesFee(t *testing.T) {
	f := NewFeeReport()
	f.UpdateMempoolBlocks([]model.MempoolBlock{{
		BlockVSize: 700_000,
		MedianFee:  8,
		NTx:        70,
		FeeRange:   []float64{1, 4, 8},
	}})

	// (700k-500k)/500k = 0.4 of the median fee.
	if !almostEqual(f.FastestFee, 3.2) {
		t.Errorf("FastestFee = %v, want 3.2", f.FastestFee)
	}
	if f.HalfHourFee != DefaultFee || f.HourFee != DefaultFee {
		t.Errorf("deeper targets = %v/%v, want %v", f.HalfHourFee, f.HourFee, DefaultFee)
	}
}

func TestFeeReport_MonotonicOrdering(t *testing.T) {
	f := NewFeeReport()
	f.UpdateMempoolBlocks(makeMempoolBlocks(8))

	if f.FastestFee < f.HalfHourFee {
		t.Errorf("fastest %v < half hour %v", f.FastestFee, f.HalfHourFee)
	}
	if f.HalfHourFee < f.HourFee {
		t.Errorf("half hour %v < hour %v", f.HalfHourFee, f.HourFee)
	}
	if f.HourFee < f.EconomyFee {
		t.Errorf("hour %v < economy %v", f.HourFee, f.EconomyFee)
	}
	if f.EconomyFee < f.MinimumFee {
		t.Errorf("economy %v < minimum %v", f.EconomyFee, f.MinimumFee)
	}
}
