package chain

import (
	"testing"
	"time"

	"github.com/bitwatch/mempool-data/internal/model"
)

func sampleAdjustment() model.DifficultyAdjustment {
	return model.DifficultyAdjustment{
		ProgressPercent:       95.04,
		DifficultyChange:      2.5,
		EstimatedRetargetDate: 1713600000000,
		RemainingBlocks:       100,
		RemainingTime:         3600000,
		PreviousRetarget:      -1.2,
		NextRetargetHeight:    300100,
		TimeAvg:               600000,
		ExpectedBlocks:        1916,
	}
}

func TestNewAdjustment(t *testing.T) {
	now := time.UnixMilli(1713590000000)
	adj := NewAdjustment(300000, sampleAdjustment(), now)

	if adj.LastRetargetHeight != 298084 {
		t.Errorf("LastRetargetHeight = %d, want 298084", adj.LastRetargetHeight)
	}
	if adj.FoundBlocks != 1916 {
		t.Errorf("FoundBlocks = %v, want 1916", adj.FoundBlocks)
	}
	// Expected blocks matches found blocks exactly in the sample.
	if adj.BlocksBehind != 0 {
		t.Errorf("BlocksBehind = %v, want 0", adj.BlocksBehind)
	}
	if adj.MinutesBetweenBlocks != 10 {
		t.Errorf("MinutesBetweenBlocks = %v, want 10", adj.MinutesBetweenBlocks)
	}
	if adj.ProgressPercent != 95.04 {
		t.Errorf("ProgressPercent = %v, want 95.04", adj.ProgressPercent)
	}
	if !adj.RetargetDate.Equal(time.UnixMilli(1713600000000)) {
		t.Errorf("RetargetDate = %v", adj.RetargetDate)
	}
	if adj.TimeUntilRetarget == "" {
		t.Error("TimeUntilRetarget is empty")
	}
}

func TestNewAdjustment_SlowBlocks(t *testing.T) {
	da := sampleAdjustment()
	da.ExpectedBlocks = 2000
	da.TimeAvg = 660000 // 11 minutes

	adj := NewAdjustment(300000, da, time.Now())
	if adj.BlocksBehind != 84 {
		t.Errorf("BlocksBehind = %v, want 84", adj.BlocksBehind)
	}
	if adj.MinutesBetweenBlocks != 11 {
		t.Errorf("MinutesBetweenBlocks = %v, want 11", adj.MinutesBetweenBlocks)
	}
}
