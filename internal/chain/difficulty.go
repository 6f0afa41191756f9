package chain

import (
	"time"

	"github.com/bitwatch/mempool-data/internal/model"
)

// RetargetInterval is the number of blocks between difficulty adjustments.
const RetargetInterval = 2016

// Adjustment summarizes progress through the current difficulty epoch.
type Adjustment struct {
	Height               int
	LastRetargetHeight   int
	FoundBlocks          float64
	BlocksBehind         float64
	MinutesBetweenBlocks float64
	ProgressPercent      float64
	DifficultyChange     float64
	RetargetDate         time.Time
	TimeUntilRetarget    string
}

// NewAdjustment derives epoch progress from the provider's raw
// difficulty-adjustment payload at the given chain height. now anchors the
// human-readable countdown.
func NewAdjustment(height int, da model.DifficultyAdjustment, now time.Time) Adjustment {
	lastRetarget := height - RetargetInterval + int(da.RemainingBlocks)
	found := float64(height - lastRetarget)
	retargetDate := time.UnixMilli(da.EstimatedRetargetDate)

	return Adjustment{
		Height:               height,
		LastRetargetHeight:   lastRetarget,
		FoundBlocks:          found,
		BlocksBehind:         da.ExpectedBlocks - found,
		MinutesBetweenBlocks: float64(da.TimeAvg) / 60000,
		ProgressPercent:      da.ProgressPercent,
		DifficultyChange:     da.DifficultyChange,
		RetargetDate:         retargetDate,
		TimeUntilRetarget:    TimeUntil(retargetDate, now),
	}
}
