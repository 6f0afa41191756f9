package chain

import (
	"time"

	"github.com/bitwatch/mempool-data/internal/model"
)

// Subsidy schedule constants.
const (
	InitialReward   = 50.0
	HalvingInterval = 210000
)

// Halving estimates the next block-subsidy halving from the current chain
// height, optionally refined with live block timing.
type Halving struct {
	Height            int
	CurrentHalving    int
	NextHalvingHeight int
	BlocksRemaining   int
	CurrentReward     float64
	NextReward        float64

	// Set only when difficulty data was provided.
	EstimatedDate      time.Time
	EstimatedDays      float64
	EstimatedTimeUntil string
}

// NewHalving computes halving facts at the given height. da may be nil, in
// which case no date estimate is produced. now anchors the estimate.
func NewHalving(height int, da *model.DifficultyAdjustment, now time.Time) Halving {
	current := height / HalvingInterval
	reward := InitialReward
	for i := 0; i < current; i++ {
		reward /= 2
	}

	h := Halving{
		Height:            height,
		CurrentHalving:    current,
		NextHalvingHeight: (current + 1) * HalvingInterval,
		CurrentReward:     reward,
		NextReward:        reward / 2,
	}
	h.BlocksRemaining = h.NextHalvingHeight - height

	if da != nil {
		avgMinutes := float64(da.TimeAvg) / 60000
		if avgMinutes > 0 {
			minsRemaining := float64(h.BlocksRemaining) * avgMinutes
			h.EstimatedDays = minsRemaining / (60 * 24)
			h.EstimatedDate = now.Add(time.Duration(minsRemaining * float64(time.Minute)))
			h.EstimatedTimeUntil = TimeUntil(h.EstimatedDate, now)
		}
	}
	return h
}
