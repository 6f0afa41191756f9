package poller

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bitwatch/mempool-data/internal/api"
	"github.com/bitwatch/mempool-data/internal/chain"
	"github.com/bitwatch/mempool-data/internal/model"
)

// Snapshot is one complete poll of network state.
type Snapshot struct {
	Height     int
	Fees       *chain.FeeReport
	Difficulty chain.Adjustment
	Halving    chain.Halving
	Prices     model.Prices
	FetchedAt  time.Time
}

// SnapshotHandler receives completed snapshots.
type SnapshotHandler interface {
	HandleSnapshot(snapshot Snapshot) error
}

// SnapshotHandlerFunc is a function adapter for SnapshotHandler.
type SnapshotHandlerFunc func(Snapshot) error

func (f SnapshotHandlerFunc) HandleSnapshot(s Snapshot) error {
	return f(s)
}

// Config holds poller configuration.
type Config struct {
	Interval time.Duration // Poll interval (default: 5m)
	Timeout  time.Duration // Per-cycle timeout (default: 30s)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Interval: 5 * time.Minute,
		Timeout:  30 * time.Second,
	}
}

// Poller periodically fetches network state via the REST API.
type Poller struct {
	cfg     Config
	client  *api.Client
	handler SnapshotHandler
	logger  *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a new Poller.
func New(cfg Config, client *api.Client, handler SnapshotHandler, logger *slog.Logger) *Poller {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultConfig().Interval
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	return &Poller{
		cfg:     cfg,
		client:  client,
		handler: handler,
		logger:  logger,
	}
}

// Start begins the polling loop.
func (p *Poller) Start(ctx context.Context) error {
	p.ctx, p.cancel = context.WithCancel(ctx)

	p.wg.Add(1)
	go p.run()

	p.logger.Info("snapshot poller started", "interval", p.cfg.Interval)
	return nil
}

// Stop gracefully shuts down the poller.
func (p *Poller) Stop(ctx context.Context) error {
	if p.cancel != nil {
		p.cancel()
	}

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("snapshot poller stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// run is the main polling loop.
func (p *Poller) run() {
	defer p.wg.Done()

	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	// Poll immediately on start.
	p.poll()

	for {
		select {
		case <-p.ctx.Done():
			return
		case <-ticker.C:
			p.poll()
		}
	}
}

// poll fetches every endpoint concurrently and assembles one snapshot.
func (p *Poller) poll() {
	start := time.Now()

	snapshot, err := p.Fetch(p.ctx)
	if err != nil {
		p.logger.Warn("poll cycle failed", "err", err)
		return
	}

	if p.handler != nil {
		if err := p.handler.HandleSnapshot(snapshot); err != nil {
			p.logger.Warn("snapshot handler failed", "err", err)
			return
		}
	}

	p.logger.Info("poll cycle complete",
		"height", snapshot.Height,
		"fastest_fee", snapshot.Fees.FastestFee,
		"duration", time.Since(start),
	)
}

// Fetch performs a single poll cycle and returns the assembled snapshot.
func (p *Poller) Fetch(ctx context.Context) (Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	var (
		height     int64
		rec        model.RecommendedFees
		mempool    []model.MempoolBlock
		difficulty model.DifficultyAdjustment
		prices     model.Prices
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		height, err = p.client.GetBlockTipHeight(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		rec, err = p.client.GetRecommendedFees(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		mempool, err = p.client.GetMempoolBlocksFee(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		difficulty, err = p.client.GetDifficultyAdjustment(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		prices, err = p.client.GetPrices(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}

	now := time.Now()
	fees := chain.NewFeeReport()
	fees.UpdateRecommended(rec)
	fees.UpdateMempoolBlocks(mempool)

	return Snapshot{
		Height:     int(height),
		Fees:       fees,
		Difficulty: chain.NewAdjustment(int(height), difficulty, now),
		Halving:    chain.NewHalving(int(height), &difficulty, now),
		Prices:     prices,
		FetchedAt:  now,
	}, nil
}
