package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/bitwatch/mempool-data/internal/api"
	"github.com/bitwatch/mempool-data/internal/chain"
	"github.com/bitwatch/mempool-data/internal/config"
	"github.com/bitwatch/mempool-data/internal/model"
	"github.com/bitwatch/mempool-data/internal/poller"
	"github.com/bitwatch/mempool-data/internal/stream"
	"github.com/bitwatch/mempool-data/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/watcher.local.yaml", "path to config file")
	flag.Parse()

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	logger.Info("starting watcher",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	// Load configuration
	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("configuration loaded",
		"instance_id", cfg.Instance.ID,
		"stream_url", cfg.Stream.URL,
		"channels", cfg.Stream.Channels,
		"tracked_addresses", len(cfg.Stream.TrackAddresses),
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Create API client
	apiClient := api.NewClient(
		cfg.API.BaseURL,
		api.WithLogger(logger),
		api.WithTimeout(cfg.API.Timeout),
		api.WithRetries(cfg.API.MaxRetries, time.Second),
	)

	status := newStatusBoard()

	// Take one synchronous snapshot so the watcher starts with known state.
	netPoller := poller.New(poller.Config{
		Interval: cfg.Poller.Interval,
		Timeout:  cfg.Poller.Timeout,
	}, apiClient, poller.SnapshotHandlerFunc(func(s poller.Snapshot) error {
		status.setSnapshot(s)
		return nil
	}), logger)

	snapshot, err := netPoller.Fetch(ctx)
	if err != nil {
		logger.Error("initial network snapshot failed", "error", err)
		os.Exit(1)
	}
	status.setSnapshot(snapshot)

	logger.Info("network snapshot",
		"height", snapshot.Height,
		"fastest_fee", snapshot.Fees.FastestFee,
		"mempool_blocks", snapshot.Fees.MempoolBlocks,
		"retarget_in", snapshot.Difficulty.TimeUntilRetarget,
		"next_halving_height", snapshot.Halving.NextHalvingHeight,
	)

	// Create streaming client
	client := stream.New(stream.Config{
		URL:                cfg.Stream.URL,
		HandshakeTimeout:   cfg.Stream.HandshakeTimeout,
		WriteTimeout:       cfg.Stream.WriteTimeout,
		ReconnectBaseDelay: cfg.Stream.ReconnectBaseDelay,
		ReconnectMaxDelay:  cfg.Stream.ReconnectMaxDelay,
		ReconnectJitter:    cfg.Stream.ReconnectJitter,
	}, logger)

	registerHandlers(client, status, logger)
	client.OnError(func(err error) {
		logger.Warn("stream error", "error", err)
	})

	for _, name := range cfg.Stream.Channels {
		client.Subscribe(stream.Simple(stream.ChannelName(name)))
	}
	for _, addr := range cfg.Stream.TrackAddresses {
		client.Subscribe(stream.Address(addr))
	}

	if err := client.Connect(ctx); err != nil {
		logger.Error("failed to connect stream", "error", err)
		os.Exit(1)
	}
	defer client.Disconnect()

	logger.Info("stream connected", "url", cfg.Stream.URL)

	// Start background poller
	if cfg.Poller.Enabled {
		if err := netPoller.Start(ctx); err != nil {
			logger.Error("failed to start poller", "error", err)
			os.Exit(1)
		}
		defer func() {
			stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer stopCancel()
			netPoller.Stop(stopCtx)
		}()
	}

	// Start health server
	healthServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Health.Port),
		Handler: createHealthHandler(cfg.Health.Path, client, status),
	}

	go func() {
		logger.Info("starting health server", "port", cfg.Health.Port)
		if err := healthServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("health server error", "error", err)
		}
	}()

	logger.Info("watcher running",
		"instance_id", cfg.Instance.ID,
		"health_url", fmt.Sprintf("http://localhost:%d%s", cfg.Health.Port, cfg.Health.Path),
	)

	// Wait for shutdown
	<-ctx.Done()

	logger.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	healthServer.Shutdown(shutdownCtx)

	logger.Info("watcher stopped")
}

// registerHandlers wires per-channel logging handlers onto the stream client.
func registerHandlers(client *stream.Client, status *statusBoard, logger *slog.Logger) {
	client.On(stream.Simple(stream.ChannelBlocks), func(ev stream.Event) error {
		status.touch(ev)
		blocks, err := parseBlocks(ev)
		if err != nil {
			return err
		}
		for _, b := range blocks {
			status.setHeight(b.Height)
			logger.Info("new block",
				"height", b.Height,
				"id", b.ID,
				"tx_count", b.TxCount,
				"seq", ev.Seq,
			)
		}
		return nil
	})

	client.On(stream.Simple(stream.ChannelMempoolBlocks), func(ev stream.Event) error {
		status.touch(ev)
		blocks, err := model.ParseMempoolBlocks(ev.Payload)
		if err != nil {
			return err
		}
		if status.updateFees(blocks) {
			fees := status.fees()
			logger.Info("fee update",
				"fastest", fees.FastestFee,
				"half_hour", fees.HalfHourFee,
				"hour", fees.HourFee,
				"mempool_blocks", fees.MempoolBlocks,
				"seq", ev.Seq,
			)
		}
		return nil
	})

	client.On(stream.Simple(stream.ChannelStats), func(ev stream.Event) error {
		status.touch(ev)
		logger.Debug("stats update", "key", ev.Key, "seq", ev.Seq)
		return nil
	})

	client.On(stream.Simple(stream.ChannelLive2hChart), func(ev stream.Event) error {
		status.touch(ev)
		logger.Debug("live chart sample", "seq", ev.Seq)
		return nil
	})

	client.On(stream.Simple(stream.ChannelAddress), func(ev stream.Event) error {
		status.touch(ev)
		txs, err := model.ParseTransactions(ev.Payload)
		if err != nil {
			return err
		}
		logger.Info("address activity",
			"key", ev.Key,
			"tx_count", len(txs),
			"seq", ev.Seq,
		)
		return nil
	})

	client.On(stream.Simple(stream.ChannelUnknown), func(ev stream.Event) error {
		status.touch(ev)
		logger.Warn("unrecognized stream key", "key", ev.Key, "seq", ev.Seq)
		return nil
	})
}

// parseBlocks handles both the single-block and block-list payload shapes.
func parseBlocks(ev stream.Event) ([]model.Block, error) {
	if ev.Key == "block" {
		b, err := model.ParseBlock(ev.Payload)
		if err != nil {
			return nil, err
		}
		return []model.Block{b}, nil
	}
	return model.ParseBlocks(ev.Payload)
}

// statusBoard tracks the latest observed network state for health reporting.
type statusBoard struct {
	mu         sync.Mutex
	height     int64
	report     poller.Snapshot
	hasReport  bool
	lastEvent  time.Time
	lastSeq    uint64
	eventCount uint64
}

func newStatusBoard() *statusBoard {
	return &statusBoard{}
}

func (s *statusBoard) touch(ev stream.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastEvent = ev.ReceivedAt
	s.lastSeq = ev.Seq
	s.eventCount++
}

func (s *statusBoard) setHeight(h int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if h > s.height {
		s.height = h
	}
}

func (s *statusBoard) setSnapshot(snap poller.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.report = snap
	s.hasReport = true
	if int64(snap.Height) > s.height {
		s.height = int64(snap.Height)
	}
}

func (s *statusBoard) updateFees(blocks []model.MempoolBlock) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasReport {
		return false
	}
	return s.report.Fees.UpdateMempoolBlocks(blocks)
}

func (s *statusBoard) fees() chain.FeeReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasReport {
		return chain.FeeReport{}
	}
	return *s.report.Fees
}

func (s *statusBoard) summary() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := map[string]interface{}{
		"height":      s.height,
		"event_count": s.eventCount,
		"last_seq":    s.lastSeq,
	}
	if !s.lastEvent.IsZero() {
		out["last_event"] = s.lastEvent.UTC().Format(time.RFC3339)
	}
	if s.hasReport {
		out["fastest_fee"] = s.report.Fees.FastestFee
		out["mempool_tx_count"] = s.report.Fees.MempoolTxCount
		out["next_halving_height"] = s.report.Halving.NextHalvingHeight
		out["snapshot_at"] = s.report.FetchedAt.UTC().Format(time.RFC3339)
	}
	return out
}

// createHealthHandler creates the HTTP handler for health checks.
func createHealthHandler(path string, client *stream.Client, status *statusBoard) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
		state := client.State()

		health := struct {
			Status     string                 `json:"status"`
			Stream     string                 `json:"stream"`
			Components map[string]interface{} `json:"components"`
		}{
			Stream:     state.String(),
			Components: status.summary(),
		}

		switch state {
		case stream.StateConnected:
			health.Status = "healthy"
		case stream.StateReconnecting, stream.StateConnecting:
			health.Status = "degraded"
		default:
			health.Status = "unhealthy"
		}

		w.Header().Set("Content-Type", "application/json")
		if health.Status == "unhealthy" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		json.NewEncoder(w).Encode(health)
	})

	return mux
}
