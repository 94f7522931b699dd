package sync

import (
	"context"
	"fmt"
	"log/slog"
	gosync "sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/nhle/whatsboard/internal/model"
	"github.com/nhle/whatsboard/internal/source"
	"github.com/nhle/whatsboard/internal/store"
)

// SyncState represents the current state of the refresh loop.
type SyncState int

const (
	SyncIdle SyncState = iota
	SyncRunning
	SyncError
)

// SyncStatus describes the most recent refresh.
type SyncStatus struct {
	State    SyncState
	LastSync time.Time
	Error    error
}

// RefreshResultMsg is a tea.Msg sent when a refresh completes. On success
// the Store already holds the new snapshot.
type RefreshResultMsg struct {
	TaskCount    int
	MessageCount int
	FetchedAt    time.Time
	Error        error

	// AuthExpired is set when the failure was a rejected credential.
	AuthExpired bool

	// NewTasks are notifications raised for tasks seen for the first time.
	NewTasks []model.Notification
}

// SnapshotCache persists successful snapshots. Optional.
type SnapshotCache interface {
	SaveSnapshot(ctx context.Context, snap model.Snapshot) ([]model.Notification, error)
}

// defaultInterval is the refresh period when none is configured.
const defaultInterval = 30 * time.Second

// Options configures a Poller.
type Options struct {
	// Interval between automatic refreshes. Defaults to 30s.
	Interval time.Duration

	// Timeout bounds a single refresh. Zero means no bound beyond Stop.
	Timeout time.Duration

	Cache  SnapshotCache
	Logger *slog.Logger
}

// Poller refreshes the Store from the task and message sources: once on
// Start, then every Interval, and on demand via RefreshNow. Refreshes run
// one at a time on the poller's goroutine. Stop releases the ticker and
// cancels an in-flight refresh.
type Poller struct {
	store    *store.Store
	tasks    source.TaskSource
	messages source.MessageSource
	cache    SnapshotCache
	logger   *slog.Logger
	interval time.Duration
	timeout  time.Duration

	resultCh  chan RefreshResultMsg
	triggerCh chan struct{}
	stopCh    chan struct{}

	ctx    context.Context
	cancel context.CancelFunc

	mu      gosync.Mutex
	status  SyncStatus
	running bool
	stopped bool
}

// New creates a new Poller that writes into s.
func New(
	s *store.Store,
	tasks source.TaskSource,
	messages source.MessageSource,
	opts Options,
) *Poller {
	interval := opts.Interval
	if interval <= 0 {
		interval = defaultInterval
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Poller{
		store:     s,
		tasks:     tasks,
		messages:  messages,
		cache:     opts.Cache,
		logger:    logger,
		interval:  interval,
		timeout:   opts.Timeout,
		resultCh:  make(chan RefreshResultMsg, 16),
		triggerCh: make(chan struct{}, 1),
		stopCh:    make(chan struct{}),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Start returns a tea.Cmd that starts the polling goroutine and
// subscribes to results. Calling Start again, or after Stop, returns nil.
func (p *Poller) Start() tea.Cmd {
	p.mu.Lock()
	if p.running || p.stopped {
		p.mu.Unlock()
		return nil
	}
	p.running = true
	p.mu.Unlock()

	go p.loop()

	return p.waitForResult()
}

// Stop halts the polling goroutine and cancels any refresh in flight.
// It is safe to call more than once.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopped {
		return
	}
	p.stopped = true
	p.running = false
	close(p.stopCh)
	p.cancel()
}

// RefreshNow asks the polling goroutine for an immediate refresh. A
// request already pending absorbs this one.
func (p *Poller) RefreshNow() tea.Cmd {
	select {
	case p.triggerCh <- struct{}{}:
	default:
	}
	return nil
}

// Status returns the outcome of the most recent refresh.
func (p *Poller) Status() SyncStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

// loop runs the polling loop until Stop.
func (p *Poller) loop() {
	defer close(p.resultCh)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.sendResult(p.Refresh(p.ctx))

	for {
		select {
		case <-p.stopCh:
			return
		case <-ticker.C:
			p.sendResult(p.Refresh(p.ctx))
		case <-p.triggerCh:
			p.sendResult(p.Refresh(p.ctx))
		}
	}
}

// Refresh performs one fetch of tasks and messages. On success the Store
// is replaced with the new snapshot and the snapshot is cached; on
// failure the Store is left untouched and the error is logged.
func (p *Poller) Refresh(ctx context.Context) RefreshResultMsg {
	p.setStatus(SyncRunning, nil)

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	started := time.Now()
	snap, err := Fetch(ctx, p.tasks, p.messages)
	if err != nil {
		p.setStatus(SyncError, err)
		p.logger.Warn("refresh failed", "error", err, "elapsed", time.Since(started))
		return RefreshResultMsg{
			Error:       err,
			AuthExpired: source.IsAuthError(err),
		}
	}

	p.store.Replace(snap)

	var fresh []model.Notification
	if p.cache != nil {
		fresh, err = p.cache.SaveSnapshot(ctx, snap)
		if err != nil {
			p.logger.Warn("caching snapshot failed", "error", err)
		}
	}

	p.setStatus(SyncIdle, nil)
	p.logger.Debug("refresh complete",
		"tasks", len(snap.Tasks),
		"messages", len(snap.Messages),
		"new", len(fresh),
		"elapsed", time.Since(started),
	)

	return RefreshResultMsg{
		TaskCount:    len(snap.Tasks),
		MessageCount: len(snap.Messages),
		FetchedAt:    snap.FetchedAt,
		NewTasks:     fresh,
	}
}

// Fetch retrieves tasks and important messages concurrently. Either
// failing fails the whole fetch.
func Fetch(
	ctx context.Context,
	tasks source.TaskSource,
	messages source.MessageSource,
) (model.Snapshot, error) {
	var snap model.Snapshot

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		t, err := tasks.FetchTasks(gctx)
		if err != nil {
			return err
		}
		snap.Tasks = t
		return nil
	})
	g.Go(func() error {
		m, err := messages.FetchImportantMessages(gctx)
		if err != nil {
			return err
		}
		snap.Messages = m
		return nil
	})

	if err := g.Wait(); err != nil {
		return model.Snapshot{}, fmt.Errorf("refreshing dashboard data: %w", err)
	}

	snap.FetchedAt = time.Now()
	return snap, nil
}

// setStatus updates the sync status.
func (p *Poller) setStatus(state SyncState, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.status.State = state
	p.status.Error = err
	if state == SyncIdle {
		p.status.LastSync = time.Now()
	}
}

// sendResult sends a RefreshResultMsg on the result channel without blocking.
func (p *Poller) sendResult(msg RefreshResultMsg) {
	select {
	case p.resultCh <- msg:
	default:
		// Drop if channel is full to avoid blocking the poller
	}
}

// waitForResult returns a tea.Cmd that waits for the next result from
// the result channel. It returns nil once the poller has stopped.
func (p *Poller) waitForResult() tea.Cmd {
	return func() tea.Msg {
		result, ok := <-p.resultCh
		if !ok {
			return nil
		}
		return result
	}
}

// WaitForNextResult returns a tea.Cmd that waits for the next refresh result.
// This should be called after processing a RefreshResultMsg to continue
// listening for future results.
func (p *Poller) WaitForNextResult() tea.Cmd {
	return p.waitForResult()
}
