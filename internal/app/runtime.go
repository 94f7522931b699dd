package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/nhle/whatsboard/internal/ai"
	"github.com/nhle/whatsboard/internal/credential"
	"github.com/nhle/whatsboard/internal/model"
	"github.com/nhle/whatsboard/internal/source"
	"github.com/nhle/whatsboard/internal/source/email"
	"github.com/nhle/whatsboard/internal/source/whatsapp"
	"github.com/nhle/whatsboard/internal/store"
	appsync "github.com/nhle/whatsboard/internal/sync"
	"github.com/nhle/whatsboard/internal/timer"
)

const (
	cacheFile = "cache.db"
	stateDir  = "state"
)

// SecretFunc returns the secret stored under key, or "" if none is.
type SecretFunc func(key string) (string, error)

// Options adjusts how a Runtime is assembled.
type Options struct {
	// Secret looks up credentials. Defaults to credential.Lookup.
	Secret SecretFunc

	// Completer replaces the configured AI provider.
	Completer ai.Completer

	// Tasks and Messages replace the configured sources.
	Tasks    source.TaskSource
	Messages source.MessageSource

	// NoCache skips the SQLite snapshot cache.
	NoCache bool
}

// Runtime holds every collaborator of the dashboard, built once from the
// configuration and passed to the views and CLI commands.
type Runtime struct {
	Config     *model.AppConfig
	ConfigPath string
	Logger     *slog.Logger

	Store      *store.Store
	Cache      *store.SQLiteCache
	Tasks      source.TaskSource
	Messages   source.MessageSource
	Poller     *appsync.Poller
	Timer      *timer.Timer
	Completer  ai.Completer
	Summarizer *ai.Summarizer

	closers []io.Closer
}

// NewRuntime wires the collaborators described by cfg. A missing AI key
// is not an error: summaries and chat then return their fallback text.
func NewRuntime(ctx context.Context, cfgPath string, cfg *model.AppConfig, logger *slog.Logger, opts Options) (*Runtime, error) {
	if logger == nil {
		logger = slog.Default()
	}
	secret := opts.Secret
	if secret == nil {
		secret = credential.Lookup
	}

	r := &Runtime{
		Config:     cfg,
		ConfigPath: cfgPath,
		Logger:     logger,
		Store:      store.New(),
	}

	dataDir := DataDir(cfg)
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	tasks, messages, err := r.buildSources(opts, secret)
	if err != nil {
		return nil, err
	}
	r.Tasks, r.Messages = tasks, messages

	if !opts.NoCache {
		cache, err := store.NewSQLiteCache(filepath.Join(dataDir, cacheFile))
		if err != nil {
			logger.Warn("snapshot cache unavailable", "error", err)
		} else {
			r.Cache = cache
			r.closers = append(r.closers, cache)
		}
	}

	pollOpts := appsync.Options{
		Interval: cfg.PollInterval(),
		Timeout:  cfg.RefreshTimeout(),
		Logger:   logger,
	}
	if r.Cache != nil {
		pollOpts.Cache = r.Cache
	}
	r.Poller = appsync.New(r.Store, r.Tasks, r.Messages, pollOpts)

	r.Timer = OpenTimer(cfg, logger)

	r.Completer = opts.Completer
	if r.Completer == nil {
		c, err := newCompleter(ctx, cfg.AI, secret)
		if err != nil {
			logger.Warn("AI assistant unavailable", "provider", cfg.AI.Provider, "error", err)
		} else if c != nil {
			r.Completer = c
			if closer, ok := c.(io.Closer); ok {
				r.closers = append(r.closers, closer)
			}
		}
	}
	var gen ai.Generator
	if r.Completer != nil {
		gen = r.Completer
	}
	r.Summarizer = ai.NewSummarizer(gen, logger, cfg.AITimeout())

	return r, nil
}

// DataDir returns the configured data directory.
func DataDir(cfg *model.AppConfig) string {
	if cfg.Storage.DataDir == "" {
		return model.DefaultDataDir()
	}
	return cfg.Storage.DataDir
}

// OpenTimer loads the focus timer persisted under the data directory.
func OpenTimer(cfg *model.AppConfig, logger *slog.Logger) *timer.Timer {
	return timer.New(timer.NewDiskStore(filepath.Join(DataDir(cfg), stateDir)), logger)
}

// buildSources returns the task and message sources for the config.
func (r *Runtime) buildSources(opts Options, secret SecretFunc) (source.TaskSource, source.MessageSource, error) {
	cfg := r.Config

	tasks, messages := opts.Tasks, opts.Messages
	if tasks != nil && messages != nil {
		return tasks, messages, nil
	}

	token, err := secret(credential.WhatsAppToken)
	if err != nil {
		r.Logger.Debug("no analyser token", "error", err)
	}
	api := whatsapp.NewAdapter(cfg.Source.BaseURL, token, r.Logger)

	if tasks == nil {
		tasks = api
	}
	if messages != nil {
		return tasks, messages, nil
	}

	switch cfg.Messages.Type {
	case model.MessagesIMAP:
		password, err := secret(credential.IMAPPassword)
		if err != nil {
			return nil, nil, fmt.Errorf("loading IMAP password: %w", err)
		}
		messages = email.NewAdapter(cfg.Messages.IMAP, password)
	default:
		messages = api
	}
	return tasks, messages, nil
}

// newCompleter builds the configured AI provider. It returns nil with no
// error when no API key is stored.
func newCompleter(ctx context.Context, cfg model.AIConfig, secret SecretFunc) (ai.Completer, error) {
	switch cfg.Provider {
	case model.ProviderAnthropic:
		key, err := secret(credential.AnthropicAPIKey)
		if err != nil || key == "" {
			return nil, err
		}
		return ai.NewAnthropic(key, cfg.Model, cfg.MaxTokens), nil
	default:
		key, err := secret(credential.GeminiAPIKey)
		if err != nil || key == "" {
			return nil, err
		}
		g, err := ai.NewGemini(ctx, key, cfg.Model, cfg.MaxTokens)
		if err != nil {
			return nil, err
		}
		return g, nil
	}
}

// LoadCached fills the Store from the snapshot cache, if one exists, so
// the dashboard has data before the first refresh completes.
func (r *Runtime) LoadCached(ctx context.Context) bool {
	if r.Cache == nil {
		return false
	}
	snap, ok, err := r.Cache.LoadSnapshot(ctx)
	if err != nil {
		r.Logger.Warn("loading cached snapshot failed", "error", err)
		return false
	}
	if !ok {
		return false
	}
	r.Store.Replace(snap)
	return true
}

// NewSession starts a chat session about t.
func (r *Runtime) NewSession(t model.Task) *ai.Session {
	var conv ai.Conversation
	if r.Completer != nil {
		conv = r.Completer
	}
	return ai.NewSession(t, conv, r.Logger, r.Config.AITimeout())
}

// UnreadCount returns the number of unread new-task notifications.
func (r *Runtime) UnreadCount(ctx context.Context) int {
	if r.Cache == nil {
		return 0
	}
	n, err := r.Cache.UnreadNotifications(ctx)
	if err != nil {
		r.Logger.Warn("loading notifications failed", "error", err)
		return 0
	}
	return len(n)
}

// MarkRead clears the notifications raised for a task.
func (r *Runtime) MarkRead(ctx context.Context, taskID string) {
	if r.Cache == nil {
		return
	}
	if err := r.Cache.MarkTaskNotificationsRead(ctx, taskID); err != nil {
		r.Logger.Warn("marking notifications read failed", "task", taskID, "error", err)
	}
}

// Close stops the poller and releases the cache and AI client. The timer
// keeps its persisted state so a running timer resumes on the next start.
func (r *Runtime) Close() error {
	r.Poller.Stop()

	var firstErr error
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i].Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	r.closers = nil
	return firstErr
}
