// Package builder implements the per-user website building operations: the
// profile-refining conversation, image ingestion, site generation and
// publishing. Every mutating operation for a user runs under that user's
// lock, so concurrent requests from HTTP and Telegram observe each other's
// persisted results.
package builder

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"site-builder/internal/history"
	"site-builder/internal/llm"
	"site-builder/internal/logging"
	"site-builder/internal/profile"
	"site-builder/internal/site"
	"site-builder/internal/storage"
	"site-builder/internal/userlock"
)

// Store is the per-user persistence the service needs.
type Store interface {
	EnsureInitialized(userID string) error
	LoadProfile(userID string) (profile.Profile, error)
	LoadHistory(userID string) (history.Log, error)
	SaveProfile(userID string, p profile.Profile) error
	SaveHistory(userID string, l history.Log) error
	Quarantine(userID string, doc storage.Document) (string, error)
	Reset(userID string) error

	SaveImage(userID, filename string, data []byte) (string, error)
	RemoveImage(userID, filename string) error
	ImagePath(userID, filename string) (string, error)
	ListImages(userID string) ([]storage.ImageFile, error)
	ListUsers() ([]string, error)

	SaveSite(userID string, a site.Artifact) error
	LoadSite(userID string) (site.Artifact, error)
	SiteDir(userID string) (string, error)
}

// Publisher pushes a site to public hosting and returns its URL.
type Publisher interface {
	Publish(ctx context.Context, userID string, a site.Artifact) (string, error)
}

type Options struct {
	ModelTimeout    time.Duration
	PublishTimeout  time.Duration
	MaxUploadImages int
	OrphanMaxAge    time.Duration
	LegacySiteDir   string
	Now             func() time.Time
}

func (o Options) withDefaults() Options {
	if o.ModelTimeout <= 0 {
		o.ModelTimeout = 90 * time.Second
	}
	if o.PublishTimeout <= 0 {
		o.PublishTimeout = 3 * time.Minute
	}
	if o.MaxUploadImages <= 0 {
		o.MaxUploadImages = 10
	}
	if o.OrphanMaxAge <= 0 {
		o.OrphanMaxAge = time.Hour
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

type Service struct {
	store     Store
	chat      llm.Client
	vision    llm.Client
	publisher Publisher
	recorder  storage.Recorder
	locks     *userlock.Locker
	opts      Options
}

// New wires a service. publisher and recorder may be nil: publishing then
// fails with ErrPublishDisabled and no activity is recorded.
func New(store Store, chat, vision llm.Client, publisher Publisher, recorder storage.Recorder, opts Options) *Service {
	if vision == nil {
		vision = chat
	}
	return &Service{
		store:     store,
		chat:      chat,
		vision:    vision,
		publisher: publisher,
		recorder:  recorder,
		locks:     userlock.New(),
		opts:      opts.withDefaults(),
	}
}

func (s *Service) now() time.Time { return s.opts.Now().UTC() }

// EnsureInitialized creates the user's documents and directories if needed.
func (s *Service) EnsureInitialized(userID string) error {
	unlock := s.locks.Lock(userID)
	defer unlock()
	return s.store.EnsureInitialized(userID)
}

// Profile returns the stored profile. A corrupt document is quarantined and
// replaced with the default.
func (s *Service) Profile(userID string) (profile.Profile, error) {
	p, err := s.store.LoadProfile(userID)
	if isCorrupt(err) {
		unlock := s.locks.Lock(userID)
		defer unlock()
		return s.loadProfile(userID)
	}
	return p, err
}

// History returns the stored history, recovering from corruption like Profile.
func (s *Service) History(userID string) (history.Log, error) {
	l, err := s.store.LoadHistory(userID)
	if isCorrupt(err) {
		unlock := s.locks.Lock(userID)
		defer unlock()
		return s.loadHistory(userID)
	}
	return l, err
}

// Reset restores the default profile and empty history and deletes the
// user's images and generated site.
func (s *Service) Reset(userID string) error {
	unlock := s.locks.Lock(userID)
	defer unlock()
	if err := s.store.Reset(userID); err != nil {
		return err
	}
	s.record(storage.Event{UserID: userID, Kind: storage.KindReset})
	return nil
}

func isCorrupt(err error) bool {
	var cde *storage.CorruptDataError
	return errors.As(err, &cde)
}

// loadOrRecover runs load; on corrupt data the document is moved aside and
// loaded again, which yields the default. Callers hold the user lock.
func loadOrRecover[T any](s *Service, userID string, doc storage.Document, load func(string) (T, error)) (T, error) {
	v, err := load(userID)
	if !isCorrupt(err) {
		return v, err
	}
	moved, qerr := s.store.Quarantine(userID, doc)
	if qerr != nil {
		return v, qerr
	}
	lg := logging.ForUser(userID, "load")
	lg.Warn().Err(err).Str("moved_to", moved).Msg("corrupt document quarantined, starting from defaults")
	return load(userID)
}

func (s *Service) loadProfile(userID string) (profile.Profile, error) {
	return loadOrRecover(s, userID, storage.ProfileDoc, s.store.LoadProfile)
}

func (s *Service) loadHistory(userID string) (history.Log, error) {
	return loadOrRecover(s, userID, storage.HistoryDoc, s.store.LoadHistory)
}

func (s *Service) loadState(userID string) (profile.Profile, history.Log, error) {
	p, err := s.loadProfile(userID)
	if err != nil {
		return profile.Profile{}, nil, err
	}
	l, err := s.loadHistory(userID)
	if err != nil {
		return profile.Profile{}, nil, err
	}
	return p, l, nil
}

// commit writes the new history and then runs save for the operation's other
// document. When save fails the previous history is written back, so the
// operation leaves either both documents updated or neither.
func (s *Service) commit(userID string, prev, next history.Log, save func() error) error {
	if err := s.store.SaveHistory(userID, next); err != nil {
		return err
	}
	if err := save(); err != nil {
		if rerr := s.store.SaveHistory(userID, prev); rerr != nil {
			lg := logging.ForUser(userID, "commit")
			lg.Error().Err(rerr).Msg("failed to restore history")
		}
		return err
	}
	return nil
}

// callModel bounds one model call by the configured timeout and records its
// latency.
func (s *Service) callModel(ctx context.Context, client llm.Client, op string, msgs []llm.Message) (llm.Response, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.ModelTimeout)
	defer cancel()
	start := time.Now()
	resp, err := client.Generate(ctx, msgs)
	modelLatency.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if err != nil {
		modelCalls.WithLabelValues(op, outcomeError).Inc()
		return llm.Response{}, err
	}
	log.Debug().
		Str("op", op).
		Str("model", resp.Model).
		Int("prompt_tokens", resp.PromptTokens).
		Int("completion_tokens", resp.CompletionTokens).
		Msg("model call")
	return resp, nil
}

func (s *Service) record(ev storage.Event) {
	if s.recorder == nil {
		return
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = s.now()
	}
	if err := s.recorder.AppendInteraction(ev); err != nil {
		lg := logging.ForUser(ev.UserID, ev.Kind)
		lg.Warn().Err(err).Msg("activity record failed")
	}
}
