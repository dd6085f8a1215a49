package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"show_notifier/internal/announce"
	"show_notifier/internal/filter"
	"show_notifier/internal/model"
	"show_notifier/internal/storage"
	"show_notifier/internal/telemetry"
	"show_notifier/internal/tracker"
)

// Source supplies the seller's current live URL and scheduled shows.
type Source interface {
	LiveShow(ctx context.Context) (string, error)
	UpcomingShows(ctx context.Context) ([]model.ShowRecord, error)
}

// Notifier is the interface for delivering chat messages.
type Notifier interface {
	ChatAvailable(chatID int64) error
	SendMessage(chatID int64, text string) error
}

// Options configures the two checks.
type Options struct {
	LiveChatID       int64
	UpcomingChatID   int64
	Username         string
	BroadcastTag     string
	LiveInterval     time.Duration
	UpcomingInterval time.Duration
	Location         *time.Location
	Filters          []model.Filter
}

// Scheduler runs the live and upcoming-shows checks on their own tickers and
// owns the dedup state of both.
type Scheduler struct {
	source   Source
	notifier Notifier
	store    storage.Storage
	log      *slog.Logger
	opts     Options
	filters  *filter.Set
	now      func() time.Time

	// Serialise runs of the same check; the two checks are independent.
	liveRun     sync.Mutex
	upcomingRun sync.Mutex

	mu           sync.RWMutex
	live         model.LiveState
	announced    model.AnnouncedSet
	lastLive     *time.Time
	lastUpcoming *time.Time
}

// New creates a Scheduler with empty state.
func New(source Source, notifier Notifier, store storage.Storage, opts Options, log *slog.Logger) *Scheduler {
	if opts.LiveInterval <= 0 {
		opts.LiveInterval = time.Minute
	}
	if opts.UpcomingInterval <= 0 {
		opts.UpcomingInterval = 30 * time.Minute
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	return &Scheduler{
		source:    source,
		notifier:  notifier,
		store:     store,
		log:       log,
		opts:      opts,
		filters:   filter.NewSet(opts.Filters),
		now:       time.Now,
		announced: model.AnnouncedSet{},
	}
}

// SetClock overrides the time source used to order upcoming shows.
func (s *Scheduler) SetClock(now func() time.Time) {
	s.now = now
}

// Run starts both check loops, blocking until ctx is cancelled. Each check
// runs once immediately and then on every tick of its interval.
func (s *Scheduler) Run(ctx context.Context) {
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		s.loop(ctx, s.opts.LiveInterval, s.checkLive)
	}()
	go func() {
		defer wg.Done()
		s.loop(ctx, s.opts.UpcomingInterval, s.checkUpcoming)
	}()
	wg.Wait()
}

func (s *Scheduler) loop(ctx context.Context, every time.Duration, check func(context.Context)) {
	check(ctx)

	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			check(ctx)
		}
	}
}

// CheckNow runs one check, or both when kind is empty, synchronously.
func (s *Scheduler) CheckNow(ctx context.Context, kind model.CheckKind) error {
	switch kind {
	case model.CheckLive:
		s.checkLive(ctx)
	case model.CheckUpcoming:
		s.checkUpcoming(ctx)
	case "":
		s.checkLive(ctx)
		s.checkUpcoming(ctx)
	default:
		return fmt.Errorf("unknown check %q", kind)
	}
	return nil
}

// Snapshot returns a copy of the current state.
func (s *Scheduler) Snapshot() model.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return model.Snapshot{
		Live:              s.live,
		Announced:         len(s.announced),
		LastLiveCheck:     copyTime(s.lastLive),
		LastUpcomingCheck: copyTime(s.lastUpcoming),
	}
}

func (s *Scheduler) checkLive(ctx context.Context) {
	s.liveRun.Lock()
	defer s.liveRun.Unlock()
	if ctx.Err() != nil {
		return
	}

	kind := model.CheckLive
	log := s.cycleLogger(kind)
	telemetry.Checks.WithLabelValues(string(kind)).Inc()
	defer s.markChecked(kind)

	chatID := s.opts.LiveChatID
	if !s.destinationReady(log, kind, chatID) {
		return
	}

	url, err := s.source.LiveShow(ctx)
	if err != nil {
		log.Error("scrape live show", "error", err)
		telemetry.ScrapeFailures.WithLabelValues(string(kind)).Inc()
		url = ""
	}

	s.mu.Lock()
	notify, next := tracker.ObserveLive(url, s.live)
	s.live = next
	s.mu.Unlock()

	if !notify {
		log.Debug("no new live stream detected", "url", url)
		return
	}

	s.deliver(ctx, log, kind, chatID, announce.FormatLive(s.opts.Username, s.opts.BroadcastTag, url))
}

func (s *Scheduler) checkUpcoming(ctx context.Context) {
	s.upcomingRun.Lock()
	defer s.upcomingRun.Unlock()
	if ctx.Err() != nil {
		return
	}

	kind := model.CheckUpcoming
	log := s.cycleLogger(kind)
	telemetry.Checks.WithLabelValues(string(kind)).Inc()
	defer s.markChecked(kind)

	chatID := s.opts.UpcomingChatID
	if !s.destinationReady(log, kind, chatID) {
		return
	}

	shows, err := s.source.UpcomingShows(ctx)
	if err != nil {
		log.Error("scrape upcoming shows", "error", err)
		telemetry.ScrapeFailures.WithLabelValues(string(kind)).Inc()
		shows = nil
	}
	shows = s.filters.Shows(shows)

	s.mu.Lock()
	fresh, next := tracker.ObserveUpcoming(shows, s.announced)
	s.announced = next
	size := len(next)
	s.mu.Unlock()
	telemetry.AnnouncedShows.Set(float64(size))

	if len(fresh) == 0 {
		log.Debug("no new upcoming shows found", "scraped", len(shows))
		return
	}

	tracker.SortByTime(fresh, s.now().In(s.opts.Location))
	s.deliver(ctx, log, kind, chatID, announce.FormatUpcoming(tracker.Fingerprints(fresh)))
	log.Info("announced upcoming shows", "count", len(fresh))
}

func (s *Scheduler) destinationReady(log *slog.Logger, kind model.CheckKind, chatID int64) bool {
	if err := s.notifier.ChatAvailable(chatID); err != nil {
		log.Error("chat unavailable", "chat_id", chatID, "error", err)
		telemetry.DestinationUnavailable.WithLabelValues(string(kind)).Inc()
		return false
	}
	return true
}

// deliver sends text once. State has already advanced, so a failed send is
// not retried on the next cycle.
func (s *Scheduler) deliver(ctx context.Context, log *slog.Logger, kind model.CheckKind, chatID int64, text string) {
	if err := s.notifier.SendMessage(chatID, text); err != nil {
		log.Error("send notification", "chat_id", chatID, "error", err)
		telemetry.SendFailures.WithLabelValues(string(kind)).Inc()
		return
	}
	telemetry.NotificationsSent.WithLabelValues(string(kind)).Inc()
	log.Info("sent notification", "chat_id", chatID)

	n := &model.Notification{Kind: kind, ChatID: chatID, Body: text}
	if err := s.store.RecordNotification(ctx, n); err != nil {
		log.Error("record notification", "chat_id", chatID, "error", err)
	}
}

func (s *Scheduler) cycleLogger(kind model.CheckKind) *slog.Logger {
	return s.log.With("check", string(kind), "cycle", uuid.NewString())
}

func (s *Scheduler) markChecked(kind model.CheckKind) {
	now := time.Now().UTC()
	s.mu.Lock()
	defer s.mu.Unlock()
	switch kind {
	case model.CheckLive:
		s.lastLive = &now
	case model.CheckUpcoming:
		s.lastUpcoming = &now
	}
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
