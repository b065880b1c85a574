package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/worshipflow/planner-core/internal/core/domain"
	"github.com/worshipflow/planner-core/internal/core/ports/driven"
)

const (
	defaultMaxMergeAttempts = 3
	defaultLockTTL          = 10 * time.Second
	defaultLockWait         = 2 * time.Second
	lockPollInterval        = 50 * time.Millisecond
)

// WriterConfig holds the collaborators shared by every path that writes a service document.
type WriterConfig struct {
	ServiceStore  driven.ServiceStore
	IndexStore    driven.SelectionIndexStore
	OrphanArchive driven.OrphanArchive
	Calendar      driven.LiturgicalCalendar // Optional: fills liturgical context on first write
	Notifier      driven.ConflictNotifier   // Optional: publishes conflict signals
	Lock          driven.WriteLock          // Optional: serialises writers per date
	Logger        *slog.Logger
	Clock         func() time.Time

	MaxMergeAttempts int           // Read-merge-write attempts before giving up (default: 3)
	LockTTL          time.Duration // TTL of the per-date write lock (default: 10s)
	LockWait         time.Duration // How long to wait for the lock before writing unguarded (default: 2s)
}

// serviceWriter implements the read-merge-write cycle and the best-effort
// secondary writes (orphan archive, selection index) that follow it.
type serviceWriter struct {
	services driven.ServiceStore
	index    driven.SelectionIndexStore
	archive  driven.OrphanArchive
	calendar driven.LiturgicalCalendar
	notifier driven.ConflictNotifier
	lock     driven.WriteLock
	logger   *slog.Logger
	clock    func() time.Time

	maxAttempts int
	lockTTL     time.Duration
	lockWait    time.Duration
}

func newServiceWriter(cfg WriterConfig) *serviceWriter {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	attempts := cfg.MaxMergeAttempts
	if attempts <= 0 {
		attempts = defaultMaxMergeAttempts
	}
	lockTTL := cfg.LockTTL
	if lockTTL == 0 {
		lockTTL = defaultLockTTL
	}
	lockWait := cfg.LockWait
	if lockWait == 0 {
		lockWait = defaultLockWait
	}

	return &serviceWriter{
		services:    cfg.ServiceStore,
		index:       cfg.IndexStore,
		archive:     cfg.OrphanArchive,
		calendar:    cfg.Calendar,
		notifier:    cfg.Notifier,
		lock:        cfg.Lock,
		logger:      logger,
		clock:       clock,
		maxAttempts: attempts,
		lockTTL:     lockTTL,
		lockWait:    lockWait,
	}
}

// mutation computes the next document from the currently stored one (nil if none).
// It must be pure: it may run several times when a compare-and-set write loses a race.
type mutation func(stored *domain.ServiceDocument, attempt int) (*domain.ServiceDocument, error)

// write runs the read-mutate-compare-and-set loop for a date and returns the
// document that was persisted along with the one it replaced.
func (w *serviceWriter) write(ctx context.Context, date domain.ServiceDate, mutate mutation) (written, replaced *domain.ServiceDocument, err error) {
	release := w.lockDate(ctx, date)
	defer release()

	for attempt := 1; attempt <= w.maxAttempts; attempt++ {
		stored, err := w.load(ctx, date)
		if err != nil {
			return nil, nil, err
		}

		next, err := mutate(stored, attempt)
		if err != nil {
			return nil, nil, err
		}

		expected := ""
		if stored != nil {
			expected = stored.Version
		}
		next.Version = domain.NextVersion(expected, w.clock())

		err = w.services.SaveIfVersion(ctx, next, expected)
		if err == nil {
			return next, stored, nil
		}
		if !errors.Is(err, domain.ErrVersionMismatch) {
			return nil, nil, err
		}
		w.logger.Warn("service changed during merge, retrying",
			"date", date,
			"attempt", attempt,
			"expected_version", expected)
	}

	return nil, nil, domain.ErrConcurrentWrite
}

func (w *serviceWriter) load(ctx context.Context, date domain.ServiceDate) (*domain.ServiceDocument, error) {
	stored, err := w.services.Get(ctx, date)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	return stored, err
}

// lockDate takes the optional per-date write lock. If it cannot be taken within
// the wait budget the write proceeds unguarded; the compare-and-set still applies.
func (w *serviceWriter) lockDate(ctx context.Context, date domain.ServiceDate) func() {
	noop := func() {}
	if w.lock == nil {
		return noop
	}

	deadline := time.Now().Add(w.lockWait)
	for {
		unlock, ok, err := w.lock.TryLock(ctx, date, w.lockTTL)
		if err != nil {
			w.logger.Warn("failed to acquire service lock", "date", date, "error", err)
			return noop
		}
		if ok {
			return func() {
				if err := unlock(context.WithoutCancel(ctx)); err != nil {
					w.logger.Warn("failed to release service lock", "date", date, "error", err)
				}
			}
		}
		if time.Now().After(deadline) {
			w.logger.Warn("service lock busy, writing without it", "date", date)
			return noop
		}

		select {
		case <-ctx.Done():
			return noop
		case <-time.After(lockPollInterval):
		}
	}
}

// liturgicalResolver resolves seasonal metadata for one write: the caller's
// value, then the stored value, then a calendar lookup. It is consulted on
// every merge attempt, but the calendar is asked at most once. Lookup failures
// only cost the metadata.
type liturgicalResolver struct {
	w         *serviceWriter
	date      domain.ServiceDate
	requested *domain.LiturgicalContext

	looked bool
	lookup *domain.LiturgicalContext
}

func (w *serviceWriter) liturgicalFor(date domain.ServiceDate, requested *domain.LiturgicalContext) *liturgicalResolver {
	return &liturgicalResolver{w: w, date: date, requested: requested}
}

func (r *liturgicalResolver) resolve(ctx context.Context, stored *domain.ServiceDocument) *domain.LiturgicalContext {
	if r.requested != nil {
		return r.requested
	}
	if stored != nil && stored.Liturgical != nil {
		return stored.Liturgical
	}
	if r.looked || r.w.calendar == nil {
		return r.lookup
	}
	r.looked = true
	info, err := r.w.calendar.Lookup(ctx, r.date)
	if err != nil {
		r.w.logger.Warn("liturgical lookup failed", "date", r.date, "error", err)
		return nil
	}
	r.lookup = info
	return info
}

// signalConflict records a stale write. It never fails the request.
func (w *serviceWriter) signalConflict(ctx context.Context, event domain.ConflictEvent) {
	w.logger.Warn("concurrent edit detected, merging",
		"date", event.Date,
		"stored_version", event.StoredVersion,
		"incoming_version", event.IncomingVersion,
		"team", event.Team)

	if w.notifier == nil {
		return
	}
	if err := w.notifier.Notify(ctx, event); err != nil {
		w.logger.Warn("failed to publish conflict event", "date", event.Date, "error", err)
	}
}

// archiveOrphans appends the orphan record. Failure is logged, not returned:
// the primary document write has already succeeded.
func (w *serviceWriter) archiveOrphans(ctx context.Context, record *domain.OrphanRecord) bool {
	if err := w.archive.Insert(ctx, record); err != nil {
		w.logger.Error("failed to archive orphaned selections",
			"date", record.Date,
			"orphan_count", len(record.OrphanedSongs),
			"titles", domain.OrphanTitles(record.OrphanedSongs),
			"error", err)
		return false
	}
	return true
}

// resyncIndex replaces the selection index for doc.Date with the dense slot
// projection of doc. Returns nil if the index could not be written.
func (w *serviceWriter) resyncIndex(ctx context.Context, doc *domain.ServiceDocument, orphanedSongs int) *domain.SelectionIndexRecord {
	now := w.clock().UTC()
	record := &domain.SelectionIndexRecord{
		Date:                         doc.Date,
		Selections:                   domain.BuildSlotSelections(doc.Elements),
		LastSyncedWithServiceDetails: &now,
		OrphanedSongsRemoved:         orphanedSongs,
		UpdatedAt:                    now,
	}
	if err := w.index.Save(ctx, record); err != nil {
		w.logger.Warn("failed to resync selection index",
			"date", doc.Date,
			"selected_slots", len(record.Selections),
			"error", err)
		return nil
	}
	return record
}

func generateID() string {
	return uuid.Must(uuid.NewV7()).String()
}
