// Package service provides the race-entry use cases behind the HTTP API:
// accepting submissions and computing leaderboards from the stored history.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/sailsizzle/regatta/internal/adapters/repository"
	"github.com/sailsizzle/regatta/internal/domain/dedupe"
	"github.com/sailsizzle/regatta/internal/domain/model"
	"github.com/sailsizzle/regatta/internal/domain/ratings"
	"github.com/sailsizzle/regatta/internal/domain/scoring"
	"github.com/sailsizzle/regatta/internal/domain/validation"
	"github.com/sailsizzle/regatta/pkg/logger"
	"github.com/sailsizzle/regatta/pkg/metrics"
	"github.com/sailsizzle/regatta/pkg/tracing"
)

// Submission outcomes, used as metric labels.
const (
	outcomeAccepted   = "accepted"
	outcomeDuplicate  = "duplicate"
	outcomeRejected   = "rejected"
	outcomeStoreError = "store_error"
)

// UnknownBoatTypeWarning is attached to receipts of boat types scored at the
// neutral rating.
const UnknownBoatTypeWarning = "Boat type %q is not in the Portsmouth table; scored with rating %.1f. Add the class in the comments."

// Service implements the API dependencies for the race-entry system.
type Service struct {
	mu sync.RWMutex

	// Core components
	store   repository.Store
	table   *ratings.Table
	engine  *scoring.Engine
	rules   validation.Rules
	deduper dedupe.Deduper

	// Submission IDs whose append is still running.
	pendingMu sync.Mutex
	pending   map[string]chan struct{}

	// Configuration
	dedupeSize int
	loc        *time.Location
	now        func() time.Time

	// State
	started bool

	accepted   atomic.Int64
	duplicates atomic.Int64
	rejected   atomic.Int64

	logger logger.Logger
	tracer trace.Tracer
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the entry store. The service owns it and closes it on Stop.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithRatings sets the Portsmouth table.
func WithRatings(table *ratings.Table) Option {
	return func(s *Service) {
		if table != nil {
			s.table = table
		}
	}
}

// WithRules sets the submission rules.
func WithRules(rules validation.Rules) Option {
	return func(s *Service) {
		s.rules = rules
	}
}

// WithDedupeSize sets how many submission IDs are remembered.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the source of submission timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLocation sets the zone submission timestamps are recorded in.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// New constructs a Service. Without options it scores against the embedded
// table and keeps entries in memory.
func New(opts ...Option) *Service {
	s := &Service{
		rules:      validation.DefaultRules(),
		dedupeSize: dedupe.DefaultMaxSize,
		loc:        time.UTC,
		now:        time.Now,
		tracer:     tracing.Tracer("github.com/sailsizzle/regatta/internal/app"),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.table == nil {
		s.table = ratings.Default()
	}
	if s.store == nil {
		s.store = repository.NewMemoryStore()
	}
	s.engine = scoring.NewEngine(s.table)
	return s
}

// Start prepares the service for requests.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.started = true
	s.logger.Info(ctx, "race entry service started",
		logger.String("backend", s.store.Backend()),
		logger.Int("boatTypes", s.table.Len()),
		logger.String("raceDay", s.rules.Weekday.String()),
		logger.Bool("strictBoatTypes", s.rules.StrictBoatTypes),
		logger.Int("dedupeSize", s.dedupeSize),
	)
	return nil
}

// Stop closes the store.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	if err := s.store.Close(); err != nil {
		s.logger.Warn(context.Background(), "closing store failed", logger.Error(err))
	}
	s.started = false
	s.logger.Info(context.Background(), "race entry service stopped")
}

func (s *Service) ready() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return ErrNotStarted
	}
	return nil
}

// Submit validates a submission, scores it and appends it to the store.
// A submission whose ID was already stored returns a duplicate receipt and
// is not stored again.
func (s *Service) Submit(ctx context.Context, sub model.Submission) (model.Receipt, error) {
	if err := s.ready(); err != nil {
		return model.Receipt{}, err
	}
	ctx, span := s.tracer.Start(ctx, "service.Submit")
	defer span.End()

	checked, err := s.rules.Validate(sub, s.table)
	if err != nil {
		s.rejected.Add(1)
		reason := "unknown"
		var verr *validation.Error
		if errors.As(err, &verr) {
			reason = string(verr.Reason)
		}
		metrics.RecordValidationFailure(reason)
		metrics.RecordSubmission(outcomeRejected)
		span.SetAttributes(attribute.String("rejection.reason", reason))
		s.logger.Debug(ctx, "submission rejected", logger.String("reason", reason), logger.Error(err))
		return model.Receipt{}, err
	}

	id := sub.SubmissionID
	release := func(bool) {}
	if id == "" {
		id = uuid.NewString()
	} else {
		duplicate, done, err := s.claim(ctx, id)
		if err != nil {
			metrics.RecordSubmission(outcomeStoreError)
			return model.Receipt{}, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
		}
		if duplicate {
			s.duplicates.Add(1)
			metrics.RecordDuplicate()
			metrics.RecordSubmission(outcomeDuplicate)
			s.logger.Debug(ctx, "duplicate submission skipped", logger.String("submissionID", id))
			return model.Receipt{SubmissionID: id, Duplicate: true}, nil
		}
		release = done
	}
	span.SetAttributes(attribute.String("submission.id", id))

	corrected, known := s.engine.CorrectedTime(checked.Elapsed, checked.BoatType)
	var warnings []string
	if !known {
		metrics.RecordUnknownBoatType(false)
		warnings = append(warnings, fmt.Sprintf(UnknownBoatTypeWarning, checked.BoatType, s.table.Fallback()))
		s.logger.Warn(ctx, "unknown boat type scored at neutral rating",
			logger.String("boatType", checked.BoatType),
			logger.String("skipper", checked.SkipperName),
			logger.Float64("rating", s.table.Fallback()),
		)
	}

	entry := model.RaceEntry{
		RaceDate:    checked.RaceDate,
		BoatName:    checked.BoatName,
		SkipperName: checked.SkipperName,
		BoatType:    checked.BoatType,
		StartTime:   checked.StartTime,
		FinishTime:  checked.FinishTime,
		Elapsed:     checked.Elapsed,
		Corrected:   corrected,
		Comments:    checked.Comments,
		SubmittedAt: s.now().In(s.loc),
	}

	if err := s.store.Append(ctx, repository.EncodeEntry(entry)); err != nil {
		// Forget the ID so the sailor can resubmit the same form.
		release(false)
		metrics.RecordSubmission(outcomeStoreError)
		span.RecordError(err)
		span.SetStatus(codes.Error, "append failed")
		return model.Receipt{}, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	release(true)
	s.accepted.Add(1)
	metrics.RecordSubmission(outcomeAccepted)
	s.logger.Info(ctx, "race entry stored",
		logger.String("submissionID", id),
		logger.String("raceDate", entry.RaceDate.Format(model.DateLayout)),
		logger.String("skipper", entry.SkipperName),
		logger.String("boatType", entry.BoatType),
		logger.Duration("elapsed", entry.Elapsed),
		logger.Duration("corrected", entry.Corrected),
		logger.Time("submittedAt", entry.SubmittedAt),
	)
	return model.Receipt{SubmissionID: id, Entry: entry, Warnings: warnings}, nil
}

// claim records id as seen, or reports it as a duplicate. While another
// submission with the same id is still appending, claim waits for it to
// finish so a failed append is never answered as a duplicate. The returned
// release must be called with the outcome of the append.
func (s *Service) claim(ctx context.Context, id string) (bool, func(stored bool), error) {
	for {
		s.pendingMu.Lock()
		if wait, ok := s.pending[id]; ok {
			s.pendingMu.Unlock()
			select {
			case <-wait:
				continue
			case <-ctx.Done():
				return false, nil, ctx.Err()
			}
		}
		if s.deduper.SeenAndRecord(ctx, id) {
			s.pendingMu.Unlock()
			return true, nil, nil
		}
		if s.pending == nil {
			s.pending = make(map[string]chan struct{})
		}
		done := make(chan struct{})
		s.pending[id] = done
		s.pendingMu.Unlock()

		return false, func(stored bool) {
			s.pendingMu.Lock()
			defer s.pendingMu.Unlock()
			if !stored {
				s.deduper.Unrecord(context.WithoutCancel(ctx), id)
			}
			delete(s.pending, id)
			close(done)
		}, nil
	}
}

// WeeklyLeaderboard ranks the latest race date. scoring.ErrNoValidEntries is
// returned when nothing can be ranked; the board still carries the date when
// one exists.
func (s *Service) WeeklyLeaderboard(ctx context.Context) (scoring.Weekly, error) {
	if err := s.ready(); err != nil {
		return scoring.Weekly{}, err
	}
	ctx, span := s.tracer.Start(ctx, "service.WeeklyLeaderboard")
	defer span.End()

	entries, err := s.loadEntries(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "read failed")
		return scoring.Weekly{}, err
	}

	start := time.Now()
	board, err := scoring.WeeklyLeaderboard(entries)
	metrics.ObserveLeaderboard("weekly", time.Since(start).Seconds(), errors.Is(err, scoring.ErrNoValidEntries))
	metrics.SetFleetSize(board.FleetSize)
	span.SetAttributes(attribute.Int("fleet.size", board.FleetSize))
	return board, err
}

// AnnualStandings totals points for the most recent year.
func (s *Service) AnnualStandings(ctx context.Context) (scoring.Annual, error) {
	if err := s.ready(); err != nil {
		return scoring.Annual{}, err
	}
	ctx, span := s.tracer.Start(ctx, "service.AnnualStandings")
	defer span.End()

	entries, err := s.loadEntries(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "read failed")
		return scoring.Annual{}, err
	}

	start := time.Now()
	annual, err := scoring.AnnualStandings(entries)
	metrics.ObserveLeaderboard("annual", time.Since(start).Seconds(), errors.Is(err, scoring.ErrNoValidEntries))
	span.SetAttributes(attribute.Int("year", annual.Year), attribute.Int("races", annual.Races))
	return annual, err
}

func (s *Service) loadEntries(ctx context.Context) ([]model.RaceEntry, error) {
	rows, err := s.store.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	entries, malformed := repository.DecodeRows(rows)
	if malformed > 0 {
		metrics.AddMalformed(malformed)
		s.logger.Debug(ctx, "skipped malformed rows", logger.Int("count", malformed), logger.Int("rows", len(rows)))
	}
	return entries, nil
}

// BoatTypes returns the Portsmouth table sorted by name.
func (s *Service) BoatTypes() []ratings.Rating {
	return s.table.Ratings()
}

// DefaultRating returns the rating used for unlisted boat types.
func (s *Service) DefaultRating() float64 {
	return s.table.Fallback()
}

// Rules returns the submission rules in force.
func (s *Service) Rules() validation.Rules {
	return s.rules
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":         s.started,
		"backend":         s.store.Backend(),
		"boatTypes":       s.table.Len(),
		"dedupeSize":      s.dedupeSize,
		"strictBoatTypes": s.rules.StrictBoatTypes,
		"accepted":        s.accepted.Load(),
		"duplicates":      s.duplicates.Load(),
		"rejected":        s.rejected.Load(),
	}
	if s.deduper != nil {
		stats["dedupeEntries"] = s.deduper.Size()
	}
	return stats
}
