package repository

import (
	"context"
	"time"

	"github.com/sailsizzle/regatta/pkg/logger"
	"github.com/sailsizzle/regatta/pkg/metrics"
)

// Instrumented wraps a Store with latency metrics and failure logging.
type Instrumented struct {
	next Store
	log  logger.Logger
}

// Instrument wraps next. A nil log uses the global logger.
func Instrument(next Store, log logger.Logger) *Instrumented {
	if log == nil {
		log = logger.Get()
	}
	return &Instrumented{next: next, log: log.Named("store")}
}

func (s *Instrumented) Append(ctx context.Context, row Row) error {
	start := time.Now()
	err := s.next.Append(ctx, row)
	s.observe(ctx, "append", start, err)
	return err
}

func (s *Instrumented) ReadAll(ctx context.Context) ([]Row, error) {
	start := time.Now()
	rows, err := s.next.ReadAll(ctx)
	s.observe(ctx, "read_all", start, err)
	if err == nil {
		metrics.SetEntriesRead(len(rows))
	}
	return rows, err
}

func (s *Instrumented) Backend() string { return s.next.Backend() }

func (s *Instrumented) Close() error { return s.next.Close() }

func (s *Instrumented) observe(ctx context.Context, op string, start time.Time, err error) {
	elapsed := time.Since(start)
	metrics.ObserveStore(op, s.next.Backend(), elapsed.Seconds(), err != nil)
	if err != nil {
		s.log.Error(ctx, "store operation failed",
			logger.String("op", op),
			logger.String("backend", s.next.Backend()),
			logger.Duration("elapsed", elapsed),
			logger.Error(err),
		)
	}
}
