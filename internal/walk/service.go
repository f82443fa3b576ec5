// Package walk owns the walk record model and its lifecycle rules.
package walk

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/i474232898/walkd/internal/observability"
)

// Dates must fit in int64 nanoseconds since the epoch (about 1678 to 2262).
var (
	MinDate = time.Unix(0, math.MinInt64).UTC().Truncate(time.Second).Add(time.Second)
	MaxDate = time.Unix(0, math.MaxInt64).UTC().Truncate(time.Second)
)

// Service applies lifecycle rules on top of a Store.
type Service struct {
	store Store
	now   func() time.Time
}

// NewService creates a new Service.
func NewService(store Store) *Service {
	return &Service{
		store: store,
		now:   time.Now,
	}
}

// Create assigns timestamps and persists a new record.
func (s *Service) Create(ctx context.Context, in CreateInput) (Record, error) {
	if in.Duration < 0 || in.Distance < 0 || in.Steps < 0 {
		return Record{}, fmt.Errorf("%w: duration, distance and steps must be non-negative", ErrInvalid)
	}

	// Postgres keeps microseconds; truncate so every backend round-trips the same value.
	now := s.now().UTC().Truncate(time.Microsecond)
	date := now
	if !in.Date.IsZero() {
		date = in.Date.UTC().Truncate(time.Microsecond)
		if date.Before(MinDate) || date.After(MaxDate) {
			return Record{}, fmt.Errorf("%w: date must be between %s and %s", ErrInvalid,
				MinDate.Format(time.RFC3339), MaxDate.Format(time.RFC3339))
		}
	}

	rec, err := s.store.Insert(ctx, Record{
		Date:      date,
		Duration:  in.Duration,
		Distance:  in.Distance,
		Steps:     in.Steps,
		CreatedAt: now,
	})
	if err != nil {
		return Record{}, err
	}

	observability.RecordWalkCreated(rec.CreatedAt)
	return rec, nil
}

// List returns every record, newest first. An empty store yields an empty slice.
func (s *Service) List(ctx context.Context) ([]Record, error) {
	records, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []Record{}
	}
	return records, nil
}

// MostRecent returns the record with the greatest Date.
func (s *Service) MostRecent(ctx context.Context) (Record, error) {
	return s.store.Latest(ctx)
}

// Delete removes a record permanently.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	observability.RecordWalkDeleted()
	return nil
}

// Ping reports whether the underlying store is reachable.
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}
