package weather

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/i474232898/walkd/internal/observability"
)

// DefaultTimeout bounds a single upstream lookup.
const DefaultTimeout = 5 * time.Second

var errNoProvider = errors.New("no weather provider configured")

// Service fetches current weather and normalizes it. It never fails outward:
// any upstream problem yields FallbackSnapshot.
type Service struct {
	provider Provider
	locator  Locator
	timeout  time.Duration
}

// NewService creates a new Service. locator may be nil, which disables city lookup.
// A non-positive timeout selects DefaultTimeout.
func NewService(provider Provider, locator Locator, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Service{
		provider: provider,
		locator:  locator,
		timeout:  timeout,
	}
}

// Current returns the snapshot for q and whether it is live or the fallback.
// No retries are attempted.
func (s *Service) Current(ctx context.Context, q Query) (Snapshot, Source) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	snapshot, err := s.fetch(ctx, q)
	if err != nil {
		log.Printf("WARN: weather lookup failed, serving fallback: %v", err)
		observability.RecordWeatherRequest(string(SourceFallback))
		return FallbackSnapshot(), SourceFallback
	}

	observability.RecordWeatherRequest(string(SourceLive))
	return snapshot, SourceLive
}

func (s *Service) fetch(ctx context.Context, q Query) (Snapshot, error) {
	if s.provider == nil {
		return Snapshot{}, errNoProvider
	}

	coords, err := s.resolve(ctx, q)
	if err != nil {
		return Snapshot{}, err
	}

	reading, err := s.provider.Fetch(ctx, coords)
	if err != nil {
		return Snapshot{}, fmt.Errorf("provider %s at %.4f,%.4f: %w", s.provider.Name(), coords.Lat, coords.Lon, err)
	}
	return Normalize(reading), nil
}

func (s *Service) resolve(ctx context.Context, q Query) (Coordinates, error) {
	if q.Coordinates != nil {
		if !q.Coordinates.Valid() {
			return Coordinates{}, fmt.Errorf("coordinates %v,%v out of range", q.Coordinates.Lat, q.Coordinates.Lon)
		}
		return *q.Coordinates, nil
	}
	if q.City == "" {
		return DefaultCoordinates(), nil
	}
	if s.locator == nil {
		return Coordinates{}, fmt.Errorf("city lookup for %q is not configured", q.City)
	}

	coords, err := s.locator.Locate(ctx, q.City, q.Country)
	if err != nil {
		return Coordinates{}, fmt.Errorf("locate %q: %w", q.City, err)
	}
	return coords, nil
}
