package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/i474232898/walkd/internal/walk"
)

// runStoreSuite exercises the walk.Store contract against a fresh backend per subtest.
func runStoreSuite(t *testing.T, newBackend func(t *testing.T) Backend) {
	t.Helper()

	base := time.Date(2025, time.May, 3, 7, 30, 0, 0, time.UTC)

	t.Run("insert assigns fresh ids and list returns the record", func(t *testing.T) {
		ctx := context.Background()
		s := newBackend(t)

		first, err := s.Insert(ctx, record(base, 1800, 2.35, 3100))
		require.NoError(t, err)
		second, err := s.Insert(ctx, record(base.Add(time.Hour), 600, 0.8, 1000))
		require.NoError(t, err)
		require.NotEqual(t, first.ID, second.ID)
		require.Greater(t, second.ID, first.ID)

		got, err := s.List(ctx)
		require.NoError(t, err)
		require.Len(t, got, 2)
		require.Equal(t, second, got[0])
		require.Equal(t, first, got[1])
	})

	t.Run("empty list is an empty slice", func(t *testing.T) {
		got, err := newBackend(t).List(context.Background())
		require.NoError(t, err)
		require.NotNil(t, got)
		require.Empty(t, got)
	})

	t.Run("list orders by date descending with insertion order on ties", func(t *testing.T) {
		ctx := context.Background()
		s := newBackend(t)

		dates := []time.Time{
			base.Add(2 * time.Hour),
			base,
			base.Add(5 * time.Hour),
			base.Add(2 * time.Hour),
			base.Add(-24 * time.Hour),
		}
		ids := make([]int64, len(dates))
		for i, d := range dates {
			rec, err := s.Insert(ctx, record(d, i, float64(i), i))
			require.NoError(t, err)
			ids[i] = rec.ID
		}

		got, err := s.List(ctx)
		require.NoError(t, err)
		require.Len(t, got, len(dates))

		gotIDs := make([]int64, 0, len(got))
		for _, rec := range got {
			gotIDs = append(gotIDs, rec.ID)
		}
		require.Equal(t, []int64{ids[2], ids[0], ids[3], ids[1], ids[4]}, gotIDs)

		latest, err := s.Latest(ctx)
		require.NoError(t, err)
		require.Equal(t, got[0], latest)
	})

	t.Run("latest on empty store is not found", func(t *testing.T) {
		_, err := newBackend(t).Latest(context.Background())
		require.ErrorIs(t, err, walk.ErrNotFound)
	})

	t.Run("delete removes permanently and fails the same way twice", func(t *testing.T) {
		ctx := context.Background()
		s := newBackend(t)

		keep, err := s.Insert(ctx, record(base, 100, 1, 100))
		require.NoError(t, err)
		gone, err := s.Insert(ctx, record(base.Add(time.Minute), 200, 2, 200))
		require.NoError(t, err)

		require.NoError(t, s.Delete(ctx, gone.ID))
		require.ErrorIs(t, s.Delete(ctx, gone.ID), walk.ErrNotFound)
		require.ErrorIs(t, s.Delete(ctx, gone.ID), walk.ErrNotFound)
		require.ErrorIs(t, s.Delete(ctx, 987654), walk.ErrNotFound)

		got, err := s.List(ctx)
		require.NoError(t, err)
		require.Equal(t, []walk.Record{keep}, got)

		// ids are not reused after deleting the highest one
		next, err := s.Insert(ctx, record(base, 1, 1, 1))
		require.NoError(t, err)
		require.Greater(t, next.ID, gone.ID)
	})

	t.Run("fields round-trip without precision loss", func(t *testing.T) {
		ctx := context.Background()
		s := newBackend(t)

		in := record(base.Add(123456*time.Microsecond), 4321, 3.141592653589793, 98765)
		created, err := s.Insert(ctx, in)
		require.NoError(t, err)

		latest, err := s.Latest(ctx)
		require.NoError(t, err)
		require.Equal(t, created.ID, latest.ID)
		require.Equal(t, in.Duration, latest.Duration)
		require.Equal(t, in.Distance, latest.Distance)
		require.Equal(t, in.Steps, latest.Steps)
		require.True(t, in.Date.Equal(latest.Date))
		require.True(t, in.CreatedAt.Equal(latest.CreatedAt))
	})

	t.Run("counts beyond 32 bits round-trip", func(t *testing.T) {
		ctx := context.Background()
		s := newBackend(t)

		_, err := s.Insert(ctx, record(base, 3_000_000_000, 1, 5_000_000_000))
		require.NoError(t, err)

		latest, err := s.Latest(ctx)
		require.NoError(t, err)
		require.Equal(t, 3_000_000_000, latest.Duration)
		require.Equal(t, 5_000_000_000, latest.Steps)
	})

	t.Run("ping succeeds", func(t *testing.T) {
		require.NoError(t, newBackend(t).Ping(context.Background()))
	})
}

func record(date time.Time, duration int, distance float64, steps int) walk.Record {
	return walk.Record{
		Date:      date,
		Duration:  duration,
		Distance:  distance,
		Steps:     steps,
		CreatedAt: date.Add(time.Second),
	}
}
