package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"almacen/internal/core/apperror"
)

func pgError(code string) *pgconn.PgError {
	return &pgconn.PgError{Code: code, Message: "simulated"}
}

func TestRetryOnContention_SuccessFirstTry(t *testing.T) {
	calls := 0
	err := retryOnContention(context.Background(), func() error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetryOnContention_NonContentionErrorNotRetried(t *testing.T) {
	calls := 0
	boom := errors.New("constraint violated")
	err := retryOnContention(context.Background(), func() error {
		calls++
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestRetryOnContention_RecoversAfterRetry(t *testing.T) {
	calls := 0
	err := retryOnContention(context.Background(), func() error {
		calls++
		if calls == 1 {
			return pgError("40001")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestRetryOnContention_ExhaustedBudgetSurfacesConflict(t *testing.T) {
	calls := 0
	err := retryOnContention(context.Background(), func() error {
		calls++
		return pgError("40P01")
	})
	require.Error(t, err)
	assert.Equal(t, maxRetryAttempts, calls)
	assert.True(t, apperror.IsConcurrentModification(err))

	// The last database error stays reachable for diagnostics.
	var pgErr *pgconn.PgError
	require.True(t, errors.As(err, &pgErr))
	assert.Equal(t, "40P01", pgErr.Code)
}

func TestRetryOnContention_CancelledContextStopsRetrying(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	err := retryOnContention(ctx, func() error {
		calls++
		cancel()
		return pgError("55P03")
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestIsContentionError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"serialization failure", pgError("40001"), true},
		{"deadlock detected", pgError("40P01"), true},
		{"lock not available", pgError("55P03"), true},
		{"wrapped contention", fmt.Errorf("query: %w", pgError("40001")), true},
		{"unique violation", pgError("23505"), false},
		{"plain error", errors.New("broken"), false},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isContentionError(tt.err))
		})
	}
}
