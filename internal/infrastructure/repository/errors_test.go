package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestWithRetry_RetriesOnlyRolledBackErrors(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantCalls int
	}{
		{"serialization failure", &pgconn.PgError{Code: pgerrcode.SerializationFailure}, 2},
		{"wrapped deadlock", fmt.Errorf("insert order: %w", &pgconn.PgError{Code: pgerrcode.DeadlockDetected}), 2},
		{"connection reset", errors.New("write tcp 10.0.0.2:5432: connection reset by peer"), 1},
		{"broken pipe", errors.New("write: broken pipe"), 1},
		{"unique violation", &pgconn.PgError{Code: pgerrcode.UniqueViolation}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := withRetry(context.Background(), func() error {
				calls++
				if calls == 1 {
					return tt.err
				}
				return nil
			})

			assert.Equal(t, tt.wantCalls, calls)
			if tt.wantCalls == 1 {
				assert.ErrorIs(t, err, tt.err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestWithRetry_GivesUpAfterLastDelay(t *testing.T) {
	calls := 0
	serialization := &pgconn.PgError{Code: pgerrcode.SerializationFailure}
	err := withRetry(context.Background(), func() error {
		calls++
		return serialization
	})

	assert.Equal(t, len(retryDelays)+1, calls)
	assert.ErrorIs(t, err, serialization)
}

func TestWithRetry_StopsOnCancelledContext(t *testing.T) {
	calls := 0
	err := withRetry(context.Background(), func() error {
		calls++
		return context.Canceled
	})

	assert.Equal(t, 1, calls)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: pgerrcode.UniqueViolation})))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: pgerrcode.SerializationFailure}))
	assert.False(t, IsUniqueViolation(errors.New("duplicate")))
}
