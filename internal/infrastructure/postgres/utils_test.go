package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{Code: codeUniqueViolation, ConstraintName: "inventory_batches_batch_number_key"}

	assert.True(t, isUniqueViolation(pgErr))
	assert.True(t, isUniqueViolation(fmt.Errorf("insert batch: %w", pgErr)))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23514"}))
	assert.False(t, isUniqueViolation(errors.New("timeout")))
	// solo cuenta el código del PgError, no el texto del mensaje
	assert.False(t, isUniqueViolation(errors.New(`ERROR: duplicate key (SQLSTATE 23505)`)))
}

func TestIsDeadlock(t *testing.T) {
	assert.True(t, isDeadlock(fmt.Errorf("update batch quantity: %w", &pgconn.PgError{Code: codeDeadlockDetected})))
	assert.False(t, isDeadlock(&pgconn.PgError{Code: codeSerializationFailure}))
}

func TestIsSerializationFailure(t *testing.T) {
	assert.True(t, isSerializationFailure(fmt.Errorf("commit transaction: %w", &pgconn.PgError{Code: codeSerializationFailure})))
	assert.False(t, isSerializationFailure(&pgconn.PgError{Code: codeUniqueViolation}))
	assert.False(t, isSerializationFailure(errors.New("40001")))
}

func TestRetryReason(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		reason string
		retry  bool
	}{
		{"sin error", nil, "", false},
		{"consecutivo", fmt.Errorf("lote BATCH-20240115-0001: %w", domain.ErrSequenceConflict), retrySequence, true},
		{"serialización", &pgconn.PgError{Code: codeSerializationFailure}, retrySerialization, true},
		{"deadlock", &pgconn.PgError{Code: codeDeadlockDetected}, retryDeadlock, true},
		{"texto con 23505", errors.New("duplicate 23505"), "", false},
		{"stock insuficiente", domain.ErrInsufficientStock, "", false},
		{"validación", domain.NewValidationError("quantity", "debe ser mayor a cero"), "", false},
		{"otro error pg", &pgconn.PgError{Code: "23514"}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reason, retry := retryReason(tt.err)
			assert.Equal(t, tt.retry, retry)
			assert.Equal(t, tt.reason, reason)
		})
	}
}

func TestWait_RespetaCancelacion(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := wait(ctx, time.Minute)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), time.Second)
	assert.NoError(t, wait(context.Background(), time.Millisecond))
}

func TestReposFor_TodosAtadosAlMismoQuerier(t *testing.T) {
	repos := reposFor(nil)

	assert.NotNil(t, repos.Batches)
	assert.NotNil(t, repos.Movements)
	assert.NotNil(t, repos.Products)
	assert.NotNil(t, repos.Sequences)
	assert.NotNil(t, repos.PurchaseOrders)
	assert.NotNil(t, repos.Vouchers)
	assert.NotNil(t, repos.Payables)
}
