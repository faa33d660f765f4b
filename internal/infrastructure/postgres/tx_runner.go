package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

var tracer = otel.Tracer("github.com/jhoicas/inventario-ledger/postgres")

const (
	retrySequence      = "sequence_conflict"
	retrySerialization = "serialization_failure"
	retryDeadlock      = "deadlock"
)

// TxOptions parámetros de las transacciones de escritura.
type TxOptions struct {
	MaxRetries       int           // reintentos adicionales; 0 = un solo intento
	StatementTimeout time.Duration // 0 = sin SET LOCAL statement_timeout
	RetryBackoff     time.Duration // espera base entre intentos (se multiplica por el intento)
}

// RetryObserver recibe reintentos y duración de cada transacción de escritura (métricas).
type RetryObserver interface {
	TxRetried(reason string)
	TxObserved(seconds float64)
}

type nopObserver struct{}

func (nopObserver) TxRetried(string)   {}
func (nopObserver) TxObserved(float64) {}

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool     *pgxpool.Pool
	opts     TxOptions
	log      *logger.Logger
	observer RetryObserver
}

// NewTxRunner construye el runner con el pool. observer puede ser nil.
func NewTxRunner(pool *pgxpool.Pool, opts TxOptions, log *logger.Logger, observer RetryObserver) *TxRunner {
	if log == nil {
		log = logger.Nop()
	}
	if observer == nil {
		observer = nopObserver{}
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if opts.RetryBackoff <= 0 {
		opts.RetryBackoff = 20 * time.Millisecond
	}
	return &TxRunner{pool: pool, opts: opts, log: log.Component("tx"), observer: observer}
}

// Run abre una tx READ COMMITTED, ejecuta fn con repos atados a ella y hace Commit o Rollback.
// Cada sentencia ve lo confirmado hasta ese momento: lo que se lee después de un candado
// (advisory o FOR UPDATE) incluye lo que el dueño anterior del candado confirmó.
// Ante conflicto de consecutivo, 40001 o 40P01 repite fn completa hasta MaxRetries veces.
func (r *TxRunner) Run(ctx context.Context, fn func(repos inventory.TxRepos) error) error {
	txOpts := pgx.TxOptions{IsoLevel: pgx.ReadCommitted}
	return r.runWithRetry(ctx, func(ctx context.Context, attempt int) error {
		return r.runOnce(ctx, txOpts, attempt, fn)
	})
}

// runWithRetry llama a attemptFn hasta que termine sin error reintentable o se agoten los
// reintentos. La duración observada cubre todos los intentos.
func (r *TxRunner) runWithRetry(ctx context.Context, attemptFn func(ctx context.Context, attempt int) error) error {
	start := time.Now()
	defer func() { r.observer.TxObserved(time.Since(start).Seconds()) }()

	for attempt := 0; ; attempt++ {
		err := attemptFn(ctx, attempt)
		reason, retry := retryReason(err)
		if !retry || attempt >= r.opts.MaxRetries {
			return err
		}
		r.observer.TxRetried(reason)
		r.log.Debug().Err(err).Str("reason", reason).Int("attempt", attempt+1).Msg("reintentando transacción")
		if werr := wait(ctx, r.opts.RetryBackoff*time.Duration(attempt+1)); werr != nil {
			return err
		}
	}
}

// Read abre una tx de solo lectura (REPEATABLE READ) para consultas consistentes.
func (r *TxRunner) Read(ctx context.Context, fn func(repos inventory.TxRepos) error) error {
	return r.runOnce(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}, 0, fn)
}

func (r *TxRunner) runOnce(ctx context.Context, txOpts pgx.TxOptions, attempt int, fn func(repos inventory.TxRepos) error) (err error) {
	ctx, span := tracer.Start(ctx, "ledger.transaction", trace.WithAttributes(
		attribute.String("tx.isolation", string(txOpts.IsoLevel)),
		attribute.String("tx.access_mode", string(txOpts.AccessMode)),
		attribute.Int("tx.attempt", attempt),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	tx, err := r.pool.BeginTx(ctx, txOpts)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	// el Rollback no debe depender de un ctx ya cancelado
	defer func() { _ = tx.Rollback(context.Background()) }()

	if r.opts.StatementTimeout > 0 {
		stmt := fmt.Sprintf("SET LOCAL statement_timeout = '%dms'", r.opts.StatementTimeout.Milliseconds())
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("statement timeout: %w", err)
		}
	}

	if err := fn(reposFor(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// reposFor arma los repositorios sobre el mismo Querier.
func reposFor(q Querier) inventory.TxRepos {
	return inventory.TxRepos{
		Batches:        NewBatchRepository(q),
		Movements:      NewStockMovementRepository(q),
		Products:       NewProductRepository(q),
		Sequences:      NewSequenceRepository(q),
		PurchaseOrders: NewPurchaseOrderRepository(q),
		Vouchers:       NewReceivingVoucherRepository(q),
		Payables:       NewAccountsPayableRepository(q),
	}
}

// retryReason indica si err justifica repetir la tx completa.
func retryReason(err error) (string, bool) {
	switch {
	case err == nil:
		return "", false
	case errors.Is(err, domain.ErrSequenceConflict):
		return retrySequence, true
	case isSerializationFailure(err):
		return retrySerialization, true
	case isDeadlock(err):
		return retryDeadlock, true
	default:
		return "", false
	}
}

func wait(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
