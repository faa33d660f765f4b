package inventory

import (
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

// Service orquesta las transacciones del ledger: AddStock, DeductStock, TransferStock y
// ReceiveFromPurchaseOrder. Cada operación corre completa dentro de TxRunner.Run.
type Service struct {
	txRunner TxRunner
	seq      *SequenceGenerator
	cost     *CostEngine
	log      *logger.Logger
	metrics  Metrics
	now      func() time.Time
}

// Option ajusta el Service al construirlo.
type Option func(*Service)

// WithMetrics registra los eventos confirmados en m.
func WithMetrics(m Metrics) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithClock reemplaza time.Now (tests y barridos con fecha fija).
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLocation zona horaria de la fecha de los consecutivos.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) { s.seq = NewSequenceGenerator(loc) }
}

// NewService construye el servicio del ledger.
func NewService(txRunner TxRunner, log *logger.Logger, opts ...Option) *Service {
	if log == nil {
		log = logger.Nop()
	}
	s := &Service{
		txRunner: txRunner,
		seq:      NewSequenceGenerator(time.UTC),
		cost:     NewCostEngine(),
		log:      log.Component("ledger"),
		metrics:  NopMetrics{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// publish registra los movimientos de una tx ya confirmada.
func (s *Service) publish(movements []*entity.StockMovement) {
	for _, m := range movements {
		s.metrics.MovementRecorded(m.Type, m.Quantity)
	}
}
