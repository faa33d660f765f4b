package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

// Ledger métricas Prometheus del ledger. El proceso anfitrión decide dónde registrarlas y servirlas.
type Ledger struct {
	movements    *prometheus.CounterVec
	quantity     *prometheus.CounterVec
	insufficient prometheus.Counter
	expired      prometheus.Counter
	txRetries    *prometheus.CounterVec
	txDuration   prometheus.Histogram
}

// NewLedger crea las métricas y las registra en reg.
func NewLedger(reg prometheus.Registerer, namespace string) (*Ledger, error) {
	m := &Ledger{
		movements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "movements_total",
			Help:      "Movimientos de stock confirmados, por tipo.",
		}, []string{"type"}),
		quantity: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "moved_quantity_total",
			Help:      "Cantidad en unidad base movida por movimientos confirmados, por tipo.",
		}, []string{"type"}),
		insufficient: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "insufficient_stock_total",
			Help:      "Descuentos rechazados por stock insuficiente.",
		}),
		expired: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "expired_batches_total",
			Help:      "Lotes marcados como vencidos por el barrido.",
		}),
		txRetries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "tx_retries_total",
			Help:      "Transacciones reintentadas, por motivo.",
		}, []string{"reason"}),
		txDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "tx_duration_seconds",
			Help:      "Duración de las transacciones de escritura, reintentos incluidos.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	for _, c := range []prometheus.Collector{m.movements, m.quantity, m.insufficient, m.expired, m.txRetries, m.txDuration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// MovementRecorded cuenta un movimiento y su cantidad.
func (m *Ledger) MovementRecorded(movementType string, quantity decimal.Decimal) {
	m.movements.WithLabelValues(movementType).Inc()
	m.quantity.WithLabelValues(movementType).Add(quantity.InexactFloat64())
}

// InsufficientStock cuenta un descuento rechazado.
func (m *Ledger) InsufficientStock() { m.insufficient.Inc() }

// BatchesExpired suma los lotes vencidos en un barrido.
func (m *Ledger) BatchesExpired(n int64) {
	if n > 0 {
		m.expired.Add(float64(n))
	}
}

// TxRetried cuenta un reintento de transacción (sequence_conflict, serialization_failure).
func (m *Ledger) TxRetried(reason string) { m.txRetries.WithLabelValues(reason).Inc() }

// TxObserved registra la duración de una transacción de escritura, sumando todos sus intentos.
func (m *Ledger) TxObserved(seconds float64) { m.txDuration.Observe(seconds) }
