package inventory_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	domaininv "github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/shopspring/decimal"
)

// memStore TxRunner en memoria: serializa las tx con un mutex y restaura una copia si fn falla.
type memStore struct {
	mu sync.Mutex

	products  map[string]*entity.Product
	batches   map[string]*entity.InventoryBatch
	movements []*entity.StockMovement
	orders    map[string]*entity.PurchaseOrder
	vouchers  []*entity.ReceivingVoucher
	payables  []*entity.AccountsPayable
	locks     []string

	runs, reads     int
	productLocks    int
	failBatchCreate func(*entity.InventoryBatch) error
}

func newMemStore() *memStore {
	return &memStore{
		products: map[string]*entity.Product{},
		batches:  map[string]*entity.InventoryBatch{},
		orders:   map[string]*entity.PurchaseOrder{},
	}
}

type memSnapshot struct {
	products  map[string]*entity.Product
	batches   map[string]*entity.InventoryBatch
	movements []*entity.StockMovement
	orders    map[string]*entity.PurchaseOrder
	vouchers  []*entity.ReceivingVoucher
	payables  []*entity.AccountsPayable
}

func (s *memStore) snapshot() memSnapshot {
	snap := memSnapshot{
		products:  make(map[string]*entity.Product, len(s.products)),
		batches:   make(map[string]*entity.InventoryBatch, len(s.batches)),
		movements: append([]*entity.StockMovement(nil), s.movements...),
		orders:    make(map[string]*entity.PurchaseOrder, len(s.orders)),
		vouchers:  append([]*entity.ReceivingVoucher(nil), s.vouchers...),
		payables:  append([]*entity.AccountsPayable(nil), s.payables...),
	}
	for k, p := range s.products {
		cp := *p
		snap.products[k] = &cp
	}
	for k, b := range s.batches {
		cp := *b
		snap.batches[k] = &cp
	}
	for k, po := range s.orders {
		snap.orders[k] = copyOrder(po)
	}
	return snap
}

func (s *memStore) restore(snap memSnapshot) {
	s.products = snap.products
	s.batches = snap.batches
	s.movements = snap.movements
	s.orders = snap.orders
	s.vouchers = snap.vouchers
	s.payables = snap.payables
}

func (s *memStore) repos() inventory.TxRepos {
	return inventory.TxRepos{
		Batches:        memBatches{s},
		Movements:      memMovements{s},
		Products:       memProducts{s},
		Sequences:      memSequences{s},
		PurchaseOrders: memOrders{s},
		Vouchers:       memVouchers{s},
		Payables:       memPayables{s},
	}
}

func (s *memStore) Run(ctx context.Context, fn func(repos inventory.TxRepos) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs++
	snap := s.snapshot()
	if err := fn(s.repos()); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

func (s *memStore) Read(ctx context.Context, fn func(repos inventory.TxRepos) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads++
	return fn(s.repos())
}

// helpers de inspección para los tests (toman el candado).

func (s *memStore) batch(id string) entity.InventoryBatch {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.batches[id]
}

func (s *memStore) batchesOf(productID, warehouseID string) []*entity.InventoryBatch {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*entity.InventoryBatch{}
	for _, b := range s.batches {
		if b.ProductID == productID && b.WarehouseID == warehouseID {
			cp := *b
			out = append(out, &cp)
		}
	}
	domaininv.SortFIFO(out)
	return out
}

func (s *memStore) movementCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.movements)
}

func (s *memStore) counters() (runs, reads int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runs, s.reads
}

func copyOrder(po *entity.PurchaseOrder) *entity.PurchaseOrder {
	cp := *po
	cp.Items = make([]*entity.PurchaseOrderItem, 0, len(po.Items))
	for _, it := range po.Items {
		line := *it
		cp.Items = append(cp.Items, &line)
	}
	if po.Supplier != nil {
		sup := *po.Supplier
		cp.Supplier = &sup
	}
	return &cp
}

// --- lotes ---

type memBatches struct{ s *memStore }

func (r memBatches) Create(ctx context.Context, b *entity.InventoryBatch) error {
	if r.s.failBatchCreate != nil {
		if err := r.s.failBatchCreate(b); err != nil {
			return err
		}
	}
	for _, existing := range r.s.batches {
		if existing.BatchNumber == b.BatchNumber {
			return fmt.Errorf("batch_number %s: %w", b.BatchNumber, domain.ErrSequenceConflict)
		}
	}
	cp := *b
	r.s.batches[b.ID] = &cp
	return nil
}

func (r memBatches) GetByID(ctx context.Context, id string) (*entity.InventoryBatch, error) {
	b, ok := r.s.batches[id]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

// UpdateQuantity reproduce los CHECK de la tabla.
func (r memBatches) UpdateQuantity(ctx context.Context, id string, qty decimal.Decimal, status string) error {
	b, ok := r.s.batches[id]
	if !ok {
		return errors.New("lote inexistente")
	}
	if qty.IsNegative() {
		return errors.New("check: quantity >= 0")
	}
	if (status == entity.BatchStatusDepleted) != qty.IsZero() {
		return errors.New("check: depleted <=> quantity = 0")
	}
	b.Quantity = qty
	b.Status = status
	return nil
}

func (r memBatches) ListActive(ctx context.Context, productID, warehouseID string) ([]*entity.InventoryBatch, error) {
	out := []*entity.InventoryBatch{}
	for _, b := range r.s.batches {
		if b.ProductID == productID && b.WarehouseID == warehouseID && b.IsActive() {
			cp := *b
			out = append(out, &cp)
		}
	}
	domaininv.SortFIFO(out)
	return out, nil
}

func (r memBatches) ListActiveForUpdate(ctx context.Context, productID, warehouseID string) ([]*entity.InventoryBatch, error) {
	return r.ListActive(ctx, productID, warehouseID)
}

func (r memBatches) SumActiveQuantity(ctx context.Context, productID, warehouseID string) (decimal.Decimal, error) {
	list, _ := r.ListActive(ctx, productID, warehouseID)
	return domaininv.TotalQuantity(list), nil
}

func (r memBatches) SumActiveQuantityByProduct(ctx context.Context, productID string) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, b := range r.s.batches {
		if b.ProductID == productID && b.IsActive() {
			total = total.Add(b.Quantity)
		}
	}
	return total, nil
}

func (r memBatches) MarkExpired(ctx context.Context, asOf time.Time) (int64, error) {
	var n int64
	for _, b := range r.s.batches {
		if b.IsActive() && b.ExpiryDate.Before(asOf) {
			b.Status = entity.BatchStatusExpired
			b.UpdatedAt = asOf
			n++
		}
	}
	return n, nil
}

// --- movimientos ---

type memMovements struct{ s *memStore }

func (r memMovements) Create(ctx context.Context, m *entity.StockMovement) error {
	cp := *m
	r.s.movements = append(r.s.movements, &cp)
	return nil
}

func (r memMovements) ListByBatch(ctx context.Context, batchID string) ([]*entity.StockMovement, error) {
	out := []*entity.StockMovement{}
	for _, m := range r.s.movements {
		if m.BatchID == batchID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r memMovements) List(ctx context.Context, f entity.MovementFilter) ([]*entity.StockMovement, error) {
	out := []*entity.StockMovement{}
	for i := len(r.s.movements) - 1; i >= 0; i-- {
		m := r.s.movements[i]
		b := r.s.batches[m.BatchID]
		switch {
		case f.BatchID != "" && m.BatchID != f.BatchID,
			f.ProductID != "" && (b == nil || b.ProductID != f.ProductID),
			f.WarehouseID != "" && (b == nil || b.WarehouseID != f.WarehouseID),
			f.Type != "" && m.Type != f.Type,
			f.From != nil && m.CreatedAt.Before(*f.From),
			f.To != nil && m.CreatedAt.After(*f.To):
			continue
		}
		out = append(out, m)
	}
	if f.Offset >= len(out) {
		return []*entity.StockMovement{}, nil
	}
	out = out[f.Offset:]
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

// --- productos ---

type memProducts struct{ s *memStore }

func (r memProducts) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r memProducts) GetByIDForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	r.s.productLocks++
	return r.GetByID(ctx, id)
}

func (r memProducts) UpdateAverageCost(ctx context.Context, id string, cost decimal.Decimal) error {
	p, ok := r.s.products[id]
	if !ok {
		return errors.New("producto inexistente")
	}
	p.AverageCostPrice = cost
	return nil
}

// --- consecutivos ---

type memSequences struct{ s *memStore }

func (r memSequences) Lock(ctx context.Context, key string) error {
	r.s.locks = append(r.s.locks, key)
	return nil
}

func (r memSequences) LastNumber(ctx context.Context, prefix, scope string) (string, error) {
	var numbers []string
	switch prefix {
	case domaininv.PrefixBatch:
		for _, b := range r.s.batches {
			numbers = append(numbers, b.BatchNumber)
		}
	case domaininv.PrefixReceivingVoucher:
		for _, v := range r.s.vouchers {
			numbers = append(numbers, v.RVNumber)
		}
	default:
		return "", fmt.Errorf("prefijo sin tabla: %s", prefix)
	}
	last := ""
	for _, n := range numbers {
		if !strings.HasPrefix(n, scope) {
			continue
		}
		if len(n) > len(last) || (len(n) == len(last) && n > last) {
			last = n
		}
	}
	return last, nil
}

// --- órdenes de compra ---

type memOrders struct{ s *memStore }

func (r memOrders) GetByIDForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	po, ok := r.s.orders[id]
	if !ok {
		return nil, nil
	}
	return copyOrder(po), nil
}

func (r memOrders) UpdateItemReceived(ctx context.Context, itemID string, received decimal.Decimal) error {
	for _, po := range r.s.orders {
		for _, it := range po.Items {
			if it.ID == itemID {
				it.ReceivedQuantity = received
				return nil
			}
		}
	}
	return errors.New("línea inexistente")
}

func (r memOrders) UpdateReceiving(ctx context.Context, id, status, receivingStatus string, delivered *time.Time) error {
	po, ok := r.s.orders[id]
	if !ok {
		return errors.New("orden inexistente")
	}
	po.Status = status
	po.ReceivingStatus = receivingStatus
	po.ActualDeliveryDate = delivered
	return nil
}

type memVouchers struct{ s *memStore }

func (r memVouchers) Create(ctx context.Context, v *entity.ReceivingVoucher) error {
	for _, existing := range r.s.vouchers {
		if existing.RVNumber == v.RVNumber {
			return fmt.Errorf("rv_number %s: %w", v.RVNumber, domain.ErrSequenceConflict)
		}
	}
	r.s.vouchers = append(r.s.vouchers, v)
	return nil
}

type memPayables struct{ s *memStore }

func (r memPayables) Create(ctx context.Context, ap *entity.AccountsPayable) error {
	r.s.payables = append(r.s.payables, ap)
	return nil
}

// recordingMetrics cuenta los eventos publicados por el servicio.
type recordingMetrics struct {
	mu           sync.Mutex
	movements    map[string]decimal.Decimal
	insufficient int
	expired      int64
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{movements: map[string]decimal.Decimal{}}
}

func (m *recordingMetrics) MovementRecorded(typ string, qty decimal.Decimal) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.movements[typ] = m.movements[typ].Add(qty)
}

func (m *recordingMetrics) InsufficientStock() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.insufficient++
}

func (m *recordingMetrics) BatchesExpired(n int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.expired += n
}
