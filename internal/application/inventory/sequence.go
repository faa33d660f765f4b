package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// SequenceGenerator asigna consecutivos PREFIX-YYYYMMDD-NNNN dentro de la tx que crea la entidad.
// El candado por (prefijo, día) serializa a los que compiten por el mismo alcance siempre que
// la tx sea READ COMMITTED: LastNumber corre después del candado y ve lo que confirmó el
// anterior. La restricción UNIQUE en BD y el reintento del TxRunner cubren lo demás.
type SequenceGenerator struct {
	loc *time.Location
}

// NewSequenceGenerator loc define el día del consecutivo; nil = UTC.
func NewSequenceGenerator(loc *time.Location) *SequenceGenerator {
	if loc == nil {
		loc = time.UTC
	}
	return &SequenceGenerator{loc: loc}
}

// Next toma el candado del día, lee el mayor existente y devuelve el siguiente.
func (g *SequenceGenerator) Next(ctx context.Context, repo repository.SequenceRepository, prefix string, at time.Time) (string, error) {
	dateKey := inventory.SequenceDateKey(at.In(g.loc))
	if err := repo.Lock(ctx, prefix+"-"+dateKey); err != nil {
		return "", fmt.Errorf("bloquear consecutivo %s: %w", prefix, err)
	}
	last, err := repo.LastNumber(ctx, prefix, inventory.SequenceScope(prefix, dateKey))
	if err != nil {
		return "", fmt.Errorf("leer último consecutivo %s: %w", prefix, err)
	}
	return inventory.NextSequence(prefix, dateKey, last)
}
