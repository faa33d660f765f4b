package repository

import "context"

// SequenceRepository soporte de persistencia para consecutivos diarios.
type SequenceRepository interface {
	// Lock toma un candado ligado a la transacción para la clave (p.ej. "BATCH-20240115").
	Lock(ctx context.Context, key string) error
	// LastNumber mayor identificador que empieza con scope en la tabla dueña de prefix; "" si no hay.
	LastNumber(ctx context.Context, prefix, scope string) (string, error)
}
