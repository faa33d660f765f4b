package inventory_test

import (
	"testing"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextSequence_PrimeroDelDia(t *testing.T) {
	got, err := inventory.NextSequence(inventory.PrefixBatch, "20240115", "")
	require.NoError(t, err)
	assert.Equal(t, "BATCH-20240115-0001", got)
}

func TestNextSequence_Incrementa(t *testing.T) {
	cases := []struct {
		last, want string
	}{
		{"BATCH-20240115-0005", "BATCH-20240115-0006"},
		{"BATCH-20240115-0099", "BATCH-20240115-0100"},
		{"BATCH-20240115-9999", "BATCH-20240115-10000"},
	}
	for _, c := range cases {
		got, err := inventory.NextSequence(inventory.PrefixBatch, "20240115", c.last)
		require.NoError(t, err, c.last)
		assert.Equal(t, c.want, got)
	}
}

func TestNextSequence_OtrosPrefijos(t *testing.T) {
	got, err := inventory.NextSequence(inventory.PrefixReceipt, "20240315", "RCP-20240315-0003")
	require.NoError(t, err)
	assert.Equal(t, "RCP-20240315-0004", got)

	got, err = inventory.NextSequence(inventory.PrefixReceivingVoucher, "20240315", "")
	require.NoError(t, err)
	assert.Equal(t, "RV-20240315-0001", got)
}

func TestNextSequence_NumeroMalFormado(t *testing.T) {
	_, err := inventory.NextSequence(inventory.PrefixBatch, "20240115", "BATCH-20240115-00x1")
	assert.Error(t, err)

	_, err = inventory.NextSequence(inventory.PrefixBatch, "20240115", "BATCH-20240114-0001")
	assert.Error(t, err, "un número de otro día no puede alimentar el consecutivo")
}

func TestSequenceDateKey(t *testing.T) {
	ts := time.Date(2024, time.January, 5, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, "20240105", inventory.SequenceDateKey(ts))
	assert.Equal(t, "PO-20240105-", inventory.SequenceScope(inventory.PrefixPurchaseOrder, "20240105"))
}
