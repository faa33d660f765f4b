package inventory

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Prefijos de consecutivos con alcance diario: PREFIX-YYYYMMDD-NNNN.
const (
	PrefixBatch            = "BATCH"
	PrefixReceipt          = "RCP"
	PrefixPurchaseOrder    = "PO"
	PrefixReceivingVoucher = "RV"
)

const sequencePadWidth = 4

// SequenceDateKey clave de fecha del consecutivo (YYYYMMDD) en la zona horaria de t.
func SequenceDateKey(t time.Time) string {
	return t.Format("20060102")
}

// SequenceScope prefijo que comparten todos los números de un día: "BATCH-20240115-".
func SequenceScope(prefix, dateKey string) string {
	return prefix + "-" + dateKey + "-"
}

// NextSequence calcula el siguiente número a partir del mayor existente del día (lastNumber).
// Sin número previo empieza en 0001; más allá de 9999 el ancho crece.
func NextSequence(prefix, dateKey, lastNumber string) (string, error) {
	scope := SequenceScope(prefix, dateKey)
	next := 1
	if lastNumber != "" {
		if !strings.HasPrefix(lastNumber, scope) {
			return "", fmt.Errorf("consecutivo %q fuera del alcance %q", lastNumber, scope)
		}
		n, err := strconv.Atoi(lastNumber[len(scope):])
		if err != nil || n < 0 {
			return "", fmt.Errorf("consecutivo %q con segmento numérico inválido", lastNumber)
		}
		next = n + 1
	}
	return fmt.Sprintf("%s%0*d", scope, sequencePadWidth, next), nil
}
