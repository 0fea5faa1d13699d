// Package numbering genera identificadores legibles {letra}{AAAAMMDD}{NNNN} por día.
package numbering

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jhoicas/tienda360-api/internal/domain"
)

// SequenceWidth dígitos del consecutivo diario.
const SequenceWidth = 4

// Prefix devuelve letra + fecha (AAAAMMDD).
func Prefix(letter string, day time.Time) string {
	return letter + day.Format("20060102")
}

// Format compone el número completo.
func Format(prefix string, seq int) string {
	return fmt.Sprintf("%s%0*d", prefix, SequenceWidth, seq)
}

// Next calcula el siguiente número del prefijo a partir del mayor existente.
// last vacío significa que no hay números ese día. Un sufijo no numérico es una falla de integridad.
func Next(letter string, day time.Time, last string) (string, error) {
	if letter == "" {
		return "", domain.Invalid("letter", "requerida")
	}
	prefix := Prefix(letter, day)
	if last == "" {
		return Format(prefix, 1), nil
	}
	seq, err := Sequence(prefix, last)
	if err != nil {
		return "", err
	}
	return Format(prefix, seq+1), nil
}

// Sequence extrae el consecutivo de un número existente del prefijo.
func Sequence(prefix, number string) (int, error) {
	if !strings.HasPrefix(number, prefix) {
		return 0, &domain.IntegrityError{Reason: fmt.Sprintf("el número %q no pertenece al prefijo %q", number, prefix)}
	}
	suffix := number[len(prefix):]
	if suffix == "" {
		return 0, &domain.IntegrityError{Reason: fmt.Sprintf("el número %q no tiene consecutivo", number)}
	}
	seq, err := strconv.Atoi(suffix)
	if err != nil || seq < 0 {
		return 0, &domain.IntegrityError{Reason: fmt.Sprintf("consecutivo no numérico en %q", number)}
	}
	return seq, nil
}
