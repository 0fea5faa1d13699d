// Package numbering asigna números de orden dentro de la transacción del llamador.
package numbering

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/tienda360-api/internal/domain/numbering"
	"github.com/jhoicas/tienda360-api/internal/domain/repository"
)

// LastNumberFinder devuelve el mayor número existente con un prefijo.
type LastNumberFinder interface {
	LastNumberWithPrefix(ctx context.Context, prefix string) (string, error)
}

// Next reserva el siguiente número {letra}{AAAAMMDD}{NNNN}.
// Toma un candado por prefijo para que dos creaciones concurrentes no lean el mismo último número;
// el candado vive hasta el fin de la transacción en la que se inserta la orden.
func Next(ctx context.Context, locks repository.Locker, finder LastNumberFinder, letter string, day time.Time) (string, error) {
	prefix := numbering.Prefix(letter, day)
	if err := locks.Lock(ctx, "numbering:"+prefix); err != nil {
		return "", fmt.Errorf("lock numbering %s: %w", prefix, err)
	}
	last, err := finder.LastNumberWithPrefix(ctx, prefix)
	if err != nil {
		return "", fmt.Errorf("last number %s: %w", prefix, err)
	}
	return numbering.Next(letter, day, last)
}
