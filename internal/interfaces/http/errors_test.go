package http

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/tienda360-api/internal/domain"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{domain.Invalid("amount", "máximo 2 decimales"), fiber.StatusBadRequest, "VALIDATION"},
		{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
		{fmt.Errorf("%w: deadlock detected", domain.ErrConflict), fiber.StatusConflict, "CONFLICT"},
		{&domain.InsufficientStockError{ProductID: "p1"}, fiber.StatusConflict, "INSUFFICIENT_STOCK"},
		{&domain.IntegrityError{Reason: "asiento repetido"}, fiber.StatusInternalServerError, "INTEGRITY"},
		{errors.New("boom"), fiber.StatusInternalServerError, "INTERNAL"},
	}
	for _, c := range cases {
		status, code := classify(c.err)
		assert.Equal(t, c.status, status, c.err.Error())
		assert.Equal(t, c.code, code, c.err.Error())
	}
}
