package entity

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda360-api/internal/domain"
)

// MoneyScale decimales que guardan las columnas NUMERIC(14,2).
const MoneyScale = 2

var hundred = decimal.NewFromInt(100)

// CheckMoney rechaza montos con más precisión de la que se persiste.
// "1.500" es válido; "0.333" no.
func CheckMoney(field string, amount decimal.Decimal) error {
	if !amount.Equal(amount.Round(MoneyScale)) {
		return domain.Invalid(field, "admite como máximo 2 decimales")
	}
	return nil
}
