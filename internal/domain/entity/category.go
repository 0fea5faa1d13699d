package entity

// LedgerCategory categoría contable de un movimiento de caja.
type LedgerCategory string

const (
	CategorySale        LedgerCategory = "sale"
	CategoryPurchase    LedgerCategory = "purchase"
	CategoryOverhead    LedgerCategory = "overhead"
	CategorySalary      LedgerCategory = "salary"
	CategoryRent        LedgerCategory = "rent"
	CategoryElectricity LedgerCategory = "electricity"
	CategoryTelecom     LedgerCategory = "telecom"
	CategoryTransport   LedgerCategory = "transport"
	CategoryAdvertising LedgerCategory = "advertising"
	CategoryOther       LedgerCategory = "other"
)

// Valid indica si la categoría es conocida.
func (c LedgerCategory) Valid() bool {
	switch c {
	case CategorySale, CategoryPurchase, CategoryOverhead, CategorySalary, CategoryRent,
		CategoryElectricity, CategoryTelecom, CategoryTransport, CategoryAdvertising, CategoryOther:
		return true
	}
	return false
}
