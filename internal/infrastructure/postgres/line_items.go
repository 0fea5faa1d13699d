package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/tienda360-api/internal/domain/entity"
)

// itemTable tabla de líneas de un agregado (sale_items / purchase_items).
type itemTable struct {
	name     string
	orderCol string
}

var (
	saleItems     = itemTable{name: "sale_items", orderCol: "sale_id"}
	purchaseItems = itemTable{name: "purchase_items", orderCol: "purchase_id"}
)

// replace sincroniza las líneas persistidas con las del agregado: borra y reinserta en orden.
func (t itemTable) replace(ctx context.Context, q Querier, orderID string, items []*entity.LineItem) error {
	if _, err := q.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, t.name, t.orderCol), orderID); err != nil {
		return fmt.Errorf("delete %s: %w", t.name, err)
	}
	for i, it := range items {
		if err := t.insert(ctx, q, orderID, i, it); err != nil {
			return err
		}
	}
	return nil
}

func (t itemTable) insert(ctx context.Context, q Querier, orderID string, pos int, it *entity.LineItem) error {
	var err error
	if t == purchaseItems {
		_, err = q.Exec(ctx, `
			INSERT INTO purchase_items (id, purchase_id, product_id, product_name, quantity, received_quantity, unit_price, original_price, subtotal, total, position)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			it.ID, orderID, it.ProductID, it.ProductName, it.Quantity, it.ReceivedQuantity,
			it.UnitPrice, it.OriginalPrice, it.Subtotal, it.Total, pos)
	} else {
		_, err = q.Exec(ctx, `
			INSERT INTO sale_items (id, sale_id, product_id, product_name, quantity, unit_price, original_price, subtotal, total, position)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			it.ID, orderID, it.ProductID, it.ProductName, it.Quantity,
			it.UnitPrice, it.OriginalPrice, it.Subtotal, it.Total, pos)
	}
	if err != nil {
		return fmt.Errorf("insert %s: %w", t.name, err)
	}
	return nil
}

func (t itemTable) load(ctx context.Context, q Querier, orderID string) ([]*entity.LineItem, error) {
	received := "NULL::int"
	if t == purchaseItems {
		received = "received_quantity"
	}
	query := fmt.Sprintf(`
		SELECT id, %s, product_id, product_name, quantity, %s, unit_price, original_price, subtotal, total
		FROM %s WHERE %s = $1 ORDER BY position`, t.orderCol, received, t.name, t.orderCol)
	rows, err := q.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", t.name, err)
	}
	defer rows.Close()
	var items []*entity.LineItem
	for rows.Next() {
		var it entity.LineItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName, &it.Quantity, &it.ReceivedQuantity,
			&it.UnitPrice, &it.OriginalPrice, &it.Subtotal, &it.Total); err != nil {
			return nil, fmt.Errorf("scan %s: %w", t.name, err)
		}
		items = append(items, &it)
	}
	return items, rows.Err()
}

// lastNumberQuery mayor número con prefijo: primero por longitud para que 10000 quede después de 9999.
func lastNumberQuery(table string) string {
	return fmt.Sprintf(`SELECT number FROM %s WHERE number LIKE $1 || '%%' ORDER BY length(number) DESC, number DESC LIMIT 1`, table)
}
