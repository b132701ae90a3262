package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/cartapi/internal/domain"
	"github.com/nikolayk812/cartapi/internal/port"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// postgresCartRepository is the durable implementation of the cart port,
// for deployments that outlive a single process. Save replaces the cart
// and its items wholesale inside one transaction, guarded by the version
// column.
type postgresCartRepository struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) port.CartRepository {
	return &postgresCartRepository{pool: pool}
}

func (r *postgresCartRepository) Save(ctx context.Context, cart domain.Cart) (domain.Cart, error) {
	if cart.ID == "" {
		return domain.Cart{}, fmt.Errorf("cart ID is empty")
	}

	return withTx(ctx, r.pool, func(tx pgx.Tx) (domain.Cart, error) {
		var stored int64

		err := tx.QueryRow(ctx,
			`SELECT version FROM carts WHERE id = $1 FOR UPDATE`, cart.ID).Scan(&stored)
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			if cart.Version != 0 {
				return domain.Cart{}, fmt.Errorf("cart[%s] version %d, not stored: %w",
					cart.ID, cart.Version, port.ErrVersionConflict)
			}

			if _, err := tx.Exec(ctx,
				`INSERT INTO carts (id, version, created_at, updated_at) VALUES ($1, $2, $3, $4)`,
				cart.ID, cart.Version+1, cart.CreatedAt, cart.UpdatedAt); err != nil {
				return domain.Cart{}, fmt.Errorf("insert cart: %w", err)
			}
		case err != nil:
			return domain.Cart{}, fmt.Errorf("select version: %w", err)
		case stored != cart.Version:
			return domain.Cart{}, fmt.Errorf("cart[%s] version %d, stored %d: %w",
				cart.ID, cart.Version, stored, port.ErrVersionConflict)
		default:
			if _, err := tx.Exec(ctx,
				`UPDATE carts SET version = $2, updated_at = $3 WHERE id = $1`,
				cart.ID, cart.Version+1, cart.UpdatedAt); err != nil {
				return domain.Cart{}, fmt.Errorf("update cart: %w", err)
			}
		}

		if _, err := tx.Exec(ctx,
			`DELETE FROM cart_items WHERE cart_id = $1`, cart.ID); err != nil {
			return domain.Cart{}, fmt.Errorf("delete items: %w", err)
		}

		for i, item := range cart.Items {
			if _, err := tx.Exec(ctx,
				`INSERT INTO cart_items (cart_id, position, product_id, quantity, price_amount, price_currency)
				 VALUES ($1, $2, $3, $4, $5, $6)`,
				cart.ID, i, item.ProductID.String(), item.Quantity,
				item.UnitPrice.Amount, item.UnitPrice.Currency.String()); err != nil {
				return domain.Cart{}, fmt.Errorf("insert item[%s]: %w", item.ProductID, err)
			}
		}

		cart.Version++
		return cart, nil
	})
}

func (r *postgresCartRepository) FindByID(ctx context.Context, id string) (domain.Cart, bool, error) {
	if id == "" {
		return domain.Cart{}, false, fmt.Errorf("id is empty")
	}

	cart := domain.Cart{ID: id}

	err := r.pool.QueryRow(ctx,
		`SELECT version, created_at, updated_at FROM carts WHERE id = $1`, id).
		Scan(&cart.Version, &cart.CreatedAt, &cart.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Cart{}, false, nil
	}
	if err != nil {
		return domain.Cart{}, false, fmt.Errorf("select cart: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT product_id, quantity, price_amount, price_currency
		 FROM cart_items WHERE cart_id = $1 ORDER BY position`, id)
	if err != nil {
		return domain.Cart{}, false, fmt.Errorf("select items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		item, err := scanCartItem(rows)
		if err != nil {
			return domain.Cart{}, false, fmt.Errorf("scanCartItem: %w", err)
		}

		cart.Items = append(cart.Items, item)
	}
	if err := rows.Err(); err != nil {
		return domain.Cart{}, false, fmt.Errorf("rows.Err: %w", err)
	}

	return cart, true, nil
}

func (r *postgresCartRepository) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("id is empty")
	}

	// cart_items go away via ON DELETE CASCADE
	if _, err := r.pool.Exec(ctx, `DELETE FROM carts WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}

	return nil
}

func scanCartItem(rows pgx.Rows) (domain.CartItem, error) {
	var (
		productID string
		quantity  int
		amount    decimal.Decimal
		code      string
	)

	if err := rows.Scan(&productID, &quantity, &amount, &code); err != nil {
		return domain.CartItem{}, fmt.Errorf("rows.Scan: %w", err)
	}

	parsedCurrency, err := currency.ParseISO(code)
	if err != nil {
		return domain.CartItem{}, fmt.Errorf("currency[%s] is not valid: %w", code, err)
	}

	return domain.CartItem{
		ProductID: domain.ProductID(productID),
		Quantity:  quantity,
		UnitPrice: domain.Money{Amount: amount, Currency: parsedCurrency},
	}, nil
}
