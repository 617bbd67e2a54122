package repos

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"cryptobazaar/internal/domain"
)

// CartRepo maintains the per-user cart mirror: one row per (user, product).
type CartRepo struct{ db *sqlx.DB }

func NewCartRepo(db *sqlx.DB) *CartRepo { return &CartRepo{db: db} }

// CartRow is a persisted cart line joined with its product reference.
// The product columns are nullable: a line whose product was removed from
// the catalog still exists in the mirror until checkout purges it.
type CartRow struct {
	ProductID  string              `db:"product_id"`
	Quantity   int                 `db:"quantity"`
	Name       sql.NullString      `db:"name"`
	Price      decimal.NullDecimal `db:"price"`
	ImagesJSON sql.NullString      `db:"images_json"`
	Category   sql.NullString      `db:"category"`
	Stock      sql.NullInt64       `db:"stock"`
}

// Valid reports whether the joined product reference is usable for checkout:
// present in the catalog with a positive price.
func (r CartRow) Valid() bool {
	return r.Name.Valid && r.Price.Valid && r.Price.Decimal.IsPositive()
}

// Item converts a valid row into a cart line. Call only when Valid().
func (r CartRow) Item() domain.CartItem {
	return domain.CartItem{
		Product: domain.Product{
			ID:         r.ProductID,
			Name:       r.Name.String,
			Price:      r.Price.Decimal,
			ImagesJSON: r.ImagesJSON.String,
			Category:   r.Category.String,
			Stock:      int(r.Stock.Int64),
		},
		Quantity: r.Quantity,
	}
}

func (r *CartRepo) ItemsByUser(userID string) ([]CartRow, error) {
	rows := []CartRow{}
	err := r.db.Select(&rows, `
	  SELECT ci.product_id, ci.quantity,
	         p.name, p.price, p.images_json, p.category, p.stock
	  FROM cart_items ci LEFT JOIN products p ON p.id = ci.product_id
	  WHERE ci.user_id = ?
	  ORDER BY ci.product_id
	`, userID)
	return rows, errors.Wrap(err, "cart: load")
}

// Replace reconciles the mirror with the given item set: upsert each line,
// then prune rows absent from the set. Keyed by (user, product) so there is
// no window where the mirror is empty. Last writer wins across sessions.
func (r *CartRepo) Replace(userID string, items []domain.CartItem) error {
	keep := make([]string, 0, len(items))
	for _, it := range items {
		if _, err := r.db.Exec(`
			INSERT INTO cart_items(user_id, product_id, quantity, updated_at)
			VALUES(?, ?, ?, CURRENT_TIMESTAMP)
			ON CONFLICT(user_id, product_id) DO UPDATE
			SET quantity = excluded.quantity, updated_at = CURRENT_TIMESTAMP
		`, userID, it.Product.ID, it.Quantity); err != nil {
			return errors.Wrap(err, "cart: upsert")
		}
		keep = append(keep, it.Product.ID)
	}

	if len(keep) == 0 {
		_, err := r.db.Exec(`DELETE FROM cart_items WHERE user_id = ?`, userID)
		return errors.Wrap(err, "cart: prune")
	}

	query, args, err := sqlx.In(`DELETE FROM cart_items WHERE user_id = ? AND product_id NOT IN (?)`, userID, keep)
	if err != nil {
		return errors.Wrap(err, "cart: prune")
	}
	_, err = r.db.Exec(query, args...)
	return errors.Wrap(err, "cart: prune")
}

// DeleteInvalid purges lines whose product is missing from the catalog or
// carries a non-positive price. Returns the number of lines removed.
func (r *CartRepo) DeleteInvalid(userID string) (int64, error) {
	res, err := r.db.Exec(`
	  DELETE FROM cart_items
	  WHERE user_id = ?
	    AND product_id NOT IN (SELECT id FROM products WHERE price > 0)
	`, userID)
	if err != nil {
		return 0, errors.Wrap(err, "cart: purge invalid")
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func (r *CartRepo) ClearUser(userID string) error {
	_, err := r.db.Exec(`DELETE FROM cart_items WHERE user_id = ?`, userID)
	return errors.Wrap(err, "cart: clear")
}
