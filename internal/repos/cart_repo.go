package repos

import (
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type CartRepo struct{ db *sqlx.DB }

func NewCartRepo(db *sqlx.DB) *CartRepo { return &CartRepo{db: db} }

// CartLine is a cart item joined with the live product fields pricing needs.
type CartLine struct {
	ProductID     string          `db:"product_id"`
	Name          string          `db:"name"`
	Unit          string          `db:"unit"`
	Price         int64           `db:"price"`
	DiscountPrice *int64          `db:"discount_price"`
	Step          decimal.Decimal `db:"step"`
	Qty           decimal.Decimal `db:"qty"`
	IsAvailable   bool            `db:"is_available"`
}

func (r *CartRepo) EnsureCart(sessionID string) (string, error) {
	var cartID string
	if err := r.db.Get(&cartID, `SELECT id FROM carts WHERE session_id = ?`, sessionID); err == nil {
		return cartID, nil
	}
	_, err := r.db.Exec(`INSERT INTO carts(id,session_id,updated_at) VALUES(?,?,?)`,
		sessionID, sessionID, time.Now().Format(time.RFC3339))
	if err != nil {
		return "", err
	}
	return sessionID, nil
}

// AddStep inserts the line at one step or bumps an existing one by a step.
func (r *CartRepo) AddStep(cartID, productID string, step decimal.Decimal) error {
	_, err := r.db.Exec(`
		INSERT INTO cart_items(cart_id,product_id,qty,created_at)
		VALUES(?,?,?,CURRENT_TIMESTAMP)
		ON CONFLICT(cart_id,product_id) DO UPDATE
		SET qty = qty + excluded.qty, updated_at = CURRENT_TIMESTAMP
	`, cartID, productID, step)
	return err
}

func (r *CartRepo) SetQty(cartID, productID string, qty decimal.Decimal) error {
	_, err := r.db.Exec(`
		UPDATE cart_items SET qty = ?, updated_at = CURRENT_TIMESTAMP
		WHERE cart_id = ? AND product_id = ?
	`, qty, cartID, productID)
	return err
}

func (r *CartRepo) Qty(cartID, productID string) (decimal.Decimal, error) {
	var qty decimal.Decimal
	err := r.db.Get(&qty, `SELECT qty FROM cart_items WHERE cart_id = ? AND product_id = ?`,
		cartID, productID)
	return qty, err
}

func (r *CartRepo) Remove(cartID, productID string) error {
	_, err := r.db.Exec(`DELETE FROM cart_items WHERE cart_id = ? AND product_id = ?`,
		cartID, productID)
	return err
}

func (r *CartRepo) Lines(cartID string) ([]CartLine, error) {
	out := []CartLine{}
	err := r.db.Select(&out, `
	  SELECT ci.product_id, p.name, p.unit, p.price, p.discount_price, p.step, ci.qty, p.is_available
	  FROM cart_items ci JOIN products p ON p.id = ci.product_id
	  WHERE ci.cart_id = ?
	  ORDER BY ci.created_at
	`, cartID)
	return out, err
}

func (r *CartRepo) Clear(cartID string) error {
	_, err := r.db.Exec(`DELETE FROM cart_items WHERE cart_id = ?`, cartID)
	return err
}
