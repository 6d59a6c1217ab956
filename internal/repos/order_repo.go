package repos

import (
	"database/sql"
	"errors"
	"time"

	"okeanmarket/internal/domain"

	"github.com/jmoiron/sqlx"
)

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

const orderCols = `id, user_id, courier_id, total_price, status, address_text, lat, lng,
	phone, comment, created_at, accepted_at, delivered_at`

// Create persists the order header and all items in one transaction, so a
// header never exists without its lines.
func (r *OrderRepo) Create(o *domain.Order) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`
		INSERT INTO orders(id, user_id, courier_id, total_price, status, address_text, lat, lng, phone, comment, created_at)
		VALUES(?, ?, NULL, ?, ?, ?, ?, ?, ?, ?, ?)
	`, o.ID, o.UserID, o.TotalPrice, o.Status, o.AddressText, o.Lat, o.Lng, o.Phone, o.Comment, o.CreatedAt); err != nil {
		return err
	}

	for _, it := range o.Items {
		if _, err := tx.Exec(`
			INSERT INTO order_items(order_id, product_id, name, qty, unit, price_at_time)
			VALUES(?, ?, ?, ?, ?, ?)
		`, o.ID, it.ProductID, it.Name, it.Quantity, it.Unit, it.PriceAtTime); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *OrderRepo) Get(orderID string) (domain.Order, error) {
	var o domain.Order
	if err := r.db.Get(&o, `SELECT `+orderCols+` FROM orders WHERE id = ?`, orderID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Order{}, domain.ErrNotFound
		}
		return domain.Order{}, err
	}
	if err := r.db.Select(&o.Items, `
		SELECT order_id, product_id, name, qty, unit, price_at_time
		FROM order_items WHERE order_id = ? ORDER BY name
	`, orderID); err != nil {
		return domain.Order{}, err
	}
	return o, nil
}

// Claim is the courier-accept compare-and-set: the update applies only while
// the order is still unassigned, so of two racing couriers exactly one wins.
func (r *OrderRepo) Claim(orderID, courierID string) (domain.Order, error) {
	res, err := r.db.Exec(`
		UPDATE orders
		SET courier_id = ?, status = ?, accepted_at = ?
		WHERE id = ? AND status = ? AND courier_id IS NULL
	`, courierID, domain.StatusPending, now(), orderID, domain.StatusNew)
	if err != nil {
		return domain.Order{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return domain.Order{}, err
	}
	if n == 0 {
		if _, err := r.Get(orderID); err != nil {
			return domain.Order{}, err // ErrNotFound
		}
		return domain.Order{}, domain.ErrAlreadyClaimed
	}
	return r.Get(orderID)
}

// Complete flips pending -> delivered and credits cashback in the same
// transaction. The status flip is conditional, so a second completion is a
// no-op that reports a transition error and never double-pays. An empty
// courierID skips the assignment check (admin path).
func (r *OrderRepo) Complete(orderID, courierID string) (domain.Order, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return domain.Order{}, err
	}
	defer func() { _ = tx.Rollback() }()

	q := `UPDATE orders SET status = ?, delivered_at = ? WHERE id = ? AND status = ?`
	args := []any{domain.StatusDelivered, now(), orderID, domain.StatusPending}
	if courierID != "" {
		q += ` AND courier_id = ?`
		args = append(args, courierID)
	}
	res, err := tx.Exec(q, args...)
	if err != nil {
		return domain.Order{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return domain.Order{}, err
	}
	if n == 0 {
		// release the tx before the diagnostic read
		_ = tx.Rollback()
		return domain.Order{}, r.completeFailure(orderID, courierID)
	}

	var o domain.Order
	if err := tx.Get(&o, `SELECT `+orderCols+` FROM orders WHERE id = ?`, orderID); err != nil {
		return domain.Order{}, err
	}

	// Cashback: 1% of the total, floored, registered users only. A single
	// atomic increment, never read-modify-write.
	if o.UserID != nil {
		if pts := domain.CashbackPoints(o.TotalPrice); pts > 0 {
			if _, err := tx.Exec(`
				INSERT INTO profiles(telegram_id, points) VALUES(?, ?)
				ON CONFLICT(telegram_id) DO UPDATE SET points = points + excluded.points
			`, *o.UserID, pts); err != nil {
				return domain.Order{}, err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return domain.Order{}, err
	}
	return r.Get(orderID)
}

// completeFailure narrows why the conditional delivered-update matched no row.
func (r *OrderRepo) completeFailure(orderID, courierID string) error {
	o, err := r.Get(orderID)
	if err != nil {
		return err // ErrNotFound
	}
	if o.Status == domain.StatusPending && courierID != "" {
		return domain.ErrNotCourier
	}
	return &domain.TransitionError{OrderID: orderID, From: o.Status, To: domain.StatusDelivered}
}

// Cancel moves new or pending orders to canceled; terminal orders are
// rejected. The assigned courier, if any, stays on the row.
func (r *OrderRepo) Cancel(orderID string) (domain.Order, error) {
	res, err := r.db.Exec(`
		UPDATE orders SET status = ? WHERE id = ? AND status IN (?, ?)
	`, domain.StatusCanceled, orderID, domain.StatusNew, domain.StatusPending)
	if err != nil {
		return domain.Order{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return domain.Order{}, err
	}
	if n == 0 {
		o, err := r.Get(orderID)
		if err != nil {
			return domain.Order{}, err
		}
		return domain.Order{}, &domain.TransitionError{OrderID: orderID, From: o.Status, To: domain.StatusCanceled}
	}
	return r.Get(orderID)
}

// ---------- Projections ----------

// Available returns the courier pool: unassigned new orders, newest first.
func (r *OrderRepo) Available() ([]domain.Order, error) {
	out := []domain.Order{}
	err := r.db.Select(&out, `
		SELECT `+orderCols+` FROM orders
		WHERE status = ? AND courier_id IS NULL
		ORDER BY datetime(created_at) DESC
	`, domain.StatusNew)
	return out, err
}

// Active returns the courier's single in-flight order, or ErrNotFound.
func (r *OrderRepo) Active(courierID string) (domain.Order, error) {
	var o domain.Order
	err := r.db.Get(&o, `
		SELECT `+orderCols+` FROM orders
		WHERE courier_id = ? AND status = ?
	`, courierID, domain.StatusPending)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Order{}, domain.ErrNotFound
	}
	return o, err
}

func (r *OrderRepo) History(courierID string) ([]domain.Order, error) {
	out := []domain.Order{}
	err := r.db.Select(&out, `
		SELECT `+orderCols+` FROM orders
		WHERE courier_id = ? AND status = ?
		ORDER BY datetime(delivered_at) DESC
	`, courierID, domain.StatusDelivered)
	return out, err
}

func (r *OrderRepo) ListByUser(userID int64) ([]domain.Order, error) {
	out := []domain.Order{}
	err := r.db.Select(&out, `
		SELECT `+orderCols+` FROM orders
		WHERE user_id = ?
		ORDER BY datetime(created_at) DESC
	`, userID)
	return out, err
}

func (r *OrderRepo) ListLatest(limit int) ([]domain.Order, error) {
	if limit <= 0 {
		limit = 100
	}
	out := []domain.Order{}
	err := r.db.Select(&out, `
		SELECT `+orderCols+` FROM orders
		ORDER BY datetime(created_at) DESC
		LIMIT ?
	`, limit)
	return out, err
}

// CourierStats derives accepted/delivered counts from the orders table.
func (r *OrderRepo) CourierStats() ([]domain.CourierStats, error) {
	out := []domain.CourierStats{}
	err := r.db.Select(&out, `
		SELECT s.id AS courier_id, s.name,
		       COUNT(o.id) AS accepted_count,
		       COALESCE(SUM(CASE WHEN o.status = 'delivered' THEN 1 ELSE 0 END), 0) AS delivered_count
		FROM staff s
		LEFT JOIN orders o ON o.courier_id = s.id
		WHERE s.role = 'COURIER'
		GROUP BY s.id, s.name
		ORDER BY s.name
	`)
	return out, err
}

func now() string { return time.Now().UTC().Format(time.RFC3339) }
