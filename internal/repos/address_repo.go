package repos

import (
	"okeanmarket/internal/domain"

	"github.com/jmoiron/sqlx"
)

type AddressRepo struct{ db *sqlx.DB }

func NewAddressRepo(db *sqlx.DB) *AddressRepo { return &AddressRepo{db: db} }

func (r *AddressRepo) ListByUser(userID int64) ([]domain.Address, error) {
	out := []domain.Address{}
	err := r.db.Select(&out, `
		SELECT id, user_id, label, address_text, lat, lng, created_at
		FROM user_addresses WHERE user_id = ?
		ORDER BY datetime(created_at) DESC
	`, userID)
	return out, err
}

func (r *AddressRepo) Insert(a domain.Address) error {
	_, err := r.db.Exec(`
		INSERT INTO user_addresses(id, user_id, label, address_text, lat, lng)
		VALUES(?, ?, ?, ?, ?, ?)
	`, a.ID, a.UserID, a.Label, a.AddressText, a.Lat, a.Lng)
	return err
}

// Delete is scoped to the owning user so one shopper cannot remove another's
// saved address.
func (r *AddressRepo) Delete(id string, userID int64) error {
	res, err := r.db.Exec(`DELETE FROM user_addresses WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
