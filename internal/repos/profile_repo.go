package repos

import (
	"database/sql"
	"errors"

	"okeanmarket/internal/domain"

	"github.com/jmoiron/sqlx"
)

type ProfileRepo struct{ db *sqlx.DB }

func NewProfileRepo(db *sqlx.DB) *ProfileRepo { return &ProfileRepo{db: db} }

func (r *ProfileRepo) Get(telegramID int64) (domain.Profile, error) {
	var p domain.Profile
	err := r.db.Get(&p, `
		SELECT telegram_id, name, phone, points, created_at
		FROM profiles WHERE telegram_id = ?
	`, telegramID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Profile{}, domain.ErrNotFound
	}
	return p, err
}

// Upsert creates or updates the display fields; the points balance is only
// ever touched by the atomic cashback increment.
func (r *ProfileRepo) Upsert(telegramID int64, name, phone string) error {
	_, err := r.db.Exec(`
		INSERT INTO profiles(telegram_id, name, phone) VALUES(?, ?, ?)
		ON CONFLICT(telegram_id) DO UPDATE SET name = excluded.name, phone = excluded.phone
	`, telegramID, name, phone)
	return err
}

func (r *ProfileRepo) Points(telegramID int64) (int64, error) {
	var pts int64
	err := r.db.Get(&pts, `SELECT points FROM profiles WHERE telegram_id = ?`, telegramID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	return pts, err
}
