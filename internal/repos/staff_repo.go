package repos

import (
	"database/sql"
	"errors"

	"okeanmarket/internal/domain"

	"github.com/jmoiron/sqlx"
)

type StaffRepo struct{ db *sqlx.DB }

func NewStaffRepo(db *sqlx.DB) *StaffRepo { return &StaffRepo{db: db} }

func (r *StaffRepo) ByLogin(login string) (*domain.StaffUser, error) {
	var u domain.StaffUser
	err := r.db.Get(&u, `SELECT id, login, name, password_hash, role FROM staff WHERE login = ?`, login)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// BindSession attaches a staff account to the sid cookie's session row.
func (r *StaffRepo) BindSession(sid, staffID string) error {
	_, err := r.db.Exec(`
		INSERT INTO sessions(id, staff_id, last_seen) VALUES(?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET staff_id = excluded.staff_id, last_seen = CURRENT_TIMESTAMP
	`, sid, staffID)
	return err
}

func (r *StaffRepo) UnbindSession(sid string) error {
	_, err := r.db.Exec(`UPDATE sessions SET staff_id = NULL WHERE id = ?`, sid)
	return err
}

// SessionStaff resolves the staff account bound to a session, nil if none.
func (r *StaffRepo) SessionStaff(sid string) (*domain.StaffUser, error) {
	var u domain.StaffUser
	err := r.db.Get(&u, `
		SELECT s.id, s.login, s.name, s.password_hash, s.role
		FROM sessions sess JOIN staff s ON s.id = sess.staff_id
		WHERE sess.id = ?
	`, sid)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	_, _ = r.db.Exec(`UPDATE sessions SET last_seen = CURRENT_TIMESTAMP WHERE id = ?`, sid)
	return &u, nil
}
