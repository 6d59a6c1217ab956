package repos

import (
	"okeanmarket/internal/domain"

	"github.com/jmoiron/sqlx"
)

type CategoryRepo struct{ db *sqlx.DB }

func NewCategoryRepo(db *sqlx.DB) *CategoryRepo { return &CategoryRepo{db: db} }

func (r *CategoryRepo) List() ([]domain.Category, error) {
	out := []domain.Category{}
	err := r.db.Select(&out, `SELECT id, name, image_url, created_at FROM categories ORDER BY name`)
	return out, err
}

func (r *CategoryRepo) Get(id string) (domain.Category, error) {
	var c domain.Category
	err := r.db.Get(&c, `SELECT id, name, image_url, created_at FROM categories WHERE id = ?`, id)
	return c, err
}
