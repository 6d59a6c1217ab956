package repos

import (
	"okeanmarket/internal/domain"

	"github.com/jmoiron/sqlx"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

const productCols = `id, category_id, name, description, image_url, price, discount_price,
	unit, step, stock, is_available, is_popular, created_at, updated_at`

func (r *ProductRepo) Get(id string) (domain.Product, error) {
	var p domain.Product
	err := r.db.Get(&p, `SELECT `+productCols+` FROM products WHERE id = ?`, id)
	return p, err
}

// List filters by optional category and case-insensitive name query.
func (r *ProductRepo) List(categoryID, q string) ([]domain.Product, error) {
	query := `SELECT ` + productCols + ` FROM products WHERE is_available = 1`
	args := []any{}
	if categoryID != "" {
		query += ` AND category_id = ?`
		args = append(args, categoryID)
	}
	if q != "" {
		query += ` AND LOWER(name) LIKE ?`
		args = append(args, "%"+q+"%")
	}
	query += ` ORDER BY is_popular DESC, name`

	out := []domain.Product{}
	err := r.db.Select(&out, query, args...)
	return out, err
}

func (r *ProductRepo) Popular(limit int) ([]domain.Product, error) {
	if limit <= 0 {
		limit = 10
	}
	out := []domain.Product{}
	err := r.db.Select(&out, `
		SELECT `+productCols+` FROM products
		WHERE is_available = 1 AND is_popular = 1
		ORDER BY name LIMIT ?`, limit)
	return out, err
}
