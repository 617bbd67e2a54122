package repos

import (
	"cryptobazaar/internal/domain"

	"github.com/jmoiron/sqlx"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

const productCols = `
  id, name, COALESCE(description,'') AS description, price,
  COALESCE(images_json,'[]') AS images_json, category, featured, stock,
  created_at, COALESCE(updated_at,'') AS updated_at`

func (r *ProductRepo) All(limit, offset int) ([]domain.Product, error) {
	var out []domain.Product
	err := r.db.Select(&out, `
	  SELECT `+productCols+`
	  FROM products
	  ORDER BY created_at DESC
	  LIMIT ? OFFSET ?
	`, limit, offset)
	return out, err
}

func (r *ProductRepo) ByCategory(category string, limit, offset int) ([]domain.Product, error) {
	var out []domain.Product
	err := r.db.Select(&out, `
	  SELECT `+productCols+`
	  FROM products
	  WHERE category = ?
	  ORDER BY created_at DESC
	  LIMIT ? OFFSET ?
	`, category, limit, offset)
	return out, err
}

func (r *ProductRepo) Featured() ([]domain.Product, error) {
	var out []domain.Product
	err := r.db.Select(&out, `
	  SELECT `+productCols+`
	  FROM products
	  WHERE featured = 1
	  ORDER BY created_at DESC
	`)
	return out, err
}

func (r *ProductRepo) Get(id string) (domain.Product, error) {
	var p domain.Product
	err := r.db.Get(&p, `
	  SELECT `+productCols+`
	  FROM products
	  WHERE id = ?
	`, id)
	return p, err
}

func (r *ProductRepo) Search(q string, limit, offset int) ([]domain.Product, error) {
	like := "%" + q + "%"
	var out []domain.Product
	err := r.db.Select(&out, `
	  SELECT `+productCols+`
	  FROM products
	  WHERE LOWER(name) LIKE ? OR LOWER(description) LIKE ?
	  ORDER BY created_at DESC
	  LIMIT ? OFFSET ?
	`, like, like, limit, offset)
	return out, err
}

// Stock returns the current stock figure for a product.
func (r *ProductRepo) Stock(id string) (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT stock FROM products WHERE id = ?`, id)
	return n, err
}
