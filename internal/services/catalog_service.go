package services

import (
	"database/sql"
	"errors"

	"okeanmarket/internal/domain"
	"okeanmarket/internal/repos"
)

type CatalogService struct {
	Cats  *repos.CategoryRepo
	Prods *repos.ProductRepo
}

func NewCatalogService(cats *repos.CategoryRepo, prods *repos.ProductRepo) *CatalogService {
	return &CatalogService{Cats: cats, Prods: prods}
}

func (s *CatalogService) Categories() ([]domain.Category, error) {
	return s.Cats.List()
}

func (s *CatalogService) Products(categoryID, q string) ([]domain.Product, error) {
	return s.Prods.List(categoryID, q)
}

// Popular backs the storefront's "popular now" shelf.
func (s *CatalogService) Popular(limit int) ([]domain.Product, error) {
	return s.Prods.Popular(limit)
}

func (s *CatalogService) Product(id string) (domain.Product, error) {
	p, err := s.Prods.Get(id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, domain.ErrNotFound
	}
	return p, err
}

// Availability folds stock into the coarse badge the product card shows.
func (s *CatalogService) Availability(id string) (domain.Availability, error) {
	p, err := s.Product(id)
	if err != nil {
		return domain.Availability{}, err
	}
	status := "OUT_OF_STOCK"
	switch {
	case !p.IsAvailable || p.Stock == 0:
	case p.Stock >= 5:
		status = "IN_STOCK"
	default:
		status = "LOW_STOCK"
	}
	return domain.Availability{Status: status, Stock: p.Stock}, nil
}
