package services

import (
	"database/sql"
	"errors"

	"okeanmarket/internal/domain"
	"okeanmarket/internal/repos"

	"github.com/shopspring/decimal"
)

type CartService struct {
	Carts  *repos.CartRepo
	Prods  *repos.ProductRepo
	Policy FeePolicy
}

func NewCartService(carts *repos.CartRepo, prods *repos.ProductRepo, policy FeePolicy) *CartService {
	return &CartService{Carts: carts, Prods: prods, Policy: policy}
}

// Add puts one step of the product into the cart, or bumps an existing line
// by a step. Unavailable products are rejected.
func (s *CartService) Add(sessionID, productID string) error {
	cartID, err := s.Carts.EnsureCart(sessionID)
	if err != nil {
		return err
	}
	p, err := s.Prods.Get(productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		return err
	}
	if !p.IsAvailable {
		return domain.ErrUnavailable
	}
	return s.Carts.AddStep(cartID, productID, p.Step)
}

func (s *CartService) Increase(sessionID, productID string) error {
	cartID, err := s.Carts.EnsureCart(sessionID)
	if err != nil {
		return err
	}
	p, err := s.Prods.Get(productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		return err
	}
	if _, err := s.Carts.Qty(cartID, productID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		return err
	}
	return s.Carts.AddStep(cartID, productID, p.Step)
}

// Decrease steps the line down, clamped at one step; it never drops the line.
func (s *CartService) Decrease(sessionID, productID string) error {
	cartID, err := s.Carts.EnsureCart(sessionID)
	if err != nil {
		return err
	}
	p, err := s.Prods.Get(productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		return err
	}
	qty, err := s.Carts.Qty(cartID, productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		return err
	}
	return s.Carts.SetQty(cartID, productID, StepDown(qty, p.Step))
}

// SetQuantity writes an exact quantity, as the cart sheet's numeric input
// does. The value is clamped to at least one step of the product.
func (s *CartService) SetQuantity(sessionID, productID string, qty decimal.Decimal) error {
	cartID, err := s.Carts.EnsureCart(sessionID)
	if err != nil {
		return err
	}
	p, err := s.Prods.Get(productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		return err
	}
	if !p.IsAvailable {
		return domain.ErrUnavailable
	}
	if qty.LessThan(p.Step) {
		qty = p.Step
	}
	if _, err := s.Carts.Qty(cartID, productID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return s.Carts.AddStep(cartID, productID, qty)
		}
		return err
	}
	return s.Carts.SetQty(cartID, productID, qty)
}

func (s *CartService) Remove(sessionID, productID string) error {
	cartID, err := s.Carts.EnsureCart(sessionID)
	if err != nil {
		return err
	}
	return s.Carts.Remove(cartID, productID)
}

type CartView struct {
	Items  []repos.CartLine `json:"items"`
	Totals Totals           `json:"totals"`
}

func (s *CartService) View(sessionID string) (CartView, error) {
	cartID, err := s.Carts.EnsureCart(sessionID)
	if err != nil {
		return CartView{}, err
	}
	lines, err := s.Carts.Lines(cartID)
	if err != nil {
		return CartView{}, err
	}
	return CartView{Items: lines, Totals: ComputeCartTotals(lines, s.Policy)}, nil
}

func (s *CartService) Totals(sessionID string) (Totals, error) {
	cv, err := s.View(sessionID)
	if err != nil {
		return Totals{}, err
	}
	return cv.Totals, nil
}

func (s *CartService) Clear(sessionID string) error {
	cartID, err := s.Carts.EnsureCart(sessionID)
	if err != nil {
		return err
	}
	return s.Carts.Clear(cartID)
}
