package services

import (
	"github.com/shopspring/decimal"

	"cryptobazaar/internal/domain"
	"cryptobazaar/internal/repos"
)

// CartService hydrates a CartStore from the persisted mirror, applies one
// mutation, and syncs back when the store reports itself dirty. Each request
// works on its own store; no cart state is shared across requests.
type CartService struct {
	Carts *repos.CartRepo
	Prods *repos.ProductRepo
}

func NewCartService(carts *repos.CartRepo, prods *repos.ProductRepo) *CartService {
	return &CartService{Carts: carts, Prods: prods}
}

type CartView struct {
	Items      []domain.CartItem
	TotalItems int
	Total      decimal.Decimal
}

func (s *CartService) load(userID string) (*CartStore, error) {
	rows, err := s.Carts.ItemsByUser(userID)
	if err != nil {
		return nil, err
	}
	items := make([]domain.CartItem, 0, len(rows))
	for _, r := range rows {
		if r.Valid() {
			items = append(items, r.Item())
		}
	}
	store := NewCartStore()
	store.Initialize(items)
	return store, nil
}

func (s *CartService) mutate(userID string, fn func(*CartStore) CartChange) error {
	if userID == "" {
		return ErrUnauthenticated
	}
	store, err := s.load(userID)
	if err != nil {
		return err
	}
	change := fn(store)
	if !change.Dirty {
		return nil
	}
	return s.Carts.Replace(userID, store.Items())
}

func (s *CartService) Add(userID, productID string) error {
	if userID == "" {
		return ErrUnauthenticated
	}
	p, err := s.Prods.Get(productID)
	if err != nil {
		return err
	}
	return s.mutate(userID, func(store *CartStore) CartChange {
		return store.Add(p)
	})
}

func (s *CartService) Remove(userID, productID string) error {
	return s.mutate(userID, func(store *CartStore) CartChange {
		return store.Remove(productID)
	})
}

func (s *CartService) SetQuantity(userID, productID string, quantity int) error {
	return s.mutate(userID, func(store *CartStore) CartChange {
		return store.SetQuantity(productID, quantity)
	})
}

func (s *CartService) View(userID string) (CartView, error) {
	if userID == "" {
		return CartView{}, ErrUnauthenticated
	}
	store, err := s.load(userID)
	if err != nil {
		return CartView{}, err
	}
	return CartView{
		Items:      store.Items(),
		TotalItems: store.TotalItems(),
		Total:      store.TotalPrice(),
	}, nil
}
