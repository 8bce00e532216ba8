package catalog

import (
	"context"
	"errors"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrUnknownPlan      = errors.New("unknown plan")
	ErrUnknownSortKey   = errors.New("unknown sort key")
	ErrUnknownMatchMode = errors.New("unknown category match mode")
)

// Repository defines read access to the product catalog.
type Repository interface {
	// List returns every product in catalog order.
	List(ctx context.Context) ([]*Product, error)
	GetByID(ctx context.Context, id string) (*Product, error)
}

type staticRepo struct {
	products []*Product
	byID     map[string]*Product
}

// NewStaticRepository serves a fixed product list, typically StaticProducts().
func NewStaticRepository(products []*Product) Repository {
	byID := make(map[string]*Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return &staticRepo{products: products, byID: byID}
}

func (r *staticRepo) List(ctx context.Context) ([]*Product, error) {
	out := make([]*Product, len(r.products))
	copy(out, r.products)
	return out, nil
}

func (r *staticRepo) GetByID(ctx context.Context, id string) (*Product, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	return p, nil
}
