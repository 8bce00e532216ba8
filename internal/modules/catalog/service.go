package catalog

import (
	"context"
	"sort"
)

// Service defines catalog business logic.
type Service interface {
	// Search applies the filter/sort engine to the full catalog.
	Search(ctx context.Context, q Query) ([]*Product, error)
	GetProduct(ctx context.Context, id string) (*Product, error)
	// Categories returns the sorted set of tags used across the catalog.
	Categories(ctx context.Context) ([]string, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service { return &service{repo: repo} }

func (s *service) Search(ctx context.Context, q Query) ([]*Product, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return Filter(products, q), nil
}

func (s *service) GetProduct(ctx context.Context, id string) (*Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) Categories(ctx context.Context) ([]string, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return Categories(products), nil
}

// Categories derives the sorted, de-duplicated category set.
func Categories(products []*Product) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, p := range products {
		for _, c := range p.Categories {
			if _, ok := seen[c]; ok {
				continue
			}
			seen[c] = struct{}{}
			out = append(out, c)
		}
	}
	sort.Strings(out)
	return out
}
