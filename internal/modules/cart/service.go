package cart

import (
	"context"
	"hash/fnv"
	"sync"

	"github.com/hanumanlabs/storefront/internal/modules/catalog"
)

// Service defines cart operations scoped to a session.
type Service interface {
	Get(ctx context.Context, sessionID string) (*Cart, error)
	// AddItem prices the plan from the catalog at the moment of adding.
	AddItem(ctx context.Context, sessionID, productID string, plan catalog.Plan, qty int) (*Cart, error)
	SetQty(ctx context.Context, sessionID string, index, qty int) (*Cart, error)
	RemoveItem(ctx context.Context, sessionID string, index int) (*Cart, error)
	Clear(ctx context.Context, sessionID string) error
}

const lockStripes = 64

type service struct {
	store   Store
	catalog catalog.Service
	locks   [lockStripes]sync.Mutex
}

func NewService(store Store, products catalog.Service) Service {
	return &service{store: store, catalog: products}
}

// lock serializes load-modify-save cycles for one session.
func (s *service) lock(sessionID string) func() {
	h := fnv.New32a()
	h.Write([]byte(sessionID))
	mu := &s.locks[h.Sum32()%lockStripes]
	mu.Lock()
	return mu.Unlock
}

func (s *service) Get(ctx context.Context, sessionID string) (*Cart, error) {
	return s.store.Load(ctx, sessionID)
}

func (s *service) AddItem(ctx context.Context, sessionID, productID string, plan catalog.Plan, qty int) (*Cart, error) {
	if qty < 1 {
		return nil, ErrInvalidQuantity
	}
	p, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	price, ok := p.PlanPrice(plan)
	if !ok {
		return nil, ErrPlanNotOffered
	}
	return s.update(ctx, sessionID, func(c *Cart) error {
		return c.Add(Line{ProductID: p.ID, Name: p.Name, Plan: plan, UnitPrice: price, Qty: qty})
	})
}

func (s *service) SetQty(ctx context.Context, sessionID string, index, qty int) (*Cart, error) {
	return s.update(ctx, sessionID, func(c *Cart) error { return c.SetQty(index, qty) })
}

func (s *service) RemoveItem(ctx context.Context, sessionID string, index int) (*Cart, error) {
	return s.update(ctx, sessionID, func(c *Cart) error { return c.Remove(index) })
}

func (s *service) Clear(ctx context.Context, sessionID string) error {
	unlock := s.lock(sessionID)
	defer unlock()
	return s.store.Delete(ctx, sessionID)
}

func (s *service) update(ctx context.Context, sessionID string, fn func(*Cart) error) (*Cart, error) {
	unlock := s.lock(sessionID)
	defer unlock()

	c, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := fn(c); err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, sessionID, c); err != nil {
		return nil, err
	}
	return c, nil
}
