package cart

import (
	"context"
	"sync"
	"time"
)

type memoryCart struct {
	lines     map[uint]int
	expiresAt time.Time
}

// MemoryStore keeps carts in process memory. Carts idle for longer than the
// TTL are dropped on the next access.
type MemoryStore struct {
	mu    sync.Mutex
	ttl   time.Duration
	carts map[string]*memoryCart
	now   func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{ttl: ttl, carts: make(map[string]*memoryCart), now: time.Now}
}

// cart returns the live cart for id, creating it when create is set. Callers hold mu.
func (s *MemoryStore) cart(id string, create bool) *memoryCart {
	now := s.now()
	c, ok := s.carts[id]
	if ok && s.ttl > 0 && now.After(c.expiresAt) {
		delete(s.carts, id)
		ok = false
	}
	if !ok {
		if !create {
			return nil
		}
		c = &memoryCart{lines: make(map[uint]int)}
		s.carts[id] = c
	}
	c.expiresAt = now.Add(s.ttl)
	return c
}

func copyLines(c *memoryCart) map[uint]int {
	out := make(map[uint]int)
	if c == nil {
		return out
	}
	for k, v := range c.lines {
		out[k] = v
	}
	return out
}

func (s *MemoryStore) Get(ctx context.Context, cartID string) (map[uint]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyLines(s.cart(cartID, false)), nil
}

func (s *MemoryStore) Add(ctx context.Context, cartID string, productID uint) (map[uint]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.cart(cartID, true)
	c.lines[productID]++
	return copyLines(c), nil
}

func (s *MemoryStore) Remove(ctx context.Context, cartID string, productID uint) (map[uint]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.cart(cartID, false)
	if c != nil {
		delete(c.lines, productID)
	}
	return copyLines(c), nil
}

func (s *MemoryStore) Clear(ctx context.Context, cartID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, cartID)
	return nil
}
