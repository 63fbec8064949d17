package review

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepository keeps reviews for the process lifetime. It backs the
// demo data source.
type MemoryRepository struct {
	mu      sync.RWMutex
	reviews []Review
	now     func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{now: time.Now}
}

func (m *MemoryRepository) ListByStore(_ context.Context, storeID string) ([]Review, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	res := []Review{}
	for _, rv := range m.reviews {
		if rv.StoreID == storeID {
			res = append(res, rv)
		}
	}
	sort.SliceStable(res, func(i, j int) bool {
		if !res[i].CreatedAt.Equal(res[j].CreatedAt) {
			return res[i].CreatedAt.After(res[j].CreatedAt)
		}
		return res[i].ID < res[j].ID
	})
	return res, nil
}

func (m *MemoryRepository) Create(_ context.Context, rv *Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rv.CreatedAt = m.now().UTC()
	m.reviews = append(m.reviews, *rv)
	return nil
}
