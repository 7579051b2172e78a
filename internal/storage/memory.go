package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/polestar/storefront/internal/domain"
)

// MemoryStore keeps every record in maps keyed by id. Ids are assigned from
// per-entity counters, so id order is creation order.
type MemoryStore struct {
	mu sync.RWMutex

	categories map[int64]domain.Category
	products   map[int64]domain.Product
	inquiries  map[int64]domain.Inquiry
	users      map[int64]domain.User

	categoryID int64
	productID  int64
	inquiryID  int64
	userID     int64

	now func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		categories: make(map[int64]domain.Category),
		products:   make(map[int64]domain.Product),
		inquiries:  make(map[int64]domain.Inquiry),
		users:      make(map[int64]domain.User),
		now:        time.Now,
	}
}

func (s *MemoryStore) ListCategories(_ context.Context) ([]domain.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Category, 0, len(s.categories))
	for _, c := range s.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) GetCategory(_ context.Context, id int64) (*domain.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.categories[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &c, nil
}

func (s *MemoryStore) GetCategoryBySlug(_ context.Context, slug string) (*domain.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.categories {
		if c.Slug == slug {
			c := c
			return &c, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *MemoryStore) CreateCategory(_ context.Context, in domain.CategoryInput) (*domain.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.categories {
		if c.Slug == in.Slug {
			return nil, domain.ErrConflict
		}
	}
	s.categoryID++
	c := in.Category()
	c.ID = s.categoryID
	s.categories[c.ID] = c
	return &c, nil
}

// sortedProducts must be called with the lock held.
func (s *MemoryStore) sortedProducts() []domain.Product {
	out := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *MemoryStore) ListProducts(_ context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	page := filter.Apply(s.sortedProducts())
	out := make([]domain.Product, len(page))
	for i, p := range page {
		out[i] = p.Clone()
	}
	return out, nil
}

func (s *MemoryStore) CountProducts(_ context.Context, filter domain.ProductFilter) (int64, error) {
	if err := filter.Validate(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(filter.Unpaged().Apply(s.sortedProducts()))), nil
}

func (s *MemoryStore) GetProduct(_ context.Context, id int64) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	p = p.Clone()
	return &p, nil
}

func (s *MemoryStore) GetProductBySlug(_ context.Context, slug string) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.products {
		if p.Slug == slug {
			p = p.Clone()
			return &p, nil
		}
	}
	return nil, domain.ErrNotFound
}

// checkProduct must be called with the lock held.
func (s *MemoryStore) checkProduct(p domain.Product) error {
	if _, ok := s.categories[p.CategoryID]; !ok {
		return domain.ErrInvalidReference
	}
	for _, other := range s.products {
		if other.ID != p.ID && other.Slug == p.Slug {
			return domain.ErrConflict
		}
	}
	return nil
}

func (s *MemoryStore) CreateProduct(_ context.Context, in domain.ProductInput) (*domain.Product, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p := in.Product()
	if err := s.checkProduct(p); err != nil {
		return nil, err
	}
	s.productID++
	p.ID = s.productID
	p.CreatedAt = s.now()
	p.UpdatedAt = p.CreatedAt
	s.products[p.ID] = p
	p = p.Clone()
	return &p, nil
}

func (s *MemoryStore) UpdateProduct(_ context.Context, id int64, patch domain.ProductPatch) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	p, err := patch.Apply(existing)
	if err != nil {
		return nil, err
	}
	if err := s.checkProduct(p); err != nil {
		return nil, err
	}
	p.UpdatedAt = s.now()
	s.products[id] = p
	p = p.Clone()
	return &p, nil
}

func (s *MemoryStore) DeleteProduct(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[id]; !ok {
		return false, nil
	}
	delete(s.products, id)
	return true, nil
}

func (s *MemoryStore) CreateInquiry(_ context.Context, in domain.InquiryInput) (*domain.Inquiry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inquiryID++
	inq := in.Inquiry(s.now())
	inq.ID = s.inquiryID
	s.inquiries[inq.ID] = inq
	return &inq, nil
}

func (s *MemoryStore) ListInquiries(_ context.Context) ([]domain.Inquiry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Inquiry, 0, len(s.inquiries))
	for _, inq := range s.inquiries {
		out = append(out, inq)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *MemoryStore) GetUserByUsername(_ context.Context, username string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Username == username {
			u := u
			return &u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *MemoryStore) CreateUser(_ context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == user.Username {
			return domain.ErrConflict
		}
	}
	s.userID++
	user.ID = s.userID
	if user.CreatedAt.IsZero() {
		user.CreatedAt = s.now()
	}
	s.users[user.ID] = *user
	return nil
}
