package memstore

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/oksasatya/go-ecommerce-backend/internal/domain/entity"
	"github.com/oksasatya/go-ecommerce-backend/internal/domain/repository"
)

type productRow struct {
	seq     int64
	product entity.Product
}

type ProductRepository struct{ s *Store }

func NewProductRepository(s *Store) *ProductRepository { return &ProductRepository{s: s} }

func (r *ProductRepository) Create(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.nameTaken(p.Name, "") {
		return repository.ErrConflict
	}
	now := r.s.now()
	p.ID = uuid.NewString()
	p.Version = 1
	p.CreatedAt, p.UpdatedAt = now, now
	r.s.products[p.ID] = &productRow{seq: r.s.nextSeq(), product: *p}
	return nil
}

func (r *ProductRepository) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	row, ok := r.s.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	p := row.product
	return &p, nil
}

func (r *ProductRepository) Find(_ context.Context, f repository.ProductFilter) ([]entity.Product, error) {
	rows := r.matching(f)
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		switch f.Sort {
		case repository.SortLowest:
			if a.product.Price != b.product.Price {
				return a.product.Price < b.product.Price
			}
		case repository.SortHighest:
			if a.product.Price != b.product.Price {
				return a.product.Price > b.product.Price
			}
		}
		return a.seq > b.seq
	})

	if f.Skip > 0 {
		if f.Skip >= len(rows) {
			rows = nil
		} else {
			rows = rows[f.Skip:]
		}
	}
	if f.Limit > 0 && len(rows) > f.Limit {
		rows = rows[:f.Limit]
	}

	out := make([]entity.Product, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.product)
	}
	return out, nil
}

func (r *ProductRepository) Count(_ context.Context, f repository.ProductFilter) (int64, error) {
	return int64(len(r.matching(f))), nil
}

func (r *ProductRepository) Update(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.products[p.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if row.product.Version != p.Version {
		return repository.ErrStaleVersion
	}
	if r.nameTaken(p.Name, p.ID) {
		return repository.ErrConflict
	}
	p.Version++
	p.CreatedAt = row.product.CreatedAt
	p.UpdatedAt = r.s.now()
	row.product = *p
	return nil
}

func (r *ProductRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.products, id)
	return nil
}

func (r *ProductRepository) DistinctCategories(_ context.Context) ([]string, error) {
	r.s.mu.RLock()
	seen := make(map[string]struct{})
	for _, row := range r.s.products {
		seen[row.product.Category] = struct{}{}
	}
	r.s.mu.RUnlock()

	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out, nil
}

func (r *ProductRepository) DecrementStock(_ context.Context, id string, qty int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.products[id]
	if !ok {
		return repository.ErrNotFound
	}
	if row.product.CountInStock < qty {
		return repository.ErrInsufficientStock
	}
	row.product.CountInStock -= qty
	row.product.Version++
	row.product.UpdatedAt = r.s.now()
	return nil
}

func (r *ProductRepository) matching(f repository.ProductFilter) []*productRow {
	name := strings.ToLower(f.Name)
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*productRow, 0, len(r.s.products))
	for _, row := range r.s.products {
		p := row.product
		if name != "" && !strings.Contains(strings.ToLower(p.Name), name) {
			continue
		}
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		if f.Seller != "" && p.Seller != f.Seller {
			continue
		}
		cp := *row
		out = append(out, &cp)
	}
	return out
}

// nameTaken must be called with mu held.
func (r *ProductRepository) nameTaken(name, exceptID string) bool {
	for id, row := range r.s.products {
		if id != exceptID && row.product.Name == name {
			return true
		}
	}
	return false
}

var _ repository.ProductRepository = (*ProductRepository)(nil)
