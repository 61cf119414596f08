package memstore

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/oksasatya/go-ecommerce-backend/internal/domain/entity"
	"github.com/oksasatya/go-ecommerce-backend/internal/domain/repository"
)

type userRow struct {
	seq  int64
	user entity.User
}

type UserRepository struct{ s *Store }

func NewUserRepository(s *Store) *UserRepository { return &UserRepository{s: s} }

func (r *UserRepository) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.emailTaken(u.Email, "") {
		return repository.ErrConflict
	}
	now := r.s.now()
	u.ID = uuid.NewString()
	u.Version = 1
	u.CreatedAt, u.UpdatedAt = now, now
	r.s.users[u.ID] = &userRow{seq: r.s.nextSeq(), user: *u}
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	row, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	u := row.user
	return &u, nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, row := range r.s.users {
		if strings.EqualFold(row.user.Email, email) {
			u := row.user
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *UserRepository) List(_ context.Context) ([]entity.User, error) {
	r.s.mu.RLock()
	rows := make([]userRow, 0, len(r.s.users))
	for _, row := range r.s.users {
		rows = append(rows, *row)
	}
	r.s.mu.RUnlock()

	sort.Slice(rows, func(i, j int) bool { return rows[i].seq < rows[j].seq })
	out := make([]entity.User, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.user)
	}
	return out, nil
}

func (r *UserRepository) Update(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.users[u.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if row.user.Version != u.Version {
		return repository.ErrStaleVersion
	}
	if r.emailTaken(u.Email, u.ID) {
		return repository.ErrConflict
	}
	u.Version++
	u.CreatedAt = row.user.CreatedAt
	u.UpdatedAt = r.s.now()
	row.user = *u
	return nil
}

func (r *UserRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.users, id)
	return nil
}

// emailTaken must be called with mu held.
func (r *UserRepository) emailTaken(email, exceptID string) bool {
	for id, row := range r.s.users {
		if id != exceptID && strings.EqualFold(row.user.Email, email) {
			return true
		}
	}
	return false
}

var _ repository.UserRepository = (*UserRepository)(nil)
