// Package memstore keeps users, products and orders in process memory.
// It backs STORE_DRIVER=memory and the HTTP tests.
package memstore

import (
	"sync"
	"time"
)

// Store is safe for concurrent use.
type Store struct {
	mu sync.RWMutex

	users    map[string]*userRow
	products map[string]*productRow
	orders   map[string]*orderRow

	seq int64
	now func() time.Time
}

func New() *Store {
	return &Store{
		users:    make(map[string]*userRow),
		products: make(map[string]*productRow),
		orders:   make(map[string]*orderRow),
		now:      time.Now,
	}
}

// nextSeq must be called with mu held for writing.
func (s *Store) nextSeq() int64 {
	s.seq++
	return s.seq
}
