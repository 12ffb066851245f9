package services

import (
	"github.com/0VAN/lms/internal/store"
)

// Registry bundles the store and the services built on it. One registry is
// constructed per process (or per test) and passed to the HTTP layer; there
// is no package-level shared state.
type Registry struct {
	Store      *store.Store
	Auth       AuthService
	Books      BookService
	Borrowings BorrowingService
	Dashboards DashboardService
}

// New wires up all services over a fresh store.
func New() *Registry {
	return NewWithStore(store.New())
}

// NewWithStore wires up all services over the given store.
func NewWithStore(st *store.Store) *Registry {
	return &Registry{
		Store:      st,
		Auth:       NewAuthService(st),
		Books:      NewBookService(st),
		Borrowings: NewBorrowingService(st),
		Dashboards: NewDashboardService(st),
	}
}

// Reset wipes the underlying store. Test harnesses call this between cases;
// the service values stay valid.
func (r *Registry) Reset() {
	r.Store.Reset()
}
