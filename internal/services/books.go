package services

import (
	"fmt"
	"strings"

	"github.com/0VAN/lms/internal/models"
	"github.com/0VAN/lms/internal/store"
)

// ─── Service Interface ────────────────────────────────────────────────────────

// BookService manages the catalog. Create, update, and delete are gated to
// librarians; search is open to anyone.
type BookService interface {
	AddBook(actor *models.User, input BookInput) (models.Book, error)
	UpdateBook(actor *models.User, id int, patch models.BookPatch) (models.Book, error)
	DeleteBook(actor *models.User, id int) (models.Book, error)
	Search(filter models.BookFilter) []models.Book
}

// BookInput carries the fields of a new book. All string fields are required
// non-blank; TotalCopies is required and non-negative (nil means the field
// was absent from the request).
type BookInput struct {
	Title       string
	Author      string
	Genre       string
	ISBN        string
	TotalCopies *int
}

// ─── Implementation ───────────────────────────────────────────────────────────

type bookService struct {
	store *store.Store
}

func NewBookService(st *store.Store) BookService {
	return &bookService{store: st}
}

func (s *bookService) AddBook(actor *models.User, input BookInput) (models.Book, error) {
	if err := ensureLibrarian(actor); err != nil {
		return models.Book{}, err
	}
	if err := validateBookInput(input); err != nil {
		return models.Book{}, err
	}
	return s.store.CreateBook(models.Book{
		Title:       input.Title,
		Author:      input.Author,
		Genre:       input.Genre,
		ISBN:        input.ISBN,
		TotalCopies: *input.TotalCopies,
	}), nil
}

// UpdateBook applies a partial patch; absent and blank fields leave the
// current values untouched.
func (s *bookService) UpdateBook(actor *models.User, id int, patch models.BookPatch) (models.Book, error) {
	if err := ensureLibrarian(actor); err != nil {
		return models.Book{}, err
	}
	book, ok := s.store.UpdateBook(id, patch)
	if !ok {
		return models.Book{}, ErrBookNotFound
	}
	return book, nil
}

// DeleteBook removes the book and, via the store cascade, every borrowing
// that references it.
func (s *bookService) DeleteBook(actor *models.User, id int) (models.Book, error) {
	if err := ensureLibrarian(actor); err != nil {
		return models.Book{}, err
	}
	book, ok := s.store.DeleteBook(id)
	if !ok {
		return models.Book{}, ErrBookNotFound
	}
	return book, nil
}

// Search filters the catalog by case-insensitive substring match per field.
// Blank filter fields are ignored; the non-blank ones combine with AND, so
// the order they are applied in never changes the result set. An empty
// filter returns the whole catalog.
func (s *bookService) Search(filter models.BookFilter) []models.Book {
	books := s.store.AllBooks()
	out := make([]models.Book, 0, len(books))
	for _, b := range books {
		if matchesFilter(b, filter) {
			out = append(out, b)
		}
	}
	return out
}

func matchesFilter(book models.Book, filter models.BookFilter) bool {
	return fieldMatches(book.Title, filter.Title) &&
		fieldMatches(book.Author, filter.Author) &&
		fieldMatches(book.Genre, filter.Genre) &&
		fieldMatches(book.ISBN, filter.ISBN)
}

func fieldMatches(value, query string) bool {
	if strings.TrimSpace(query) == "" {
		return true
	}
	return strings.Contains(strings.ToLower(value), strings.ToLower(query))
}

func validateBookInput(input BookInput) error {
	var missing []string
	for _, f := range []struct {
		name  string
		value string
	}{
		{"title", input.Title},
		{"author", input.Author},
		{"genre", input.Genre},
		{"isbn", input.ISBN},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if input.TotalCopies == nil {
		missing = append(missing, "total_copies")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing fields: %s", ErrValidation, strings.Join(missing, ", "))
	}
	if *input.TotalCopies < 0 {
		return fmt.Errorf("%w: total_copies must be non-negative", ErrValidation)
	}
	return nil
}

// ensureLibrarian gates librarian-only operations. The role switch is
// exhaustive over the closed Role enum.
func ensureLibrarian(actor *models.User) error {
	if actor == nil {
		return ErrForbidden
	}
	switch actor.Role {
	case models.RoleLibrarian:
		return nil
	case models.RoleMember:
		return ErrForbidden
	default:
		return ErrForbidden
	}
}

// ensureMember gates member-only operations.
func ensureMember(actor *models.User) error {
	if actor == nil {
		return ErrForbidden
	}
	switch actor.Role {
	case models.RoleMember:
		return nil
	case models.RoleLibrarian:
		return ErrForbidden
	default:
		return ErrForbidden
	}
}
