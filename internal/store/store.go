package store

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/0VAN/lms/internal/models"
)

// Store is the sole mutable state container: users, books, borrowings, and
// session tokens all live here. A single mutex guards every mutation so the
// read-then-write sequences in the services (availability check + borrowing
// creation, return lookup + patch) stay atomic under a concurrent HTTP host.
//
// Single-step operations use the accessors on Store directly. Multi-step
// sequences go through Transact, which holds the lock for the whole closure
// and hands out a *Tx exposing the same accessors unlocked.
type Store struct {
	mu sync.Mutex
	tx Tx
}

// Tx is the unlocked view of the store state, valid only inside a Transact
// closure (or behind the Store's own lock).
type Tx struct {
	users      []models.User
	books      []models.Book
	borrowings []models.Borrowing
	tokens     map[string]int

	userSeq   int
	bookSeq   int
	borrowSeq int
	seeded    bool
}

func New() *Store {
	s := &Store{}
	s.tx.reset()
	return s
}

// Reset wipes all state and sequences. Test harnesses use it between cases;
// IDs restart from 1 afterwards.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tx.reset()
}

func (t *Tx) reset() {
	t.users = nil
	t.books = nil
	t.borrowings = nil
	t.tokens = make(map[string]int)
	t.userSeq = 0
	t.bookSeq = 0
	t.borrowSeq = 0
	t.seeded = false
}

// Transact runs fn with the store lock held. Any error aborts nothing by
// itself — callers must perform all validation before their first write.
func (s *Store) Transact(fn func(tx *Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&s.tx)
}

// ─── Users ────────────────────────────────────────────────────────────────────

func (s *Store) CreateUser(email, password string, role models.Role) models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tx.CreateUser(email, password, role)
}

func (t *Tx) CreateUser(email, password string, role models.Role) models.User {
	t.userSeq++
	user := models.User{
		ID:       t.userSeq,
		Email:    email,
		Password: password,
		Role:     role,
	}
	t.users = append(t.users, user)
	return user
}

func (s *Store) FindUser(id int) (models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tx.FindUser(id)
}

func (t *Tx) FindUser(id int) (models.User, bool) {
	for _, u := range t.users {
		if u.ID == id {
			return u, true
		}
	}
	return models.User{}, false
}

func (s *Store) FindUserByEmail(email string) (models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tx.FindUserByEmail(email)
}

func (t *Tx) FindUserByEmail(email string) (models.User, bool) {
	for _, u := range t.users {
		if u.Email == email {
			return u, true
		}
	}
	return models.User{}, false
}

// ─── Tokens ───────────────────────────────────────────────────────────────────

// IssueToken mints an opaque bearer token for the user. A user may hold any
// number of live tokens at once.
func (s *Store) IssueToken(userID int) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tx.IssueToken(userID)
}

func (t *Tx) IssueToken(userID int) string {
	token := uuid.NewString()
	t.tokens[token] = userID
	return token
}

func (s *Store) TokenOwner(token string) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tx.TokenOwner(token)
}

func (t *Tx) TokenOwner(token string) (int, bool) {
	id, ok := t.tokens[token]
	return id, ok
}

// RevokeToken deletes the token; revoking an unknown token is a no-op.
func (s *Store) RevokeToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tx.RevokeToken(token)
}

func (t *Tx) RevokeToken(token string) {
	delete(t.tokens, token)
}

// ─── Books ────────────────────────────────────────────────────────────────────

func (s *Store) CreateBook(book models.Book) models.Book {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tx.CreateBook(book)
}

// CreateBook assigns the next book ID; any ID on the argument is ignored.
func (t *Tx) CreateBook(book models.Book) models.Book {
	t.bookSeq++
	book.ID = t.bookSeq
	t.books = append(t.books, book)
	return book
}

func (s *Store) FindBook(id int) (models.Book, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tx.FindBook(id)
}

func (t *Tx) FindBook(id int) (models.Book, bool) {
	for _, b := range t.books {
		if b.ID == id {
			return b, true
		}
	}
	return models.Book{}, false
}

func (s *Store) UpdateBook(id int, patch models.BookPatch) (models.Book, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tx.UpdateBook(id, patch)
}

// UpdateBook applies a partial patch. Absent fields and blank string values
// are ignored, so a patch can never clear a field.
func (t *Tx) UpdateBook(id int, patch models.BookPatch) (models.Book, bool) {
	for i := range t.books {
		if t.books[i].ID != id {
			continue
		}
		applyBookPatch(&t.books[i], patch)
		return t.books[i], true
	}
	return models.Book{}, false
}

func applyBookPatch(book *models.Book, patch models.BookPatch) {
	if v := patch.Title; v != nil && strings.TrimSpace(*v) != "" {
		book.Title = *v
	}
	if v := patch.Author; v != nil && strings.TrimSpace(*v) != "" {
		book.Author = *v
	}
	if v := patch.Genre; v != nil && strings.TrimSpace(*v) != "" {
		book.Genre = *v
	}
	if v := patch.ISBN; v != nil && strings.TrimSpace(*v) != "" {
		book.ISBN = *v
	}
	if v := patch.TotalCopies; v != nil && *v >= 0 {
		book.TotalCopies = *v
	}
}

// DeleteBook removes the book and cascades: every borrowing referencing it,
// active or returned, is removed as well.
func (s *Store) DeleteBook(id int) (models.Book, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tx.DeleteBook(id)
}

func (t *Tx) DeleteBook(id int) (models.Book, bool) {
	for i, b := range t.books {
		if b.ID != id {
			continue
		}
		t.books = append(t.books[:i], t.books[i+1:]...)
		kept := t.borrowings[:0]
		for _, br := range t.borrowings {
			if br.BookID != id {
				kept = append(kept, br)
			}
		}
		t.borrowings = kept
		return b, true
	}
	return models.Book{}, false
}

func (s *Store) AllBooks() []models.Book {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tx.AllBooks()
}

func (t *Tx) AllBooks() []models.Book {
	out := make([]models.Book, len(t.books))
	copy(out, t.books)
	return out
}

// ─── Borrowings ───────────────────────────────────────────────────────────────

func (s *Store) CreateBorrowing(userID, bookID int, borrowedAt, dueDate time.Time) models.Borrowing {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tx.CreateBorrowing(userID, bookID, borrowedAt, dueDate)
}

func (t *Tx) CreateBorrowing(userID, bookID int, borrowedAt, dueDate time.Time) models.Borrowing {
	t.borrowSeq++
	borrowing := models.Borrowing{
		ID:         t.borrowSeq,
		UserID:     userID,
		BookID:     bookID,
		BorrowedAt: models.DateOnly(borrowedAt),
		DueDate:    models.DateOnly(dueDate),
		ReturnedAt: nil,
	}
	t.borrowings = append(t.borrowings, borrowing)
	return borrowing
}

func (s *Store) FindBorrowing(id int) (models.Borrowing, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tx.FindBorrowing(id)
}

func (t *Tx) FindBorrowing(id int) (models.Borrowing, bool) {
	for _, b := range t.borrowings {
		if b.ID == id {
			return cloneBorrowing(b), true
		}
	}
	return models.Borrowing{}, false
}

// UpdateBorrowing applies a partial patch and returns the updated copy. This
// is the only mutation path for borrowings; callers never hold a reference
// into store state.
func (s *Store) UpdateBorrowing(id int, patch models.BorrowingPatch) (models.Borrowing, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tx.UpdateBorrowing(id, patch)
}

func (t *Tx) UpdateBorrowing(id int, patch models.BorrowingPatch) (models.Borrowing, bool) {
	for i := range t.borrowings {
		if t.borrowings[i].ID != id {
			continue
		}
		if patch.DueDate != nil {
			t.borrowings[i].DueDate = models.DateOnly(*patch.DueDate)
		}
		if patch.ReturnedAt != nil {
			at := models.DateOnly(*patch.ReturnedAt)
			t.borrowings[i].ReturnedAt = &at
		}
		return cloneBorrowing(t.borrowings[i]), true
	}
	return models.Borrowing{}, false
}

func (s *Store) BorrowingsForUser(userID int) []models.Borrowing {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tx.BorrowingsForUser(userID)
}

func (t *Tx) BorrowingsForUser(userID int) []models.Borrowing {
	var out []models.Borrowing
	for _, b := range t.borrowings {
		if b.UserID == userID {
			out = append(out, cloneBorrowing(b))
		}
	}
	return out
}

func (s *Store) ActiveBorrowingsForUser(userID int) []models.Borrowing {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tx.ActiveBorrowingsForUser(userID)
}

func (t *Tx) ActiveBorrowingsForUser(userID int) []models.Borrowing {
	var out []models.Borrowing
	for _, b := range t.borrowings {
		if b.UserID == userID && b.Active() {
			out = append(out, cloneBorrowing(b))
		}
	}
	return out
}

func (s *Store) ActiveBorrowingsForBook(bookID int) []models.Borrowing {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tx.ActiveBorrowingsForBook(bookID)
}

func (t *Tx) ActiveBorrowingsForBook(bookID int) []models.Borrowing {
	var out []models.Borrowing
	for _, b := range t.borrowings {
		if b.BookID == bookID && b.Active() {
			out = append(out, cloneBorrowing(b))
		}
	}
	return out
}

func (s *Store) AllBorrowings() []models.Borrowing {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tx.AllBorrowings()
}

func (t *Tx) AllBorrowings() []models.Borrowing {
	out := make([]models.Borrowing, 0, len(t.borrowings))
	for _, b := range t.borrowings {
		out = append(out, cloneBorrowing(b))
	}
	return out
}

// cloneBorrowing deep-copies the ReturnedAt pointer so callers cannot reach
// back into store state through a returned record.
func cloneBorrowing(b models.Borrowing) models.Borrowing {
	if b.ReturnedAt != nil {
		at := *b.ReturnedAt
		b.ReturnedAt = &at
	}
	return b
}
