package store

import (
	"time"

	"github.com/0VAN/lms/internal/models"
)

// Seed presets for quickly populating the store: "demo" for manual poking at
// the API, "test" for integration harnesses. Unknown preset names fall back
// to demo. Seeding an already-seeded store is a no-op.

type seedUser struct {
	email    string
	password string
	role     models.Role
}

type seedBook struct {
	title       string
	author      string
	genre       string
	isbn        string
	totalCopies int
}

type seedBorrowing struct {
	userEmail          string
	bookISBN           string
	borrowedOffsetDays int
	loanLengthDays     int
	returnedAfterDays  *int
}

type seedPreset struct {
	users      []seedUser
	books      []seedBook
	borrowings []seedBorrowing
}

var seedPresets = map[string]seedPreset{
	"demo": {
		users: []seedUser{
			{email: "librarian@example.com", password: "password", role: models.RoleLibrarian},
			{email: "member@example.com", password: "password", role: models.RoleMember},
		},
		books: []seedBook{
			{title: "The Ruby Way", author: "Hal Fulton", genre: "Programming", isbn: "9780321714633", totalCopies: 3},
			{title: "Practical Object-Oriented Design", author: "Sandi Metz", genre: "Programming", isbn: "9780321721334", totalCopies: 2},
			{title: "The Pragmatic Programmer", author: "Andrew Hunt", genre: "Programming", isbn: "9780135957059", totalCopies: 1},
		},
		borrowings: []seedBorrowing{
			{userEmail: "member@example.com", bookISBN: "9780321714633", borrowedOffsetDays: -1, loanLengthDays: 14},
			{userEmail: "member@example.com", bookISBN: "9780135957059", borrowedOffsetDays: -20, loanLengthDays: 14},
		},
	},
	"test": {
		users: []seedUser{
			{email: "librarian@test.com", password: "password", role: models.RoleLibrarian},
			{email: "member@test.com", password: "password", role: models.RoleMember},
			{email: "member2@test.com", password: "password", role: models.RoleMember},
		},
		books: []seedBook{
			{title: "Clean Code", author: "Robert C. Martin", genre: "Programming", isbn: "9780132350884", totalCopies: 2},
			{title: "Domain-Driven Design", author: "Eric Evans", genre: "Programming", isbn: "9780321125217", totalCopies: 1},
			{title: "Refactoring", author: "Martin Fowler", genre: "Programming", isbn: "9780201485677", totalCopies: 3},
		},
		borrowings: []seedBorrowing{
			{userEmail: "member@test.com", bookISBN: "9780132350884", borrowedOffsetDays: -2, loanLengthDays: 14},
			{userEmail: "member@test.com", bookISBN: "9780321125217", borrowedOffsetDays: -16, loanLengthDays: 14},
			{userEmail: "member2@test.com", bookISBN: "9780201485677", borrowedOffsetDays: -1, returnedAfterDays: intPtr(1)},
		},
	},
}

// Seed populates the store from the named preset.
func (s *Store) Seed(preset string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tx.seed(preset)
}

func (t *Tx) seed(preset string) {
	if t.seeded {
		return
	}

	p, ok := seedPresets[preset]
	if !ok {
		p = seedPresets["demo"]
	}

	usersByEmail := make(map[string]models.User)
	for _, u := range p.users {
		usersByEmail[u.email] = t.CreateUser(u.email, u.password, u.role)
	}

	booksByISBN := make(map[string]models.Book)
	for _, b := range p.books {
		booksByISBN[b.isbn] = t.CreateBook(models.Book{
			Title:       b.title,
			Author:      b.author,
			Genre:       b.genre,
			ISBN:        b.isbn,
			TotalCopies: b.totalCopies,
		})
	}

	today := models.DateOnly(time.Now())
	for _, sb := range p.borrowings {
		user, okUser := usersByEmail[sb.userEmail]
		book, okBook := booksByISBN[sb.bookISBN]
		if !okUser || !okBook {
			continue
		}
		loan := sb.loanLengthDays
		if loan == 0 {
			loan = 14
		}
		borrowedAt := today.AddDate(0, 0, sb.borrowedOffsetDays)
		borrowing := t.CreateBorrowing(user.ID, book.ID, borrowedAt, borrowedAt.AddDate(0, 0, loan))
		if sb.returnedAfterDays != nil {
			returnedAt := borrowedAt.AddDate(0, 0, *sb.returnedAfterDays)
			t.UpdateBorrowing(borrowing.ID, models.BorrowingPatch{ReturnedAt: &returnedAt})
		}
	}

	t.seeded = true
}

func intPtr(v int) *int { return &v }
