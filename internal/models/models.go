package models

import (
	"time"
)

type Role string

const (
	RoleLibrarian Role = "librarian"
	RoleMember    Role = "member"
)

// ParseRole maps a raw role string to a Role. An empty string defaults to
// member, matching the registration default.
func ParseRole(raw string) (Role, bool) {
	switch Role(raw) {
	case "":
		return RoleMember, true
	case RoleLibrarian:
		return RoleLibrarian, true
	case RoleMember:
		return RoleMember, true
	default:
		return "", false
	}
}

type User struct {
	ID       int    `json:"id"`
	Email    string `json:"email"`
	Password string `json:"-"`
	Role     Role   `json:"role"`
}

// Sanitized returns a copy of the user with the password cleared. Every user
// that leaves the services layer goes through this.
func (u User) Sanitized() User {
	u.Password = ""
	return u
}

type Book struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Author      string `json:"author"`
	Genre       string `json:"genre"`
	ISBN        string `json:"isbn"`
	TotalCopies int    `json:"total_copies"`
}

type Borrowing struct {
	ID         int        `json:"id"`
	UserID     int        `json:"user_id"`
	BookID     int        `json:"book_id"`
	BorrowedAt time.Time  `json:"borrowed_at"`
	DueDate    time.Time  `json:"due_date"`
	ReturnedAt *time.Time `json:"returned_at"`
}

// Active reports whether the borrowing has not been returned yet.
func (b Borrowing) Active() bool {
	return b.ReturnedAt == nil
}

// BookPatch is a partial update for a book. Nil fields are absent; string
// fields that are present but blank are ignored as well, so a blank value
// can never wipe an existing one.
type BookPatch struct {
	Title       *string `json:"title"`
	Author      *string `json:"author"`
	Genre       *string `json:"genre"`
	ISBN        *string `json:"isbn"`
	TotalCopies *int    `json:"total_copies"`
}

// BorrowingPatch is a partial update for a borrowing. ReturnedAt is applied
// whenever present, including to overwrite an earlier value.
type BorrowingPatch struct {
	DueDate    *time.Time
	ReturnedAt *time.Time
}

// BookFilter holds per-field substring filters for the catalog search.
// Blank fields are ignored; non-blank fields combine with logical AND.
type BookFilter struct {
	Title  string
	Author string
	Genre  string
	ISBN   string
}

// MemberSummary identifies a member on the librarian dashboard.
type MemberSummary struct {
	ID    int    `json:"id"`
	Email string `json:"email"`
}

type LibrarianDashboard struct {
	TotalBooks     int             `json:"total_books"`
	TotalBorrowed  int             `json:"total_borrowed"`
	DueToday       int             `json:"due_today"`
	OverdueMembers []MemberSummary `json:"overdue_members"`
}

type MemberDashboard struct {
	Borrowed []BorrowedItem `json:"borrowed"`
}

// BorrowedItem is one row of the member dashboard. Book is nil when the
// underlying book no longer exists.
type BorrowedItem struct {
	Book    *string   `json:"book"`
	DueDate time.Time `json:"due_date"`
	Overdue bool      `json:"overdue"`
}
