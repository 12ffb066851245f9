package services

import "errors"

// ─── Sentinel Errors ──────────────────────────────────────────────────────────

var (
	// ErrValidation is returned when required input is missing or malformed.
	// It is wrapped with a message naming the offending fields.
	ErrValidation = errors.New("validation failed")

	// ErrEmailTaken is returned when registering an email that already exists.
	ErrEmailTaken = errors.New("email taken")

	// ErrForbidden is returned when the actor is absent or has the wrong role
	// for the operation.
	ErrForbidden = errors.New("forbidden")

	// ErrBookNotFound is returned when the referenced book does not exist.
	ErrBookNotFound = errors.New("book not found")

	// ErrBorrowingNotFound is returned when the referenced borrowing does not exist.
	ErrBorrowingNotFound = errors.New("borrowing not found")

	// ErrNoCopiesAvailable is returned when every copy of the book is out.
	ErrNoCopiesAvailable = errors.New("no copies available")

	// ErrAlreadyBorrowed is returned when the member already holds an active
	// borrowing of the same book.
	ErrAlreadyBorrowed = errors.New("already borrowed")

	// ErrAlreadyReturned is returned when a return is attempted on a borrowing
	// that has already been marked returned.
	ErrAlreadyReturned = errors.New("already returned")

	// ErrInvalidCredentials is returned by Login when no user matches the
	// email and password.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken is returned by CurrentUser when the token is unknown or
	// its user is missing.
	ErrInvalidToken = errors.New("invalid token")
)
