package services

import (
	"time"

	"github.com/0VAN/lms/internal/models"
	"github.com/0VAN/lms/internal/store"
)

// LoanPeriodDays is the number of days between borrowing a book and its due
// date.
const LoanPeriodDays = 14

// ─── Service Interface ────────────────────────────────────────────────────────

// BorrowingService runs the borrow/return workflow. Members borrow,
// librarians return; both flows are atomic against the store.
type BorrowingService interface {
	BorrowBook(actor *models.User, bookID int) (models.Borrowing, error)
	ReturnBook(actor *models.User, borrowingID int) (models.Borrowing, error)
	BorrowingsFor(actor *models.User) ([]models.Borrowing, error)
}

// ─── Implementation ───────────────────────────────────────────────────────────

type borrowingService struct {
	store *store.Store
}

func NewBorrowingService(st *store.Store) BorrowingService {
	return &borrowingService{store: st}
}

// BorrowBook creates an active borrowing due LoanPeriodDays from today. The
// duplicate check, the availability check, and the insert all run inside one
// store transaction; otherwise two racing members could both take the last
// copy. A member who already holds the book gets ErrAlreadyBorrowed even
// when their own copy was the last one.
func (s *borrowingService) BorrowBook(actor *models.User, bookID int) (models.Borrowing, error) {
	if err := ensureMember(actor); err != nil {
		return models.Borrowing{}, err
	}

	var borrowing models.Borrowing
	err := s.store.Transact(func(tx *store.Tx) error {
		book, ok := tx.FindBook(bookID)
		if !ok {
			return ErrBookNotFound
		}
		for _, b := range tx.ActiveBorrowingsForUser(actor.ID) {
			if b.BookID == bookID {
				return ErrAlreadyBorrowed
			}
		}
		if len(tx.ActiveBorrowingsForBook(bookID)) >= book.TotalCopies {
			return ErrNoCopiesAvailable
		}

		today := models.DateOnly(time.Now())
		borrowing = tx.CreateBorrowing(actor.ID, bookID, today, today.AddDate(0, 0, LoanPeriodDays))
		return nil
	})
	if err != nil {
		return models.Borrowing{}, err
	}
	return borrowing, nil
}

// ReturnBook marks the borrowing returned as of today. Returning an
// already-returned borrowing fails with ErrAlreadyReturned; the
// active → returned transition is one-way.
func (s *borrowingService) ReturnBook(actor *models.User, borrowingID int) (models.Borrowing, error) {
	if err := ensureLibrarian(actor); err != nil {
		return models.Borrowing{}, err
	}

	var updated models.Borrowing
	err := s.store.Transact(func(tx *store.Tx) error {
		borrowing, ok := tx.FindBorrowing(borrowingID)
		if !ok {
			return ErrBorrowingNotFound
		}
		if !borrowing.Active() {
			return ErrAlreadyReturned
		}

		today := models.DateOnly(time.Now())
		updated, _ = tx.UpdateBorrowing(borrowingID, models.BorrowingPatch{ReturnedAt: &today})
		return nil
	})
	if err != nil {
		return models.Borrowing{}, err
	}
	return updated, nil
}

// BorrowingsFor lists borrowing records, active and past: all of them for a
// librarian, only the actor's own for a member.
func (s *borrowingService) BorrowingsFor(actor *models.User) ([]models.Borrowing, error) {
	if actor == nil {
		return nil, ErrForbidden
	}
	switch actor.Role {
	case models.RoleLibrarian:
		return s.store.AllBorrowings(), nil
	case models.RoleMember:
		return s.store.BorrowingsForUser(actor.ID), nil
	default:
		return nil, ErrForbidden
	}
}
