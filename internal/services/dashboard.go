package services

import (
	"time"

	"github.com/0VAN/lms/internal/models"
	"github.com/0VAN/lms/internal/store"
)

// ─── Service Interface ────────────────────────────────────────────────────────

// DashboardService builds the role-specific dashboard views. Reads run
// inside one store transaction so the counts come from a single snapshot.
type DashboardService interface {
	ForUser(actor *models.User) (any, error)
}

// ─── Implementation ───────────────────────────────────────────────────────────

type dashboardService struct {
	store *store.Store
}

func NewDashboardService(st *store.Store) DashboardService {
	return &dashboardService{store: st}
}

// ForUser dispatches on the actor's role: librarians get the catalog-wide
// view, members get their own active borrowings.
func (s *dashboardService) ForUser(actor *models.User) (any, error) {
	if actor == nil {
		return nil, ErrForbidden
	}
	switch actor.Role {
	case models.RoleLibrarian:
		return s.librarianView(), nil
	case models.RoleMember:
		return s.memberView(actor), nil
	default:
		return nil, ErrForbidden
	}
}

// librarianView aggregates over all books and borrowings. A borrowing whose
// due date is today already counts as overdue, so due_today entries also
// appear in overdue_members.
func (s *dashboardService) librarianView() models.LibrarianDashboard {
	view := models.LibrarianDashboard{
		OverdueMembers: []models.MemberSummary{},
	}
	today := models.DateOnly(time.Now())

	_ = s.store.Transact(func(tx *store.Tx) error {
		view.TotalBooks = len(tx.AllBooks())

		seen := make(map[int]bool)
		for _, b := range tx.AllBorrowings() {
			if !b.Active() {
				continue
			}
			view.TotalBorrowed++
			if models.SameDay(b.DueDate, today) {
				view.DueToday++
			}
			if !b.DueDate.After(today) && !seen[b.UserID] {
				if member, ok := tx.FindUser(b.UserID); ok {
					seen[b.UserID] = true
					view.OverdueMembers = append(view.OverdueMembers, models.MemberSummary{
						ID:    member.ID,
						Email: member.Email,
					})
				}
			}
		}
		return nil
	})

	return view
}

// memberView lists the member's active borrowings. A borrowing whose book
// has disappeared keeps its row with a nil title.
func (s *dashboardService) memberView(actor *models.User) models.MemberDashboard {
	view := models.MemberDashboard{
		Borrowed: []models.BorrowedItem{},
	}
	today := models.DateOnly(time.Now())

	_ = s.store.Transact(func(tx *store.Tx) error {
		for _, b := range tx.ActiveBorrowingsForUser(actor.ID) {
			item := models.BorrowedItem{
				DueDate: b.DueDate,
				Overdue: b.DueDate.Before(today),
			}
			if book, ok := tx.FindBook(b.BookID); ok {
				title := book.Title
				item.Book = &title
			}
			view.Borrowed = append(view.Borrowed, item)
		}
		return nil
	})

	return view
}
