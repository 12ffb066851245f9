package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0VAN/lms/internal/models"
)

func librarianView(t *testing.T, reg *Registry, librarian *models.User) models.LibrarianDashboard {
	t.Helper()
	view, err := reg.Dashboards.ForUser(librarian)
	require.NoError(t, err)
	dashboard, ok := view.(models.LibrarianDashboard)
	require.True(t, ok)
	return dashboard
}

func memberView(t *testing.T, reg *Registry, member *models.User) models.MemberDashboard {
	t.Helper()
	view, err := reg.Dashboards.ForUser(member)
	require.NoError(t, err)
	dashboard, ok := view.(models.MemberDashboard)
	require.True(t, ok)
	return dashboard
}

func TestLibrarianDashboardCounts(t *testing.T) {
	reg := New()
	librarian := registerUser(t, reg, "lib@example.com", "librarian")
	member := registerUser(t, reg, "mem@example.com", "member")
	first := addTestBook(t, reg, librarian, "First", 2)
	addTestBook(t, reg, librarian, "Second", 1)

	empty := librarianView(t, reg, librarian)
	assert.Equal(t, 2, empty.TotalBooks)
	assert.Equal(t, 0, empty.TotalBorrowed)
	assert.Equal(t, 0, empty.DueToday)
	assert.Empty(t, empty.OverdueMembers)

	_, err := reg.Borrowings.BorrowBook(member, first.ID)
	require.NoError(t, err)

	view := librarianView(t, reg, librarian)
	assert.Equal(t, 1, view.TotalBorrowed)
	assert.Equal(t, 0, view.DueToday)
	assert.Empty(t, view.OverdueMembers, "a fresh borrowing is not overdue")
}

func TestLibrarianDashboardOverdueScenario(t *testing.T) {
	reg := New()
	librarian := registerUser(t, reg, "lib@example.com", "librarian")
	member := registerUser(t, reg, "mem@example.com", "member")
	book := addTestBook(t, reg, librarian, "Late", 1)

	borrowing, err := reg.Borrowings.BorrowBook(member, book.ID)
	require.NoError(t, err)

	// push the due date into the past through the store, as an external
	// harness would
	yesterday := models.DateOnly(time.Now()).AddDate(0, 0, -1)
	_, ok := reg.Store.UpdateBorrowing(borrowing.ID, models.BorrowingPatch{DueDate: &yesterday})
	require.True(t, ok)

	view := librarianView(t, reg, librarian)
	assert.Equal(t, 1, view.TotalBorrowed)
	require.Len(t, view.OverdueMembers, 1)
	assert.Equal(t, member.ID, view.OverdueMembers[0].ID)
	assert.Equal(t, "mem@example.com", view.OverdueMembers[0].Email)

	// after the return the borrowing leaves every count
	_, err = reg.Borrowings.ReturnBook(librarian, borrowing.ID)
	require.NoError(t, err)

	view = librarianView(t, reg, librarian)
	assert.Equal(t, 0, view.TotalBorrowed)
	assert.Empty(t, view.OverdueMembers)
}

func TestLibrarianDashboardDueTodayCountsAsOverdue(t *testing.T) {
	reg := New()
	librarian := registerUser(t, reg, "lib@example.com", "librarian")
	member := registerUser(t, reg, "mem@example.com", "member")
	book := addTestBook(t, reg, librarian, "Due Now", 1)

	borrowing, err := reg.Borrowings.BorrowBook(member, book.ID)
	require.NoError(t, err)

	today := models.DateOnly(time.Now())
	_, ok := reg.Store.UpdateBorrowing(borrowing.ID, models.BorrowingPatch{DueDate: &today})
	require.True(t, ok)

	view := librarianView(t, reg, librarian)
	assert.Equal(t, 1, view.DueToday)
	assert.Len(t, view.OverdueMembers, 1)
}

func TestLibrarianDashboardDeduplicatesOverdueMembers(t *testing.T) {
	reg := New()
	librarian := registerUser(t, reg, "lib@example.com", "librarian")
	member := registerUser(t, reg, "mem@example.com", "member")
	first := addTestBook(t, reg, librarian, "First", 1)
	second := addTestBook(t, reg, librarian, "Second", 1)

	yesterday := models.DateOnly(time.Now()).AddDate(0, 0, -1)
	for _, book := range []models.Book{first, second} {
		borrowing, err := reg.Borrowings.BorrowBook(member, book.ID)
		require.NoError(t, err)
		_, ok := reg.Store.UpdateBorrowing(borrowing.ID, models.BorrowingPatch{DueDate: &yesterday})
		require.True(t, ok)
	}

	view := librarianView(t, reg, librarian)
	assert.Len(t, view.OverdueMembers, 1, "one member with two overdue borrowings appears once")
}

func TestMemberDashboard(t *testing.T) {
	reg := New()
	librarian := registerUser(t, reg, "lib@example.com", "librarian")
	member := registerUser(t, reg, "mem@example.com", "member")
	current := addTestBook(t, reg, librarian, "Current", 1)
	late := addTestBook(t, reg, librarian, "Late", 1)

	_, err := reg.Borrowings.BorrowBook(member, current.ID)
	require.NoError(t, err)

	lateBorrowing, err := reg.Borrowings.BorrowBook(member, late.ID)
	require.NoError(t, err)
	yesterday := models.DateOnly(time.Now()).AddDate(0, 0, -1)
	_, ok := reg.Store.UpdateBorrowing(lateBorrowing.ID, models.BorrowingPatch{DueDate: &yesterday})
	require.True(t, ok)

	view := memberView(t, reg, member)
	require.Len(t, view.Borrowed, 2)

	byTitle := make(map[string]models.BorrowedItem)
	for _, item := range view.Borrowed {
		require.NotNil(t, item.Book)
		byTitle[*item.Book] = item
	}
	assert.False(t, byTitle["Current"].Overdue)
	assert.True(t, byTitle["Late"].Overdue)
}

func TestMemberDashboardExcludesReturned(t *testing.T) {
	reg := New()
	librarian := registerUser(t, reg, "lib@example.com", "librarian")
	member := registerUser(t, reg, "mem@example.com", "member")
	book := addTestBook(t, reg, librarian, "Done", 1)

	borrowing, err := reg.Borrowings.BorrowBook(member, book.ID)
	require.NoError(t, err)
	_, err = reg.Borrowings.ReturnBook(librarian, borrowing.ID)
	require.NoError(t, err)

	view := memberView(t, reg, member)
	assert.Empty(t, view.Borrowed)
}

func TestMemberDashboardMissingBookYieldsNilTitle(t *testing.T) {
	reg := New()
	member := registerUser(t, reg, "mem@example.com", "member")

	// a borrowing whose book never existed; deletion normally cascades, so
	// this dangling reference is crafted directly against the store
	now := time.Now()
	reg.Store.CreateBorrowing(member.ID, 999, now, now.AddDate(0, 0, 14))

	view := memberView(t, reg, member)
	require.Len(t, view.Borrowed, 1)
	assert.Nil(t, view.Borrowed[0].Book)
}

func TestDashboardRequiresUser(t *testing.T) {
	reg := New()

	_, err := reg.Dashboards.ForUser(nil)
	assert.ErrorIs(t, err, ErrForbidden)
}
