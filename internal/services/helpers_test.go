package services

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/0VAN/lms/internal/models"
)

func registerUser(t *testing.T, reg *Registry, email, role string) *models.User {
	t.Helper()
	user, err := reg.Auth.Register(RegisterInput{Email: email, Password: "secret", Role: role})
	require.NoError(t, err)
	return &user
}

func addTestBook(t *testing.T, reg *Registry, librarian *models.User, title string, copies int) models.Book {
	t.Helper()
	book, err := reg.Books.AddBook(librarian, BookInput{
		Title:       title,
		Author:      "Author",
		Genre:       "Fiction",
		ISBN:        "123",
		TotalCopies: &copies,
	})
	require.NoError(t, err)
	return book
}

func intPtr(v int) *int       { return &v }
func strPtr(s string) *string { return &s }
