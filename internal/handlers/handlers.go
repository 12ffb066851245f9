package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/0VAN/lms/internal/models"
	"github.com/0VAN/lms/internal/services"
)

type LibraryHandler struct {
	reg *services.Registry
}

func RegisterRoutes(r *gin.Engine, reg *services.Registry) {
	h := &LibraryHandler{reg: reg}

	r.Use(Authenticate(reg.Auth))

	// Session endpoints
	r.POST("/register", h.register)
	r.POST("/login", h.login)
	r.POST("/logout", RequireUser(), h.logout)

	// Catalog endpoints
	r.GET("/books", h.searchBooks)
	r.POST("/books", RequireUser(), h.addBook)
	r.PUT("/books/:id", RequireUser(), h.updateBook)
	r.DELETE("/books/:id", RequireUser(), h.deleteBook)

	// Borrowing endpoints
	r.POST("/books/:id/borrow", RequireUser(), h.borrowBook)
	r.POST("/borrowings/:id/return", RequireUser(), h.returnBook)
	r.GET("/borrowings", RequireUser(), h.listBorrowings)

	// Dashboard
	r.GET("/dashboard", RequireUser(), h.dashboard)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// renderError translates service sentinels to HTTP statuses.
func renderError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrInvalidCredentials), errors.Is(err, services.ErrInvalidToken):
		status = http.StatusUnauthorized
	case errors.Is(err, services.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, services.ErrBookNotFound), errors.Is(err, services.ErrBorrowingNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrNoCopiesAvailable),
		errors.Is(err, services.ErrAlreadyBorrowed),
		errors.Is(err, services.ErrAlreadyReturned):
		status = http.StatusConflict
	}
	if status == http.StatusInternalServerError {
		log.Printf("[ERROR] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func idParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

// ─── Sessions ─────────────────────────────────────────────────────────────────

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (h *LibraryHandler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.reg.Auth.Register(services.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		renderError(c, err)
		return
	}
	log.Printf("[INFO] register: created %s user %q (id=%d)", user.Role, user.Email, user.ID)
	c.JSON(http.StatusCreated, user)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *LibraryHandler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.reg.Auth.Login(req.Email, req.Password)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *LibraryHandler) logout(c *gin.Context) {
	h.reg.Auth.Logout(contextToken(c))
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ─── Catalog ──────────────────────────────────────────────────────────────────

type bookRequest struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	Genre       string `json:"genre"`
	ISBN        string `json:"isbn"`
	TotalCopies *int   `json:"total_copies"`
}

func (h *LibraryHandler) addBook(c *gin.Context) {
	var req bookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	book, err := h.reg.Books.AddBook(currentUser(c), services.BookInput{
		Title:       req.Title,
		Author:      req.Author,
		Genre:       req.Genre,
		ISBN:        req.ISBN,
		TotalCopies: req.TotalCopies,
	})
	if err != nil {
		renderError(c, err)
		return
	}
	log.Printf("[INFO] addBook: created book %q (id=%d) with %d copies", book.Title, book.ID, book.TotalCopies)
	c.JSON(http.StatusCreated, book)
}

func (h *LibraryHandler) updateBook(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var patch models.BookPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	book, err := h.reg.Books.UpdateBook(currentUser(c), id, patch)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, book)
}

func (h *LibraryHandler) deleteBook(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	book, err := h.reg.Books.DeleteBook(currentUser(c), id)
	if err != nil {
		renderError(c, err)
		return
	}
	log.Printf("[INFO] deleteBook: removed book %q (id=%d)", book.Title, book.ID)
	c.JSON(http.StatusOK, book)
}

func (h *LibraryHandler) searchBooks(c *gin.Context) {
	books := h.reg.Books.Search(models.BookFilter{
		Title:  c.Query("title"),
		Author: c.Query("author"),
		Genre:  c.Query("genre"),
		ISBN:   c.Query("isbn"),
	})
	c.JSON(http.StatusOK, books)
}

// ─── Borrowing ────────────────────────────────────────────────────────────────

func (h *LibraryHandler) borrowBook(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	borrowing, err := h.reg.Borrowings.BorrowBook(currentUser(c), id)
	if err != nil {
		renderError(c, err)
		return
	}
	log.Printf("[INFO] borrowBook: user %d borrowed book %d, due %s",
		borrowing.UserID, borrowing.BookID, borrowing.DueDate.Format("2006-01-02"))
	c.JSON(http.StatusCreated, borrowing)
}

func (h *LibraryHandler) returnBook(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	borrowing, err := h.reg.Borrowings.ReturnBook(currentUser(c), id)
	if err != nil {
		renderError(c, err)
		return
	}
	log.Printf("[INFO] returnBook: borrowing %d returned", borrowing.ID)
	c.JSON(http.StatusOK, borrowing)
}

func (h *LibraryHandler) listBorrowings(c *gin.Context) {
	borrowings, err := h.reg.Borrowings.BorrowingsFor(currentUser(c))
	if err != nil {
		renderError(c, err)
		return
	}
	if borrowings == nil {
		borrowings = []models.Borrowing{}
	}
	c.JSON(http.StatusOK, borrowings)
}

// ─── Dashboard ────────────────────────────────────────────────────────────────

func (h *LibraryHandler) dashboard(c *gin.Context) {
	view, err := h.reg.Dashboards.ForUser(currentUser(c))
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
