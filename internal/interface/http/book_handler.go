package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/bookshelf/internal/application"
	"github.com/oksasatya/bookshelf/internal/interface/middleware"
	"github.com/oksasatya/bookshelf/pkg/response"
	"github.com/oksasatya/bookshelf/pkg/validation"
)

type BookHandler struct {
	Svc    *application.BookService
	Logger *logrus.Logger
}

func NewBookHandler(svc *application.BookService, logger *logrus.Logger) *BookHandler {
	return &BookHandler{Svc: svc, Logger: logger}
}

func (h *BookHandler) List(c *gin.Context) {
	books, err := h.Svc.List(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		writeError(c, h.Logger, err, conflictAsConflict)
		return
	}
	response.Success(c, http.StatusOK, books, "ok", gin.H{"count": len(books)})
}

func (h *BookHandler) Create(c *gin.Context) {
	var req application.CreateBookInput
	if !bindJSON(c, &req) {
		return
	}
	b, err := h.Svc.Create(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		writeError(c, h.Logger, err, conflictAsConflict)
		return
	}
	response.Success(c, http.StatusCreated, b, "book added", nil)
}

func (h *BookHandler) Get(c *gin.Context) {
	b, err := h.Svc.Get(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		writeError(c, h.Logger, err, conflictAsConflict)
		return
	}
	response.Success(c, http.StatusOK, b, "ok", nil)
}

func (h *BookHandler) Update(c *gin.Context) {
	var req application.UpdateBookInput
	if !bindJSON(c, &req) {
		return
	}
	b, err := h.Svc.Update(c.Request.Context(), middleware.UserID(c), c.Param("id"), req)
	if err != nil {
		writeError(c, h.Logger, err, conflictAsConflict)
		return
	}
	response.Success(c, http.StatusOK, b, "book updated", nil)
}

func (h *BookHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		writeError(c, h.Logger, err, conflictAsConflict)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true}, "book deleted", nil)
}

// Stats GET /api/books/stats?year=&tag=&status=
func (h *BookHandler) Stats(c *gin.Context) {
	var f application.StatsFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid query", validation.ToDetails(err))
		return
	}
	s, err := h.Svc.Stats(c.Request.Context(), middleware.UserID(c), f)
	if err != nil {
		writeError(c, h.Logger, err, conflictAsConflict)
		return
	}
	response.Success(c, http.StatusOK, s, "ok", nil)
}

// Search GET /api/books/search?q=
func (h *BookHandler) Search(c *gin.Context) {
	books, err := h.Svc.Search(c.Request.Context(), middleware.UserID(c), c.Query("q"))
	if err != nil {
		writeError(c, h.Logger, err, conflictAsConflict)
		return
	}
	response.Success(c, http.StatusOK, books, "ok", gin.H{"count": len(books)})
}

// Export POST /api/books/export
func (h *BookHandler) Export(c *gin.Context) {
	url, err := h.Svc.Export(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		writeError(c, h.Logger, err, conflictAsConflict)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"url": url}, "export ready", nil)
}
