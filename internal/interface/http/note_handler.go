package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/bookshelf/internal/application"
	"github.com/oksasatya/bookshelf/internal/interface/middleware"
	"github.com/oksasatya/bookshelf/pkg/response"
)

type NoteHandler struct {
	Svc    *application.NoteService
	Logger *logrus.Logger
}

func NewNoteHandler(svc *application.NoteService, logger *logrus.Logger) *NoteHandler {
	return &NoteHandler{Svc: svc, Logger: logger}
}

// List GET /api/notes?bookId=
func (h *NoteHandler) List(c *gin.Context) {
	notes, err := h.Svc.List(c.Request.Context(), middleware.UserID(c), c.Query("bookId"))
	if err != nil {
		writeError(c, h.Logger, err, conflictAsConflict)
		return
	}
	response.Success(c, http.StatusOK, notes, "ok", gin.H{"count": len(notes)})
}

func (h *NoteHandler) Create(c *gin.Context) {
	var req application.CreateNoteInput
	if !bindJSON(c, &req) {
		return
	}
	n, err := h.Svc.Create(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		writeError(c, h.Logger, err, conflictAsConflict)
		return
	}
	response.Success(c, http.StatusCreated, n, "note added", nil)
}

func (h *NoteHandler) Update(c *gin.Context) {
	var req application.UpdateNoteInput
	if !bindJSON(c, &req) {
		return
	}
	n, err := h.Svc.Update(c.Request.Context(), middleware.UserID(c), c.Param("id"), req)
	if err != nil {
		writeError(c, h.Logger, err, conflictAsConflict)
		return
	}
	response.Success(c, http.StatusOK, n, "note updated", nil)
}

func (h *NoteHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		writeError(c, h.Logger, err, conflictAsConflict)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true}, "note deleted", nil)
}
