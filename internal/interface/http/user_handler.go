package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/bookshelf/internal/application"
	"github.com/oksasatya/bookshelf/internal/interface/middleware"
	"github.com/oksasatya/bookshelf/pkg/response"
)

type UserHandler struct {
	Accounts *application.AccountService
	Profiles *application.ProfileService
	Logger   *logrus.Logger
}

func NewUserHandler(accounts *application.AccountService, profiles *application.ProfileService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Accounts: accounts, Profiles: profiles, Logger: logger}
}

// SetSlug PUT /api/users/slug
func (h *UserHandler) SetSlug(c *gin.Context) {
	var req application.SetSlugInput
	if !bindJSON(c, &req) {
		return
	}
	u, err := h.Accounts.SetProfileSlug(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		writeError(c, h.Logger, err, conflictAsConflict)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"profileSlug": u.ProfileSlug, "profileUrl": "/u/" + u.PublicHandle()}, "slug updated", nil)
}

// Profile GET /api/profile/:idOrSlug is public.
func (h *UserHandler) Profile(c *gin.Context) {
	p, err := h.Profiles.Get(c.Request.Context(), c.Param("idOrSlug"))
	if err != nil {
		writeError(c, h.Logger, err, conflictAsConflict)
		return
	}
	response.Success(c, http.StatusOK, p, "ok", nil)
}
