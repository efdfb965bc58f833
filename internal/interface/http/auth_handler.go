package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/bookshelf/internal/application"
	"github.com/oksasatya/bookshelf/internal/interface/middleware"
	"github.com/oksasatya/bookshelf/pkg/helpers"
	"github.com/oksasatya/bookshelf/pkg/response"
)

type AuthHandler struct {
	Svc     *application.AccountService
	Cookies *helpers.CookieManager
	Logger  *logrus.Logger
}

func NewAuthHandler(svc *application.AccountService, cookies *helpers.CookieManager, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Svc: svc, Cookies: cookies, Logger: logger}
}

type resetInitRequest struct {
	Email string `json:"email"`
}

// Register POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req application.RegisterInput
	if !bindJSON(c, &req) {
		return
	}
	u, err := h.Svc.Register(c.Request.Context(), req)
	if err != nil {
		writeError(c, h.Logger, err, conflictAsBadRequest)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"userId": u.ID}, "registered", nil)
}

// Login POST /api/auth/login sets the session cookie.
func (h *AuthHandler) Login(c *gin.Context) {
	var req application.LoginInput
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.Svc.Login(c.Request.Context(), req)
	if err != nil {
		writeError(c, h.Logger, err, conflictAsConflict)
		return
	}
	h.Cookies.SetSession(c, res.Token, res.ExpiresAt)
	response.Success(c, http.StatusOK, res.User, "login successful", gin.H{"expires_at": res.ExpiresAt})
}

// Logout POST /api/auth/logout always succeeds, with or without a session.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.Cookies.ClearSession(c)
	response.Success(c, http.StatusOK, gin.H{"logged_out": true}, "logged out", nil)
}

// Me GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	u, err := h.Svc.Me(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		writeError(c, h.Logger, err, conflictAsConflict)
		return
	}
	response.Success(c, http.StatusOK, u, "ok", nil)
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req application.ChangePasswordInput
	if !bindJSON(c, &req) {
		return
	}
	if err := h.Svc.ChangePassword(c.Request.Context(), middleware.UserID(c), req); err != nil {
		writeError(c, h.Logger, err, conflictAsBadRequest)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"changed": true}, "password changed", nil)
}

func (h *AuthHandler) ChangeEmail(c *gin.Context) {
	var req application.ChangeEmailInput
	if !bindJSON(c, &req) {
		return
	}
	u, err := h.Svc.ChangeEmail(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		writeError(c, h.Logger, err, conflictAsBadRequest)
		return
	}
	response.Success(c, http.StatusOK, u, "email changed", nil)
}

func (h *AuthHandler) ChangeUsername(c *gin.Context) {
	var req application.ChangeUsernameInput
	if !bindJSON(c, &req) {
		return
	}
	u, err := h.Svc.ChangeUsername(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		writeError(c, h.Logger, err, conflictAsConflict)
		return
	}
	response.Success(c, http.StatusOK, u, "username changed", nil)
}

// ResetInit POST /api/auth/reset-password/init answers 200 whether or not the email is registered.
func (h *AuthHandler) ResetInit(c *gin.Context) {
	var req resetInitRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.Svc.InitPasswordReset(c.Request.Context(), req.Email); err != nil {
		writeError(c, h.Logger, err, conflictAsBadRequest)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"sent": true}, "if the email is registered, a reset link has been sent", nil)
}

// ResetPassword POST /api/auth/reset-password
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req application.ResetPasswordInput
	if !bindJSON(c, &req) {
		return
	}
	if err := h.Svc.ResetPassword(c.Request.Context(), req); err != nil {
		writeError(c, h.Logger, err, conflictAsBadRequest)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"reset": true}, "password updated", nil)
}
