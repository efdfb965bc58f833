package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/bookshelf/internal/application"
	"github.com/oksasatya/bookshelf/pkg/response"
)

type CatalogHandler struct {
	Svc    *application.CatalogService
	Logger *logrus.Logger
}

func NewCatalogHandler(svc *application.CatalogService, logger *logrus.Logger) *CatalogHandler {
	return &CatalogHandler{Svc: svc, Logger: logger}
}

// Search GET /api/catalog/search?q=
func (h *CatalogHandler) Search(c *gin.Context) {
	vols, err := h.Svc.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		writeError(c, h.Logger, err, conflictAsConflict)
		return
	}
	response.Success(c, http.StatusOK, vols, "ok", gin.H{"count": len(vols)})
}
