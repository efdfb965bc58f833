package application

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/bookshelf/internal/infrastructure/catalog"
	"github.com/oksasatya/bookshelf/pkg/helpers"
)

const maxCatalogQueryLen = 200

// CatalogSearcher looks up volumes in the external book catalog.
type CatalogSearcher interface {
	Search(ctx context.Context, q string) ([]catalog.Volume, error)
}

type CatalogService struct {
	Catalog CatalogSearcher
	Logger  *logrus.Logger
}

func NewCatalogService(c CatalogSearcher, logger *logrus.Logger) *CatalogService {
	return &CatalogService{Catalog: c, Logger: logger}
}

func (s *CatalogService) Search(ctx context.Context, q string) ([]catalog.Volume, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, validationError("validation failed", map[string]string{"q": "is required"})
	}
	if utf8.RuneCountInString(q) > maxCatalogQueryLen {
		return nil, validationError("validation failed", map[string]string{"q": "must be at most 200 characters long"})
	}
	vols, err := s.Catalog.Search(ctx, q)
	if err != nil {
		helpers.LogError(s.Logger, "catalog search failed", err, logrus.Fields{"q": q})
		return nil, &Error{Kind: KindUpstream, Message: "catalog lookup failed", Err: err}
	}
	return vols, nil
}
