package application

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/bookshelf/internal/domain/entity"
	repo "github.com/oksasatya/bookshelf/internal/domain/repository"
	"github.com/oksasatya/bookshelf/pkg/helpers"
)

var ErrBookNotFound = errors.New("book not found")

// BookIndexer mirrors books into the full-text search index.
type BookIndexer interface {
	Index(ctx context.Context, b *entity.Book) error
	Remove(ctx context.Context, id string) error
	// Search returns ids of the user's books matching q, best match first.
	Search(ctx context.Context, userID, q string, size int) ([]string, error)
}

type BookService struct {
	Books    repo.BookRepository
	Notes    repo.NoteRepository
	Index    BookIndexer
	Uploader helpers.ObjectUploader
	Logger   *logrus.Logger
	now      func() time.Time
}

func NewBookService(books repo.BookRepository, notes repo.NoteRepository, index BookIndexer, uploader helpers.ObjectUploader, logger *logrus.Logger) *BookService {
	return &BookService{Books: books, Notes: notes, Index: index, Uploader: uploader, Logger: logger, now: time.Now}
}

type CreateBookInput struct {
	GoogleID   string     `json:"googleId" validate:"required"`
	Title      string     `json:"title" validate:"max=500"`
	Authors    []string   `json:"authors"`
	Thumbnail  string     `json:"thumbnail" validate:"omitempty,url"`
	Categories []string   `json:"categories"`
	Status     string     `json:"status" validate:"omitempty,bookstatus"`
	StartDate  *time.Time `json:"startDate"`
	EndDate    *time.Time `json:"endDate"`
	Rating     *float64   `json:"rating" validate:"omitempty,gte=0,lte=5"`
	Tags       []string   `json:"tags"`
	Notes      string     `json:"notes"`
	IsPublic   bool       `json:"isPublic"`
}

// UpdateBookInput is a partial update; nil fields are left unchanged.
type UpdateBookInput struct {
	Title      *string    `json:"title" validate:"omitempty,max=500"`
	Authors    *[]string  `json:"authors"`
	Thumbnail  *string    `json:"thumbnail" validate:"omitempty,url"`
	Categories *[]string  `json:"categories"`
	Status     *string    `json:"status" validate:"omitempty,bookstatus"`
	StartDate  *time.Time `json:"startDate"`
	EndDate    *time.Time `json:"endDate"`
	Rating     *float64   `json:"rating" validate:"omitempty,gte=0,lte=5"`
	Tags       *[]string  `json:"tags"`
	Notes      *string    `json:"notes"`
	IsPublic   *bool      `json:"isPublic"`
}

// cleanList trims entries and drops blanks and repeats.
func cleanList(in []string) []string {
	out := lo.Uniq(lo.FilterMap(in, func(s string, _ int) (string, bool) {
		s = strings.TrimSpace(s)
		return s, s != ""
	}))
	return out
}

func (s *BookService) Create(ctx context.Context, userID string, in CreateBookInput) (*entity.Book, error) {
	in.GoogleID = strings.TrimSpace(in.GoogleID)
	if err := validate(&in); err != nil {
		return nil, err
	}
	status := entity.BookStatus(in.Status)
	if status == "" {
		status = entity.StatusWishlist
	}
	b := &entity.Book{
		UserID:     userID,
		GoogleID:   in.GoogleID,
		Title:      strings.TrimSpace(in.Title),
		Authors:    cleanList(in.Authors),
		Thumbnail:  in.Thumbnail,
		Categories: cleanList(in.Categories),
		Status:     status,
		StartDate:  in.StartDate,
		EndDate:    in.EndDate,
		Rating:     in.Rating,
		Tags:       cleanList(in.Tags),
		Notes:      in.Notes,
		IsPublic:   in.IsPublic,
	}
	if err := s.Books.Create(ctx, b); err != nil {
		return nil, s.storeError(err, "create book failed")
	}
	s.reindex(ctx, b)
	return b, nil
}

func (s *BookService) Get(ctx context.Context, userID, id string) (*entity.Book, error) {
	b, err := s.Books.GetByID(ctx, userID, id)
	if err != nil {
		return nil, s.storeError(err, "get book failed")
	}
	return b, nil
}

func (s *BookService) List(ctx context.Context, userID string) ([]entity.Book, error) {
	books, err := s.Books.ListByUser(ctx, userID, false)
	if err != nil {
		return nil, s.storeError(err, "list books failed")
	}
	return books, nil
}

func (s *BookService) Update(ctx context.Context, userID, id string, in UpdateBookInput) (*entity.Book, error) {
	if err := validate(&in); err != nil {
		return nil, err
	}
	b, err := s.Books.GetByID(ctx, userID, id)
	if err != nil {
		return nil, s.storeError(err, "get book failed")
	}
	if in.Title != nil {
		b.Title = strings.TrimSpace(*in.Title)
	}
	if in.Authors != nil {
		b.Authors = cleanList(*in.Authors)
	}
	if in.Thumbnail != nil {
		b.Thumbnail = *in.Thumbnail
	}
	if in.Categories != nil {
		b.Categories = cleanList(*in.Categories)
	}
	if in.Status != nil {
		b.Status = entity.BookStatus(*in.Status)
	}
	if in.StartDate != nil {
		b.StartDate = in.StartDate
	}
	if in.EndDate != nil {
		b.EndDate = in.EndDate
	}
	if in.Rating != nil {
		b.Rating = in.Rating
	}
	if in.Tags != nil {
		b.Tags = cleanList(*in.Tags)
	}
	if in.Notes != nil {
		b.Notes = *in.Notes
	}
	if in.IsPublic != nil {
		b.IsPublic = *in.IsPublic
	}
	if err := s.Books.Update(ctx, b); err != nil {
		return nil, s.storeError(err, "update book failed")
	}
	s.reindex(ctx, b)
	return b, nil
}

func (s *BookService) Delete(ctx context.Context, userID, id string) error {
	if err := s.Books.Delete(ctx, userID, id); err != nil {
		return s.storeError(err, "delete book failed")
	}
	if s.Index != nil {
		if err := s.Index.Remove(ctx, id); err != nil {
			helpers.LogError(s.Logger, "search remove failed", err, logrus.Fields{"book_id": id})
		}
	}
	return nil
}

func (s *BookService) Stats(ctx context.Context, userID string, f StatsFilter) (Stats, error) {
	books, err := s.List(ctx, userID)
	if err != nil {
		return Stats{}, err
	}
	return ComputeStats(books, f), nil
}

// Search runs q against the index and returns the caller's matching books in rank order.
// Without an index it falls back to a case-insensitive title/author/tag scan.
func (s *BookService) Search(ctx context.Context, userID, q string) ([]entity.Book, error) {
	q = strings.TrimSpace(q)
	books, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	if q == "" {
		return books, nil
	}
	if s.Index == nil {
		return lo.Filter(books, func(b entity.Book, _ int) bool { return matchesQuery(b, q) }), nil
	}

	ids, err := s.Index.Search(ctx, userID, q, 50)
	if err != nil {
		helpers.LogError(s.Logger, "search query failed", err, logrus.Fields{"user_id": userID})
		return lo.Filter(books, func(b entity.Book, _ int) bool { return matchesQuery(b, q) }), nil
	}
	byID := lo.KeyBy(books, func(b entity.Book) string { return b.ID })
	out := make([]entity.Book, 0, len(ids))
	for _, id := range ids {
		if b, ok := byID[id]; ok {
			out = append(out, b)
		}
	}
	return out, nil
}

func matchesQuery(b entity.Book, q string) bool {
	q = strings.ToLower(q)
	fields := append([]string{b.Title}, b.Authors...)
	fields = append(fields, b.Tags...)
	return lo.SomeBy(fields, func(f string) bool { return strings.Contains(strings.ToLower(f), q) })
}

// LibraryExport is the document written by Export.
type LibraryExport struct {
	UserID     string        `json:"userId"`
	ExportedAt time.Time     `json:"exportedAt"`
	Books      []entity.Book `json:"books"`
	Notes      []entity.Note `json:"notes"`
}

// Export uploads the caller's books and notes as JSON and returns the object URL.
func (s *BookService) Export(ctx context.Context, userID string) (string, error) {
	if s.Uploader == nil {
		return "", &Error{Kind: KindUnavailable, Message: "export storage is not configured"}
	}
	books, err := s.List(ctx, userID)
	if err != nil {
		return "", err
	}
	notes, err := s.Notes.ListByUser(ctx, userID, "", false)
	if err != nil {
		return "", s.storeError(err, "list notes failed")
	}
	doc := LibraryExport{UserID: userID, ExportedAt: s.now().UTC(), Books: books, Notes: notes}
	body, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", internal(err)
	}
	object := path.Join("exports", userID, uuid.NewString()+".json")
	url, err := s.Uploader.Upload(ctx, object, "application/json", bytes.NewReader(body))
	if err != nil {
		helpers.LogError(s.Logger, "export upload failed", err, logrus.Fields{"user_id": userID})
		return "", &Error{Kind: KindUpstream, Message: "export upload failed", Err: err}
	}
	return url, nil
}

func (s *BookService) reindex(ctx context.Context, b *entity.Book) {
	if s.Index == nil {
		return
	}
	if err := s.Index.Index(ctx, b); err != nil {
		helpers.LogError(s.Logger, "search index failed", err, logrus.Fields{"book_id": b.ID})
	}
}

func (s *BookService) storeError(err error, msg string) error {
	if errors.Is(err, repo.ErrNotFound) {
		return notFound(ErrBookNotFound.Error())
	}
	helpers.LogError(s.Logger, msg, err, nil)
	return internal(err)
}
