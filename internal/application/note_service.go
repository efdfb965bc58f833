package application

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/bookshelf/internal/domain/entity"
	repo "github.com/oksasatya/bookshelf/internal/domain/repository"
	"github.com/oksasatya/bookshelf/pkg/helpers"
)

var ErrNoteNotFound = errors.New("note not found")

type NoteService struct {
	Notes  repo.NoteRepository
	Books  repo.BookRepository
	Logger *logrus.Logger
}

func NewNoteService(notes repo.NoteRepository, books repo.BookRepository, logger *logrus.Logger) *NoteService {
	return &NoteService{Notes: notes, Books: books, Logger: logger}
}

type CreateNoteInput struct {
	BookID   string `json:"bookId" validate:"required"`
	Content  string `json:"content" validate:"required,max=10000"`
	IsPublic bool   `json:"isPublic"`
}

type UpdateNoteInput struct {
	Content  *string `json:"content" validate:"omitempty,min=1,max=10000"`
	IsPublic *bool   `json:"isPublic"`
}

// Create attaches a note to one of the caller's books.
func (s *NoteService) Create(ctx context.Context, userID string, in CreateNoteInput) (*entity.Note, error) {
	in.Content = strings.TrimSpace(in.Content)
	if err := validate(&in); err != nil {
		return nil, err
	}
	if _, err := s.Books.GetByID(ctx, userID, in.BookID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, notFound(ErrBookNotFound.Error())
		}
		return nil, s.storeError(err, "load book for note failed")
	}
	n := &entity.Note{UserID: userID, BookID: in.BookID, Content: in.Content, IsPublic: in.IsPublic}
	if err := s.Notes.Create(ctx, n); err != nil {
		return nil, s.storeError(err, "create note failed")
	}
	return n, nil
}

// List returns the caller's notes, optionally for a single book.
func (s *NoteService) List(ctx context.Context, userID, bookID string) ([]entity.Note, error) {
	notes, err := s.Notes.ListByUser(ctx, userID, strings.TrimSpace(bookID), false)
	if err != nil {
		return nil, s.storeError(err, "list notes failed")
	}
	return notes, nil
}

func (s *NoteService) Update(ctx context.Context, userID, id string, in UpdateNoteInput) (*entity.Note, error) {
	if in.Content != nil {
		c := strings.TrimSpace(*in.Content)
		in.Content = &c
	}
	if err := validate(&in); err != nil {
		return nil, err
	}
	n, err := s.Notes.GetByID(ctx, userID, id)
	if err != nil {
		return nil, s.storeError(err, "get note failed")
	}
	if in.Content != nil {
		n.Content = *in.Content
	}
	if in.IsPublic != nil {
		n.IsPublic = *in.IsPublic
	}
	if err := s.Notes.Update(ctx, n); err != nil {
		return nil, s.storeError(err, "update note failed")
	}
	return n, nil
}

func (s *NoteService) Delete(ctx context.Context, userID, id string) error {
	if err := s.Notes.Delete(ctx, userID, id); err != nil {
		return s.storeError(err, "delete note failed")
	}
	return nil
}

func (s *NoteService) storeError(err error, msg string) error {
	if errors.Is(err, repo.ErrNotFound) {
		return notFound(ErrNoteNotFound.Error())
	}
	helpers.LogError(s.Logger, msg, err, nil)
	return internal(err)
}
