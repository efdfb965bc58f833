package application

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/bookshelf/internal/domain/entity"
	repo "github.com/oksasatya/bookshelf/internal/domain/repository"
	"github.com/oksasatya/bookshelf/pkg/helpers"
)

var ErrProfileNotFound = errors.New("profile not found")

// PublicUser is the subset of an account shown on a public profile. It never carries the email.
type PublicUser struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Username    *string `json:"username,omitempty"`
	ProfileSlug *string `json:"profileSlug,omitempty"`
}

type Profile struct {
	User  PublicUser    `json:"user"`
	Books []entity.Book `json:"books"`
	Notes []entity.Note `json:"notes"`
	Stats Stats         `json:"stats"`
}

type ProfileService struct {
	Users  repo.UserRepository
	Books  repo.BookRepository
	Notes  repo.NoteRepository
	Logger *logrus.Logger
}

func NewProfileService(users repo.UserRepository, books repo.BookRepository, notes repo.NoteRepository, logger *logrus.Logger) *ProfileService {
	return &ProfileService{Users: users, Books: books, Notes: notes, Logger: logger}
}

// Get resolves idOrSlug (an id matches first, then a slug) and returns only published content.
func (s *ProfileService) Get(ctx context.Context, idOrSlug string) (*Profile, error) {
	u, err := s.resolve(ctx, strings.TrimSpace(idOrSlug))
	if err != nil {
		return nil, err
	}
	books, err := s.Books.ListByUser(ctx, u.ID, true)
	if err != nil {
		return nil, s.internal(err, "list public books failed")
	}
	notes, err := s.Notes.ListByUser(ctx, u.ID, "", true)
	if err != nil {
		return nil, s.internal(err, "list public notes failed")
	}
	// A public note on a private book would leak that book's id.
	shown := lo.SliceToMap(books, func(b entity.Book) (string, struct{}) { return b.ID, struct{}{} })
	notes = lo.Filter(notes, func(n entity.Note, _ int) bool {
		_, ok := shown[n.BookID]
		return ok
	})
	return &Profile{
		User:  PublicUser{ID: u.ID, Name: u.Name, Username: u.Username, ProfileSlug: u.ProfileSlug},
		Books: books,
		Notes: notes,
		Stats: ComputeStats(books, StatsFilter{}),
	}, nil
}

func (s *ProfileService) resolve(ctx context.Context, key string) (*entity.User, error) {
	if key == "" {
		return nil, notFound(ErrProfileNotFound.Error())
	}
	if _, perr := uuid.Parse(key); perr == nil {
		u, err := s.Users.GetByID(ctx, key)
		if err == nil {
			return u, nil
		}
		if !errors.Is(err, repo.ErrNotFound) {
			return nil, s.internal(err, "profile lookup failed")
		}
	}
	u, err := s.Users.GetBySlug(ctx, strings.ToLower(key))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, notFound(ErrProfileNotFound.Error())
		}
		return nil, s.internal(err, "profile lookup failed")
	}
	return u, nil
}

func (s *ProfileService) internal(err error, msg string) error {
	helpers.LogError(s.Logger, msg, err, nil)
	return internal(err)
}
