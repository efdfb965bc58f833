package router

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/bookshelf/internal/domain/entity"
	repo "github.com/oksasatya/bookshelf/internal/domain/repository"
)

// memStore backs all three repositories in one map set.
type memStore struct {
	mu    sync.Mutex
	users map[string]entity.User
	books map[string]entity.Book
	notes map[string]entity.Note
}

func newMemStore() *memStore {
	return &memStore{users: map[string]entity.User{}, books: map[string]entity.Book{}, notes: map[string]entity.Note{}}
}

type memUsers struct{ *memStore }
type memBooks struct{ *memStore }
type memNotes struct{ *memStore }

func eq(a, b *string) bool { return a != nil && b != nil && *a == *b }

func (s memUsers) clash(u entity.User) error {
	for _, o := range s.users {
		if o.ID == u.ID {
			continue
		}
		switch {
		case o.Email == u.Email:
			return &repo.DuplicateError{Field: "email"}
		case eq(o.Username, u.Username):
			return &repo.DuplicateError{Field: "username"}
		case eq(o.ProfileSlug, u.ProfileSlug):
			return &repo.DuplicateError{Field: "profile_slug"}
		}
	}
	return nil
}

func (s memUsers) Create(_ context.Context, u *entity.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u.ID = uuid.NewString()
	if err := s.clash(*u); err != nil {
		return err
	}
	u.CreatedAt, u.UpdatedAt = time.Now(), time.Now()
	s.users[u.ID] = *u
	return nil
}

func (s memUsers) find(match func(entity.User) bool) (*entity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if match(u) {
			return &u, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (s memUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	return s.find(func(u entity.User) bool { return u.ID == id })
}

func (s memUsers) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	return s.find(func(u entity.User) bool { return u.Email == email })
}

func (s memUsers) GetByUsername(_ context.Context, name string) (*entity.User, error) {
	return s.find(func(u entity.User) bool { return u.Username != nil && *u.Username == name })
}

func (s memUsers) GetBySlug(_ context.Context, slug string) (*entity.User, error) {
	return s.find(func(u entity.User) bool { return u.ProfileSlug != nil && *u.ProfileSlug == slug })
}

func (s memUsers) update(id string, apply func(*entity.User)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return repo.ErrNotFound
	}
	apply(&u)
	if err := s.clash(u); err != nil {
		return err
	}
	s.users[id] = u
	return nil
}

func (s memUsers) UpdatePassword(_ context.Context, id, hash string) error {
	return s.update(id, func(u *entity.User) { u.PasswordHash = hash })
}

func (s memUsers) UpdateEmail(_ context.Context, id, email string) error {
	return s.update(id, func(u *entity.User) { u.Email = email })
}

func (s memUsers) UpdateUsername(_ context.Context, id, name string) error {
	return s.update(id, func(u *entity.User) { u.Username = &name })
}

func (s memUsers) UpdateSlug(_ context.Context, id, slug string) error {
	return s.update(id, func(u *entity.User) { u.ProfileSlug = &slug })
}

func (s memBooks) Create(_ context.Context, b *entity.Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b.ID = uuid.NewString()
	b.CreatedAt = time.Now()
	s.books[b.ID] = *b
	return nil
}

func (s memBooks) GetByID(_ context.Context, userID, id string) (*entity.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.books[id]
	if !ok || b.UserID != userID {
		return nil, repo.ErrNotFound
	}
	return &b, nil
}

func (s memBooks) ListByUser(_ context.Context, userID string, publicOnly bool) ([]entity.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []entity.Book{}
	for _, b := range s.books {
		if b.UserID == userID && (!publicOnly || b.IsPublic) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s memBooks) Update(_ context.Context, b *entity.Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur, ok := s.books[b.ID]; !ok || cur.UserID != b.UserID {
		return repo.ErrNotFound
	}
	s.books[b.ID] = *b
	return nil
}

func (s memBooks) Delete(_ context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b, ok := s.books[id]; !ok || b.UserID != userID {
		return repo.ErrNotFound
	}
	delete(s.books, id)
	return nil
}

func (s memNotes) Create(_ context.Context, n *entity.Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n.ID = uuid.NewString()
	n.CreatedAt, n.UpdatedAt = time.Now(), time.Now()
	s.notes[n.ID] = *n
	return nil
}

func (s memNotes) GetByID(_ context.Context, userID, id string) (*entity.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notes[id]
	if !ok || n.UserID != userID {
		return nil, repo.ErrNotFound
	}
	return &n, nil
}

func (s memNotes) ListByUser(_ context.Context, userID, bookID string, publicOnly bool) ([]entity.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []entity.Note{}
	for _, n := range s.notes {
		if n.UserID == userID && (bookID == "" || n.BookID == bookID) && (!publicOnly || n.IsPublic) {
			out = append(out, n)
		}
	}
	return out, nil
}

func (s memNotes) Update(_ context.Context, n *entity.Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur, ok := s.notes[n.ID]; !ok || cur.UserID != n.UserID {
		return repo.ErrNotFound
	}
	n.UpdatedAt = time.Now()
	s.notes[n.ID] = *n
	return nil
}

func (s memNotes) Delete(_ context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n, ok := s.notes[id]; !ok || n.UserID != userID {
		return repo.ErrNotFound
	}
	delete(s.notes, id)
	return nil
}
