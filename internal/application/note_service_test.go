package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/bookshelf/internal/domain/entity"
)

func TestNoteService_CreateRequiresOwnBook(t *testing.T) {
	books, notes := newFakeBooks(), newFakeNotes()
	svc := NewNoteService(notes, books, nil)
	ctx := context.Background()
	b := &entity.Book{UserID: "owner", GoogleID: "g"}
	require.NoError(t, books.Create(ctx, b))

	_, err := svc.Create(ctx, "intruder", CreateNoteInput{BookID: b.ID, Content: "mine now"})
	requireKind(t, err, KindNotFound)

	_, err = svc.Create(ctx, "owner", CreateNoteInput{BookID: b.ID, Content: "   "})
	requireKind(t, err, KindValidation)

	n, err := svc.Create(ctx, "owner", CreateNoteInput{BookID: b.ID, Content: " great read "})
	require.NoError(t, err)
	assert.Equal(t, "great read", n.Content)
	assert.False(t, n.IsPublic)
}

func TestNoteService_UpdateAndDelete(t *testing.T) {
	books, notes := newFakeBooks(), newFakeNotes()
	svc := NewNoteService(notes, books, nil)
	ctx := context.Background()
	b := &entity.Book{UserID: "owner", GoogleID: "g"}
	require.NoError(t, books.Create(ctx, b))
	n, err := svc.Create(ctx, "owner", CreateNoteInput{BookID: b.ID, Content: "draft"})
	require.NoError(t, err)

	public := true
	_, err = svc.Update(ctx, "intruder", n.ID, UpdateNoteInput{IsPublic: &public})
	requireKind(t, err, KindNotFound)

	empty := " "
	_, err = svc.Update(ctx, "owner", n.ID, UpdateNoteInput{Content: &empty})
	requireKind(t, err, KindValidation)

	upd, err := svc.Update(ctx, "owner", n.ID, UpdateNoteInput{IsPublic: &public})
	require.NoError(t, err)
	assert.Equal(t, "draft", upd.Content)
	assert.True(t, upd.IsPublic)

	listed, err := svc.List(ctx, "owner", b.ID)
	require.NoError(t, err)
	assert.Len(t, listed, 1)

	requireKind(t, svc.Delete(ctx, "intruder", n.ID), KindNotFound)
	require.NoError(t, svc.Delete(ctx, "owner", n.ID))
}
