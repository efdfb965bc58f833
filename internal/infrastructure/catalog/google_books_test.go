package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/bookshelf/pkg/helpers"
)

const volumesJSON = `{
  "items": [
    {"id": "abc", "volumeInfo": {"title": "Dune", "authors": ["Frank Herbert"],
      "categories": ["Fiction"], "imageLinks": {"thumbnail": "http://img/abc"}}},
    {"id": "def", "volumeInfo": {"title": "Untitled"}}
  ]
}`

func TestGoogleBooks_Search_MapsVolumes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "dune", r.URL.Query().Get("q"))
		assert.Equal(t, "k", r.URL.Query().Get("key"))
		_, _ = w.Write([]byte(volumesJSON))
	}))
	defer srv.Close()

	g := NewGoogleBooks(srv.URL, "k", nil, time.Minute, helpers.NewDiscardLogger())
	vols, err := g.Search(context.Background(), " dune ")
	require.NoError(t, err)
	require.Len(t, vols, 2)
	assert.Equal(t, Volume{GoogleID: "abc", Title: "Dune", Authors: []string{"Frank Herbert"},
		Thumbnail: "http://img/abc", Categories: []string{"Fiction"}}, vols[0])
	assert.NotNil(t, vols[1].Authors)
}

func TestGoogleBooks_Search_EmptyQuery(t *testing.T) {
	g := NewGoogleBooks("http://unused.invalid", "", nil, time.Minute, nil)
	vols, err := g.Search(context.Background(), "  ")
	require.NoError(t, err)
	assert.Empty(t, vols)
}

func TestGoogleBooks_Search_RetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"items": []}`))
	}))
	defer srv.Close()

	g := NewGoogleBooks(srv.URL, "", nil, time.Minute, nil)
	vols, err := g.Search(context.Background(), "x")
	require.NoError(t, err)
	assert.Empty(t, vols)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestGoogleBooks_Search_ClientErrorIsUpstream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	g := NewGoogleBooks(srv.URL, "", nil, time.Minute, nil)
	_, err := g.Search(context.Background(), "x")
	require.ErrorIs(t, err, ErrUpstream)
}
