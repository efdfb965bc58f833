//go:build integration

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

	"github.com/oksasatya/bookshelf/internal/testsupport"
	"github.com/oksasatya/bookshelf/pkg/helpers"
)

func TestIntegration_SearchIsCachedInRedis(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		_, _ = w.Write([]byte(volumesJSON))
	}))
	defer srv.Close()

	rdb := testsupport.StartRedis(t)
	g := NewGoogleBooks(srv.URL, "", rdb, time.Hour, helpers.NewDiscardLogger())
	ctx := context.Background()

	first, err := g.Search(ctx, "Dune")
	require.NoError(t, err)
	require.Len(t, first, 2)

	ttl, err := rdb.TTL(ctx, cacheKey("dune")).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, 59*time.Minute)

	second, err := g.Search(ctx, "DUNE")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "second search is served from the cache")
}
