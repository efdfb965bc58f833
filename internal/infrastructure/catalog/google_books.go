package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sethvargo/go-retry"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/bookshelf/pkg/helpers"
)

// ErrUpstream is returned when the catalog API cannot be reached or answers with an error.
var ErrUpstream = errors.New("catalog upstream error")

// Volume is a catalog entry a user can add to their library.
type Volume struct {
	GoogleID   string   `json:"googleId"`
	Title      string   `json:"title"`
	Authors    []string `json:"authors"`
	Thumbnail  string   `json:"thumbnail"`
	Categories []string `json:"categories"`
}

type volumesResponse struct {
	Items []struct {
		ID         string `json:"id"`
		VolumeInfo struct {
			Title      string   `json:"title"`
			Authors    []string `json:"authors"`
			Categories []string `json:"categories"`
			ImageLinks struct {
				Thumbnail string `json:"thumbnail"`
			} `json:"imageLinks"`
		} `json:"volumeInfo"`
	} `json:"items"`
}

// GoogleBooks queries the Google Books volumes API and caches answers in Redis.
type GoogleBooks struct {
	baseURL string
	apiKey  string
	client  *http.Client
	cache   redis.Cmdable
	ttl     time.Duration
	logger  *logrus.Logger
}

// NewGoogleBooks builds a client; cache may be nil to disable caching.
func NewGoogleBooks(baseURL, apiKey string, cache redis.Cmdable, ttl time.Duration, logger *logrus.Logger) *GoogleBooks {
	return &GoogleBooks{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 8 * time.Second},
		cache:   cache,
		ttl:     ttl,
		logger:  logger,
	}
}

func cacheKey(q string) string { return helpers.RedisKey("catalog", "q", url.QueryEscape(strings.ToLower(q))) }

// Search returns volumes matching q.
func (g *GoogleBooks) Search(ctx context.Context, q string) ([]Volume, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return []Volume{}, nil
	}

	if g.cache != nil {
		var cached []Volume
		hit, err := helpers.RedisGetJSON(ctx, g.cache, cacheKey(q), &cached)
		if err != nil {
			helpers.LogError(g.logger, "catalog cache read failed", err, nil)
		} else if hit {
			return cached, nil
		}
	}

	var out []Volume
	backoff := retry.WithMaxRetries(2, retry.NewExponential(200*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		vols, err := g.fetch(ctx, q)
		if err != nil {
			var te *transientError
			if errors.As(err, &te) {
				return retry.RetryableError(err)
			}
			return err
		}
		out = vols
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	if g.cache != nil {
		if err := helpers.RedisSetJSON(ctx, g.cache, cacheKey(q), out, g.ttl); err != nil {
			helpers.LogError(g.logger, "catalog cache write failed", err, nil)
		}
	}
	return out, nil
}

// transientError marks failures worth retrying: transport errors, 429 and 5xx.
type transientError struct{ err error }

func (e *transientError) Error() string { return e.err.Error() }

func (e *transientError) Unwrap() error { return e.err }

func (g *GoogleBooks) fetch(ctx context.Context, q string) ([]Volume, error) {
	params := url.Values{"q": {q}}
	if g.apiKey != "" {
		params.Set("key", g.apiKey)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	res, err := g.client.Do(req)
	if err != nil {
		return nil, &transientError{err: err}
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode >= 500 || res.StatusCode == http.StatusTooManyRequests {
		return nil, &transientError{err: fmt.Errorf("status %d", res.StatusCode)}
	}
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", res.StatusCode)
	}

	var body volumesResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, err
	}
	out := make([]Volume, 0, len(body.Items))
	for _, it := range body.Items {
		out = append(out, Volume{
			GoogleID:   it.ID,
			Title:      it.VolumeInfo.Title,
			Authors:    nonNil(it.VolumeInfo.Authors),
			Thumbnail:  it.VolumeInfo.ImageLinks.Thumbnail,
			Categories: nonNil(it.VolumeInfo.Categories),
		})
	}
	return out, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
