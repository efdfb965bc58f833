package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/bookshelf/internal/domain/entity"
	"github.com/oksasatya/bookshelf/pkg/helpers"
)

const requestTimeout = 3 * time.Second

const booksMapping = `{
  "mappings": {
    "properties": {
      "user_id":    {"type": "keyword"},
      "title":      {"type": "text"},
      "authors":    {"type": "text"},
      "tags":       {"type": "text", "fields": {"raw": {"type": "keyword"}}},
      "categories": {"type": "text"},
      "status":     {"type": "keyword"},
      "is_public":  {"type": "boolean"},
      "created_at": {"type": "date"}
    }
  }
}`

// BookIndex keeps a per-user searchable copy of library entries in Elasticsearch.
type BookIndex struct {
	es     *elasticsearch.Client
	index  string
	logger *logrus.Logger
}

func NewBookIndex(es *elasticsearch.Client, index string, logger *logrus.Logger) *BookIndex {
	return &BookIndex{es: es, index: index, logger: logger}
}

type bookDoc struct {
	UserID     string   `json:"user_id"`
	Title      string   `json:"title"`
	Authors    []string `json:"authors"`
	Tags       []string `json:"tags"`
	Categories []string `json:"categories"`
	Status     string   `json:"status"`
	IsPublic   bool     `json:"is_public"`
	CreatedAt  string   `json:"created_at"`
}

// EnsureIndex creates the index with its mapping when it does not exist yet.
func (i *BookIndex) EnsureIndex(ctx context.Context) error {
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := i.es.Indices.Exists([]string{i.index}, i.es.Indices.Exists.WithContext(c))
	if err != nil {
		return err
	}
	_ = res.Body.Close()
	if res.StatusCode == http.StatusOK {
		return nil
	}
	res, err = i.es.Indices.Create(i.index,
		i.es.Indices.Create.WithContext(c),
		i.es.Indices.Create.WithBody(strings.NewReader(booksMapping)))
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("create index %s: %s", i.index, res.Status())
	}
	helpers.LogInfo(i.logger, "search index created", logrus.Fields{"index": i.index})
	return nil
}

func (i *BookIndex) Index(ctx context.Context, b *entity.Book) error {
	doc := bookDoc{
		UserID:     b.UserID,
		Title:      b.Title,
		Authors:    b.Authors,
		Tags:       b.Tags,
		Categories: b.Categories,
		Status:     string(b.Status),
		IsPublic:   b.IsPublic,
		CreatedAt:  b.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{Index: i.index, DocumentID: b.ID, Body: bytes.NewReader(body), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, i.es)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("index book %s: %s", b.ID, res.Status())
	}
	return nil
}

func (i *BookIndex) Remove(ctx context.Context, id string) error {
	req := esapi.DeleteRequest{Index: i.index, DocumentID: id}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, i.es)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("delete book %s: %s", id, res.Status())
	}
	return nil
}

// Search matches q against title, authors, tags and categories within userID's books.
func (i *BookIndex) Search(ctx context.Context, userID, q string, size int) ([]string, error) {
	if size <= 0 || size > 100 {
		size = 20
	}
	query := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"filter": []any{
					map[string]any{"term": map[string]any{"user_id": userID}},
				},
				"must": []any{
					map[string]any{"multi_match": map[string]any{
						"query":     q,
						"fields":    []string{"title^3", "authors^2", "tags", "categories"},
						"fuzziness": "AUTO",
					}},
				},
			},
		},
		"size":    size,
		"_source": false,
	}
	body, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}

	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := i.es.Search(
		i.es.Search.WithContext(c),
		i.es.Search.WithIndex(i.index),
		i.es.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return nil, fmt.Errorf("search %s: %s %s", i.index, res.Status(), msg)
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		ids = append(ids, h.ID)
	}
	return ids, nil
}
