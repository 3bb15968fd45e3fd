package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/oksasatya/files-manager/internal/domain/entity"
	"github.com/oksasatya/files-manager/internal/domain/repository"
)

const requestTimeout = 3 * time.Second

// FileIndex keeps file names searchable in Elasticsearch. Documents only
// carry what search needs; the metadata store stays the source of truth.
type FileIndex struct {
	ES        *elasticsearch.Client
	IndexName string
}

func NewFileIndex(es *elasticsearch.Client, index string) *FileIndex {
	return &FileIndex{ES: es, IndexName: index}
}

type fileDoc struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	ParentID  string `json:"parent_id"`
	IsPublic  bool   `json:"is_public"`
	CreatedAt string `json:"created_at"`
}

func (x *FileIndex) Index(ctx context.Context, f *entity.File) error {
	doc := fileDoc{
		ID:        f.ID,
		UserID:    f.UserID,
		Name:      f.Name,
		Type:      string(f.Kind),
		ParentID:  string(f.ParentID),
		IsPublic:  f.IsPublic,
		CreatedAt: f.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{Index: x.IndexName, DocumentID: f.ID, Body: bytes.NewReader(b), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, x.ES)
	if err != nil {
		return fmt.Errorf("es index: %w", err)
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("es index: %s", res.Status())
	}
	return nil
}

// Search runs a match on name restricted to the owner's documents.
func (x *FileIndex) Search(ctx context.Context, userID, q string, size int) ([]string, error) {
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"must": []any{
					map[string]any{"match": map[string]any{"name": map[string]any{"query": q, "fuzziness": "AUTO"}}},
				},
				"filter": []any{
					map[string]any{"term": map[string]any{"user_id.keyword": userID}},
				},
			},
		},
		"_source": []string{"id"},
		"size":    size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := x.ES.Search(
		x.ES.Search.WithContext(c),
		x.ES.Search.WithIndex(x.IndexName),
		x.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, fmt.Errorf("es search: %w", err)
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, fmt.Errorf("es search: %s", res.Status())
	}

	var body struct {
		Hits struct {
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("es search decode: %w", err)
	}
	ids := make([]string, 0, len(body.Hits.Hits))
	for _, h := range body.Hits.Hits {
		ids = append(ids, h.ID)
	}
	return ids, nil
}

var _ repository.FileIndex = (*FileIndex)(nil)
