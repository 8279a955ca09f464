package es

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/greenshop/storefront/internal/models"
)

// UserMirror keeps a redundant copy of each user record in an index keyed
// by the derived user key. It backs userstore.Mirror; divergence from the
// primary row is acceptable and resolved in the primary's favour on read.
type UserMirror struct {
	Client *elasticsearch.Client
	Index  string
}

func NewUserMirror(client *elasticsearch.Client, index string) *UserMirror {
	return &UserMirror{Client: client, Index: index}
}

func (m *UserMirror) Put(ctx context.Context, key string, record models.UserRecord) error {
	body, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("es mirror: encode: %w", err)
	}

	res, err := m.Client.Index(
		m.Index,
		bytes.NewReader(body),
		m.Client.Index.WithDocumentID(key),
		m.Client.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("es mirror: index: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("es mirror: index response: %s", res.Status())
	}
	return nil
}

func (m *UserMirror) Get(ctx context.Context, key string) (*models.UserRecord, error) {
	res, err := m.Client.Get(
		m.Index,
		key,
		m.Client.Get.WithContext(ctx),
	)
	if err != nil {
		return nil, fmt.Errorf("es mirror: get: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == 404 {
		return nil, nil
	}
	if res.IsError() {
		return nil, fmt.Errorf("es mirror: get response: %s", res.Status())
	}

	var doc struct {
		Source models.UserRecord `json:"_source"`
	}
	if err := json.NewDecoder(res.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("es mirror: decode: %w", err)
	}
	return &doc.Source, nil
}
