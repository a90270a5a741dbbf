package store

import (
	"context"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/ougirez/tripplanner/internal/domain"
)

// NewMemoryStore keeps the document in memory. Each read hands out a deep
// copy, so callers never alias the stored state.
func NewMemoryStore() Store {
	return &documentStore{b: &memoryBackend{}}
}

type memoryBackend struct {
	raw []byte
}

func (m *memoryBackend) read(ctx context.Context) (domain.Document, error) {
	if len(m.raw) == 0 {
		return make(domain.Document), nil
	}
	doc, _, err := decodeDocument(ctx, m.raw)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (m *memoryBackend) write(_ context.Context, doc domain.Document) error {
	raw, err := sonic.Marshal(doc)
	if err != nil {
		return fmt.Errorf("sonic.Marshal: %w", err)
	}
	m.raw = raw
	return nil
}
