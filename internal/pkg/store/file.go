package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/ougirez/tripplanner/internal/domain"
	"github.com/ougirez/tripplanner/internal/pkg/constants"
	"github.com/ougirez/tripplanner/internal/pkg/logger"
)

// NewFileStore keeps every account in one JSON document at path.
func NewFileStore(path string) Store {
	return &documentStore{b: &fileBackend{path: path}}
}

type fileBackend struct {
	path     string
	keepOnce sync.Once
}

func (f *fileBackend) read(ctx context.Context) (domain.Document, error) {
	raw, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return make(domain.Document), nil
	}
	if err != nil {
		return nil, fmt.Errorf("os.ReadFile: %w", err)
	}
	if len(raw) == 0 {
		return make(domain.Document), nil
	}

	doc, degraded, err := decodeDocument(ctx, raw)
	if err != nil {
		aside := f.asidePath()
		if rerr := os.Rename(f.path, aside); rerr != nil {
			return nil, fmt.Errorf("move aside %s: %v: %w", f.path, rerr, constants.ErrStoreCorrupt)
		}
		logger.Warnf(ctx, "%s: %s is not valid JSON (%s), moved to %s", constants.ErrStoreCorrupt.Error(), f.path, err.Error(), aside)
		return make(domain.Document), nil
	}
	if degraded {
		// the next write drops what could not be read, keep the bytes
		f.keepOnce.Do(func() {
			aside := f.asidePath()
			if err := os.WriteFile(aside, raw, 0o600); err != nil {
				logger.Errorf(ctx, "copy %s aside: %s", f.path, err.Error())
				return
			}
			logger.Warnf(ctx, "%s: %s has unreadable accounts, copy kept at %s", constants.ErrStoreCorrupt.Error(), f.path, aside)
		})
	}

	return doc, nil
}

func (f *fileBackend) asidePath() string {
	return fmt.Sprintf("%s.corrupt-%d", f.path, time.Now().Unix())
}

// write replaces the file atomically through a temp file in the same dir.
func (f *fileBackend) write(_ context.Context, doc domain.Document) error {
	raw, err := sonic.ConfigStd.MarshalIndent(doc, "", "    ")
	if err != nil {
		return fmt.Errorf("sonic.MarshalIndent: %w", err)
	}

	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("os.CreateTemp: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp store: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("os.Rename: %w", err)
	}
	return nil
}
