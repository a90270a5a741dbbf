package store

import (
	"context"
	"fmt"

	"github.com/ougirez/tripplanner/internal/domain"
	"github.com/ougirez/tripplanner/internal/pkg/constants"
)

// Store is the account persistence capability. Implementations: the JSON
// document file, the SQL tables, and the in-memory fake used by tests.
type Store interface {
	// Load returns every account. A missing store is an empty document.
	Load(ctx context.Context) (domain.Document, error)
	// Save replaces the whole store with doc.
	Save(ctx context.Context, doc domain.Document) error

	Register(ctx context.Context, username, password string) error
	Authenticate(ctx context.Context, username, password string) error
	ChangePassword(ctx context.Context, username, newPassword string) error
	GetAccount(ctx context.Context, username string) (*domain.Account, error)
	UpdateCurrent(ctx context.Context, username string, data *domain.UserData) error

	SaveSnapshot(ctx context.Context, username, name string, snapshot *domain.Snapshot) error
	GetSnapshot(ctx context.Context, username, name string) (*domain.Snapshot, error)
	DeleteSnapshot(ctx context.Context, username, name string) error
}

// New builds the store selected by driver. path is used by the file
// driver, dsn by the SQL drivers.
func New(ctx context.Context, driver, path, dsn string) (Store, error) {
	switch driver {
	case "", constants.StoreDriverFile:
		return NewFileStore(path), nil
	case constants.StoreDriverSQLite, constants.StoreDriverPostgres:
		return NewSQLStore(ctx, driver, dsn)
	default:
		return nil, fmt.Errorf("unknown store driver %q: %w", driver, constants.ErrValidation)
	}
}
