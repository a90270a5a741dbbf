package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/bytedance/sonic"
	"github.com/ougirez/tripplanner/internal/domain"
	"github.com/ougirez/tripplanner/internal/pkg/constants"
	"github.com/ougirez/tripplanner/internal/pkg/logger"
	"github.com/ougirez/tripplanner/internal/pkg/utils"
)

// backend reads and writes the whole account document at once.
type backend interface {
	read(ctx context.Context) (domain.Document, error)
	write(ctx context.Context, doc domain.Document) error
}

// documentStore implements Store as read-modify-write over a backend. The
// mutex serializes writers inside one process.
type documentStore struct {
	mx sync.Mutex
	b  backend
}

func (s *documentStore) Load(ctx context.Context) (domain.Document, error) {
	s.mx.Lock()
	defer s.mx.Unlock()
	return s.b.read(ctx)
}

func (s *documentStore) Save(ctx context.Context, doc domain.Document) error {
	s.mx.Lock()
	defer s.mx.Unlock()
	return s.b.write(ctx, doc)
}

// update runs fn on a fresh copy of the document and writes it back unless
// fn fails.
func (s *documentStore) update(ctx context.Context, fn func(doc domain.Document) error) error {
	s.mx.Lock()
	defer s.mx.Unlock()

	doc, err := s.b.read(ctx)
	if err != nil {
		return err
	}
	if err := fn(doc); err != nil {
		return err
	}
	return s.b.write(ctx, doc)
}

func (s *documentStore) Register(ctx context.Context, username, password string) error {
	if err := validateCredentials(username, password); err != nil {
		return err
	}
	account, err := newAccount(password)
	if err != nil {
		return err
	}

	return s.update(ctx, func(doc domain.Document) error {
		if _, ok := doc[username]; ok {
			return constants.ErrUserExists
		}
		doc[username] = account
		return nil
	})
}

func (s *documentStore) Authenticate(ctx context.Context, username, password string) error {
	doc, err := s.Load(ctx)
	if err != nil {
		return err
	}
	account, ok := doc[username]
	if !ok {
		rejectUnknown(password)
		return constants.ErrAuthFailure
	}

	match, rehash := utils.CheckPassword(account.Password, password)
	if !match {
		return constants.ErrAuthFailure
	}
	if rehash {
		if err := s.ChangePassword(ctx, username, password); err != nil {
			logger.Warnf(ctx, "rehash legacy password, user-%s: %s", username, err.Error())
		}
	}
	return nil
}

func (s *documentStore) ChangePassword(ctx context.Context, username, newPassword string) error {
	if err := validateCredentials(username, newPassword); err != nil {
		return err
	}
	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("utils.HashPassword: %w", err)
	}

	return s.update(ctx, func(doc domain.Document) error {
		account, ok := doc[username]
		if !ok {
			return constants.ErrDBNotFound
		}
		account.Password = hash
		return nil
	})
}

func (s *documentStore) GetAccount(ctx context.Context, username string) (*domain.Account, error) {
	doc, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	account, ok := doc[username]
	if !ok {
		return nil, constants.ErrDBNotFound
	}
	return account, nil
}

func (s *documentStore) UpdateCurrent(ctx context.Context, username string, data *domain.UserData) error {
	return s.update(ctx, func(doc domain.Document) error {
		account, ok := doc[username]
		if !ok {
			return constants.ErrDBNotFound
		}
		account.Data = data
		return nil
	})
}

func (s *documentStore) SaveSnapshot(ctx context.Context, username, name string, snapshot *domain.Snapshot) error {
	return s.update(ctx, func(doc domain.Document) error {
		account, ok := doc[username]
		if !ok {
			return constants.ErrDBNotFound
		}
		account.History[name] = snapshot
		return nil
	})
}

func (s *documentStore) GetSnapshot(ctx context.Context, username, name string) (*domain.Snapshot, error) {
	account, err := s.GetAccount(ctx, username)
	if err != nil {
		return nil, err
	}
	snapshot, ok := account.History[name]
	if !ok {
		return nil, constants.ErrNotFound
	}
	return snapshot, nil
}

func (s *documentStore) DeleteSnapshot(ctx context.Context, username, name string) error {
	return s.update(ctx, func(doc domain.Document) error {
		account, ok := doc[username]
		if !ok {
			return constants.ErrDBNotFound
		}
		if _, ok := account.History[name]; !ok {
			return constants.ErrNotFound
		}
		delete(account.History, name)
		return nil
	})
}

func normalizeDocument(doc domain.Document) domain.Document {
	if doc == nil {
		return make(domain.Document)
	}
	for name, account := range doc {
		if account == nil {
			delete(doc, name)
			continue
		}
		normalizeAccount(account)
	}
	return doc
}

type rawAccount struct {
	Password string                     `json:"password"`
	Data     json.RawMessage            `json:"data"`
	History  map[string]json.RawMessage `json:"history"`
}

// decodeDocument decodes the store one account at a time. An account, blob
// or snapshot that cannot be read is logged and left out; the rest of the
// document survives. degraded reports whether anything was left out.
func decodeDocument(ctx context.Context, raw []byte) (doc domain.Document, degraded bool, err error) {
	var accounts map[string]json.RawMessage
	if err := sonic.Unmarshal(raw, &accounts); err != nil {
		return nil, false, fmt.Errorf("sonic.Unmarshal: %w", err)
	}

	doc = make(domain.Document, len(accounts))
	for username, body := range accounts {
		account, ok := decodeAccountJSON(ctx, username, body)
		if !ok {
			degraded = true
		}
		if account != nil {
			doc[username] = account
		}
	}
	return normalizeDocument(doc), degraded, nil
}

func decodeAccountJSON(ctx context.Context, username string, body json.RawMessage) (*domain.Account, bool) {
	if len(body) == 0 || string(body) == "null" {
		return nil, true
	}

	var ra rawAccount
	if err := sonic.Unmarshal(body, &ra); err != nil {
		logger.Warnf(ctx, "account unreadable, user-%s: %s", username, err.Error())
		return nil, false
	}

	ok := true
	account := &domain.Account{
		Password: ra.Password,
		History:  make(map[string]*domain.Snapshot, len(ra.History)),
	}
	if len(ra.Data) > 0 {
		if err := sonic.Unmarshal(ra.Data, &account.Data); err != nil {
			logger.Warnf(ctx, "account data unreadable, user-%s: %s", username, err.Error())
			account.Data = nil
			ok = false
		}
	}
	for name, snapBody := range ra.History {
		var snap *domain.Snapshot
		if err := sonic.Unmarshal(snapBody, &snap); err != nil {
			logger.Warnf(ctx, "snapshot unreadable, user-%s, name-%s: %s", username, name, err.Error())
			ok = false
			continue
		}
		if snap != nil {
			account.History[name] = snap
		}
	}
	return account, ok
}
