package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/bytedance/sonic"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	"github.com/ougirez/tripplanner/internal/domain"
	"github.com/ougirez/tripplanner/internal/pkg/constants"
	"github.com/ougirez/tripplanner/internal/pkg/logger"
	"github.com/ougirez/tripplanner/internal/pkg/utils"
)

const schema = `
CREATE TABLE IF NOT EXISTS accounts (
    username   TEXT PRIMARY KEY,
    password   TEXT NOT NULL,
    data       TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE IF NOT EXISTS snapshots (
    username TEXT NOT NULL REFERENCES accounts (username) ON DELETE CASCADE,
    name     TEXT NOT NULL,
    payload  TEXT NOT NULL,
    saved_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (username, name)
);`

// sqlStore keeps accounts and snapshots in two tables. The same queries run
// on sqlite3 and postgres; only the placeholder format differs.
type sqlStore struct {
	db     *sql.DB
	format squirrel.PlaceholderFormat
}

// NewSQLStore opens dsn with driver ("sqlite3" or "pgx") and creates the
// tables when missing.
func NewSQLStore(ctx context.Context, driver, dsn string) (Store, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("sql.Open: %w", err)
	}

	var format squirrel.PlaceholderFormat = squirrel.Dollar
	if driver == constants.StoreDriverSQLite {
		format = squirrel.Question
		// one connection keeps ":memory:" databases and pragmas consistent
		db.SetMaxOpenConns(1)
		if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("enable foreign keys: %w", err)
		}
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db.Ping: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &sqlStore{db: db, format: format}, nil
}

func (s *sqlStore) builder() squirrel.StatementBuilderType {
	return builder(s.format)
}

func (s *sqlStore) Close() error {
	return s.db.Close()
}

func (s *sqlStore) Load(ctx context.Context) (domain.Document, error) {
	doc, err := s.loadAccounts(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.loadSnapshots(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *sqlStore) loadAccounts(ctx context.Context) (domain.Document, error) {
	rows, err := s.builder().
		Select("username", "password", "data").
		From(tableAccounts).
		RunWith(s.db).
		QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("select accounts: %w", err)
	}
	defer rows.Close()

	doc := make(domain.Document)
	for rows.Next() {
		var username, password, data string
		if err := rows.Scan(&username, &password, &data); err != nil {
			return nil, fmt.Errorf("rows.Scan: %w", err)
		}
		doc[username] = s.decodeAccount(ctx, username, password, data)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows.Err: %w", err)
	}
	return doc, nil
}

func (s *sqlStore) loadSnapshots(ctx context.Context, doc domain.Document) error {
	rows, err := s.builder().
		Select("username", "name", "payload").
		From(tableSnapshots).
		RunWith(s.db).
		QueryContext(ctx)
	if err != nil {
		return fmt.Errorf("select snapshots: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var username, name, payload string
		if err := rows.Scan(&username, &name, &payload); err != nil {
			return fmt.Errorf("rows.Scan: %w", err)
		}
		account, ok := doc[username]
		if !ok {
			continue
		}
		var snapshot domain.Snapshot
		if err := sonic.UnmarshalString(payload, &snapshot); err != nil {
			logger.Warnf(ctx, "snapshot unreadable, user-%s name-%s: %s", username, name, err.Error())
			continue
		}
		account.History[name] = &snapshot
	}
	return rows.Err()
}

func (s *sqlStore) decodeAccount(ctx context.Context, username, password, data string) *domain.Account {
	account := &domain.Account{Password: password}
	if err := sonic.UnmarshalString(data, &account.Data); err != nil {
		logger.Warnf(ctx, "account data unreadable, user-%s: %s", username, err.Error())
	}
	normalizeAccount(account)
	return account
}

func (s *sqlStore) Save(ctx context.Context, doc domain.Document) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("db.BeginTx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = s.builder().Delete(tableSnapshots).RunWith(tx).ExecContext(ctx); err != nil {
		return fmt.Errorf("delete snapshots: %w", err)
	}
	if _, err = s.builder().Delete(tableAccounts).RunWith(tx).ExecContext(ctx); err != nil {
		return fmt.Errorf("delete accounts: %w", err)
	}

	for username, account := range doc {
		if account == nil {
			continue
		}
		var data string
		if data, err = sonic.MarshalString(account.Data); err != nil {
			return fmt.Errorf("sonic.Marshal: %w", err)
		}
		if _, err = s.builder().
			Insert(tableAccounts).
			Columns("username", "password", "data").
			Values(username, account.Password, data).
			RunWith(tx).
			ExecContext(ctx); err != nil {
			return fmt.Errorf("insert account: %w", err)
		}

		for name, snapshot := range account.History {
			if err = s.insertSnapshot(ctx, tx, username, name, snapshot); err != nil {
				return err
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("tx.Commit: %w", err)
	}
	return nil
}

func (s *sqlStore) insertSnapshot(ctx context.Context, runner squirrel.BaseRunner, username, name string, snapshot *domain.Snapshot) error {
	payload, err := sonic.MarshalString(snapshot)
	if err != nil {
		return fmt.Errorf("sonic.Marshal: %w", err)
	}
	_, err = s.builder().
		Insert(tableSnapshots).
		Columns("username", "name", "payload").
		Values(username, name, payload).
		Suffix("ON CONFLICT (username, name) DO UPDATE SET payload = excluded.payload, saved_at = CURRENT_TIMESTAMP").
		RunWith(runner).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("upsert snapshot: %w", err)
	}
	return nil
}

func (s *sqlStore) Register(ctx context.Context, username, password string) error {
	if err := validateCredentials(username, password); err != nil {
		return err
	}
	account, err := newAccount(password)
	if err != nil {
		return err
	}
	data, err := sonic.MarshalString(account.Data)
	if err != nil {
		return fmt.Errorf("sonic.Marshal: %w", err)
	}

	res, err := s.builder().
		Insert(tableAccounts).
		Columns("username", "password", "data").
		Values(username, account.Password, data).
		Suffix("ON CONFLICT (username) DO NOTHING").
		RunWith(s.db).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("insert account: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return constants.ErrUserExists
	}
	return nil
}

func (s *sqlStore) password(ctx context.Context, username string) (string, error) {
	var password string
	err := s.builder().
		Select("password").
		From(tableAccounts).
		Where(squirrel.Eq{"username": username}).
		RunWith(s.db).
		QueryRowContext(ctx).
		Scan(&password)
	if err != nil {
		return "", wrapErr(err)
	}
	return password, nil
}

func (s *sqlStore) Authenticate(ctx context.Context, username, password string) error {
	stored, err := s.password(ctx, username)
	if errors.Is(err, constants.ErrDBNotFound) {
		rejectUnknown(password)
		return constants.ErrAuthFailure
	}
	if err != nil {
		return fmt.Errorf("select password: %w", err)
	}

	match, rehash := utils.CheckPassword(stored, password)
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

func (s *sqlStore) ChangePassword(ctx context.Context, username, newPassword string) error {
	if err := validateCredentials(username, newPassword); err != nil {
		return err
	}
	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("utils.HashPassword: %w", err)
	}
	return s.updateAccount(ctx, username, map[string]interface{}{"password": hash})
}

func (s *sqlStore) updateAccount(ctx context.Context, username string, values map[string]interface{}) error {
	res, err := s.builder().
		Update(tableAccounts).
		SetMap(values).
		Set("updated_at", squirrel.Expr("CURRENT_TIMESTAMP")).
		Where(squirrel.Eq{"username": username}).
		RunWith(s.db).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return constants.ErrDBNotFound
	}
	return nil
}

func (s *sqlStore) GetAccount(ctx context.Context, username string) (*domain.Account, error) {
	var password, data string
	err := s.builder().
		Select("password", "data").
		From(tableAccounts).
		Where(squirrel.Eq{"username": username}).
		RunWith(s.db).
		QueryRowContext(ctx).
		Scan(&password, &data)
	if err != nil {
		return nil, wrapErr(err)
	}

	account := s.decodeAccount(ctx, username, password, data)

	rows, err := s.builder().
		Select("name", "payload").
		From(tableSnapshots).
		Where(squirrel.Eq{"username": username}).
		RunWith(s.db).
		QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("select snapshots: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var name, payload string
		if err := rows.Scan(&name, &payload); err != nil {
			return nil, fmt.Errorf("rows.Scan: %w", err)
		}
		var snapshot domain.Snapshot
		if err := sonic.UnmarshalString(payload, &snapshot); err != nil {
			logger.Warnf(ctx, "snapshot unreadable, user-%s name-%s: %s", username, name, err.Error())
			continue
		}
		account.History[name] = &snapshot
	}
	return account, rows.Err()
}

func (s *sqlStore) UpdateCurrent(ctx context.Context, username string, data *domain.UserData) error {
	raw, err := sonic.MarshalString(data)
	if err != nil {
		return fmt.Errorf("sonic.Marshal: %w", err)
	}
	return s.updateAccount(ctx, username, map[string]interface{}{"data": raw})
}

func (s *sqlStore) SaveSnapshot(ctx context.Context, username, name string, snapshot *domain.Snapshot) error {
	if _, err := s.password(ctx, username); err != nil {
		return err
	}
	return s.insertSnapshot(ctx, s.db, username, name, snapshot)
}

func (s *sqlStore) GetSnapshot(ctx context.Context, username, name string) (*domain.Snapshot, error) {
	var payload string
	err := s.builder().
		Select("payload").
		From(tableSnapshots).
		Where(squirrel.Eq{"username": username, "name": name}).
		RunWith(s.db).
		QueryRowContext(ctx).
		Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, constants.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select snapshot: %w", err)
	}

	var snapshot domain.Snapshot
	if err := sonic.UnmarshalString(payload, &snapshot); err != nil {
		return nil, fmt.Errorf("sonic.Unmarshal: %w", err)
	}
	return &snapshot, nil
}

func (s *sqlStore) DeleteSnapshot(ctx context.Context, username, name string) error {
	res, err := s.builder().
		Delete(tableSnapshots).
		Where(squirrel.Eq{"username": username, "name": name}).
		RunWith(s.db).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return constants.ErrNotFound
	}
	return nil
}
