package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/ougirez/tripplanner/internal/domain"
	"github.com/ougirez/tripplanner/internal/pkg/constants"
	"github.com/ougirez/tripplanner/internal/pkg/utils"
)

const (
	tableAccounts  = "accounts"
	tableSnapshots = "snapshots"
)

var mapping = map[error]error{sql.ErrNoRows: constants.ErrDBNotFound}

// rejectUnknown is swapped out in tests.
var rejectUnknown = utils.RejectUnknown

func wrapErr(err error) error {
	for k, v := range mapping {
		if errors.Is(err, k) {
			return v
		}
	}
	return err
}

// builder возвращает squirrel SQL Builder обьект.
func builder(format squirrel.PlaceholderFormat) squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(format)
}

func validateCredentials(username, password string) error {
	if strings.TrimSpace(username) == "" || password == "" {
		return fmt.Errorf("empty username or password: %w", constants.ErrValidation)
	}
	return nil
}

func newAccount(password string) (*domain.Account, error) {
	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("utils.HashPassword: %w", err)
	}
	return &domain.Account{
		Password: hash,
		Data:     &domain.UserData{},
		History:  make(map[string]*domain.Snapshot),
	}, nil
}

func normalizeAccount(a *domain.Account) {
	if a.Data == nil {
		a.Data = &domain.UserData{}
	}
	if a.History == nil {
		a.History = make(map[string]*domain.Snapshot)
	}
}
