package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ougirez/tripplanner/internal/domain"
	"github.com/ougirez/tripplanner/internal/pkg/constants"
	"github.com/ougirez/tripplanner/internal/pkg/logger"
	"github.com/ougirez/tripplanner/internal/pkg/store"
	"github.com/ougirez/tripplanner/internal/pkg/utils"
)

type Service struct {
	store store.Store
	now   func() time.Time
}

func NewAuthService(store store.Store) *Service {
	return &Service{store: store, now: time.Now}
}

type LoginResult struct {
	AuthToken string
	Session   *domain.Session
}

func (svc *Service) Register(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	if err := svc.store.Register(ctx, username, password); err != nil {
		return fmt.Errorf("store.Register: %w", err)
	}
	logger.Infof(ctx, "registered, user-%s", username)
	return nil
}

func (svc *Service) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	username = strings.TrimSpace(username)
	if err := svc.store.Authenticate(ctx, username, password); err != nil {
		return nil, err
	}

	sess, err := svc.LoadSession(ctx, username)
	if err != nil {
		return nil, err
	}

	authToken, err := utils.GenerateAuthToken(&utils.AuthTokenWrapper{Username: username})
	if err != nil {
		return nil, err
	}

	logger.Debugf(ctx, "login: user: [%s]", username)
	return &LoginResult{AuthToken: authToken, Session: sess}, nil
}

// LoadSession reads the current blob and upgrades it for use by the
// engine. Blank or legacy blobs come back ready to use.
func (svc *Service) LoadSession(ctx context.Context, username string) (*domain.Session, error) {
	account, err := svc.store.GetAccount(ctx, username)
	if errors.Is(err, constants.ErrDBNotFound) {
		return nil, constants.ErrUnauthorized
	}
	if err != nil {
		return nil, fmt.Errorf("store.GetAccount: %w", err)
	}
	return domain.NewSession(username, account.Data, svc.now()), nil
}

// ChangePassword requires the current password.
func (svc *Service) ChangePassword(ctx context.Context, username, oldPassword, newPassword string) error {
	if err := svc.store.Authenticate(ctx, username, oldPassword); err != nil {
		return err
	}
	if err := svc.store.ChangePassword(ctx, username, newPassword); err != nil {
		return fmt.Errorf("store.ChangePassword: %w", err)
	}
	return nil
}
