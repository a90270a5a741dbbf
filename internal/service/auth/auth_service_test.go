package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/ougirez/tripplanner/internal/domain"
	"github.com/ougirez/tripplanner/internal/pkg/constants"
	"github.com/ougirez/tripplanner/internal/pkg/store"
	"github.com/ougirez/tripplanner/internal/pkg/utils"
	"github.com/spf13/viper"
)

func TestLogin(t *testing.T) {
	viper.Set(constants.ViperSecretKey, "test-secret")
	ctx := context.Background()
	svc := NewAuthService(store.NewMemoryStore())

	if err := svc.Register(ctx, " alice ", "pw"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := svc.Register(ctx, "alice", "pw"); !errors.Is(err, constants.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}

	res, err := svc.Login(ctx, "alice", "pw")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	token, err := utils.ParseAuthToken(res.AuthToken)
	if err != nil || token.Username != "alice" {
		t.Fatalf("bad token: %v %+v", err, token)
	}
	// a fresh account starts from the default trip
	data := res.Session.Data
	if data.TripInfo.Days != 2 || data.CurrentPage != domain.PageHome || data.SchemaVersion != domain.CurrentSchemaVersion {
		t.Fatalf("unexpected fresh session: %+v", data)
	}

	_, errWrongPw := svc.Login(ctx, "alice", "nope")
	_, errNoUser := svc.Login(ctx, "bob", "pw")
	if !errors.Is(errWrongPw, constants.ErrAuthFailure) || !errors.Is(errNoUser, constants.ErrAuthFailure) {
		t.Fatalf("expected the same generic failure, got %v / %v", errWrongPw, errNoUser)
	}
	if errWrongPw.Error() != errNoUser.Error() {
		t.Fatalf("failure messages must not reveal which credential was wrong")
	}
}

func TestLoadSession_UpgradesLegacyBlob(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	doc := domain.Document{"old": {
		Password: "pw",
		Data: &domain.UserData{
			TripInfo:  domain.TripInfo{Name: "舊", Days: 2, StartDate: "2023-01-01"},
			Itinerary: []domain.ItineraryItem{{Name: "A", Day: 1, Start: "10:00", Cost: 120, Category: domain.BudgetShopping}},
		},
	}}
	if err := st.Save(ctx, doc); err != nil {
		t.Fatalf("Save: %v", err)
	}

	sess, err := NewAuthService(st).LoadSession(ctx, "old")
	if err != nil {
		t.Fatalf("LoadSession: %v", err)
	}
	item := sess.Data.Itinerary[0]
	if len(item.SubBudgets) != 1 || item.SubBudgets[0].Category != domain.BudgetShopping || item.Cost != 120 {
		t.Fatalf("legacy item not upgraded: %+v", item)
	}
	if sess.Data.Candidates == nil {
		t.Fatalf("expected favorites list initialized")
	}

	if _, err := NewAuthService(st).LoadSession(ctx, "ghost"); !errors.Is(err, constants.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()
	svc := NewAuthService(store.NewMemoryStore())
	_ = svc.Register(ctx, "alice", "old")

	if err := svc.ChangePassword(ctx, "alice", "wrong", "new"); !errors.Is(err, constants.ErrAuthFailure) {
		t.Fatalf("expected ErrAuthFailure, got %v", err)
	}
	if err := svc.ChangePassword(ctx, "alice", "old", "new"); err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}
	if _, err := svc.Login(ctx, "alice", "new"); err != nil {
		t.Fatalf("Login with new password: %v", err)
	}
}
