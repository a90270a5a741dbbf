package history

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ougirez/tripplanner/internal/domain"
	"github.com/ougirez/tripplanner/internal/pkg/constants"
	"github.com/ougirez/tripplanner/internal/pkg/logger"
	"github.com/ougirez/tripplanner/internal/pkg/store"
)

type Entry struct {
	Name    string           `json:"name"`
	SavedAt domain.Timestamp `json:"saved_at"`
	Days    int              `json:"days"`
	Items   int              `json:"items"`
}

// Service keeps named snapshots of a user's trip.
type Service struct {
	store store.Store
	now   func() time.Time
}

func NewHistoryService(store store.Store) *Service {
	return &Service{store: store, now: time.Now}
}

// Save freezes the current trip under name, replacing an older snapshot
// with the same name.
func (s *Service) Save(ctx context.Context, sess *domain.Session, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		name = sess.Data.TripInfo.Name
	}
	if name == "" {
		return fmt.Errorf("empty snapshot name: %w", constants.ErrValidation)
	}

	data := sess.Data
	snapshot := &domain.Snapshot{
		TripInfo:        data.TripInfo,
		Itinerary:       append([]domain.ItineraryItem(nil), data.Itinerary...),
		Preferences:     data.Preferences,
		Recommendations: data.Recommendations,
		SavedAt:         domain.NewTimestamp(s.now()),
	}
	if snapshot.Itinerary == nil {
		snapshot.Itinerary = []domain.ItineraryItem{}
	}

	if err := s.store.SaveSnapshot(ctx, sess.Username, name, snapshot); err != nil {
		return fmt.Errorf("store.SaveSnapshot: %w", err)
	}
	logger.Infof(ctx, "snapshot saved, name-%s", name)
	return nil
}

// List returns the snapshots newest first.
func (s *Service) List(ctx context.Context, username string) ([]Entry, error) {
	account, err := s.store.GetAccount(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("store.GetAccount: %w", err)
	}

	res := make([]Entry, 0, len(account.History))
	for name, snap := range account.History {
		res = append(res, Entry{
			Name:    name,
			SavedAt: snap.SavedAt,
			Days:    snap.TripInfo.Days,
			Items:   len(snap.Itinerary),
		})
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].SavedAt.Equal(res[j].SavedAt.Time) {
			return res[i].Name < res[j].Name
		}
		return res[i].SavedAt.After(res[j].SavedAt.Time)
	})
	return res, nil
}

// Restore copies the snapshot into the current blob and persists it.
func (s *Service) Restore(ctx context.Context, sess *domain.Session, name string) error {
	snapshot, err := s.store.GetSnapshot(ctx, sess.Username, name)
	if err != nil {
		return fmt.Errorf("store.GetSnapshot: %w", err)
	}
	domain.UpgradeSnapshot(snapshot)

	data := sess.Data
	data.TripInfo = snapshot.TripInfo
	if data.TripInfo.Days < 1 {
		data.TripInfo.Days = 1
	}
	data.Itinerary = snapshot.Itinerary
	data.Preferences = snapshot.Preferences
	data.Recommendations = snapshot.Recommendations
	data.CurrentPage = domain.PagePlanning
	data.LastModified = domain.NewTimestamp(s.now())

	if err := s.store.UpdateCurrent(ctx, sess.Username, data); err != nil {
		return fmt.Errorf("store.UpdateCurrent: %w", err)
	}
	return nil
}

func (s *Service) Delete(ctx context.Context, username, name string) error {
	if err := s.store.DeleteSnapshot(ctx, username, name); err != nil {
		return fmt.Errorf("store.DeleteSnapshot: %w", err)
	}
	return nil
}
