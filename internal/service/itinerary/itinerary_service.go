package itinerary

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ougirez/tripplanner/internal/domain"
	"github.com/ougirez/tripplanner/internal/pkg/constants"
	"github.com/ougirez/tripplanner/internal/pkg/store"
	"github.com/ougirez/tripplanner/internal/service/geocode"
)

// Geocoder resolves the optional address of a manual entry.
type Geocoder interface {
	Resolve(ctx context.Context, address string) (geocode.Coordinates, bool)
}

// Service mutates the session it is handed and persists the whole current
// blob after every successful change. It keeps no per-user state.
type Service struct {
	store    store.Store
	geocoder Geocoder
	now      func() time.Time
}

func NewItineraryService(store store.Store, geocoder Geocoder) *Service {
	return &Service{store: store, geocoder: geocoder, now: time.Now}
}

// Persist stamps and writes the session blob. A failed write is returned,
// the in-memory change stays.
func (s *Service) Persist(ctx context.Context, sess *domain.Session) error {
	sess.Data.LastModified = domain.NewTimestamp(s.now())
	if err := s.store.UpdateCurrent(ctx, sess.Username, sess.Data); err != nil {
		return fmt.Errorf("store.UpdateCurrent: %w", err)
	}
	return nil
}

func (s *Service) Items(sess *domain.Session) []domain.ItineraryItem {
	return sess.Data.Itinerary
}

func (s *Service) Add(ctx context.Context, sess *domain.Session, item domain.ItineraryItem) error {
	for i := range sess.Data.Itinerary {
		if sess.Data.Itinerary[i].SameSlot(&item) {
			return fmt.Errorf("%s day %d %s: %w", item.Name, item.Day, item.Start, constants.ErrDuplicateEntry)
		}
	}
	if item.SubBudgets == nil {
		item.SubBudgets = []domain.SubBudget{}
	}
	item.RecalculateCost()

	sess.Data.Itinerary = append(sess.Data.Itinerary, item)
	return s.Persist(ctx, sess)
}

func (s *Service) item(sess *domain.Session, index int) (*domain.ItineraryItem, error) {
	if index < 0 || index >= len(sess.Data.Itinerary) {
		return nil, fmt.Errorf("index %d: %w", index, constants.ErrItemNotFound)
	}
	return &sess.Data.Itinerary[index], nil
}

// Move swaps the item with its neighbour in direction (-1 or +1). A target
// outside the list is a no-op and reports moved=false.
func (s *Service) Move(ctx context.Context, sess *domain.Session, index, direction int) (bool, error) {
	if _, err := s.item(sess, index); err != nil {
		return false, err
	}
	if direction != -1 && direction != 1 {
		return false, fmt.Errorf("direction %d: %w", direction, constants.ErrValidation)
	}
	target := index + direction
	items := sess.Data.Itinerary
	if target < 0 || target >= len(items) {
		return false, nil
	}

	items[index], items[target] = items[target], items[index]
	return true, s.Persist(ctx, sess)
}

func (s *Service) Delete(ctx context.Context, sess *domain.Session, index int) error {
	if _, err := s.item(sess, index); err != nil {
		return err
	}
	items := sess.Data.Itinerary
	sess.Data.Itinerary = append(items[:index], items[index+1:]...)
	return s.Persist(ctx, sess)
}

// ReassignDay does not check the day against the trip length.
func (s *Service) ReassignDay(ctx context.Context, sess *domain.Session, index, day int) error {
	item, err := s.item(sess, index)
	if err != nil {
		return err
	}
	item.Day = day
	return s.Persist(ctx, sess)
}

// ItemUpdate carries the item settings form. Empty fields keep their value.
type ItemUpdate struct {
	Name  string
	Day   int
	Start string
	End   string
	Note  *string
}

func (s *Service) UpdateItem(ctx context.Context, sess *domain.Session, index int, upd ItemUpdate) error {
	item, err := s.item(sess, index)
	if err != nil {
		return err
	}

	next := *item
	if name := strings.TrimSpace(upd.Name); name != "" {
		next.Name = name
	}
	if upd.Day > 0 {
		next.Day = upd.Day
	}
	if upd.Start != "" {
		if err := domain.ValidateClock(upd.Start); err != nil {
			return fmt.Errorf("%s: %w", err.Error(), constants.ErrValidation)
		}
		next.Start = upd.Start
	}
	if upd.End != "" {
		if err := domain.ValidateClock(upd.End); err != nil {
			return fmt.Errorf("%s: %w", err.Error(), constants.ErrValidation)
		}
		next.End = upd.End
	}
	if upd.Note != nil {
		next.Note = *upd.Note
	}

	for i := range sess.Data.Itinerary {
		if i != index && sess.Data.Itinerary[i].SameSlot(&next) {
			return fmt.Errorf("%s day %d %s: %w", next.Name, next.Day, next.Start, constants.ErrDuplicateEntry)
		}
	}

	*item = next
	return s.Persist(ctx, sess)
}

func parseCost(text string) (int, bool) {
	cost, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || cost < 0 {
		return 0, false
	}
	return cost, true
}

func normalizeCategory(category string) (string, error) {
	if category == "" {
		return domain.BudgetOther, nil
	}
	if !domain.IsBudgetCategory(category) {
		return "", fmt.Errorf("budget category %q: %w", category, constants.ErrValidation)
	}
	return category, nil
}

func (s *Service) AddSubBudget(ctx context.Context, sess *domain.Session, index int, category, costText, note string) error {
	item, err := s.item(sess, index)
	if err != nil {
		return err
	}
	cost, ok := parseCost(costText)
	if !ok {
		return fmt.Errorf("cost %q: %w", costText, constants.ErrValidation)
	}
	if category, err = normalizeCategory(category); err != nil {
		return err
	}

	item.AddSubBudget(domain.SubBudget{Category: category, Cost: cost, Note: note})
	return s.Persist(ctx, sess)
}

// EditSubBudget keeps the previous cost when costText is not a
// non-negative integer, the previous category when it is empty and the
// previous note when note is nil.
func (s *Service) EditSubBudget(ctx context.Context, sess *domain.Session, index, sub int, category, costText string, note *string) error {
	item, err := s.item(sess, index)
	if err != nil {
		return err
	}
	if sub < 0 || sub >= len(item.SubBudgets) {
		return fmt.Errorf("sub-budget %d: %w", sub, constants.ErrItemNotFound)
	}

	prev := item.SubBudgets[sub]
	next := prev
	if note != nil {
		next.Note = *note
	}
	if category != "" {
		if !domain.IsBudgetCategory(category) {
			return fmt.Errorf("budget category %q: %w", category, constants.ErrValidation)
		}
		next.Category = category
	}
	if cost, ok := parseCost(costText); ok {
		next.Cost = cost
	}

	item.SetSubBudget(sub, next)
	return s.Persist(ctx, sess)
}

func (s *Service) DeleteSubBudget(ctx context.Context, sess *domain.Session, index, sub int) error {
	item, err := s.item(sess, index)
	if err != nil {
		return err
	}
	if !item.RemoveSubBudget(sub) {
		return fmt.Errorf("sub-budget %d: %w", sub, constants.ErrItemNotFound)
	}
	return s.Persist(ctx, sess)
}
