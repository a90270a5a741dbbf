package itinerary

import (
	"context"
	"fmt"
	"strings"

	"github.com/ougirez/tripplanner/internal/domain"
	"github.com/ougirez/tripplanner/internal/pkg/constants"
)

// Defaults applied to items built from each source.
const (
	DefaultDuration         = 60
	NightMarketDuration     = 90
	NightMarketCost         = 300
	DefaultCandidateStart   = "10:00"
	DefaultPOIStart         = "14:00"
	DefaultNightMarketStart = "18:00"
	DefaultManualStart      = "09:00"
	DefaultFavoriteStart    = "10:00"
	UnnamedEntry            = "未命名"
	noteNightMarket         = "夜市"
	noteManual              = "自訂"
	noteCandidatePrefix     = "AI推薦"
	notePOIPrefix           = "自選"
	noteFavoritePrefix      = "候選"
)

func (s *Service) checkDay(sess *domain.Session, day int) error {
	if day < 1 || day > sess.Data.TripInfo.Days {
		return fmt.Errorf("day %d of %d: %w", day, sess.Data.TripInfo.Days, constants.ErrValidation)
	}
	return nil
}

func (s *Service) build(sess *domain.Session, name string, day int, start, defaultStart string, duration int,
	note string, lat, lon float64, cost int, category string) (domain.ItineraryItem, error) {
	if err := s.checkDay(sess, day); err != nil {
		return domain.ItineraryItem{}, err
	}
	if start == "" {
		start = defaultStart
	}
	item, err := domain.NewItem(name, day, start, duration, note, lat, lon, cost, category)
	if err != nil {
		return domain.ItineraryItem{}, fmt.Errorf("%s: %w", err.Error(), constants.ErrValidation)
	}
	return item, nil
}

func (s *Service) AddFromCandidate(ctx context.Context, sess *domain.Session, c domain.Candidate, day int, start string) error {
	item, err := s.build(sess, c.Name, day, start, DefaultCandidateStart, DefaultDuration,
		fmt.Sprintf("%s - %s", noteCandidatePrefix, c.District), c.Latitude, c.Longitude, 0, "")
	if err != nil {
		return err
	}
	return s.Add(ctx, sess, item)
}

func (s *Service) AddFromPOI(ctx context.Context, sess *domain.Session, poi domain.PointOfInterest, day int, start string) error {
	item, err := s.build(sess, poi.Name, day, start, DefaultPOIStart, DefaultDuration,
		fmt.Sprintf("%s - %s", notePOIPrefix, poi.District), poi.Latitude, poi.Longitude, 0, "")
	if err != nil {
		return err
	}
	return s.Add(ctx, sess, item)
}

// AddNightMarket returns a non-empty warning when the market is not open on
// the weekday of the chosen trip day.
func (s *Service) AddNightMarket(ctx context.Context, sess *domain.Session, m domain.NightMarket, day int, start string) (string, error) {
	item, err := s.build(sess, m.Name, day, start, DefaultNightMarketStart, NightMarketDuration,
		noteNightMarket, m.Latitude, m.Longitude, NightMarketCost, domain.BudgetFood)
	if err != nil {
		return "", err
	}
	if err := s.Add(ctx, sess, item); err != nil {
		return "", err
	}

	date, err := sess.Data.TripInfo.DateOf(day)
	if err != nil {
		return "", nil
	}
	if !m.OpenOn(date.Weekday()) {
		return fmt.Sprintf("%s 星期%s 可能沒開", m.Name, domain.WeekdayLabel(date.Weekday())), nil
	}
	return "", nil
}

type ManualEntry struct {
	Name     string
	Address  string
	Day      int
	Start    string
	Cost     int
	Category string
}

// AddManual geocodes the optional address. A miss leaves the coordinates
// at zero and the note without the address.
func (s *Service) AddManual(ctx context.Context, sess *domain.Session, entry ManualEntry) error {
	if entry.Cost < 0 {
		return fmt.Errorf("cost %d: %w", entry.Cost, constants.ErrValidation)
	}
	category, err := normalizeCategory(entry.Category)
	if err != nil {
		return err
	}
	name := strings.TrimSpace(entry.Name)
	if name == "" {
		name = UnnamedEntry
	}

	note := noteManual
	var lat, lon float64
	if addr := strings.TrimSpace(entry.Address); addr != "" && s.geocoder != nil {
		if coords, ok := s.geocoder.Resolve(ctx, addr); ok {
			lat, lon = coords.Latitude, coords.Longitude
			note += " | " + addr
		}
	}

	item, err := s.build(sess, name, entry.Day, entry.Start, DefaultManualStart, DefaultDuration,
		note, lat, lon, entry.Cost, category)
	if err != nil {
		return err
	}
	return s.Add(ctx, sess, item)
}

func (s *Service) AddFromFavorite(ctx context.Context, sess *domain.Session, index, day int, start string) error {
	if index < 0 || index >= len(sess.Data.Candidates) {
		return fmt.Errorf("favorite %d: %w", index, constants.ErrItemNotFound)
	}
	fav := sess.Data.Candidates[index]

	item, err := s.build(sess, fav.Name, day, start, DefaultFavoriteStart, DefaultDuration,
		fmt.Sprintf("%s - %s", noteFavoritePrefix, fav.Note), fav.Latitude, fav.Longitude, fav.Cost, "")
	if err != nil {
		return err
	}
	return s.Add(ctx, sess, item)
}

func FavoriteFromCandidate(c domain.Candidate) domain.Favorite {
	return domain.Favorite{
		Name: c.Name, Note: noteCandidatePrefix,
		Latitude: c.Latitude, Longitude: c.Longitude, ImageURL: c.ImageURL,
	}
}

func FavoriteFromPOI(poi domain.PointOfInterest) domain.Favorite {
	return domain.Favorite{
		Name: poi.Name, Note: notePOIPrefix,
		Latitude: poi.Latitude, Longitude: poi.Longitude, ImageURL: poi.ImageURL,
	}
}

func FavoriteFromNightMarket(m domain.NightMarket) domain.Favorite {
	return domain.Favorite{
		Name: m.Name, Note: noteNightMarket, Cost: NightMarketCost,
		Latitude: m.Latitude, Longitude: m.Longitude, ImageURL: m.ImageURL,
	}
}

// AddFavorite appends fav unless one with the same name exists.
func (s *Service) AddFavorite(ctx context.Context, sess *domain.Session, fav domain.Favorite) (bool, error) {
	for _, f := range sess.Data.Candidates {
		if f.Name == fav.Name {
			return false, nil
		}
	}
	sess.Data.Candidates = append(sess.Data.Candidates, fav)
	return true, s.Persist(ctx, sess)
}

func (s *Service) RemoveFavorite(ctx context.Context, sess *domain.Session, index int) error {
	favs := sess.Data.Candidates
	if index < 0 || index >= len(favs) {
		return fmt.Errorf("favorite %d: %w", index, constants.ErrItemNotFound)
	}
	sess.Data.Candidates = append(favs[:index], favs[index+1:]...)
	return s.Persist(ctx, sess)
}
