package itinerary

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ougirez/tripplanner/internal/domain"
	"github.com/ougirez/tripplanner/internal/pkg/constants"
	"github.com/ougirez/tripplanner/internal/pkg/store"
	"github.com/ougirez/tripplanner/internal/service/geocode"
)

type fakeGeocoder struct {
	hits map[string]geocode.Coordinates
}

func (f *fakeGeocoder) Resolve(_ context.Context, address string) (geocode.Coordinates, bool) {
	c, ok := f.hits[address]
	return c, ok
}

var fixedNow = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

func setup(t *testing.T) (*Service, *domain.Session, store.Store) {
	t.Helper()
	st := store.NewMemoryStore()
	if err := st.Register(context.Background(), "alice", "pw"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	svc := NewItineraryService(st, &fakeGeocoder{hits: map[string]geocode.Coordinates{
		"高雄市中正四路211號": {Latitude: 22.6, Longitude: 120.3},
	}})
	svc.now = func() time.Time { return fixedNow }

	sess := domain.NewSession("alice", nil, fixedNow)
	// 2024-05-05 is a Sunday
	sess.Data.TripInfo = domain.TripInfo{Name: "test", Days: 3, StartDate: "2024-05-05", Budget: 5000}
	return svc, sess, st
}

func item(name string, day int, start string, costs ...int) domain.ItineraryItem {
	it := domain.ItineraryItem{Name: name, Day: day, Start: start, End: start, SubBudgets: []domain.SubBudget{}}
	for _, c := range costs {
		it.SubBudgets = append(it.SubBudgets, domain.SubBudget{Category: domain.BudgetOther, Cost: c})
	}
	return it
}

func assertCosts(t *testing.T, sess *domain.Session) {
	t.Helper()
	for _, it := range sess.Data.Itinerary {
		sum := 0
		for _, sub := range it.SubBudgets {
			sum += sub.Cost
		}
		if it.Cost != sum {
			t.Fatalf("cost invariant broken on %s: cost %d, sum %d", it.Name, it.Cost, sum)
		}
	}
}

func TestAdd_DuplicateSlot(t *testing.T) {
	svc, sess, _ := setup(t)
	ctx := context.Background()

	if err := svc.Add(ctx, sess, item("西子灣", 1, "10:00")); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := svc.Add(ctx, sess, item("西子灣", 1, "10:00")); !errors.Is(err, constants.ErrDuplicateEntry) {
		t.Fatalf("expected ErrDuplicateEntry, got %v", err)
	}
	if err := svc.Add(ctx, sess, item("西子灣", 1, "11:00")); err != nil {
		t.Fatalf("different start must be accepted: %v", err)
	}
	if len(sess.Data.Itinerary) != 2 {
		t.Fatalf("expected 2 items, got %d", len(sess.Data.Itinerary))
	}
}

func TestAdd_PersistsBlob(t *testing.T) {
	svc, sess, st := setup(t)
	ctx := context.Background()

	if err := svc.Add(ctx, sess, item("駁二", 1, "10:00", 50)); err != nil {
		t.Fatalf("Add: %v", err)
	}
	account, err := st.GetAccount(ctx, "alice")
	if err != nil {
		t.Fatalf("GetAccount: %v", err)
	}
	if len(account.Data.Itinerary) != 1 || account.Data.Itinerary[0].Cost != 50 {
		t.Fatalf("blob not persisted: %+v", account.Data.Itinerary)
	}
	if !account.Data.LastModified.Equal(fixedNow) {
		t.Fatalf("last_modified not stamped: %v", account.Data.LastModified)
	}
}

func TestMove(t *testing.T) {
	svc, sess, _ := setup(t)
	ctx := context.Background()
	_ = svc.Add(ctx, sess, item("A", 1, "09:00"))
	_ = svc.Add(ctx, sess, item("B", 1, "10:00"))

	moved, err := svc.Move(ctx, sess, 1, 1)
	if err != nil || moved {
		t.Fatalf("forward move at last index must be a no-op, got moved=%v err=%v", moved, err)
	}
	moved, err = svc.Move(ctx, sess, 0, -1)
	if err != nil || moved {
		t.Fatalf("backward move at first index must be a no-op, got moved=%v err=%v", moved, err)
	}
	if sess.Data.Itinerary[0].Name != "A" {
		t.Fatalf("no-op changed order")
	}

	moved, err = svc.Move(ctx, sess, 0, 1)
	if err != nil || !moved || sess.Data.Itinerary[0].Name != "B" {
		t.Fatalf("expected swap, got moved=%v err=%v order=%s", moved, err, sess.Data.Itinerary[0].Name)
	}
	if _, err := svc.Move(ctx, sess, 5, 1); !errors.Is(err, constants.ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}
}

func TestDeleteAndReassign(t *testing.T) {
	svc, sess, _ := setup(t)
	ctx := context.Background()
	_ = svc.Add(ctx, sess, item("A", 1, "09:00"))
	_ = svc.Add(ctx, sess, item("B", 1, "10:00"))

	if err := svc.ReassignDay(ctx, sess, 1, 9); err != nil {
		t.Fatalf("ReassignDay beyond trip length must be accepted: %v", err)
	}
	if sess.Data.Itinerary[1].Day != 9 {
		t.Fatalf("day not reassigned")
	}
	if err := svc.Delete(ctx, sess, 0); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(sess.Data.Itinerary) != 1 || sess.Data.Itinerary[0].Name != "B" {
		t.Fatalf("unexpected items after delete: %+v", sess.Data.Itinerary)
	}
	if err := svc.Delete(ctx, sess, 3); !errors.Is(err, constants.ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}
}

func TestUpdateItem(t *testing.T) {
	svc, sess, _ := setup(t)
	ctx := context.Background()
	_ = svc.Add(ctx, sess, item("A", 1, "09:00"))
	_ = svc.Add(ctx, sess, item("A", 1, "10:00"))

	note := "早點到"
	if err := svc.UpdateItem(ctx, sess, 0, ItemUpdate{Start: "08:30", End: "09:15", Note: &note}); err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}
	got := sess.Data.Itinerary[0]
	if got.Start != "08:30" || got.End != "09:15" || got.Note != note {
		t.Fatalf("unexpected item: %+v", got)
	}
	if err := svc.UpdateItem(ctx, sess, 0, ItemUpdate{Start: "8:30"}); !errors.Is(err, constants.ErrValidation) {
		t.Fatalf("expected ErrValidation for bad clock, got %v", err)
	}
	if err := svc.UpdateItem(ctx, sess, 0, ItemUpdate{Start: "10:00"}); !errors.Is(err, constants.ErrDuplicateEntry) {
		t.Fatalf("expected ErrDuplicateEntry, got %v", err)
	}
}

func TestSubBudgets_CostInvariant(t *testing.T) {
	svc, sess, _ := setup(t)
	ctx := context.Background()
	_ = svc.Add(ctx, sess, item("蓮池潭", 1, "09:00"))

	if err := svc.AddSubBudget(ctx, sess, 0, domain.BudgetFood, "120", "午餐"); err != nil {
		t.Fatalf("AddSubBudget: %v", err)
	}
	if err := svc.AddSubBudget(ctx, sess, 0, "", " 80 ", ""); err != nil {
		t.Fatalf("AddSubBudget: %v", err)
	}
	assertCosts(t, sess)
	if sess.Data.Itinerary[0].Cost != 200 || sess.Data.Itinerary[0].SubBudgets[1].Category != domain.BudgetOther {
		t.Fatalf("unexpected item: %+v", sess.Data.Itinerary[0])
	}

	for _, bad := range []string{"abc", "-5", ""} {
		if err := svc.AddSubBudget(ctx, sess, 0, domain.BudgetFood, bad, ""); !errors.Is(err, constants.ErrValidation) {
			t.Fatalf("cost %q: expected ErrValidation, got %v", bad, err)
		}
	}
	if err := svc.AddSubBudget(ctx, sess, 0, "咖啡", "10", ""); !errors.Is(err, constants.ErrValidation) {
		t.Fatalf("expected ErrValidation for unknown category, got %v", err)
	}

	// invalid cost keeps the previous value
	note := "改搭捷運"
	if err := svc.EditSubBudget(ctx, sess, 0, 0, domain.BudgetTransport, "oops", &note); err != nil {
		t.Fatalf("EditSubBudget: %v", err)
	}
	sub := sess.Data.Itinerary[0].SubBudgets[0]
	if sub.Cost != 120 || sub.Category != domain.BudgetTransport || sub.Note != "改搭捷運" {
		t.Fatalf("unexpected sub-budget: %+v", sub)
	}
	// a cost-only edit keeps category and note
	if err := svc.EditSubBudget(ctx, sess, 0, 0, "", "60", nil); err != nil {
		t.Fatalf("EditSubBudget: %v", err)
	}
	assertCosts(t, sess)
	if sub := sess.Data.Itinerary[0].SubBudgets[0]; sub.Note != "改搭捷運" || sub.Category != domain.BudgetTransport || sub.Cost != 60 {
		t.Fatalf("cost-only edit changed other fields: %+v", sub)
	}
	if sess.Data.Itinerary[0].Cost != 140 {
		t.Fatalf("expected 140, got %d", sess.Data.Itinerary[0].Cost)
	}

	if err := svc.DeleteSubBudget(ctx, sess, 0, 1); err != nil {
		t.Fatalf("DeleteSubBudget: %v", err)
	}
	assertCosts(t, sess)
	if err := svc.DeleteSubBudget(ctx, sess, 0, 4); !errors.Is(err, constants.ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}
}

func TestAddFromSources(t *testing.T) {
	svc, sess, _ := setup(t)
	ctx := context.Background()

	cand := domain.Candidate{PointOfInterest: domain.PointOfInterest{ID: "1", Name: "駁二", District: "鹽埕區"}}
	if err := svc.AddFromCandidate(ctx, sess, cand, 1, ""); err != nil {
		t.Fatalf("AddFromCandidate: %v", err)
	}
	got := sess.Data.Itinerary[0]
	if got.Start != "10:00" || got.End != "11:00" || got.Note != "AI推薦 - 鹽埕區" {
		t.Fatalf("unexpected candidate item: %+v", got)
	}

	poi := domain.PointOfInterest{ID: "2", Name: "旗津", District: "旗津區"}
	if err := svc.AddFromPOI(ctx, sess, poi, 2, ""); err != nil {
		t.Fatalf("AddFromPOI: %v", err)
	}
	if got := sess.Data.Itinerary[1]; got.Start != "14:00" || got.Note != "自選 - 旗津區" {
		t.Fatalf("unexpected poi item: %+v", got)
	}

	if err := svc.AddFromPOI(ctx, sess, poi, 4, ""); !errors.Is(err, constants.ErrValidation) {
		t.Fatalf("expected ErrValidation for day beyond trip, got %v", err)
	}
	if err := svc.AddFromPOI(ctx, sess, poi, 1, "25:00"); !errors.Is(err, constants.ErrValidation) {
		t.Fatalf("expected ErrValidation for bad start, got %v", err)
	}
	assertCosts(t, sess)
}

func TestAddNightMarket_WeekdayWarning(t *testing.T) {
	svc, sess, _ := setup(t)
	ctx := context.Background()
	sundayOnly := domain.NightMarket{Name: "週日市集", Days: "0"}

	warning, err := svc.AddNightMarket(ctx, sess, sundayOnly, 1, "")
	if err != nil {
		t.Fatalf("AddNightMarket: %v", err)
	}
	if warning != "" {
		t.Fatalf("day 1 is a Sunday, expected no warning, got %q", warning)
	}
	got := sess.Data.Itinerary[0]
	if got.Start != "18:00" || got.End != "19:30" || got.Cost != 300 || got.SubBudgets[0].Category != domain.BudgetFood {
		t.Fatalf("unexpected night market item: %+v", got)
	}

	warning, err = svc.AddNightMarket(ctx, sess, sundayOnly, 2, "")
	if err != nil {
		t.Fatalf("AddNightMarket: %v", err)
	}
	if !strings.Contains(warning, "星期一") {
		t.Fatalf("expected Monday warning, got %q", warning)
	}
	if len(sess.Data.Itinerary) != 2 {
		t.Fatalf("closed market must still be added")
	}
}

func TestAddManual(t *testing.T) {
	svc, sess, _ := setup(t)
	ctx := context.Background()

	if err := svc.AddManual(ctx, sess, ManualEntry{Address: "高雄市中正四路211號", Day: 1}); err != nil {
		t.Fatalf("AddManual: %v", err)
	}
	got := sess.Data.Itinerary[0]
	if got.Name != UnnamedEntry || got.Start != "09:00" || got.Latitude != 22.6 {
		t.Fatalf("unexpected manual item: %+v", got)
	}
	if got.Note != "自訂 | 高雄市中正四路211號" {
		t.Fatalf("unexpected note %q", got.Note)
	}

	if err := svc.AddManual(ctx, sess, ManualEntry{Name: "朋友家", Address: "查無此地", Day: 1, Start: "20:00", Cost: 150}); err != nil {
		t.Fatalf("AddManual: %v", err)
	}
	got = sess.Data.Itinerary[1]
	if got.Note != "自訂" || got.Latitude != 0 || got.Cost != 150 || got.SubBudgets[0].Category != domain.BudgetOther {
		t.Fatalf("unexpected manual item on geocode miss: %+v", got)
	}
}

func TestFavorites(t *testing.T) {
	svc, sess, _ := setup(t)
	ctx := context.Background()
	m := domain.NightMarket{Name: "瑞豐夜市", Days: "0123456"}

	added, err := svc.AddFavorite(ctx, sess, FavoriteFromNightMarket(m))
	if err != nil || !added {
		t.Fatalf("AddFavorite: added=%v err=%v", added, err)
	}
	added, _ = svc.AddFavorite(ctx, sess, FavoriteFromNightMarket(m))
	if added || len(sess.Data.Candidates) != 1 {
		t.Fatalf("expected dedup by name")
	}

	if err := svc.AddFromFavorite(ctx, sess, 0, 3, ""); err != nil {
		t.Fatalf("AddFromFavorite: %v", err)
	}
	got := sess.Data.Itinerary[0]
	if got.Note != "候選 - 夜市" || got.Cost != 300 || got.Start != "10:00" {
		t.Fatalf("unexpected item from favorite: %+v", got)
	}

	if err := svc.RemoveFavorite(ctx, sess, 0); err != nil {
		t.Fatalf("RemoveFavorite: %v", err)
	}
	if err := svc.RemoveFavorite(ctx, sess, 0); !errors.Is(err, constants.ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}
}

func TestCreateTrip(t *testing.T) {
	svc, sess, _ := setup(t)
	ctx := context.Background()
	_ = svc.Add(ctx, sess, item("A", 1, "09:00"))
	_, _ = svc.AddFavorite(ctx, sess, domain.Favorite{Name: "B"})
	sess.Data.Recommendations = []domain.Candidate{{}}

	err := svc.CreateTrip(ctx, sess, TripParams{
		Name: "三日遊", BudgetText: "abc", PreSpentText: "200", StartDate: "2024-06-01", EndDate: "2024-06-03",
	})
	if err != nil {
		t.Fatalf("CreateTrip: %v", err)
	}
	trip := sess.Data.TripInfo
	if trip.Days != 3 || trip.Budget != 0 || trip.PreSpent != 200 || trip.Name != "三日遊" {
		t.Fatalf("unexpected trip: %+v", trip)
	}
	if len(sess.Data.Itinerary) != 0 || len(sess.Data.Candidates) != 0 || sess.Data.Recommendations != nil {
		t.Fatalf("trip state not reset")
	}

	err = svc.CreateTrip(ctx, sess, TripParams{StartDate: "2024-06-03", EndDate: "2024-06-01"})
	if !errors.Is(err, constants.ErrValidation) {
		t.Fatalf("expected ErrValidation for reversed dates, got %v", err)
	}
}

func TestUpdateBudget(t *testing.T) {
	svc, sess, _ := setup(t)
	ctx := context.Background()

	if err := svc.UpdateBudget(ctx, sess, "8000", "abc"); err != nil {
		t.Fatalf("UpdateBudget: %v", err)
	}
	if sess.Data.TripInfo.Budget != 8000 || sess.Data.TripInfo.PreSpent != 0 {
		t.Fatalf("unexpected trip: %+v", sess.Data.TripInfo)
	}
	_ = svc.UpdateBudget(ctx, sess, "xyz", "-50")
	if sess.Data.TripInfo.Budget != 8000 || sess.Data.TripInfo.PreSpent != 0 {
		t.Fatalf("expected kept budget and clamped pre-spent: %+v", sess.Data.TripInfo)
	}
	_ = svc.UpdateBudget(ctx, sess, "-1", "300")
	if sess.Data.TripInfo.Budget != 0 || sess.Data.TripInfo.PreSpent != 300 {
		t.Fatalf("expected clamped budget: %+v", sess.Data.TripInfo)
	}
}

func TestSummary(t *testing.T) {
	svc, sess, _ := setup(t)
	ctx := context.Background()
	sess.Data.TripInfo.Budget = 1000
	sess.Data.TripInfo.PreSpent = 100

	a := item("A", 1, "09:00")
	a.SubBudgets = []domain.SubBudget{{Category: domain.BudgetFood, Cost: 300}, {Category: domain.BudgetTransport, Cost: 100}}
	b := item("B", 2, "09:00")
	b.SubBudgets = []domain.SubBudget{{Category: domain.BudgetFood, Cost: 200}}
	_ = svc.Add(ctx, sess, a)
	_ = svc.Add(ctx, sess, b)

	sum := svc.Summary(sess)
	if sum.Budget.PlanSpent != 600 || sum.Budget.TotalSpent != 700 || sum.Budget.Remaining != 300 {
		t.Fatalf("unexpected budget: %+v", sum.Budget)
	}
	if sum.Budget.UsageRatio != 0.7 {
		t.Fatalf("expected usage 0.7, got %v", sum.Budget.UsageRatio)
	}
	if len(sum.Categories) != 2 || sum.Categories[0].Category != domain.BudgetFood || sum.Categories[0].Share != 0.8333 {
		t.Fatalf("unexpected categories: %+v", sum.Categories)
	}
	if sum.EndDate != "2024-05-07" {
		t.Fatalf("unexpected end date %q", sum.EndDate)
	}

	sess.Data.TripInfo.Budget = 100
	if got := svc.Summary(sess).Budget.UsageRatio; got != 1 {
		t.Fatalf("expected usage clamped to 1, got %v", got)
	}
}

func TestPersistFailureKeepsState(t *testing.T) {
	svc, _, _ := setup(t)
	ghost := domain.NewSession("ghost", nil, fixedNow)

	err := svc.Add(context.Background(), ghost, item("A", 1, "09:00"))
	if !errors.Is(err, constants.ErrDBNotFound) {
		t.Fatalf("expected persist error, got %v", err)
	}
	if len(ghost.Data.Itinerary) != 1 {
		t.Fatalf("in-memory change must not be rolled back")
	}
}
