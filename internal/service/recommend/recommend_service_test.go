package recommend

import (
	"fmt"
	"testing"

	"github.com/ougirez/tripplanner/internal/domain"
)

func allOnes() domain.PreferenceVector {
	return domain.PreferenceVector{Nature: 1, History: 1, Trend: 1, Fun: 1, Urban: 1}
}

func poi(id string, categories ...string) domain.PointOfInterest {
	return domain.PointOfInterest{ID: domain.POIID(id), Name: "poi-" + id, MappedTags: categories}
}

func TestScore_AdditiveAcrossAxes(t *testing.T) {
	prefs := allOnes()

	both := poi("1", domain.CategoryHeritage, domain.CategoryShopping)
	heritage := poi("2", domain.CategoryHeritage)

	sBoth, _ := Score(&both, &prefs)
	sHeritage, _ := Score(&heritage, &prefs)
	if sBoth <= sHeritage {
		t.Fatalf("expected heritage+shopping (%v) > heritage (%v)", sBoth, sHeritage)
	}

	// Tribal feeds both nature and history; military feeds history and trend.
	multi := poi("3", domain.CategoryTribal, domain.CategoryMilitary)
	s, reasons := Score(&multi, &prefs)
	if s != 3 {
		t.Fatalf("expected 3 axes to fire, got score %v reasons %v", s, reasons)
	}
}

func TestScore_HistoryAxisCountsOnce(t *testing.T) {
	prefs := domain.PreferenceVector{History: 0.75}
	p := poi("1", domain.CategoryHeritage, domain.CategoryReligious, domain.CategoryMilitary)

	s, _ := Score(&p, &prefs)
	if s != 0.75 {
		t.Fatalf("expected one history contribution of 0.75, got %v", s)
	}
}

func TestScore_SelectedTagBonus(t *testing.T) {
	prefs := domain.PreferenceVector{Selected: []string{domain.CategoryRailway, domain.CategoryCycling}}
	p := poi("1", domain.CategoryRailway, domain.CategoryCycling)

	s, reasons := Score(&p, &prefs)
	if s != 2*SelectedTagBonus {
		t.Fatalf("expected %v, got %v", 2*SelectedTagBonus, s)
	}
	if len(reasons) != 2 {
		t.Fatalf("expected 2 reasons, got %v", reasons)
	}
}

func TestRecommend_Normalization(t *testing.T) {
	svc := NewRecommendService()
	pois := []domain.PointOfInterest{
		poi("1", domain.CategoryHeritage),
		poi("2", domain.CategoryHeritage, domain.CategoryShopping, domain.CategoryFamily),
		poi("3"),
	}

	got := svc.Recommend(pois, allOnes(), 1)
	if len(got) != 3 {
		t.Fatalf("expected 3 candidates, got %d", len(got))
	}
	if got[0].ID != "2" || got[0].Similarity != 1.0 {
		t.Fatalf("expected poi 2 first with similarity 1, got %s %v", got[0].ID, got[0].Similarity)
	}
	for _, c := range got {
		if c.Similarity < 0 || c.Similarity > 1 {
			t.Fatalf("similarity out of range: %v", c.Similarity)
		}
	}
	if got[2].ID != "3" || got[2].Similarity != 0 {
		t.Fatalf("expected unscored poi last with similarity 0, got %+v", got[2])
	}
}

func TestRecommend_AllZero(t *testing.T) {
	svc := NewRecommendService()
	pois := []domain.PointOfInterest{poi("1", domain.CategoryHeritage), poi("2")}

	got := svc.Recommend(pois, domain.PreferenceVector{}, 2)
	for _, c := range got {
		if c.Similarity != 0 {
			t.Fatalf("expected all-zero similarity, got %v", c.Similarity)
		}
	}
	if got[0].ID != "1" || got[1].ID != "2" {
		t.Fatalf("expected input order on ties, got %s %s", got[0].ID, got[1].ID)
	}
}

func TestRecommend_BatchSize(t *testing.T) {
	svc := NewRecommendService()
	pois := make([]domain.PointOfInterest, 0, 40)
	for i := 0; i < 40; i++ {
		pois = append(pois, poi(fmt.Sprint(i), domain.CategoryHeritage))
	}

	cases := []struct {
		days int
		want int
	}{
		{1, 10},
		{2, 12},
		{5, 30},
		{10, 40},
	}
	for _, tc := range cases {
		if got := svc.Recommend(pois, allOnes(), tc.days); len(got) != tc.want {
			t.Fatalf("days=%d: expected %d, got %d", tc.days, tc.want, len(got))
		}
	}

	if got := svc.Recommend(pois[:4], allOnes(), 3); len(got) != 4 {
		t.Fatalf("expected whole small table, got %d", len(got))
	}
}

func TestRecommend_EmptyTable(t *testing.T) {
	if got := NewRecommendService().Recommend(nil, allOnes(), 2); got != nil {
		t.Fatalf("expected nil for empty table, got %v", got)
	}
}
