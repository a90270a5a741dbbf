package itinerary

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/ougirez/tripplanner/internal/domain"
	"github.com/ougirez/tripplanner/internal/pkg/constants"
	"github.com/shopspring/decimal"
)

type TripParams struct {
	Name         string
	BudgetText   string
	PreSpentText string
	StartDate    string
	EndDate      string
}

// CreateTrip starts a new trip and clears the itinerary, the favorites and
// the recommendations. Unparseable amounts become 0.
func (s *Service) CreateTrip(ctx context.Context, sess *domain.Session, p TripParams) error {
	start, err := domain.ParseDate(p.StartDate)
	if err != nil {
		return fmt.Errorf("start date %q: %w", p.StartDate, constants.ErrValidation)
	}
	end := start
	if p.EndDate != "" {
		if end, err = domain.ParseDate(p.EndDate); err != nil {
			return fmt.Errorf("end date %q: %w", p.EndDate, constants.ErrValidation)
		}
	}
	if end.Before(start) {
		return fmt.Errorf("end date before start date: %w", constants.ErrValidation)
	}

	name := strings.TrimSpace(p.Name)
	if name == "" {
		name = domain.DefaultTripInfo(s.now()).Name
	}
	budget, _ := parseCost(p.BudgetText)
	preSpent, _ := parseCost(p.PreSpentText)

	sess.Data.TripInfo = domain.TripInfo{
		Name:      name,
		Days:      domain.DaysBetween(start, end),
		StartDate: p.StartDate,
		Budget:    budget,
		PreSpent:  preSpent,
	}
	sess.Data.Itinerary = []domain.ItineraryItem{}
	sess.Data.Candidates = []domain.Favorite{}
	sess.Data.Recommendations = nil
	sess.Data.CurrentPage = domain.PagePreferences
	return s.Persist(ctx, sess)
}

// UpdateBudget keeps the previous value of a non-numeric field and clamps
// negative numbers to 0.
func (s *Service) UpdateBudget(ctx context.Context, sess *domain.Session, budgetText, preSpentText string) error {
	trip := &sess.Data.TripInfo
	if v, ok := parseAmount(budgetText); ok {
		trip.Budget = v
	}
	if v, ok := parseAmount(preSpentText); ok {
		trip.PreSpent = v
	}
	return s.Persist(ctx, sess)
}

func parseAmount(text string) (int, bool) {
	if strings.TrimSpace(text) == "" {
		return 0, false
	}
	if v, ok := parseCost(text); ok {
		return v, true
	}
	if strings.HasPrefix(strings.TrimSpace(text), "-") {
		if _, ok := parseCost(strings.TrimPrefix(strings.TrimSpace(text), "-")); ok {
			return 0, true
		}
	}
	return 0, false
}

// SaveRecommendations stores the submitted profile and its ranked result.
func (s *Service) SaveRecommendations(ctx context.Context, sess *domain.Session, prefs domain.PreferenceVector, candidates []domain.Candidate) error {
	sess.Data.Preferences = &prefs
	sess.Data.Recommendations = candidates
	sess.Data.CurrentPage = domain.PagePlanning
	return s.Persist(ctx, sess)
}

func (s *Service) SetPage(ctx context.Context, sess *domain.Session, page string) error {
	if !domain.IsPage(page) {
		return fmt.Errorf("page %q: %w", page, constants.ErrValidation)
	}
	sess.Data.CurrentPage = page
	return s.Persist(ctx, sess)
}

func (s *Service) FindRecommendation(sess *domain.Session, id string) (domain.Candidate, bool) {
	for _, c := range sess.Data.Recommendations {
		if string(c.ID) == id {
			return c, true
		}
	}
	return domain.Candidate{}, false
}

// PlanSpent sums every item cost.
func PlanSpent(items []domain.ItineraryItem) int {
	total := 0
	for _, item := range items {
		total += item.Cost
	}
	return total
}

func (s *Service) Summary(sess *domain.Session) domain.TripSummary {
	trip := sess.Data.TripInfo
	plan := PlanSpent(sess.Data.Itinerary)
	total := trip.PreSpent + plan

	ratio := decimal.Zero
	if trip.Budget > 0 {
		ratio = decimal.NewFromInt(int64(total)).Div(decimal.NewFromInt(int64(trip.Budget)))
		if ratio.GreaterThan(decimal.NewFromInt(1)) {
			ratio = decimal.NewFromInt(1)
		}
	}
	usage, _ := ratio.Round(4).Float64()

	summary := domain.TripSummary{
		Budget: domain.BudgetSummary{
			Budget:     trip.Budget,
			PreSpent:   trip.PreSpent,
			PlanSpent:  plan,
			TotalSpent: total,
			Remaining:  trip.Budget - total,
			UsageRatio: usage,
		},
		Categories: categoryTotals(sess.Data.Itinerary, plan),
		StartDate:  trip.StartDate,
		Days:       trip.Days,
	}
	if end, err := trip.DateOf(trip.Days); err == nil {
		summary.EndDate = end.Format("2006-01-02")
	}
	return summary
}

func categoryTotals(items []domain.ItineraryItem, plan int) []domain.CategoryTotal {
	sums := make(map[string]int)
	order := make([]string, 0)
	for _, item := range items {
		for _, sub := range item.SubBudgets {
			if _, ok := sums[sub.Category]; !ok {
				order = append(order, sub.Category)
			}
			sums[sub.Category] += sub.Cost
		}
	}

	res := make([]domain.CategoryTotal, 0, len(order))
	for _, c := range order {
		share := decimal.Zero
		if plan > 0 {
			share = decimal.NewFromInt(int64(sums[c])).Div(decimal.NewFromInt(int64(plan))).Round(4)
		}
		f, _ := share.Float64()
		res = append(res, domain.CategoryTotal{Category: c, Cost: sums[c], Share: f})
	}
	sort.SliceStable(res, func(i, j int) bool { return res[i].Cost > res[j].Cost })
	return res
}
