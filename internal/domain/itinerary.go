package domain

import (
	"fmt"
	"time"
)

// Sub-budget categories offered by the wallet editor.
const (
	BudgetSight     = "景點"
	BudgetFood      = "飲食"
	BudgetTransport = "交通"
	BudgetLodging   = "住宿"
	BudgetShopping  = "購物"
	BudgetActivity  = "活動"
	BudgetOther     = "其他"
)

var BudgetCategories = []string{
	BudgetSight, BudgetFood, BudgetTransport, BudgetLodging, BudgetShopping, BudgetActivity, BudgetOther,
}

func IsBudgetCategory(c string) bool {
	for _, bc := range BudgetCategories {
		if bc == c {
			return true
		}
	}
	return false
}

const clockLayout = "15:04"

type SubBudget struct {
	Category string `json:"Category"`
	Cost     int    `json:"Cost"`
	Note     string `json:"Note"`
}

// ItineraryItem is identified by (Name, Day, Start). Cost mirrors the sum
// of SubBudgets and is recomputed by every method that touches them.
type ItineraryItem struct {
	Name       string      `json:"Name"`
	Day        int         `json:"Day"`
	Start      string      `json:"Start"`
	End        string      `json:"End"`
	Cost       int         `json:"Cost"`
	Note       string      `json:"Note"`
	Latitude   float64     `json:"latitude"`
	Longitude  float64     `json:"longitude"`
	SubBudgets []SubBudget `json:"SubBudgets"`

	// Category only exists on records written before sub-budgets.
	Category string `json:"Category,omitempty"`
}

func (i *ItineraryItem) SameSlot(other *ItineraryItem) bool {
	return i.Name == other.Name && i.Day == other.Day && i.Start == other.Start
}

func (i *ItineraryItem) RecalculateCost() {
	total := 0
	for _, sub := range i.SubBudgets {
		total += sub.Cost
	}
	i.Cost = total
}

func (i *ItineraryItem) AddSubBudget(sub SubBudget) {
	if i.SubBudgets == nil {
		i.SubBudgets = []SubBudget{}
	}
	i.SubBudgets = append(i.SubBudgets, sub)
	i.RecalculateCost()
}

func (i *ItineraryItem) SetSubBudget(index int, sub SubBudget) bool {
	if index < 0 || index >= len(i.SubBudgets) {
		return false
	}
	i.SubBudgets[index] = sub
	i.RecalculateCost()
	return true
}

func (i *ItineraryItem) RemoveSubBudget(index int) bool {
	if index < 0 || index >= len(i.SubBudgets) {
		return false
	}
	i.SubBudgets = append(i.SubBudgets[:index], i.SubBudgets[index+1:]...)
	i.RecalculateCost()
	return true
}

// NewItem builds an item lasting durationMin minutes. A positive cost
// becomes the first sub-budget under category.
func NewItem(name string, day int, start string, durationMin int, note string, lat, lon float64, cost int, category string) (ItineraryItem, error) {
	end, err := AddMinutes(start, durationMin)
	if err != nil {
		return ItineraryItem{}, err
	}

	item := ItineraryItem{
		Name:       name,
		Day:        day,
		Start:      start,
		End:        end,
		Note:       note,
		Latitude:   lat,
		Longitude:  lon,
		SubBudgets: []SubBudget{},
	}
	if cost > 0 {
		if category == "" {
			category = BudgetOther
		}
		item.AddSubBudget(SubBudget{Category: category, Cost: cost, Note: note})
	}
	return item, nil
}

func ValidateClock(s string) error {
	if _, err := time.Parse(clockLayout, s); err != nil || len(s) != len(clockLayout) {
		return fmt.Errorf("clock %q is not HH:MM", s)
	}
	return nil
}

// AddMinutes shifts an HH:MM clock, wrapping past midnight.
func AddMinutes(clock string, minutes int) (string, error) {
	if err := ValidateClock(clock); err != nil {
		return "", err
	}
	t, _ := time.Parse(clockLayout, clock)
	return t.Add(time.Duration(minutes) * time.Minute).Format(clockLayout), nil
}

// Favorite is an entry on the liked-candidates list.
type Favorite struct {
	Name      string  `json:"Name"`
	Note      string  `json:"Note"`
	Cost      int     `json:"Cost"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	ImageURL  string  `json:"image_url"`
}

const dateLayout = "2006-01-02"

type TripInfo struct {
	Name      string `json:"name"`
	Days      int    `json:"days"`
	StartDate string `json:"start_date"`
	Budget    int    `json:"budget"`
	PreSpent  int    `json:"pre_spent"`
}

func DefaultTripInfo(now time.Time) TripInfo {
	return TripInfo{
		Name:      "我的高雄之旅",
		Days:      2,
		StartDate: now.Format(dateLayout),
		Budget:    5000,
	}
}

func (t *TripInfo) Start() (time.Time, error) {
	return time.Parse(dateLayout, t.StartDate)
}

// DateOf returns the calendar date of trip day n (1-based).
func (t *TripInfo) DateOf(day int) (time.Time, error) {
	start, err := t.Start()
	if err != nil {
		return time.Time{}, err
	}
	return start.AddDate(0, 0, day-1), nil
}

// DaysBetween counts a date range inclusively.
func DaysBetween(start, end time.Time) int {
	s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	e := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	return int(e.Sub(s).Hours()/24) + 1
}

func ParseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}
