package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/ougirez/tripplanner/internal/domain"
)

const bom = "\ufeff"

var csvHeader = []string{"天數", "開始時間", "結束時間", "景點名稱", "備註", "總花費", "預算細項"}

// Service renders read-only views of a trip.
type Service struct{}

func NewExportService() *Service {
	return &Service{}
}

// ordered returns the items sorted by day, then start time.
func ordered(items []domain.ItineraryItem) []domain.ItineraryItem {
	res := append([]domain.ItineraryItem(nil), items...)
	sort.SliceStable(res, func(i, j int) bool {
		if res[i].Day != res[j].Day {
			return res[i].Day < res[j].Day
		}
		return res[i].Start < res[j].Start
	})
	return res
}

// FormatSubBudgets renders "類別(備註): $金額" entries joined by " | ".
func FormatSubBudgets(subs []domain.SubBudget) string {
	parts := make([]string, 0, len(subs))
	for _, sub := range subs {
		category := sub.Category
		if category == "" {
			category = domain.BudgetOther
		}
		note := ""
		if sub.Note != "" {
			note = "(" + sub.Note + ")"
		}
		parts = append(parts, fmt.Sprintf("%s%s: $%d", category, note, sub.Cost))
	}
	return strings.Join(parts, " | ")
}

// CSV is UTF-8 with a byte order mark so spreadsheet tools pick the right
// encoding.
func (s *Service) CSV(data *domain.UserData) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(bom)

	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("csv.Write: %w", err)
	}
	for _, item := range ordered(data.Itinerary) {
		row := []string{
			strconv.Itoa(item.Day),
			item.Start,
			item.End,
			item.Name,
			item.Note,
			strconv.Itoa(item.Cost),
			FormatSubBudgets(item.SubBudgets),
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("csv.Write: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("csv.Flush: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *Service) TXT(data *domain.UserData) []byte {
	trip := data.TripInfo
	items := ordered(data.Itinerary)
	plan := 0
	for _, item := range items {
		plan += item.Cost
	}

	var b strings.Builder
	fmt.Fprintf(&b, "=== %s 行程表 ===\n", trip.Name)
	fmt.Fprintf(&b, "總預算: $%d\n", trip.Budget)
	if trip.PreSpent > 0 {
		fmt.Fprintf(&b, "已預支: $%d\n", trip.PreSpent)
	}
	fmt.Fprintf(&b, "預估花費: $%d\n", plan)
	fmt.Fprintf(&b, "剩餘預算: $%d\n", trip.Budget-trip.PreSpent-plan)
	b.WriteString(strings.Repeat("-", 30) + "\n")

	day := 0
	for _, item := range items {
		if item.Day != day {
			day = item.Day
			fmt.Fprintf(&b, "\n[Day %d]\n", day)
		}
		line := fmt.Sprintf("%s-%s | %s | $%d", item.Start, item.End, item.Name, item.Cost)
		if item.Note != "" {
			line += " | 備註: " + item.Note
		}
		b.WriteString(line + "\n")
		for _, sub := range item.SubBudgets {
			fmt.Fprintf(&b, "    - %s: $%d", sub.Category, sub.Cost)
			if sub.Note != "" {
				fmt.Fprintf(&b, " (%s)", sub.Note)
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("\n" + strings.Repeat("=", 30) + "\n")
	return []byte(b.String())
}
