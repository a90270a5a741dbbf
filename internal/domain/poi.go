package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Semantic categories produced by the tag classifier.
const (
	CategoryHeritage  = "🏯 歷史古蹟"
	CategoryArts      = "🎨 藝文文創"
	CategoryFamily    = "🎡 親子樂園"
	CategoryMountain  = "⛰️ 山林步道"
	CategoryCoastal   = "🌊 海港水域"
	CategoryShopping  = "🛍️ 逛街美食"
	CategoryPhotoSpot = "📸 網美打卡"
	CategoryRailway   = "🚂 鐵道交通"
	CategoryReligious = "🙏 宗教巡禮"
	CategoryCycling   = "🚲 單車漫遊"
	CategoryTribal    = "🛖 原民部落"
	CategoryMilitary  = "🏘️ 眷村故事"
)

const DefaultDistrict = "未分類"

const DefaultNightMarketImage = "https://images.unsplash.com/photo-1528164344705-47542687000d?q=80&w=600&auto=format&fit=crop"

// POIID is a catalog row id. Older account stores wrote it as a JSON
// number, so both forms are accepted.
type POIID string

func (id *POIID) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	switch {
	case s == "null":
		*id = ""
	case strings.HasPrefix(s, `"`):
		unquoted, err := strconv.Unquote(s)
		if err != nil {
			return fmt.Errorf("poi id %s: %w", s, err)
		}
		*id = POIID(unquoted)
	default:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("poi id %s: %w", s, err)
		}
		if f == math.Trunc(f) && math.Abs(f) < 1e15 {
			s = strconv.FormatInt(int64(f), 10)
		}
		*id = POIID(s)
	}
	return nil
}

type PointOfInterest struct {
	ID         POIID    `json:"id"`
	Name       string   `json:"name"`
	District   string   `json:"district"`
	Tags       string   `json:"tags"`
	MappedTags []string `json:"mapped_tags"`
	Latitude   float64  `json:"latitude"`
	Longitude  float64  `json:"longitude"`
	ImageURL   string   `json:"image_url"`
}

func (p *PointOfInterest) HasCategory(category string) bool {
	for _, c := range p.MappedTags {
		if c == category {
			return true
		}
	}
	return false
}

// NightMarket.Days holds weekday codes, 0=Sunday through 6=Saturday,
// the same numbering as time.Weekday.
type NightMarket struct {
	Name      string  `json:"name"`
	Days      string  `json:"days"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	ImageURL  string  `json:"image_url"`
}

func (m *NightMarket) Weekdays() []time.Weekday {
	var res []time.Weekday
	seen := make(map[time.Weekday]bool)
	for _, r := range m.Days {
		d, err := strconv.Atoi(string(r))
		if err != nil || d > 6 {
			continue
		}
		wd := time.Weekday(d)
		if !seen[wd] {
			seen[wd] = true
			res = append(res, wd)
		}
	}
	return res
}

func (m *NightMarket) OpenOn(weekday time.Weekday) bool {
	return strings.ContainsRune(m.Days, rune('0'+int(weekday)))
}

var weekdayLabels = [...]string{"日", "一", "二", "三", "四", "五", "六"}

// WeekdayLabel returns the single-character Chinese weekday, 日 for Sunday.
func WeekdayLabel(d time.Weekday) string {
	return weekdayLabels[d%7]
}

// FormatDays renders "0,2,5" as "日 二 五".
func (m *NightMarket) FormatDays() string {
	labels := make([]string, 0, 7)
	for _, wd := range m.Weekdays() {
		labels = append(labels, WeekdayLabel(wd))
	}
	return strings.Join(labels, " ")
}
