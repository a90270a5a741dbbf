package classifier

import (
	"sort"
	"strings"

	"github.com/ougirez/tripplanner/internal/domain"
)

// Rule maps one category to the keywords that select it.
type Rule struct {
	Category string
	Keywords []string
}

// Table is an ordered list of rules; Classify reports categories in table order.
type Table []Rule

// DefaultTable sorts the free-form tags found in the Kaohsiung POI sheet
// into twelve categories.
func DefaultTable() Table {
	return Table{
		{domain.CategoryHeritage, []string{"古蹟", "歷史", "眷村", "老街", "紀念", "廢墟風", "孔廟", "書院"}},
		{domain.CategoryArts, []string{"藝文", "文創", "美術館", "展覽", "音樂", "閱讀", "設計", "電影", "圖書館", "藝術"}},
		{domain.CategoryFamily, []string{"親子", "樂園", "觀光工廠", "體驗", "DIY", "動物", "科普"}},
		{domain.CategoryMountain, []string{"登山", "山", "步道", "古道", "原住民", "溫泉", "蝴蝶", "泥火山", "地質", "森林", "茶園", "生態"}},
		{domain.CategoryCoastal, []string{"海邊", "港", "碼頭", "遊船", "玩水", "湖", "瀑布", "濕地", "濱海", "水母"}},
		{domain.CategoryShopping, []string{"購物", "商圈", "美食", "夜市", "小吃", "百貨", "海鮮"}},
		{domain.CategoryPhotoSpot, []string{"打卡點", "景觀", "夜景", "地標", "彩繪", "裝置藝術", "建築", "夕陽"}},
		{domain.CategoryRailway, []string{"鐵道", "車站", "火車", "捷運", "輕軌", "飛機"}},
		{domain.CategoryReligious, []string{"廟宇", "教堂", "教會", "天后宮", "佛光山", "修道院"}},
		{domain.CategoryCycling, []string{"自行車", "單車", "鐵馬"}},
		{domain.CategoryTribal, []string{"原住民", "部落", "原鄉", "祭典", "石板屋", "琉璃珠", "那瑪夏", "茂林", "桃源"}},
		{domain.CategoryMilitary, []string{"眷村", "軍事", "老屋", "日式", "海軍", "空軍", "陸軍"}},
	}
}

// FromMap builds a table from configuration. Map iteration order is not
// stable, so categories are sorted by name.
func FromMap(m map[string][]string) Table {
	categories := make([]string, 0, len(m))
	for c := range m {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	t := make(Table, 0, len(categories))
	for _, c := range categories {
		t = append(t, Rule{Category: c, Keywords: m[c]})
	}
	return t
}

func (t Table) Categories() []string {
	res := make([]string, 0, len(t))
	for _, r := range t {
		res = append(res, r.Category)
	}
	return res
}

// Classify splits comma-separated tag text and returns every category with
// a keyword equal to, or contained in, one of the tags.
func (t Table) Classify(raw string) []string {
	matched := make(map[string]bool)
	for _, tag := range strings.Split(raw, ",") {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		for _, r := range t {
			if !matched[r.Category] && r.matches(tag) {
				matched[r.Category] = true
			}
		}
	}

	res := make([]string, 0, len(matched))
	for _, r := range t {
		if matched[r.Category] {
			res = append(res, r.Category)
			delete(matched, r.Category)
		}
	}
	return res
}

func (r Rule) matches(tag string) bool {
	for _, k := range r.Keywords {
		if k == "" {
			continue
		}
		if tag == k || strings.Contains(tag, k) {
			return true
		}
	}
	return false
}
