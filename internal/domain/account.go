package domain

import "time"

// Pages of the planner UI, stored so a returning user lands where they left.
const (
	PageHome        = "home"
	PageCreateTrip  = "create_trip"
	PagePreferences = "preferences"
	PagePlanning    = "planning"
	PageOverview    = "overview"
)

var Pages = []string{PageHome, PageCreateTrip, PagePreferences, PagePlanning, PageOverview}

// legacyPageLabels are the navigation labels older stores saved in
// current_page, in the same order as Pages.
var legacyPageLabels = []string{"🏠 首頁 (我的旅程)", "1. 建立新旅程", "2. 旅遊偏好", "3. 行程規劃", "4. 總覽與匯出"}

// PageFromLegacy maps an old navigation label to its page.
func PageFromLegacy(label string) (string, bool) {
	for i, l := range legacyPageLabels {
		if l == label {
			return Pages[i], true
		}
	}
	return "", false
}

func IsPage(p string) bool {
	for _, page := range Pages {
		if page == p {
			return true
		}
	}
	return false
}

// CurrentSchemaVersion is bumped whenever UpgradeUserData learns a new step.
const CurrentSchemaVersion = 1

// UserData is the always-current, in-progress state of one account.
type UserData struct {
	SchemaVersion   int               `json:"schema_version"`
	TripInfo        TripInfo          `json:"trip_info"`
	Itinerary       []ItineraryItem   `json:"itinerary"`
	Preferences     *PreferenceVector `json:"preferences"`
	Recommendations []Candidate       `json:"recommendations"`
	Candidates      []Favorite        `json:"candidates"`
	CurrentPage     string            `json:"current_page"`
	LastModified    Timestamp         `json:"last_modified"`
}

func NewUserData(now time.Time) *UserData {
	return &UserData{
		SchemaVersion: CurrentSchemaVersion,
		TripInfo:      DefaultTripInfo(now),
		Itinerary:     []ItineraryItem{},
		Candidates:    []Favorite{},
		CurrentPage:   PageHome,
	}
}

// Snapshot is a named, frozen copy of a trip kept in history.
type Snapshot struct {
	TripInfo        TripInfo          `json:"trip_info"`
	Itinerary       []ItineraryItem   `json:"itinerary"`
	Preferences     *PreferenceVector `json:"preferences"`
	Recommendations []Candidate       `json:"recommendations"`
	SavedAt         Timestamp         `json:"saved_at"`
}

type Account struct {
	Password string               `json:"password"`
	Data     *UserData            `json:"data"`
	History  map[string]*Snapshot `json:"history"`
}

// Document is the whole account store keyed by username.
type Document map[string]*Account

// Session is the explicit per-request state handed to every engine call.
type Session struct {
	Username string
	Data     *UserData
}

func NewSession(username string, data *UserData, now time.Time) *Session {
	if data == nil || isBlank(data) {
		data = NewUserData(now)
	}
	UpgradeUserData(data)
	if data.TripInfo.Days < 1 {
		data.TripInfo = DefaultTripInfo(now)
	}
	if page, ok := PageFromLegacy(data.CurrentPage); ok {
		data.CurrentPage = page
	}
	if !IsPage(data.CurrentPage) {
		data.CurrentPage = PageHome
	}
	return &Session{Username: username, Data: data}
}

// isBlank reports a freshly registered account whose data is "{}".
func isBlank(d *UserData) bool {
	return d.SchemaVersion == 0 && d.TripInfo == (TripInfo{}) && d.Itinerary == nil &&
		d.Preferences == nil && d.Recommendations == nil && d.Candidates == nil
}
