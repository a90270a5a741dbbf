package domain

// Axis names of the preference vector.
const (
	AxisNature  = "nature"
	AxisHistory = "history"
	AxisTrend   = "trend"
	AxisFun     = "fun"
	AxisUrban   = "urban"
)

const DefaultAxisValue = 0.5

// PreferenceVector is the user's 0..1 rating on each axis plus the
// categories explicitly picked on the questionnaire.
type PreferenceVector struct {
	Nature   float64  `json:"nature"`
	History  float64  `json:"history"`
	Trend    float64  `json:"trend"`
	Fun      float64  `json:"fun"`
	Urban    float64  `json:"urban"`
	Selected []string `json:"selected_tags,omitempty"`
}

// AxisFromScale maps a five-step questionnaire answer (0..4) onto 0..1.
func AxisFromScale(index int) float64 {
	if index < 0 {
		index = 0
	}
	if index > 4 {
		index = 4
	}
	return float64(index) / 4.0
}

// Candidate is a scored point of interest.
type Candidate struct {
	PointOfInterest
	Score      float64  `json:"score"`
	Similarity float64  `json:"similarity"`
	Reasons    []string `json:"reasons,omitempty"`
}
