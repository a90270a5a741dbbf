package recommend

import (
	"sort"

	"github.com/ougirez/tripplanner/internal/domain"
)

// SelectedTagBonus is added once for every picked category the POI carries.
const SelectedTagBonus = 0.3

const (
	minBatch   = 10
	perDayPick = 6
)

// axisGroup ties a preference axis to the categories that trigger it.
type axisGroup struct {
	axis       string
	categories []string
	value      func(p *domain.PreferenceVector) float64
}

var axisGroups = []axisGroup{
	{
		axis:       domain.AxisNature,
		categories: []string{domain.CategoryMountain, domain.CategoryCoastal, domain.CategoryTribal},
		value:      func(p *domain.PreferenceVector) float64 { return p.Nature },
	},
	{
		axis:       domain.AxisHistory,
		categories: []string{domain.CategoryHeritage, domain.CategoryReligious, domain.CategoryMilitary, domain.CategoryTribal},
		value:      func(p *domain.PreferenceVector) float64 { return p.History },
	},
	{
		axis:       domain.AxisTrend,
		categories: []string{domain.CategoryArts, domain.CategoryPhotoSpot, domain.CategoryMilitary},
		value:      func(p *domain.PreferenceVector) float64 { return p.Trend },
	},
	{
		axis:       domain.AxisFun,
		categories: []string{domain.CategoryFamily},
		value:      func(p *domain.PreferenceVector) float64 { return p.Fun },
	},
	{
		axis:       domain.AxisUrban,
		categories: []string{domain.CategoryShopping},
		value:      func(p *domain.PreferenceVector) float64 { return p.Urban },
	},
}

type Service struct{}

func NewRecommendService() *Service {
	return &Service{}
}

// BatchSize is how many candidates a trip of the given length gets.
func BatchSize(days int) int {
	if n := days * perDayPick; n > minBatch {
		return n
	}
	return minBatch
}

// Score returns the raw weighted sum for one POI and the axes that fired.
func Score(poi *domain.PointOfInterest, prefs *domain.PreferenceVector) (float64, []string) {
	var (
		score   float64
		reasons []string
	)

	for _, g := range axisGroups {
		for _, c := range g.categories {
			if poi.HasCategory(c) {
				score += g.value(prefs)
				reasons = append(reasons, g.axis)
				break
			}
		}
	}

	for _, t := range prefs.Selected {
		if poi.HasCategory(t) {
			score += SelectedTagBonus
			reasons = append(reasons, t)
		}
	}

	return score, reasons
}

// Recommend scores every POI, scales by the batch maximum and returns the
// best BatchSize(days) in descending similarity. Ties keep input order.
func (s *Service) Recommend(pois []domain.PointOfInterest, prefs domain.PreferenceVector, days int) []domain.Candidate {
	if len(pois) == 0 {
		return nil
	}

	candidates := make([]domain.Candidate, 0, len(pois))
	var maxScore float64
	for i := range pois {
		score, reasons := Score(&pois[i], &prefs)
		if score > maxScore {
			maxScore = score
		}
		candidates = append(candidates, domain.Candidate{
			PointOfInterest: pois[i],
			Score:           score,
			Reasons:         reasons,
		})
	}

	if maxScore > 0 {
		for i := range candidates {
			candidates[i].Similarity = candidates[i].Score / maxScore
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Similarity > candidates[j].Similarity
	})

	if limit := BatchSize(days); len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates
}
