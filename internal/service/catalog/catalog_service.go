package catalog

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/ougirez/tripplanner/internal/domain"
	"github.com/ougirez/tripplanner/internal/pkg/classifier"
	"github.com/ougirez/tripplanner/internal/pkg/logger"
	"golang.org/x/sync/errgroup"
)

// DefaultFilterLimit caps browse results.
const DefaultFilterLimit = 15

// Service holds the POI and night-market tables for the process lifetime.
type Service struct {
	table        classifier.Table
	pois         []domain.PointOfInterest
	nightMarkets []domain.NightMarket
}

func NewCatalogService(table classifier.Table, pois []domain.PointOfInterest, markets []domain.NightMarket) *Service {
	return &Service{table: table, pois: pois, nightMarkets: markets}
}

// Load reads both sheets concurrently. A POI load failure is returned
// together with a usable, empty catalog; night markets never fail the load.
func Load(ctx context.Context, table classifier.Table, poiPath string, nightMarketPaths []string) (*Service, error) {
	svc := &Service{table: table}

	eg, _ := errgroup.WithContext(ctx)
	eg.Go(func() error {
		markets, err := LoadNightMarketsFromFiles(nightMarketPaths)
		if err != nil {
			logger.Warnf(ctx, "night markets unavailable: %s", err.Error())
			return nil
		}
		svc.nightMarkets = markets
		return nil
	})
	eg.Go(func() error {
		pois, err := LoadPOIsFromFile(poiPath, table)
		if err != nil {
			return err
		}
		svc.pois = pois
		return nil
	})

	if err := eg.Wait(); err != nil {
		return svc, err
	}

	logger.Infof(ctx, "catalog loaded: %d pois, %d night markets", len(svc.pois), len(svc.nightMarkets))
	return svc, nil
}

func (s *Service) POIs() []domain.PointOfInterest {
	return s.pois
}

func (s *Service) Categories() []string {
	return s.table.Categories()
}

func (s *Service) Districts() []string {
	seen := make(map[string]bool)
	res := make([]string, 0)
	for _, p := range s.pois {
		if !seen[p.District] {
			seen[p.District] = true
			res = append(res, p.District)
		}
	}
	sort.Strings(res)
	return res
}

func (s *Service) FindPOI(id string) (domain.PointOfInterest, bool) {
	for _, p := range s.pois {
		if string(p.ID) == id {
			return p, true
		}
	}
	return domain.PointOfInterest{}, false
}

type FilterOpts struct {
	Districts  []string
	Categories []string
	Keyword    string
	Limit      int
}

// Filter narrows the table by district, by any-of categories and by a
// name substring. It reports whether results were cut at the limit.
func (s *Service) Filter(opts FilterOpts) ([]domain.PointOfInterest, bool) {
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultFilterLimit
	}

	districts := make(map[string]bool, len(opts.Districts))
	for _, d := range opts.Districts {
		districts[d] = true
	}

	res := make([]domain.PointOfInterest, 0, limit)
	truncated := false
	for i := range s.pois {
		p := &s.pois[i]
		if len(districts) > 0 && !districts[p.District] {
			continue
		}
		if len(opts.Categories) > 0 && !hasAny(p, opts.Categories) {
			continue
		}
		if opts.Keyword != "" && !strings.Contains(p.Name, opts.Keyword) {
			continue
		}
		if len(res) == limit {
			truncated = true
			break
		}
		res = append(res, *p)
	}
	return res, truncated
}

func hasAny(p *domain.PointOfInterest, categories []string) bool {
	for _, c := range categories {
		if p.HasCategory(c) {
			return true
		}
	}
	return false
}

// NightMarkets returns every market, or those open on weekday when given.
func (s *Service) NightMarkets(weekday *time.Weekday) []domain.NightMarket {
	if weekday == nil {
		return s.nightMarkets
	}
	res := make([]domain.NightMarket, 0, len(s.nightMarkets))
	for _, m := range s.nightMarkets {
		if m.OpenOn(*weekday) {
			res = append(res, m)
		}
	}
	return res
}

func (s *Service) FindNightMarket(name string) (domain.NightMarket, bool) {
	for _, m := range s.nightMarkets {
		if m.Name == name {
			return m, true
		}
	}
	return domain.NightMarket{}, false
}
