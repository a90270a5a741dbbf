package geocode

import (
	"context"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/ougirez/tripplanner/internal/pkg/constants"
	"github.com/ougirez/tripplanner/internal/pkg/logger"
)

type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Lookup resolves one query. found=false with a nil error is a clean miss.
type Lookup interface {
	Search(ctx context.Context, query string) (coords Coordinates, found bool, err error)
}

var houseNumber = regexp.MustCompile(`\d+號?`)

type cached struct {
	coords Coordinates
	found  bool
}

// Service turns free-form addresses into coordinates, trying the verbatim
// address first and then the address without house numbers.
type Service struct {
	lookup  Lookup
	timeout time.Duration
	country string
	city    string

	mx    sync.RWMutex
	cache map[string]cached
}

type Option func(*Service)

func WithTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithRegion sets the country and city used to anchor queries.
func WithRegion(country, city string) Option {
	return func(s *Service) {
		s.country = country
		s.city = city
	}
}

func NewGeocodeService(lookup Lookup, opts ...Option) *Service {
	s := &Service{
		lookup:  lookup,
		timeout: constants.DefaultGeocodeTimeout,
		country: "台灣",
		city:    "高雄市",
		cache:   make(map[string]cached),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Resolve returns the first variant the lookup finds. Errors are logged and
// reported as not found.
func (s *Service) Resolve(ctx context.Context, address string) (Coordinates, bool) {
	address = strings.TrimSpace(address)
	if address == "" {
		return Coordinates{}, false
	}

	s.mx.RLock()
	hit, ok := s.cache[address]
	s.mx.RUnlock()
	if ok {
		return hit.coords, hit.found
	}

	failed := false
	for _, variant := range Variants(address) {
		coords, found, err := s.search(ctx, s.anchor(variant))
		if err != nil {
			logger.Warnf(ctx, "geocode %q: %s", variant, err.Error())
			failed = true
			continue
		}
		if found {
			s.store(address, cached{coords: coords, found: true})
			return coords, true
		}
	}

	// transport failures may succeed next time
	if !failed {
		s.store(address, cached{})
	}
	return Coordinates{}, false
}

func (s *Service) search(ctx context.Context, query string) (Coordinates, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.lookup.Search(ctx, query)
}

func (s *Service) store(address string, c cached) {
	s.mx.Lock()
	s.cache[address] = c
	s.mx.Unlock()
}

// anchor prefixes the country and city unless the query already names them.
func (s *Service) anchor(query string) string {
	prefix := ""
	if !strings.Contains(query, "台灣") && !strings.Contains(query, "臺灣") {
		prefix += s.country
	}
	if !strings.Contains(query, strings.TrimSuffix(s.city, "市")) {
		prefix += s.city
	}
	return prefix + query
}

// Variants lists the queries tried for address, in order.
func Variants(address string) []string {
	res := []string{address}

	parts := strings.Split(houseNumber.ReplaceAllString(address, ""), ",")
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	road := strings.Join(kept, ", ")
	if road != "" && road != address {
		res = append(res, road)
	}
	return res
}
