package geocode

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

type fakeLookup struct {
	hits    map[string]Coordinates
	err     error
	queries []string
}

func (f *fakeLookup) Search(_ context.Context, query string) (Coordinates, bool, error) {
	f.queries = append(f.queries, query)
	if f.err != nil {
		return Coordinates{}, false, f.err
	}
	c, ok := f.hits[query]
	return c, ok, nil
}

func TestVariants_HouseNumberFallback(t *testing.T) {
	got := Variants("123號, 五福路, 高雄市")
	if len(got) != 2 || got[1] != "五福路, 高雄市" {
		t.Fatalf("unexpected variants: %q", got)
	}
	if got := Variants("五福路"); len(got) != 1 {
		t.Fatalf("expected no fallback without numbers, got %q", got)
	}
	if got := Variants("123號"); len(got) != 1 {
		t.Fatalf("expected empty fallback skipped, got %q", got)
	}
}

func TestResolve_FallsBackToRoad(t *testing.T) {
	lookup := &fakeLookup{hits: map[string]Coordinates{
		"台灣五福路, 高雄市": {Latitude: 22.62, Longitude: 120.30},
	}}
	svc := NewGeocodeService(lookup)

	coords, ok := svc.Resolve(context.Background(), "123號, 五福路, 高雄市")
	if !ok || coords.Latitude != 22.62 {
		t.Fatalf("expected fallback hit, got %v %v", coords, ok)
	}
	if len(lookup.queries) != 2 || lookup.queries[0] != "台灣123號, 五福路, 高雄市" {
		t.Fatalf("unexpected queries: %q", lookup.queries)
	}
}

func TestResolve_PrefixesRegion(t *testing.T) {
	lookup := &fakeLookup{}
	svc := NewGeocodeService(lookup)

	svc.Resolve(context.Background(), "駁二")
	svc.Resolve(context.Background(), "臺灣高雄駁二")
	if lookup.queries[0] != "台灣高雄市駁二" {
		t.Fatalf("expected full prefix, got %q", lookup.queries[0])
	}
	if lookup.queries[1] != "臺灣高雄駁二" {
		t.Fatalf("expected no prefix, got %q", lookup.queries[1])
	}
}

func TestResolve_CachesHitsAndMisses(t *testing.T) {
	lookup := &fakeLookup{hits: map[string]Coordinates{"台灣高雄市駁二": {Latitude: 1, Longitude: 2}}}
	svc := NewGeocodeService(lookup)

	for i := 0; i < 3; i++ {
		svc.Resolve(context.Background(), "駁二")
		svc.Resolve(context.Background(), "不存在的地方")
	}
	if len(lookup.queries) != 2 {
		t.Fatalf("expected one lookup per address, got %q", lookup.queries)
	}
}

func TestResolve_ErrorsAreNotCached(t *testing.T) {
	lookup := &fakeLookup{err: errors.New("connection refused")}
	svc := NewGeocodeService(lookup)

	if _, ok := svc.Resolve(context.Background(), "駁二"); ok {
		t.Fatalf("expected not found on error")
	}
	lookup.err = nil
	lookup.hits = map[string]Coordinates{"台灣高雄市駁二": {Latitude: 1}}
	if _, ok := svc.Resolve(context.Background(), "駁二"); !ok {
		t.Fatalf("expected retry after transport error")
	}
}

func TestResolve_Blank(t *testing.T) {
	lookup := &fakeLookup{}
	if _, ok := NewGeocodeService(lookup).Resolve(context.Background(), "  "); ok || len(lookup.queries) != 0 {
		t.Fatalf("expected blank address to skip lookup")
	}
}

func TestNominatimClient(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		if r.Header.Get("User-Agent") != "test-agent" {
			t.Errorf("missing user agent")
		}
		if r.URL.Query().Get("format") != "json" || r.URL.Query().Get("limit") != "1" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		if n == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		if r.URL.Query().Get("q") == "nowhere" {
			_, _ = w.Write([]byte(`[]`))
			return
		}
		_, _ = w.Write([]byte(`[{"lat":"22.6273","lon":"120.3014","display_name":"高雄"}]`))
	}))
	defer srv.Close()

	client := NewNominatimClient(srv.URL, "test-agent", srv.Client())

	coords, found, err := client.Search(context.Background(), "高雄車站")
	if err != nil || !found {
		t.Fatalf("Search: found=%v err=%v", found, err)
	}
	if coords.Latitude != 22.6273 || coords.Longitude != 120.3014 {
		t.Fatalf("unexpected coords %+v", coords)
	}
	if atomic.LoadInt32(&calls) != 2 {
		t.Fatalf("expected one retry after 503, got %d calls", calls)
	}

	_, found, err = client.Search(context.Background(), "nowhere")
	if err != nil || found {
		t.Fatalf("expected clean miss, got found=%v err=%v", found, err)
	}
}
