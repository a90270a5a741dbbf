package catalog

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ougirez/tripplanner/internal/domain"
	"github.com/ougirez/tripplanner/internal/pkg/classifier"
)

var errMissingColumn = errors.New("missing required column")

// header indexes CSV columns by name.
type header map[string]int

func newHeader(row []string) header {
	h := make(header, len(row))
	for i, name := range row {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		h[strings.TrimSpace(strings.ToLower(name))] = i
	}
	return h
}

func (h header) get(row []string, name string) (string, bool) {
	i, ok := h[name]
	if !ok || i >= len(row) {
		return "", false
	}
	return strings.TrimSpace(row[i]), true
}

func (h header) float(row []string, name string) float64 {
	v, _ := h.get(row, name)
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}
	return f
}

func readCSV(r io.Reader) (header, [][]string, error) {
	reader := csv.NewReader(bufio.NewReader(r))
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("csv.ReadAll: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("empty file: %w", errMissingColumn)
	}
	return newHeader(rows[0]), rows[1:], nil
}

// ParsePOIs reads the POI sheet. id and name are required; the other
// columns fall back to their defaults when absent or blank.
func ParsePOIs(r io.Reader, table classifier.Table) ([]domain.PointOfInterest, error) {
	h, rows, err := readCSV(r)
	if err != nil {
		return nil, err
	}
	for _, col := range []string{"id", "name"} {
		if _, ok := h[col]; !ok {
			return nil, fmt.Errorf("%s: %w", col, errMissingColumn)
		}
	}

	pois := make([]domain.PointOfInterest, 0, len(rows))
	for _, row := range rows {
		id, _ := h.get(row, "id")
		name, _ := h.get(row, "name")
		if name == "" {
			continue
		}
		district, _ := h.get(row, "district")
		if district == "" {
			district = domain.DefaultDistrict
		}
		tags, _ := h.get(row, "tags")
		image, _ := h.get(row, "image_url")

		pois = append(pois, domain.PointOfInterest{
			ID:         domain.POIID(id),
			Name:       name,
			District:   district,
			Tags:       tags,
			MappedTags: table.Classify(tags),
			Latitude:   h.float(row, "latitude"),
			Longitude:  h.float(row, "longitude"),
			ImageURL:   image,
		})
	}

	return pois, nil
}

func ParseNightMarkets(r io.Reader) ([]domain.NightMarket, error) {
	h, rows, err := readCSV(r)
	if err != nil {
		return nil, err
	}
	for _, col := range []string{"name", "days"} {
		if _, ok := h[col]; !ok {
			return nil, fmt.Errorf("%s: %w", col, errMissingColumn)
		}
	}

	markets := make([]domain.NightMarket, 0, len(rows))
	for _, row := range rows {
		name, _ := h.get(row, "name")
		if name == "" {
			continue
		}
		days, _ := h.get(row, "days")
		image, _ := h.get(row, "image_url")
		if image == "" {
			image = domain.DefaultNightMarketImage
		}

		markets = append(markets, domain.NightMarket{
			Name:      name,
			Days:      days,
			Latitude:  h.float(row, "latitude"),
			Longitude: h.float(row, "longitude"),
			ImageURL:  image,
		})
	}

	return markets, nil
}

func LoadPOIsFromFile(path string, table classifier.Table) ([]domain.PointOfInterest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open poi file: %w", err)
	}
	defer f.Close()

	pois, err := ParsePOIs(f, table)
	if err != nil {
		return nil, fmt.Errorf("ParsePOIs, path-%s: %w", path, err)
	}
	return pois, nil
}

// LoadNightMarketsFromFiles uses the first path that exists. No file at all
// is not an error.
func LoadNightMarketsFromFiles(paths []string) ([]domain.NightMarket, error) {
	for _, path := range paths {
		f, err := os.Open(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("open night market file: %w", err)
		}

		markets, err := ParseNightMarkets(f)
		_ = f.Close()
		if err != nil {
			return nil, fmt.Errorf("ParseNightMarkets, path-%s: %w", path, err)
		}
		return markets, nil
	}
	return nil, nil
}
