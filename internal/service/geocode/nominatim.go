package geocode

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cenkalti/backoff/v4"
	"github.com/ougirez/tripplanner/internal/pkg/logger"
	gobreaker "github.com/sony/gobreaker/v2"
)

const (
	retryInterval   = 500 * time.Millisecond
	maxRetries      = 3
	tripAfterErrors = 5
)

// NominatimClient queries the OpenStreetMap search endpoint.
type NominatimClient struct {
	baseURL   string
	userAgent string
	http      *http.Client
	breaker   *gobreaker.CircuitBreaker[[]nominatimPlace]
}

type nominatimPlace struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// errTransient marks responses worth retrying.
var errTransient = errors.New("transient geocoder response")

func NewNominatimClient(baseURL, userAgent string, httpClient *http.Client) *NominatimClient {
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	settings := gobreaker.Settings{
		Name:    "nominatim",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= tripAfterErrors
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warnf(context.Background(), "circuit breaker %s: %s -> %s", name, from.String(), to.String())
		},
	}

	return &NominatimClient{
		baseURL:   baseURL,
		userAgent: userAgent,
		http:      httpClient,
		breaker:   gobreaker.NewCircuitBreaker[[]nominatimPlace](settings),
	}
}

func (c *NominatimClient) Search(ctx context.Context, query string) (Coordinates, bool, error) {
	places, err := c.breaker.Execute(func() ([]nominatimPlace, error) {
		var res []nominatimPlace
		err := backoff.Retry(
			func() error {
				var reqErr error
				res, reqErr = c.do(ctx, query)
				if reqErr != nil && !errors.Is(reqErr, errTransient) {
					return backoff.Permanent(reqErr)
				}
				return reqErr
			},
			backoff.WithContext(
				backoff.WithMaxRetries(backoff.NewConstantBackOff(retryInterval), maxRetries),
				ctx,
			),
		)
		return res, err
	})
	if err != nil {
		return Coordinates{}, false, err
	}
	if len(places) == 0 {
		return Coordinates{}, false, nil
	}

	lat, err := strconv.ParseFloat(places[0].Lat, 64)
	if err != nil {
		return Coordinates{}, false, fmt.Errorf("parse lat %q: %w", places[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(places[0].Lon, 64)
	if err != nil {
		return Coordinates{}, false, fmt.Errorf("parse lon %q: %w", places[0].Lon, err)
	}
	return Coordinates{Latitude: lat, Longitude: lon}, true, nil
}

func (c *NominatimClient) do(ctx context.Context, query string) ([]nominatimPlace, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("http.NewRequest: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http.Do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
		return nil, fmt.Errorf("status %d: %w", resp.StatusCode, errTransient)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status code error: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("io.ReadAll: %w", err)
	}
	var places []nominatimPlace
	if err := sonic.Unmarshal(body, &places); err != nil {
		return nil, fmt.Errorf("sonic.Unmarshal: %w", err)
	}
	return places, nil
}
