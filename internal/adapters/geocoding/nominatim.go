// Package geocoding implements the Geocoder port against Nominatim,
// generalized from the teacher's ORS geocode client (ors_geocode.go):
// same normalize/cache/retry shape, different upstream and a two-tier
// cache in front of the persistent store instead of a single SQL cache.
package geocoding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"hos-trip-service/internal/adapters/cache"
	"hos-trip-service/internal/adapters/httpx"
	"hos-trip-service/internal/apperr"
	"hos-trip-service/internal/domain"
	"hos-trip-service/internal/platform/obs"
)

// NominatimGeocoder resolves addresses via OpenStreetMap's Nominatim
// search API. Nominatim's usage policy caps anonymous callers at one
// request per second; minInterval enforces that regardless of request
// concurrency.
type NominatimGeocoder struct {
	client  *httpx.Client
	baseURL string
	userAgent string

	lru   *cache.LRU[string, domain.NamedPlace]
	redis *cache.RedisTier
	store cache.GeocodeStore

	minInterval time.Duration
	mu          sync.Mutex
	lastRequest time.Time
}

// NewNominatimGeocoder builds a geocoder. store, redis, and lru may each
// be nil: a nil store skips the persistent tier, a nil redis skips the
// shared tier, a nil lru disables the in-process tier.
func NewNominatimGeocoder(baseURL, userAgent string, minInterval time.Duration, lru *cache.LRU[string, domain.NamedPlace], redis *cache.RedisTier, store cache.GeocodeStore) *NominatimGeocoder {
	if baseURL == "" {
		baseURL = "https://nominatim.openstreetmap.org"
	}
	return &NominatimGeocoder{
		client:      httpx.NewClient(nil),
		baseURL:     strings.TrimRight(baseURL, "/"),
		userAgent:   userAgent,
		lru:         lru,
		redis:       redis,
		store:       store,
		minInterval: minInterval,
	}
}

type nominatimResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Geocode resolves address to coordinates, consulting the LRU, Redis,
// and SQL tiers in order before falling back to an upstream request.
func (g *NominatimGeocoder) Geocode(ctx context.Context, address string) (_ domain.NamedPlace, err error) {
	defer obs.Time(ctx, "geocoding.Geocode")(&err)

	norm := normalize(address)
	if norm == "" {
		return domain.NamedPlace{}, apperr.New(apperr.Validation, "address must not be empty")
	}

	if g.lru != nil {
		if p, ok := g.lru.Get(norm); ok {
			return p, nil
		}
	}

	if g.redis != nil {
		var p domain.NamedPlace
		if ok, rErr := g.redis.Get(ctx, norm, &p); rErr == nil && ok {
			g.cacheLocally(norm, p)
			return p, nil
		}
	}

	if g.store != nil {
		hits, sErr := g.store.GetMany(ctx, []string{norm})
		if sErr != nil {
			return domain.NamedPlace{}, fmt.Errorf("geocoding: persistent cache lookup: %w", sErr)
		}
		if p, ok := hits[norm]; ok {
			g.cacheLocally(norm, p)
			return p, nil
		}
	}

	place, err := g.fetch(ctx, norm)
	if err != nil {
		return domain.NamedPlace{}, err
	}

	g.cacheLocally(norm, place)
	if g.store != nil {
		if sErr := g.store.PutMany(ctx, map[string]domain.NamedPlace{norm: place}); sErr != nil {
			obs.Logger(ctx).WithError(sErr).Warn("geocode persistent cache write failed")
		}
	}

	return place, nil
}

func (g *NominatimGeocoder) cacheLocally(key string, place domain.NamedPlace) {
	if g.lru != nil {
		g.lru.Set(key, place)
	}
	if g.redis != nil {
		if err := g.redis.Set(context.Background(), key, place); err != nil {
			obs.Base.WithError(err).Warn("geocode redis cache write failed")
		}
	}
}

func (g *NominatimGeocoder) fetch(ctx context.Context, address string) (domain.NamedPlace, error) {
	if err := g.throttle(ctx); err != nil {
		return domain.NamedPlace{}, err
	}

	endpoint := g.baseURL + "/search"
	q := url.Values{}
	q.Set("q", address)
	q.Set("format", "jsonv2")
	q.Set("limit", "1")
	q.Set("countrycodes", "us")

	resp, err := g.client.DoWithRetry(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+q.Encode(), nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		if g.userAgent != "" {
			req.Header.Set("User-Agent", g.userAgent)
		}
		return req, nil
	})
	if err != nil {
		return domain.NamedPlace{}, classifyUpstreamErr(err)
	}
	defer resp.Body.Close()

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return domain.NamedPlace{}, apperr.Wrap(apperr.UpstreamInvalid, "decode nominatim response", err)
	}
	if len(results) == 0 {
		return domain.NamedPlace{}, apperr.Newf(apperr.UpstreamInvalid, "no geocoding result for %q", address)
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return domain.NamedPlace{}, apperr.Wrap(apperr.UpstreamInvalid, "parse latitude", err)
	}
	lng, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return domain.NamedPlace{}, apperr.Wrap(apperr.UpstreamInvalid, "parse longitude", err)
	}

	return domain.NamedPlace{
		Address:     address,
		Coordinate:  domain.Coordinate{Lat: lat, Lng: lng},
		DisplayName: results[0].DisplayName,
	}, nil
}

// throttle blocks until minInterval has elapsed since the last upstream
// request, respecting ctx cancellation.
func (g *NominatimGeocoder) throttle(ctx context.Context) error {
	if g.minInterval <= 0 {
		return nil
	}

	g.mu.Lock()
	wait := g.minInterval - time.Since(g.lastRequest)
	if wait < 0 {
		wait = 0
	}
	g.lastRequest = time.Now().Add(wait)
	g.mu.Unlock()

	if wait == 0 {
		return nil
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func classifyUpstreamErr(err error) error {
	var se *httpx.StatusError
	if errors.As(err, &se) {
		if se.Code == http.StatusTooManyRequests {
			return apperr.Wrap(apperr.RateLimited, "nominatim rate limit", err)
		}
		return apperr.Wrap(apperr.UpstreamInvalid, "nominatim request failed", err)
	}
	return apperr.Wrap(apperr.UpstreamTimeout, "nominatim request failed", err)
}
