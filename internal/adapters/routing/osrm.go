// Package routing implements the Router port against an OSRM-compatible
// routing backend, generalized from the teacher's ORS matrix client
// (ors_matrix.go/ors_distance_provider.go): cache-then-fetch, retry with
// backoff, a single-origin-per-call shape — narrowed here to the single
// origin/destination pair the scheduler actually needs per call.
package routing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"hos-trip-service/internal/adapters/cache"
	"hos-trip-service/internal/adapters/httpx"
	"hos-trip-service/internal/apperr"
	"hos-trip-service/internal/domain"
	"hos-trip-service/internal/platform/obs"
)

// OSRMRouter resolves a RouteSegment from an OSRM /route/v1/driving
// endpoint. The public demo server (router.project-osrm.org) is the
// default; production deployments point baseURL at a self-hosted OSRM.
type OSRMRouter struct {
	client  *httpx.Client
	baseURL string
	apiKey  string

	lru   *cache.LRU[string, domain.RouteSegment]
	redis *cache.RedisTier
	store cache.RouteStore
}

func NewOSRMRouter(baseURL, apiKey string, lru *cache.LRU[string, domain.RouteSegment], redis *cache.RedisTier, store cache.RouteStore) *OSRMRouter {
	if baseURL == "" {
		baseURL = "https://router.project-osrm.org"
	}
	return &OSRMRouter{
		client:  httpx.NewClient(nil),
		baseURL: baseURL,
		apiKey:  apiKey,
		lru:     lru,
		redis:   redis,
		store:   store,
	}
}

type osrmResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Distance float64 `json:"distance"` // meters
		Duration float64 `json:"duration"` // seconds
		Geometry string  `json:"geometry"` // encoded polyline
	} `json:"routes"`
	Message string `json:"message"`
}

const metersPerMile = 1609.344

// Route returns the RouteSegment between from and to, consulting the
// LRU/Redis/SQL cache tiers keyed on the address pair before issuing an
// upstream request.
func (r *OSRMRouter) Route(ctx context.Context, from, to domain.NamedPlace) (_ domain.RouteSegment, err error) {
	defer obs.Time(ctx, "routing.Route")(&err)

	if from.Address == "" || to.Address == "" {
		return domain.RouteSegment{}, apperr.New(apperr.Validation, "origin and destination addresses must not be empty")
	}

	key := from.Address + "|" + to.Address

	if r.lru != nil {
		if seg, ok := r.lru.Get(key); ok {
			return withEndpoints(seg, from, to), nil
		}
	}

	if r.redis != nil {
		var seg domain.RouteSegment
		if ok, rErr := r.redis.Get(ctx, key, &seg); rErr == nil && ok {
			r.cacheLocally(key, seg)
			return withEndpoints(seg, from, to), nil
		}
	}

	if r.store != nil {
		hits, sErr := r.store.GetMany(ctx, from.Address, []string{to.Address})
		if sErr != nil {
			return domain.RouteSegment{}, fmt.Errorf("routing: persistent cache lookup: %w", sErr)
		}
		if seg, ok := hits[to.Address]; ok {
			r.cacheLocally(key, seg)
			return withEndpoints(seg, from, to), nil
		}
	}

	seg, err := r.fetch(ctx, from, to)
	if err != nil {
		return domain.RouteSegment{}, err
	}

	r.cacheLocally(key, seg)
	if r.store != nil {
		if sErr := r.store.PutMany(ctx, from.Address, map[string]domain.RouteSegment{to.Address: seg}); sErr != nil {
			obs.Logger(ctx).WithError(sErr).Warn("route persistent cache write failed")
		}
	}

	return seg, nil
}

func withEndpoints(seg domain.RouteSegment, from, to domain.NamedPlace) domain.RouteSegment {
	seg.Origin = from
	seg.Destination = to
	return seg
}

func (r *OSRMRouter) cacheLocally(key string, seg domain.RouteSegment) {
	if r.lru != nil {
		r.lru.Set(key, seg)
	}
	if r.redis != nil {
		if err := r.redis.Set(context.Background(), key, seg); err != nil {
			obs.Base.WithError(err).Warn("route redis cache write failed")
		}
	}
}

func (r *OSRMRouter) fetch(ctx context.Context, from, to domain.NamedPlace) (domain.RouteSegment, error) {
	endpoint := fmt.Sprintf("%s/route/v1/driving/%f,%f;%f,%f?overview=full&geometries=polyline",
		r.baseURL, from.Coordinate.Lng, from.Coordinate.Lat, to.Coordinate.Lng, to.Coordinate.Lat)

	resp, err := r.client.DoWithRetry(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		if r.apiKey != "" {
			req.Header.Set("Authorization", r.apiKey)
		}
		return req, nil
	})
	if err != nil {
		var se *httpx.StatusError
		if errors.As(err, &se) {
			if se.Code == http.StatusTooManyRequests {
				return domain.RouteSegment{}, apperr.Wrap(apperr.RateLimited, "osrm rate limit", err)
			}
			return domain.RouteSegment{}, apperr.Wrap(apperr.UpstreamInvalid, "osrm request rejected", err)
		}
		return domain.RouteSegment{}, apperr.Wrap(apperr.UpstreamTimeout, "osrm request failed", err)
	}
	defer resp.Body.Close()

	var decoded osrmResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.RouteSegment{}, apperr.Wrap(apperr.UpstreamInvalid, "decode osrm response", err)
	}
	if decoded.Code != "Ok" || len(decoded.Routes) == 0 {
		return domain.RouteSegment{}, apperr.Newf(apperr.UpstreamInvalid, "osrm returned no route: %s %s", decoded.Code, decoded.Message)
	}

	route := decoded.Routes[0]

	return domain.RouteSegment{
		Origin:        from,
		Destination:   to,
		DistanceMiles: route.Distance / metersPerMile,
		DurationHours: route.Duration / 3600.0,
		Polyline:      route.Geometry,
	}, nil
}
