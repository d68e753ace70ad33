package reststop

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"hos-trip-service/internal/adapters/httpx"
	"hos-trip-service/internal/domain"
	"hos-trip-service/internal/platform/obs"
)

// OverpassLocator queries an Overpass API instance for real amenity=fuel
// or highway=rest_area nodes near a point, falling back to the
// InterpolatingLocator's placeholder when the query errors or turns up
// nothing — a locator miss never blocks the scheduler (§4.2/§7).
type OverpassLocator struct {
	client   *httpx.Client
	baseURL  string
	radiusM  int
	fallback *InterpolatingLocator
}

// NewOverpassLocator builds a locator against baseURL (e.g.
// "https://overpass-api.de/api/interpreter"), searching within radiusM
// meters of the requested point.
func NewOverpassLocator(baseURL string, radiusM int) *OverpassLocator {
	if radiusM <= 0 {
		radiusM = 8000
	}
	return &OverpassLocator{
		client:   httpx.NewClient(nil),
		baseURL:  baseURL,
		radiusM:  radiusM,
		fallback: NewInterpolatingLocator(nil),
	}
}

type overpassResponse struct {
	Elements []struct {
		Lat  float64           `json:"lat"`
		Lon  float64           `json:"lon"`
		Tags map[string]string `json:"tags"`
	} `json:"elements"`
}

// NearestStop queries Overpass for the tag filter matching kind within
// radiusM of near, returning the first result. Any failure (network,
// decode, zero results) falls back to the placeholder locator.
func (o *OverpassLocator) NearestStop(ctx context.Context, near domain.Coordinate, kind domain.StopKind) (_ domain.NamedPlace, _ bool, err error) {
	defer obs.Time(ctx, "reststop.NearestStop")(&err)

	query := overpassQuery(kind, near, o.radiusM)

	resp, fetchErr := o.client.DoWithRetry(ctx, func() (*http.Request, error) {
		form := url.Values{"data": {query}}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL, strings.NewReader(form.Encode()))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return req, nil
	})
	if fetchErr != nil {
		return o.fallback.NearestStop(ctx, near, kind)
	}
	defer resp.Body.Close()

	var decoded overpassResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil || len(decoded.Elements) == 0 {
		return o.fallback.NearestStop(ctx, near, kind)
	}

	el := decoded.Elements[0]
	name := el.Tags["name"]
	if name == "" {
		name = placeholderName(kind, domain.Coordinate{Lat: el.Lat, Lng: el.Lon})
	}

	return domain.NamedPlace{
		Coordinate:  domain.Coordinate{Lat: el.Lat, Lng: el.Lon},
		DisplayName: name,
	}, true, nil
}

func overpassQuery(kind domain.StopKind, near domain.Coordinate, radiusM int) string {
	filter := `amenity=fuel`
	if kind != domain.StopFuel {
		filter = `highway=rest_area`
	}
	return fmt.Sprintf(
		`[out:json];node[%s](around:%d,%f,%f);out 1;`,
		filter, radiusM, near.Lat, near.Lng,
	)
}
