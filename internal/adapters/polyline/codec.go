// Package polyline encodes and decodes the Google polyline algorithm
// format that RouteSegment.Polyline carries on the wire (§3). No example
// repo in the retrieval pack ships a polyline codec dependency, so this
// is built directly on the standard library (see DESIGN.md) rather than
// reaching for an unfamiliar third-party decoder.
package polyline

import (
	"math"
	"strings"

	"hos-trip-service/internal/domain"
)

const precision = 1e5

// Encode renders points using the standard Google polyline algorithm:
// delta-coded, scaled to 1e5, varint-chunked, offset by 63 ('?').
func Encode(points []domain.Coordinate) string {
	var b strings.Builder
	var prevLat, prevLng int64

	for _, p := range points {
		lat := int64(math.Round(p.Lat * precision))
		lng := int64(math.Round(p.Lng * precision))

		encodeValue(&b, lat-prevLat)
		encodeValue(&b, lng-prevLng)

		prevLat, prevLng = lat, lng
	}

	return b.String()
}

func encodeValue(b *strings.Builder, v int64) {
	shifted := v << 1
	if v < 0 {
		shifted = ^shifted
	}

	for shifted >= 0x20 {
		b.WriteByte(byte((shifted&0x1f)|0x20) + 63)
		shifted >>= 5
	}
	b.WriteByte(byte(shifted) + 63)
}

// Decode parses an encoded polyline back into the ordered coordinate
// list it represents.
func Decode(encoded string) []domain.Coordinate {
	var points []domain.Coordinate
	var lat, lng int64
	i := 0

	for i < len(encoded) {
		dLat, next := decodeValue(encoded, i)
		i = next
		lat += dLat

		dLng, next2 := decodeValue(encoded, i)
		i = next2
		lng += dLng

		points = append(points, domain.Coordinate{
			Lat: float64(lat) / precision,
			Lng: float64(lng) / precision,
		})
	}

	return points
}

func decodeValue(encoded string, i int) (int64, int) {
	var result int64
	var shift uint

	for {
		if i >= len(encoded) {
			break
		}
		b := int64(encoded[i]) - 63
		i++

		result |= (b & 0x1f) << shift
		shift += 5

		if b < 0x20 {
			break
		}
	}

	if result&1 != 0 {
		return ^(result >> 1), i
	}
	return result >> 1, i
}
