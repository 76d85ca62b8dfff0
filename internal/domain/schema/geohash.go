package schema

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"

	"tripstore/internal/domain/entity"
)

const (
	// geohashStep is the bucket edge in degrees (two decimals, about 1.1 km of latitude).
	geohashStep = 0.01

	// maxBucketSpan caps how many buckets a covering query may touch per axis.
	maxBucketSpan = 21
)

// Geohash buckets a coordinate by rounding both axes to two decimals.
// Nearby coordinates share a bucket; exact distances need client-side filtering.
func Geohash(lat, lng float64) string {
	return fmt.Sprintf("%.2f,%.2f", roundBucket(lat), roundBucket(lng))
}

// GeohashOf returns the bucket of optional coordinates, or "" when either is nil.
func GeohashOf(lat, lng *float64) string {
	if lat == nil || lng == nil {
		return ""
	}

	return Geohash(*lat, *lng)
}

// NeighborBuckets returns the bucket of the point and its eight neighbours.
func NeighborBuckets(lat, lng float64) []string {
	return bucketsBetween(roundBucket(lat)-geohashStep, roundBucket(lng)-geohashStep, roundBucket(lat)+geohashStep, roundBucket(lng)+geohashStep)
}

// CoveringBuckets returns every bucket intersecting the circle of radiusKm
// around the point, never fewer than the 3x3 neighbourhood. Very large radii
// are clipped to a square of maxBucketSpan buckets per side.
func CoveringBuckets(lat, lng, radiusKm float64) []string {
	bound := geo.NewBoundAroundPoint(orb.Point{lng, lat}, radiusKm*1000)

	minLat := math.Min(roundBucket(bound.Min.Lat()), roundBucket(lat)-geohashStep)
	maxLat := math.Max(roundBucket(bound.Max.Lat()), roundBucket(lat)+geohashStep)
	minLng := math.Min(roundBucket(bound.Min.Lon()), roundBucket(lng)-geohashStep)
	maxLng := math.Max(roundBucket(bound.Max.Lon()), roundBucket(lng)+geohashStep)

	half := float64(maxBucketSpan/2) * geohashStep
	minLat = math.Max(minLat, roundBucket(lat)-half)
	maxLat = math.Min(maxLat, roundBucket(lat)+half)
	minLng = math.Max(minLng, roundBucket(lng)-half)
	maxLng = math.Min(maxLng, roundBucket(lng)+half)

	return bucketsBetween(minLat, minLng, maxLat, maxLng)
}

// DistanceKm is the great-circle distance between two coordinates.
func DistanceKm(lat1, lng1, lat2, lng2 float64) float64 {
	return geo.DistanceHaversine(orb.Point{lng1, lat1}, orb.Point{lng2, lat2}) / 1000
}

func bucketsBetween(minLat, minLng, maxLat, maxLng float64) []string {
	latSteps := int(math.Round((maxLat-minLat)/geohashStep)) + 1
	lngSteps := int(math.Round((maxLng-minLng)/geohashStep)) + 1

	buckets := make([]string, 0, latSteps*lngSteps)
	for i := range latSteps {
		bLat := roundBucket(minLat + float64(i)*geohashStep)
		if bLat < -90 || bLat > 90 {
			continue
		}
		for j := range lngSteps {
			bLng := roundBucket(minLng + float64(j)*geohashStep)
			if bLng < -180 || bLng > 180 {
				continue
			}
			buckets = append(buckets, Geohash(bLat, bLng))
		}
	}

	return buckets
}

func roundBucket(v float64) float64 {
	r := math.Round(v/geohashStep) * geohashStep
	if r == 0 {
		return 0
	}

	return math.Round(r*100) / 100
}

// WithinRadius keeps the places inside radiusKm of the point, nearest first.
// Places without coordinates are dropped.
func WithinRadius(places []*entity.Place, lat, lng, radiusKm float64) []*entity.Place {
	type hit struct {
		place *entity.Place
		km    float64
	}

	hits := make([]hit, 0, len(places))
	for _, p := range places {
		if !p.HasLocation() {
			continue
		}
		if km := DistanceKm(lat, lng, *p.Latitude, *p.Longitude); km <= radiusKm {
			hits = append(hits, hit{place: p, km: km})
		}
	}
	slices.SortFunc(hits, func(a, b hit) int {
		return cmp.Or(cmp.Compare(a.km, b.km), cmp.Compare(a.place.ID, b.place.ID))
	})

	out := make([]*entity.Place, len(hits))
	for i, h := range hits {
		out[i] = h.place
	}

	return out
}
