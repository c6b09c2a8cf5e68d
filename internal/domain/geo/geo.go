// Package geo provides coordinate validation, great-circle distance, and
// extent computation for listing positions.
package geo

import (
	"math"

	"github.com/twpayne/go-geom"
)

// EarthRadiusKm is the mean radius of Earth used for Haversine distance.
const EarthRadiusKm = 6371.0

// Point is a longitude/latitude pair in degrees.
type Point struct {
	Lon float64
	Lat float64
}

// Valid reports whether the point has finite coordinates within range.
// Listings with invalid points never reach the map surface.
func (p Point) Valid() bool {
	if math.IsNaN(p.Lon) || math.IsInf(p.Lon, 0) {
		return false
	}
	if math.IsNaN(p.Lat) || math.IsInf(p.Lat, 0) {
		return false
	}
	return p.Lat >= -90 && p.Lat <= 90 && p.Lon >= -180 && p.Lon <= 180
}

// DistanceKm returns the great-circle distance in kilometers between two
// points using the Haversine formula.
func DistanceKm(a, b Point) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusKm * c
}

// Extent returns the bounding box covering all valid points.
// ok is false when no valid point was given.
func Extent(points []Point) (minPt, maxPt Point, ok bool) {
	bounds := geom.NewBounds(geom.XY)
	n := 0
	for _, p := range points {
		if !p.Valid() {
			continue
		}
		bounds.Extend(geom.NewPointFlat(geom.XY, []float64{p.Lon, p.Lat}))
		n++
	}
	if n == 0 {
		return Point{}, Point{}, false
	}
	minPt = Point{Lon: bounds.Min(0), Lat: bounds.Min(1)}
	maxPt = Point{Lon: bounds.Max(0), Lat: bounds.Max(1)}
	return minPt, maxPt, true
}
