package geo

import (
	"fmt"
	"math"
	"strconv"
)

// EarthRadius is the mean Earth radius in meters used by the Haversine formula.
const EarthRadius = 6371000.0

// MinAutoRadius is the smallest radius derived from a map viewport.
const MinAutoRadius = 300

// Point is a WGS84 coordinate.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Bounds is the visible map rectangle.
type Bounds struct {
	SouthWest Point `json:"sw"`
	NorthEast Point `json:"ne"`
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// HaversineDistance returns the great-circle distance in whole meters.
func HaversineDistance(lat1, lng1, lat2, lng2 float64) int {
	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return int(math.Round(EarthRadius * c))
}

// Distance is HaversineDistance over points.
func Distance(a, b Point) int {
	return HaversineDistance(a.Lat, a.Lng, b.Lat, b.Lng)
}

// FormatDistance renders meters below 1km and kilometers with one decimal above.
func FormatDistance(meters int) string {
	if meters < 1000 {
		return strconv.Itoa(meters) + "m"
	}
	return fmt.Sprintf("%.1fkm", float64(meters)/1000)
}

// RadiusFromViewport derives a search radius from the viewport center and its
// north-east corner.
func RadiusFromViewport(center, northEast Point) int {
	d := Distance(center, northEast)
	if d < MinAutoRadius {
		return MinAutoRadius
	}
	return d
}

// Contains reports whether p lies inside the rectangle, edges included.
// A south-west longitude greater than the north-east one means the box
// crosses the antimeridian.
func (b Bounds) Contains(p Point) bool {
	if p.Lat < b.SouthWest.Lat || p.Lat > b.NorthEast.Lat {
		return false
	}
	if b.SouthWest.Lng <= b.NorthEast.Lng {
		return p.Lng >= b.SouthWest.Lng && p.Lng <= b.NorthEast.Lng
	}
	return p.Lng >= b.SouthWest.Lng || p.Lng <= b.NorthEast.Lng
}

// Center is the midpoint of the box, taking the short way across the
// antimeridian when the box spans it.
func (b Bounds) Center() Point {
	lng := (b.SouthWest.Lng + b.NorthEast.Lng) / 2
	if b.SouthWest.Lng > b.NorthEast.Lng {
		lng += 180
		if lng > 180 {
			lng -= 360
		}
	}
	return Point{
		Lat: (b.SouthWest.Lat + b.NorthEast.Lat) / 2,
		Lng: lng,
	}
}

// Valid reports whether the point is a finite coordinate within range.
func (p Point) Valid() bool {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lng) || math.IsInf(p.Lat, 0) || math.IsInf(p.Lng, 0) {
		return false
	}
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}
