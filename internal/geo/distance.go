// Package geo implements great-circle distance math for proximity queries.
package geo

import "math"

// earthRadiusKm is the mean Earth radius used for all distance math.
const earthRadiusKm = 6371.0

// Distance returns the great-circle distance in kilometers between two
// coordinates given in degrees. The inverse-cosine argument is clamped to
// [-1, 1]: floating-point rounding can push it slightly outside for
// near-identical or antipodal points, and acos is undefined there.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	if lat1 == lat2 && lon1 == lon2 {
		return 0
	}

	phi1 := degreesToRadians(lat1)
	phi2 := degreesToRadians(lat2)
	deltaLambda := degreesToRadians(lon2 - lon1)

	cosine := math.Sin(phi1)*math.Sin(phi2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Cos(deltaLambda)

	return earthRadiusKm * math.Acos(clamp(cosine, -1, 1))
}

// WithinRadius reports whether two coordinates are at most radiusKm apart.
func WithinRadius(lat1, lon1, lat2, lon2, radiusKm float64) bool {
	return Distance(lat1, lon1, lat2, lon2) <= radiusKm
}

// MovedBeyond reports whether a coordinate update travelled more than
// thresholdKm from the previous position. Callers use it to debounce
// location-driven refreshes; it has no bearing on query correctness.
func MovedBeyond(prevLat, prevLon, lat, lon, thresholdKm float64) bool {
	return Distance(prevLat, prevLon, lat, lon) > thresholdKm
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
