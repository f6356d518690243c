package utils

import "math"

// ValidateCoordinates reports whether lat/lon are finite and inside the
// WGS84 value ranges.
func ValidateCoordinates(lat, lon float64) bool {
	if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lon) || math.IsInf(lon, 0) {
		return false
	}
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}
