package geo

import (
	"fmt"
	"math"
)

const earthRadiusKm = 6371

// DistanceKm returns the great-circle distance between two coordinates in
// kilometers using the haversine formula.
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

// FormatDistance renders a distance for display: meters under 1 km, one
// decimal under 10 km, whole kilometers above.
func FormatDistance(km float64) string {
	if km < 1 {
		return fmt.Sprintf("%dm", int(math.Round(km*1000)))
	}
	if km < 10 {
		return fmt.Sprintf("%.1fkm", km)
	}
	return fmt.Sprintf("%dkm", int(math.Round(km)))
}
