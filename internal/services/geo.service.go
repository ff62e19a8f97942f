package services

import (
	"math"
	"strconv"
)

// MilesToMeters is the conversion constant used for both directions, so radius
// checks and displayed distances stay consistent.
const MilesToMeters = 1609.34

const earthRadiusMeters = 6371000.0

// DistanceMeters computes the haversine great-circle distance between two
// coordinates. The second return value is false when the distance is
// undeterminable (non-finite or out-of-range inputs); callers skip such
// candidates rather than erroring.
func DistanceMeters(lat1, lon1, lat2, lon2 float64) (float64, bool) {
	for _, v := range []float64{lat1, lon1, lat2, lon2} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, false
		}
	}
	if math.Abs(lat1) > 90 || math.Abs(lat2) > 90 || math.Abs(lon1) > 180 || math.Abs(lon2) > 180 {
		return 0, false
	}

	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c, true
}

// MetersToMiles converts meters to miles.
func MetersToMiles(meters float64) float64 {
	return meters / MilesToMeters
}

// FormatMiles renders a meter distance as miles with one decimal, the way it
// appears in notification templates ("5.0").
func FormatMiles(meters float64) string {
	return strconv.FormatFloat(math.Round(MetersToMiles(meters)*10)/10, 'f', 1, 64)
}
