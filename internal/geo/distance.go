// Package geo provides great-circle distance, human-readable distance and
// travel-time formatting, and map bounds for result sets.
package geo

import (
	"fmt"
	"math"

	"github.com/sells-group/moodmap/internal/model"
)

// Unit selects the Earth radius used by Distance.
type Unit string

const (
	UnitMeters     Unit = "meters"
	UnitKilometers Unit = "km"
	UnitMiles      Unit = "miles"
)

const (
	earthRadiusKM     = 6371.0
	earthRadiusMiles  = 3959.0
	earthRadiusMeters = 6371000.0

	walkingMetersPerMinute = 83.0
	drivingMetersPerMinute = 500.0
)

func radius(unit Unit) float64 {
	switch unit {
	case UnitKilometers:
		return earthRadiusKM
	case UnitMiles:
		return earthRadiusMiles
	default:
		return earthRadiusMeters
	}
}

// Distance returns the haversine distance between a and b in the given unit.
// Unknown units fall back to meters.
func Distance(a, b model.LatLng, unit Unit) float64 {
	dLat := toRadians(b.Lat - a.Lat)
	dLng := toRadians(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(a.Lat))*math.Cos(toRadians(b.Lat))*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return radius(unit) * c
}

// DistanceMeters is Distance in meters.
func DistanceMeters(a, b model.LatLng) float64 {
	return Distance(a, b, UnitMeters)
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// FormatDistance renders a distance for display: "50 m", "950 m", "1.5 km", "12 km".
func FormatDistance(meters float64) string {
	switch {
	case meters < 100:
		return fmt.Sprintf("%d m", int(math.Round(meters)))
	case meters < 1000:
		return fmt.Sprintf("%d m", int(math.Round(meters/10)*10))
	case meters < 10000:
		return fmt.Sprintf("%.1f km", math.Round(meters/100)/10)
	default:
		return fmt.Sprintf("%d km", int(math.Round(meters/1000)))
	}
}

// WalkingTime estimates walking time at 83 m/min, e.g. "12 min walk".
func WalkingTime(meters float64) string {
	return travelTime(meters, walkingMetersPerMinute, "walk")
}

// DrivingTime estimates driving time at 500 m/min, e.g. "1 hr 5 min drive".
func DrivingTime(meters float64) string {
	return travelTime(meters, drivingMetersPerMinute, "drive")
}

func travelTime(meters, perMinute float64, mode string) string {
	minutes := int(math.Round(meters / perMinute))
	switch {
	case minutes <= 0:
		return "< 1 min " + mode
	case minutes == 1:
		return "1 min " + mode
	case minutes < 60:
		return fmt.Sprintf("%d min %s", minutes, mode)
	}

	hours, rem := minutes/60, minutes%60
	if rem == 0 {
		return fmt.Sprintf("%d hr %s", hours, mode)
	}
	return fmt.Sprintf("%d hr %d min %s", hours, rem, mode)
}
