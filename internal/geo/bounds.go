package geo

import (
	"github.com/twpayne/go-geom"

	"github.com/sells-group/moodmap/internal/model"
)

// boundsPadding is the fraction of each span added on every side.
const boundsPadding = 0.1

// Bounds is a padded lat/lng viewport.
type Bounds struct {
	North float64 `json:"north"`
	South float64 `json:"south"`
	East  float64 `json:"east"`
	West  float64 `json:"west"`
}

// BoundsForPoints returns the viewport covering points and center, padded by
// 10% of the lat and lng spans. Returns nil when points is empty.
func BoundsForPoints(points []model.LatLng, center model.LatLng) *Bounds {
	if len(points) == 0 {
		return nil
	}

	flat := make([]float64, 0, 2*(len(points)+1))
	flat = append(flat, center.Lng, center.Lat)
	for _, p := range points {
		flat = append(flat, p.Lng, p.Lat)
	}

	b := geom.NewBounds(geom.XY).Extend(geom.NewMultiPointFlat(geom.XY, flat))

	west, east := b.Min(0), b.Max(0)
	south, north := b.Min(1), b.Max(1)
	latPad := (north - south) * boundsPadding
	lngPad := (east - west) * boundsPadding

	return &Bounds{
		North: north + latPad,
		South: south - latPad,
		East:  east + lngPad,
		West:  west - lngPad,
	}
}

// Contains reports whether p lies inside the bounds.
func (b Bounds) Contains(p model.LatLng) bool {
	return p.Lat >= b.South && p.Lat <= b.North && p.Lng >= b.West && p.Lng <= b.East
}
