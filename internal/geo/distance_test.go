package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/moodmap/internal/model"
)

var (
	austin = model.LatLng{Lat: 30.2672, Lng: -97.7431}
	dallas = model.LatLng{Lat: 32.7767, Lng: -96.7970}
)

func TestDistance_Units(t *testing.T) {
	t.Parallel()

	// Austin to Dallas is roughly 290 km.
	assert.InDelta(t, 290, Distance(austin, dallas, UnitKilometers), 10)
	assert.InDelta(t, 290000, Distance(austin, dallas, UnitMeters), 10000)
	assert.InDelta(t, 180, Distance(austin, dallas, UnitMiles), 8)

	// Unknown unit uses the meters radius.
	assert.InDelta(t, Distance(austin, dallas, UnitMeters), Distance(austin, dallas, Unit("furlongs")), 0.001)
}

func TestDistance_SamePointIsZero(t *testing.T) {
	t.Parallel()
	assert.InDelta(t, 0, DistanceMeters(austin, austin), 0.001)
}

func TestDistance_Symmetric(t *testing.T) {
	t.Parallel()
	assert.InDelta(t, DistanceMeters(austin, dallas), DistanceMeters(dallas, austin), 0.001)
}

func TestFormatDistance(t *testing.T) {
	t.Parallel()

	tests := []struct {
		meters float64
		want   string
	}{
		{0, "0 m"},
		{50, "50 m"},
		{99.4, "99 m"},
		{100, "100 m"},
		{954, "950 m"},
		{950, "950 m"},
		{1000, "1.0 km"},
		{1500, "1.5 km"},
		{9949, "9.9 km"},
		{10000, "10 km"},
		{12000, "12 km"},
		{12600, "13 km"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, FormatDistance(tt.meters))
		})
	}
}

func TestWalkingTime(t *testing.T) {
	t.Parallel()

	tests := []struct {
		meters float64
		want   string
	}{
		{0, "< 1 min walk"},
		{41, "< 1 min walk"},
		{83, "1 min walk"},
		{830, "10 min walk"},
		{83 * 60, "1 hr walk"},
		{83 * 75, "1 hr 15 min walk"},
		{83 * 125, "2 hr 5 min walk"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, WalkingTime(tt.meters), "meters=%v", tt.meters)
	}
}

func TestDrivingTime(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "< 1 min drive", DrivingTime(200))
	assert.Equal(t, "1 min drive", DrivingTime(500))
	assert.Equal(t, "12 min drive", DrivingTime(6000))
	assert.Equal(t, "1 hr drive", DrivingTime(30000))
	assert.Equal(t, "1 hr 30 min drive", DrivingTime(45000))
}

func TestBoundsForPoints(t *testing.T) {
	t.Parallel()

	points := []model.LatLng{{Lat: 1, Lng: 1}, {Lat: 3, Lng: 5}}
	b := BoundsForPoints(points, model.LatLng{Lat: 2, Lng: 2})
	require.NotNil(t, b)

	assert.InDelta(t, 3.2, b.North, 1e-9)
	assert.InDelta(t, 0.8, b.South, 1e-9)
	assert.InDelta(t, 5.4, b.East, 1e-9)
	assert.InDelta(t, 0.6, b.West, 1e-9)

	for _, p := range points {
		assert.True(t, b.Contains(p))
	}
}

func TestBoundsForPoints_CenterOutsidePoints(t *testing.T) {
	t.Parallel()

	b := BoundsForPoints([]model.LatLng{{Lat: 10, Lng: 10}}, model.LatLng{Lat: 0, Lng: 0})
	require.NotNil(t, b)
	assert.InDelta(t, 11, b.North, 1e-9)
	assert.InDelta(t, -1, b.South, 1e-9)
	assert.True(t, b.Contains(model.LatLng{}))
}

func TestBoundsForPoints_SinglePointAtCenter(t *testing.T) {
	t.Parallel()

	c := model.LatLng{Lat: 30, Lng: -97}
	b := BoundsForPoints([]model.LatLng{c}, c)
	require.NotNil(t, b)
	assert.Equal(t, Bounds{North: 30, South: 30, East: -97, West: -97}, *b)
}

func TestBoundsForPoints_Empty(t *testing.T) {
	t.Parallel()
	assert.Nil(t, BoundsForPoints(nil, austin))
}
