package common

import (
	"fmt"
	"math"
)

// reachedTolerance is how close (in degrees, per axis) a team has to be to a
// waypoint for it to count as reached.
const reachedTolerance = 0.00005

type Coordinates struct {
	Lat float64 `json:"lat" db:"lat"`
	Lon float64 `json:"lon" db:"lon"`
}

func NewCoordinates(lat, lon float64) Coordinates {
	return Coordinates{Lat: lat, Lon: lon}
}

// Reached reports whether pos is close enough to pt to count as standing on it.
func (pos Coordinates) Reached(pt Coordinates) bool {
	return math.Abs(pos.Lat-pt.Lat) < reachedTolerance &&
		math.Abs(pos.Lon-pt.Lon) < reachedTolerance
}

func ValidateLatLon(lat, lon float64) error {
	if lat < -90 || lat > 90 {
		return fmt.Errorf("latitude must be between -90 and 90, got %f", lat)
	}
	if lon < -180 || lon > 180 {
		return fmt.Errorf("longitude must be between -180 and 180, got %f", lon)
	}
	return nil
}
