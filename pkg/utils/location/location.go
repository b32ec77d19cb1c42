// pkg/utils/location/location.go
package location

import (
	"fmt"
	"net/url"

	"github.com/mmcloughlin/geohash"
)

// Precision 7 is roughly a city block, enough to tell buildings apart.
const GeohashPrecision = 7

type Location struct {
	Address   *string  `json:"address"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Geohash   string   `json:"geohash,omitempty"`
	MapURL    string   `json:"mapUrl,omitempty"`
}

// ValidCoordinates reports whether lat/lng lie on the globe.
func ValidCoordinates(lat, lng float64) bool {
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

// Describe builds the public location block. Coordinates win over the
// address for the map link; nil means nothing to show.
func Describe(address *string, lat, lng *float64) *Location {
	hasCoords := lat != nil && lng != nil && ValidCoordinates(*lat, *lng)
	hasAddress := address != nil && *address != ""
	if !hasCoords && !hasAddress {
		return nil
	}

	loc := &Location{Address: address}
	if hasCoords {
		loc.Latitude = lat
		loc.Longitude = lng
		loc.Geohash = geohash.EncodeWithPrecision(*lat, *lng, GeohashPrecision)
		loc.MapURL = fmt.Sprintf("https://www.google.com/maps/search/?api=1&query=%f,%f", *lat, *lng)
		return loc
	}

	loc.MapURL = "https://www.google.com/maps/search/?api=1&query=" + url.QueryEscape(*address)
	return loc
}
