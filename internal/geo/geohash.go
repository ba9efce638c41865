package geo

import (
	"fmt"

	"github.com/mmcloughlin/geohash"
)

// RegionPrecision is the geohash length used for region identity. Five
// characters bucket coordinates into cells of roughly 5km x 5km, so nearby
// memories land in the same region.
const RegionPrecision = 5

// Encode maps a coordinate to its region geohash. Inputs must already be
// validated; Encode itself is pure and deterministic.
func Encode(lat, lng float64) string {
	return geohash.EncodeWithPrecision(lat, lng, RegionPrecision)
}

// EncodeWithPrecision exposes arbitrary-precision encoding for callers that
// need finer cells than the region grid.
func EncodeWithPrecision(lat, lng float64, chars uint) string {
	return geohash.EncodeWithPrecision(lat, lng, chars)
}

// Validate rejects coordinates outside the valid WGS84 ranges.
func Validate(lat, lng float64) error {
	if lat < -90 || lat > 90 {
		return fmt.Errorf("latitude %v out of range [-90, 90]", lat)
	}
	if lng < -180 || lng > 180 {
		return fmt.Errorf("longitude %v out of range [-180, 180]", lng)
	}
	return nil
}
