package geo

import "math"

const earthRadiusKm = 6371.0

// Haversine returns the great-circle distance in kilometers between two
// points.
func Haversine(p1, p2 GeoPoint) float64 {
	dLat := toRad(p2.Lat - p1.Lat)
	dLon := toRad(p2.Lon - p1.Lon)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(p1.Lat))*math.Cos(toRad(p2.Lat))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

// PathDistanceKm sums the haversine distance over consecutive pairs of the
// ordered path. Zero or one point yields 0.
func PathDistanceKm(points []GeoPoint) float64 {
	var total float64
	for i := 1; i < len(points); i++ {
		total += Haversine(points[i-1], points[i])
	}
	return total
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
