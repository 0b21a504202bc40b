package service

import (
	"hash/fnv"
	"strings"
)

// DistanceProvider resolves a road distance in kilometres between two named
// endpoints. Implementations must be deterministic: the same pair of inputs
// always yields the same distance.
type DistanceProvider interface {
	Distance(source, destination string) float64
}

// FareService derives route distances and fares. All methods are pure.
type FareService struct {
	baseFare  float64
	ratePerKm float64
	distance  DistanceProvider
}

// NewFareService creates a FareService with the given default pricing. A nil
// provider falls back to the built-in deterministic stand-in.
func NewFareService(baseFare, ratePerKm float64, provider DistanceProvider) *FareService {
	if provider == nil {
		provider = hashDistance{}
	}
	return &FareService{
		baseFare:  baseFare,
		ratePerKm: ratePerKm,
		distance:  provider,
	}
}

// DefaultBaseFare returns the configured default base fare.
func (s *FareService) DefaultBaseFare() float64 { return s.baseFare }

// DefaultRatePerKm returns the configured default per-kilometre rate.
func (s *FareService) DefaultRatePerKm() float64 { return s.ratePerKm }

// Distance resolves the distance between two endpoints. Always >= 10 km.
func (s *FareService) Distance(source, destination string) float64 {
	d := s.distance.Distance(source, destination)
	if d < minDistanceKm {
		return minDistanceKm
	}
	return d
}

// Fare computes a total fare for a distance. A non-positive distance charges
// only the base fare.
func (s *FareService) Fare(baseFare, ratePerKm, distanceKm float64) float64 {
	if distanceKm <= 0 {
		return baseFare
	}
	return baseFare + ratePerKm*distanceKm
}

// ProportionalFare is a passenger's share of a ride's total fare, scaled by
// the fraction of the route they travel. Degenerate distances fall back to
// the full fare; the result is never negative.
func (s *FareService) ProportionalFare(totalFare, totalDistance, passengerDistance float64) float64 {
	if totalDistance <= 0 || passengerDistance <= 0 {
		return totalFare
	}

	fare := totalFare * passengerDistance / totalDistance
	if fare < 0 {
		return 0
	}
	return fare
}

const minDistanceKm = 10.0

// hashDistance is the stand-in geocoder: a stable hash of the endpoint pair
// mapped into 10..500 km. Symmetric so that A->B equals B->A. Real
// deployments swap in a mapping-service client behind DistanceProvider.
type hashDistance struct{}

func (hashDistance) Distance(source, destination string) float64 {
	a := strings.ToLower(strings.TrimSpace(source))
	b := strings.ToLower(strings.TrimSpace(destination))
	if a == b {
		return minDistanceKm
	}
	if a > b {
		a, b = b, a
	}

	h := fnv.New32a()
	_, _ = h.Write([]byte(a))
	_, _ = h.Write([]byte{'|'})
	_, _ = h.Write([]byte(b))

	return minDistanceKm + float64(h.Sum32()%491)
}
