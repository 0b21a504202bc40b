package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFare_BasePlusDistance(t *testing.T) {
	t.Parallel()

	s := NewFareService(50, 5, nil)

	assert.Equal(t, 100.0, s.Fare(50, 5, 10))
	assert.Equal(t, 175.0, s.Fare(50, 5, 25))
}

func TestFare_NonPositiveDistanceChargesBaseFare(t *testing.T) {
	t.Parallel()

	s := NewFareService(50, 5, nil)

	assert.Equal(t, 50.0, s.Fare(50, 5, 0))
	assert.Equal(t, 50.0, s.Fare(50, 5, -3))
}

func TestProportionalFare_QuarterOfRoute(t *testing.T) {
	t.Parallel()

	s := NewFareService(50, 5, nil)

	assert.Equal(t, 50.0, s.ProportionalFare(200, 100, 25))
}

func TestProportionalFare_DegenerateDistancesFallBackToFullFare(t *testing.T) {
	t.Parallel()

	s := NewFareService(50, 5, nil)

	assert.Equal(t, 200.0, s.ProportionalFare(200, 0, 25))
	assert.Equal(t, 200.0, s.ProportionalFare(200, 100, 0))
	assert.Equal(t, 200.0, s.ProportionalFare(200, -5, 25))
}

func TestProportionalFare_NeverNegative(t *testing.T) {
	t.Parallel()

	s := NewFareService(50, 5, nil)

	assert.GreaterOrEqual(t, s.ProportionalFare(-200, 100, 25), 0.0)
}

func TestDistance_DeterministicAndSymmetric(t *testing.T) {
	t.Parallel()

	s := NewFareService(50, 5, nil)

	ab := s.Distance("Pune", "Mumbai")
	assert.Equal(t, ab, s.Distance("Pune", "Mumbai"))
	assert.Equal(t, ab, s.Distance("Mumbai", "Pune"))
	assert.Equal(t, ab, s.Distance("  pune ", "MUMBAI"))
	assert.GreaterOrEqual(t, ab, 10.0)
}

func TestDistance_SameEndpointsIsMinimum(t *testing.T) {
	t.Parallel()

	s := NewFareService(50, 5, nil)

	assert.Equal(t, 10.0, s.Distance("Pune", "Pune"))
}

type fixedDistance struct{ km float64 }

func (f fixedDistance) Distance(_, _ string) float64 { return f.km }

func TestDistance_ProviderResultClampedToMinimum(t *testing.T) {
	t.Parallel()

	s := NewFareService(50, 5, fixedDistance{km: 2})

	assert.Equal(t, 10.0, s.Distance("A", "B"))
}
