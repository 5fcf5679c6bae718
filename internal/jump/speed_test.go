package jump

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// profileFromMeters builds a profile with the given sample times (s) and
// altitudes (m).
func profileFromMeters(times, altitudes []float64) *JumpProfile {
	p := &JumpProfile{Number: 1}
	for i := range times {
		p.add(DataPoint{Type: PointFreefall, Time: times[i], Altitude: MetersToFeet(altitudes[i])})
	}
	return p
}

func constantDescent(n int, rate float64) *JumpProfile {
	times := make([]float64, n)
	alts := make([]float64, n)
	for i := 0; i < n; i++ {
		times[i] = float64(i)
		alts[i] = 4000 - rate*float64(i)
	}
	return profileFromMeters(times, alts)
}

func TestEstimateSpeeds_LeadingEdge(t *testing.T) {
	p := constantDescent(30, 10)
	EstimateSpeeds(p)

	for _, pt := range p.Points {
		if pt.Time < 3.0 {
			assert.Equal(t, 0.0, pt.TrueAirSpeed, "t=%v", pt.Time)
			assert.Equal(t, 0.0, pt.StandardAirSpeed, "t=%v", pt.Time)
		}
	}
}

func TestEstimateSpeeds_ConstantRate(t *testing.T) {
	const n = 30
	p := constantDescent(n, 10)
	EstimateSpeeds(p)

	want := 10 * MPHPerMPS
	for k := 3; k <= n-4; k++ {
		pt := p.Points[k]
		assert.InEpsilon(t, want, pt.TrueAirSpeed, 1e-3, "k=%d", k)

		altM := pt.Altitude / FeetPerMeter
		density := 1 + 0.00004*altM + 0.000000001*altM*altM
		assert.InEpsilon(t, want/density, pt.StandardAirSpeed, 1e-9, "k=%d", k)
		assert.Less(t, pt.StandardAirSpeed, pt.TrueAirSpeed)
	}

	// No sample a full window after i: trailing edge.
	for k := n - 3; k < n; k++ {
		assert.Equal(t, 0.0, p.Points[k].TrueAirSpeed, "k=%d", k)
		assert.Equal(t, 0.0, p.Points[k].StandardAirSpeed, "k=%d", k)
	}
}

func TestEstimateSpeeds_WindowMeasuredFromLowerBound(t *testing.T) {
	times := []float64{0, 1, 2, 3, 5, 9, 10, 14, 16}
	alts := []float64{3000, 2990, 2970, 2950, 2900, 2800, 2780, 2700, 2650}
	p := profileFromMeters(times, alts)

	EstimateSpeeds(p)
	pts := p.Points

	for k := 0; k < 3; k++ {
		assert.Equal(t, 0.0, pts[k].TrueAirSpeed, "k=%d", k)
	}
	assert.InDelta(t, (3000.0-2800.0)/9.0*MPHPerMPS, pts[3].TrueAirSpeed, 1e-9)
	assert.InDelta(t, (2970.0-2800.0)/7.0*MPHPerMPS, pts[4].TrueAirSpeed, 1e-9)

	// At t=9 the lower bound is the point itself, so the upper bound is t=16,
	// not the first sample 3 s after t=9.
	assert.InDelta(t, (2800.0-2650.0)/7.0*MPHPerMPS, pts[5].TrueAirSpeed, 1e-9)
	assert.InDelta(t, (2800.0-2650.0)/7.0*MPHPerMPS, pts[6].TrueAirSpeed, 1e-9)

	assert.Equal(t, 0.0, pts[7].TrueAirSpeed)
	assert.Equal(t, 0.0, pts[8].TrueAirSpeed)
}

func TestEstimateSpeeds_ClimbIsNegative(t *testing.T) {
	times := make([]float64, 12)
	alts := make([]float64, 12)
	for i := range times {
		times[i] = float64(i)
		alts[i] = 500 + 5*float64(i)
	}
	p := profileFromMeters(times, alts)
	EstimateSpeeds(p)

	assert.InEpsilon(t, -5*MPHPerMPS, p.Points[4].TrueAirSpeed, 1e-9)
}

func TestEstimateSpeeds_ShortAndEmptyProfiles(t *testing.T) {
	empty := &JumpProfile{}
	assert.NotPanics(t, func() { EstimateSpeeds(empty) })

	short := profileFromMeters([]float64{0, 1, 2, 3, 4}, []float64{100, 90, 80, 70, 60})
	EstimateSpeeds(short)
	for _, pt := range short.Points {
		assert.Equal(t, 0.0, pt.TrueAirSpeed)
	}
}

func TestEstimateSpeeds_Idempotent(t *testing.T) {
	p := constantDescent(20, 50)
	EstimateSpeeds(p)
	first := append([]DataPoint(nil), p.Points...)

	EstimateSpeeds(p)
	require.Equal(t, first, p.Points)
}
