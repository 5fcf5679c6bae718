package jump

// SpeedWindow is the width in seconds of the finite-difference window.
const SpeedWindow = 6.0

// Air density correction coefficients, altitude in metres.
const (
	densityLinear    = 0.00004
	densityQuadratic = 0.000000001
)

// EstimateSpeeds fills in true and standard airspeed for every point of p.
//
// For each point k the vertical rate is taken between point i, the first
// sample no more than half a window behind k, and point j, the first sample
// at least a full window after i. The standard airspeed divides that rate by
// a density factor evaluated at k's altitude. Points in the first half window
// of the profile, and points for which no j exists, get zero speeds.
func EstimateSpeeds(p *JumpProfile) {
	pts := p.Points
	n := len(pts)
	half := SpeedWindow / 2.0

	k := 0
	for ; k < n && pts[k].Time-pts[0].Time < half; k++ {
		pts[k].TrueAirSpeed = 0
		pts[k].StandardAirSpeed = 0
	}

	i, j := 0, 0
	for ; k < n && j < n; k++ {
		for i < n && pts[k].Time-pts[i].Time > half {
			i++
		}
		// j is bounded from i, not from k.
		for i < n && j < n && pts[j].Time-pts[i].Time < SpeedWindow {
			j++
		}

		if i >= n || j >= n {
			pts[k].TrueAirSpeed = 0
			pts[k].StandardAirSpeed = 0
			continue
		}

		tas := (pts[i].Altitude/FeetPerMeter - pts[j].Altitude/FeetPerMeter) / (pts[j].Time - pts[i].Time)
		altM := pts[k].Altitude / FeetPerMeter
		sas := tas / (1.0 + densityLinear*altM + densityQuadratic*altM*altM)

		pts[k].TrueAirSpeed = tas * MPHPerMPS
		pts[k].StandardAirSpeed = sas * MPHPerMPS
	}

	for ; k < n; k++ {
		pts[k].TrueAirSpeed = 0
		pts[k].StandardAirSpeed = 0
	}
}
