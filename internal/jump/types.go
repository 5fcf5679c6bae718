// Package jump reconstructs jump log entries and altitude profiles from a
// stream of device records and derives airspeeds from the profiles.
package jump

// Unit conversions used by the device data.
const (
	FeetPerMeter  = 3.28084  // altitude fields are metres, reported in feet
	TickSeconds   = 0.25     // profile times are quarter-second ticks
	MPHPerMPS     = 2.236936 // speed output in miles per hour
	groundWrap    = 65534    // ground altitude sign correction, kept as the device tooling does it
	groundWrapMax = 32767
)

// PointType is the flight phase a profile sample was taken in.
type PointType int

const (
	PointAircraft PointType = iota
	PointFreefall
	PointCanopy
)

var pointTypeNames = [...]string{"Aircraft", "Freefall", "Canopy"}

func (p PointType) String() string {
	if p < 0 || int(p) >= len(pointTypeNames) {
		return "Unknown"
	}
	return pointTypeNames[p]
}

// JumpType is the jump category logged by the device. Zero is unknown; the
// device code c (0..15) maps to JumpType(c+1).
type JumpType int

// JumpTypeUnknown is used for codes the device does not define.
const JumpTypeUnknown JumpType = 0

// numJumpTypes is the number of categories the device defines.
const numJumpTypes = 16

var jumpTypeNames = [numJumpTypes + 1]string{
	"<Unknown>",
	"Group 1", "Group 2", "Group 3", "Group 4",
	"4-way", "8-way", "10-way", "16-way",
	"Freefly", "Big Way", "Tandem", "AFF",
	"Birdman", "Camera", "Student", "Group 5",
}

// JumpTypeFromCode converts the device's jump type byte.
func JumpTypeFromCode(code byte) JumpType {
	if code < numJumpTypes {
		return JumpType(code) + 1
	}
	return JumpTypeUnknown
}

func (t JumpType) String() string {
	if t < 0 || int(t) >= len(jumpTypeNames) {
		return jumpTypeNames[JumpTypeUnknown]
	}
	return jumpTypeNames[t]
}

// JumpRecord is the per-jump summary assembled from jump record and profile
// start records. Altitudes are feet, times seconds.
type JumpRecord struct {
	Number            uint64
	Type              JumpType
	ExitAltitude      float64
	DeployAltitude    float64
	GroundAltitude    float64
	FreefallStartTime float64
	CanopyStartTime   float64
}

// DataPoint is one profile sample. Speeds are mph and stay zero until
// EstimateSpeeds runs.
type DataPoint struct {
	Type             PointType
	Time             float64
	Altitude         float64
	TrueAirSpeed     float64
	StandardAirSpeed float64
}

// JumpProfile is the ordered altitude series of one jump.
type JumpProfile struct {
	Number         uint64
	AircraftPoints int
	FreefallPoints int
	CanopyPoints   int
	Points         []DataPoint
}

// add appends a sample and bumps the counter of its phase.
func (p *JumpProfile) add(pt DataPoint) {
	switch pt.Type {
	case PointAircraft:
		p.AircraftPoints++
	case PointFreefall:
		p.FreefallPoints++
	case PointCanopy:
		p.CanopyPoints++
	}
	p.Points = append(p.Points, pt)
}

// MetersToFeet converts a raw altitude field.
func MetersToFeet(m float64) float64 {
	return m * FeetPerMeter
}

// TicksToSeconds converts a raw quarter-second time field.
func TicksToSeconds(ticks uint64) float64 {
	return float64(ticks) * TickSeconds
}

// GroundAltitudeMeters interprets the raw 16-bit ground altitude field.
// Values above 32767 are shifted down by 65534 (not 65536), matching the
// vendor software's output.
func GroundAltitudeMeters(raw uint64) int64 {
	v := int64(raw)
	if v > groundWrapMax {
		v -= groundWrap
	}
	return v
}
