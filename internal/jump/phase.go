package jump

// Stream type sub-codes that move the flight phase forward.
const (
	streamFreefall      = 5
	streamCanopy        = 6
	streamCanopyLanding = 7
)

// Phase tracks the flight phase that incoming profile samples belong to.
// Only stream type records change it, and a profile start resets it.
type Phase struct {
	current PointType
}

// Current returns the active phase.
func (p *Phase) Current() PointType {
	return p.current
}

// Reset returns to the aircraft phase at the start of a profile.
func (p *Phase) Reset() {
	p.current = PointAircraft
}

// Stream applies a stream type sub-code. Unrecognised codes leave the phase
// unchanged.
func (p *Phase) Stream(code byte) {
	switch code {
	case streamFreefall:
		p.current = PointFreefall
	case streamCanopy, streamCanopyLanding:
		p.current = PointCanopy
	}
}
