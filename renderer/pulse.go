package renderer

import "github.com/go-gl/mathgl/mgl32"

// Pulse bounces the red channel of a colour between 0 and 1.
type Pulse struct {
	color mgl32.Vec4
	step  float32
}

// NewPulse starts at base and moves the red channel by step per frame.
func NewPulse(base mgl32.Vec4, step float32) *Pulse {
	return &Pulse{color: base, step: step}
}

// Next returns the colour for this frame and advances. The direction flips
// once red has passed either end, so it can overshoot by one step.
func (p *Pulse) Next() mgl32.Vec4 {
	c := p.color
	if p.color[0] > 1 {
		p.step = -abs(p.step)
	} else if p.color[0] < 0 {
		p.step = abs(p.step)
	}
	p.color[0] += p.step
	return c
}

func abs(f float32) float32 {
	if f < 0 {
		return -f
	}
	return f
}
