package planar

import (
	"math"
	"math/rand/v2"

	astar "github.com/pdrpinto/motionastar"
)

// FanSampler yields Headings evenly spaced headings of length Step.
// A positive MaxStep caps the length. With a non-zero Jitter every heading
// is perturbed by up to Jitter times the angular spacing, drawn from a
// seeded source.
type FanSampler struct {
	Headings int
	Step     float64
	MaxStep  float64
	Jitter   float64

	rng *rand.Rand
}

// NewFanSampler creates a sampler; seed makes jittered output reproducible.
func NewFanSampler(headings int, step, jitter float64, seed uint64) *FanSampler {
	return &FanSampler{
		Headings: headings,
		Step:     step,
		Jitter:   jitter,
		rng:      rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// Sample returns the fan of controls for state.
func (sampler *FanSampler) Sample(model astar.Model[State, Control, float64], state State) []Control {
	headings := max(sampler.Headings, 1)
	step := sampler.Step
	if sampler.MaxStep > 0 {
		step = min(step, sampler.MaxStep)
	}

	spacing := 2 * math.Pi / float64(headings)
	controls := make([]Control, 0, headings)
	for i := range headings {
		heading := spacing * float64(i)
		if sampler.Jitter > 0 && sampler.rng != nil {
			heading += (sampler.rng.Float64()*2 - 1) * sampler.Jitter * spacing
		}
		controls = append(controls, Control{Heading: heading, Distance: step})
	}
	return controls
}
