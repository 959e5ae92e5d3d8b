// Package imop implements the Porter-Duff composition operators and a set of
// separable blend modes used for mixing a graphic element with its backdrop.
// Porter and Duff presented 12 composition operators in their paper, but
// image/draw only implements source-over and source.
//
// The watermark and mockup tools composite their layers through this package.
package imop

import (
	"fmt"
	"math"

	"github.com/esimov/pixkit/utils"
)

// Separable blend modes.
const (
	Normal     = "normal"
	Darken     = "darken"
	Lighten    = "lighten"
	Multiply   = "multiply"
	Screen     = "screen"
	Overlay    = "overlay"
	Difference = "difference"
)

// BlendModes lists the supported blend modes.
var BlendModes = []string{Normal, Darken, Lighten, Multiply, Screen, Overlay, Difference}

// Blend holds the currently active blend mode.
type Blend struct {
	OpType string
}

// NewBlend initializes a new Blend.
func NewBlend() *Blend {
	return &Blend{}
}

// Set activates one of the supported blend modes.
func (o *Blend) Set(opType string) error {
	if !utils.Contains(BlendModes, opType) {
		return fmt.Errorf("unsupported blend mode %q", opType)
	}
	o.OpType = opType
	return nil
}

// Get returns the currently active blend mode.
func (o *Blend) Get() string {
	return o.OpType
}

// apply computes B(cb, cs) for one normalized channel.
func (o *Blend) apply(cb, cs float64) float64 {
	switch o.OpType {
	case Darken:
		return utils.Min(cb, cs)
	case Lighten:
		return utils.Max(cb, cs)
	case Multiply:
		return cb * cs
	case Screen:
		return cb + cs - cb*cs
	case Overlay:
		// hard light with the layers swapped
		if cb <= 0.5 {
			return 2 * cs * cb
		}
		return 1 - 2*(1-cb)*(1-cs)
	case Difference:
		return math.Abs(cb - cs)
	}
	return cs
}
