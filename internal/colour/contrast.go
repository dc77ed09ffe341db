package colour

import (
	"fmt"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

const (
	// DarkText is used on light backgrounds.
	DarkText = "#101010"
	// LightText is used on dark backgrounds.
	LightText = "#F0F0F0"

	// LightnessThreshold is the perceptual lightness at or above which text turns dark.
	LightnessThreshold = 0.75
)

// LightnessFunc converts a hex colour to a perceptual lightness in [0, 1].
type LightnessFunc func(hex string) (float64, error)

// LabLightness returns CIE L*a*b* lightness scaled to [0, 1].
func LabLightness(hex string) (float64, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return 0, fmt.Errorf("parse %q: %w", hex, err)
	}
	l, _, _ := c.Lab()
	return l, nil
}

// LuvLightness returns CIE L*u*v* lightness scaled to [0, 1].
func LuvLightness(hex string) (float64, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return 0, fmt.Errorf("parse %q: %w", hex, err)
	}
	l, _, _ := c.Luv()
	return l, nil
}

// LightnessModel resolves a model name from configuration. Unknown names fall back to Lab.
func LightnessModel(name string) LightnessFunc {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "luv":
		return LuvLightness
	default:
		return LabLightness
	}
}

// Selector picks a foreground token for a card background.
type Selector struct {
	lightness LightnessFunc
}

// NewSelector builds a selector; a nil lightness function means Lab.
func NewSelector(lightness LightnessFunc) Selector {
	if lightness == nil {
		lightness = LabLightness
	}
	return Selector{lightness: lightness}
}

// PickTextColor returns DarkText when the background is light enough, LightText otherwise.
// Any conversion failure yields DarkText.
func (s Selector) PickTextColor(background string) string {
	lightness := s.lightness
	if lightness == nil {
		lightness = LabLightness
	}

	l, err := lightness(background)
	if err != nil || math.IsNaN(l) {
		return DarkText
	}
	if l >= LightnessThreshold {
		return DarkText
	}
	return LightText
}

// PickTextColor uses the default Lab selector.
func PickTextColor(background string) string {
	return NewSelector(nil).PickTextColor(background)
}
