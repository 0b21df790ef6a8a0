package prediction

import (
	"math"
	"math/rand/v2"

	"agririsk-back/internal/models"
)

const (
	confidenceMin = 0.75
	confidenceMax = 0.95
)

// Classify applies the risk rule. The order of the checks matters: high
// humidity without heavy rain is Low, not Medium.
func Classify(humidity, rainfall float64) string {
	if humidity > 70 && rainfall > 50 {
		return models.RiskHigh
	} else if humidity >= 40 && humidity <= 70 {
		return models.RiskMedium
	}
	return models.RiskLow
}

// Source supplies uniform values in [0, 1). *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

type globalSource struct{}

func (globalSource) Float64() float64 { return rand.Float64() }

// DefaultSource draws from the process-wide math/rand/v2 generator and is
// safe for concurrent use.
var DefaultSource Source = globalSource{}

// Confidence draws a score uniformly from [0.75, 0.95], rounded to two
// decimal places.
func Confidence(src Source) float64 {
	return round2(confidenceMin + src.Float64()*(confidenceMax-confidenceMin))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
