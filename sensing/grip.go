package sensing

import "log"

// GripClassifier maps pressure to a grip level and debounces transitions:
// a new level must be observed on enough consecutive ticks before the
// confirmed level changes. Single noisy samples never flip state.
type GripClassifier struct {
	cfg Config

	current       GripLevel
	lastCandidate GripLevel
	streak        int
}

func NewGripClassifier(cfg Config) *GripClassifier {
	return &GripClassifier{cfg: cfg}
}

// Classify returns the instantaneous grip level for a pressure value.
func (gc *GripClassifier) Classify(psi float64) GripLevel {
	switch {
	case psi < gc.cfg.PSINoGrip:
		return GripNone
	case psi < gc.cfg.PSICalm:
		return GripCalm
	case psi < gc.cfg.PSIModerate:
		return GripModerate
	case psi < gc.cfg.PSIStressed:
		return GripStressed
	default:
		return GripTantrum
	}
}

// Update classifies the stronger of the two channel readings and applies
// the confirmation debounce. It returns true exactly once per confirmed
// transition of the current level.
func (gc *GripClassifier) Update(psi1, psi2 float64) bool {
	psi := psi1
	if psi2 > psi {
		psi = psi2
	}

	detected := gc.Classify(psi)

	if detected == gc.lastCandidate {
		gc.streak++
	} else {
		gc.streak = 1
		gc.lastCandidate = detected
	}

	if gc.streak >= gc.cfg.ConfirmCount && detected != gc.current {
		previous := gc.current
		gc.current = detected
		log.Printf("[Grip] State changed: %s -> %s", previous, gc.current)
		return true
	}

	return false
}

// Current returns the confirmed grip level.
func (gc *GripClassifier) Current() GripLevel {
	return gc.current
}

// IsDistressed reports whether the confirmed level is Stressed or worse.
func (gc *GripClassifier) IsDistressed() bool {
	return gc.current >= GripStressed
}
