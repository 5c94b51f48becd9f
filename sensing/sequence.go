package sensing

import "log"

// SequenceMatcher tracks repeated forceful grips separated by bounded gaps
// and declares a completed pattern once the configured count is reached.
//
// A grip opens when the tick's max pressure crosses the Stressed bound and
// closes when it falls back below. There is deliberately no hysteresis at
// the bound: pressure oscillating exactly at the threshold toggles the grip
// state. Classifier debounce is a separate, upstream concern.
type SequenceMatcher struct {
	cfg      Config
	classify func(float64) GripLevel

	isGripping    bool
	sequenceCount int
	lastRelease   timeMark
	currentMax    GripLevel
	recorded      []GripLevel
}

// timeMark is a millisecond timestamp relative to process start. The zero
// value means "never".
type timeMark int64

func NewSequenceMatcher(cfg Config, classify func(float64) GripLevel) *SequenceMatcher {
	return &SequenceMatcher{
		cfg:      cfg,
		classify: classify,
		recorded: make([]GripLevel, cfg.GripPatternCount),
	}
}

// Update advances the state machine with the tick's max pressure. It
// returns (true, dominant) exactly when the pattern completes on the start
// of the final qualifying grip.
func (sm *SequenceMatcher) Update(nowMS int64, psiMax float64) (bool, GripLevel) {
	if psiMax >= sm.cfg.PSIStressed {
		if sm.isGripping {
			// Continuing a grip: track the running max level.
			if level := sm.classify(psiMax); level > sm.currentMax {
				sm.currentMax = level
			}
			return false, GripNone
		}

		// Start of a new grip.
		sm.isGripping = true
		sm.currentMax = sm.classify(psiMax)

		if sm.sequenceCount > 0 {
			gap := nowMS - int64(sm.lastRelease)
			if gap > sm.cfg.GripGapMax.Milliseconds() {
				log.Printf("[Pattern] Gap too long (%dms), resetting sequence", gap)
				sm.sequenceCount = 0
			} else {
				log.Printf("[Pattern] Valid gap (%dms), grip #%d", gap, sm.sequenceCount+1)
			}
		}

		sm.sequenceCount++

		if sm.sequenceCount >= sm.cfg.GripPatternCount {
			// Pattern complete on the start of the final grip. The count
			// resets but the grip stays open so the same physical grip
			// cannot be counted twice.
			sm.recorded[sm.cfg.GripPatternCount-1] = sm.currentMax
			dominant := sm.dominantLevel()
			sm.sequenceCount = 0
			log.Printf("[Pattern] Grip pattern detected, dominant type %s", dominant)
			return true, dominant
		}

		return false, GripNone
	}

	// Below the bound: release if a grip was open.
	if sm.isGripping {
		sm.isGripping = false
		sm.lastRelease = timeMark(nowMS)
		if sm.sequenceCount > 0 && sm.sequenceCount < sm.cfg.GripPatternCount {
			sm.recorded[sm.sequenceCount-1] = sm.currentMax
		}
	}

	return false, GripNone
}

// dominantLevel is Tantrum when at least two recorded grips reached
// Tantrum, otherwise Stressed.
func (sm *SequenceMatcher) dominantLevel() GripLevel {
	tantrums := 0
	for _, level := range sm.recorded {
		if level == GripTantrum {
			tantrums++
		}
	}
	if tantrums >= 2 {
		return GripTantrum
	}
	return GripStressed
}

// IsGripping reports whether a grip is currently open.
func (sm *SequenceMatcher) IsGripping() bool {
	return sm.isGripping
}

// SequenceCount returns the number of grips in the open sequence.
func (sm *SequenceMatcher) SequenceCount() int {
	return sm.sequenceCount
}
