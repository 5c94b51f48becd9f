package sensing

// MotionStreak counts consecutive identical motion labels. Ticks without a
// detected motion leave the streak untouched, so a run of Bounce labels
// interleaved with quiet ticks still accumulates.
type MotionStreak struct {
	threshold int

	last  MotionLabel
	count int
}

func NewMotionStreak(threshold int) *MotionStreak {
	return &MotionStreak{threshold: threshold}
}

// Observe feeds one tick's label. It returns true when the streak reaches
// the threshold, then resets the count.
func (ms *MotionStreak) Observe(label MotionLabel) bool {
	if label == MotionNone {
		return false
	}

	if label == ms.last {
		ms.count++
	} else {
		ms.count = 1
		ms.last = label
	}

	if ms.count >= ms.threshold {
		ms.count = 0
		return true
	}
	return false
}

// Last returns the label of the current streak.
func (ms *MotionStreak) Last() MotionLabel {
	return ms.last
}

// Decision is the arbiter's per-tick verdict.
type Decision int

const (
	SendNone Decision = iota
	SendImmediate
	SendPeriodic
)

// EventArbiter decides once per tick whether to emit. Distress conditions
// produce an immediate emission gated by a cooldown; otherwise a heartbeat
// goes out at the fixed periodic interval. An immediate send resets both
// timers so a heartbeat never trails a distress event closely.
type EventArbiter struct {
	cooldownMS int64
	periodicMS int64

	lastTrigger  int64
	lastPeriodic int64
}

func NewEventArbiter(cfg Config) *EventArbiter {
	return &EventArbiter{
		cooldownMS: cfg.Cooldown.Milliseconds(),
		periodicMS: cfg.PeriodicInterval.Milliseconds(),
	}
}

// Decide takes the tick's uptime and whether any distress condition is
// raised, and returns the emission verdict.
func (a *EventArbiter) Decide(nowMS int64, isDistress bool) Decision {
	if isDistress && nowMS-a.lastTrigger > a.cooldownMS {
		a.lastTrigger = nowMS
		a.lastPeriodic = nowMS
		return SendImmediate
	}

	if nowMS-a.lastPeriodic >= a.periodicMS {
		a.lastPeriodic = nowMS
		return SendPeriodic
	}

	return SendNone
}
