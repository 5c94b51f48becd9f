package sensing

import (
	"math"
	"time"
)

// MotionDetector recognizes one motion pattern from the inertial stream.
// Implementations keep private timers/counters across ticks and are driven
// by the single sensing goroutine only.
type MotionDetector interface {
	Label() MotionLabel
	Detect(now time.Time, s IMUSample) bool
}

// DetectorBank evaluates a fixed-priority set of detectors each tick and
// yields at most one motion label. Every detector runs every tick so its
// internal state advances even when a higher-priority detector fires.
type DetectorBank struct {
	detectors []MotionDetector
}

func NewDetectorBank(cfg Config) *DetectorBank {
	return &DetectorBank{
		detectors: []MotionDetector{
			newImpactDetector(cfg),
			newBounceDetector(cfg),
			newFreeFallDetector(cfg),
			newShakeDetector(cfg),
			newSpinDetector(cfg),
			newRockDetector(cfg),
			newTrembleDetector(cfg),
		},
	}
}

// Evaluate runs all detectors against the sample and returns the
// highest-priority fired label, or MotionNone.
func (b *DetectorBank) Evaluate(now time.Time, s IMUSample) MotionLabel {
	label := MotionNone
	for _, d := range b.detectors {
		if d.Detect(now, s) && label == MotionNone {
			label = d.Label()
		}
	}
	return label
}

func magnitude(s IMUSample) int32 {
	ax, ay, az := float64(s.AX), float64(s.AY), float64(s.AZ)
	return int32(math.Sqrt(ax*ax + ay*ay + az*az))
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

// impactDetector fires on a single-tick acceleration magnitude spike.
type impactDetector struct {
	threshold int32
}

func newImpactDetector(cfg Config) *impactDetector {
	return &impactDetector{threshold: cfg.ImpactThreshold}
}

func (d *impactDetector) Label() MotionLabel { return MotionImpact }

func (d *impactDetector) Detect(now time.Time, s IMUSample) bool {
	return magnitude(s) > d.threshold
}

// bounceDetector counts hard z-axis excursions spaced at least BounceSpacing
// apart. The count clears after BounceIdleReset without an excursion and
// after firing.
type bounceDetector struct {
	threshold int32
	spacing   time.Duration
	required  int
	idleReset time.Duration

	count      int
	lastBounce time.Time
}

func newBounceDetector(cfg Config) *bounceDetector {
	return &bounceDetector{
		threshold: cfg.BounceThreshold,
		spacing:   cfg.BounceSpacing,
		required:  cfg.BounceCount,
		idleReset: cfg.BounceIdleReset,
	}
}

func (d *bounceDetector) Label() MotionLabel { return MotionBounce }

func (d *bounceDetector) Detect(now time.Time, s IMUSample) bool {
	if now.Sub(d.lastBounce) > d.idleReset {
		d.count = 0
	}

	if int32(s.AZ) > d.threshold && now.Sub(d.lastBounce) > d.spacing {
		d.count++
		d.lastBounce = now
	}

	if d.count >= d.required {
		d.count = 0
		return true
	}
	return false
}

// freeFallDetector fires once the magnitude has stayed near zero-g for the
// minimum fall duration. The timer holds while the fall continues, so the
// detector keeps reporting until the magnitude recovers.
type freeFallDetector struct {
	threshold int32
	duration  time.Duration

	fallStart time.Time
}

func newFreeFallDetector(cfg Config) *freeFallDetector {
	return &freeFallDetector{
		threshold: cfg.FreeFallThreshold,
		duration:  cfg.FreeFallDuration,
	}
}

func (d *freeFallDetector) Label() MotionLabel { return MotionFreeFall }

func (d *freeFallDetector) Detect(now time.Time, s IMUSample) bool {
	if magnitude(s) < d.threshold {
		if d.fallStart.IsZero() {
			d.fallStart = now
		} else if now.Sub(d.fallStart) > d.duration {
			return true
		}
	} else {
		d.fallStart = time.Time{}
	}
	return false
}

// shakeDetector counts large deltas between consecutive magnitude readings.
type shakeDetector struct {
	delta     int32
	required  int
	idleReset time.Duration

	lastMag   int32
	count     int
	lastCount time.Time
}

func newShakeDetector(cfg Config) *shakeDetector {
	return &shakeDetector{
		delta:     cfg.ShakeDelta,
		required:  cfg.ShakeCount,
		idleReset: cfg.ShakeIdleReset,
	}
}

func (d *shakeDetector) Label() MotionLabel { return MotionViolentShake }

func (d *shakeDetector) Detect(now time.Time, s IMUSample) bool {
	mag := magnitude(s)
	delta := abs32(mag - d.lastMag)

	if now.Sub(d.lastCount) > d.idleReset {
		d.count = 0
	}

	if delta > d.delta {
		d.count++
		d.lastCount = now
	}

	d.lastMag = mag

	if d.count >= d.required {
		d.count = 0
		return true
	}
	return false
}

// spinDetector fires after the z-axis angular rate has exceeded the
// threshold continuously for the spin duration, then restarts its timer.
type spinDetector struct {
	threshold int32
	duration  time.Duration

	spinStart time.Time
}

func newSpinDetector(cfg Config) *spinDetector {
	return &spinDetector{
		threshold: cfg.SpinThreshold,
		duration:  cfg.SpinDuration,
	}
}

func (d *spinDetector) Label() MotionLabel { return MotionSpinning }

func (d *spinDetector) Detect(now time.Time, s IMUSample) bool {
	if abs32(int32(s.GZ)) > d.threshold {
		if d.spinStart.IsZero() {
			d.spinStart = now
		}
		if !d.spinStart.IsZero() && now.Sub(d.spinStart) > d.duration {
			d.spinStart = time.Time{}
			return true
		}
	} else {
		d.spinStart = time.Time{}
	}
	return false
}

// rockDetector counts x-axis sign crossings about a dead-zone threshold,
// alternating the expected sign each crossing.
type rockDetector struct {
	threshold int32
	required  int
	window    time.Duration

	lastCross   time.Time
	crossCount  int
	wasPositive bool
}

func newRockDetector(cfg Config) *rockDetector {
	return &rockDetector{
		threshold:   cfg.RockThreshold,
		required:    cfg.RockCrossings,
		window:      cfg.RockWindow,
		wasPositive: true,
	}
}

func (d *rockDetector) Label() MotionLabel { return MotionRocking }

func (d *rockDetector) Detect(now time.Time, s IMUSample) bool {
	isPositive := int32(s.AX) > d.threshold
	isNegative := int32(s.AX) < -d.threshold

	if now.Sub(d.lastCross) > d.window {
		d.crossCount = 0
	}

	if (d.wasPositive && isNegative) || (!d.wasPositive && isPositive) {
		d.crossCount++
		d.lastCross = now
		d.wasPositive = isPositive
	}

	if d.crossCount >= d.required {
		d.crossCount = 0
		return true
	}
	return false
}

// trembleDetector is a band-limited shake detector: deltas must fall inside
// (min, max) so genuine shakes don't count, and counted deltas must be at
// least TrembleSpacing apart.
type trembleDetector struct {
	deltaMin int32
	deltaMax int32
	required int
	window   time.Duration
	spacing  time.Duration

	lastMag   int32
	count     int
	lastCount time.Time
	lastTick  time.Time
}

func newTrembleDetector(cfg Config) *trembleDetector {
	return &trembleDetector{
		deltaMin: cfg.TrembleDeltaMin,
		deltaMax: cfg.TrembleDeltaMax,
		required: cfg.TrembleCount,
		window:   cfg.TrembleWindow,
		spacing:  cfg.TrembleSpacing,
	}
}

func (d *trembleDetector) Label() MotionLabel { return MotionTremble }

func (d *trembleDetector) Detect(now time.Time, s IMUSample) bool {
	mag := magnitude(s)
	delta := abs32(mag - d.lastMag)

	if now.Sub(d.lastTick) > d.window {
		d.count = 0
	}

	if delta > d.deltaMin && delta < d.deltaMax {
		if now.Sub(d.lastCount) > d.spacing {
			d.count++
			d.lastCount = now
			d.lastTick = now
		}
	}

	d.lastMag = mag

	if d.count >= d.required {
		d.count = 0
		return true
	}
	return false
}
