package sensing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestImpactDetector(t *testing.T) {
	d := newImpactDetector(DefaultConfig())

	assert.False(t, d.Detect(t0, IMUSample{AZ: 16384}))
	assert.True(t, d.Detect(t0, IMUSample{AZ: 38001}))
	assert.True(t, d.Detect(t0, IMUSample{AX: 25000, AY: 25000, AZ: 12000}))
	// No time integration: the very next quiet tick does not fire.
	assert.False(t, d.Detect(t0.Add(20*time.Millisecond), IMUSample{}))
}

func TestBounceDetector(t *testing.T) {
	d := newBounceDetector(DefaultConfig())

	assert.False(t, d.Detect(t0, IMUSample{AZ: 29000}))
	assert.False(t, d.Detect(t0.Add(300*time.Millisecond), IMUSample{AZ: 29000}))
	assert.True(t, d.Detect(t0.Add(600*time.Millisecond), IMUSample{AZ: 29000}))
	// Count reset after firing.
	assert.False(t, d.Detect(t0.Add(900*time.Millisecond), IMUSample{AZ: 29000}))
}

func TestBounceDetectorSpacing(t *testing.T) {
	d := newBounceDetector(DefaultConfig())

	// Excursions closer than 200ms collapse into one count.
	d.Detect(t0, IMUSample{AZ: 29000})
	d.Detect(t0.Add(50*time.Millisecond), IMUSample{AZ: 29000})
	d.Detect(t0.Add(100*time.Millisecond), IMUSample{AZ: 29000})
	assert.False(t, d.Detect(t0.Add(150*time.Millisecond), IMUSample{AZ: 29000}))
}

func TestBounceDetectorIdleReset(t *testing.T) {
	d := newBounceDetector(DefaultConfig())

	d.Detect(t0, IMUSample{AZ: 29000})
	d.Detect(t0.Add(300*time.Millisecond), IMUSample{AZ: 29000})
	// More than a second idle: window clears, this is count 1 again.
	assert.False(t, d.Detect(t0.Add(2*time.Second), IMUSample{AZ: 29000}))
	assert.False(t, d.Detect(t0.Add(2300*time.Millisecond), IMUSample{AZ: 29000}))
	assert.True(t, d.Detect(t0.Add(2600*time.Millisecond), IMUSample{AZ: 29000}))
}

func TestFreeFallDetector(t *testing.T) {
	d := newFreeFallDetector(DefaultConfig())

	still := IMUSample{AZ: 500}
	assert.False(t, d.Detect(t0, still))
	assert.False(t, d.Detect(t0.Add(100*time.Millisecond), still))
	assert.True(t, d.Detect(t0.Add(160*time.Millisecond), still))
	// Keeps firing while the fall continues.
	assert.True(t, d.Detect(t0.Add(300*time.Millisecond), still))

	// Magnitude recovery resets the timer.
	assert.False(t, d.Detect(t0.Add(320*time.Millisecond), IMUSample{AZ: 16384}))
	assert.False(t, d.Detect(t0.Add(340*time.Millisecond), still))
	assert.False(t, d.Detect(t0.Add(400*time.Millisecond), still))
}

func TestShakeDetector(t *testing.T) {
	d := newShakeDetector(DefaultConfig())

	now := t0
	fired := false
	for i := 0; i < 12; i++ {
		s := IMUSample{}
		if i%2 == 0 {
			s.AZ = 20000
		}
		fired = d.Detect(now, s)
		now = now.Add(50 * time.Millisecond)
	}
	assert.True(t, fired, "12 qualifying deltas fire the detector")

	// Counter cleared after firing.
	assert.False(t, d.Detect(now, IMUSample{AZ: 20000}))
}

func TestSpinDetector(t *testing.T) {
	d := newSpinDetector(DefaultConfig())

	spin := IMUSample{GZ: 26000}
	assert.False(t, d.Detect(t0, spin))
	assert.False(t, d.Detect(t0.Add(300*time.Millisecond), spin))
	assert.True(t, d.Detect(t0.Add(550*time.Millisecond), spin))
	// Timer restarts after firing.
	assert.False(t, d.Detect(t0.Add(600*time.Millisecond), spin))

	// Rate dropping below threshold resets the timer.
	d2 := newSpinDetector(DefaultConfig())
	d2.Detect(t0, spin)
	d2.Detect(t0.Add(400*time.Millisecond), IMUSample{})
	assert.False(t, d2.Detect(t0.Add(600*time.Millisecond), spin))
}

func TestSpinDetectorNegativeRate(t *testing.T) {
	d := newSpinDetector(DefaultConfig())

	spin := IMUSample{GZ: -26000}
	d.Detect(t0, spin)
	assert.True(t, d.Detect(t0.Add(550*time.Millisecond), spin))
}

func TestRockDetector(t *testing.T) {
	d := newRockDetector(DefaultConfig())

	// Expected sign starts positive, so the first crossing is negative.
	assert.False(t, d.Detect(t0, IMUSample{AX: -13000}))
	assert.False(t, d.Detect(t0.Add(200*time.Millisecond), IMUSample{AX: 13000}))
	assert.False(t, d.Detect(t0.Add(400*time.Millisecond), IMUSample{AX: -13000}))
	assert.True(t, d.Detect(t0.Add(600*time.Millisecond), IMUSample{AX: 13000}))
}

func TestRockDetectorDeadZone(t *testing.T) {
	d := newRockDetector(DefaultConfig())

	// Values inside the dead zone never cross.
	for i := 0; i < 10; i++ {
		ax := int16(5000)
		if i%2 == 0 {
			ax = -5000
		}
		assert.False(t, d.Detect(t0.Add(time.Duration(i)*50*time.Millisecond), IMUSample{AX: ax}))
	}
}

func TestTrembleDetector(t *testing.T) {
	d := newTrembleDetector(DefaultConfig())

	now := t0
	fired := false
	for i := 0; i < 18; i++ {
		s := IMUSample{}
		if i%2 == 0 {
			s.AZ = 10000 // delta of 10000, inside the tremble band
		}
		fired = d.Detect(now, s)
		now = now.Add(40 * time.Millisecond)
	}
	assert.True(t, fired, "18 banded deltas fire the detector")
}

func TestTrembleDetectorRejectsShakes(t *testing.T) {
	d := newTrembleDetector(DefaultConfig())

	// Deltas of 20000 are shakes, not trembles.
	now := t0
	for i := 0; i < 30; i++ {
		s := IMUSample{}
		if i%2 == 0 {
			s.AZ = 20000
		}
		assert.False(t, d.Detect(now, s))
		now = now.Add(40 * time.Millisecond)
	}
}

func TestTrembleDetectorMinSpacing(t *testing.T) {
	d := newTrembleDetector(DefaultConfig())

	// Ticks 10ms apart: only every fourth delta is counted, 18 are never
	// reached inside the 800ms window.
	now := t0
	for i := 0; i < 60; i++ {
		s := IMUSample{}
		if i%2 == 0 {
			s.AZ = 10000
		}
		assert.False(t, d.Detect(now, s))
		now = now.Add(10 * time.Millisecond)
	}
}

func TestBankPriorityImpactOverBounce(t *testing.T) {
	bank := NewDetectorBank(DefaultConfig())

	// Prime the bounce counter with two excursions below the impact
	// threshold.
	require.Equal(t, MotionNone, bank.Evaluate(t0, IMUSample{AZ: 29000}))
	require.Equal(t, MotionNone, bank.Evaluate(t0.Add(300*time.Millisecond), IMUSample{AZ: 29000}))

	// The third excursion is also an impact: both fire, Impact wins.
	got := bank.Evaluate(t0.Add(600*time.Millisecond), IMUSample{AZ: 40000})
	assert.Equal(t, MotionImpact, got)
}

func TestBankNoMotion(t *testing.T) {
	bank := NewDetectorBank(DefaultConfig())
	assert.Equal(t, MotionNone, bank.Evaluate(t0, IMUSample{AZ: 16384}))
}
