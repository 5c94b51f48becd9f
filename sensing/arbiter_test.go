package sensing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArbiterCooldown(t *testing.T) {
	a := NewEventArbiter(DefaultConfig())

	// Two distress conditions 300ms apart: exactly one immediate send.
	assert.Equal(t, SendImmediate, a.Decide(1100, true))
	assert.Equal(t, SendNone, a.Decide(1400, true))

	// Past the cooldown a new distress goes out.
	assert.Equal(t, SendImmediate, a.Decide(2200, true))
}

func TestArbiterPeriodic(t *testing.T) {
	a := NewEventArbiter(DefaultConfig())

	assert.Equal(t, SendNone, a.Decide(1000, false))
	assert.Equal(t, SendNone, a.Decide(4999, false))
	assert.Equal(t, SendPeriodic, a.Decide(5000, false))

	// Interval restarts from the periodic send.
	assert.Equal(t, SendNone, a.Decide(9999, false))
	assert.Equal(t, SendPeriodic, a.Decide(10000, false))
}

func TestArbiterImmediateResetsPeriodic(t *testing.T) {
	a := NewEventArbiter(DefaultConfig())

	assert.Equal(t, SendImmediate, a.Decide(4900, true))
	// The heartbeat timer restarted with the immediate send.
	assert.Equal(t, SendNone, a.Decide(5100, false))
	assert.Equal(t, SendPeriodic, a.Decide(9900, false))
}

func TestMotionStreak(t *testing.T) {
	ms := NewMotionStreak(5)

	for i := 0; i < 4; i++ {
		assert.False(t, ms.Observe(MotionBounce))
	}
	assert.True(t, ms.Observe(MotionBounce))
	assert.Equal(t, MotionBounce, ms.Last())

	// Count cleared after firing.
	assert.False(t, ms.Observe(MotionBounce))
}

func TestMotionStreakIgnoresQuietTicks(t *testing.T) {
	ms := NewMotionStreak(5)

	ms.Observe(MotionBounce)
	ms.Observe(MotionBounce)
	// Quiet ticks leave the streak untouched.
	ms.Observe(MotionNone)
	ms.Observe(MotionNone)
	ms.Observe(MotionBounce)
	ms.Observe(MotionBounce)
	assert.True(t, ms.Observe(MotionBounce))
}

func TestMotionStreakResetsOnLabelChange(t *testing.T) {
	ms := NewMotionStreak(5)

	for i := 0; i < 4; i++ {
		ms.Observe(MotionBounce)
	}
	assert.False(t, ms.Observe(MotionTremble))
	for i := 0; i < 3; i++ {
		assert.False(t, ms.Observe(MotionTremble))
	}
	assert.True(t, ms.Observe(MotionTremble))
}
