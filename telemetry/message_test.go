package telemetry

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Nipz652/CalmOrbIoT/sensing"
)

func baseEvent() sensing.Event {
	return sensing.Event{
		Kind:     sensing.EventPeriodic,
		UptimeMS: 12345,
		FSR1Raw:  512,
		FSR2Raw:  100,
		PSI1:     1.5,
		PSI2:     9.25,
		PSIMax:   9.25,
		Grip:     sensing.GripStressed,
		Sample:   sensing.IMUSample{AX: 1, AY: 2, AZ: 3, GX: -4, GY: 5, GZ: -6},
		Motion:   sensing.MotionBounce,
	}
}

func TestEncodeEvent(t *testing.T) {
	line := EncodeEvent("orb-01", baseEvent())

	want := "device:orb-01,time:12345,fsr1_raw:512,fsr2_raw:100," +
		"psi1:1.50,psi2:9.25,psi_max:9.25,grip_state:Stressed," +
		"ax:1,ay:2,az:3,gx:-4,gy:5,gz:-6,motion:Bounce"
	assert.Equal(t, want, line)
}

func TestEncodeEventSqueeze(t *testing.T) {
	evt := baseEvent()
	evt.Squeeze = true

	line := EncodeEvent("orb-01", evt)
	assert.True(t, strings.HasSuffix(line, ",action:Squeeze"))
}

func TestEncodeEventPatternAlert(t *testing.T) {
	evt := baseEvent()
	evt.Kind = sensing.EventImmediate
	evt.Squeeze = true
	evt.PatternAlert = true
	evt.DominantGrip = sensing.GripTantrum

	line := EncodeEvent("orb-01", evt)
	assert.Contains(t, line, ",action:Squeeze,alert:PATTERN_3GRIP,dominant_type:Tantrum")
}

func TestEncodeEventMotionAlert(t *testing.T) {
	evt := baseEvent()
	evt.Kind = sensing.EventImmediate
	evt.MotionAlert = true
	evt.MotionType = sensing.MotionViolentShake

	line := EncodeEvent("orb-01", evt)
	assert.True(t, strings.HasSuffix(line, ",alert:MOTION_3X,motion_type:ViolentShake"))
}

func TestEncodeEventGripStateIsConfirmedLevel(t *testing.T) {
	// The grip_state field carries whatever confirmed level the event
	// snapshot holds, serialized as text only here.
	for _, grip := range []sensing.GripLevel{
		sensing.GripNone, sensing.GripCalm, sensing.GripModerate,
		sensing.GripStressed, sensing.GripTantrum,
	} {
		evt := baseEvent()
		evt.Grip = grip
		line := EncodeEvent("orb-01", evt)
		assert.Contains(t, line, ",grip_state:"+grip.String()+",")
	}
}

func TestEncodeStatus(t *testing.T) {
	got := EncodeStatus(true, sensing.GripCalm, 0.4251)
	assert.Equal(t, "STATUS:debug=on,grip=Calm,psi=0.43,ble=stealth", got)

	got = EncodeStatus(false, sensing.GripNone, 0)
	assert.Equal(t, "STATUS:debug=off,grip=None,psi=0.00,ble=stealth", got)
}
