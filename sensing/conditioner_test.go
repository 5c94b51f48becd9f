package sensing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type scriptedAnalog struct {
	readings map[int][]int
	pos      map[int]int
}

func (s *scriptedAnalog) ReadRaw(pin int) int {
	vals := s.readings[pin]
	if len(vals) == 0 {
		return 0
	}
	if s.pos == nil {
		s.pos = make(map[int]int)
	}
	i := s.pos[pin]
	if i >= len(vals) {
		i = len(vals) - 1
	}
	s.pos[pin]++
	return vals[i]
}

func TestToPressureNoiseFloor(t *testing.T) {
	sc := NewSignalConditioner(DefaultConfig(), &scriptedAnalog{})

	for raw := 0; raw < 50; raw++ {
		assert.Zero(t, sc.ToPressure(raw), "raw=%d", raw)
	}
	assert.Greater(t, sc.ToPressure(50), 0.0)
}

func TestToPressureCurve(t *testing.T) {
	sc := NewSignalConditioner(DefaultConfig(), &scriptedAnalog{})

	tt := []struct {
		name string
		raw  int
		psi  float64
	}{
		{name: "just above floor", raw: 50, psi: 8.7928},
		{name: "firm", raw: 100, psi: 16.6983},
		{name: "ceiling clamp", raw: 200, psi: 30.0},
		{name: "full scale", raw: 4094, psi: 30.0},
	}
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.psi, sc.ToPressure(tc.raw), 0.001)
		})
	}
}

func TestToPressureAlwaysFiniteAndClamped(t *testing.T) {
	sc := NewSignalConditioner(DefaultConfig(), &scriptedAnalog{})

	for raw := 0; raw <= 4095; raw += 13 {
		psi := sc.ToPressure(raw)
		assert.GreaterOrEqual(t, psi, 0.0, "raw=%d", raw)
		assert.LessOrEqual(t, psi, 30.0, "raw=%d", raw)
	}
}

func TestAveragedPressure(t *testing.T) {
	reader := &scriptedAnalog{readings: map[int][]int{
		7: {50, 50, 100, 100, 0},
	}}
	sc := NewSignalConditioner(DefaultConfig(), reader)

	slept := 0
	sc.SetSleeper(func(d time.Duration) {
		assert.Equal(t, 500*time.Microsecond, d)
		slept++
	})

	got := sc.AveragedPressure(7)
	want := (8.7928 + 8.7928 + 16.6983 + 16.6983 + 0) / 5
	assert.InDelta(t, want, got, 0.001)
	assert.Equal(t, 5, slept)
}
