// Package hardware provides the development stand-ins for the orb's
// peripherals. The production ADC, IMU and audio module are platform
// drivers supplied at build time for the target board; these simulators
// satisfy the same interfaces with a quiet, motionless orb.
package hardware

import (
	"log"

	"github.com/Nipz652/CalmOrbIoT/sensing"
)

// SimAnalog returns a constant raw reading per channel.
type SimAnalog struct {
	Readings map[int]int
}

func (s *SimAnalog) ReadRaw(pin int) int {
	return s.Readings[pin]
}

// SimIMU returns a resting orientation: gravity on the z axis, no rotation.
type SimIMU struct{}

func (s *SimIMU) ReadSample() (sensing.IMUSample, error) {
	return sensing.IMUSample{AZ: 16384}, nil
}

// LogPlayer logs playback calls instead of driving a speaker.
type LogPlayer struct{}

func (LogPlayer) Play(track int)   { log.Printf("[Player] play track %d", track) }
func (LogPlayer) Stop()            { log.Printf("[Player] stop") }
func (LogPlayer) Volume(level int) { log.Printf("[Player] volume %d", level) }
