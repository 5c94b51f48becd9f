// Package audio wraps the playback collaborator. The actual player (a
// DFPlayer-style serial module in the field, a speaker daemon in dev) sits
// behind the Player interface; the controller owns volume and alarm state.
package audio

import (
	"context"
	"log"
	"sync"
	"time"
)

// Player is the playback hardware boundary.
type Player interface {
	Play(track int)
	Stop()
	Volume(level int)
}

const (
	MinVolume = 0
	MaxVolume = 30

	// AlarmTrack is the find-my-device alarm: always played at max volume,
	// with the configured volume restored once the alarm window passes.
	AlarmTrack    = 14
	alarmDuration = 5 * time.Second
)

// Controller tracks the configured volume and the alarm override.
type Controller struct {
	player Player

	mu           sync.Mutex
	volume       int
	alarmPlaying bool
	alarmStart   time.Time
}

func NewController(player Player) *Controller {
	return &Controller{player: player, volume: MaxVolume}
}

// Play starts a track at the configured volume. The alarm track overrides
// the volume to maximum until the alarm window passes.
func (c *Controller) Play(track int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.player.Stop()

	if track == AlarmTrack {
		log.Printf("[Audio] Alarm activated, max volume for %s", alarmDuration)
		c.player.Volume(MaxVolume)
		c.player.Play(track)
		c.alarmPlaying = true
		c.alarmStart = time.Now()
		return
	}

	c.player.Play(track)
	c.player.Volume(c.volume)
	log.Printf("[Audio] Playing track %d at volume %d", track, c.volume)
}

// Stop halts playback and clears any alarm override.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.player.Stop()
	c.alarmPlaying = false
	log.Printf("[Audio] Playback stopped")
}

// SetVolume clamps to the player range and applies immediately.
func (c *Controller) SetVolume(level int) {
	if level < MinVolume {
		level = MinVolume
	}
	if level > MaxVolume {
		level = MaxVolume
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.volume = level
	c.player.Volume(level)
	log.Printf("[Audio] Volume set to %d", level)
}

// Volume returns the configured (non-alarm) volume.
func (c *Controller) Volume() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.volume
}

// CheckAlarm restores the configured volume once the alarm window has
// passed. Called from the supervision loop.
func (c *Controller) CheckAlarm(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.alarmPlaying && now.Sub(c.alarmStart) > alarmDuration {
		c.player.Volume(c.volume)
		c.alarmPlaying = false
		log.Printf("[Audio] Alarm finished, volume restored to %d", c.volume)
	}
}

// Run periodically checks the alarm window until the context is cancelled.
func (c *Controller) Run(ctx context.Context) error {
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			c.CheckAlarm(now)
		}
	}
}
