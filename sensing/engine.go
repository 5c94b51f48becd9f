package sensing

import (
	"context"
	"log"
	"sync"
	"time"
)

// MotionReader reads one 3-axis acceleration/angular-rate sample. The IMU
// driver lives behind this interface.
type MotionReader interface {
	ReadSample() (IMUSample, error)
}

// Pins identifies the two analog grip channels.
type Pins struct {
	FSR1 int
	FSR2 int
}

// DefaultPins matches the production board wiring.
var DefaultPins = Pins{FSR1: 34, FSR2: 35}

// Engine owns all sensing state and drives the fixed-cadence control loop:
// signal conditioning, grip classification, motion detection, pattern
// matching, aggregation and arbitration, in that order, every tick. All
// state is mutated by the loop goroutine only; listeners receive immutable
// Event snapshots.
type Engine struct {
	cfg  Config
	pins Pins

	conditioner *SignalConditioner
	grip        *GripClassifier
	bank        *DetectorBank
	sequence    *SequenceMatcher
	window      *AggregationWindow
	streak      *MotionStreak
	arbiter     *EventArbiter

	analog AnalogReader
	motion MotionReader

	listeners []func(Event)

	startTime  time.Time
	lastSample IMUSample

	mu           sync.RWMutex
	lastPSI1     float64
	lastPSI2     float64
	lastGrip     GripLevel
	debugMotion  bool
	debugVerbose bool

	lastDebugLog time.Time
}

func NewEngine(cfg Config, pins Pins, analog AnalogReader, motion MotionReader) *Engine {
	grip := NewGripClassifier(cfg)
	return &Engine{
		cfg:         cfg,
		pins:        pins,
		conditioner: NewSignalConditioner(cfg, analog),
		grip:        grip,
		bank:        NewDetectorBank(cfg),
		sequence:    NewSequenceMatcher(cfg, grip.Classify),
		window:      NewAggregationWindow(cfg.MotionHistoryCap, cfg.PressureHistoryCap),
		streak:      NewMotionStreak(cfg.MotionStreakCount),
		arbiter:     NewEventArbiter(cfg),
		analog:      analog,
		motion:      motion,
		startTime:   time.Now(),
		debugMotion: true,
	}
}

// AddListener registers an event callback. Listeners run on their own
// goroutines and receive value copies only.
func (e *Engine) AddListener(fn func(Event)) {
	e.listeners = append(e.listeners, fn)
}

// Run drives the control loop at the configured tick cadence until the
// context is cancelled. No sensor or command condition halts the loop.
func (e *Engine) Run(ctx context.Context) error {
	log.Printf("[Engine] Control loop started (tick %s)", e.cfg.TickInterval)

	ticker := time.NewTicker(e.cfg.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Printf("[Engine] Control loop stopped")
			return nil
		case now := <-ticker.C:
			if evt := e.Tick(now); evt != nil {
				e.publish(*evt)
			}
		}
	}
}

// Tick executes one control-loop iteration against a single clock snapshot
// and returns the event to emit, or nil. Within a tick the stages always
// run in the fixed order classification -> pattern matching -> aggregation
// -> arbitration.
func (e *Engine) Tick(now time.Time) *Event {
	nowMS := now.Sub(e.startTime).Milliseconds()

	// Raw channel reads for telemetry, then averaged conversions.
	fsr1Raw := e.analog.ReadRaw(e.pins.FSR1)
	fsr2Raw := e.analog.ReadRaw(e.pins.FSR2)
	psi1 := e.conditioner.AveragedPressure(e.pins.FSR1)
	psi2 := e.conditioner.AveragedPressure(e.pins.FSR2)
	psiMax := psi1
	if psi2 > psiMax {
		psiMax = psi2
	}

	e.mu.Lock()
	e.lastPSI1, e.lastPSI2 = psi1, psi2
	e.mu.Unlock()

	e.window.RecordPressure(psiMax)

	gripChanged := e.grip.Update(psi1, psi2)
	squeeze := psiMax > e.cfg.PSINoGrip

	e.mu.Lock()
	e.lastGrip = e.grip.Current()
	e.mu.Unlock()

	patternDone, dominant := e.sequence.Update(nowMS, psiMax)

	sample, err := e.motion.ReadSample()
	if err != nil {
		// Transient IMU read failure: hold the previous sample rather than
		// feeding a zero vector into the free-fall detector.
		sample = e.lastSample
	}
	e.lastSample = sample

	motion := e.bank.Evaluate(now, sample)
	e.window.RecordMotion(motion)

	motionAlert := e.streak.Observe(motion)

	e.debugLog(now, fsr1Raw, fsr2Raw, gripChanged)

	isDistress := patternDone || motionAlert

	decision := e.arbiter.Decide(nowMS, isDistress)
	if decision == SendNone {
		return nil
	}

	evt := Event{
		Timestamp: now,
		UptimeMS:  nowMS,
		FSR1Raw:   fsr1Raw,
		FSR2Raw:   fsr2Raw,
		PSI1:      psi1,
		PSI2:      psi2,
		Grip:      e.grip.Current(),
		Sample:    sample,
		Squeeze:   squeeze,
	}

	switch decision {
	case SendImmediate:
		evt.Kind = EventImmediate
		evt.PSIMax = psiMax
		evt.Motion = motion
		if patternDone {
			evt.PatternAlert = true
			evt.DominantGrip = dominant
		}
		if motionAlert {
			evt.MotionAlert = true
			evt.MotionType = e.streak.Last()
		}
	case SendPeriodic:
		evt.Kind = EventPeriodic
		evt.PSIMax = e.window.AveragePressure()
		evt.Motion = e.window.MostFrequentMotion()
		e.window.Reset()
	}

	return &evt
}

func (e *Engine) publish(evt Event) {
	for _, fn := range e.listeners {
		go func(f func(Event)) {
			defer func() {
				if r := recover(); r != nil {
					log.Printf("[Engine] Listener panic: %v", r)
				}
			}()
			f(evt)
		}(fn)
	}
}

func (e *Engine) debugLog(now time.Time, fsr1Raw, fsr2Raw int, gripChanged bool) {
	e.mu.RLock()
	enabled, verbose := e.debugMotion, e.debugVerbose
	e.mu.RUnlock()

	if !enabled {
		return
	}
	if !verbose && now.Sub(e.lastDebugLog) < 2*time.Second {
		return
	}
	e.lastDebugLog = now

	log.Printf("[Engine] raw1=%d raw2=%d psi1=%.2f psi2=%.2f state=%s changed=%v",
		fsr1Raw, fsr2Raw, e.lastPSI1, e.lastPSI2, e.grip.Current(), gripChanged)
}

// GripState returns the confirmed grip level. Safe to call from other
// goroutines; exposes read-only state for the command boundary.
func (e *Engine) GripState() GripLevel {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.lastGrip
}

// LastPressures returns the most recent per-channel pressure readings.
func (e *Engine) LastPressures() (float64, float64) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.lastPSI1, e.lastPSI2
}

// SetDebugEnabled toggles the periodic debug line. The verbose flag is
// independent and untouched.
func (e *Engine) SetDebugEnabled(enabled bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.debugMotion = enabled
}

// ToggleVerbose flips per-tick debug logging and returns the new state.
func (e *Engine) ToggleVerbose() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.debugVerbose = !e.debugVerbose
	return e.debugVerbose
}

// DebugEnabled reports the debug toggle, for the STATUS command.
func (e *Engine) DebugEnabled() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.debugMotion
}

// DebugVerbose reports the per-tick logging toggle.
func (e *Engine) DebugVerbose() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.debugVerbose
}
