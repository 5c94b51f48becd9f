package sensing

import "time"

// GripLevel is the discrete severity classification of grip pressure,
// ordered from no contact up to tantrum.
type GripLevel int

const (
	GripNone GripLevel = iota
	GripCalm
	GripModerate
	GripStressed
	GripTantrum
)

func (g GripLevel) String() string {
	switch g {
	case GripNone:
		return "None"
	case GripCalm:
		return "Calm"
	case GripModerate:
		return "Moderate"
	case GripStressed:
		return "Stressed"
	case GripTantrum:
		return "Tantrum"
	default:
		return "Unknown"
	}
}

// MotionLabel identifies the single inertial event type recognized in a
// tick. Declaration order is priority order: when several detectors fire in
// the same tick the lowest value wins (MotionNone excepted).
type MotionLabel int

const (
	MotionNone MotionLabel = iota
	MotionImpact
	MotionBounce
	MotionFreeFall
	MotionViolentShake
	MotionSpinning
	MotionRocking
	MotionTremble
)

func (m MotionLabel) String() string {
	switch m {
	case MotionNone:
		return "None"
	case MotionImpact:
		return "Impact"
	case MotionBounce:
		return "Bounce"
	case MotionFreeFall:
		return "FreeFall"
	case MotionViolentShake:
		return "ViolentShake"
	case MotionSpinning:
		return "Spinning"
	case MotionRocking:
		return "Rocking"
	case MotionTremble:
		return "Tremble"
	default:
		return "Unknown"
	}
}

// IMUSample is one raw 3-axis acceleration plus angular-rate reading in the
// sensor's native integer range.
type IMUSample struct {
	AX, AY, AZ int16
	GX, GY, GZ int16
}

// EventKind distinguishes low-latency distress emissions from rate-limited
// heartbeat emissions.
type EventKind int

const (
	EventImmediate EventKind = iota
	EventPeriodic
)

// Event is the immutable snapshot handed to listeners when the arbiter
// decides to emit. Periodic events carry aggregated motion/pressure values,
// immediate events carry the current tick's values.
type Event struct {
	Kind      EventKind
	Timestamp time.Time
	UptimeMS  int64

	FSR1Raw int
	FSR2Raw int
	PSI1    float64
	PSI2    float64
	PSIMax  float64

	Grip   GripLevel
	Sample IMUSample
	Motion MotionLabel

	Squeeze bool

	PatternAlert bool
	DominantGrip GripLevel

	MotionAlert bool
	MotionType  MotionLabel
}

// Config holds every calibration constant of the sensing core. Thresholds
// are tuned for a child-sized grip and a handheld ball; treat them as
// configuration, not code.
type Config struct {
	// Analog front end
	VCC         float64 // ADC reference voltage
	ADCMax      float64 // ADC resolution (12-bit)
	RFixed      float64 // voltage-divider fixed resistor, ohms
	SensorArea  float64 // FSR active area, mm^2
	NoiseFloor  int     // raw readings below this are treated as zero
	PressureCap float64 // psi ceiling
	SampleCount int     // conversions averaged per pressure reading
	SettleDelay time.Duration

	// Grip classification bounds (upper bound per level, ascending)
	PSINoGrip   float64
	PSICalm     float64
	PSIModerate float64
	PSIStressed float64

	ConfirmCount int // consecutive readings to confirm a grip change

	// Motion detectors
	ImpactThreshold   int32
	BounceThreshold   int32
	BounceSpacing     time.Duration
	BounceCount       int
	BounceIdleReset   time.Duration
	FreeFallThreshold int32
	FreeFallDuration  time.Duration
	ShakeDelta        int32
	ShakeCount        int
	ShakeIdleReset    time.Duration
	SpinThreshold     int32
	SpinDuration      time.Duration
	RockThreshold     int32
	RockCrossings     int
	RockWindow        time.Duration
	TrembleDeltaMin   int32
	TrembleDeltaMax   int32
	TrembleCount      int
	TrembleWindow     time.Duration
	TrembleSpacing    time.Duration

	// Pattern detection
	GripGapMax       time.Duration
	GripPatternCount int

	// Aggregation
	MotionHistoryCap   int
	PressureHistoryCap int

	// Arbitration
	MotionStreakCount int
	Cooldown          time.Duration
	PeriodicInterval  time.Duration

	TickInterval time.Duration
}

func DefaultConfig() Config {
	return Config{
		VCC:         3.3,
		ADCMax:      4095.0,
		RFixed:      10000.0,
		SensorArea:  20.0,
		NoiseFloor:  50,
		PressureCap: 30.0,
		SampleCount: 5,
		SettleDelay: 500 * time.Microsecond,

		PSINoGrip:   0.1,
		PSICalm:     0.5,
		PSIModerate: 4.0,
		PSIStressed: 8.0,

		ConfirmCount: 5,

		ImpactThreshold:   38000,
		BounceThreshold:   28000,
		BounceSpacing:     200 * time.Millisecond,
		BounceCount:       3,
		BounceIdleReset:   time.Second,
		FreeFallThreshold: 1500,
		FreeFallDuration:  150 * time.Millisecond,
		ShakeDelta:        15000,
		ShakeCount:        12,
		ShakeIdleReset:    time.Second,
		SpinThreshold:     25000,
		SpinDuration:      500 * time.Millisecond,
		RockThreshold:     12000,
		RockCrossings:     4,
		RockWindow:        1500 * time.Millisecond,
		TrembleDeltaMin:   6000,
		TrembleDeltaMax:   14000,
		TrembleCount:      18,
		TrembleWindow:     800 * time.Millisecond,
		TrembleSpacing:    30 * time.Millisecond,

		GripGapMax:       time.Second,
		GripPatternCount: 5,

		MotionHistoryCap:   50,
		PressureHistoryCap: 250,

		MotionStreakCount: 5,
		Cooldown:          time.Second,
		PeriodicInterval:  5 * time.Second,

		TickInterval: 20 * time.Millisecond,
	}
}
