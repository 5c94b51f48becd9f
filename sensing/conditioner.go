package sensing

import (
	"math"
	"time"
)

// AnalogReader reads a raw value from an analog input channel. The hardware
// ADC lives behind this interface; tests supply scripted readers.
type AnalogReader interface {
	ReadRaw(pin int) int
}

// Sleeper lets tests collapse the inter-sample settle delay.
type Sleeper func(d time.Duration)

// SignalConditioner converts raw FSR readings into pressure (psi) using the
// voltage-divider relation and the sensor's characteristic power-law curve.
type SignalConditioner struct {
	cfg    Config
	reader AnalogReader
	sleep  Sleeper
}

func NewSignalConditioner(cfg Config, reader AnalogReader) *SignalConditioner {
	return &SignalConditioner{
		cfg:    cfg,
		reader: reader,
		sleep:  time.Sleep,
	}
}

// SetSleeper replaces the settle-delay implementation.
func (sc *SignalConditioner) SetSleeper(s Sleeper) {
	sc.sleep = s
}

// ToPressure converts one raw ADC reading to psi. Readings below the noise
// floor map to exactly 0, which also guards the divide in the resistance
// derivation. The result is clamped to the device ceiling and always finite.
func (sc *SignalConditioner) ToPressure(raw int) float64 {
	if raw < sc.cfg.NoiseFloor {
		return 0.0
	}

	voltage := float64(raw) * (sc.cfg.VCC / sc.cfg.ADCMax)

	// Voltage divider: Vout = Vcc * Rfixed / (Rfixed + Rfsr)
	resistance := sc.cfg.RFixed * (sc.cfg.VCC - voltage) / voltage

	// FSR 402 characteristic curve: R ~ 1/F^1.1, so F ~ (1e6/R)^0.909.
	force := 0.0
	if resistance > 0 && resistance < 1e6 {
		force = math.Pow(1e6/resistance, 0.909)
	}

	// psi = force(N) / area(m^2) / 6894.76 Pa-per-psi
	areaM2 := sc.cfg.SensorArea * 1e-6
	psi := force / (areaM2 * 6894.76)

	if psi > sc.cfg.PressureCap {
		psi = sc.cfg.PressureCap
	}

	return psi
}

// AveragedPressure reads the channel SampleCount times with a short settle
// delay between conversions and returns the mean. Noise reduction only, no
// new conversion math.
func (sc *SignalConditioner) AveragedPressure(pin int) float64 {
	total := 0.0
	for i := 0; i < sc.cfg.SampleCount; i++ {
		total += sc.ToPressure(sc.reader.ReadRaw(pin))
		sc.sleep(sc.cfg.SettleDelay)
	}
	return total / float64(sc.cfg.SampleCount)
}
