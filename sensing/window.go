package sensing

// AggregationWindow accumulates bounded histories of motion labels and
// pressure samples between periodic emissions. Once a buffer is full,
// further samples are silently dropped so the earliest data of the window
// is preserved deterministically. Both buffers reset only on periodic
// emission, never mid-window.
type AggregationWindow struct {
	motions     []MotionLabel
	motionCap   int
	pressures   []float64
	pressureCap int
}

func NewAggregationWindow(motionCap, pressureCap int) *AggregationWindow {
	return &AggregationWindow{
		motions:     make([]MotionLabel, 0, motionCap),
		motionCap:   motionCap,
		pressures:   make([]float64, 0, pressureCap),
		pressureCap: pressureCap,
	}
}

// RecordMotion appends a detected label. MotionNone is the absence of an
// event and is never stored.
func (w *AggregationWindow) RecordMotion(label MotionLabel) {
	if label == MotionNone {
		return
	}
	if len(w.motions) < w.motionCap {
		w.motions = append(w.motions, label)
	}
}

// RecordPressure appends one tick's max pressure sample.
func (w *AggregationWindow) RecordPressure(psi float64) {
	if len(w.pressures) < w.pressureCap {
		w.pressures = append(w.pressures, psi)
	}
}

// MostFrequentMotion returns the majority label of the window, MotionNone
// when the window is empty. Count ties go to the first-seen label.
func (w *AggregationWindow) MostFrequentMotion() MotionLabel {
	if len(w.motions) == 0 {
		return MotionNone
	}

	counts := make(map[MotionLabel]int)
	order := make([]MotionLabel, 0, 8)
	for _, m := range w.motions {
		if counts[m] == 0 {
			order = append(order, m)
		}
		counts[m]++
	}

	best := MotionNone
	bestCount := 0
	for _, m := range order {
		if counts[m] > bestCount {
			bestCount = counts[m]
			best = m
		}
	}
	return best
}

// AveragePressure returns the arithmetic mean of the window's pressure
// samples, 0 when empty.
func (w *AggregationWindow) AveragePressure() float64 {
	if len(w.pressures) == 0 {
		return 0.0
	}
	total := 0.0
	for _, p := range w.pressures {
		total += p
	}
	return total / float64(len(w.pressures))
}

// Reset clears both buffers after a periodic emission.
func (w *AggregationWindow) Reset() {
	w.motions = w.motions[:0]
	w.pressures = w.pressures[:0]
}

// MotionCount returns the number of stored motion labels.
func (w *AggregationWindow) MotionCount() int {
	return len(w.motions)
}

// PressureCount returns the number of stored pressure samples.
func (w *AggregationWindow) PressureCount() int {
	return len(w.pressures)
}
