package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Nipz652/CalmOrbIoT/sensing"
)

// CSVLogger appends emitted events to a session CSV file. The header is
// written once when the file is new.
type CSVLogger struct {
	file   *os.File
	writer *csv.Writer
}

func NewCSVLogger(path string) (*CSVLogger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("open csv log: %w", err)
	}

	l := &CSVLogger{
		file:   file,
		writer: csv.NewWriter(file),
	}

	info, _ := file.Stat()
	if info.Size() == 0 {
		header := []string{
			"iso8601", "uptime_ms", "kind",
			"fsr1_raw", "fsr2_raw", "psi1", "psi2", "psi_max",
			"grip_state", "ax", "ay", "az", "gx", "gy", "gz",
			"motion", "squeeze", "pattern_alert", "dominant_type",
			"motion_alert", "motion_type",
		}
		l.writer.Write(header)
		l.writer.Flush()
	}

	return l, nil
}

// Write appends one event row.
func (l *CSVLogger) Write(evt sensing.Event) {
	kind := "periodic"
	if evt.Kind == sensing.EventImmediate {
		kind = "immediate"
	}

	row := []string{
		evt.Timestamp.UTC().Format(time.RFC3339),
		fmt.Sprintf("%d", evt.UptimeMS),
		kind,
		fmt.Sprintf("%d", evt.FSR1Raw),
		fmt.Sprintf("%d", evt.FSR2Raw),
		fmt.Sprintf("%.2f", evt.PSI1),
		fmt.Sprintf("%.2f", evt.PSI2),
		fmt.Sprintf("%.2f", evt.PSIMax),
		evt.Grip.String(),
		fmt.Sprintf("%d", evt.Sample.AX),
		fmt.Sprintf("%d", evt.Sample.AY),
		fmt.Sprintf("%d", evt.Sample.AZ),
		fmt.Sprintf("%d", evt.Sample.GX),
		fmt.Sprintf("%d", evt.Sample.GY),
		fmt.Sprintf("%d", evt.Sample.GZ),
		evt.Motion.String(),
		fmt.Sprintf("%t", evt.Squeeze),
		fmt.Sprintf("%t", evt.PatternAlert),
		evt.DominantGrip.String(),
		fmt.Sprintf("%t", evt.MotionAlert),
		evt.MotionType.String(),
	}

	l.writer.Write(row)
	l.writer.Flush()
}

func (l *CSVLogger) Close() {
	if l.writer != nil {
		l.writer.Flush()
	}
	if l.file != nil {
		l.file.Close()
	}
}
