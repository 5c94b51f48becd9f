// Package telemetry is the transport boundary of the sensing core: it
// serializes emitted events into the device's line format, parses inbound
// commands, and moves both over MQTT.
package telemetry

import (
	"fmt"
	"strings"

	"github.com/Nipz652/CalmOrbIoT/sensing"
)

// EncodeEvent renders an event as the one-line, comma-separated key:value
// wire format. Enumerations are serialized to text here and nowhere else.
func EncodeEvent(deviceID string, evt sensing.Event) string {
	var b strings.Builder

	fmt.Fprintf(&b, "device:%s,", deviceID)
	fmt.Fprintf(&b, "time:%d,", evt.UptimeMS)
	fmt.Fprintf(&b, "fsr1_raw:%d,", evt.FSR1Raw)
	fmt.Fprintf(&b, "fsr2_raw:%d,", evt.FSR2Raw)
	fmt.Fprintf(&b, "psi1:%.2f,", evt.PSI1)
	fmt.Fprintf(&b, "psi2:%.2f,", evt.PSI2)
	fmt.Fprintf(&b, "psi_max:%.2f,", evt.PSIMax)
	fmt.Fprintf(&b, "grip_state:%s,", evt.Grip)
	fmt.Fprintf(&b, "ax:%d,", evt.Sample.AX)
	fmt.Fprintf(&b, "ay:%d,", evt.Sample.AY)
	fmt.Fprintf(&b, "az:%d,", evt.Sample.AZ)
	fmt.Fprintf(&b, "gx:%d,", evt.Sample.GX)
	fmt.Fprintf(&b, "gy:%d,", evt.Sample.GY)
	fmt.Fprintf(&b, "gz:%d", evt.Sample.GZ)
	fmt.Fprintf(&b, ",motion:%s", evt.Motion)

	if evt.Squeeze {
		b.WriteString(",action:Squeeze")
	}
	if evt.PatternAlert {
		fmt.Fprintf(&b, ",alert:PATTERN_3GRIP,dominant_type:%s", evt.DominantGrip)
	}
	if evt.MotionAlert {
		fmt.Fprintf(&b, ",alert:MOTION_3X,motion_type:%s", evt.MotionType)
	}

	return b.String()
}

// EncodeStatus renders the synchronous STATUS reply.
func EncodeStatus(debugOn bool, grip sensing.GripLevel, psi float64) string {
	debug := "off"
	if debugOn {
		debug = "on"
	}
	return fmt.Sprintf("STATUS:debug=%s,grip=%s,psi=%.2f,ble=stealth", debug, grip, psi)
}
