package telemetry

import (
	"log"
	"strconv"
	"strings"

	"github.com/Nipz652/CalmOrbIoT/audio"
	"github.com/Nipz652/CalmOrbIoT/sensing"
)

// CommandHandler consumes inbound text commands from the companion device.
// Commands are case-insensitive and whitespace-trimmed. Malformed input is
// reported and changes no state; the core never treats it as fatal.
type CommandHandler struct {
	engine *sensing.Engine
	player *audio.Controller
	reply  func(string) // STATUS replies go back out through the transport
}

func NewCommandHandler(engine *sensing.Engine, player *audio.Controller, reply func(string)) *CommandHandler {
	return &CommandHandler{engine: engine, player: player, reply: reply}
}

// Handle parses and executes one command line.
func (h *CommandHandler) Handle(raw string) {
	cmd := strings.ToUpper(strings.TrimSpace(raw))
	log.Printf("[Command] Handling: %s", cmd)

	switch {
	case cmd == "PLAY:STOP":
		h.player.Stop()

	case strings.HasPrefix(cmd, "PLAY:"):
		track, err := strconv.Atoi(cmd[len("PLAY:"):])
		if err != nil {
			h.unknown(cmd)
			return
		}
		h.player.Play(track)

	case strings.HasPrefix(cmd, "VOLUME:"):
		vol, err := strconv.Atoi(cmd[len("VOLUME:"):])
		if err != nil {
			h.unknown(cmd)
			return
		}
		h.player.SetVolume(vol)

	case cmd == "DEBUG:ON":
		h.engine.SetDebugEnabled(true)
		log.Printf("[Command] Motion debug enabled")

	case cmd == "DEBUG:OFF":
		h.engine.SetDebugEnabled(false)
		log.Printf("[Command] Motion debug disabled")

	case cmd == "DEBUG:VERBOSE":
		if h.engine.ToggleVerbose() {
			log.Printf("[Command] Verbose mode on")
		} else {
			log.Printf("[Command] Verbose mode off")
		}

	case cmd == "STATUS":
		psi1, psi2 := h.engine.LastPressures()
		psi := psi1
		if psi2 > psi {
			psi = psi2
		}
		status := EncodeStatus(h.engine.DebugEnabled(), h.engine.GripState(), psi)
		log.Printf("[Command] %s", status)
		if h.reply != nil {
			h.reply(status)
		}

	default:
		h.unknown(cmd)
	}
}

func (h *CommandHandler) unknown(cmd string) {
	log.Printf("[Command] Unknown command %q. Available: PLAY:n, PLAY:STOP, VOLUME:n, DEBUG:ON, DEBUG:OFF, DEBUG:VERBOSE, STATUS", cmd)
}
