package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	flag "github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/Nipz652/CalmOrbIoT/audio"
	"github.com/Nipz652/CalmOrbIoT/config"
	"github.com/Nipz652/CalmOrbIoT/hardware"
	"github.com/Nipz652/CalmOrbIoT/sensing"
	"github.com/Nipz652/CalmOrbIoT/storage"
	"github.com/Nipz652/CalmOrbIoT/telemetry"
	"github.com/Nipz652/CalmOrbIoT/ws"
)

const distressTrack = 1

func main() {
	var (
		configPath = flag.StringP("config", "c", "", "path to YAML config")
		broker     = flag.String("broker", "", "MQTT broker host (overrides config)")
		deviceID   = flag.String("device", "", "device identifier (overrides config)")
		csvPath    = flag.String("csv", "", "event CSV log path (overrides config)")
		wsAddr     = flag.String("ws-addr", "", "websocket listen address (overrides config)")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("[Main] Config error: %v", err)
	}
	if *broker != "" {
		cfg.MQTT.Broker = *broker
	}
	if *deviceID != "" {
		cfg.DeviceID = *deviceID
	}
	if *csvPath != "" {
		cfg.CSVPath = *csvPath
	}
	if *wsAddr != "" {
		cfg.WSAddr = *wsAddr
	}
	if cfg.DeviceID == "" {
		cfg.DeviceID = "calmorb-" + uuid.New().String()[:8]
		log.Printf("[Main] No device id configured, using %s", cfg.DeviceID)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Peripherals. Production builds swap in the board drivers here.
	analog := &hardware.SimAnalog{Readings: map[int]int{sensing.DefaultPins.FSR1: 0, sensing.DefaultPins.FSR2: 0}}
	imu := &hardware.SimIMU{}
	player := audio.NewController(hardware.LogPlayer{})

	engine := sensing.NewEngine(cfg.SensingConfig(), sensing.DefaultPins, analog, imu)

	ring := storage.NewEventRing(cfg.RingSize)

	csvLogger, err := storage.NewCSVLogger(cfg.CSVPath)
	if err != nil {
		log.Fatalf("[Main] CSV log error: %v", err)
	}
	defer csvLogger.Close()

	hub := ws.NewHub(func() []string {
		events := ring.Recent(20)
		lines := make([]string, 0, len(events))
		for _, evt := range events {
			lines = append(lines, telemetry.EncodeEvent(cfg.DeviceID, evt))
		}
		return lines
	})

	publisher := telemetry.NewPublisher(cfg.TelemetryConfig(), nil)
	handler := telemetry.NewCommandHandler(engine, player, publisher.Send)
	publisher.SetHandler(handler)

	engine.AddListener(func(evt sensing.Event) {
		line := telemetry.EncodeEvent(cfg.DeviceID, evt)
		ring.Push(evt)
		csvLogger.Write(evt)
		publisher.Send(line)
		hub.Broadcast(line)

		if evt.Kind == sensing.EventImmediate && (evt.PatternAlert || evt.MotionAlert) {
			player.Play(distressTrack)
		}
	})

	if err := publisher.Start(); err != nil {
		log.Printf("[Main] MQTT unavailable, continuing without transport: %v", err)
	}
	defer publisher.Stop()

	go hub.Run()
	defer hub.Shutdown()

	mux := http.NewServeMux()
	mux.Handle("/", hub)
	mux.Handle("/stats", hub.StatsHandler(func() map[string]interface{} {
		stats := ring.Stats()
		stats["device_id"] = cfg.DeviceID
		stats["mqtt_connected"] = publisher.IsConnected()
		return stats
	}))

	server := &http.Server{Addr: cfg.WSAddr, Handler: mux}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return engine.Run(ctx)
	})

	g.Go(func() error {
		return player.Run(ctx)
	})

	g.Go(func() error {
		log.Printf("[Main] WebSocket listening on %s", cfg.WSAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	log.Printf("[Main] CalmOrb running, device=%s", cfg.DeviceID)

	if err := g.Wait(); err != nil {
		log.Fatalf("[Main] Exited with error: %v", err)
	}
	log.Printf("[Main] Shutdown complete")
}
