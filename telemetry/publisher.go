package telemetry

import (
	"crypto/tls"
	"fmt"
	"log"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// Config holds the MQTT transport settings.
type Config struct {
	Broker          string
	Port            int
	Username        string
	Password        string
	UseTLS          bool
	InsecureSkipTLS bool

	EventTopic   string
	CommandTopic string
	ClientID     string
	QueueSize    int
}

// Publisher moves encoded event lines out to the broker and feeds inbound
// command lines to a handler. Outgoing lines pass through a buffered queue:
// when the broker is slow the newest lines are dropped rather than the
// loop blocked.
type Publisher struct {
	cfg     Config
	client  mqtt.Client
	handler *CommandHandler
	lines   chan string
	done    chan struct{}
}

func NewPublisher(cfg Config, handler *CommandHandler) *Publisher {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 64
	}
	return &Publisher{
		cfg:     cfg,
		handler: handler,
		lines:   make(chan string, cfg.QueueSize),
		done:    make(chan struct{}),
	}
}

// SetHandler installs the command handler. Must be called before Start;
// the handler usually needs the publisher's Send for STATUS replies, so
// construction happens in two steps.
func (p *Publisher) SetHandler(handler *CommandHandler) {
	p.handler = handler
}

func (p *Publisher) Start() error {
	opts := mqtt.NewClientOptions()

	protocol := "tcp"
	if p.cfg.UseTLS {
		protocol = "tls"
	}
	brokerURL := fmt.Sprintf("%s://%s:%d", protocol, p.cfg.Broker, p.cfg.Port)
	opts.AddBroker(brokerURL)

	clientID := p.cfg.ClientID
	if clientID == "" {
		clientID = fmt.Sprintf("calmorb-%d", time.Now().Unix())
	}
	opts.SetClientID(clientID)

	if p.cfg.Username != "" {
		opts.SetUsername(p.cfg.Username)
		opts.SetPassword(p.cfg.Password)
	}

	if p.cfg.UseTLS {
		opts.SetTLSConfig(&tls.Config{InsecureSkipVerify: p.cfg.InsecureSkipTLS})
	}

	opts.SetKeepAlive(60 * time.Second)
	opts.SetPingTimeout(10 * time.Second)
	opts.SetConnectTimeout(10 * time.Second)
	opts.SetAutoReconnect(true)
	opts.SetMaxReconnectInterval(30 * time.Second)

	opts.OnConnect = p.onConnect
	opts.OnConnectionLost = func(_ mqtt.Client, err error) {
		log.Printf("[MQTT] Connection lost: %v (will auto-reconnect)", err)
	}
	opts.OnReconnecting = func(mqtt.Client, *mqtt.ClientOptions) {
		log.Printf("[MQTT] Reconnecting...")
	}

	p.client = mqtt.NewClient(opts)

	log.Printf("[MQTT] Connecting to %s as %s...", brokerURL, clientID)

	token := p.client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return fmt.Errorf("MQTT connect timeout")
	}
	if token.Error() != nil {
		return fmt.Errorf("MQTT connect failed: %w", token.Error())
	}

	go p.publishWorker()

	return nil
}

func (p *Publisher) Stop() {
	close(p.done)
	if p.client != nil && p.client.IsConnected() {
		p.client.Disconnect(1000)
	}
	log.Printf("[MQTT] Publisher stopped")
}

func (p *Publisher) onConnect(client mqtt.Client) {
	log.Printf("[MQTT] Connected")

	if p.cfg.CommandTopic == "" {
		return
	}

	token := client.Subscribe(p.cfg.CommandTopic, 0, p.onCommand)
	if !token.WaitTimeout(5 * time.Second) {
		log.Printf("[MQTT] Subscribe timeout for %s", p.cfg.CommandTopic)
		return
	}
	if token.Error() != nil {
		log.Printf("[MQTT] Subscribe error: %v", token.Error())
		return
	}

	log.Printf("[MQTT] Subscribed to %s", p.cfg.CommandTopic)
}

func (p *Publisher) onCommand(_ mqtt.Client, msg mqtt.Message) {
	if p.handler != nil {
		p.handler.Handle(string(msg.Payload()))
	}
}

// Send queues one encoded line for publication.
func (p *Publisher) Send(line string) {
	select {
	case p.lines <- line:
	case <-p.done:
	default:
		// Queue full, drop (prioritize latest data over blocking the loop)
		log.Printf("[MQTT] Queue full, dropping line")
	}
}

func (p *Publisher) publishWorker() {
	for {
		select {
		case line := <-p.lines:
			token := p.client.Publish(p.cfg.EventTopic, 0, false, line)
			if !token.WaitTimeout(5 * time.Second) {
				log.Printf("[MQTT] Publish timeout")
				continue
			}
			if token.Error() != nil {
				log.Printf("[MQTT] Publish error: %v", token.Error())
			}
		case <-p.done:
			return
		}
	}
}

// IsConnected reports broker connectivity.
func (p *Publisher) IsConnected() bool {
	return p.client != nil && p.client.IsConnected()
}
