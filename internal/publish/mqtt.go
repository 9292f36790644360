// Package publish mirrors device status and roster changes to an MQTT
// broker so home automation can react to recognitions.
package publish

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const publishTimeout = 5 * time.Second

// Options holds MQTT publisher configuration.
type Options struct {
	Broker      string
	ClientID    string
	Username    string
	Password    string
	TopicPrefix string // e.g. "facecam/frontdoor"
}

// MQTT publishes status text and roster snapshots. It implements
// domain.Publisher.
type MQTT struct {
	client      mqtt.Client
	statusTopic string
	rosterTopic string
	log         zerolog.Logger
}

// NewMQTT connects to the broker.
func NewMQTT(opts Options) (*MQTT, error) {
	l := log.With().Str("component", "mqtt").Logger()

	co := mqtt.NewClientOptions()
	co.AddBroker(opts.Broker)
	co.SetClientID(opts.ClientID)
	co.SetUsername(opts.Username)
	co.SetPassword(opts.Password)
	co.SetAutoReconnect(true)
	co.SetKeepAlive(60 * time.Second)
	co.SetPingTimeout(10 * time.Second)
	co.SetOnConnectHandler(func(mqtt.Client) {
		l.Info().Msg("connected to broker")
	})
	co.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		l.Warn().Err(err).Msg("broker connection lost")
	})

	client := mqtt.NewClient(co)
	token := client.Connect()
	if !token.WaitTimeout(publishTimeout) {
		return nil, fmt.Errorf("connect to MQTT broker %s: timed out", opts.Broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to MQTT broker %s: %w", opts.Broker, err)
	}

	return newMQTT(client, opts.TopicPrefix, l), nil
}

func newMQTT(client mqtt.Client, prefix string, l zerolog.Logger) *MQTT {
	prefix = strings.TrimSuffix(prefix, "/")
	return &MQTT{
		client:      client,
		statusTopic: prefix + "/status",
		rosterTopic: prefix + "/roster",
		log:         l,
	}
}

// PublishStatus publishes device status text as-is.
func (p *MQTT) PublishStatus(text string) {
	p.publish(p.statusTopic, false, []byte(text))
}

// PublishRoster publishes the roster as a JSON array of names. The message
// is retained so new subscribers see the current roster.
func (p *MQTT) PublishRoster(names []string) {
	if names == nil {
		names = []string{}
	}
	payload, err := json.Marshal(names)
	if err != nil {
		p.log.Error().Err(err).Msg("marshal roster")
		return
	}
	p.publish(p.rosterTopic, true, payload)
}

// publish does not wait for the broker; callers run on the session's read
// loop.
func (p *MQTT) publish(topic string, retained bool, payload []byte) {
	token := p.client.Publish(topic, 0, retained, payload)
	go func() {
		if !token.WaitTimeout(publishTimeout) {
			p.log.Warn().Str("topic", topic).Msg("publish timed out")
			return
		}
		if err := token.Error(); err != nil {
			p.log.Warn().Err(err).Str("topic", topic).Msg("publish failed")
		}
	}()
}

// Close disconnects from the broker.
func (p *MQTT) Close() {
	p.client.Disconnect(250)
	p.log.Info().Msg("disconnected from broker")
}

// Nop discards everything. It is used when no broker is configured.
type Nop struct{}

func (Nop) PublishStatus(string)   {}
func (Nop) PublishRoster([]string) {}
func (Nop) Close()                 {}
