package bersim

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// DEFAULT_MQTT_TOPIC is the topic prefix; the scheme name is appended.
const DEFAULT_MQTT_TOPIC = "bersim"

// publisher is the part of mqtt.Client the sink uses.
type publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// MQTTSink publishes each record as JSON to <topic>/<scheme>.
type MQTTSink struct {
	client     publisher
	topic      string
	timeout    time.Duration
	disconnect func()
}

// NewMQTTSink wraps an already connected client.  Closing the sink leaves the client alone.
func NewMQTTSink(client publisher, topic string) *MQTTSink {
	if topic == "" {
		topic = DEFAULT_MQTT_TOPIC
	}

	return &MQTTSink{
		client:  client,
		topic:   topic,
		timeout: 10 * time.Second,
	}
}

// DialMQTTSink connects to broker, e.g. tcp://localhost:1883.  Closing the sink disconnects.
func DialMQTTSink(broker string, topic string, logger *log.Logger) (*MQTTSink, error) {
	logger = orDiscard(logger)

	var opts = mqtt.NewClientOptions()
	opts.AddBroker(broker)
	opts.SetClientID(generateClientID())
	opts.SetConnectTimeout(10 * time.Second)
	opts.SetKeepAlive(60 * time.Second)
	opts.SetPingTimeout(10 * time.Second)

	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		logger.Warn("MQTT connection lost", "err", err)
	})

	var client = mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker %s: %w", broker, token.Error())
	}

	logger.Info("Connected to MQTT broker", "broker", broker)

	var s = NewMQTTSink(client, topic)
	s.disconnect = func() { client.Disconnect(250) }

	return s, nil
}

func (s *MQTTSink) Write(r SweepRecord) error {
	var payload, err = json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encoding record: %w", err)
	}

	var topic = s.topic + "/" + r.Scheme
	var token = s.client.Publish(topic, 0, false, payload)

	if !token.WaitTimeout(s.timeout) {
		return fmt.Errorf("publishing to %s: timed out after %s", topic, s.timeout)
	}

	if err := token.Error(); err != nil {
		return fmt.Errorf("publishing to %s: %w", topic, err)
	}

	return nil
}

func (s *MQTTSink) Close() error {
	if s.disconnect != nil {
		s.disconnect()
		s.disconnect = nil
	}

	return nil
}

func generateClientID() string {
	var b = make([]byte, 8)
	rand.Read(b) //nolint:errcheck

	return "bersim_" + hex.EncodeToString(b)
}
