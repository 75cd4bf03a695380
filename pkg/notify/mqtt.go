package notify

import (
	"fmt"
	"log"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

const publishTimeout = 5 * time.Second

// MQTTConfig holds the broker connection settings
type MQTTConfig struct {
	Broker   string
	ClientID string
	Username string
	Password string
}

// MQTTPublisher publishes over an MQTT connection
type MQTTPublisher struct {
	client mqtt.Client
}

// NewMQTTPublisher connects to the broker
func NewMQTTPublisher(config MQTTConfig) (*MQTTPublisher, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(config.Broker)
	opts.SetClientID(config.ClientID)
	opts.SetUsername(config.Username)
	opts.SetPassword(config.Password)
	opts.SetOnConnectHandler(connectHandler)
	opts.SetConnectionLostHandler(connectLostHandler)
	opts.SetAutoReconnect(true)
	opts.SetKeepAlive(60 * time.Second)
	opts.SetPingTimeout(10 * time.Second)

	client := mqtt.NewClient(opts)

	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}

	log.Printf("✓ Connected to MQTT broker: %s", config.Broker)

	return NewMQTTPublisherWithClient(client), nil
}

// NewMQTTPublisherWithClient wraps a client that is already connected
func NewMQTTPublisherWithClient(client mqtt.Client) *MQTTPublisher {
	return &MQTTPublisher{client: client}
}

// Publish sends payload with QoS 1
func (p *MQTTPublisher) Publish(topic string, payload []byte) error {
	token := p.client.Publish(topic, 1, false, payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("timed out publishing to %s", topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", topic, err)
	}
	return nil
}

// Close disconnects from the broker
func (p *MQTTPublisher) Close() {
	p.client.Disconnect(250)
	log.Println("✓ MQTT client disconnected")
}

var connectHandler mqtt.OnConnectHandler = func(client mqtt.Client) {
	log.Println("✓ MQTT connection established")
}

var connectLostHandler mqtt.ConnectionLostHandler = func(client mqtt.Client, err error) {
	log.Printf("⚠ MQTT connection lost: %v", err)
}
