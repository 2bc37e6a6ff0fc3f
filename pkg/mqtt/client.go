package mqtt

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/saaga0h/sunwall/pkg/config"
)

const (
	operationTimeout  = 10 * time.Second
	disconnectQuiesce = 250 // ms
)

// pahoClient implements Client on top of Paho. It announces itself on
// StatusTopic with a retained "online" and leaves "offline" as its will.
type pahoClient struct {
	client   pahomqtt.Client
	clientID string
	broker   string
	logger   *slog.Logger
}

// NewClient creates an MQTT client from the broker settings in cfg
func NewClient(cfg *config.Config, logger *slog.Logger) Client {
	clientID := cfg.MQTTClientID
	if clientID == "" {
		clientID = fmt.Sprintf("%s-%s-%d", cfg.ServiceName, cfg.Display, time.Now().Unix())
	}

	c := &pahoClient{
		clientID: clientID,
		broker:   cfg.MQTTAddress(),
		logger:   logger.With("client_id", clientID),
	}

	opts := pahomqtt.NewClientOptions()
	opts.AddBroker(c.broker)
	opts.SetClientID(clientID)
	if cfg.MQTTUser != "" {
		opts.SetUsername(cfg.MQTTUser)
	}
	if cfg.MQTTPassword != "" {
		opts.SetPassword(cfg.MQTTPassword)
	}

	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(5 * time.Second)
	opts.SetMaxReconnectInterval(time.Minute)
	opts.SetWill(StatusTopic(clientID), StatusOffline, 1, true)

	// Runs on every (re)connect, so presence is restored after a broker restart
	opts.OnConnect = func(pc pahomqtt.Client) {
		c.logger.Info("Connected to MQTT broker", "broker", c.broker)
		pc.Publish(StatusTopic(clientID), 1, true, StatusOnline)
	}
	opts.OnConnectionLost = func(_ pahomqtt.Client, err error) {
		c.logger.Warn("MQTT connection lost", "error", err)
	}
	opts.OnReconnecting = func(pahomqtt.Client, *pahomqtt.ClientOptions) {
		c.logger.Info("Reconnecting to MQTT broker", "broker", c.broker)
	}

	c.client = pahomqtt.NewClient(opts)
	return c
}

// Connect blocks until the broker accepts the connection or ctx is done
func (c *pahoClient) Connect(ctx context.Context) error {
	c.logger.Info("Connecting to MQTT broker", "broker", c.broker)

	token := c.client.Connect()
	select {
	case <-token.Done():
		if err := token.Error(); err != nil {
			return fmt.Errorf("failed to connect to MQTT broker %s: %w", c.broker, err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("connecting to MQTT broker %s: %w", c.broker, ctx.Err())
	}
}

// Disconnect marks the client offline and closes the connection
func (c *pahoClient) Disconnect() {
	if c.client.IsConnected() {
		token := c.client.Publish(StatusTopic(c.clientID), 1, true, StatusOffline)
		token.WaitTimeout(time.Second)
	}

	c.logger.Info("Disconnecting from MQTT broker")
	c.client.Disconnect(disconnectQuiesce)
}

func (c *pahoClient) Subscribe(topic string, qos byte, handler MessageHandler) error {
	token := c.client.Subscribe(topic, qos, func(_ pahomqtt.Client, msg pahomqtt.Message) {
		handler(pahoMessage{msg})
	})
	if err := wait(token); err != nil {
		return fmt.Errorf("failed to subscribe to topic %s: %w", topic, err)
	}

	c.logger.Info("Subscribed to MQTT topic", "topic", topic, "qos", qos)
	return nil
}

func (c *pahoClient) Publish(topic string, qos byte, retained bool, payload []byte) error {
	token := c.client.Publish(topic, qos, retained, payload)
	if err := wait(token); err != nil {
		return fmt.Errorf("failed to publish to topic %s: %w", topic, err)
	}

	c.logger.Debug("Published message", "topic", topic, "retained", retained, "size", len(payload))
	return nil
}

func (c *pahoClient) IsConnected() bool {
	return c.client.IsConnected()
}

func wait(token pahomqtt.Token) error {
	if !token.WaitTimeout(operationTimeout) {
		return fmt.Errorf("timed out after %s", operationTimeout)
	}
	return token.Error()
}

type pahoMessage struct {
	msg pahomqtt.Message
}

func (m pahoMessage) Topic() string   { return m.msg.Topic() }
func (m pahoMessage) Payload() []byte { return m.msg.Payload() }
func (m pahoMessage) Retained() bool  { return m.msg.Retained() }
func (m pahoMessage) Ack()            { m.msg.Ack() }
