package mqtt

import "context"

// Client is the broker connection used by the wallpaper agent and the
// scenario runner. Fakes implement it in tests.
type Client interface {
	Connect(ctx context.Context) error
	Disconnect()

	// Subscribe registers handler for topic. Retained messages already on the
	// broker are delivered right after subscribing.
	Subscribe(topic string, qos byte, handler MessageHandler) error

	Publish(topic string, qos byte, retained bool, payload []byte) error
	IsConnected() bool
}

// MessageHandler receives messages for a subscription
type MessageHandler func(Message)

// Message is a received MQTT message
type Message interface {
	Topic() string
	Payload() []byte

	// Retained reports whether the broker replayed a stored message
	Retained() bool

	Ack()
}
