package queue

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/streadway/amqp"
)

// AMQPPublisher pushes email jobs to a durable RabbitMQ queue for the
// broker-backed delivery path (cmd/worker consumes them).
type AMQPPublisher struct {
	conn *amqp.Connection
	ch   *amqp.Channel
	name string
}

func NewAMQPPublisher(url string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	q, err := ch.QueueDeclare(
		EmailSendTopic, // name
		true,           // durable
		false,          // delete when unused
		false,          // exclusive
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare queue: %w", err)
	}

	log.Println("📮 AMQP publisher ready, queue:", q.Name)
	return &AMQPPublisher{conn: conn, ch: ch, name: q.Name}, nil
}

// Publish marshals the payload to JSON. The topic must match the declared
// queue; jobs carry their own retry metadata in headers on the consumer
// side.
func (p *AMQPPublisher) Publish(topic string, payload any) error {
	if topic != p.name {
		return fmt.Errorf("unknown topic %s", topic)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	return p.ch.Publish(
		"",
		p.name,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
}

// Subscribe is not supported on the publisher side; cmd/worker consumes
// directly from the channel.
func (p *AMQPPublisher) Subscribe(topic string, handler func(payload any) error) error {
	return fmt.Errorf("AMQPPublisher does not consume; run cmd/worker")
}

func (p *AMQPPublisher) Close() {
	p.ch.Close()
	p.conn.Close()
}

var _ Queue = (*AMQPPublisher)(nil)
