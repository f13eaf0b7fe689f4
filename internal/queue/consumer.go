package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Sender delivers one rendered message. The mailer implements it; tests
// substitute a recorder.
type Sender interface {
	Send(to, subject, body string) error
}

// StartNotificationConsumer connects to RabbitMQ, declares the durable
// notification queue and consumes it, sending one email per message. It
// runs a reconnect loop with capped exponential backoff and never returns
// under normal operation; failed messages are rejected without requeue so
// a poison message cannot wedge the queue.
func StartNotificationConsumer(url string, sender Sender, log *zap.Logger) error {
	wait := time.Second
	for {
		conn, err := amqp.Dial(url)
		if err != nil {
			log.Warn("notification consumer: dial failed",
				zap.Error(err), zap.Duration("retry_in", wait))
			time.Sleep(wait)
			if wait < 30*time.Second {
				wait *= 2
			}
			continue
		}
		wait = time.Second

		if err := consumeLoop(conn, sender, log); err != nil {
			log.Warn("notification consumer: loop ended, reconnecting", zap.Error(err))
			_ = conn.Close()
			time.Sleep(2 * time.Second)
		}
	}
}

func consumeLoop(conn *amqp.Connection, sender Sender, log *zap.Logger) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(20, 0, false); err != nil {
		log.Warn("notification consumer: set QoS failed", zap.Error(err))
	}
	if _, err := ch.QueueDeclare(NotificationQueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(NotificationQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for d := range msgs {
		if err := handleMessage(d.Body, sender); err != nil {
			log.Error("notification consumer: message failed", zap.Error(err))
			_ = d.Nack(false, false)
			continue
		}
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}

func handleMessage(body []byte, sender Sender) error {
	var ev NotificationEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if ev.Recipient == "" {
		return errors.New("event has no recipient")
	}
	if err := sender.Send(ev.Recipient, ev.Subject(), ev.Body()); err != nil {
		return fmt.Errorf("send: %w", err)
	}
	return nil
}
