package broker

import (
	"log"

	"github.com/nats-io/nats.go"

	"inkwell-notes/inkwell/config"
)

// Consumer fans subscribed subjects into a single message channel.
type Consumer struct {
	conn     *nats.Conn
	subs     []*nats.Subscription
	messages chan *nats.Msg
}

func InitConsumer(cfg config.Config, subjects []string, queue string) (*Consumer, error) {
	conn, err := nats.Connect(cfg.NatsURL,
		nats.Name("inkwell-consumer-"+queue),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, err
	}

	consumer := &Consumer{
		conn:     conn,
		messages: make(chan *nats.Msg, 256),
	}

	for _, subject := range subjects {
		sub, err := conn.ChanQueueSubscribe(subject, queue, consumer.messages)
		if err != nil {
			consumer.Close()
			return nil, err
		}
		consumer.subs = append(consumer.subs, sub)
	}

	log.Printf("NATS consumer %s subscribed to %v", queue, subjects)
	return consumer, nil
}

func (c *Consumer) GetMessageChannel() chan *nats.Msg {
	return c.messages
}

func (c *Consumer) Close() {
	for _, sub := range c.subs {
		if err := sub.Unsubscribe(); err != nil {
			log.Printf("Failed to unsubscribe: %v", err)
		}
	}
	if c.conn != nil {
		c.conn.Close()
	}
}
