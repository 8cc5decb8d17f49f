package broker

import (
	"errors"
	"log"

	"github.com/nats-io/nats.go"

	"inkwell-notes/inkwell/config"
)

var producer *nats.Conn

// InitProducer connects the process-wide publisher. The caller decides how to
// degrade when the broker is unavailable; services keep working without it.
func InitProducer(cfg config.Config) error {
	conn, err := nats.Connect(cfg.NatsURL,
		nats.Name("inkwell-producer"),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return err
	}

	producer = conn
	log.Printf("NATS producer connected to %s", cfg.NatsURL)
	return nil
}

func Publish(subject string, data []byte) error {
	if producer == nil {
		return errors.New("NATS producer is not initialized")
	}
	return producer.Publish(subject, data)
}

func CloseProducer() {
	if producer != nil {
		producer.Drain()
		producer = nil
	}
}
