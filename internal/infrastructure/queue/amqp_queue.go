package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/streadway/amqp"

	"github.com/jhoicas/rankitpro-api/internal/application/ports"
	"github.com/jhoicas/rankitpro-api/pkg/logger"
)

var _ ports.ReviewQueue = (*AMQPQueue)(nil)

// reviewJob cuerpo del mensaje en la cola.
type reviewJob struct {
	ReviewRequestID string `json:"review_request_id"`
}

// AMQPQueue cola durable en RabbitMQ.
type AMQPQueue struct {
	conn *amqp.Connection
	ch   *amqp.Channel
	name string
	mu   sync.Mutex
	log  *logger.Logger
}

// NewAMQPQueue conecta, abre un canal y declara la cola durable.
func NewAMQPQueue(url, name string, log *logger.Logger) (*AMQPQueue, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("amqp: dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("amqp: abrir canal: %w", err)
	}
	if _, err := ch.QueueDeclare(name, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("amqp: declarar cola %s: %w", name, err)
	}
	return &AMQPQueue{conn: conn, ch: ch, name: name, log: log}, nil
}

// Publish encola el ID como mensaje persistente.
func (q *AMQPQueue) Publish(_ context.Context, reviewRequestID string) error {
	body, err := json.Marshal(reviewJob{ReviewRequestID: reviewRequestID})
	if err != nil {
		return err
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	err = q.ch.Publish("", q.name, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("amqp: publish: %w", err)
	}
	return nil
}

// Consume procesa mensajes con ack manual hasta que ctx se cancele.
// Un error del handler descarta el mensaje: el reintento lo hace el job de despacho leyendo la DB.
func (q *AMQPQueue) Consume(ctx context.Context, handler func(ctx context.Context, reviewRequestID string) error) error {
	if err := q.ch.Qos(10, 0, false); err != nil {
		return fmt.Errorf("amqp: qos: %w", err)
	}
	msgs, err := q.ch.Consume(q.name, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("amqp: consume: %w", err)
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return fmt.Errorf("amqp: canal de entrega cerrado")
			}
			var job reviewJob
			if err := json.Unmarshal(d.Body, &job); err != nil || job.ReviewRequestID == "" {
				q.log.Warn().Err(err).Msg("mensaje de cola inválido, descartado")
				_ = d.Ack(false)
				continue
			}
			if err := handler(ctx, job.ReviewRequestID); err != nil {
				q.log.Error().Err(err).Str("review_request_id", job.ReviewRequestID).Msg("error procesando solicitud de reseña")
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

// Close cierra canal y conexión.
func (q *AMQPQueue) Close() error {
	if err := q.ch.Close(); err != nil {
		q.conn.Close()
		return err
	}
	return q.conn.Close()
}
