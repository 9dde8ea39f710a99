package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"miniblog/internal/model"
	"miniblog/internal/platform/rabbitmq"
)

var errMalformedActivity = errors.New("malformed activity event")

type ActivityWriter interface {
	Create(entry *model.ActivityLog) error
}

// ActivityPersistWorker drains the activity queue into the activity_log table.
type ActivityPersistWorker struct {
	conn      *amqp.Connection
	repo      ActivityWriter
	queueName string

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewActivityPersistWorker(conn *amqp.Connection, repo ActivityWriter, queueName string) *ActivityPersistWorker {
	return &ActivityPersistWorker{
		conn:      conn,
		repo:      repo,
		queueName: queueName,
	}
}

func (w *ActivityPersistWorker) Start(ctx context.Context) error {
	if w.cancel != nil {
		return nil
	}

	workerCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	ch, err := w.conn.Channel()
	if err != nil {
		cancel()
		return fmt.Errorf("open worker channel failed: %w", err)
	}

	if err := rabbitmq.DeclareQueue(ch, w.queueName); err != nil {
		_ = ch.Close()
		cancel()
		return err
	}

	deliveries, err := ch.Consume(
		w.queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("consume queue failed: %w", err)
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer ch.Close()

		for {
			select {
			case <-workerCtx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					return
				}
				settle(d, w.handle(d.Body))
			}
		}
	}()

	return nil
}

// deliveryAcker is the part of amqp.Delivery used to settle a message.
type deliveryAcker interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

// settle acks persisted events, drops malformed ones and requeues the rest
// so a database outage does not lose activity.
func settle(d deliveryAcker, err error) {
	switch {
	case err == nil:
		_ = d.Ack(false)
	case errors.Is(err, errMalformedActivity):
		log.Printf("worker drop malformed activity: %v", err)
		_ = d.Nack(false, false)
	default:
		log.Printf("worker persist activity failed, requeueing: %v", err)
		_ = d.Nack(false, true)
	}
}

func (w *ActivityPersistWorker) handle(body []byte) error {
	var entry model.ActivityLog
	if err := json.Unmarshal(body, &entry); err != nil {
		return fmt.Errorf("%w: %v", errMalformedActivity, err)
	}
	if entry.Kind == "" || entry.OccurredAt.IsZero() {
		return errMalformedActivity
	}
	entry.ID = 0
	entry.CreatedAt = entry.OccurredAt
	return w.repo.Create(&entry)
}

func (w *ActivityPersistWorker) Close() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}
