package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"propertyhub/internal/model"
	"propertyhub/internal/repository"
)

// SubmissionPersistWorker drains the submission queue and writes completed
// eligibility sessions to postgres.
type SubmissionPersistWorker struct {
	conn      *amqp.Connection
	repo      *repository.SubmissionRepository
	queueName string
	log       zerolog.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewSubmissionPersistWorker(
	conn *amqp.Connection,
	repo *repository.SubmissionRepository,
	queueName string,
	log zerolog.Logger,
) *SubmissionPersistWorker {
	return &SubmissionPersistWorker{
		conn:      conn,
		repo:      repo,
		queueName: queueName,
		log:       log.With().Str("worker", "submission_persist").Logger(),
	}
}

func (w *SubmissionPersistWorker) Start(ctx context.Context) error {
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

	_, err = ch.QueueDeclare(
		w.queueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("declare worker queue failed: %w", err)
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

				var submission model.EligibilitySubmission
				if err := json.Unmarshal(d.Body, &submission); err != nil {
					w.log.Error().Err(err).Msg("decode submission failed")
					_ = d.Nack(false, false)
					continue
				}

				if err := w.repo.Create(&submission); err != nil {
					w.log.Error().Err(err).
						Str("session_id", submission.SessionID).
						Msg("persist submission failed")
					_ = d.Nack(false, false)
					continue
				}

				w.log.Info().
					Str("session_id", submission.SessionID).
					Str("verdict", submission.Verdict).
					Msg("submission persisted")
				_ = d.Ack(false)
			}
		}
	}()

	return nil
}

func (w *SubmissionPersistWorker) Close() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}
