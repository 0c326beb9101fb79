package queue

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/unclebandit/coursemail-backend/internal/model"
)

// Queue interface
type Queue interface {
	Publish(topic string, payload any) error
	Subscribe(topic string, handler func(payload any) error) error
}

// InMemoryQueue is an in-process queue with delayed retries. Each job is
// processed by exactly one goroutine; independent jobs have no ordering
// guarantee.
type InMemoryQueue struct {
	mu        sync.Mutex
	handlers  map[string][]func(payload any) error
	baseDelay time.Duration
	attempts  int
}

// NewInMemoryQueue creates a queue with the production retry policy:
// 3 total attempts, delays of 5s then 10s then give up.
func NewInMemoryQueue() *InMemoryQueue {
	return &InMemoryQueue{
		handlers:  make(map[string][]func(payload any) error),
		baseDelay: 5 * time.Second,
		attempts:  3,
	}
}

// NewInMemoryQueueWithPolicy overrides the retry policy. Tests use short
// delays here.
func NewInMemoryQueueWithPolicy(attempts int, baseDelay time.Duration) *InMemoryQueue {
	return &InMemoryQueue{
		handlers:  make(map[string][]func(payload any) error),
		baseDelay: baseDelay,
		attempts:  attempts,
	}
}

// JobPayload wraps a message payload with retry info
type JobPayload struct {
	Payload     any
	Attempt     int
	MaxAttempts int
}

// Publish hands a payload to every subscriber of the topic.
func (q *InMemoryQueue) Publish(topic string, payload any) error {
	q.mu.Lock()
	handlers := q.handlers[topic]
	q.mu.Unlock()

	if len(handlers) == 0 {
		return fmt.Errorf("no subscribers for topic %s", topic)
	}

	job := JobPayload{
		Payload:     payload,
		Attempt:     0,
		MaxAttempts: q.attempts,
	}

	for _, handler := range handlers {
		go q.processJob(handler, job)
	}

	return nil
}

// processJob runs the handler up to MaxAttempts times with exponential
// backoff between failures: baseDelay, then doubled each retry.
func (q *InMemoryQueue) processJob(handler func(payload any) error, job JobPayload) {
	delay := q.baseDelay
	for {
		job.Attempt++
		err := handler(job.Payload)
		if err == nil {
			return // ACK, job deleted
		}

		log.Printf("⚠️ job failed (attempt %d/%d): %v", job.Attempt, job.MaxAttempts, err)

		if job.Attempt >= job.MaxAttempts {
			log.Printf("job permanently failed after %d attempts", job.MaxAttempts)
			return // terminal, no escalation beyond the log
		}

		time.Sleep(delay)
		delay *= 2
	}
}

// Subscribe adds a handler for a topic
func (q *InMemoryQueue) Subscribe(topic string, handler func(payload any) error) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.handlers[topic] = append(q.handlers[topic], handler)
	return nil
}

// EmailSendTopic is the queue topic for outbound email jobs.
const EmailSendTopic = "email_sends"

// EmailDeliverer is the piece of the email service the subscriber needs.
type EmailDeliverer interface {
	ProcessJob(job model.SendJob) error
}

// StartEmailSendSubscriber wires the email dispatcher to the queue. The
// handler returns an error to trigger a retry; terminal failures end at
// the queue's retry budget.
func StartEmailSendSubscriber(q Queue, svc EmailDeliverer) {
	err := q.Subscribe(EmailSendTopic, func(payload any) error {
		job, ok := payload.(model.SendJob)
		if !ok {
			log.Println("⚠️ invalid payload type, expected model.SendJob")
			return nil // malformed, no retry
		}

		log.Println("📩 processing queued email, delivery id:", job.DeliveryID)
		return svc.ProcessJob(job)
	})

	if err != nil {
		log.Println("⚠️ failed to start subscriber for", EmailSendTopic, ":", err)
	}
}
