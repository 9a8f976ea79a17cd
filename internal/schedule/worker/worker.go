package worker

import (
	"context"
	"log"
	"time"

	chatdomain "aarvi-backend/internal/chat/domain"
	"aarvi-backend/internal/schedule/domain"
	"aarvi-backend/internal/schedule/repository"
)

const (
	pushTitle       = "Aarvi 💜"
	pushLink        = "/chat"
	perEntryTimeout = 30 * time.Second
)

// ConversationAppender is the slice of the conversation log the worker needs.
type ConversationAppender interface {
	Append(userID string, msgs ...chatdomain.Message) error
}

// Notifier fans a notification out to a user's registered devices.
type Notifier interface {
	Notify(ctx context.Context, userID, title, body, link string) (int, error)
}

// DeliveryWorker polls the scheduled-message queue and turns due entries
// into proactive conversation messages plus push notifications.
type DeliveryWorker struct {
	repo          repository.ScheduledMessageRepository
	conversations ConversationAppender
	notifier      Notifier

	interval     time.Duration
	claimTimeout time.Duration
	batchSize    int
	maxAttempts  int

	stopChan chan struct{}
}

// Options tune the polling loop.
type Options struct {
	Interval     time.Duration // default 60s
	ClaimTimeout time.Duration // default 5m
	BatchSize    int           // default 50
	MaxAttempts  int           // default 10; entries exceeding it are retired as failed
}

// New creates a new DeliveryWorker
func New(repo repository.ScheduledMessageRepository, conversations ConversationAppender, notifier Notifier, opts Options) *DeliveryWorker {
	if opts.Interval <= 0 {
		opts.Interval = 60 * time.Second
	}
	if opts.ClaimTimeout <= 0 {
		opts.ClaimTimeout = 5 * time.Minute
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = 50
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 10
	}
	return &DeliveryWorker{
		repo:          repo,
		conversations: conversations,
		notifier:      notifier,
		interval:      opts.Interval,
		claimTimeout:  opts.ClaimTimeout,
		batchSize:     opts.BatchSize,
		maxAttempts:   opts.MaxAttempts,
		stopChan:      make(chan struct{}),
	}
}

// Start begins the polling loop
func (w *DeliveryWorker) Start() {
	log.Printf("[Worker] Starting delivery worker (interval: %s)", w.interval)

	go func() {
		// Run immediately on start
		w.runCycle(time.Now())

		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				w.runCycle(time.Now())
			case <-w.stopChan:
				log.Println("[Worker] Delivery worker stopped")
				return
			}
		}
	}()
}

// Stop gracefully stops the worker
func (w *DeliveryWorker) Stop() {
	close(w.stopChan)
}

// runCycle claims and delivers due entries. Each entry is handled in
// isolation: a failure is logged and leaves the entry for the next cycle,
// it never aborts the batch.
func (w *DeliveryWorker) runCycle(now time.Time) {
	due, err := w.repo.FindDue(w.batchSize, now)
	if err != nil {
		log.Printf("[Worker] Error finding due messages: %v", err)
		return
	}
	if len(due) == 0 {
		return
	}

	log.Printf("[Worker] Found %d due messages", len(due))
	for _, msg := range due {
		w.deliver(msg, now)
	}
}

func (w *DeliveryWorker) deliver(msg *domain.ScheduledMessage, now time.Time) {
	if msg.Attempts >= w.maxAttempts {
		log.Printf("[Worker] Message %s exhausted %d attempts, marking failed", msg.ID, msg.Attempts)
		if err := w.repo.MarkFailed(msg.ID); err != nil {
			log.Printf("[Worker] Error marking message %s failed: %v", msg.ID, err)
		}
		return
	}

	claimed, err := w.repo.Claim(msg.ID, now.Add(w.claimTimeout))
	if err != nil {
		log.Printf("[Worker] Error claiming message %s: %v", msg.ID, err)
		return
	}
	if !claimed {
		// Another instance won the row.
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), perEntryTimeout)
	defer cancel()

	if err := w.conversations.Append(msg.UserID, chatdomain.Message{
		Role:      chatdomain.RoleAssistant,
		Content:   msg.Text,
		Proactive: true,
		CreatedAt: now,
	}); err != nil {
		// Claim expires and the entry is retried next cycle.
		log.Printf("[Worker] Failed to append proactive message %s for user %s: %v", msg.ID, msg.UserID, err)
		return
	}

	if err := w.repo.MarkSent(msg.ID); err != nil {
		log.Printf("[Worker] Error marking message %s as sent: %v", msg.ID, err)
		return
	}

	if w.notifier != nil {
		sent, err := w.notifier.Notify(ctx, msg.UserID, pushTitle, msg.Text, pushLink)
		if err != nil {
			log.Printf("[Worker] Push fan-out failed for user %s: %v", msg.UserID, err)
		} else if sent > 0 {
			log.Printf("[Worker] Notified %d devices for user %s", sent, msg.UserID)
		}
	}

	log.Printf("[Worker] Delivered message %s to user %s", msg.ID, msg.UserID)
}
