package service

import (
	"context"
	"log"

	"aarvi-backend/internal/push/repository"
	"aarvi-backend/pkg/fcm"
)

// Pusher is the push gateway boundary. Delivery attempts are independent per
// token; the gateway reports transient failures separately from tokens that
// are permanently gone.
type Pusher interface {
	SendToDevices(ctx context.Context, tokens []string, notification fcm.NotificationData) (failed, gone []string, err error)
}

// Fanout delivers one logical notification to every registered device
// subscription of a user and prunes dead ones.
type Fanout struct {
	subs   repository.SubscriptionRepository
	pusher Pusher
}

// NewFanout creates a new Fanout
func NewFanout(subs repository.SubscriptionRepository, pusher Pusher) *Fanout {
	return &Fanout{
		subs:   subs,
		pusher: pusher,
	}
}

// Notify sends the notification to all of the user's subscriptions. Gone
// subscriptions are deleted in one batch after the fan-out resolves. The
// returned count is the number of subscriptions that did not fail; it is a
// best-effort metric, not a delivery confirmation.
func (f *Fanout) Notify(ctx context.Context, userID, title, body, link string) (int, error) {
	subs, err := f.subs.GetByUserID(userID)
	if err != nil {
		return 0, err
	}
	if len(subs) == 0 {
		return 0, nil
	}

	tokens := make([]string, 0, len(subs))
	for _, s := range subs {
		tokens = append(tokens, s.Token)
	}

	failed, gone, err := f.pusher.SendToDevices(ctx, tokens, fcm.NotificationData{
		Title: title,
		Body:  body,
		Link:  link,
	})
	if err != nil {
		return 0, err
	}

	if len(gone) > 0 {
		if err := f.subs.DeleteTokens(gone); err != nil {
			log.Printf("[Push] Failed to prune %d dead subscriptions for user %s: %v", len(gone), userID, err)
		} else {
			log.Printf("[Push] Pruned %d dead subscriptions for user %s", len(gone), userID)
		}
	}

	return len(tokens) - len(failed) - len(gone), nil
}
