package usecase

import (
	"errors"
	"log"
	"time"

	"aarvi-backend/internal/analyzer"
	"aarvi-backend/internal/schedule/domain"
	"aarvi-backend/internal/schedule/repository"
)

const followupText = "Just checking in! 😊"

// ScheduleUsecase defines the scheduling business logic interface
type ScheduleUsecase interface {
	// AnalyzeAndSchedule runs the analyzer over a user message and, when the
	// verdict implies a future action, enqueues the suggested message (plus
	// an optional follow-up). Returns whether anything was enqueued.
	AnalyzeAndSchedule(userID, text string, now time.Time) (*analyzer.Result, bool, error)

	// GetUserMessages lists a user's scheduled messages, newest first.
	GetUserMessages(userID string) ([]*domain.ScheduledMessage, error)

	// Cancel cancels one of the user's own scheduled messages.
	Cancel(userID, id string) error
}

type scheduleUsecase struct {
	repo     repository.ScheduledMessageRepository
	analyzer *analyzer.Analyzer
}

// NewScheduleUsecase creates a new instance of scheduleUsecase
func NewScheduleUsecase(repo repository.ScheduledMessageRepository, an *analyzer.Analyzer) ScheduleUsecase {
	return &scheduleUsecase{
		repo:     repo,
		analyzer: an,
	}
}

func (u *scheduleUsecase) AnalyzeAndSchedule(userID, text string, now time.Time) (*analyzer.Result, bool, error) {
	res := u.analyzer.Analyze(text, now)
	if res.Action == analyzer.ActionNone {
		return &res, false, nil
	}

	sendAt := res.SuggestedTime
	if res.Action == analyzer.ActionSendNow {
		sendAt = now
	}

	skipped, err := u.repo.Enqueue(&domain.ScheduledMessage{
		UserID:       userID,
		CreatedBy:    domain.CreatedByAI,
		TriggerEvent: res.Intent,
		Text:         res.SuggestedMessage,
		SendAt:       sendAt,
		Priority:     res.Priority,
		Urgent:       res.Urgency == analyzer.UrgencyImmediate,
		Channel:      domain.ChannelInApp,
		Metadata:     map[string]string{"mood": res.Mood, "type": "main"},
	})
	if err != nil {
		return &res, false, err
	}
	if skipped {
		log.Printf("[Schedule] Duplicate enqueue skipped for user %s (%s)", userID, res.Intent)
	}

	if res.FollowupTime != nil {
		followupSkipped, err := u.repo.Enqueue(&domain.ScheduledMessage{
			UserID:       userID,
			CreatedBy:    domain.CreatedByAI,
			TriggerEvent: res.Intent + "_followup",
			Text:         followupText,
			SendAt:       *res.FollowupTime,
			Priority:     res.Priority + 1, // slightly lower than main
			Channel:      domain.ChannelInApp,
			Metadata:     map[string]string{"mood": res.Mood, "type": "followup"},
		})
		if err != nil {
			log.Printf("[Schedule] Follow-up enqueue failed for user %s: %v", userID, err)
		} else if followupSkipped {
			log.Printf("[Schedule] Duplicate follow-up skipped for user %s", userID)
		}
	}

	return &res, !skipped, nil
}

func (u *scheduleUsecase) GetUserMessages(userID string) ([]*domain.ScheduledMessage, error) {
	return u.repo.FindByUserID(userID, 100)
}

func (u *scheduleUsecase) Cancel(userID, id string) error {
	msg, err := u.repo.FindByID(id)
	if err != nil {
		return err
	}
	if msg == nil {
		return errors.New("scheduled message not found")
	}
	if msg.UserID != userID {
		return errors.New("unauthorized")
	}
	return u.repo.Cancel(id)
}
