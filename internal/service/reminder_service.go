package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"fundoo-notes-be/internal/dto"
	"fundoo-notes-be/internal/repository"
	"fundoo-notes-be/pkg/mailer"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/cenkalti/backoff/v4"
	"github.com/gofiber/fiber/v2/log"
)

// tuned down in tests
var (
	reminderMaxRetries uint64 = 3
	reminderRetryDelay        = 60 * time.Second
)

type IReminderConsumerService interface {
	Consume(ctx context.Context) error
}

type reminderConsumerService struct {
	subscriber     message.Subscriber
	topicName      string
	noteRepository repository.INoteRepository
	userRepository repository.IUserRepository
	mailer         mailer.IMailer
}

func NewReminderConsumerService(
	subscriber message.Subscriber,
	topicName string,
	noteRepository repository.INoteRepository,
	userRepository repository.IUserRepository,
	mailSender mailer.IMailer,
) IReminderConsumerService {
	return &reminderConsumerService{
		subscriber:     subscriber,
		topicName:      topicName,
		noteRepository: noteRepository,
		userRepository: userRepository,
		mailer:         mailSender,
	}
}

func (rs *reminderConsumerService) Consume(ctx context.Context) error {
	messages, err := rs.subscriber.Subscribe(ctx, rs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			// each job sleeps until its fire time, so they must not
			// block one another
			go rs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (rs *reminderConsumerService) processMessage(ctx context.Context, msg *message.Message) {
	// a reminder job is never requeued: after the bounded retries below
	// we give up and log
	defer msg.Ack()

	defer func() {
		if e := recover(); e != nil {
			log.Errorf("[Reminder] panic while processing job: %v", e)
		}
	}()

	var payload dto.ScheduleReminderMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Errorf("[Reminder] failed to unmarshal payload: %v | payload: %s", err, string(msg.Payload))
		return
	}

	if !rs.waitUntil(ctx, payload.FireAt) {
		return
	}

	// state may have changed between scheduling and firing: the note can
	// be archived, trashed, deleted, or carry a different reminder now
	note, err := rs.noteRepository.GetById(ctx, payload.NoteId)
	if err != nil {
		log.Infof("[Reminder] note %s no longer exists, dropping job", payload.NoteId)
		return
	}

	if note.Reminder == nil || !note.Reminder.Equal(payload.FireAt) {
		log.Infof("[Reminder] note %s reminder changed, dropping stale job", note.Id)
		return
	}
	if note.IsArchived || note.IsTrashed {
		log.Infof("[Reminder] note %s is archived or trashed, no mail sent", note.Id)
		return
	}

	owner, err := rs.userRepository.GetById(ctx, note.UserId)
	if err != nil {
		log.Errorf("[Reminder] failed to load owner of note %s: %v", note.Id, err)
		return
	}

	subject := "Reminder for your note"
	body := fmt.Sprintf("Here is your reminder for the note:\n\nTitle: %s\nDescription: %s", note.Title, note.Description)

	send := func() error {
		return rs.mailer.Send(owner.Email, subject, body)
	}

	policy := backoff.WithMaxRetries(backoff.NewConstantBackOff(reminderRetryDelay), reminderMaxRetries)
	if err := backoff.Retry(send, backoff.WithContext(policy, ctx)); err != nil {
		log.Errorf("[Reminder] giving up on note %s after retries: %v", note.Id, err)
		return
	}

	log.Infof("[Reminder] sent reminder mail for note %s to %s", note.Id, owner.Email)
}

// waitUntil blocks until the fire time, returning false when the context
// ends first.
func (rs *reminderConsumerService) waitUntil(ctx context.Context, fireAt time.Time) bool {
	delay := time.Until(fireAt)
	if delay <= 0 {
		return true
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
