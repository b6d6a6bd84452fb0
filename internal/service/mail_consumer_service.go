package service

import (
	"context"
	"encoding/json"
	"fmt"

	"fundoo-notes-be/internal/dto"
	"fundoo-notes-be/pkg/mailer"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/cenkalti/backoff/v4"
	"github.com/gofiber/fiber/v2/log"
)

// IMailConsumerService drains the mail topic and delivers verification
// emails off the request path.
type IMailConsumerService interface {
	Consume(ctx context.Context) error
}

type mailConsumerService struct {
	subscriber message.Subscriber
	topicName  string
	mailer     mailer.IMailer
}

func NewMailConsumerService(subscriber message.Subscriber, topicName string, mailSender mailer.IMailer) IMailConsumerService {
	return &mailConsumerService{
		subscriber: subscriber,
		topicName:  topicName,
		mailer:     mailSender,
	}
}

func (ms *mailConsumerService) Consume(ctx context.Context) error {
	messages, err := ms.subscriber.Subscribe(ctx, ms.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			ms.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (ms *mailConsumerService) processMessage(ctx context.Context, msg *message.Message) {
	defer msg.Ack()

	var payload dto.VerificationMailMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Errorf("[Mail] failed to unmarshal payload: %v | payload: %s", err, string(msg.Payload))
		return
	}

	subject := "Verify Your Email Address"
	body := fmt.Sprintf("Welcome! Please verify your email address by opening the link below:\n\n%s", payload.Link)

	send := func() error {
		return ms.mailer.Send(payload.Email, subject, body)
	}

	policy := backoff.WithMaxRetries(backoff.NewConstantBackOff(reminderRetryDelay), reminderMaxRetries)
	if err := backoff.Retry(send, backoff.WithContext(policy, ctx)); err != nil {
		log.Errorf("[Mail] giving up on verification mail to %s: %v", payload.Email, err)
		return
	}

	log.Infof("[Mail] sent verification mail to %s", payload.Email)
}
