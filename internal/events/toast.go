// Package events carries learner notifications over an in-process message bus.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"learnflow/internal/domain"
	"learnflow/internal/util"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"go.uber.org/zap"
)

const (
	EventTypeToast = "toast.shown"

	metaEventType = "event_type"
	metaTimestamp = "timestamp"
)

// NewBus returns the in-process pub/sub used for toasts.
func NewBus(logger watermill.LoggerAdapter) *gochannel.GoChannel {
	return gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 64}, logger)
}

// ToastPublisher implements domain.Notifier on top of a watermill publisher.
type ToastPublisher struct {
	publisher message.Publisher
	topic     string
	logger    *zap.Logger
}

var _ domain.Notifier = (*ToastPublisher)(nil)

func NewToastPublisher(publisher message.Publisher, topic string, logger *zap.Logger) *ToastPublisher {
	return &ToastPublisher{publisher: publisher, topic: topic, logger: logger}
}

// Notify publishes the toast without waiting for any subscriber.
func (p *ToastPublisher) Notify(ctx context.Context, toast domain.Toast) error {
	payload, err := json.Marshal(toast)
	if err != nil {
		return fmt.Errorf("failed to marshal toast: %w", err)
	}

	msg := message.NewMessage(util.NewULID(), payload)
	msg.SetContext(ctx)
	msg.Metadata.Set(metaEventType, EventTypeToast)
	msg.Metadata.Set(metaTimestamp, time.Now().UTC().Format(time.RFC3339))

	if err := p.publisher.Publish(p.topic, msg); err != nil {
		p.logger.Error("Failed to publish toast",
			zap.String("message_id", msg.UUID),
			zap.String("topic", p.topic),
			zap.Error(err))
		return fmt.Errorf("failed to publish toast: %w", err)
	}

	p.logger.Debug("Published toast",
		zap.String("message_id", msg.UUID),
		zap.String("title", toast.Title))
	return nil
}

// ToastHandler receives every decoded toast.
type ToastHandler func(ctx context.Context, toast domain.Toast)

// ListenToasts consumes the topic until ctx is cancelled or the subscriber closes.
// Malformed payloads are logged and acked so they are not redelivered.
func ListenToasts(ctx context.Context, subscriber message.Subscriber, topic string, logger *zap.Logger, handle ToastHandler) error {
	messages, err := subscriber.Subscribe(ctx, topic)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", topic, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			var toast domain.Toast
			if err := json.Unmarshal(msg.Payload, &toast); err != nil {
				logger.Warn("Dropping malformed toast",
					zap.String("message_id", msg.UUID),
					zap.Error(err))
				msg.Ack()
				continue
			}
			handle(msg.Context(), toast)
			msg.Ack()
		}
	}
}

// LogToast is the default handler: there is no browser on the other end, so toasts land in the log.
func LogToast(logger *zap.Logger) ToastHandler {
	return func(_ context.Context, toast domain.Toast) {
		logger.Info("Toast",
			zap.String("title", toast.Title),
			zap.String("description", toast.Description))
	}
}
