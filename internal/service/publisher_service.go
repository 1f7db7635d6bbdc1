package service

import (
	"context"
	"encoding/json"

	"github.com/reletz/cornelius/internal/dto"
	"github.com/reletz/cornelius/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IPublisherService interface {
	// PublishEvent puts a session event on the internal bus. Best effort:
	// a full or closed bus must never fail the generation pipeline.
	PublishEvent(ctx context.Context, sessionId uuid.UUID, event events.Event) error
}

type publisherService struct {
	topicName string
	pubSub    *gochannel.GoChannel
}

func NewPublisherService(topicName string, pubSub *gochannel.GoChannel) IPublisherService {
	return &publisherService{
		topicName: topicName,
		pubSub:    pubSub,
	}
}

func (p *publisherService) PublishEvent(ctx context.Context, sessionId uuid.UUID, event events.Event) error {
	envelope := dto.SessionEventMessage{
		SessionId:  sessionId,
		Type:       event.EventType(),
		Data:       event.Payload(),
		OccurredAt: event.Timestamp(),
	}

	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)
	return p.pubSub.Publish(p.topicName, msg)
}
