package kafkahandlers

import (
	"context"
	"encoding/json"
	"log"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"

	"nightout/internal/services"
	ws "nightout/internal/websocket"
)

// PlanEventConsumerLogic forwards plan activity events from Kafka to the
// websocket hub, so clients watching a city learn that attendance changed.
type PlanEventConsumerLogic struct {
	hub *ws.Hub
}

// NewPlanEventConsumerLogic creates a new PlanEventConsumerLogic instance.
func NewPlanEventConsumerLogic(hub *ws.Hub) *PlanEventConsumerLogic {
	if hub == nil {
		log.Panic("websocket hub cannot be nil")
	}
	return &PlanEventConsumerLogic{hub: hub}
}

// HandlePlanEvent is the MessageHandler passed to the Kafka consumer. A
// malformed message is skipped (offset committed), not retried forever.
func (h *PlanEventConsumerLogic) HandlePlanEvent(ctx context.Context, msg *kafka.Message) error {
	var event services.PlanEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		log.Printf("Error unmarshalling plan event (value: %q): %v. Skipping message.", string(msg.Value), err)
		return nil
	}
	if event.City == "" {
		log.Printf("Plan event without city (offset %v), skipping.", msg.TopicPartition.Offset)
		return nil
	}

	// Re-marshal rather than forwarding msg.Value: clients only ever see
	// fields PlanEvent defines.
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("Error marshalling plan event for fan-out: %v", err)
		return nil
	}

	h.hub.BroadcastToCity(event.City, payload)
	return nil
}
