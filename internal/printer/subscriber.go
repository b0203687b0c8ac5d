package printer

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/appetiteclub/apt"
	aptevents "github.com/appetiteclub/apt/events"

	"github.com/comandaclub/comanda/internal/events"
	"github.com/comandaclub/comanda/internal/pos"
)

// TicketSubscriber consumes ticket payloads published by the POS and feeds
// them to the relay. Malformed payloads are logged and dropped; there is no
// redelivery, matching the best-effort print contract.
type TicketSubscriber struct {
	subscriber aptevents.Subscriber
	relay      *Relay
	logger     apt.Logger
}

func NewTicketSubscriber(subscriber aptevents.Subscriber, relay *Relay, logger apt.Logger) *TicketSubscriber {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &TicketSubscriber{
		subscriber: subscriber,
		relay:      relay,
		logger:     logger,
	}
}

func (s *TicketSubscriber) Start(ctx context.Context) error {
	if err := s.subscriber.Subscribe(ctx, events.PrinterTicketsTopic, s.handleEvent); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", events.PrinterTicketsTopic, err)
	}
	s.logger.Info("Subscribed to ticket topic", "topic", events.PrinterTicketsTopic)
	return nil
}

func (s *TicketSubscriber) handleEvent(ctx context.Context, msg []byte) error {
	var ticket pos.Ticket
	if err := json.Unmarshal(msg, &ticket); err != nil {
		s.logger.Errorf("Failed to unmarshal ticket: %v", err)
		return nil
	}

	if err := s.relay.Print(ticket); err != nil {
		s.logger.Errorf("Failed to print ticket %s: %v", ticket.OrderNumber, err)
	}
	return nil
}
