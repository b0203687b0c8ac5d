package pos

import (
	"context"
	"encoding/json"
	"time"

	"github.com/appetiteclub/apt"
	aptevents "github.com/appetiteclub/apt/events"
	"github.com/google/uuid"

	"github.com/comandaclub/comanda/internal/events"
)

// Effect is a side effect produced by a pure state transition. The state
// machines never talk to the repository or the network themselves; they
// return effects and the Executor performs them.
type Effect interface {
	effect()
}

type PersistTable struct {
	Table Table
}

type DeleteTable struct {
	ID uuid.UUID
}

type PersistOrder struct {
	Order Order
}

type PersistMenuItem struct {
	Item MenuItem
}

type DeleteMenuItem struct {
	ID uuid.UUID
}

type PersistCategory struct {
	Category Category
}

type CreateRegister struct {
	Register CashRegister
}

type SaveRegister struct {
	Register CashRegister
}

// RecordSale increments the persisted register atomically at the repository.
type RecordSale struct {
	RegisterID uuid.UUID
	Amount     float64
}

// RegisterFault marks a sale that could not be recorded because no register
// was open. It only logs; the financial gap must be visible to the operator.
type RegisterFault struct {
	OrderID uuid.UUID
	Amount  float64
}

// EmitTicket sends a ticket payload to the print sink, fire and forget.
type EmitTicket struct {
	Ticket Ticket
}

func (PersistTable) effect()    {}
func (DeleteTable) effect()     {}
func (PersistOrder) effect()    {}
func (PersistMenuItem) effect() {}
func (DeleteMenuItem) effect()  {}
func (PersistCategory) effect() {}
func (CreateRegister) effect()  {}
func (SaveRegister) effect()    {}
func (RecordSale) effect()      {}
func (RegisterFault) effect()   {}
func (EmitTicket) effect()      {}

const effectTimeout = 5 * time.Second

// Executor performs effects against the repository port and the event
// publisher. Failures are logged and left for the next sync cycle to
// reconcile; local state already holds the optimistic result.
type Executor struct {
	repos     Repos
	publisher aptevents.Publisher
	logger    apt.Logger
}

func NewExecutor(repos Repos, publisher aptevents.Publisher, logger apt.Logger) *Executor {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &Executor{
		repos:     repos,
		publisher: publisher,
		logger:    logger,
	}
}

// Exec runs a batch of effects. Each effect gets its own timeout so a slow
// write cannot wedge the rest of the batch forever.
func (e *Executor) Exec(effects []Effect) {
	for _, eff := range effects {
		ctx, cancel := context.WithTimeout(context.Background(), effectTimeout)
		e.execOne(ctx, eff)
		cancel()
	}
}

func (e *Executor) execOne(ctx context.Context, eff Effect) {
	switch ef := eff.(type) {
	case PersistTable:
		if err := e.repos.Tables.Save(ctx, &ef.Table); err != nil {
			e.logger.Error("cannot persist table", "number", ef.Table.Number, "error", err)
			return
		}
		e.publishTableStatus(ctx, &ef.Table)
	case DeleteTable:
		if err := e.repos.Tables.Delete(ctx, ef.ID); err != nil {
			e.logger.Error("cannot delete table", "id", ef.ID.String(), "error", err)
		}
	case PersistOrder:
		if err := e.repos.Orders.Save(ctx, &ef.Order); err != nil {
			e.logger.Error("cannot persist order", "id", ef.Order.ID.String(), "error", err)
		}
	case PersistMenuItem:
		if err := e.repos.Menu.SaveItem(ctx, &ef.Item); err != nil {
			e.logger.Error("cannot persist menu item", "id", ef.Item.ID.String(), "error", err)
		}
	case DeleteMenuItem:
		if err := e.repos.Menu.DeleteItem(ctx, ef.ID); err != nil {
			e.logger.Error("cannot delete menu item", "id", ef.ID.String(), "error", err)
		}
	case PersistCategory:
		if err := e.repos.Menu.SaveCategory(ctx, &ef.Category); err != nil {
			e.logger.Error("cannot persist category", "name", ef.Category.Name, "error", err)
		}
	case CreateRegister:
		if err := e.repos.Register.Create(ctx, &ef.Register); err != nil {
			e.logger.Error("cannot create cash register", "error", err)
		}
	case SaveRegister:
		if err := e.repos.Register.Save(ctx, &ef.Register); err != nil {
			e.logger.Error("cannot save cash register", "error", err)
		}
	case RecordSale:
		if err := e.repos.Register.AddSale(ctx, ef.RegisterID, ef.Amount); err != nil {
			e.logger.Error("cannot record sale", "register_id", ef.RegisterID.String(), "amount", ef.Amount, "error", err)
		}
	case RegisterFault:
		e.logger.Error("sale settled with no open cash register", "order_id", ef.OrderID.String(), "amount", ef.Amount, "error", ErrRegisterClosed)
	case EmitTicket:
		e.publishTicket(ctx, ef.Ticket)
	}
}

func (e *Executor) publishTicket(ctx context.Context, ticket Ticket) {
	if e.publisher == nil {
		return
	}
	body, err := json.Marshal(ticket)
	if err != nil {
		e.logger.Error("cannot marshal ticket", "error", err)
		return
	}
	if err := e.publisher.Publish(ctx, events.PrinterTicketsTopic, body); err != nil {
		// Printing is best effort; never roll back the state transition.
		e.logger.Info("ticket emission failed", "order", ticket.OrderNumber, "error", err)
	}
}

func (e *Executor) publishTableStatus(ctx context.Context, table *Table) {
	if e.publisher == nil {
		return
	}
	evt := events.TableStatusEvent{
		EventType:  events.EventTableStatusChanged,
		TableID:    table.ID.String(),
		Number:     table.Number,
		Status:     table.Status,
		OccurredAt: time.Now().UTC(),
	}
	body, err := json.Marshal(evt)
	if err != nil {
		return
	}
	if err := e.publisher.Publish(ctx, events.TableStatusTopic, body); err != nil {
		e.logger.Debug("table status event not published", "number", table.Number, "error", err)
	}
}
