package pos

import (
	"time"

	"github.com/appetiteclub/apt"
	"github.com/google/uuid"

	"github.com/comandaclub/comanda/internal/enums/itemstatus"
	"github.com/comandaclub/comanda/internal/enums/payment"
	"github.com/comandaclub/comanda/internal/enums/tablestatus"
)

const (
	// OrderOpen and OrderClosed are the two order lifecycle states.
	// An order is closed exactly once, at payment time, and never reopened.
	OrderOpen   = "abierta"
	OrderClosed = "cerrada"

	// TakeawayTable is the table number used for para-llevar orders.
	TakeawayTable = 0
)

// OrderItem snapshots a MenuItem at add time so later price edits do not
// retroactively change an open order.
type OrderItem struct {
	MenuItemID uuid.UUID  `json:"menu_item_id" bson:"menu_item_id"`
	Name       string     `json:"name" bson:"name"`
	Price      float64    `json:"price" bson:"price"`
	Quantity   int        `json:"quantity" bson:"quantity"`
	Notes      string     `json:"notes,omitempty" bson:"notes,omitempty"`
	Status     string     `json:"status" bson:"status"`
	OrderID    uuid.UUID  `json:"order_id" bson:"order_id"`
	StartTime  *time.Time `json:"start_time,omitempty" bson:"start_time,omitempty"`
}

// NewOrderItem builds a staged item from a catalog entry.
func NewOrderItem(m *MenuItem, quantity int, notes string) OrderItem {
	return OrderItem{
		MenuItemID: m.ID,
		Name:       m.Name,
		Price:      m.Price,
		Quantity:   quantity,
		Notes:      notes,
		Status:     itemstatus.Statuses.Nuevo.Code(),
	}
}

type Order struct {
	ID            uuid.UUID   `json:"id" bson:"_id"`
	TableNumber   int         `json:"table_number" bson:"table_number"`
	Items         []OrderItem `json:"items" bson:"items"`
	Total         float64     `json:"total" bson:"total"`
	Status        string      `json:"status" bson:"status"`
	Timestamp     time.Time   `json:"timestamp" bson:"timestamp"`
	PaymentMethod string      `json:"payment_method,omitempty" bson:"payment_method,omitempty"`
	WaiterID      string      `json:"waiter_id" bson:"waiter_id"`
	WaiterName    string      `json:"waiter_name" bson:"waiter_name"`
	CustomerCount int         `json:"customer_count" bson:"customer_count"`
	Discount      float64     `json:"discount,omitempty" bson:"discount,omitempty"`
	Tip           float64     `json:"tip,omitempty" bson:"tip,omitempty"`
}

func (o *Order) GetID() uuid.UUID {
	return o.ID
}

func (o *Order) ResourceType() string {
	return "order"
}

func (o *Order) EnsureID() {
	if o.ID == uuid.Nil {
		o.ID = apt.GenerateNewID()
	}
}

// ItemsTotal is the pre-discount sum over the item list.
func ItemsTotal(items []OrderItem) float64 {
	total := 0.0
	for _, it := range items {
		total += it.Price * float64(it.Quantity)
	}
	return total
}

// AllItemsReady reports whether every item reached "listo". It gates the
// table transition to servido; closing an order does not check it.
func AllItemsReady(o *Order) bool {
	for _, it := range o.Items {
		if it.Status != itemstatus.Statuses.Listo.Code() {
			return false
		}
	}
	return true
}

// createOrder validates and registers a new open order. The owning table, if
// any, is marked ocupada with its staging list cleared; the kitchen receives
// a ticket. No table is touched for takeaway orders.
func createOrder(s *State, tableNumber int, items []OrderItem, waiterID, waiterName string, customerCount int, now time.Time) (*Order, []Effect, error) {
	if len(items) == 0 {
		return nil, nil, validationErr("items", "order must have at least one item")
	}
	for _, it := range items {
		if it.Quantity < 1 {
			return nil, nil, validationErr("quantity", "item quantity must be at least 1")
		}
	}

	// Resolve the table before touching state so a rejected submit leaves
	// no phantom order behind.
	var table *Table
	if tableNumber != TakeawayTable {
		if table = s.tableByNumber(tableNumber); table == nil {
			return nil, nil, ErrNotFound
		}
	}

	order := &Order{
		ID:            apt.GenerateNewID(),
		TableNumber:   tableNumber,
		Total:         ItemsTotal(items),
		Status:        OrderOpen,
		Timestamp:     now,
		WaiterID:      waiterID,
		WaiterName:    waiterName,
		CustomerCount: customerCount,
	}
	order.Items = make([]OrderItem, len(items))
	copy(order.Items, items)
	for i := range order.Items {
		order.Items[i].OrderID = order.ID
		if order.Items[i].Status == "" {
			order.Items[i].Status = itemstatus.Statuses.Nuevo.Code()
		}
	}

	s.Orders = append(s.Orders, order)

	effects := []Effect{PersistOrder{Order: *order}}

	if table != nil {
		table.Status = tablestatus.Statuses.Ocupada.Code()
		table.CurrentOrder = nil
		table.Total = 0
		effects = append(effects, PersistTable{Table: *table})
	}

	effects = append(effects, EmitTicket{Ticket: NewKitchenTicket(order)})
	return order, effects, nil
}

// advanceItemStatus moves a dish strictly forward: nuevo -> preparando ->
// listo. Staging the same dish twice (say once plain, once "sin ají")
// produces two lines sharing a MenuItemID; the kitchen works the dish as
// one, so every line that can take the step advances together. The call
// fails only when no line moves: unknown order or dish is ErrNotFound, all
// lines already past the step is a transition error. The first entry into
// preparando stamps StartTime; the transition rules make a second entry
// impossible, so the stamp is never overwritten. The full item list is
// persisted back, no partial-document update is assumed.
func advanceItemStatus(s *State, orderID, menuItemID uuid.UUID, next string, now time.Time) ([]Effect, error) {
	order := s.orderByID(orderID)
	if order == nil {
		return nil, ErrNotFound
	}

	matched, advanced := false, false
	blockedFrom := ""
	for i := range order.Items {
		it := &order.Items[i]
		if it.MenuItemID != menuItemID {
			continue
		}
		matched = true
		if !itemstatus.CanAdvance(it.Status, next) {
			blockedFrom = it.Status
			continue
		}
		it.Status = next
		if next == itemstatus.Statuses.Preparando.Code() && it.StartTime == nil {
			t := now
			it.StartTime = &t
		}
		advanced = true
	}

	if !matched {
		return nil, ErrNotFound
	}
	if !advanced {
		return nil, transitionErr("order item", blockedFrom, next)
	}
	return []Effect{PersistOrder{Order: *order}}, nil
}

// closeOrder settles payment. finalTotal = total - discount + tip. The floor
// at zero is intentionally not enforced unless strict mode is on; excessive
// discounts producing a negative total were accepted by the original flow.
func closeOrder(s *State, orderID uuid.UUID, method string, discount, tip float64, strict bool, now time.Time) (*Order, []Effect, error) {
	order := s.orderByID(orderID)
	if order == nil {
		return nil, nil, ErrNotFound
	}
	if order.Status != OrderOpen {
		return nil, nil, ErrAlreadyClosed
	}
	if payment.ByName(method) == nil {
		return nil, nil, validationErr("payment_method", "unknown payment method")
	}

	finalTotal := order.Total - discount + tip
	if strict && finalTotal < 0 {
		return nil, nil, validationErr("discount", "discount exceeds order total")
	}

	order.Status = OrderClosed
	order.PaymentMethod = method
	order.Discount = discount
	order.Tip = tip
	order.Total = finalTotal

	s.DailySales += finalTotal

	effects := []Effect{PersistOrder{Order: *order}}

	saleEffects, err := recordSale(s, finalTotal)
	if err != nil {
		// Payment already happened; the close is not rolled back. The missed
		// ledger entry is surfaced loudly instead of silently dropped.
		effects = append(effects, RegisterFault{OrderID: order.ID, Amount: finalTotal})
	} else {
		effects = append(effects, saleEffects...)
	}

	if order.TableNumber != TakeawayTable {
		if table := s.tableByNumber(order.TableNumber); table != nil {
			table.Status = tablestatus.Statuses.Limpieza.Code()
			table.CurrentOrder = nil
			table.Total = 0
			table.WaiterName = ""
			table.CustomerCount = 0
			table.OrderStartTime = nil
			effects = append(effects, PersistTable{Table: *table})
		}
	}

	effects = append(effects, EmitTicket{Ticket: NewReceiptTicket(order)})
	return order, effects, nil
}
