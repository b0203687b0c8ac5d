package pos

import (
	"fmt"
	"strings"
	"time"
)

// Ticket is the payload sent to the print sink on send-to-kitchen and on
// payment. Printing never blocks or rolls back a state transition.
type Ticket struct {
	Kind        string       `json:"kind"`
	OrderNumber string       `json:"orderNumber"`
	Items       []TicketItem `json:"items"`
	Table       string       `json:"table"`
	Waiter      string       `json:"waiter"`
	Time        string       `json:"time"`
	Total       float64      `json:"total,omitempty"`
}

type TicketItem struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Notes    string  `json:"notes,omitempty"`
	Price    float64 `json:"price,omitempty"`
}

const (
	TicketKitchen = "kitchen"
	TicketReceipt = "receipt"
)

// NewKitchenTicket builds the cocina-facing summary of an order's items.
func NewKitchenTicket(o *Order) Ticket {
	return buildTicket(o, TicketKitchen)
}

// NewReceiptTicket builds the customer-facing receipt emitted at payment.
func NewReceiptTicket(o *Order) Ticket {
	t := buildTicket(o, TicketReceipt)
	t.Total = o.Total
	return t
}

func buildTicket(o *Order, kind string) Ticket {
	items := make([]TicketItem, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, TicketItem{
			Name:     it.Name,
			Quantity: it.Quantity,
			Notes:    it.Notes,
			Price:    it.Price,
		})
	}
	return Ticket{
		Kind:        kind,
		OrderNumber: orderNumber(o),
		Items:       items,
		Table:       tableLabel(o.TableNumber),
		Waiter:      o.WaiterName,
		Time:        o.Timestamp.Format(time.Kitchen),
	}
}

func orderNumber(o *Order) string {
	id := strings.ToUpper(o.ID.String())
	if len(id) > 8 {
		id = id[:8]
	}
	return id
}

func tableLabel(number int) string {
	if number == TakeawayTable {
		return "Para Llevar"
	}
	return fmt.Sprintf("Mesa %d", number)
}
