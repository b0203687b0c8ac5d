package pos

import (
	"time"

	"github.com/appetiteclub/apt"
	"github.com/google/uuid"

	"github.com/comandaclub/comanda/internal/enums/tablestatus"
)

// Table tracks one physical mesa through the workflow cycle
// libre -> ocupada -> servido -> cuenta -> limpieza -> libre.
//
// CurrentOrder is ephemeral local staging: items the waiter is building
// before sending them to the kitchen. Once submitted they become an
// immutable Order and the staging list is cleared. Total always reflects
// the staging list only; the bill of an occupied table lives on the open
// Order matched by table number.
type Table struct {
	ID             uuid.UUID   `json:"id" bson:"_id"`
	Number         int         `json:"number" bson:"number"`
	Capacity       int         `json:"capacity" bson:"capacity"`
	Status         string      `json:"status" bson:"status"`
	CurrentOrder   []OrderItem `json:"current_order" bson:"-"`
	Total          float64     `json:"total" bson:"-"`
	WaiterName     string      `json:"waiter_name,omitempty" bson:"-"`
	CustomerCount  int         `json:"customer_count,omitempty" bson:"-"`
	OrderStartTime *time.Time  `json:"order_start_time,omitempty" bson:"-"`
}

func (t *Table) GetID() uuid.UUID {
	return t.ID
}

func (t *Table) ResourceType() string {
	return "table"
}

func NewTable(number, capacity int) *Table {
	return &Table{
		ID:       apt.GenerateNewID(),
		Number:   number,
		Capacity: capacity,
		Status:   tablestatus.Statuses.Libre.Code(),
	}
}

// HasStagedItems reports whether an order is being built at this table.
// The sync reconciler never drops or refreshes a table while this holds.
func (t *Table) HasStagedItems() bool {
	return len(t.CurrentOrder) > 0
}

func (t *Table) recalcStaging() {
	t.Total = ItemsTotal(t.CurrentOrder)
	if len(t.CurrentOrder) == 0 && t.Status == tablestatus.Statuses.Ocupada.Code() {
		t.Status = tablestatus.Statuses.Libre.Code()
	}
}

// stageItem adds an item to the table's staging list. The first item flips
// the table libre -> ocupada and stamps the order start time. Capacity is
// informational only and never enforced against customer count.
func stageItem(s *State, tableID uuid.UUID, item OrderItem, waiterName string, now time.Time) ([]Effect, error) {
	table := s.tableByID(tableID)
	if table == nil {
		return nil, ErrNotFound
	}
	if item.Quantity < 1 {
		return nil, validationErr("quantity", "item quantity must be at least 1")
	}

	table.CurrentOrder = append(table.CurrentOrder, item)
	table.Total = ItemsTotal(table.CurrentOrder)
	table.Status = tablestatus.Statuses.Ocupada.Code()
	if waiterName != "" {
		table.WaiterName = waiterName
	}
	if table.OrderStartTime == nil {
		t := now
		table.OrderStartTime = &t
	}

	return []Effect{PersistTable{Table: *table}}, nil
}

// removeStagedItem drops an item from the staging list. Emptying the list
// returns the table to libre, mirroring how the original flow abandoned a
// never-submitted order.
func removeStagedItem(s *State, tableID, menuItemID uuid.UUID) ([]Effect, error) {
	table := s.tableByID(tableID)
	if table == nil {
		return nil, ErrNotFound
	}

	kept := table.CurrentOrder[:0]
	for _, it := range table.CurrentOrder {
		if it.MenuItemID != menuItemID {
			kept = append(kept, it)
		}
	}
	table.CurrentOrder = kept
	table.recalcStaging()

	return []Effect{PersistTable{Table: *table}}, nil
}

// setStagedQuantity updates the quantity of a staged item. Quantity zero
// removes the item.
func setStagedQuantity(s *State, tableID, menuItemID uuid.UUID, quantity int) ([]Effect, error) {
	table := s.tableByID(tableID)
	if table == nil {
		return nil, ErrNotFound
	}
	if quantity < 0 {
		return nil, validationErr("quantity", "quantity cannot be negative")
	}

	kept := table.CurrentOrder[:0]
	for _, it := range table.CurrentOrder {
		if it.MenuItemID == menuItemID {
			if quantity == 0 {
				continue
			}
			it.Quantity = quantity
		}
		kept = append(kept, it)
	}
	table.CurrentOrder = kept
	table.recalcStaging()

	return []Effect{PersistTable{Table: *table}}, nil
}

// markServed transitions ocupada -> servido. The guard requires an open
// order for this table with every item listo; the kitchen drives eligibility.
func markServed(s *State, tableID uuid.UUID) ([]Effect, error) {
	table := s.tableByID(tableID)
	if table == nil {
		return nil, ErrNotFound
	}
	if table.Status != tablestatus.Statuses.Ocupada.Code() {
		return nil, ErrInvalidState
	}

	order := s.openOrderByTable(table.Number)
	if order == nil || !AllItemsReady(order) {
		return nil, ErrNotReady
	}

	table.Status = tablestatus.Statuses.Servido.Code()
	return []Effect{PersistTable{Table: *table}}, nil
}

// requestBill transitions servido -> cuenta. Requesting the bill from any
// other status is rejected.
func requestBill(s *State, tableID uuid.UUID) ([]Effect, error) {
	table := s.tableByID(tableID)
	if table == nil {
		return nil, ErrNotFound
	}
	if table.Status != tablestatus.Statuses.Servido.Code() {
		return nil, ErrInvalidState
	}

	table.Status = tablestatus.Statuses.Cuenta.Code()
	return []Effect{PersistTable{Table: *table}}, nil
}

// cleanTable transitions limpieza -> libre. The step is unconditional; the
// original flow had no discrete action for it, so it is also applied
// automatically after payment when auto-clean is enabled.
func cleanTable(s *State, tableID uuid.UUID) ([]Effect, error) {
	table := s.tableByID(tableID)
	if table == nil {
		return nil, ErrNotFound
	}
	if table.Status != tablestatus.Statuses.Limpieza.Code() {
		return nil, ErrInvalidState
	}

	table.Status = tablestatus.Statuses.Libre.Code()
	return []Effect{PersistTable{Table: *table}}, nil
}

// setCustomerCount records how many guests sit at the table.
func setCustomerCount(s *State, tableID uuid.UUID, count int) ([]Effect, error) {
	table := s.tableByID(tableID)
	if table == nil {
		return nil, ErrNotFound
	}
	if count < 0 {
		return nil, validationErr("customer_count", "customer count cannot be negative")
	}

	table.CustomerCount = count
	return []Effect{PersistTable{Table: *table}}, nil
}

// addTable registers a new mesa. Numbers are unique and positive.
func addTable(s *State, number, capacity int) (*Table, []Effect, error) {
	if number <= 0 {
		return nil, nil, validationErr("number", "table number must be positive")
	}
	if capacity <= 0 {
		return nil, nil, validationErr("capacity", "table capacity must be positive")
	}
	if s.tableByNumber(number) != nil {
		return nil, nil, validationErr("number", "table number already exists")
	}

	table := NewTable(number, capacity)
	s.Tables = append(s.Tables, table)
	return table, []Effect{PersistTable{Table: *table}}, nil
}

// deleteTable removes a mesa from the floor plan. Tables with staged items
// are protected.
func deleteTable(s *State, tableID uuid.UUID) ([]Effect, error) {
	for i, table := range s.Tables {
		if table.ID != tableID {
			continue
		}
		if table.HasStagedItems() {
			return nil, validationErr("table", "table has an order in progress")
		}
		s.Tables = append(s.Tables[:i], s.Tables[i+1:]...)
		return []Effect{DeleteTable{ID: tableID}}, nil
	}
	return nil, ErrNotFound
}
