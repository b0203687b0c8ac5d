package pos

import "github.com/google/uuid"

// State is the in-memory projection one POS device works against. It is
// owned by a single Store and only ever mutated from the store loop; every
// accessor on Store hands out copies.
type State struct {
	MenuItems  []*MenuItem
	Categories []*Category
	Tables     []*Table
	Orders     []*Order
	Register   *CashRegister
	DailySales float64
}

func newState() *State {
	return &State{}
}

func (s *State) tableByID(id uuid.UUID) *Table {
	for _, t := range s.Tables {
		if t.ID == id {
			return t
		}
	}
	return nil
}

func (s *State) tableByNumber(number int) *Table {
	for _, t := range s.Tables {
		if t.Number == number {
			return t
		}
	}
	return nil
}

func (s *State) orderByID(id uuid.UUID) *Order {
	for _, o := range s.Orders {
		if o.ID == id {
			return o
		}
	}
	return nil
}

// openOrderByTable finds the open order for a mesa. At most one open order
// per table exists in normal operation; the first match wins.
func (s *State) openOrderByTable(number int) *Order {
	for _, o := range s.Orders {
		if o.TableNumber == number && o.Status == OrderOpen {
			return o
		}
	}
	return nil
}

func (s *State) menuItemByID(id uuid.UUID) *MenuItem {
	for _, m := range s.MenuItems {
		if m.ID == id {
			return m
		}
	}
	return nil
}

func (s *State) hasCategory(name string) bool {
	for _, c := range s.Categories {
		if c.Name == name {
			return true
		}
	}
	return false
}

func cloneTable(t *Table) *Table {
	c := *t
	if t.CurrentOrder != nil {
		c.CurrentOrder = make([]OrderItem, len(t.CurrentOrder))
		copy(c.CurrentOrder, t.CurrentOrder)
	}
	if t.OrderStartTime != nil {
		ts := *t.OrderStartTime
		c.OrderStartTime = &ts
	}
	return &c
}

func cloneOrder(o *Order) *Order {
	c := *o
	if o.Items != nil {
		c.Items = make([]OrderItem, len(o.Items))
		copy(c.Items, o.Items)
	}
	return &c
}

func cloneRegister(r *CashRegister) *CashRegister {
	if r == nil {
		return nil
	}
	c := *r
	return &c
}
