package pos

import (
	"context"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/google/uuid"
)

// StoreOptions toggles the guards the original flow left implicit. Defaults
// mirror the observed behavior; strict mode makes the intended business
// rules explicit.
type StoreOptions struct {
	// StrictRegister rejects opening a second register and rejects discounts
	// that would close an order at a negative total.
	StrictRegister bool
	// AutoClean returns a table to libre immediately after payment instead
	// of leaving it in limpieza for an explicit cleaning step.
	AutoClean bool
}

type command struct {
	apply func(s *State) ([]Effect, error)
	reply chan error
}

// Store owns the in-memory projection for one device. Every mutation,
// operator actions and sync merges alike, flows through a single mutation
// queue consumed by one goroutine, so transition logic never races. Effects
// are executed off the loop, in order, so repository latency never blocks
// the operator.
type Store struct {
	opts    StoreOptions
	exec    *Executor
	logger  apt.Logger
	now     func() time.Time
	ops     chan command
	effects chan []Effect
	state   *State
}

func NewStore(exec *Executor, opts StoreOptions, logger apt.Logger) *Store {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &Store{
		opts:    opts,
		exec:    exec,
		logger:  logger,
		now:     time.Now,
		ops:     make(chan command),
		effects: make(chan []Effect, 256),
		state:   newState(),
	}
}

// Start launches the mutation loop and the effect executor.
func (st *Store) Start(ctx context.Context) error {
	go st.run(ctx)
	go st.drainEffects(ctx)
	st.logger.Info("store started", "strict_register", st.opts.StrictRegister, "auto_clean", st.opts.AutoClean)
	return nil
}

func (st *Store) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case cmd := <-st.ops:
			effects, err := cmd.apply(st.state)
			if err == nil && len(effects) > 0 {
				select {
				case st.effects <- effects:
				case <-ctx.Done():
					cmd.reply <- err
					return
				}
			}
			cmd.reply <- err
		}
	}
}

func (st *Store) drainEffects(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case batch := <-st.effects:
			if st.exec != nil {
				st.exec.Exec(batch)
			}
		}
	}
}

func (st *Store) dispatch(ctx context.Context, apply func(s *State) ([]Effect, error)) error {
	cmd := command{apply: apply, reply: make(chan error, 1)}
	select {
	case st.ops <- cmd:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-cmd.reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Snapshot reads. All go through the queue so they observe a consistent
// state, and all hand out copies.

func (st *Store) Tables(ctx context.Context) ([]*Table, error) {
	var out []*Table
	err := st.dispatch(ctx, func(s *State) ([]Effect, error) {
		out = make([]*Table, 0, len(s.Tables))
		for _, t := range s.Tables {
			out = append(out, cloneTable(t))
		}
		return nil, nil
	})
	return out, err
}

func (st *Store) Orders(ctx context.Context) ([]*Order, error) {
	var out []*Order
	err := st.dispatch(ctx, func(s *State) ([]Effect, error) {
		out = make([]*Order, 0, len(s.Orders))
		for _, o := range s.Orders {
			out = append(out, cloneOrder(o))
		}
		return nil, nil
	})
	return out, err
}

func (st *Store) MenuItems(ctx context.Context) ([]*MenuItem, error) {
	var out []*MenuItem
	err := st.dispatch(ctx, func(s *State) ([]Effect, error) {
		out = make([]*MenuItem, 0, len(s.MenuItems))
		for _, m := range s.MenuItems {
			c := *m
			out = append(out, &c)
		}
		return nil, nil
	})
	return out, err
}

func (st *Store) Categories(ctx context.Context) ([]*Category, error) {
	var out []*Category
	err := st.dispatch(ctx, func(s *State) ([]Effect, error) {
		out = make([]*Category, 0, len(s.Categories))
		for _, c := range s.Categories {
			cc := *c
			out = append(out, &cc)
		}
		return nil, nil
	})
	return out, err
}

func (st *Store) Register(ctx context.Context) (*CashRegister, error) {
	var out *CashRegister
	err := st.dispatch(ctx, func(s *State) ([]Effect, error) {
		out = cloneRegister(s.Register)
		return nil, nil
	})
	return out, err
}

func (st *Store) DailySales(ctx context.Context) (float64, error) {
	var out float64
	err := st.dispatch(ctx, func(s *State) ([]Effect, error) {
		out = s.DailySales
		return nil, nil
	})
	return out, err
}

// Waiter operations.

func (st *Store) StageItem(ctx context.Context, tableID, menuItemID uuid.UUID, quantity int, notes, waiterName string) error {
	return st.dispatch(ctx, func(s *State) ([]Effect, error) {
		menuItem := s.menuItemByID(menuItemID)
		if menuItem == nil {
			return nil, ErrNotFound
		}
		if !menuItem.Available {
			return nil, validationErr("menu_item", "item is not available")
		}
		item := NewOrderItem(menuItem, quantity, notes)
		return stageItem(s, tableID, item, waiterName, st.now())
	})
}

func (st *Store) RemoveStagedItem(ctx context.Context, tableID, menuItemID uuid.UUID) error {
	return st.dispatch(ctx, func(s *State) ([]Effect, error) {
		return removeStagedItem(s, tableID, menuItemID)
	})
}

func (st *Store) SetStagedQuantity(ctx context.Context, tableID, menuItemID uuid.UUID, quantity int) error {
	return st.dispatch(ctx, func(s *State) ([]Effect, error) {
		return setStagedQuantity(s, tableID, menuItemID, quantity)
	})
}

func (st *Store) SetCustomerCount(ctx context.Context, tableID uuid.UUID, count int) error {
	return st.dispatch(ctx, func(s *State) ([]Effect, error) {
		return setCustomerCount(s, tableID, count)
	})
}

// SubmitOrder turns a table's staging list into an immutable open order and
// sends the kitchen ticket. The table stays ocupada with empty staging.
func (st *Store) SubmitOrder(ctx context.Context, tableID uuid.UUID, waiterID, waiterName string) (*Order, error) {
	var out *Order
	err := st.dispatch(ctx, func(s *State) ([]Effect, error) {
		table := s.tableByID(tableID)
		if table == nil {
			return nil, ErrNotFound
		}
		order, effects, err := createOrder(s, table.Number, table.CurrentOrder, waiterID, waiterName, table.CustomerCount, st.now())
		if err != nil {
			return nil, err
		}
		out = cloneOrder(order)
		return effects, nil
	})
	return out, err
}

// TakeawayLine is one requested item of a para-llevar order.
type TakeawayLine struct {
	MenuItemID uuid.UUID
	Quantity   int
	Notes      string
}

func (st *Store) CreateTakeawayOrder(ctx context.Context, lines []TakeawayLine, waiterID, waiterName string) (*Order, error) {
	var out *Order
	err := st.dispatch(ctx, func(s *State) ([]Effect, error) {
		items := make([]OrderItem, 0, len(lines))
		for _, line := range lines {
			menuItem := s.menuItemByID(line.MenuItemID)
			if menuItem == nil {
				return nil, ErrNotFound
			}
			items = append(items, NewOrderItem(menuItem, line.Quantity, line.Notes))
		}
		order, effects, err := createOrder(s, TakeawayTable, items, waiterID, waiterName, 0, st.now())
		if err != nil {
			return nil, err
		}
		out = cloneOrder(order)
		return effects, nil
	})
	return out, err
}

func (st *Store) MarkServed(ctx context.Context, tableID uuid.UUID) error {
	return st.dispatch(ctx, func(s *State) ([]Effect, error) {
		return markServed(s, tableID)
	})
}

func (st *Store) RequestBill(ctx context.Context, tableID uuid.UUID) error {
	return st.dispatch(ctx, func(s *State) ([]Effect, error) {
		return requestBill(s, tableID)
	})
}

func (st *Store) CleanTable(ctx context.Context, tableID uuid.UUID) error {
	return st.dispatch(ctx, func(s *State) ([]Effect, error) {
		return cleanTable(s, tableID)
	})
}

// Kitchen operations.

func (st *Store) AdvanceItemStatus(ctx context.Context, orderID, menuItemID uuid.UUID, next string) error {
	return st.dispatch(ctx, func(s *State) ([]Effect, error) {
		return advanceItemStatus(s, orderID, menuItemID, next, st.now())
	})
}

// Cashier operations.

func (st *Store) CloseOrder(ctx context.Context, orderID uuid.UUID, method string, discount, tip float64) (*Order, error) {
	var out *Order
	err := st.dispatch(ctx, func(s *State) ([]Effect, error) {
		order, effects, err := closeOrder(s, orderID, method, discount, tip, st.opts.StrictRegister, st.now())
		if err != nil {
			return nil, err
		}
		if st.opts.AutoClean && order.TableNumber != TakeawayTable {
			if table := s.tableByNumber(order.TableNumber); table != nil {
				cleanEffects, cleanErr := cleanTable(s, table.ID)
				if cleanErr == nil {
					effects = append(effects, cleanEffects...)
				}
			}
		}
		out = cloneOrder(order)
		return effects, nil
	})
	return out, err
}

func (st *Store) OpenRegister(ctx context.Context, initialAmount float64, openedBy string) (*CashRegister, error) {
	var out *CashRegister
	err := st.dispatch(ctx, func(s *State) ([]Effect, error) {
		register, effects, err := openRegister(s, initialAmount, openedBy, st.opts.StrictRegister, st.now())
		if err != nil {
			return nil, err
		}
		out = cloneRegister(register)
		return effects, nil
	})
	return out, err
}

func (st *Store) RecordSale(ctx context.Context, amount float64) error {
	return st.dispatch(ctx, func(s *State) ([]Effect, error) {
		return recordSale(s, amount)
	})
}

func (st *Store) CloseRegister(ctx context.Context, countedAmount float64) (float64, error) {
	var difference float64
	err := st.dispatch(ctx, func(s *State) ([]Effect, error) {
		diff, effects, err := closeRegister(s, countedAmount, st.now())
		if err != nil {
			return nil, err
		}
		difference = diff
		return effects, nil
	})
	return difference, err
}

// Admin operations.

func (st *Store) AddMenuItem(ctx context.Context, item *MenuItem) (*MenuItem, error) {
	var out *MenuItem
	err := st.dispatch(ctx, func(s *State) ([]Effect, error) {
		created, effects, err := addMenuItem(s, item)
		if err != nil {
			return nil, err
		}
		c := *created
		out = &c
		return effects, nil
	})
	return out, err
}

func (st *Store) UpdateMenuItem(ctx context.Context, item *MenuItem) error {
	return st.dispatch(ctx, func(s *State) ([]Effect, error) {
		return updateMenuItem(s, item)
	})
}

func (st *Store) ToggleAvailability(ctx context.Context, id uuid.UUID) error {
	return st.dispatch(ctx, func(s *State) ([]Effect, error) {
		return toggleAvailability(s, id)
	})
}

func (st *Store) DeleteMenuItem(ctx context.Context, id uuid.UUID) error {
	return st.dispatch(ctx, func(s *State) ([]Effect, error) {
		return deleteMenuItem(s, id)
	})
}

func (st *Store) AddCategory(ctx context.Context, name string) (*Category, error) {
	var out *Category
	err := st.dispatch(ctx, func(s *State) ([]Effect, error) {
		created, effects, err := addCategory(s, name)
		if err != nil {
			return nil, err
		}
		c := *created
		out = &c
		return effects, nil
	})
	return out, err
}

func (st *Store) AddTable(ctx context.Context, number, capacity int) (*Table, error) {
	var out *Table
	err := st.dispatch(ctx, func(s *State) ([]Effect, error) {
		table, effects, err := addTable(s, number, capacity)
		if err != nil {
			return nil, err
		}
		out = cloneTable(table)
		return effects, nil
	})
	return out, err
}

func (st *Store) DeleteTable(ctx context.Context, id uuid.UUID) error {
	return st.dispatch(ctx, func(s *State) ([]Effect, error) {
		return deleteTable(s, id)
	})
}

// ApplySync merges a remote snapshot pulled by the syncer. The merge itself
// produces no effects; it only reshapes the local projection.
func (st *Store) ApplySync(ctx context.Context, snap RemoteSnapshot) error {
	return st.dispatch(ctx, func(s *State) ([]Effect, error) {
		mergeSnapshot(s, snap)
		return nil, nil
	})
}
