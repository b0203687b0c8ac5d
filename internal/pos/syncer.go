package pos

import (
	"context"
	"fmt"
	"time"

	"github.com/appetiteclub/apt"
)

// DefaultSyncInterval matches the poll cadence observed across devices.
const DefaultSyncInterval = 5 * time.Second

// RemoteSnapshot is one full pull from the repository port.
type RemoteSnapshot struct {
	Tables     []*Table
	Orders     []*Order
	Register   *CashRegister
	DailySales float64
}

// mergeSnapshot reconciles remote state into the local projection without
// discarding uncommitted local edits ("selective sync").
//
// Orders: full replace. The remote list is authoritative for submitted
// orders, which are append-mostly and persisted on every mutation.
//
// Tables: selective merge keyed by number. A table with staged items is
// local-wins and untouchable; an idle table takes status and capacity from
// the remote record; remote-only numbers are appended; local-only numbers
// are dropped unless staging is in progress. An in-progress order is never
// silently deleted by a stale poll.
//
// Register: full replace when a remote open register exists, otherwise the
// local projection resets to a closed zeroed shift.
//
// Re-running the merge with an unchanged snapshot is a no-op.
func mergeSnapshot(s *State, snap RemoteSnapshot) {
	orders := make([]*Order, 0, len(snap.Orders))
	for _, o := range snap.Orders {
		orders = append(orders, cloneOrder(o))
	}
	s.Orders = orders

	remoteByNumber := make(map[int]*Table, len(snap.Tables))
	for _, t := range snap.Tables {
		remoteByNumber[t.Number] = t
	}

	merged := make([]*Table, 0, len(s.Tables))
	seen := make(map[int]bool, len(s.Tables))
	for _, local := range s.Tables {
		remote, exists := remoteByNumber[local.Number]
		if local.HasStagedItems() {
			merged = append(merged, local)
			seen[local.Number] = true
			continue
		}
		if !exists {
			continue
		}
		local.Status = remote.Status
		local.Capacity = remote.Capacity
		merged = append(merged, local)
		seen[local.Number] = true
	}
	for _, remote := range snap.Tables {
		if seen[remote.Number] {
			continue
		}
		merged = append(merged, &Table{
			ID:       remote.ID,
			Number:   remote.Number,
			Capacity: remote.Capacity,
			Status:   remote.Status,
		})
	}
	s.Tables = merged

	if snap.Register != nil && snap.Register.IsOpen {
		s.Register = cloneRegister(snap.Register)
	} else {
		s.Register = &CashRegister{IsOpen: false}
	}

	s.DailySales = snap.DailySales
}

// Syncer periodically pulls full snapshots through the repository port and
// submits them to the store as merge commands. It runs once at startup and
// then on a fixed interval; a failed pull is logged and retried on the next
// tick, never fatal.
type Syncer struct {
	repos    Repos
	store    *Store
	interval time.Duration
	logger   apt.Logger
	now      func() time.Time
}

func NewSyncer(repos Repos, store *Store, interval time.Duration, logger apt.Logger) *Syncer {
	if interval <= 0 {
		interval = DefaultSyncInterval
	}
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &Syncer{
		repos:    repos,
		store:    store,
		interval: interval,
		logger:   logger,
		now:      time.Now,
	}
}

// Start performs the initial pull and launches the polling loop.
func (sy *Syncer) Start(ctx context.Context) error {
	if err := sy.SyncOnce(ctx); err != nil {
		sy.logger.Info("initial sync failed, will retry", "error", err)
	}
	go sy.loop(ctx)
	sy.logger.Info("syncer started", "interval", sy.interval.String())
	return nil
}

func (sy *Syncer) loop(ctx context.Context) {
	ticker := time.NewTicker(sy.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := sy.SyncOnce(ctx); err != nil {
				sy.logger.Info("sync cycle failed", "error", err)
			}
		}
	}
}

// SyncOnce pulls one snapshot and merges it.
func (sy *Syncer) SyncOnce(ctx context.Context) error {
	snap, err := sy.pull(ctx)
	if err != nil {
		return err
	}
	return sy.store.ApplySync(ctx, snap)
}

func (sy *Syncer) pull(ctx context.Context) (RemoteSnapshot, error) {
	tables, err := sy.repos.Tables.List(ctx)
	if err != nil {
		return RemoteSnapshot{}, fmt.Errorf("cannot pull tables: %w", err)
	}
	orders, err := sy.repos.Orders.List(ctx)
	if err != nil {
		return RemoteSnapshot{}, fmt.Errorf("cannot pull orders: %w", err)
	}
	register, err := sy.repos.Register.GetCurrentOpen(ctx)
	if err != nil {
		return RemoteSnapshot{}, fmt.Errorf("cannot pull cash register: %w", err)
	}

	return RemoteSnapshot{
		Tables:     tables,
		Orders:     orders,
		Register:   register,
		DailySales: sy.dailySales(orders),
	}, nil
}

// dailySales sums the closed orders of the current day. The aggregate is
// derived on pull so every device converges on the same figure.
func (sy *Syncer) dailySales(orders []*Order) float64 {
	today := sy.now().Format("2006-01-02")
	total := 0.0
	for _, o := range orders {
		if o.Status == OrderClosed && o.Timestamp.Format("2006-01-02") == today {
			total += o.Total
		}
	}
	return total
}

// WarmMenu loads the catalog once at startup. Menu data is admin-managed and
// changes rarely; edits on this device update it through the store directly.
func (sy *Syncer) WarmMenu(ctx context.Context) error {
	items, err := sy.repos.Menu.ListItems(ctx)
	if err != nil {
		return fmt.Errorf("cannot load menu items: %w", err)
	}
	categories, err := sy.repos.Menu.ListCategories(ctx)
	if err != nil {
		return fmt.Errorf("cannot load categories: %w", err)
	}
	return sy.store.dispatch(ctx, func(s *State) ([]Effect, error) {
		s.MenuItems = items
		s.Categories = categories
		return nil, nil
	})
}
