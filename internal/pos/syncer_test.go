package pos

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/appetiteclub/apt"

	"github.com/comandaclub/comanda/internal/enums/tablestatus"
)

func TestMergeSnapshot(t *testing.T) {
	libre := tablestatus.Statuses.Libre.Code()
	ocupada := tablestatus.Statuses.Ocupada.Code()

	t.Run("stagedTableWinsOverRemote", func(t *testing.T) {
		s, table, item := testStateWithTable(3)
		if _, err := stageItem(s, table.ID, NewOrderItem(item, 2, ""), "Carlos", testTime); err != nil {
			t.Fatal(err)
		}

		remote := &Table{ID: table.ID, Number: 3, Capacity: 4, Status: libre}
		mergeSnapshot(s, RemoteSnapshot{Tables: []*Table{remote}})

		merged := s.tableByNumber(3)
		if merged.Status != ocupada {
			t.Errorf("staged table status = %q, want ocupada", merged.Status)
		}
		if !merged.HasStagedItems() {
			t.Error("staging list must survive the merge")
		}
	})

	t.Run("idleTableRefreshedFromRemote", func(t *testing.T) {
		s, table, _ := testStateWithTable(3)

		remote := &Table{ID: table.ID, Number: 3, Capacity: 6, Status: ocupada}
		mergeSnapshot(s, RemoteSnapshot{Tables: []*Table{remote}})

		merged := s.tableByNumber(3)
		if merged.Status != ocupada {
			t.Errorf("idle table status = %q, want ocupada", merged.Status)
		}
		if merged.Capacity != 6 {
			t.Errorf("idle table capacity = %d, want 6", merged.Capacity)
		}
		if merged.ID != table.ID {
			t.Error("local table identity should be kept")
		}
	})

	t.Run("remoteOnlyTableAppended", func(t *testing.T) {
		s, table, _ := testStateWithTable(3)

		remote3 := &Table{ID: table.ID, Number: 3, Capacity: 4, Status: libre}
		remote9 := NewTable(9, 2)
		mergeSnapshot(s, RemoteSnapshot{Tables: []*Table{remote3, remote9}})

		if len(s.Tables) != 2 {
			t.Fatalf("tables = %d, want 2", len(s.Tables))
		}
		appended := s.tableByNumber(9)
		if appended == nil {
			t.Fatal("remote-only table should be appended")
		}
		if appended.HasStagedItems() {
			t.Error("appended table must start with empty staging")
		}
	})

	t.Run("localOnlyIdleTableDropped", func(t *testing.T) {
		s, _, _ := testStateWithTable(3)

		mergeSnapshot(s, RemoteSnapshot{Tables: nil})

		if len(s.Tables) != 0 {
			t.Errorf("tables = %d, want 0 after remote deletion", len(s.Tables))
		}
	})

	t.Run("localOnlyStagedTableKept", func(t *testing.T) {
		s, table, item := testStateWithTable(3)
		if _, err := stageItem(s, table.ID, NewOrderItem(item, 1, ""), "Carlos", testTime); err != nil {
			t.Fatal(err)
		}

		mergeSnapshot(s, RemoteSnapshot{Tables: nil})

		if s.tableByNumber(3) == nil {
			t.Error("table with staged items must survive remote deletion")
		}
	})

	t.Run("ordersFullyReplaced", func(t *testing.T) {
		s, table, item := testStateWithTable(3)
		submitTestOrder(s, table, item, 1)

		remoteOrder := &Order{ID: apt.GenerateNewID(), TableNumber: 5, Status: OrderOpen, Timestamp: testTime}
		mergeSnapshot(s, RemoteSnapshot{Orders: []*Order{remoteOrder}})

		if len(s.Orders) != 1 || s.Orders[0].ID != remoteOrder.ID {
			t.Errorf("orders should be replaced by the remote list, got %d", len(s.Orders))
		}
	})

	t.Run("registerReplacedWhenRemoteOpen", func(t *testing.T) {
		s := testState()
		remote := &CashRegister{ID: apt.GenerateNewID(), IsOpen: true, InitialAmount: 50, CurrentAmount: 80, TotalSales: 30, OpenedAt: testTime}

		mergeSnapshot(s, RemoteSnapshot{Register: remote, DailySales: 30})

		if s.Register == nil || s.Register.ID != remote.ID {
			t.Fatal("open remote register should replace the projection")
		}
		if s.DailySales != 30 {
			t.Errorf("daily sales = %v, want 30", s.DailySales)
		}
	})

	t.Run("registerResetWhenRemoteClosed", func(t *testing.T) {
		s := testState()
		openTestRegister(s, 100)

		mergeSnapshot(s, RemoteSnapshot{Register: nil})

		if s.Register == nil || s.Register.IsOpen {
			t.Error("projection should reset to a closed register")
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		s, table, item := testStateWithTable(3)
		if _, err := stageItem(s, table.ID, NewOrderItem(item, 1, ""), "Carlos", testTime); err != nil {
			t.Fatal(err)
		}

		snap := RemoteSnapshot{
			Tables: []*Table{
				{ID: table.ID, Number: 3, Capacity: 4, Status: libre},
				NewTable(8, 2),
			},
			Orders:     []*Order{{ID: apt.GenerateNewID(), TableNumber: 8, Status: OrderOpen, Timestamp: testTime}},
			Register:   &CashRegister{ID: apt.GenerateNewID(), IsOpen: true, OpenedAt: testTime},
			DailySales: 12.5,
		}

		mergeSnapshot(s, snap)
		first := snapshotOf(s)
		mergeSnapshot(s, snap)
		second := snapshotOf(s)

		if !reflect.DeepEqual(first, second) {
			t.Errorf("merge is not idempotent:\nfirst  = %+v\nsecond = %+v", first, second)
		}
	})
}

// snapshotOf captures the comparable parts of the projection.
func snapshotOf(s *State) RemoteSnapshot {
	tables := make([]*Table, 0, len(s.Tables))
	for _, t := range s.Tables {
		tables = append(tables, cloneTable(t))
	}
	orders := make([]*Order, 0, len(s.Orders))
	for _, o := range s.Orders {
		orders = append(orders, cloneOrder(o))
	}
	return RemoteSnapshot{
		Tables:     tables,
		Orders:     orders,
		Register:   cloneRegister(s.Register),
		DailySales: s.DailySales,
	}
}

func TestSyncerDailySales(t *testing.T) {
	sy := NewSyncer(Repos{}, nil, 0, nil)
	sy.now = func() time.Time { return testTime }

	yesterday := testTime.Add(-24 * time.Hour)
	orders := []*Order{
		{Status: OrderClosed, Total: 20, Timestamp: testTime},
		{Status: OrderClosed, Total: 15, Timestamp: testTime},
		{Status: OrderOpen, Total: 99, Timestamp: testTime},
		{Status: OrderClosed, Total: 40, Timestamp: yesterday},
	}

	if got := sy.dailySales(orders); got != 35 {
		t.Errorf("dailySales() = %v, want 35", got)
	}
}

func TestSyncOnce(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repos, tables, orders, _, registers := newMockRepos()

	remoteTable := NewTable(4, 2)
	if err := tables.Save(ctx, remoteTable); err != nil {
		t.Fatal(err)
	}
	remoteOrder := &Order{ID: apt.GenerateNewID(), TableNumber: 4, Status: OrderClosed, Total: 25, Timestamp: testTime}
	if err := orders.Save(ctx, remoteOrder); err != nil {
		t.Fatal(err)
	}
	remoteRegister := &CashRegister{ID: apt.GenerateNewID(), IsOpen: true, InitialAmount: 100, CurrentAmount: 125, TotalSales: 25, OpenedAt: testTime}
	if err := registers.Create(ctx, remoteRegister); err != nil {
		t.Fatal(err)
	}

	store := NewStore(NewExecutor(repos, nil, nil), StoreOptions{}, nil)
	if err := store.Start(ctx); err != nil {
		t.Fatal(err)
	}

	sy := NewSyncer(repos, store, time.Hour, nil)
	sy.now = func() time.Time { return testTime }

	if err := sy.SyncOnce(ctx); err != nil {
		t.Fatalf("SyncOnce() error = %v", err)
	}

	gotTables, err := store.Tables(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(gotTables) != 1 || gotTables[0].Number != 4 {
		t.Errorf("tables after sync = %+v, want table 4", gotTables)
	}

	register, err := store.Register(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if register == nil || register.ID != remoteRegister.ID {
		t.Error("register projection should match the remote open register")
	}

	sales, err := store.DailySales(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if sales != 25 {
		t.Errorf("daily sales = %v, want 25", sales)
	}
}
