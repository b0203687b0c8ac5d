package pos

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/comandaclub/comanda/internal/enums/itemstatus"
	"github.com/comandaclub/comanda/internal/enums/tablestatus"
)

func TestStageItem(t *testing.T) {
	t.Run("firstItemOccupiesTable", func(t *testing.T) {
		s, table, item := testStateWithTable(3)

		effects, err := stageItem(s, table.ID, NewOrderItem(item, 2, ""), "Carlos", testTime)
		if err != nil {
			t.Fatalf("stageItem() error = %v", err)
		}

		if table.Status != tablestatus.Statuses.Ocupada.Code() {
			t.Errorf("table status = %q, want ocupada", table.Status)
		}
		if table.Total != 37.00 {
			t.Errorf("staging total = %v, want 37.00", table.Total)
		}
		if table.WaiterName != "Carlos" {
			t.Errorf("waiter = %q, want Carlos", table.WaiterName)
		}
		if table.OrderStartTime == nil || !table.OrderStartTime.Equal(testTime) {
			t.Errorf("order start time = %v, want %v", table.OrderStartTime, testTime)
		}
		if !hasEffect[PersistTable](effects) {
			t.Error("stageItem() should persist the table")
		}
	})

	t.Run("startTimeNotOverwritten", func(t *testing.T) {
		s, table, item := testStateWithTable(3)

		if _, err := stageItem(s, table.ID, NewOrderItem(item, 1, ""), "Carlos", testTime); err != nil {
			t.Fatalf("stageItem() error = %v", err)
		}
		later := testTime.Add(5 * time.Minute)
		if _, err := stageItem(s, table.ID, NewOrderItem(item, 1, ""), "Carlos", later); err != nil {
			t.Fatalf("stageItem() error = %v", err)
		}

		if !table.OrderStartTime.Equal(testTime) {
			t.Errorf("order start time = %v, should stay %v", table.OrderStartTime, testTime)
		}
	})

	t.Run("rejectsZeroQuantity", func(t *testing.T) {
		s, table, item := testStateWithTable(3)
		_, err := stageItem(s, table.ID, NewOrderItem(item, 0, ""), "Carlos", testTime)
		if !IsValidation(err) {
			t.Errorf("stageItem() error = %v, want validation error", err)
		}
	})

	t.Run("unknownTable", func(t *testing.T) {
		s, _, item := testStateWithTable(3)
		_, err := stageItem(s, uuid.New(), NewOrderItem(item, 1, ""), "Carlos", testTime)
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("stageItem() error = %v, want ErrNotFound", err)
		}
	})
}

func TestRemoveStagedItem(t *testing.T) {
	t.Run("emptyStagingFreesTable", func(t *testing.T) {
		s, table, item := testStateWithTable(3)
		if _, err := stageItem(s, table.ID, NewOrderItem(item, 2, ""), "Carlos", testTime); err != nil {
			t.Fatalf("stageItem() error = %v", err)
		}

		if _, err := removeStagedItem(s, table.ID, item.ID); err != nil {
			t.Fatalf("removeStagedItem() error = %v", err)
		}

		if table.Status != tablestatus.Statuses.Libre.Code() {
			t.Errorf("table status = %q, want libre", table.Status)
		}
		if table.Total != 0 {
			t.Errorf("staging total = %v, want 0", table.Total)
		}
	})

	t.Run("keepsOtherItems", func(t *testing.T) {
		s, table, item := testStateWithTable(3)
		other := testMenuItem("Wantán Frito", 8.00)
		s.MenuItems = append(s.MenuItems, other)

		if _, err := stageItem(s, table.ID, NewOrderItem(item, 1, ""), "Carlos", testTime); err != nil {
			t.Fatal(err)
		}
		if _, err := stageItem(s, table.ID, NewOrderItem(other, 1, ""), "Carlos", testTime); err != nil {
			t.Fatal(err)
		}

		if _, err := removeStagedItem(s, table.ID, item.ID); err != nil {
			t.Fatalf("removeStagedItem() error = %v", err)
		}

		if len(table.CurrentOrder) != 1 || table.CurrentOrder[0].MenuItemID != other.ID {
			t.Errorf("staging = %+v, want only the second item", table.CurrentOrder)
		}
		if table.Status != tablestatus.Statuses.Ocupada.Code() {
			t.Errorf("table status = %q, want ocupada", table.Status)
		}
	})
}

func TestSetStagedQuantity(t *testing.T) {
	t.Run("updatesQuantityAndTotal", func(t *testing.T) {
		s, table, item := testStateWithTable(3)
		if _, err := stageItem(s, table.ID, NewOrderItem(item, 1, ""), "Carlos", testTime); err != nil {
			t.Fatal(err)
		}

		if _, err := setStagedQuantity(s, table.ID, item.ID, 4); err != nil {
			t.Fatalf("setStagedQuantity() error = %v", err)
		}
		if table.CurrentOrder[0].Quantity != 4 {
			t.Errorf("quantity = %d, want 4", table.CurrentOrder[0].Quantity)
		}
		if table.Total != 74.00 {
			t.Errorf("staging total = %v, want 74.00", table.Total)
		}
	})

	t.Run("zeroRemovesItem", func(t *testing.T) {
		s, table, item := testStateWithTable(3)
		if _, err := stageItem(s, table.ID, NewOrderItem(item, 2, ""), "Carlos", testTime); err != nil {
			t.Fatal(err)
		}

		if _, err := setStagedQuantity(s, table.ID, item.ID, 0); err != nil {
			t.Fatalf("setStagedQuantity() error = %v", err)
		}
		if table.HasStagedItems() {
			t.Error("item should be removed at quantity zero")
		}
		if table.Status != tablestatus.Statuses.Libre.Code() {
			t.Errorf("table status = %q, want libre", table.Status)
		}
	})

	t.Run("rejectsNegativeQuantity", func(t *testing.T) {
		s, table, item := testStateWithTable(3)
		if _, err := stageItem(s, table.ID, NewOrderItem(item, 2, ""), "Carlos", testTime); err != nil {
			t.Fatal(err)
		}
		if _, err := setStagedQuantity(s, table.ID, item.ID, -1); !IsValidation(err) {
			t.Errorf("setStagedQuantity() error = %v, want validation error", err)
		}
	})
}

func TestMarkServed(t *testing.T) {
	t.Run("requiresAllItemsReady", func(t *testing.T) {
		s, table, item := testStateWithTable(3)
		order := submitTestOrder(s, table, item, 1)

		if _, err := markServed(s, table.ID); !errors.Is(err, ErrNotReady) {
			t.Errorf("markServed() with pending items: error = %v, want ErrNotReady", err)
		}

		id := order.Items[0].MenuItemID
		if _, err := advanceItemStatus(s, order.ID, id, itemstatus.Statuses.Preparando.Code(), testTime); err != nil {
			t.Fatal(err)
		}
		if _, err := advanceItemStatus(s, order.ID, id, itemstatus.Statuses.Listo.Code(), testTime); err != nil {
			t.Fatal(err)
		}

		if _, err := markServed(s, table.ID); err != nil {
			t.Fatalf("markServed() error = %v", err)
		}
		if table.Status != tablestatus.Statuses.Servido.Code() {
			t.Errorf("table status = %q, want servido", table.Status)
		}
	})

	t.Run("requiresOccupiedTable", func(t *testing.T) {
		s, table, _ := testStateWithTable(3)
		if _, err := markServed(s, table.ID); !errors.Is(err, ErrInvalidState) {
			t.Errorf("markServed() on libre table: error = %v, want ErrInvalidState", err)
		}
	})

	t.Run("requiresOpenOrder", func(t *testing.T) {
		s, table, _ := testStateWithTable(3)
		table.Status = tablestatus.Statuses.Ocupada.Code()
		if _, err := markServed(s, table.ID); !errors.Is(err, ErrNotReady) {
			t.Errorf("markServed() without order: error = %v, want ErrNotReady", err)
		}
	})
}

func TestRequestBill(t *testing.T) {
	tests := []struct {
		name    string
		status  string
		wantErr error
	}{
		{name: "fromServido", status: tablestatus.Statuses.Servido.Code(), wantErr: nil},
		{name: "fromLibre", status: tablestatus.Statuses.Libre.Code(), wantErr: ErrInvalidState},
		{name: "fromOcupada", status: tablestatus.Statuses.Ocupada.Code(), wantErr: ErrInvalidState},
		{name: "fromCuenta", status: tablestatus.Statuses.Cuenta.Code(), wantErr: ErrInvalidState},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, table, _ := testStateWithTable(3)
			table.Status = tt.status

			_, err := requestBill(s, table.ID)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("requestBill() error = %v", err)
				}
				if table.Status != tablestatus.Statuses.Cuenta.Code() {
					t.Errorf("table status = %q, want cuenta", table.Status)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("requestBill() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCleanTable(t *testing.T) {
	t.Run("fromLimpieza", func(t *testing.T) {
		s, table, _ := testStateWithTable(3)
		table.Status = tablestatus.Statuses.Limpieza.Code()

		if _, err := cleanTable(s, table.ID); err != nil {
			t.Fatalf("cleanTable() error = %v", err)
		}
		if table.Status != tablestatus.Statuses.Libre.Code() {
			t.Errorf("table status = %q, want libre", table.Status)
		}
	})

	t.Run("rejectedOtherwise", func(t *testing.T) {
		s, table, _ := testStateWithTable(3)
		if _, err := cleanTable(s, table.ID); !errors.Is(err, ErrInvalidState) {
			t.Errorf("cleanTable() on libre table: error = %v, want ErrInvalidState", err)
		}
	})
}

func TestAddTable(t *testing.T) {
	tests := []struct {
		name     string
		number   int
		capacity int
		wantErr  bool
	}{
		{name: "valid", number: 7, capacity: 4, wantErr: false},
		{name: "zeroNumber", number: 0, capacity: 4, wantErr: true},
		{name: "negativeNumber", number: -1, capacity: 4, wantErr: true},
		{name: "zeroCapacity", number: 7, capacity: 0, wantErr: true},
		{name: "duplicateNumber", number: 3, capacity: 4, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _, _ := testStateWithTable(3)

			table, _, err := addTable(s, tt.number, tt.capacity)
			if tt.wantErr {
				if !IsValidation(err) {
					t.Errorf("addTable() error = %v, want validation error", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("addTable() error = %v", err)
			}
			if table.Status != tablestatus.Statuses.Libre.Code() {
				t.Errorf("new table status = %q, want libre", table.Status)
			}
		})
	}
}

func TestDeleteTable(t *testing.T) {
	t.Run("protectedWhileStaging", func(t *testing.T) {
		s, table, item := testStateWithTable(3)
		if _, err := stageItem(s, table.ID, NewOrderItem(item, 1, ""), "Carlos", testTime); err != nil {
			t.Fatal(err)
		}
		if _, err := deleteTable(s, table.ID); !IsValidation(err) {
			t.Errorf("deleteTable() error = %v, want validation error", err)
		}
	})

	t.Run("removesIdleTable", func(t *testing.T) {
		s, table, _ := testStateWithTable(3)
		effects, err := deleteTable(s, table.ID)
		if err != nil {
			t.Fatalf("deleteTable() error = %v", err)
		}
		if len(s.Tables) != 0 {
			t.Errorf("tables left = %d, want 0", len(s.Tables))
		}
		if !hasEffect[DeleteTable](effects) {
			t.Error("deleteTable() should emit a delete effect")
		}
	})
}
