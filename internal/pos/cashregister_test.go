package pos

import (
	"errors"
	"testing"
)

func TestOpenRegister(t *testing.T) {
	t.Run("startsShiftAtInitialAmount", func(t *testing.T) {
		s := testState()

		register, effects, err := openRegister(s, 150.00, "cajero", false, testTime)
		if err != nil {
			t.Fatalf("openRegister() error = %v", err)
		}

		if !register.IsOpen {
			t.Error("register should be open")
		}
		if register.CurrentAmount != 150.00 {
			t.Errorf("current amount = %v, want 150.00", register.CurrentAmount)
		}
		if register.TotalSales != 0 {
			t.Errorf("total sales = %v, want 0", register.TotalSales)
		}
		if register.OpenedBy != "cajero" {
			t.Errorf("opened by = %q, want cajero", register.OpenedBy)
		}
		if !hasEffect[CreateRegister](effects) {
			t.Error("openRegister() should create the register record")
		}
	})

	t.Run("rejectsNegativeInitialAmount", func(t *testing.T) {
		s := testState()
		_, _, err := openRegister(s, -1, "cajero", false, testTime)
		if !IsValidation(err) {
			t.Errorf("openRegister() error = %v, want validation error", err)
		}
	})

	t.Run("replacesOpenRegisterByDefault", func(t *testing.T) {
		s := testState()
		first := openTestRegister(s, 100)

		second, _, err := openRegister(s, 200, "otro", false, testTime)
		if err != nil {
			t.Fatalf("openRegister() error = %v", err)
		}
		if s.Register.ID != second.ID {
			t.Error("projection should point at the new register")
		}
		if s.Register.ID == first.ID {
			t.Error("projection should no longer point at the first register")
		}
	})

	t.Run("strictModeRejectsSecondOpen", func(t *testing.T) {
		s := testState()
		openTestRegister(s, 100)

		_, _, err := openRegister(s, 200, "otro", true, testTime)
		if !errors.Is(err, ErrRegisterAlreadyOpen) {
			t.Errorf("openRegister() error = %v, want ErrRegisterAlreadyOpen", err)
		}
	})
}

func TestRecordSale(t *testing.T) {
	t.Run("accumulates", func(t *testing.T) {
		s := testState()
		register := openTestRegister(s, 100)

		for _, amount := range []float64{18.50, 12.00, 30.00} {
			if _, err := recordSale(s, amount); err != nil {
				t.Fatalf("recordSale(%v) error = %v", amount, err)
			}
		}

		if register.TotalSales != 60.50 {
			t.Errorf("total sales = %v, want 60.50", register.TotalSales)
		}
		if got := register.CurrentAmount - register.InitialAmount; got != register.TotalSales {
			t.Errorf("current - initial = %v, want %v", got, register.TotalSales)
		}
	})

	t.Run("rejectedWhenClosed", func(t *testing.T) {
		s := testState()
		if _, err := recordSale(s, 10); !errors.Is(err, ErrRegisterClosed) {
			t.Errorf("recordSale() with no register: error = %v, want ErrRegisterClosed", err)
		}

		openTestRegister(s, 100)
		if _, _, err := closeRegister(s, 100, testTime); err != nil {
			t.Fatal(err)
		}
		if _, err := recordSale(s, 10); !errors.Is(err, ErrRegisterClosed) {
			t.Errorf("recordSale() after close: error = %v, want ErrRegisterClosed", err)
		}
	})
}

func TestCloseRegister(t *testing.T) {
	tests := []struct {
		name    string
		counted float64
		want    float64
	}{
		{name: "exactCount", counted: 160.50, want: 0},
		{name: "overage", counted: 165.00, want: 4.50},
		{name: "shortage", counted: 150.00, want: -10.50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := testState()
			register := openTestRegister(s, 100)
			if _, err := recordSale(s, 60.50); err != nil {
				t.Fatal(err)
			}

			difference, effects, err := closeRegister(s, tt.counted, testTime)
			if err != nil {
				t.Fatalf("closeRegister() error = %v", err)
			}

			if difference != tt.want {
				t.Errorf("difference = %v, want %v", difference, tt.want)
			}
			if register.IsOpen {
				t.Error("register should be closed")
			}
			if register.ClosedAt == nil || !register.ClosedAt.Equal(testTime) {
				t.Errorf("closed at = %v, want %v", register.ClosedAt, testTime)
			}
			if register.CountedAmount == nil || *register.CountedAmount != tt.counted {
				t.Errorf("counted amount = %v, want %v", register.CountedAmount, tt.counted)
			}
			if register.Difference == nil || *register.Difference != tt.want {
				t.Errorf("recorded difference = %v, want %v", register.Difference, tt.want)
			}
			if !hasEffect[SaveRegister](effects) {
				t.Error("closeRegister() should save the register")
			}
		})
	}

	t.Run("rejectedWhenAlreadyClosed", func(t *testing.T) {
		s := testState()
		openTestRegister(s, 100)
		if _, _, err := closeRegister(s, 100, testTime); err != nil {
			t.Fatal(err)
		}
		if _, _, err := closeRegister(s, 100, testTime); !errors.Is(err, ErrRegisterClosed) {
			t.Errorf("second closeRegister() error = %v, want ErrRegisterClosed", err)
		}
	})
}
