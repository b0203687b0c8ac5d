package pos

import (
	"time"

	"github.com/appetiteclub/apt"
	"github.com/google/uuid"
)

// CashRegister is the per-shift caja ledger. While open it holds the
// invariant CurrentAmount - InitialAmount == TotalSales.
type CashRegister struct {
	ID            uuid.UUID  `json:"id" bson:"_id"`
	IsOpen        bool       `json:"is_open" bson:"is_open"`
	InitialAmount float64    `json:"initial_amount" bson:"initial_amount"`
	CurrentAmount float64    `json:"current_amount" bson:"current_amount"`
	TotalSales    float64    `json:"total_sales" bson:"total_sales"`
	OpenedAt      time.Time  `json:"opened_at" bson:"opened_at"`
	ClosedAt      *time.Time `json:"closed_at,omitempty" bson:"closed_at,omitempty"`
	OpenedBy      string     `json:"opened_by" bson:"opened_by"`

	// Reconciliation, recorded at close. Difference is signed:
	// positive means overage, negative means shortage.
	CountedAmount *float64 `json:"counted_amount,omitempty" bson:"counted_amount,omitempty"`
	Difference    *float64 `json:"difference,omitempty" bson:"difference,omitempty"`
}

func (r *CashRegister) GetID() uuid.UUID {
	return r.ID
}

func (r *CashRegister) ResourceType() string {
	return "cash-register"
}

// openRegister starts a shift. In strict mode a second concurrent open is
// rejected; by default a fresh register simply replaces the projection, which
// is what the original flow did.
func openRegister(s *State, initialAmount float64, openedBy string, strict bool, now time.Time) (*CashRegister, []Effect, error) {
	if initialAmount < 0 {
		return nil, nil, validationErr("initial_amount", "initial amount cannot be negative")
	}
	if strict && s.Register != nil && s.Register.IsOpen {
		return nil, nil, ErrRegisterAlreadyOpen
	}

	register := &CashRegister{
		ID:            apt.GenerateNewID(),
		IsOpen:        true,
		InitialAmount: initialAmount,
		CurrentAmount: initialAmount,
		TotalSales:    0,
		OpenedAt:      now,
		OpenedBy:      openedBy,
	}
	s.Register = register

	return register, []Effect{CreateRegister{Register: *register}}, nil
}

// recordSale accumulates one settled order into the open register.
func recordSale(s *State, amount float64) ([]Effect, error) {
	if s.Register == nil || !s.Register.IsOpen {
		return nil, ErrRegisterClosed
	}

	s.Register.CurrentAmount += amount
	s.Register.TotalSales += amount

	// The persisted increment is atomic at the repository so two devices
	// closing orders inside the same poll window cannot lose a sale.
	return []Effect{RecordSale{RegisterID: s.Register.ID, Amount: amount}}, nil
}

// closeRegister ends the shift and records the reconciliation against the
// counted cash. A nonzero difference never blocks closing; it is returned
// for operator display.
func closeRegister(s *State, countedAmount float64, now time.Time) (float64, []Effect, error) {
	if s.Register == nil || !s.Register.IsOpen {
		return 0, nil, ErrRegisterClosed
	}

	difference := countedAmount - s.Register.CurrentAmount

	s.Register.IsOpen = false
	closedAt := now
	s.Register.ClosedAt = &closedAt
	counted := countedAmount
	s.Register.CountedAmount = &counted
	diff := difference
	s.Register.Difference = &diff

	return difference, []Effect{SaveRegister{Register: *s.Register}}, nil
}
