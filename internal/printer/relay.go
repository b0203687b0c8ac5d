package printer

import (
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/appetiteclub/apt"

	"github.com/comandaclub/comanda/internal/pos"
)

// Relay forwards formatted tickets to the thermal printers over raw TCP.
// Kitchen tickets and receipts go to different heads. Printing is best
// effort; a dead printer never blocks order flow upstream.
type Relay struct {
	kitchenAddr string
	receiptAddr string
	header      string
	timeout     time.Duration
	logger      apt.Logger
	now         func() time.Time

	mu      sync.Mutex
	counter int
}

func NewRelay(config *apt.Config, logger apt.Logger) *Relay {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &Relay{
		kitchenAddr: config.GetStringOrDef("printer.kitchen.addr", "192.168.1.199:9100"),
		receiptAddr: config.GetStringOrDef("printer.receipt.addr", "192.168.1.200:9100"),
		header:      config.GetStringOrDef("printer.header", "CHIFA CHEFCITO"),
		timeout:     5 * time.Second,
		logger:      logger,
		now:         time.Now,
	}
}

// Print dispatches a ticket to the printer matching its kind.
func (r *Relay) Print(t pos.Ticket) error {
	switch t.Kind {
	case pos.TicketKitchen:
		return r.PrintKitchen(t)
	case pos.TicketReceipt:
		return r.PrintReceipt(t)
	default:
		return fmt.Errorf("unknown ticket kind %q", t.Kind)
	}
}

func (r *Relay) PrintKitchen(t pos.Ticket) error {
	data := FormatKitchen(r.header, t, r.nextTicketNumber(), r.now())
	if err := r.send(r.kitchenAddr, data); err != nil {
		return fmt.Errorf("kitchen printer: %w", err)
	}
	r.logger.Info("Kitchen ticket printed", "order", t.OrderNumber, "table", t.Table)
	return nil
}

func (r *Relay) PrintReceipt(t pos.Ticket) error {
	data := FormatReceipt(r.header, t, r.now())
	if err := r.send(r.receiptAddr, data); err != nil {
		return fmt.Errorf("receipt printer: %w", err)
	}
	r.logger.Info("Receipt printed", "order", t.OrderNumber, "table", t.Table)
	return nil
}

// nextTicketNumber is a per-process sequence shown on the cocina ticket so
// the kitchen can call out short numbers. It resets on restart.
func (r *Relay) nextTicketNumber() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counter++
	return fmt.Sprintf("%03d", r.counter)
}

func (r *Relay) send(addr string, data []byte) error {
	conn, err := net.DialTimeout("tcp", addr, r.timeout)
	if err != nil {
		return fmt.Errorf("cannot connect to %s: %w", addr, err)
	}
	defer conn.Close()

	if err := conn.SetWriteDeadline(time.Now().Add(r.timeout)); err != nil {
		return err
	}
	if _, err := conn.Write(data); err != nil {
		return fmt.Errorf("cannot write to %s: %w", addr, err)
	}
	return nil
}
