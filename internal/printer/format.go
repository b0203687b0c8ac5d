package printer

import (
	"fmt"
	"strings"
	"time"

	"github.com/comandaclub/comanda/internal/pos"
)

// Thermal printers in the field are 58mm heads, 32 characters per line.
const lineWidth = 32

// ESC/POS control sequences.
const (
	escInit   = "\x1B\x40"
	escCenter = "\x1B\x61\x01"
	escLeft   = "\x1B\x61\x00"
	boldOn    = "\x1B\x45\x01"
	boldOff   = "\x1B\x45\x00"
	cutPaper  = "\x1D\x56\x00"
)

// FormatKitchen renders a cocina ticket: header, waiter and table lines, then
// the item list with notes, word-wrapped to the paper width.
func FormatKitchen(header string, t pos.Ticket, ticketNumber string, now time.Time) []byte {
	var b strings.Builder

	b.WriteString(escInit)
	b.WriteString(escCenter)
	b.WriteString(boldOn)
	b.WriteString(header + "\n")
	b.WriteString(boldOff)
	fmt.Fprintf(&b, "Ticket N°: %s\n\n", ticketNumber)
	b.WriteString(escLeft)

	b.WriteString(sideBySide("Mozo: "+t.Waiter, "Hora: "+t.Time) + "\n")
	b.WriteString(sideBySide(t.Table, "Fecha: "+now.Format("02/01/2006")) + "\n\n")

	b.WriteString(boldOn)
	b.WriteString("PLATOS A PREPARAR:\n")
	b.WriteString(boldOff)
	b.WriteString(strings.Repeat("-", lineWidth) + "\n")

	for _, item := range t.Items {
		for _, line := range wrap(fmt.Sprintf("%dx %s", item.Quantity, item.Name), "   ") {
			b.WriteString(line + "\n")
		}
		if item.Notes != "" {
			for _, line := range wrap("   Nota: "+item.Notes, "   ") {
				b.WriteString(line + "\n")
			}
		}
	}

	b.WriteString(strings.Repeat("-", lineWidth) + "\n\n\n\n\n\n")
	b.WriteString(cutPaper)
	return []byte(b.String())
}

// FormatReceipt renders the caja receipt with a priced item table and the
// final total.
func FormatReceipt(header string, t pos.Ticket, now time.Time) []byte {
	var b strings.Builder

	b.WriteString(escInit)
	b.WriteString(escCenter)
	b.WriteString(boldOn)
	b.WriteString(header + "\n")
	b.WriteString(boldOff)
	b.WriteString("\n")
	b.WriteString(escLeft)

	b.WriteString(sideBySide("Mozo: "+t.Waiter, "Hora: "+now.Format("15:04")) + "\n")
	b.WriteString(sideBySide(t.Table, "Fecha: "+now.Format("02/01/2006")) + "\n\n")

	b.WriteString("CANT DESCRIPCION      IMPORTE\n")
	b.WriteString(strings.Repeat("=", lineWidth) + "\n")

	for _, item := range t.Items {
		name := item.Name
		if len(name) > 16 {
			name = name[:16]
		}
		amount := fmt.Sprintf("S/%.2f", float64(item.Quantity)*item.Price)
		fmt.Fprintf(&b, "%-4d %-16s %9s\n", item.Quantity, name, amount)
	}

	b.WriteString("\n")
	b.WriteString(escCenter)
	b.WriteString(boldOn)
	fmt.Fprintf(&b, "TOTAL A PAGAR: S/%.2f\n", t.Total)
	b.WriteString(boldOff)
	b.WriteString(strings.Repeat("=", lineWidth) + "\n")
	b.WriteString("Gracias por su compra!\n\n\n\n\n\n")
	b.WriteString(cutPaper)
	return []byte(b.String())
}

// sideBySide pads two fragments to the full paper width, left and right.
func sideBySide(left, right string) string {
	gap := lineWidth - len(left) - len(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

// wrap splits text into lines no longer than the paper width. Continuation
// lines carry the given indent.
func wrap(text, indent string) []string {
	if len(text) <= lineWidth {
		return []string{text}
	}

	var lines []string
	current := ""
	for _, word := range strings.Fields(text) {
		candidate := word
		if current != "" {
			candidate = current + " " + word
		}
		if len(candidate) > lineWidth && current != "" {
			lines = append(lines, current)
			current = indent + word
			continue
		}
		current = candidate
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}
