package printer

import (
	"encoding/json"
	"net/http"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/telemetry"
	"github.com/go-chi/chi/v5"

	"github.com/comandaclub/comanda/internal/pos"
)

const maxBodyBytes = 1 << 20

// Handler lets devices post tickets directly over HTTP, bypassing the bus.
// Tablets on flaky Wi-Fi use this as their fallback print path.
type Handler struct {
	relay  *Relay
	logger apt.Logger
	tlm    *telemetry.HTTP
}

func NewHandler(relay *Relay, logger apt.Logger) *Handler {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &Handler{
		relay:  relay,
		logger: logger,
		tlm:    telemetry.NewHTTP(),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Status)
	r.Post("/print-kitchen", h.PrintKitchen)
	r.Post("/print-receipt", h.PrintReceipt)
}

func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.Status")
	defer finish()

	apt.RespondSuccess(w, map[string]string{
		"status":  "running",
		"kitchen": h.relay.kitchenAddr,
		"receipt": h.relay.receiptAddr,
	})
}

func (h *Handler) PrintKitchen(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.PrintKitchen")
	defer finish()

	ticket, ok := h.decodeTicket(w, r)
	if !ok {
		return
	}
	if err := h.relay.PrintKitchen(ticket); err != nil {
		h.logger.Error("kitchen print failed", "error", err)
		apt.RespondError(w, http.StatusBadGateway, "Printer unreachable")
		return
	}
	apt.RespondSuccess(w, map[string]string{"message": "Ticket enviado a cocina"})
}

func (h *Handler) PrintReceipt(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.PrintReceipt")
	defer finish()

	ticket, ok := h.decodeTicket(w, r)
	if !ok {
		return
	}
	if err := h.relay.PrintReceipt(ticket); err != nil {
		h.logger.Error("receipt print failed", "error", err)
		apt.RespondError(w, http.StatusBadGateway, "Printer unreachable")
		return
	}
	apt.RespondSuccess(w, map[string]string{"message": "Recibo impreso"})
}

func (h *Handler) decodeTicket(w http.ResponseWriter, r *http.Request) (pos.Ticket, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var ticket pos.Ticket
	if err := json.NewDecoder(r.Body).Decode(&ticket); err != nil {
		h.logger.Debug("cannot decode ticket payload", "error", err)
		apt.RespondError(w, http.StatusBadRequest, "Invalid ticket payload")
		return pos.Ticket{}, false
	}
	if len(ticket.Items) == 0 {
		apt.RespondError(w, http.StatusBadRequest, "Ticket has no items")
		return pos.Ticket{}, false
	}
	return ticket, true
}
