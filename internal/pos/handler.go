package pos

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/telemetry"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const MaxBodyBytes = 1 << 20

// Handler exposes the role surfaces (mozo, cocina, cajero, admin) as a JSON
// API over the store. Guard violations come back as blocking 4xx errors;
// repository degradation never surfaces here because writes are optimistic.
type Handler struct {
	store  *Store
	config *apt.Config
	logger apt.Logger
	tlm    *telemetry.HTTP
}

func NewHandler(store *Store, config *apt.Config, logger apt.Logger) *Handler {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &Handler{
		store:  store,
		config: config,
		logger: logger,
		tlm:    telemetry.NewHTTP(),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/tables", func(r chi.Router) {
		r.Get("/", h.ListTables)
		r.Post("/", h.AddTable)
		r.Delete("/{id}", h.DeleteTable)

		r.Post("/{id}/items", h.StageItem)
		r.Patch("/{id}/items/{menuItemID}", h.SetStagedQuantity)
		r.Delete("/{id}/items/{menuItemID}", h.RemoveStagedItem)
		r.Patch("/{id}/customers", h.SetCustomerCount)

		r.Post("/{id}/submit", h.SubmitOrder)
		r.Post("/{id}/served", h.MarkServed)
		r.Post("/{id}/bill", h.RequestBill)
		r.Post("/{id}/clean", h.CleanTable)
	})

	r.Route("/orders", func(r chi.Router) {
		r.Get("/", h.ListOrders)
		r.Post("/takeaway", h.CreateTakeawayOrder)
		r.Post("/{id}/close", h.CloseOrder)
		r.Patch("/{id}/items/{menuItemID}/status", h.AdvanceItemStatus)
	})

	r.Route("/register", func(r chi.Router) {
		r.Get("/current", h.CurrentRegister)
		r.Post("/open", h.OpenRegister)
		r.Post("/close", h.CloseRegister)
	})

	r.Route("/menu", func(r chi.Router) {
		r.Get("/", h.ListMenu)
		r.Post("/", h.AddMenuItem)
		r.Put("/{id}", h.UpdateMenuItem)
		r.Delete("/{id}", h.DeleteMenuItem)
		r.Patch("/{id}/availability", h.ToggleAvailability)
	})

	r.Route("/categories", func(r chi.Router) {
		r.Get("/", h.ListCategories)
		r.Post("/", h.AddCategory)
	})

	r.Get("/sales/daily", h.DailySales)
}

// Tables

func (h *Handler) ListTables(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListTables")
	defer finish()

	tables, err := h.store.Tables(r.Context())
	if err != nil {
		h.respondErr(w, err)
		return
	}
	apt.RespondCollection(w, tables, "table")
}

func (h *Handler) AddTable(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.AddTable")
	defer finish()

	var req struct {
		Number   int `json:"number"`
		Capacity int `json:"capacity"`
	}
	if !h.decode(w, r, &req) {
		return
	}

	table, err := h.store.AddTable(r.Context(), req.Number, req.Capacity)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	apt.RespondSuccess(w, table)
}

func (h *Handler) DeleteTable(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.DeleteTable")
	defer finish()

	id, ok := h.idParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.store.DeleteTable(r.Context(), id); err != nil {
		h.respondErr(w, err)
		return
	}
	apt.RespondSuccess(w, nil)
}

func (h *Handler) StageItem(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.StageItem")
	defer finish()

	id, ok := h.idParam(w, r, "id")
	if !ok {
		return
	}
	var req struct {
		MenuItemID uuid.UUID `json:"menu_item_id"`
		Quantity   int       `json:"quantity"`
		Notes      string    `json:"notes"`
		WaiterName string    `json:"waiter_name"`
	}
	if !h.decode(w, r, &req) {
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	if err := h.store.StageItem(r.Context(), id, req.MenuItemID, req.Quantity, req.Notes, req.WaiterName); err != nil {
		h.respondErr(w, err)
		return
	}
	apt.RespondSuccess(w, nil)
}

func (h *Handler) SetStagedQuantity(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.SetStagedQuantity")
	defer finish()

	id, ok := h.idParam(w, r, "id")
	if !ok {
		return
	}
	menuItemID, ok := h.idParam(w, r, "menuItemID")
	if !ok {
		return
	}
	var req struct {
		Quantity int `json:"quantity"`
	}
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.store.SetStagedQuantity(r.Context(), id, menuItemID, req.Quantity); err != nil {
		h.respondErr(w, err)
		return
	}
	apt.RespondSuccess(w, nil)
}

func (h *Handler) RemoveStagedItem(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.RemoveStagedItem")
	defer finish()

	id, ok := h.idParam(w, r, "id")
	if !ok {
		return
	}
	menuItemID, ok := h.idParam(w, r, "menuItemID")
	if !ok {
		return
	}

	if err := h.store.RemoveStagedItem(r.Context(), id, menuItemID); err != nil {
		h.respondErr(w, err)
		return
	}
	apt.RespondSuccess(w, nil)
}

func (h *Handler) SetCustomerCount(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.SetCustomerCount")
	defer finish()

	id, ok := h.idParam(w, r, "id")
	if !ok {
		return
	}
	var req struct {
		Count int `json:"count"`
	}
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.store.SetCustomerCount(r.Context(), id, req.Count); err != nil {
		h.respondErr(w, err)
		return
	}
	apt.RespondSuccess(w, nil)
}

func (h *Handler) SubmitOrder(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.SubmitOrder")
	defer finish()

	id, ok := h.idParam(w, r, "id")
	if !ok {
		return
	}
	var req struct {
		WaiterID   string `json:"waiter_id"`
		WaiterName string `json:"waiter_name"`
	}
	if !h.decode(w, r, &req) {
		return
	}

	order, err := h.store.SubmitOrder(r.Context(), id, req.WaiterID, req.WaiterName)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	apt.RespondSuccess(w, order)
}

func (h *Handler) MarkServed(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.MarkServed")
	defer finish()

	id, ok := h.idParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.store.MarkServed(r.Context(), id); err != nil {
		h.respondErr(w, err)
		return
	}
	apt.RespondSuccess(w, nil)
}

func (h *Handler) RequestBill(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.RequestBill")
	defer finish()

	id, ok := h.idParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.store.RequestBill(r.Context(), id); err != nil {
		h.respondErr(w, err)
		return
	}
	apt.RespondSuccess(w, nil)
}

func (h *Handler) CleanTable(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CleanTable")
	defer finish()

	id, ok := h.idParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.store.CleanTable(r.Context(), id); err != nil {
		h.respondErr(w, err)
		return
	}
	apt.RespondSuccess(w, nil)
}

// Orders

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListOrders")
	defer finish()

	orders, err := h.store.Orders(r.Context())
	if err != nil {
		h.respondErr(w, err)
		return
	}

	status := r.URL.Query().Get("status")
	if status != "" {
		filtered := make([]*Order, 0, len(orders))
		for _, o := range orders {
			if o.Status == status {
				filtered = append(filtered, o)
			}
		}
		orders = filtered
	}

	apt.RespondCollection(w, orders, "order")
}

func (h *Handler) CreateTakeawayOrder(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CreateTakeawayOrder")
	defer finish()

	var req struct {
		Items []struct {
			MenuItemID uuid.UUID `json:"menu_item_id"`
			Quantity   int       `json:"quantity"`
			Notes      string    `json:"notes"`
		} `json:"items"`
		WaiterID   string `json:"waiter_id"`
		WaiterName string `json:"waiter_name"`
	}
	if !h.decode(w, r, &req) {
		return
	}

	lines := make([]TakeawayLine, 0, len(req.Items))
	for _, it := range req.Items {
		lines = append(lines, TakeawayLine{
			MenuItemID: it.MenuItemID,
			Quantity:   it.Quantity,
			Notes:      it.Notes,
		})
	}

	order, err := h.store.CreateTakeawayOrder(r.Context(), lines, req.WaiterID, req.WaiterName)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	apt.RespondSuccess(w, order)
}

func (h *Handler) CloseOrder(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CloseOrder")
	defer finish()

	id, ok := h.idParam(w, r, "id")
	if !ok {
		return
	}
	var req struct {
		PaymentMethod string  `json:"payment_method"`
		Discount      float64 `json:"discount"`
		Tip           float64 `json:"tip"`
	}
	if !h.decode(w, r, &req) {
		return
	}

	order, err := h.store.CloseOrder(r.Context(), id, req.PaymentMethod, req.Discount, req.Tip)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	apt.RespondSuccess(w, order)
}

func (h *Handler) AdvanceItemStatus(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.AdvanceItemStatus")
	defer finish()

	id, ok := h.idParam(w, r, "id")
	if !ok {
		return
	}
	menuItemID, ok := h.idParam(w, r, "menuItemID")
	if !ok {
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.store.AdvanceItemStatus(r.Context(), id, menuItemID, req.Status); err != nil {
		h.respondErr(w, err)
		return
	}
	apt.RespondSuccess(w, nil)
}

// Cash register

func (h *Handler) CurrentRegister(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CurrentRegister")
	defer finish()

	register, err := h.store.Register(r.Context())
	if err != nil {
		h.respondErr(w, err)
		return
	}
	apt.RespondSuccess(w, register)
}

func (h *Handler) OpenRegister(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.OpenRegister")
	defer finish()

	var req struct {
		InitialAmount float64 `json:"initial_amount"`
		OpenedBy      string  `json:"opened_by"`
	}
	if !h.decode(w, r, &req) {
		return
	}

	register, err := h.store.OpenRegister(r.Context(), req.InitialAmount, req.OpenedBy)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	apt.RespondSuccess(w, register)
}

func (h *Handler) CloseRegister(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CloseRegister")
	defer finish()

	var req struct {
		CountedAmount float64 `json:"counted_amount"`
	}
	if !h.decode(w, r, &req) {
		return
	}

	difference, err := h.store.CloseRegister(r.Context(), req.CountedAmount)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	apt.RespondSuccess(w, map[string]float64{"difference": difference})
}

// Menu

func (h *Handler) ListMenu(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListMenu")
	defer finish()

	items, err := h.store.MenuItems(r.Context())
	if err != nil {
		h.respondErr(w, err)
		return
	}
	apt.RespondCollection(w, items, "menu-item")
}

func (h *Handler) AddMenuItem(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.AddMenuItem")
	defer finish()

	var item MenuItem
	if !h.decode(w, r, &item) {
		return
	}

	created, err := h.store.AddMenuItem(r.Context(), &item)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	apt.RespondSuccess(w, created)
}

func (h *Handler) UpdateMenuItem(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.UpdateMenuItem")
	defer finish()

	id, ok := h.idParam(w, r, "id")
	if !ok {
		return
	}
	var item MenuItem
	if !h.decode(w, r, &item) {
		return
	}
	item.ID = id

	if err := h.store.UpdateMenuItem(r.Context(), &item); err != nil {
		h.respondErr(w, err)
		return
	}
	apt.RespondSuccess(w, &item)
}

func (h *Handler) DeleteMenuItem(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.DeleteMenuItem")
	defer finish()

	id, ok := h.idParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.store.DeleteMenuItem(r.Context(), id); err != nil {
		h.respondErr(w, err)
		return
	}
	apt.RespondSuccess(w, nil)
}

func (h *Handler) ToggleAvailability(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ToggleAvailability")
	defer finish()

	id, ok := h.idParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.store.ToggleAvailability(r.Context(), id); err != nil {
		h.respondErr(w, err)
		return
	}
	apt.RespondSuccess(w, nil)
}

// Categories

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListCategories")
	defer finish()

	categories, err := h.store.Categories(r.Context())
	if err != nil {
		h.respondErr(w, err)
		return
	}
	apt.RespondCollection(w, categories, "category")
}

func (h *Handler) AddCategory(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.AddCategory")
	defer finish()

	var req struct {
		Name string `json:"name"`
	}
	if !h.decode(w, r, &req) {
		return
	}

	category, err := h.store.AddCategory(r.Context(), req.Name)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	apt.RespondSuccess(w, category)
}

// Sales

func (h *Handler) DailySales(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.DailySales")
	defer finish()

	total, err := h.store.DailySales(r.Context())
	if err != nil {
		h.respondErr(w, err)
		return
	}
	apt.RespondSuccess(w, map[string]float64{"daily_sales": total})
}

// Helpers

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.logger.Debug("cannot decode request payload", "error", err)
		apt.RespondError(w, http.StatusBadRequest, "Invalid request payload")
		return false
	}
	return true
}

func (h *Handler) idParam(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil {
		h.logger.Debug("invalid id parameter", "param", name, "value", raw)
		apt.RespondError(w, http.StatusBadRequest, "Invalid id parameter")
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) respondErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		apt.RespondError(w, http.StatusNotFound, err.Error())
	case IsValidation(err), IsTransition(err):
		apt.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrNotReady),
		errors.Is(err, ErrInvalidState),
		errors.Is(err, ErrAlreadyClosed),
		errors.Is(err, ErrRegisterClosed),
		errors.Is(err, ErrRegisterAlreadyOpen):
		apt.RespondError(w, http.StatusConflict, err.Error())
	default:
		h.logger.Error("internal error", "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Internal error")
	}
}
