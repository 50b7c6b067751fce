package consoleHandler

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/HsiaoHungKai/myDonut/internal/adapters/in/http/dto"
	"github.com/HsiaoHungKai/myDonut/internal/adapters/in/http/middleware"
	"github.com/HsiaoHungKai/myDonut/internal/adapters/in/http/respond"
	usecase "github.com/HsiaoHungKai/myDonut/internal/application/usecase"
	orderdom "github.com/HsiaoHungKai/myDonut/internal/domain/order"
)

// OrderService is satisfied by *usecase.OrderUsecase.
type OrderService interface {
	PlaceOrder(ctx context.Context, in usecase.PlaceOrderInput) (orderdom.Detail, error)
	EditOrder(ctx context.Context, in usecase.EditOrderInput) (orderdom.Detail, error)
	DeleteOrder(ctx context.Context, orderID int64) error
	GetOrder(ctx context.Context, orderID int64) (orderdom.Detail, error)
	ListOrders(ctx context.Context) ([]orderdom.Summary, error)
}

// OrderHandler serves the staff panel's /console/orders.
type OrderHandler struct {
	uc OrderService
}

func NewOrderHandler(uc OrderService) *OrderHandler {
	return &OrderHandler{uc: uc}
}

func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{orderId}", h.Get)
	r.Put("/{orderId}", h.Update)
	r.Delete("/{orderId}", h.Delete)
}

// orderRequest is used by both create and update. Items are always explicit
// on the console; there is no staff cart.
type orderRequest struct {
	CustomerID int64          `json:"customer_id"`
	Items      []dto.LineItem `json:"items"`
}

// Create handles POST /console/orders. The acting staff (X-Staff-Id) is
// recorded on the order when present.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req orderRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.BadRequest(w, "invalid request body")
		return
	}
	if req.CustomerID <= 0 {
		respond.BadRequest(w, "customer_id is required")
		return
	}

	in := usecase.PlaceOrderInput{CustomerID: req.CustomerID, Items: dto.ToLineItems(req.Items)}
	if sid, ok := middleware.StaffIDFromContext(r.Context()); ok {
		in.StaffID = &sid
	}

	d, err := h.uc.PlaceOrder(r.Context(), in)
	if err != nil {
		log.Printf("[console_order_handler] create failed customer=%d err=%v", req.CustomerID, err)
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusCreated, dto.FromDetail(d))
}

// Update handles PUT /console/orders/{orderId}: replaces customer and lines.
func (h *OrderHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.PathID(chi.URLParam(r, "orderId"))
	if !ok {
		respond.BadRequest(w, "invalid order id")
		return
	}
	var req orderRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.BadRequest(w, "invalid request body")
		return
	}
	if req.CustomerID <= 0 {
		respond.BadRequest(w, "customer_id is required")
		return
	}

	d, err := h.uc.EditOrder(r.Context(), usecase.EditOrderInput{
		OrderID:    id,
		CustomerID: req.CustomerID,
		Items:      dto.ToLineItems(req.Items),
	})
	if err != nil {
		log.Printf("[console_order_handler] update failed order=%d err=%v", id, err)
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, dto.FromDetail(d))
}

func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.PathID(chi.URLParam(r, "orderId"))
	if !ok {
		respond.BadRequest(w, "invalid order id")
		return
	}
	if err := h.uc.DeleteOrder(r.Context(), id); err != nil {
		respond.Error(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.PathID(chi.URLParam(r, "orderId"))
	if !ok {
		respond.BadRequest(w, "invalid order id")
		return
	}
	d, err := h.uc.GetOrder(r.Context(), id)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, dto.FromDetail(d))
}

func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	out, err := h.uc.ListOrders(r.Context())
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{"orders": dto.FromSummaries(out)})
}
