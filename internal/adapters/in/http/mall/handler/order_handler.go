package mallHandler

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

// OrderService is the slice of *usecase.OrderUsecase the mall needs.
type OrderService interface {
	PlaceOrder(ctx context.Context, in usecase.PlaceOrderInput) (orderdom.Detail, error)
	GetCustomerOrder(ctx context.Context, customerID, orderID int64) (orderdom.Detail, error)
	ListCustomerOrders(ctx context.Context, customerID int64) ([]orderdom.Summary, error)
}

// OrderHandler serves /mall/me/orders.
type OrderHandler struct {
	uc OrderService
}

func NewOrderHandler(uc OrderService) *OrderHandler {
	return &OrderHandler{uc: uc}
}

func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.Place)
	r.Get("/", h.List)
	r.Get("/{orderId}", h.Get)
}

// placeOrderRequest: items を省略するとカートから注文します。
// "items": [] は空注文として拒否されます。
type placeOrderRequest struct {
	Items *[]dto.LineItem `json:"items"`
}

// Place handles POST /mall/me/orders.
func (h *OrderHandler) Place(w http.ResponseWriter, r *http.Request) {
	cid, _ := middleware.CustomerIDFromContext(r.Context())

	var req placeOrderRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.BadRequest(w, "invalid request body")
		return
	}

	in := usecase.PlaceOrderInput{CustomerID: cid}
	if req.Items != nil {
		in.Items = dto.ToLineItems(*req.Items)
	}

	d, err := h.uc.PlaceOrder(r.Context(), in)
	if err != nil {
		log.Printf("[mall_order_handler] place failed customer=%d fromCart=%t err=%v", cid, req.Items == nil, err)
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusCreated, dto.FromDetail(d))
}

// List handles GET /mall/me/orders (newest first).
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	cid, _ := middleware.CustomerIDFromContext(r.Context())
	out, err := h.uc.ListCustomerOrders(r.Context(), cid)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{"orders": dto.FromSummaries(out)})
}

// Get handles GET /mall/me/orders/{orderId}.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	cid, _ := middleware.CustomerIDFromContext(r.Context())
	id, ok := respond.PathID(chi.URLParam(r, "orderId"))
	if !ok {
		respond.BadRequest(w, "invalid order id")
		return
	}
	d, err := h.uc.GetCustomerOrder(r.Context(), cid, id)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, dto.FromDetail(d))
}
