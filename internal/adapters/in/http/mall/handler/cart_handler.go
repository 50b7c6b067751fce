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
	cartdom "github.com/HsiaoHungKai/myDonut/internal/domain/cart"
)

// CartService is satisfied by *usecase.CartUsecase.
type CartService interface {
	AddToCart(ctx context.Context, customerID, productID int64) (cartdom.Line, error)
	SetQuantity(ctx context.Context, customerID, lineID int64, qty int) error
	RemoveLine(ctx context.Context, customerID, lineID int64) error
	GetCart(ctx context.Context, customerID int64) (usecase.CartView, error)
}

// CartHandler serves /mall/me/cart.
type CartHandler struct {
	uc CartService
}

func NewCartHandler(uc CartService) *CartHandler {
	return &CartHandler{uc: uc}
}

// RegisterRoutes expects a router already wrapped with middleware.RequireCustomer.
func (h *CartHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Get)
	r.Post("/items", h.AddItem)
	r.Patch("/items/{lineId}", h.SetQuantity)
	r.Delete("/items/{lineId}", h.RemoveItem)
}

type addItemRequest struct {
	ProductID int64 `json:"product_id"`
}

type setQuantityRequest struct {
	Quantity *int `json:"quantity"`
}

type cartLineResponse struct {
	LineID    int64 `json:"line_id"`
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// Get handles GET /mall/me/cart.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	cid, _ := middleware.CustomerIDFromContext(r.Context())
	view, err := h.uc.GetCart(r.Context(), cid)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, dto.FromCartView(view))
}

// AddItem handles POST /mall/me/cart/items.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	cid, _ := middleware.CustomerIDFromContext(r.Context())

	var req addItemRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.BadRequest(w, "invalid request body")
		return
	}
	if req.ProductID <= 0 {
		respond.BadRequest(w, "product_id is required")
		return
	}

	line, err := h.uc.AddToCart(r.Context(), cid, req.ProductID)
	if err != nil {
		log.Printf("[mall_cart_handler] add failed customer=%d product=%d err=%v", cid, req.ProductID, err)
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusCreated, cartLineResponse{LineID: line.LineID, ProductID: line.ProductID, Quantity: line.Quantity})
}

// SetQuantity handles PATCH /mall/me/cart/items/{lineId}. Quantity 0 removes the line.
func (h *CartHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	cid, _ := middleware.CustomerIDFromContext(r.Context())
	lineID, ok := respond.PathID(chi.URLParam(r, "lineId"))
	if !ok {
		respond.BadRequest(w, "invalid line id")
		return
	}

	var req setQuantityRequest
	if err := respond.Decode(r, &req); err != nil || req.Quantity == nil {
		respond.BadRequest(w, "quantity is required")
		return
	}

	if err := h.uc.SetQuantity(r.Context(), cid, lineID, *req.Quantity); err != nil {
		respond.Error(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RemoveItem handles DELETE /mall/me/cart/items/{lineId}.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	cid, _ := middleware.CustomerIDFromContext(r.Context())
	lineID, ok := respond.PathID(chi.URLParam(r, "lineId"))
	if !ok {
		respond.BadRequest(w, "invalid line id")
		return
	}
	if err := h.uc.RemoveLine(r.Context(), cid, lineID); err != nil {
		respond.Error(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
