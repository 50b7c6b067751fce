package consoleHandler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/HsiaoHungKai/myDonut/internal/adapters/in/http/dto"
	"github.com/HsiaoHungKai/myDonut/internal/adapters/in/http/respond"
	usecase "github.com/HsiaoHungKai/myDonut/internal/application/usecase"
	customerdom "github.com/HsiaoHungKai/myDonut/internal/domain/customer"
	productdom "github.com/HsiaoHungKai/myDonut/internal/domain/product"
	staffdom "github.com/HsiaoHungKai/myDonut/internal/domain/staff"
)

// CatalogService is satisfied by *usecase.CatalogUsecase.
type CatalogService interface {
	RegisterCustomer(ctx context.Context, in usecase.RegisterPersonInput) (customerdom.Customer, error)
	RegisterStaff(ctx context.Context, in usecase.RegisterPersonInput) (staffdom.Staff, error)
	AddProduct(ctx context.Context, in usecase.AddProductInput) (productdom.Product, error)
	RestockProduct(ctx context.Context, productID int64, delta int) (productdom.Product, error)
	DeleteProduct(ctx context.Context, productID int64) error
	DeleteCustomer(ctx context.Context, customerID int64) error
	GetProduct(ctx context.Context, productID int64) (productdom.Product, error)
	ListProducts(ctx context.Context) ([]productdom.Product, error)
}

// CatalogHandler serves products, customers and staff on the console.
type CatalogHandler struct {
	uc CatalogService
}

func NewCatalogHandler(uc CatalogService) *CatalogHandler {
	return &CatalogHandler{uc: uc}
}

func (h *CatalogHandler) RegisterRoutes(r chi.Router) {
	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.ListProducts)
		r.Post("/", h.AddProduct)
		r.Get("/{productId}", h.GetProduct)
		r.Post("/{productId}/restock", h.Restock)
		r.Delete("/{productId}", h.DeleteProduct)
	})
	r.Post("/customers", h.RegisterCustomer)
	r.Delete("/customers/{customerId}", h.DeleteCustomer)
	r.Post("/staffs", h.RegisterStaff)
}

type personRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type productRequest struct {
	Name          string `json:"name"`
	UnitPrice     int64  `json:"unit_price"`
	Quantity      int    `json:"quantity"`
	AlbumCoverURL string `json:"album_cover_url"`
}

type restockRequest struct {
	Delta int `json:"delta"`
}

// ------------------------------
// products
// ------------------------------

func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ps, err := h.uc.ListProducts(r.Context())
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{"products": dto.FromProducts(ps)})
}

func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.PathID(chi.URLParam(r, "productId"))
	if !ok {
		respond.BadRequest(w, "invalid product id")
		return
	}
	p, err := h.uc.GetProduct(r.Context(), id)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, dto.FromProduct(p))
}

func (h *CatalogHandler) AddProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.BadRequest(w, "invalid request body")
		return
	}
	p, err := h.uc.AddProduct(r.Context(), usecase.AddProductInput(req))
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusCreated, dto.FromProduct(p))
}

// Restock handles POST /console/products/{productId}/restock {"delta": n}.
func (h *CatalogHandler) Restock(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.PathID(chi.URLParam(r, "productId"))
	if !ok {
		respond.BadRequest(w, "invalid product id")
		return
	}
	var req restockRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.BadRequest(w, "invalid request body")
		return
	}
	p, err := h.uc.RestockProduct(r.Context(), id, req.Delta)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, dto.FromProduct(p))
}

func (h *CatalogHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.PathID(chi.URLParam(r, "productId"))
	if !ok {
		respond.BadRequest(w, "invalid product id")
		return
	}
	if err := h.uc.DeleteProduct(r.Context(), id); err != nil {
		respond.Error(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ------------------------------
// people
// ------------------------------

func (h *CatalogHandler) RegisterCustomer(w http.ResponseWriter, r *http.Request) {
	var req personRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.BadRequest(w, "invalid request body")
		return
	}
	c, err := h.uc.RegisterCustomer(r.Context(), usecase.RegisterPersonInput(req))
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusCreated, dto.FromCustomer(c))
}

func (h *CatalogHandler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.PathID(chi.URLParam(r, "customerId"))
	if !ok {
		respond.BadRequest(w, "invalid customer id")
		return
	}
	if err := h.uc.DeleteCustomer(r.Context(), id); err != nil {
		respond.Error(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CatalogHandler) RegisterStaff(w http.ResponseWriter, r *http.Request) {
	var req personRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.BadRequest(w, "invalid request body")
		return
	}
	s, err := h.uc.RegisterStaff(r.Context(), usecase.RegisterPersonInput(req))
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusCreated, dto.FromStaff(s))
}
