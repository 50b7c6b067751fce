// Package dto holds the JSON shapes shared by the mall and console APIs.
package dto

import (
	"time"

	usecase "github.com/HsiaoHungKai/myDonut/internal/application/usecase"
	customerdom "github.com/HsiaoHungKai/myDonut/internal/domain/customer"
	orderdom "github.com/HsiaoHungKai/myDonut/internal/domain/order"
	productdom "github.com/HsiaoHungKai/myDonut/internal/domain/product"
	staffdom "github.com/HsiaoHungKai/myDonut/internal/domain/staff"
)

// ========================
// Requests
// ========================

type LineItem struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

func ToLineItems(in []LineItem) []orderdom.LineItem {
	out := make([]orderdom.LineItem, 0, len(in))
	for _, it := range in {
		out = append(out, orderdom.LineItem{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return out
}

// ========================
// Orders
// ========================

type OrderLine struct {
	LineID      int64  `json:"line_id"`
	ProductID   int64  `json:"product_id"`
	ProductName string `json:"product_name"`
	UnitPrice   int64  `json:"unit_price"`
	Quantity    int    `json:"quantity"`
	LineTotal   int64  `json:"line_total"`
}

type OrderDetail struct {
	OrderID     int64       `json:"order_id"`
	CustomerID  int64       `json:"customer_id"`
	StaffID     *int64      `json:"staff_id"`
	PlacedAt    time.Time   `json:"placed_at"`
	Lines       []OrderLine `json:"lines"`
	TotalItems  int         `json:"total_items"`
	TotalAmount int64       `json:"total_amount"`
}

func FromDetail(d orderdom.Detail) OrderDetail {
	out := OrderDetail{
		OrderID:     d.ID,
		CustomerID:  d.CustomerID,
		StaffID:     d.StaffID,
		PlacedAt:    d.PlacedAt,
		Lines:       make([]OrderLine, 0, len(d.Lines)),
		TotalItems:  d.TotalItems,
		TotalAmount: d.TotalAmount,
	}
	for _, l := range d.Lines {
		out.Lines = append(out.Lines, OrderLine(l))
	}
	return out
}

type OrderSummary struct {
	OrderID      int64     `json:"order_id"`
	CustomerID   int64     `json:"customer_id"`
	CustomerName string    `json:"customer_name"`
	StaffID      *int64    `json:"staff_id"`
	PlacedAt     time.Time `json:"placed_at"`
	TotalItems   int       `json:"total_items"`
	TotalAmount  int64     `json:"total_amount"`
}

func FromSummaries(in []orderdom.Summary) []OrderSummary {
	out := make([]OrderSummary, 0, len(in))
	for _, s := range in {
		out = append(out, OrderSummary{
			OrderID:      s.ID,
			CustomerID:   s.CustomerID,
			CustomerName: s.CustomerName,
			StaffID:      s.StaffID,
			PlacedAt:     s.PlacedAt,
			TotalItems:   s.TotalItems,
			TotalAmount:  s.TotalAmount,
		})
	}
	return out
}

// ========================
// Cart
// ========================

type CartLine struct {
	LineID      int64  `json:"line_id"`
	ProductID   int64  `json:"product_id"`
	ProductName string `json:"product_name"`
	UnitPrice   int64  `json:"unit_price"`
	Quantity    int    `json:"quantity"`
	Available   int    `json:"available"`
	LineTotal   int64  `json:"line_total"`
}

type Cart struct {
	CustomerID  int64      `json:"customer_id"`
	Lines       []CartLine `json:"lines"`
	TotalItems  int        `json:"total_items"`
	TotalAmount int64      `json:"total_amount"`
}

func FromCartView(v usecase.CartView) Cart {
	out := Cart{CustomerID: v.CustomerID, Lines: make([]CartLine, 0, len(v.Lines)), TotalItems: v.TotalItems, TotalAmount: v.TotalAmount}
	for _, l := range v.Lines {
		out.Lines = append(out.Lines, CartLine(l))
	}
	return out
}

// ========================
// Catalog / directory
// ========================

type Product struct {
	ProductID     int64  `json:"product_id"`
	Name          string `json:"name"`
	UnitPrice     int64  `json:"unit_price"`
	Quantity      int    `json:"quantity"`
	AlbumCoverURL string `json:"album_cover_url,omitempty"`
}

func FromProduct(p productdom.Product) Product {
	return Product{ProductID: p.ID, Name: p.Name, UnitPrice: p.UnitPrice, Quantity: p.Quantity, AlbumCoverURL: p.AlbumCoverURL}
}

func FromProducts(in []productdom.Product) []Product {
	out := make([]Product, 0, len(in))
	for _, p := range in {
		out = append(out, FromProduct(p))
	}
	return out
}

type Person struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

func FromCustomer(c customerdom.Customer) Person {
	return Person{ID: c.ID, Name: c.Name, Email: c.Email, Phone: c.Phone}
}

func FromStaff(s staffdom.Staff) Person {
	return Person{ID: s.ID, Name: s.Name, Email: s.Email, Phone: s.Phone}
}
