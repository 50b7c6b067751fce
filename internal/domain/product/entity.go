package product

import (
	"errors"
	"strings"
)

var (
	ErrInvalidProduct = errors.New("product: invalid")
	ErrInvalidName    = errors.New("product: invalid name")
	ErrInvalidPrice   = errors.New("product: invalid unit price")
	ErrInvalidStock   = errors.New("product: invalid stock quantity")
)

// Product is a catalog row together with its stock ledger balance.
// UnitPrice is in minor currency units (cents).
type Product struct {
	ID            int64
	Name          string
	UnitPrice     int64
	Quantity      int
	AlbumCoverURL string
}

func New(id int64, name string, unitPrice int64, quantity int, coverURL string) (Product, error) {
	p := Product{
		ID:            id,
		Name:          strings.TrimSpace(name),
		UnitPrice:     unitPrice,
		Quantity:      quantity,
		AlbumCoverURL: strings.TrimSpace(coverURL),
	}
	if err := p.validate(); err != nil {
		return Product{}, err
	}
	return p, nil
}

func (p Product) validate() error {
	if p.ID <= 0 {
		return ErrInvalidProduct
	}
	if p.Name == "" {
		return ErrInvalidName
	}
	if p.UnitPrice < 0 {
		return ErrInvalidPrice
	}
	if p.Quantity < 0 {
		return ErrInvalidStock
	}
	return nil
}

// InStock reports whether at least one unit can be sold.
func (p Product) InStock() bool { return p.Quantity > 0 }

// CanSupply reports whether qty units can be taken from the current balance.
func (p Product) CanSupply(qty int) bool { return qty > 0 && qty <= p.Quantity }

// DDL reference (for schema alignment with migrations)
const ProductsTableDDL = `
CREATE TABLE IF NOT EXISTS products (
  product_id      BIGINT PRIMARY KEY,
  product_name    VARCHAR(255) NOT NULL,
  list_price      BIGINT NOT NULL CHECK (list_price >= 0),
  quantity        INTEGER NOT NULL CHECK (quantity >= 0),
  album_cover_url TEXT NOT NULL DEFAULT ''
);
`
