package customer

import (
	"context"
	"errors"
	"net/mail"
	"strings"
)

var (
	ErrNotFound     = errors.New("customer: not found")
	ErrConflict     = errors.New("customer: conflict")
	ErrInvalidName  = errors.New("customer: invalid name")
	ErrInvalidEmail = errors.New("customer: invalid email")
)

type Customer struct {
	ID    int64
	Name  string
	Email string
	Phone string
}

func New(id int64, name, email, phone string) (Customer, error) {
	c := Customer{
		ID:    id,
		Name:  strings.TrimSpace(name),
		Email: strings.ToLower(strings.TrimSpace(email)),
		Phone: strings.TrimSpace(phone),
	}
	if c.Name == "" {
		return Customer{}, ErrInvalidName
	}
	if _, err := mail.ParseAddress(c.Email); err != nil {
		return Customer{}, ErrInvalidEmail
	}
	return c, nil
}

// Repository is the customer directory as seen by the order engine.
type Repository interface {
	GetByID(ctx context.Context, id int64) (Customer, error)
	Exists(ctx context.Context, id int64) (bool, error)
	EmailTaken(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, c Customer) error
	Delete(ctx context.Context, id int64) error
}

// DDL reference (for schema alignment with migrations)
const CustomersTableDDL = `
CREATE TABLE IF NOT EXISTS customers (
  customer_id   BIGINT PRIMARY KEY,
  customer_name VARCHAR(255) NOT NULL,
  email         VARCHAR(255) NOT NULL UNIQUE,
  phone         VARCHAR(50) NOT NULL DEFAULT ''
);
`
