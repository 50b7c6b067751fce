package staff

import (
	"context"
	"errors"
	"net/mail"
	"strings"
)

var (
	ErrNotFound     = errors.New("staff: not found")
	ErrConflict     = errors.New("staff: conflict")
	ErrInvalidName  = errors.New("staff: invalid name")
	ErrInvalidEmail = errors.New("staff: invalid email")
)

// Staff is an operator who may place orders on a customer's behalf.
type Staff struct {
	ID    int64
	Name  string
	Email string
	Phone string
}

func New(id int64, name, email, phone string) (Staff, error) {
	s := Staff{
		ID:    id,
		Name:  strings.TrimSpace(name),
		Email: strings.ToLower(strings.TrimSpace(email)),
		Phone: strings.TrimSpace(phone),
	}
	if s.Name == "" {
		return Staff{}, ErrInvalidName
	}
	if _, err := mail.ParseAddress(s.Email); err != nil {
		return Staff{}, ErrInvalidEmail
	}
	return s, nil
}

type Repository interface {
	GetByID(ctx context.Context, id int64) (Staff, error)
	Exists(ctx context.Context, id int64) (bool, error)
	EmailTaken(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, s Staff) error
}

// DDL reference (for schema alignment with migrations)
const StaffsTableDDL = `
CREATE TABLE IF NOT EXISTS staffs (
  staff_id   BIGINT PRIMARY KEY,
  staff_name VARCHAR(255) NOT NULL,
  email      VARCHAR(255) NOT NULL UNIQUE,
  phone      VARCHAR(50) NOT NULL DEFAULT ''
);
`
