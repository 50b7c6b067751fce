package db

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	dbcommon "github.com/HsiaoHungKai/myDonut/internal/adapters/out/db/common"
	customerdom "github.com/HsiaoHungKai/myDonut/internal/domain/customer"
	staffdom "github.com/HsiaoHungKai/myDonut/internal/domain/staff"
)

// ========================
// customers
// ========================

type CustomerRepositoryPG struct {
	run dbcommon.Runner
}

func NewCustomerRepositoryPG(run dbcommon.Runner) *CustomerRepositoryPG {
	return &CustomerRepositoryPG{run: run}
}

var _ customerdom.Repository = (*CustomerRepositoryPG)(nil)

func (r *CustomerRepositoryPG) GetByID(ctx context.Context, id int64) (customerdom.Customer, error) {
	const q = `SELECT customer_id, customer_name, email, phone FROM customers WHERE customer_id = $1`
	var c customerdom.Customer
	err := r.run.QueryRowContext(ctx, q, id).Scan(&c.ID, &c.Name, &c.Email, &c.Phone)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return customerdom.Customer{}, customerdom.ErrNotFound
		}
		return customerdom.Customer{}, err
	}
	return c, nil
}

func (r *CustomerRepositoryPG) Exists(ctx context.Context, id int64) (bool, error) {
	return exists(ctx, r.run, `SELECT EXISTS (SELECT 1 FROM customers WHERE customer_id = $1)`, id)
}

func (r *CustomerRepositoryPG) EmailTaken(ctx context.Context, email string) (bool, error) {
	return exists(ctx, r.run, `SELECT EXISTS (SELECT 1 FROM customers WHERE email = $1)`, strings.ToLower(strings.TrimSpace(email)))
}

func (r *CustomerRepositoryPG) Create(ctx context.Context, c customerdom.Customer) error {
	const q = `INSERT INTO customers (customer_id, customer_name, email, phone) VALUES ($1, $2, $3, $4)`
	_, err := r.run.ExecContext(ctx, q, c.ID, c.Name, c.Email, c.Phone)
	if dbcommon.IsUniqueViolation(err) {
		return customerdom.ErrConflict
	}
	return err
}

func (r *CustomerRepositoryPG) Delete(ctx context.Context, id int64) error {
	res, err := r.run.ExecContext(ctx, `DELETE FROM customers WHERE customer_id = $1`, id)
	if err != nil {
		if dbcommon.IsForeignKeyViolation(err) {
			return customerdom.ErrConflict
		}
		return err
	}
	return requireAffected(res, customerdom.ErrNotFound)
}

// ========================
// staffs
// ========================

type StaffRepositoryPG struct {
	run dbcommon.Runner
}

func NewStaffRepositoryPG(run dbcommon.Runner) *StaffRepositoryPG {
	return &StaffRepositoryPG{run: run}
}

var _ staffdom.Repository = (*StaffRepositoryPG)(nil)

func (r *StaffRepositoryPG) GetByID(ctx context.Context, id int64) (staffdom.Staff, error) {
	const q = `SELECT staff_id, staff_name, email, phone FROM staffs WHERE staff_id = $1`
	var s staffdom.Staff
	err := r.run.QueryRowContext(ctx, q, id).Scan(&s.ID, &s.Name, &s.Email, &s.Phone)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return staffdom.Staff{}, staffdom.ErrNotFound
		}
		return staffdom.Staff{}, err
	}
	return s, nil
}

func (r *StaffRepositoryPG) Exists(ctx context.Context, id int64) (bool, error) {
	return exists(ctx, r.run, `SELECT EXISTS (SELECT 1 FROM staffs WHERE staff_id = $1)`, id)
}

func (r *StaffRepositoryPG) EmailTaken(ctx context.Context, email string) (bool, error) {
	return exists(ctx, r.run, `SELECT EXISTS (SELECT 1 FROM staffs WHERE email = $1)`, strings.ToLower(strings.TrimSpace(email)))
}

func (r *StaffRepositoryPG) Create(ctx context.Context, s staffdom.Staff) error {
	const q = `INSERT INTO staffs (staff_id, staff_name, email, phone) VALUES ($1, $2, $3, $4)`
	_, err := r.run.ExecContext(ctx, q, s.ID, s.Name, s.Email, s.Phone)
	if dbcommon.IsUniqueViolation(err) {
		return staffdom.ErrConflict
	}
	return err
}

func exists(ctx context.Context, run dbcommon.Runner, q string, arg any) (bool, error) {
	var ok bool
	if err := run.QueryRowContext(ctx, q, arg).Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}
