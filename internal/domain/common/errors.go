// internal/domain/common/errors.go
package common

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Kind は呼び出し側が分岐に使うエラー種別です。
// メッセージ文字列ではなく Kind で回復可能性を判断します。
type Kind int

const (
	KindUnknown Kind = iota
	KindInvalidArgument
	KindNotFound
	KindEmptyOrder
	KindInsufficientStock
	KindOutOfStock
	KindConflict
	KindTransient
)

func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "invalid_argument"
	case KindNotFound:
		return "not_found"
	case KindEmptyOrder:
		return "empty_order"
	case KindInsufficientStock:
		return "insufficient_stock"
	case KindOutOfStock:
		return "out_of_stock"
	case KindConflict:
		return "conflict"
	case KindTransient:
		return "temporarily_unavailable"
	default:
		return "unknown"
	}
}

// Code maps a kind onto a gRPC status code.
func (k Kind) Code() codes.Code {
	switch k {
	case KindInvalidArgument, KindEmptyOrder:
		return codes.InvalidArgument
	case KindNotFound:
		return codes.NotFound
	case KindInsufficientStock, KindOutOfStock:
		return codes.FailedPrecondition
	case KindConflict:
		return codes.AlreadyExists
	case KindTransient:
		return codes.Unavailable
	default:
		return codes.Unknown
	}
}

// Kinded is implemented by every tagged error in this package.
type Kinded interface {
	error
	ErrorKind() Kind
}

// Error は Kind 付きのエラーです。
type Error struct {
	Kind Kind
	Op   string // 例: "order.place"
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := e.Msg
	if msg == "" {
		msg = e.Kind.String()
	}
	switch {
	case e.Op != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Op, msg, e.Err)
	case e.Op != "":
		return fmt.Sprintf("%s: %s", e.Op, msg)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", msg, e.Err)
	default:
		return msg
	}
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) ErrorKind() Kind { return e.Kind }

// GRPCStatus lets status.FromError / status.Code understand the error.
func (e *Error) GRPCStatus() *status.Status {
	return status.New(e.Kind.Code(), e.Error())
}

// E builds a tagged error.
func E(kind Kind, op, msg string, err error) error {
	return &Error{Kind: kind, Op: op, Msg: msg, Err: err}
}

func NotFound(op, what string) error {
	return &Error{Kind: KindNotFound, Op: op, Msg: what + " not found"}
}

func InvalidArgument(op, msg string) error {
	return &Error{Kind: KindInvalidArgument, Op: op, Msg: msg}
}

func Conflict(op, msg string) error {
	return &Error{Kind: KindConflict, Op: op, Msg: msg}
}

// Transient wraps a storage failure. The wrapped error stays available to
// errors.Is / errors.As and to the logs, but Public() hides it.
func Transient(op string, err error) error {
	return &Error{Kind: KindTransient, Op: op, Msg: "storage failure", Err: err}
}

// ErrEmptyOrder は明細ゼロの注文を表します。
var ErrEmptyOrder = &Error{Kind: KindEmptyOrder, Msg: "order has no line items"}

// InsufficientStockError reports the first shortfall found while validating
// an order or cart quantity.
type InsufficientStockError struct {
	ProductID   int64
	ProductName string
	Requested   int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	name := e.ProductName
	if name == "" {
		name = fmt.Sprintf("product %d", e.ProductID)
	}
	return fmt.Sprintf("insufficient stock for %s: requested %d, available %d", name, e.Requested, e.Available)
}

func (e *InsufficientStockError) ErrorKind() Kind { return KindInsufficientStock }

func (e *InsufficientStockError) GRPCStatus() *status.Status {
	return status.New(codes.FailedPrecondition, e.Error())
}

// OutOfStockError は在庫 0 の商品をカートに入れようとした場合のエラーです。
type OutOfStockError struct {
	ProductID   int64
	ProductName string
}

func (e *OutOfStockError) Error() string {
	return fmt.Sprintf("product %d (%s) is out of stock", e.ProductID, e.ProductName)
}

func (e *OutOfStockError) ErrorKind() Kind { return KindOutOfStock }

// KindOf returns the kind of the first tagged error in err's chain.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	var k Kinded
	if errors.As(err, &k) {
		return k.ErrorKind()
	}
	return KindUnknown
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// IsRecoverable は入力を直せば再試行できるエラーかどうかを返します。
func IsRecoverable(err error) bool {
	switch KindOf(err) {
	case KindInvalidArgument, KindNotFound, KindEmptyOrder, KindInsufficientStock, KindOutOfStock, KindConflict:
		return true
	}
	return false
}

// IsRetryable は同じ入力のまま再試行してよいエラー（ストレージ障害）かどうかを返します。
func IsRetryable(err error) bool {
	return KindOf(err) == KindTransient
}

// Public returns the caller-facing message. Transient and unknown errors
// collapse to a generic text so internal detail never leaks.
func Public(err error) string {
	if err == nil {
		return ""
	}
	switch KindOf(err) {
	case KindTransient, KindUnknown:
		return "the request could not be completed, please try again"
	}
	var ise *InsufficientStockError
	if errors.As(err, &ise) {
		return ise.Error()
	}
	var oos *OutOfStockError
	if errors.As(err, &oos) {
		return oos.Error()
	}
	var e *Error
	if errors.As(err, &e) && e.Msg != "" {
		return e.Msg
	}
	return KindOf(err).String()
}
