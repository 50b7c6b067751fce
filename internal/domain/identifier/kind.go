package identifier

import (
	"context"
	"errors"
	"fmt"
)

// Kind は採番対象のエンティティ種別です。
// 値は advisory lock のキーにも使うため変更しないこと。
type Kind int32

const (
	KindCustomer Kind = 1
	KindOrder    Kind = 2
	KindProduct  Kind = 3
	KindStaff    Kind = 4
	KindCartLine Kind = 5 // scope = customer_id
)

var ErrUnknownKind = errors.New("identifier: unknown kind")

func (k Kind) String() string {
	switch k {
	case KindCustomer:
		return "customer"
	case KindOrder:
		return "order"
	case KindProduct:
		return "product"
	case KindStaff:
		return "staff"
	case KindCartLine:
		return "cart_line"
	default:
		return fmt.Sprintf("kind(%d)", int32(k))
	}
}

// Scoped reports whether ids of this kind are only unique within a scope.
func (k Kind) Scoped() bool {
	return k == KindCartLine
}

// Allocator hands out max(id)+1 for a kind inside the caller's transaction.
// Implementations must serialize concurrent calls for the same (kind, scope)
// until that transaction ends.
type Allocator interface {
	Next(ctx context.Context, kind Kind, scope int64) (int64, error)
}
