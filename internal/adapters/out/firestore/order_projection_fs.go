package firestore

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	usecase "github.com/HsiaoHungKai/myDonut/internal/application/usecase"
)

// OrderProjectionFS mirrors committed orders into Firestore for read-only
// consumers (order history screens, back-office dashboards).
//
// Collection design:
// - collection: orders (ORDERS_COLLECTION)
// - docId: order id (decimal)
// - fields: see orderDoc
//
// PostgreSQL は常に正であり、このコレクションは再生成可能な写しです。
type OrderProjectionFS struct {
	Client     *firestore.Client
	Collection string
}

func NewOrderProjectionFS(client *firestore.Client, collection string) *OrderProjectionFS {
	c := strings.TrimSpace(collection)
	if c == "" {
		c = "orders"
	}
	return &OrderProjectionFS{Client: client, Collection: c}
}

var _ usecase.OrderEventSink = (*OrderProjectionFS)(nil)

func (r *OrderProjectionFS) Publish(ctx context.Context, ev usecase.OrderEvent) error {
	if r == nil || r.Client == nil {
		return errors.New("order_projection_fs: firestore client is nil")
	}
	doc := r.Client.Collection(r.Collection).Doc(docID(ev.OrderID))

	switch ev.Type {
	case usecase.OrderPlaced, usecase.OrderUpdated:
		_, err := doc.Set(ctx, orderDocFromEvent(ev))
		return err
	case usecase.OrderDeleted:
		_, err := doc.Delete(ctx)
		if status.Code(err) == codes.NotFound {
			return nil
		}
		return err
	default:
		return nil
	}
}

type orderLineDoc struct {
	LineID      int64  `firestore:"lineId"`
	ProductID   int64  `firestore:"productId"`
	ProductName string `firestore:"productName"`
	UnitPrice   int64  `firestore:"unitPrice"`
	Quantity    int    `firestore:"quantity"`
	LineTotal   int64  `firestore:"lineTotal"`
}

type orderDoc struct {
	OrderID      int64          `firestore:"orderId"`
	CustomerID   int64          `firestore:"customerId"`
	CustomerName string         `firestore:"customerName"`
	StaffID      *int64         `firestore:"staffId"`
	PlacedAt     time.Time      `firestore:"placedAt"`
	Lines        []orderLineDoc `firestore:"lines"`
	TotalItems   int            `firestore:"totalItems"`
	TotalAmount  int64          `firestore:"totalAmount"`
	LastEvent    string         `firestore:"lastEvent"`
}

func orderDocFromEvent(ev usecase.OrderEvent) orderDoc {
	d := ev.Detail
	out := orderDoc{
		OrderID:      ev.OrderID,
		CustomerID:   d.CustomerID,
		CustomerName: ev.Customer.Name,
		StaffID:      d.StaffID,
		PlacedAt:     d.PlacedAt.UTC(),
		Lines:        make([]orderLineDoc, 0, len(d.Lines)),
		TotalItems:   d.TotalItems,
		TotalAmount:  d.TotalAmount,
		LastEvent:    string(ev.Type),
	}
	for _, l := range d.Lines {
		out.Lines = append(out.Lines, orderLineDoc{
			LineID:      l.LineID,
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			UnitPrice:   l.UnitPrice,
			Quantity:    l.Quantity,
			LineTotal:   l.LineTotal,
		})
	}
	return out
}

func docID(orderID int64) string {
	return strconv.FormatInt(orderID, 10)
}
