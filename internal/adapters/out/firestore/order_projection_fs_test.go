package firestore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	usecase "github.com/HsiaoHungKai/myDonut/internal/application/usecase"
	customerdom "github.com/HsiaoHungKai/myDonut/internal/domain/customer"
	orderdom "github.com/HsiaoHungKai/myDonut/internal/domain/order"
)

func TestOrderDocFromEvent(t *testing.T) {
	staff := int64(3)
	at := time.Date(2024, 5, 1, 21, 0, 0, 0, time.FixedZone("JST", 9*60*60))
	ev := usecase.OrderEvent{
		Type:    usecase.OrderPlaced,
		OrderID: 12,
		Detail: orderdom.Detail{
			Order: orderdom.Order{ID: 12, CustomerID: 4, StaffID: &staff, PlacedAt: at},
			Lines: []orderdom.DetailLine{
				{LineID: 1, ProductID: 7, ProductName: "Kind of Blue", UnitPrice: 1999, Quantity: 2, LineTotal: 3998},
			},
			TotalItems:  2,
			TotalAmount: 3998,
		},
		Customer: customerdom.Customer{ID: 4, Name: "Miles Davis"},
	}

	doc := orderDocFromEvent(ev)

	assert.Equal(t, int64(12), doc.OrderID)
	assert.Equal(t, "Miles Davis", doc.CustomerName)
	require.NotNil(t, doc.StaffID)
	assert.Equal(t, int64(3), *doc.StaffID)
	assert.Equal(t, time.UTC, doc.PlacedAt.Location())
	assert.True(t, doc.PlacedAt.Equal(at))
	require.Len(t, doc.Lines, 1)
	assert.Equal(t, int64(3998), doc.Lines[0].LineTotal)
	assert.Equal(t, "order.placed", doc.LastEvent)
}

func TestNewOrderProjectionFS_DefaultCollection(t *testing.T) {
	assert.Equal(t, "orders", NewOrderProjectionFS(nil, " ").Collection)
	assert.Equal(t, "order_history", NewOrderProjectionFS(nil, "order_history").Collection)
	assert.Equal(t, "42", docID(42))
}

func TestOrderProjectionFS_RequiresClient(t *testing.T) {
	err := NewOrderProjectionFS(nil, "").Publish(context.Background(), usecase.OrderEvent{Type: usecase.OrderDeleted, OrderID: 1})
	assert.Error(t, err)
}
