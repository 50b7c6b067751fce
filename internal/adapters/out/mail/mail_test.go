package mail

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sendgrid/rest"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	usecase "github.com/HsiaoHungKai/myDonut/internal/application/usecase"
	customerdom "github.com/HsiaoHungKai/myDonut/internal/domain/customer"
	orderdom "github.com/HsiaoHungKai/myDonut/internal/domain/order"
)

type sentMail struct {
	from, to, subject, body string
}

type fakeClient struct {
	sent []sentMail
	err  error
}

func (f *fakeClient) Send(_ context.Context, from, to, subject, body string) error {
	f.sent = append(f.sent, sentMail{from, to, subject, body})
	return f.err
}

func placedEvent() usecase.OrderEvent {
	return usecase.OrderEvent{
		Type:    usecase.OrderPlaced,
		OrderID: 7,
		Detail: orderdom.Detail{
			Order: orderdom.Order{ID: 7, CustomerID: 1, PlacedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)},
			Lines: []orderdom.DetailLine{
				{LineID: 1, ProductID: 1, ProductName: "Kind of Blue", UnitPrice: 1999, Quantity: 2, LineTotal: 3998},
				{LineID: 2, ProductID: 2, ProductName: "Blue Train", UnitPrice: 1500, Quantity: 1, LineTotal: 1500},
			},
			TotalItems:  3,
			TotalAmount: 5498,
		},
		Customer: customerdom.Customer{ID: 1, Name: "Miles Davis", Email: "miles@example.com"},
	}
}

func TestOrderConfirmationMailer_SendsOnPlaced(t *testing.T) {
	fc := &fakeClient{}
	m := NewOrderConfirmationMailer(fc, " shop@example.com ")

	require.NoError(t, m.Publish(context.Background(), placedEvent()))

	require.Len(t, fc.sent, 1)
	got := fc.sent[0]
	assert.Equal(t, "shop@example.com", got.from)
	assert.Equal(t, "miles@example.com", got.to)
	assert.Equal(t, "Order #7 confirmed", got.subject)
	assert.Contains(t, got.body, "Hi Miles Davis")
	assert.Contains(t, got.body, "Kind of Blue")
	assert.Contains(t, got.body, "Total: 54.98")
}

func TestOrderConfirmationMailer_IgnoresOtherEvents(t *testing.T) {
	fc := &fakeClient{}
	m := NewOrderConfirmationMailer(fc, "shop@example.com")

	for _, typ := range []usecase.OrderEventType{usecase.OrderUpdated, usecase.OrderDeleted} {
		ev := placedEvent()
		ev.Type = typ
		require.NoError(t, m.Publish(context.Background(), ev))
	}
	assert.Empty(t, fc.sent)
}

func TestOrderConfirmationMailer_Errors(t *testing.T) {
	fc := &fakeClient{err: errors.New("smtp down")}
	m := NewOrderConfirmationMailer(fc, "shop@example.com")

	assert.Error(t, m.Publish(context.Background(), placedEvent()))

	ev := placedEvent()
	ev.Customer.Email = ""
	fc.err = nil
	assert.Error(t, m.Publish(context.Background(), ev))
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "0.05", formatAmount(5))
	assert.Equal(t, "19.99", formatAmount(1999))
	assert.Equal(t, "-1.50", formatAmount(-150))
}

func TestSendGridClient_Send(t *testing.T) {
	c := NewSendGridClient("SG.test", "Donut Records")
	var captured *sgmail.SGMailV3
	c.send = func(_ context.Context, m *sgmail.SGMailV3) (*rest.Response, error) {
		captured = m
		return &rest.Response{StatusCode: 202}, nil
	}

	require.NoError(t, c.Send(context.Background(), "shop@example.com", "miles@example.com", "hi", "<b>x</b>"))
	require.NotNil(t, captured)
	assert.Equal(t, "Donut Records", captured.From.Name)
	assert.Equal(t, "hi", captured.Subject)

	c.send = func(context.Context, *sgmail.SGMailV3) (*rest.Response, error) {
		return &rest.Response{StatusCode: 401, Body: "unauthorized"}, nil
	}
	assert.Error(t, c.Send(context.Background(), "shop@example.com", "miles@example.com", "hi", "x"))
}

func TestSendGridClient_ValidatesInput(t *testing.T) {
	assert.Error(t, NewSendGridClient("", "x").Send(context.Background(), "a@b.c", "d@e.f", "s", "b"))
	assert.Error(t, NewSendGridClient("k", "x").Send(context.Background(), "", "d@e.f", "s", "b"))
	assert.Error(t, NewSendGridClient("k", "x").Send(context.Background(), "a@b.c", "", "s", "b"))
}
