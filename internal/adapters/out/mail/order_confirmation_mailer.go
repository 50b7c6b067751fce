package mail

import (
	"context"
	"fmt"
	"strings"

	usecase "github.com/HsiaoHungKai/myDonut/internal/application/usecase"
)

// OrderConfirmationMailer sends a plain-text confirmation to the customer
// when an order is placed. Other order events are ignored.
type OrderConfirmationMailer struct {
	client      EmailClient
	fromAddress string
}

func NewOrderConfirmationMailer(client EmailClient, fromAddress string) *OrderConfirmationMailer {
	return &OrderConfirmationMailer{client: client, fromAddress: strings.TrimSpace(fromAddress)}
}

var _ usecase.OrderEventSink = (*OrderConfirmationMailer)(nil)

func (m *OrderConfirmationMailer) Publish(ctx context.Context, ev usecase.OrderEvent) error {
	if ev.Type != usecase.OrderPlaced {
		return nil
	}
	to := strings.TrimSpace(ev.Customer.Email)
	if to == "" {
		return fmt.Errorf("order_confirmation_mailer: customer %d has no email", ev.Detail.CustomerID)
	}
	subject, body := renderConfirmation(ev)
	return m.client.Send(ctx, m.fromAddress, to, subject, body)
}

func renderConfirmation(ev usecase.OrderEvent) (subject, body string) {
	d := ev.Detail
	subject = fmt.Sprintf("Order #%d confirmed", ev.OrderID)

	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\nThanks for your order. Here is your receipt.\n\n", ev.Customer.Name)
	fmt.Fprintf(&b, "Order #%d  (%s)\n\n", ev.OrderID, d.PlacedAt.UTC().Format("2006-01-02 15:04 MST"))
	for _, l := range d.Lines {
		fmt.Fprintf(&b, "  %-32s x%-3d %s\n", l.ProductName, l.Quantity, formatAmount(l.LineTotal))
	}
	fmt.Fprintf(&b, "\n  Items: %d\n  Total: %s\n", d.TotalItems, formatAmount(d.TotalAmount))
	return subject, b.String()
}

// formatAmount renders minor units as a decimal amount.
func formatAmount(minor int64) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	return fmt.Sprintf("%s%d.%02d", sign, minor/100, minor%100)
}
