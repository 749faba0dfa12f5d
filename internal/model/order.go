package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the closed set of fulfillment states an order moves through.
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusConfirmed OrderStatus = "confirmed"
	StatusPreparing OrderStatus = "preparing"
	StatusShipped   OrderStatus = "shipped"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
)

// transitions maps each status to the set of statuses reachable from it.
// Intermediate states cannot be skipped; cancellation is allowed from any
// non-terminal state; delivered and cancelled are terminal.
var transitions = map[OrderStatus][]OrderStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusPreparing, StatusCancelled},
	StatusPreparing: {StatusShipped, StatusCancelled},
	StatusShipped:   {StatusDelivered, StatusCancelled},
	StatusDelivered: nil,
	StatusCancelled: nil,
}

func ParseOrderStatus(s string) (OrderStatus, error) {
	status := OrderStatus(s)
	if !status.Valid() {
		return "", fmt.Errorf("unknown order status %q", s)
	}
	return status, nil
}

func (s OrderStatus) Valid() bool {
	_, ok := transitions[s]
	return ok
}

func (s OrderStatus) Terminal() bool {
	return s.Valid() && len(transitions[s]) == 0
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// InvalidTransitionError reports an attempt to move an order to a status
// that is not reachable from its current one.
type InvalidTransitionError struct {
	From OrderStatus
	To   OrderStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("illegal status transition from %q to %q", e.From, e.To)
}

// ErrDeliveryDateNotAllowed is returned when an estimated delivery date is
// attached to a transition before the order ships.
var ErrDeliveryDateNotAllowed = errors.New("estimated delivery date may only be set when shipping or after")

// LineItem is one purchased position of an order, immutable once the order
// is placed. UnitPrice is a snapshot of the menu price at checkout time.
type LineItem struct {
	ID         string          `json:"id"`
	MenuItemID string          `json:"menu_item_id"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
}

type Order struct {
	ID                    string      `json:"id"`
	UserID                string      `json:"user_id"`
	Phone                 string      `json:"phone"`
	Status                OrderStatus `json:"status"`
	Items                 []LineItem  `json:"items"`
	EstimatedDeliveryDate *time.Time  `json:"estimated_delivery_date,omitempty"`
	CreatedAt             time.Time   `json:"created_at"`
}

// Transition returns a copy of the order moved to next, applying the
// optional estimated delivery date. It fails with *InvalidTransitionError
// when next is not reachable from the current status, and with
// ErrDeliveryDateNotAllowed when a date is attached to a transition that
// neither ships the order nor follows shipping.
func (o Order) Transition(next OrderStatus, deliveryDate *time.Time) (Order, error) {
	if !next.Valid() {
		return Order{}, fmt.Errorf("unknown order status %q", next)
	}
	if !o.Status.CanTransitionTo(next) {
		return Order{}, &InvalidTransitionError{From: o.Status, To: next}
	}
	if deliveryDate != nil && next != StatusShipped && o.Status != StatusShipped {
		return Order{}, ErrDeliveryDateNotAllowed
	}
	o.Status = next
	if deliveryDate != nil {
		o.EstimatedDeliveryDate = deliveryDate
	}
	return o, nil
}
