// Package webhook provides the event model of merchant platform webhook deliveries.
package webhook

import (
	"slices"
)

// Event is the label carried by a delivery envelope.
type Event string

const (
	// OrderNew is delivered when a new order is created.
	OrderNew Event = "order.new"
	// OrderItemChanged is delivered when an item of an order is modified.
	OrderItemChanged Event = "order.item.changed"
	// OrderStatusChanged is delivered when the status of an order changes.
	OrderStatusChanged Event = "order.status.changed"
	// OrderCourierAssigned is delivered when a courier is assigned to an order.
	OrderCourierAssigned Event = "order.courier.assigned"
	// StoreAvailabilityChanged carries a StoreAvailability payload. The platform documents
	// the payload but not its event label; this name is assumed, so the event is left out
	// of DefaultEvents and must be enabled explicitly.
	StoreAvailabilityChanged Event = "store.availability.changed"
)

// DefaultEvents lists the events accepted when none are configured.
var DefaultEvents = []Event{
	OrderNew,
	OrderItemChanged,
	OrderStatusChanged,
	OrderCourierAssigned,
}

// Events lists every event known to this package.
var Events = []Event{
	OrderNew,
	OrderItemChanged,
	OrderStatusChanged,
	OrderCourierAssigned,
	StoreAvailabilityChanged,
}

// Known reports whether e is one of Events.
func (e Event) Known() bool {
	return slices.Contains(Events, e)
}

func (e Event) String() string {
	return string(e)
}

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusNew                 OrderStatus = "new"
	OrderStatusPreparation         OrderStatus = "preparation"
	OrderStatusReadyForDelivery    OrderStatus = "ready_for_delivery"
	OrderStatusDeliveryInProgress  OrderStatus = "delivery_in_progress"
	OrderStatusDelivered           OrderStatus = "delivered"
	OrderStatusCanceled            OrderStatus = "canceled"
	OrderStatusPartialFulfilment   OrderStatus = "partial_fulfilment"
	OrderStatusRequestCancellation OrderStatus = "request_cancellation"
)
