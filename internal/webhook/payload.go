package webhook

import (
	json "github.com/goccy/go-json"
)

// Price is an amount in a currency. Value keeps the delivered literal.
type Price struct {
	Value    json.Number `json:"value"`
	Currency string      `json:"currency"`
}

type OrderCustomer struct {
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

type OrderCourier struct {
	ID        string `json:"id,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

type OrderItemAttribute struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name,omitempty"`
	SKU      string `json:"sku,omitempty"`
	OfferID  string `json:"offerId,omitempty"`
	Quantity *int   `json:"quantity,omitempty"`
	Price    *Price `json:"price,omitempty"`
}

type OrderItemCancellation struct {
	Actor      string `json:"actor,omitempty"`
	Quantity   *int   `json:"quantity,omitempty"`
	Reason     string `json:"reason,omitempty"`
	ReasonText string `json:"reasonText,omitempty"`
	CreatedAt  string `json:"createdAt,omitempty"`
}

type OrderItem struct {
	ID                string                  `json:"id,omitempty"`
	ProductID         string                  `json:"productId,omitempty"`
	OfferID           string                  `json:"offerId,omitempty"`
	SKU               string                  `json:"sku,omitempty"`
	Name              string                  `json:"name,omitempty"`
	QuantityOrdered   *int                    `json:"quantityOrdered,omitempty"`
	QuantityFulfilled *int                    `json:"quantityFulfilled,omitempty"`
	ItemPrice         *Price                  `json:"itemPrice,omitempty"`
	ListPrice         *Price                  `json:"listPrice,omitempty"`
	NetPrice          *Price                  `json:"netPrice,omitempty"`
	Attributes        []OrderItemAttribute    `json:"attributes,omitempty"`
	Cancellations     []OrderItemCancellation `json:"cancellations,omitempty"`
}

// Order is the payload of the order events. Promos are kept untyped.
type Order struct {
	ID                   string                       `json:"id"`
	Number               string                       `json:"number,omitempty"`
	StoreID              string                       `json:"storeId,omitempty"`
	Status               OrderStatus                  `json:"status,omitempty"`
	ListPrice            *Price                       `json:"listPrice,omitempty"`
	NetPrice             *Price                       `json:"netPrice,omitempty"`
	Comment              string                       `json:"comment,omitempty"`
	EstimatedCookingTime *int                         `json:"estimatedCookingTime,omitempty"`
	Items                []OrderItem                  `json:"items,omitempty"`
	Customer             *OrderCustomer               `json:"customer,omitempty"`
	Courier              *OrderCourier                `json:"courier,omitempty"`
	Promos               []map[string]json.RawMessage `json:"promos,omitempty"`
	CreatedAt            string                       `json:"createdAt,omitempty"`
	UpdatedAt            string                       `json:"updatedAt,omitempty"`
	IsTest               *bool                        `json:"isTest,omitempty"`
}

// StoreAvailability is the payload of StoreAvailabilityChanged.
type StoreAvailability struct {
	ID      string `json:"id"`
	Company struct {
		ID string `json:"id"`
	} `json:"company"`
	Availability struct {
		Open bool `json:"open"`
	} `json:"availability"`
}
