package http

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request and response bodies. Field names follow openapi.yaml.

type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Kind    string `json:"kind"`
}

type Customer struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

type NewOrderItem struct {
	ProductID  string          `json:"productId"`
	LocationID string          `json:"locationId,omitempty"`
	Name       string          `json:"name"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
}

type NewOrder struct {
	ID            *uuid.UUID     `json:"id,omitempty"`
	Customer      Customer       `json:"customer"`
	Currency      string         `json:"currency"`
	PaymentMethod string         `json:"paymentMethod,omitempty"`
	Items         []NewOrderItem `json:"items"`
}

type OrderItem struct {
	ProductID  string          `json:"productId"`
	LocationID string          `json:"locationId,omitempty"`
	Name       string          `json:"name"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
}

type Order struct {
	ID                 uuid.UUID       `json:"id"`
	Customer           Customer        `json:"customer"`
	Items              []OrderItem     `json:"items"`
	Total              decimal.Decimal `json:"total"`
	Currency           string          `json:"currency"`
	PaymentMethod      string          `json:"paymentMethod,omitempty"`
	PaymentStatus      string          `json:"paymentStatus"`
	Status             string          `json:"status"`
	DeliveryStatus     string          `json:"deliveryStatus,omitempty"`
	TrackingNumber     string          `json:"trackingNumber,omitempty"`
	Carrier            string          `json:"carrier,omitempty"`
	Version            int64           `json:"version"`
	NextExpectedAction string          `json:"nextExpectedAction"`
	CreatedAt          time.Time       `json:"createdAt"`
	UpdatedAt          time.Time       `json:"updatedAt"`
}

type OrderSummary struct {
	ID                 uuid.UUID       `json:"id"`
	CustomerID         string          `json:"customerId"`
	CustomerName       string          `json:"customerName"`
	ItemCount          int             `json:"itemCount"`
	Total              decimal.Decimal `json:"total"`
	Currency           string          `json:"currency"`
	PaymentStatus      string          `json:"paymentStatus"`
	Status             string          `json:"status"`
	DeliveryStatus     string          `json:"deliveryStatus,omitempty"`
	Version            int64           `json:"version"`
	NextExpectedAction string          `json:"nextExpectedAction"`
	CreatedAt          time.Time       `json:"createdAt"`
	UpdatedAt          time.Time       `json:"updatedAt"`
}

type OrderPage struct {
	Items   []OrderSummary `json:"items"`
	Page    int            `json:"page"`
	PerPage int            `json:"perPage"`
	Total   int64          `json:"total"`
}

type TransitionRequest struct {
	Action          string `json:"action"`
	Notes           string `json:"notes,omitempty"`
	TrackingNumber  string `json:"trackingNumber,omitempty"`
	Carrier         string `json:"carrier,omitempty"`
	ExpectedVersion *int64 `json:"expectedVersion,omitempty"`
}

type TransitionResponse struct {
	NewStatus      string   `json:"newStatus"`
	DeliveryStatus string   `json:"deliveryStatus,omitempty"`
	Version        int64    `json:"version"`
	Warnings       []string `json:"warnings"`
}

type HistoryEntry struct {
	ID             uuid.UUID `json:"id"`
	Sequence       int64     `json:"sequence"`
	Action         string    `json:"action"`
	Status         string    `json:"status"`
	DeliveryStatus string    `json:"deliveryStatus,omitempty"`
	Notes          string    `json:"notes,omitempty"`
	CreatedBy      string    `json:"createdBy"`
	CreatedAt      time.Time `json:"createdAt"`
}

type PaymentRequest struct {
	PaymentStatus   string `json:"paymentStatus"`
	ExpectedVersion *int64 `json:"expectedVersion,omitempty"`
}

type PaymentResponse struct {
	PaymentStatus string `json:"paymentStatus"`
	Version       int64  `json:"version"`
}

type StockUpdate struct {
	Quantity int `json:"quantity"`
}

type StockLevel struct {
	ProductID  string    `json:"productId"`
	LocationID string    `json:"locationId"`
	Quantity   int       `json:"quantity"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
