// Package orderrepo maps the order aggregate and its line items onto the
// orders and order_items tables.
package orderrepo

import (
	"errors"
	"time"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderDTO is one row of the orders table. Statuses are stored by name.
type OrderDTO struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Customer       CustomerDTO     `gorm:"embedded;embeddedPrefix:customer_"`
	Address        string          `gorm:"type:text"`
	Total          decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Currency       string          `gorm:"type:varchar(3);not null"`
	PaymentMethod  string          `gorm:"type:varchar(64)"`
	PaymentStatus  string          `gorm:"type:varchar(16);not null;index"`
	Status         string          `gorm:"type:varchar(16);not null;index"`
	DeliveryStatus *string         `gorm:"type:varchar(24);index"`
	TrackingNumber string          `gorm:"type:varchar(128)"`
	Carrier        string          `gorm:"type:varchar(128)"`
	Version        int64           `gorm:"not null"`
	CreatedAt      time.Time       `gorm:"not null;index"`
	UpdatedAt      time.Time       `gorm:"not null"`

	Items []OrderItemDTO `gorm:"foreignKey:OrderID;references:ID;constraint:OnDelete:CASCADE"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

// CustomerDTO is the customer snapshot embedded in the order row.
type CustomerDTO struct {
	ID    string `gorm:"type:varchar(64);not null;index"`
	Name  string `gorm:"type:varchar(255);not null"`
	Email string `gorm:"type:varchar(255)"`
	Phone string `gorm:"type:varchar(64)"`
}

// OrderItemDTO is one line item. Position keeps the order the items were
// placed in.
type OrderItemDTO struct {
	ID         uint            `gorm:"primaryKey"`
	OrderID    uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_order_item_position"`
	Position   int             `gorm:"not null;uniqueIndex:idx_order_item_position"`
	ProductID  string          `gorm:"type:varchar(64);not null"`
	LocationID string          `gorm:"type:varchar(64)"`
	Name       string          `gorm:"type:varchar(255)"`
	Quantity   int             `gorm:"not null"`
	UnitPrice  decimal.Decimal `gorm:"type:numeric(14,2);not null"`
}

func (OrderItemDTO) TableName() string {
	return "order_items"
}

func fromDomain(o *order.Order) OrderDTO {
	c := o.Customer()
	dto := OrderDTO{
		ID: o.ID().Bytes(),
		Customer: CustomerDTO{
			ID:    c.ID(),
			Name:  c.Name(),
			Email: c.Email(),
			Phone: c.Phone(),
		},
		Address:        c.Address(),
		Total:          o.Total().Amount(),
		Currency:       o.Total().Currency(),
		PaymentMethod:  o.PaymentMethod(),
		PaymentStatus:  o.PaymentStatus().String(),
		Status:         o.Status().String(),
		DeliveryStatus: deliveryColumn(o.DeliveryStatus()),
		TrackingNumber: o.TrackingNumber(),
		Carrier:        o.Carrier(),
		Version:        o.Version(),
		CreatedAt:      o.CreatedAt(),
		UpdatedAt:      o.UpdatedAt(),
	}

	for i, item := range o.Items() {
		dto.Items = append(dto.Items, OrderItemDTO{
			OrderID:    dto.ID,
			Position:   i,
			ProductID:  item.ProductID(),
			LocationID: item.LocationID(),
			Name:       item.Name(),
			Quantity:   item.Quantity(),
			UnitPrice:  item.UnitPrice().Amount(),
		})
	}

	return dto
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	customer, err := order.NewCustomer(dto.Customer.ID, dto.Customer.Name, dto.Customer.Email, dto.Customer.Phone, dto.Address)
	if err != nil {
		return nil, err
	}

	total, err := kernel.NewMoney(dto.Total, dto.Currency)
	if err != nil {
		return nil, err
	}

	items := make([]order.LineItem, 0, len(dto.Items))
	for _, it := range dto.Items {
		price, err := kernel.NewMoney(it.UnitPrice, dto.Currency)
		if err != nil {
			return nil, err
		}
		item, err := order.NewLineItem(it.ProductID, it.LocationID, it.Name, it.Quantity, price)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	status, errStatus := order.ParseStatus(dto.Status)
	payment, errPayment := order.ParsePaymentStatus(dto.PaymentStatus)
	var delivery order.DeliveryStatus
	var errDelivery error
	if dto.DeliveryStatus != nil {
		delivery, errDelivery = order.ParseDeliveryStatus(*dto.DeliveryStatus)
	}
	if err := errors.Join(errStatus, errPayment, errDelivery); err != nil {
		return nil, err
	}

	return order.RestoreOrder(order.Snapshot{
		ID:             id,
		Customer:       customer,
		Items:          items,
		Total:          total,
		PaymentMethod:  dto.PaymentMethod,
		PaymentStatus:  payment,
		Status:         status,
		Delivery:       delivery,
		TrackingNumber: dto.TrackingNumber,
		Carrier:        dto.Carrier,
		Version:        dto.Version,
		CreatedAt:      dto.CreatedAt,
		UpdatedAt:      dto.UpdatedAt,
	})
}

func deliveryColumn(d order.DeliveryStatus) *string {
	if !d.IsSet() {
		return nil
	}
	s := d.String()
	return &s
}
