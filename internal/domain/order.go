package domain

import "github.com/shopspring/decimal"

type OrderStatus string

const (
	StatusNew       OrderStatus = "new"
	StatusPending   OrderStatus = "pending"
	StatusDelivered OrderStatus = "delivered"
	StatusCanceled  OrderStatus = "canceled"
)

func IsValidStatus(s OrderStatus) bool {
	switch s {
	case StatusNew, StatusPending, StatusDelivered, StatusCanceled:
		return true
	default:
		return false
	}
}

// CanTransition reports whether an order may move from one status to another.
// new -> pending|canceled, pending -> delivered|canceled; delivered and
// canceled are terminal.
func CanTransition(from, to OrderStatus) bool {
	switch from {
	case StatusNew:
		return to == StatusPending || to == StatusCanceled
	case StatusPending:
		return to == StatusDelivered || to == StatusCanceled
	default:
		return false
	}
}

func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCanceled
}

// Order. TotalPrice is the sum of PriceAtTime*Quantity over items; the
// delivery fee is a cart-presentation concern and is never folded in here.
type Order struct {
	ID          string          `db:"id" json:"id"`
	UserID      *int64          `db:"user_id" json:"userId,omitempty"`
	CourierID   *string         `db:"courier_id" json:"courierId,omitempty"`
	TotalPrice  decimal.Decimal `db:"total_price" json:"totalPrice"`
	Status      OrderStatus     `db:"status" json:"status"`
	AddressText string          `db:"address_text" json:"addressText"`
	Lat         *float64        `db:"lat" json:"lat,omitempty"`
	Lng         *float64        `db:"lng" json:"lng,omitempty"`
	Phone       string          `db:"phone" json:"phone"`
	Comment     string          `db:"comment" json:"comment,omitempty"`
	CreatedAt   string          `db:"created_at" json:"createdAt"`
	AcceptedAt  *string         `db:"accepted_at" json:"acceptedAt,omitempty"`
	DeliveredAt *string         `db:"delivered_at" json:"deliveredAt,omitempty"`

	Items []OrderItem `json:"items,omitempty"`
}

// OrderItem freezes the effective unit price at order creation; later catalog
// edits never touch it.
type OrderItem struct {
	OrderID     string          `db:"order_id" json:"-"`
	ProductID   string          `db:"product_id" json:"productId"`
	Name        string          `db:"name" json:"name"`
	Quantity    decimal.Decimal `db:"qty" json:"quantity"`
	Unit        string          `db:"unit" json:"unit"`
	PriceAtTime int64           `db:"price_at_time" json:"priceAtTime"`
}

func (it OrderItem) LineTotal() decimal.Decimal {
	return decimal.NewFromInt(it.PriceAtTime).Mul(it.Quantity)
}

// CashbackRate is the loyalty accrual on delivered orders: 1% of the total,
// floored to whole points.
var CashbackRate = decimal.NewFromFloat(0.01)

func CashbackPoints(total decimal.Decimal) int64 {
	return total.Mul(CashbackRate).Floor().IntPart()
}
