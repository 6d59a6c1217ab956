package domain

import "github.com/shopspring/decimal"

type Category struct {
	ID        string `db:"id" json:"id"`
	Name      string `db:"name" json:"name"`
	ImageURL  string `db:"image_url" json:"imageUrl"`
	CreatedAt string `db:"created_at" json:"createdAt"`
}

// Product prices are integer so'm. DiscountPrice, when set, is the final
// discounted price, always below Price.
type Product struct {
	ID            string          `db:"id" json:"id"`
	CategoryID    string          `db:"category_id" json:"categoryId"`
	Name          string          `db:"name" json:"name"`
	Description   string          `db:"description" json:"description,omitempty"`
	ImageURL      string          `db:"image_url" json:"imageUrl,omitempty"`
	Price         int64           `db:"price" json:"price"`
	DiscountPrice *int64          `db:"discount_price" json:"discountPrice,omitempty"`
	Unit          string          `db:"unit" json:"unit"` // dona | kg | litr
	Step          decimal.Decimal `db:"step" json:"step"`
	Stock         int64           `db:"stock" json:"stock"`
	IsAvailable   bool            `db:"is_available" json:"isAvailable"`
	IsPopular     bool            `db:"is_popular" json:"isPopular"`
	CreatedAt     string          `db:"created_at" json:"createdAt"`
	UpdatedAt     *string         `db:"updated_at" json:"updatedAt,omitempty"`
}

type Availability struct {
	Status string `json:"status"` // IN_STOCK | LOW_STOCK | OUT_OF_STOCK
	Stock  int64  `json:"stock,omitempty"`
}

// Profile is the shopper record keyed by a Telegram numeric id. Guest ids are
// client-minted numbers and carry no authority beyond display lookups.
type Profile struct {
	TelegramID int64  `db:"telegram_id" json:"telegramId"`
	Name       string `db:"name" json:"name"`
	Phone      string `db:"phone" json:"phone"`
	Points     int64  `db:"points" json:"points"`
	CreatedAt  string `db:"created_at" json:"createdAt"`
}

type Address struct {
	ID          string   `db:"id" json:"id"`
	UserID      int64    `db:"user_id" json:"userId"`
	Label       string   `db:"label" json:"label"`
	AddressText string   `db:"address_text" json:"addressText"`
	Lat         *float64 `db:"lat" json:"lat,omitempty"`
	Lng         *float64 `db:"lng" json:"lng,omitempty"`
	CreatedAt   string   `db:"created_at" json:"createdAt"`
}

// StaffUser is a courier or admin account with password login.
type StaffUser struct {
	ID    string `db:"id" json:"id"`
	Login string `db:"login" json:"login"`
	Name  string `db:"name" json:"name"`
	Hash  string `db:"password_hash" json:"-"`
	Role  Role   `db:"role" json:"role"`
}

type Role string

const (
	RoleShopper Role = "SHOPPER"
	RoleCourier Role = "COURIER"
	RoleAdmin   Role = "ADMIN"
)

// CourierStats are derived from the orders table, never stored.
type CourierStats struct {
	CourierID      string `db:"courier_id" json:"courierId"`
	Name           string `db:"name" json:"name"`
	AcceptedCount  int    `db:"accepted_count" json:"acceptedCount"`
	DeliveredCount int    `db:"delivered_count" json:"deliveredCount"`
}
