// Package market talks to the marketplace backend's REST API and provides
// the list aggregations the front end renders: meal search, grouped orders,
// review stats, top brands.
package market

import "time"

// Category is a meal category from the catalog.
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Meal is a catalog entry owned by a provider.
type Meal struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Price       float64     `json:"price"`
	Quantity    string      `json:"quantity"`
	ImageURL    string      `json:"imageUrl"`
	CategoryID  string      `json:"categoryId"`
	ProviderID  string      `json:"providerId"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
	Category    *Category   `json:"category,omitempty"`
	Provider    *MealSeller `json:"provider,omitempty"`
}

// MealSeller is the provider summary embedded in meal payloads.
type MealSeller struct {
	ProviderName  string `json:"providerName"`
	ProviderEmail string `json:"providerEmail"`
}

// OrderStatus is the backend's order lifecycle state.
type OrderStatus string

const (
	OrderPreparing OrderStatus = "PREPARING"
	OrderReady     OrderStatus = "READY"
	OrderDelivered OrderStatus = "DELIVERED"
	OrderCancelled OrderStatus = "CANCELLED"
)

// PaymentMethod is how the customer pays.
type PaymentMethod string

const (
	PayCashOnDelivery PaymentMethod = "CASHONDELIVERY"
	PayOther          PaymentMethod = "OTHERS"
)

// Order as returned by the backend, with the nested meal/provider detail the
// order history pages render.
type Order struct {
	ID            string        `json:"id"`
	Status        OrderStatus   `json:"status"`
	Quantity      int           `json:"quantity"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	UserID        string        `json:"userId"`
	MealID        string        `json:"mealId"`
	Meal          *OrderMeal    `json:"meal,omitempty"`
	Reviews       []Review      `json:"reviews,omitempty"`
}

// OrderMeal is the meal summary embedded in an order.
type OrderMeal struct {
	Name     string         `json:"name"`
	Price    float64        `json:"price"`
	ImageURL string         `json:"imageUrl"`
	Provider *OrderProvider `json:"provider,omitempty"`
}

// OrderProvider wraps the provider's user record inside an order payload.
type OrderProvider struct {
	User OrderProviderUser `json:"user"`
}

// OrderProviderUser is the display identity of the selling provider.
type OrderProviderUser struct {
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}

// CreateOrder is the order submission payload.
type CreateOrder struct {
	MealID        string        `json:"mealId"`
	UserID        string        `json:"userId"`
	Quantity      int           `json:"quantity"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
}

// Review is a customer review attached to a delivered order.
type Review struct {
	ID          string    `json:"id"`
	ReviewPoint int       `json:"reviewPoint"`
	Comment     string    `json:"comment,omitempty"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	OrderID     string    `json:"orderId"`
}

// CreateReview is the review submission payload.
type CreateReview struct {
	OrderID     string `json:"orderId"`
	ReviewPoint int    `json:"reviewPoint"`
	Comment     string `json:"comment,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
}

// ReviewStats summarizes a meal's reviews.
type ReviewStats struct {
	TotalReviews  int     `json:"totalReviews"`
	AverageRating float64 `json:"averageRating"`
}

// Brand is a provider account with its profile, as listed on the top-brands
// page.
type Brand struct {
	ID      string       `json:"id"`
	Name    string       `json:"name"`
	Email   string       `json:"email"`
	Image   string       `json:"image,omitempty"`
	Profile BrandProfile `json:"providerProfile"`
}

// BrandProfile is the provider profile with its meal count.
type BrandProfile struct {
	ID              string `json:"id"`
	ProviderName    string `json:"providerName"`
	ProviderEmail   string `json:"providerEmail"`
	ProviderContact string `json:"providerContact,omitempty"`
	ProviderAddress string `json:"providerAddress,omitempty"`
	Count           struct {
		Meals int `json:"meals"`
	} `json:"_count"`
}
