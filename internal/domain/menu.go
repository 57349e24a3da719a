package domain

import "time"

// Category groups products on a restaurant's menu.
type Category struct {
	ID             string
	RestaurantSlug string
	Name           string
	Position       int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Product is a menu item offered by a restaurant.
type Product struct {
	ID             string
	RestaurantSlug string
	CategoryID     *string
	Name           string
	Description    *string
	Price          float64
	Image          *string
	Available      bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
