package model

import "time"

// Customer represents a purchaser, either registered or guest.
type Customer struct {
	ID        int64
	UserID    *int64
	FirstName string
	LastName  string
	Email     string
	Phone     string
	IsGuest   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ContactInfo carries contact details submitted together with an order.
type ContactInfo struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
}
