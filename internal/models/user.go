// Package models defines the data structures that map to database tables
// and provides the core types used throughout the application.
package models

// User represents a storefront customer. Users own orders.
type User struct {
	ID       int     `json:"id"`
	UserName string  `json:"user_name"`
	FullName *string `json:"full_name,omitempty"`
	Email    *string `json:"email,omitempty"`

	// Populated by store methods that eager-load orders.
	Orders []Order `json:"orders,omitempty"`
}
