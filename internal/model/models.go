// Package model defines the records shared across the api service.
// Field names follow the snake_case columns of the PostgreSQL schema.
package model

import (
	"encoding/json"
	"time"
)

// Property is a tracked real-estate asset.
type Property struct {
	ID            string          `json:"id"`
	TenantID      string          `json:"tenant_id"`
	Status        string          `json:"status"`
	Address       *string         `json:"address"`
	City          *string         `json:"city"`
	State         *string         `json:"state"`
	Zip           *string         `json:"zip"`
	PropertyType  *string         `json:"property_type"`
	Bedrooms      *int            `json:"bedrooms"`
	Bathrooms     *float64        `json:"bathrooms"`
	Sqft          *int            `json:"sqft"`
	PurchasePrice *float64        `json:"purchase_price"`
	CurrentValue  *float64        `json:"current_value"`
	Attributes    json.RawMessage `json:"attributes"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// BuyBox is a saved set of investment criteria used to score deals.
// Nil range bounds are unconstrained.
type BuyBox struct {
	ID             string    `json:"id"`
	TenantID       string    `json:"tenant_id"`
	UserID         *string   `json:"user_id"`
	Name           string    `json:"name"`
	MinPrice       *float64  `json:"min_price"`
	MaxPrice       *float64  `json:"max_price"`
	MinBeds        *int      `json:"min_beds"`
	MaxBeds        *int      `json:"max_beds"`
	MinBaths       *float64  `json:"min_baths"`
	MaxBaths       *float64  `json:"max_baths"`
	MinSqft        *int      `json:"min_sqft"`
	MaxSqft        *int      `json:"max_sqft"`
	Strategy       string    `json:"strategy"`
	Locations      []string  `json:"locations"`
	AlertFrequency string    `json:"alert_frequency"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// DealMatch links a buy box to a deal with a 0-100 compatibility score.
type DealMatch struct {
	ID         string    `json:"id"`
	BuyBoxID   string    `json:"buy_box_id"`
	DealID     string    `json:"deal_id"`
	MatchScore float64   `json:"match_score"`
	CreatedAt  time.Time `json:"created_at"`
}

// MatchThreshold is the minimum score for a DealMatch to count as a match.
const MatchThreshold = 50

// MatchCount is one row of the match-count aggregation.
type MatchCount struct {
	BuyBoxID string `json:"buy_box_id"`
	Count    int    `json:"count"`
}

// Deal is a card on the acquisition pipeline.
type Deal struct {
	ID          string          `json:"id"`
	TenantID    string          `json:"tenant_id"`
	PropertyID  *string         `json:"property_id"`
	Title       string          `json:"title"`
	Address     *string         `json:"address"`
	City        *string         `json:"city"`
	AskingPrice *float64        `json:"asking_price"`
	Bedrooms    *int            `json:"bedrooms"`
	Bathrooms   *float64        `json:"bathrooms"`
	Sqft        *int            `json:"sqft"`
	Strategy    *string         `json:"strategy"`
	Stage       string          `json:"stage"`
	HistoryLog  json.RawMessage `json:"history_log"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Lead is a prospective seller or buyer contact.
type Lead struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenant_id"`
	Name      string    `json:"name"`
	Email     *string   `json:"email"`
	Phone     *string   `json:"phone"`
	Source    *string   `json:"source"`
	Status    string    `json:"status"`
	Notes     *string   `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
}

// Vendor is a contractor or service provider.
type Vendor struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenant_id"`
	Name      string    `json:"name"`
	Category  *string   `json:"category"`
	Email     *string   `json:"email"`
	Phone     *string   `json:"phone"`
	Notes     *string   `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
}

// NotificationType mirrors the notification_type enum in PostgreSQL.
type NotificationType string

const (
	NotificationInfo        NotificationType = "info"
	NotificationSuccess     NotificationType = "success"
	NotificationWarning     NotificationType = "warning"
	NotificationError       NotificationType = "error"
	NotificationMaintenance NotificationType = "maintenance"
	NotificationPayment     NotificationType = "payment"
	NotificationLease       NotificationType = "lease"
	NotificationLead        NotificationType = "lead"
)

// Valid reports whether t is one of the known notification types.
func (t NotificationType) Valid() bool {
	switch t {
	case NotificationInfo, NotificationSuccess, NotificationWarning, NotificationError,
		NotificationMaintenance, NotificationPayment, NotificationLease, NotificationLead:
		return true
	}
	return false
}

// Notification is a typed message scoped to a tenant and optionally a user.
type Notification struct {
	ID        string           `json:"id"`
	TenantID  string           `json:"tenant_id"`
	UserID    *string          `json:"user_id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   *string          `json:"message"`
	Link      *string          `json:"link"`
	IsRead    bool             `json:"is_read"`
	CreatedAt time.Time        `json:"created_at"`
}

// User is a dashboard account within a tenant.
type User struct {
	ID       string `json:"id"`
	TenantID string `json:"tenant_id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}
