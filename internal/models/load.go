package models

import "time"

type LoadStatus string

const (
	LoadStatusPending   LoadStatus = "PENDING"
	LoadStatusAssigned  LoadStatus = "ASSIGNED"
	LoadStatusInTransit LoadStatus = "IN_TRANSIT"
	LoadStatusDelivered LoadStatus = "DELIVERED"
	LoadStatusCancelled LoadStatus = "CANCELLED"
)

var loadTransitions = map[LoadStatus][]LoadStatus{
	LoadStatusPending:   {LoadStatusAssigned, LoadStatusCancelled},
	LoadStatusAssigned:  {LoadStatusInTransit, LoadStatusCancelled},
	LoadStatusInTransit: {LoadStatusDelivered, LoadStatusCancelled},
}

// CanTransitionTo reports whether a load may move from s to next.
func (s LoadStatus) CanTransitionTo(next LoadStatus) bool {
	for _, allowed := range loadTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type Load struct {
	ID              int64      `json:"-" db:"id"`
	LoadID          string     `json:"load_id" db:"load_id"`
	TenantID        int64      `json:"-" db:"tenant_id"`
	ReferenceNumber string     `json:"reference_number" db:"reference_number"`
	CustomerName    string     `json:"customer_name" db:"customer_name"`
	Origin          string     `json:"origin" db:"origin"`
	Destination     string     `json:"destination" db:"destination"`
	PickupAt        *time.Time `json:"pickup_at" db:"pickup_at"`
	DeliveryAt      *time.Time `json:"delivery_at" db:"delivery_at"`
	WeightLbs       *float64   `json:"weight_lbs" db:"weight_lbs"`
	Commodity       *string    `json:"commodity" db:"commodity"`
	Status          LoadStatus `json:"status" db:"status"`
	DriverID        *string    `json:"driver_id" db:"driver_id"`
	VehicleID       *string    `json:"vehicle_id" db:"vehicle_id"`
	RateCents       *int64     `json:"rate_cents" db:"rate_cents"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at" db:"updated_at"`
}

// LoadDocument is a file attached to a load and stored in object storage.
type LoadDocument struct {
	DocumentID  string    `json:"document_id" db:"document_id"`
	LoadID      string    `json:"load_id" db:"load_id"`
	TenantID    int64     `json:"-" db:"tenant_id"`
	FileName    string    `json:"file_name" db:"file_name"`
	ContentType string    `json:"content_type" db:"content_type"`
	ObjectKey   string    `json:"-" db:"object_key"`
	SizeBytes   int64     `json:"size_bytes" db:"size_bytes"`
	DownloadURL string    `json:"download_url,omitempty" db:"-"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
