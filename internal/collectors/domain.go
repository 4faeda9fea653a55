package collectors

import "time"

// Collector is a waste-collection crew account.
type Collector struct {
	ID             string    `json:"_id"`
	FullName       string    `json:"fullName"`
	Email          string    `json:"email"`
	PhoneNumber    string    `json:"phoneNumber"`
	AddressLine1   string    `json:"addressLine1"`
	HouseNumber    string    `json:"houseNumber"`
	City           string    `json:"city"`
	TaxNumber      string    `json:"aTaxNumber"`
	PostalCode     string    `json:"postalCode"`
	ProfilePicture string    `json:"profilePicture"`
	VehicleType    string    `json:"vehicleType"`
	VehicleNumber  string    `json:"vehicleNumber"`
	IsOnline       bool      `json:"isOnline"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// RegisterCollectorForm carries a new collector registration.
type RegisterCollectorForm struct {
	FullName      string `validate:"required"`
	Email         string `validate:"required,email"`
	PhoneNumber   string `validate:"required"`
	Password      string `validate:"required"`
	AddressLine1  string
	HouseNumber   string
	City          string
	TaxNumber     string
	PostalCode    string
	VehicleType   string `validate:"required"`
	VehicleNumber string `validate:"required"`
}

// StatusForm toggles a collector's duty flag.
type StatusForm struct {
	IsOnline bool `json:"isOnline"`
}
