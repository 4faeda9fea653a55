package dwellers

import "time"

// Dweller is a resident account served by the collection service.
type Dweller struct {
	ID             string    `json:"_id"`
	FullName       string    `json:"fullName"`
	Email          string    `json:"email"`
	PhoneNumber    string    `json:"phoneNumber"`
	AddressLine1   string    `json:"addressLine1"`
	HouseNumber    string    `json:"houseNumber"`
	City           string    `json:"city"`
	PostalCode     string    `json:"postalCode"`
	ProfilePicture string    `json:"profilePicture"`
	IsActive       bool      `json:"isActive"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// CreateDwellerForm carries a new resident registration. The profile
// picture travels separately as a file part.
type CreateDwellerForm struct {
	FullName     string `validate:"required"`
	Email        string `validate:"required,email"`
	PhoneNumber  string `validate:"required"`
	Password     string `validate:"required"`
	AddressLine1 string
	HouseNumber  string
	City         string
	PostalCode   string
}

// StatusForm toggles a dweller's active flag.
type StatusForm struct {
	IsActive bool `json:"isActive"`
}
