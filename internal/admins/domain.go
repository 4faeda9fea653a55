package admins

import "time"

// Admin is a console operator account managed by superadmins.
type Admin struct {
	ID          string    `json:"_id"`
	FullName    string    `json:"fullName"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phoneNumber"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CreateAdminForm carries a new admin account. Validation is presence-only;
// business rules stay with the upstream.
type CreateAdminForm struct {
	FullName    string `json:"fullName" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	PhoneNumber string `json:"phoneNumber" validate:"required"`
	Password    string `json:"password" validate:"required"`
}

// StatusForm toggles an admin's active flag.
type StatusForm struct {
	IsActive bool `json:"isActive"`
}
