package routes

import "time"

// Route is a collection route between two locations. Date and Time keep
// the upstream's wire spelling (YYYY-MM-DD and HH:MM strings).
type Route struct {
	ID            string    `json:"_id"`
	RouteID       string    `json:"routeID"`
	RouteName     string    `json:"routeName"`
	StartLocation string    `json:"startLocation"`
	EndLocation   string    `json:"endLocation"`
	Date          string    `json:"date"`
	Time          string    `json:"time"`
	IsActive      bool      `json:"isActive"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// RouteForm carries a route create or full update.
type RouteForm struct {
	RouteName     string `json:"routeName" validate:"required"`
	StartLocation string `json:"startLocation" validate:"required"`
	EndLocation   string `json:"endLocation" validate:"required"`
	Date          string `json:"date" validate:"required,datetime=2006-01-02"`
	Time          string `json:"time" validate:"required,datetime=15:04"`
	IsActive      bool   `json:"isActive"`
}
