package timetables

import "time"

// Timetable is a scheduled collection slot. The contract is settled to one
// spelling: routeName is a plain string, day is an English weekday name,
// collectionTime is an HH:MM string.
type Timetable struct {
	ID             string    `json:"_id"`
	RouteName      string    `json:"routeName"`
	Day            string    `json:"day"`
	CollectionTime string    `json:"collectionTime"`
	CollectorID    string    `json:"collectorId"`
	Area           string    `json:"area"`
	IsActive       bool      `json:"isActive"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// CrewMember is one member of the crew assigned to a timetable.
type CrewMember struct {
	ID          string `json:"_id"`
	FullName    string `json:"fullName"`
	PhoneNumber string `json:"phoneNumber"`
	Role        string `json:"role"`
}

// TimetableForm carries a timetable create or full update.
type TimetableForm struct {
	RouteName      string `json:"routeName" validate:"required"`
	Day            string `json:"day" validate:"required,oneof=Monday Tuesday Wednesday Thursday Friday Saturday Sunday"`
	CollectionTime string `json:"collectionTime" validate:"required,datetime=15:04"`
	CollectorID    string `json:"collectorId"`
	Area           string `json:"area"`
	IsActive       bool   `json:"isActive"`
}
