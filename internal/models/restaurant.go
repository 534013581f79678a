package models

// RestaurantInfo is free-form display text for the summary header.
// All fields are optional.
type RestaurantInfo struct {
	Name    string
	Phone   string
	Address string
}
