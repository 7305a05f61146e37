package dto

// RegisterRequest creates a new account
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required,oneof=USER DRIVER"`
}

// LoginRequest authenticates an existing account
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// CreateRideRequest represents a request to create a new ride
type CreateRideRequest struct {
	PickupLocation string  `json:"pickup_location" binding:"required"`
	DropLocation   string  `json:"drop_location" binding:"required"`
	FareAmount     float64 `json:"fare_amount" binding:"required,gt=0"`
	DistanceKm     float64 `json:"distance_km" binding:"required,gt=0"`
}
