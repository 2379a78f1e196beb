package models

import "time"

// Location is a geocoded place remembered by the name it was first requested under, together with its formatted address and coordinates.
type Location struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Address   string  `json:"address"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// DistanceRecord is an append-only audit entry for one computed distance.
type DistanceRecord struct {
	ID              int64     `json:"id"`
	StartLocationID int64     `json:"start_location_id"`
	EndLocationID   int64     `json:"end_location_id"`
	DistanceKm      float64   `json:"distance_km"`
	CreatedAt       time.Time `json:"created_at"`
}

// GeocodeResult is what a geocoding provider returns for a free-text address.
type GeocodeResult struct {
	FormattedAddress string
	Latitude         float64
	Longitude        float64
}
