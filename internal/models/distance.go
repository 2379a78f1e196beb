package models

import "time"

const (
	StatusSuccess = "success"
	StatusError   = "error"

	UnitKilometers = "kilometers"
	UnitMinutes    = "minutes"

	ServiceName = "Google Maps API"
)

// DistanceResponse is the success payload returned for a resolved start/end pair.
// It is also the value stored in the result cache.
type DistanceResponse struct {
	Status   string       `json:"status" msgpack:"status"`
	Data     DistanceData `json:"data" msgpack:"data"`
	Metadata Metadata     `json:"metadata" msgpack:"metadata"`
}

type DistanceData struct {
	StartLocation LocationPayload `json:"start_location" msgpack:"start_location"`
	EndLocation   LocationPayload `json:"end_location" msgpack:"end_location"`
	Route         Route           `json:"route" msgpack:"route"`
}

type LocationPayload struct {
	FormattedAddress string      `json:"formatted_address" msgpack:"formatted_address"`
	Coordinates      Coordinates `json:"coordinates" msgpack:"coordinates"`
}

type Coordinates struct {
	Latitude  float64 `json:"latitude" msgpack:"latitude"`
	Longitude float64 `json:"longitude" msgpack:"longitude"`
}

type Route struct {
	Distance      Measure `json:"distance" msgpack:"distance"`
	EstimatedTime Measure `json:"estimated_time" msgpack:"estimated_time"`
}

type Measure struct {
	Value float64 `json:"value" msgpack:"value"`
	Unit  string  `json:"unit" msgpack:"unit"`
}

type Metadata struct {
	CalculatedAt time.Time `json:"calculated_at" msgpack:"calculated_at"`
	Service      string    `json:"service" msgpack:"service"`
}

// ErrorResponse is the payload returned for any classified failure.
type ErrorResponse struct {
	Status string      `json:"status"`
	Error  ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
