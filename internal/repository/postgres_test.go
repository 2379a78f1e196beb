package repository

import (
	"context"
	"strings"
	"testing"

	"distance-api/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestRepository_GetOrCreate_RejectsInvalidInput(t *testing.T) {
	repo := NewRepository(nil)
	ctx := context.Background()

	tests := []struct {
		name     string
		locName  string
		lat      float64
		lng      float64
		expected error
	}{
		{name: "empty name", locName: "", lat: 10, lng: 10, expected: ErrEmptyName},
		{name: "blank name", locName: "   ", lat: 10, lng: 10, expected: ErrEmptyName},
		{name: "latitude too high", locName: "north", lat: 90.5, lng: 0, expected: ErrInvalidCoordinates},
		{name: "latitude too low", locName: "south", lat: -91, lng: 0, expected: ErrInvalidCoordinates},
		{name: "longitude out of range", locName: "east", lat: 0, lng: 180.1, expected: ErrInvalidCoordinates},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := repo.GetOrCreate(ctx, tt.locName, "address", tt.lat, tt.lng)
			assert.ErrorIs(t, err, tt.expected)
			assert.Nil(t, loc)
		})
	}
}

func TestRepository_RecordDistance_RejectsUnsavedLocations(t *testing.T) {
	repo := NewRepository(nil)
	saved := &models.Location{ID: 1, Name: "saved"}

	tests := []struct {
		name  string
		start *models.Location
		end   *models.Location
	}{
		{name: "nil start", start: nil, end: saved},
		{name: "nil end", start: saved, end: nil},
		{name: "unsaved start", start: &models.Location{Name: "new"}, end: saved},
		{name: "unsaved end", start: saved, end: &models.Location{Name: "new"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := repo.RecordDistance(context.Background(), tt.start, tt.end, 1.5)
			assert.ErrorIs(t, err, ErrReferentialIntegrity)
			assert.Nil(t, rec)
		})
	}
}

func TestRepository_WithMatchThreshold(t *testing.T) {
	repo := NewRepository(nil)
	tuned := repo.WithMatchThreshold(0.5)

	assert.Equal(t, DefaultMatchThreshold, repo.threshold)
	assert.Equal(t, 0.5, tuned.threshold)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 255))
	assert.Equal(t, strings.Repeat("a", 255), truncate(strings.Repeat("a", 300), 255))
	assert.Equal(t, strings.Repeat("é", 255), truncate(strings.Repeat("é", 255), 255))
	assert.Equal(t, strings.Repeat("é", 3), truncate(strings.Repeat("é", 5), 3))
}
