package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCSV(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    []LocationRecord
		expectError bool
	}{
		{
			name: "valid rows are normalized",
			input: "name,address,latitude,longitude\n" +
				"  Koregaon Park ,\"Koregaon Park, Pune, Maharashtra, India\",18.5293,73.9149\n" +
				"Kalyani Nagar,\"Kalyani Nagar, Pune\", 18.5523 , 73.9340\n",
			expected: []LocationRecord{
				{Name: "koregaon park", Address: "Koregaon Park, Pune, Maharashtra, India", Latitude: 18.5293, Longitude: 73.9149},
				{Name: "kalyani nagar", Address: "Kalyani Nagar, Pune", Latitude: 18.5523, Longitude: 73.934},
			},
		},
		{
			name: "duplicate names keep the first row",
			input: "name,address,latitude,longitude\n" +
				"Shaniwar Wada,first,18.5195,73.8553\n" +
				"shaniwar wada,second,1,1\n",
			expected: []LocationRecord{
				{Name: "shaniwar wada", Address: "first", Latitude: 18.5195, Longitude: 73.8553},
			},
		},
		{
			name:     "header only",
			input:    "name,address,latitude,longitude\n",
			expected: nil,
		},
		{
			name:        "empty input",
			input:       "",
			expectError: true,
		},
		{
			name:        "too few columns",
			input:       "name,address,latitude,longitude\nonly,two\n",
			expectError: true,
		},
		{
			name:        "latitude out of range",
			input:       "name,address,latitude,longitude\nx,y,91,0\n",
			expectError: true,
		},
		{
			name:        "longitude not a number",
			input:       "name,address,latitude,longitude\nx,y,0,east\n",
			expectError: true,
		},
		{
			name:        "blank name",
			input:       "name,address,latitude,longitude\n  ,y,0,0\n",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := parseCSV(strings.NewReader(tt.input))
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, records)
		})
	}
}
