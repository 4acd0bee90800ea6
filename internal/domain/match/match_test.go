package match_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	. "github.com/mvolkov/dispatch/internal/domain/match"
)

func TestMatches(t *testing.T) {
	tests := []struct {
		name     string
		executor string
		request  string
		want     bool
	}{
		// Empty values never match
		{name: "both empty", executor: "", request: "", want: false},
		{name: "executor empty", executor: "", request: "5", want: false},
		{name: "request empty", executor: "5", request: "", want: false},
		{name: "whitespace only", executor: "  ", request: "5", want: false},

		// Integers: exact
		{name: "equal integers", executor: "10", request: "10", want: true},
		{name: "unequal integers", executor: "10", request: "11", want: false},
		{name: "negative integers", executor: "-3", request: "-3", want: true},

		// Floats: absolute tolerance 0.001
		{name: "equal floats", executor: "2.5", request: "2.5", want: true},
		{name: "within tolerance", executor: "5.0", request: "5.0009", want: true},
		{name: "outside tolerance", executor: "5.0", request: "5.002", want: false},

		// Integer/float bridging
		{name: "int vs float same value", executor: "5", request: "5.0", want: true},
		{name: "float vs int same value", executor: "5.0", request: "5", want: true},
		{name: "int vs float off by one", executor: "5", request: "6.0", want: false},

		// Dates: exact string equality, no cross-format normalization
		{name: "same iso date", executor: "2024-01-15", request: "2024-01-15", want: true},
		{name: "same date different format", executor: "2024-01-15", request: "15.01.2024", want: false},
		{name: "different dates", executor: "2024-01-15", request: "2024-01-16", want: false},

		// Text: case-insensitive, Cyrillic folding included
		{name: "cyrillic case fold", executor: "Москва", request: "москва", want: true},
		{name: "latin case fold", executor: "Hello", request: "HELLO", want: true},
		{name: "different text", executor: "Москва", request: "Казань", want: false},

		// Strings and raster names
		{name: "string case fold", executor: "abc123", request: "ABC123", want: true},
		{name: "raster case fold", executor: "photo.jpg", request: "PHOTO.JPG", want: true},
		{name: "different files", executor: "photo.jpg", request: "scan.jpg", want: false},

		// Text/string bridging compares case-insensitively and so only
		// differs from the incompatible-kind rule for exotic folds
		{name: "text vs string unequal", executor: "hello", request: "hello1", want: false},
		{name: "kelvin sign folds to k", executor: "k", request: "K", want: true},

		// Incompatible kinds
		{name: "text vs integer", executor: "hello", request: "5", want: false},
		{name: "date vs integer", executor: "2024-01-15", request: "2024", want: false},
		{name: "raster vs text", executor: "photo.jpg", request: "photo", want: false},
		{name: "number vs words", executor: "5", request: "abc", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Matches(tt.executor, tt.request))
		})
	}
}

// Oversized digit strings fail integer parsing and therefore never match,
// even against themselves.
func TestMatchesParseFailure(t *testing.T) {
	huge := "99999999999999999999999999"
	assert.False(t, Matches(huge, huge))
}
