package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeOccasionLabel(t *testing.T) {
	cases := map[string]string{
		"BIRTHDAY":       "Birthday",
		"THANK_YOU":      "Thank You",
		"MOTHERS_DAY":    "Mother's Day",
		"VALENTINES_DAY": "Valentine's Day",
		"OTHER":          "Other",
		"custom_code":    "Custom Code",
		"graduation":     "Graduation",
		"house-warming":  "House Warming",
		"  sympathy  ":   "Sympathy",
		"":               "Special Occasion",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeOccasionLabel(in), "input %q", in)
	}
}
