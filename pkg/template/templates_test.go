package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWhenPhrase(t *testing.T) {
	assert.Equal(t, "is today", ReminderData{DaysBefore: 0}.WhenPhrase())
	assert.Equal(t, "is tomorrow", ReminderData{DaysBefore: 1}.WhenPhrase())
	assert.Equal(t, "is in 7 days", ReminderData{DaysBefore: 7}.WhenPhrase())
	assert.Equal(t, "is in 30 days", ReminderData{DaysBefore: 30}.WhenPhrase())
}

func TestBuildBirthdayEmail(t *testing.T) {
	html, err := BuildBirthdayEmail(ReminderData{
		FirstName:      "Maria",
		DaysBefore:     7,
		ShopName:       "Bloom Flowers",
		ShopURL:        "https://shop.example",
		UnsubscribeURL: "https://shop.example/unsub?token=abc",
	})
	require.NoError(t, err)

	assert.Contains(t, html, "Hi Maria,")
	assert.Contains(t, html, "your birthday is in 7 days")
	assert.Contains(t, html, "Bloom Flowers")
	assert.Contains(t, html, `href="https://shop.example/unsub?token=abc"`)
	// No logo configured, no img tag.
	assert.NotContains(t, html, "<img")
}

func TestBuildOccasionEmailWithRecipient(t *testing.T) {
	html, err := BuildOccasionEmail(ReminderData{
		FirstName:     "Maria",
		RecipientName: "Alex",
		Occasion:      "Mother's Day",
		DaysBefore:    1,
		ShopName:      "Bloom Flowers",
	})
	require.NoError(t, err)

	// The possessive apostrophe is template text; the one inside the
	// occasion label is data and gets escaped.
	assert.Contains(t, html, "Alex's Mother&#39;s Day is tomorrow")
}

func TestBuildOccasionEmailWithoutRecipient(t *testing.T) {
	html, err := BuildOccasionEmail(ReminderData{
		FirstName:  "Maria",
		Occasion:   "Thank You",
		DaysBefore: 3,
	})
	require.NoError(t, err)

	assert.Contains(t, html, "Thank You is in 3 days")
	assert.NotContains(t, html, "'s Thank You")
}

func TestLayoutContactBlock(t *testing.T) {
	withContact, err := BuildAnniversaryEmail(ReminderData{
		FirstName:  "Sam",
		DaysBefore: 7,
		StorePhone: "555-0100",
	})
	require.NoError(t, err)
	assert.Contains(t, withContact, "555-0100")

	withoutContact, err := BuildAnniversaryEmail(ReminderData{
		FirstName:  "Sam",
		DaysBefore: 7,
	})
	require.NoError(t, err)
	assert.NotContains(t, withoutContact, "555-0100")
}

func TestLayoutLogo(t *testing.T) {
	html, err := BuildBirthdayEmail(ReminderData{
		FirstName:  "Sam",
		DaysBefore: 7,
		ShopName:   "Bloom Flowers",
		LogoURL:    "https://cdn.example/logo.png",
	})
	require.NoError(t, err)
	assert.Contains(t, html, `src="https://cdn.example/logo.png"`)
}

func TestApplyTokens(t *testing.T) {
	tokens := map[string]any{
		"firstName":  "Maria",
		"daysBefore": 7,
		"shopName":   "Bloom Flowers",
	}

	out := ApplyTokens("Hi {{firstName}}, only {{daysBefore}} days left! - {{shopName}}", tokens)
	assert.Equal(t, "Hi Maria, only 7 days left! - Bloom Flowers", out)
}

func TestApplyTokensWhitespaceTolerant(t *testing.T) {
	out := ApplyTokens("Hi {{ firstName }} and {{firstName  }}", map[string]any{"firstName": "Maria"})
	assert.Equal(t, "Hi Maria and Maria", out)
}

func TestApplyTokensRemovesUnknown(t *testing.T) {
	out := ApplyTokens("Hello {{firstName}}{{ mystery }}!", map[string]any{"firstName": "Maria"})
	assert.Equal(t, "Hello Maria!", out)
}

func TestApplyTokensSameTokenTwice(t *testing.T) {
	out := ApplyTokens("{{shopName}} loves you. Visit {{shopName}}.", map[string]any{"shopName": "Bloom"})
	assert.Equal(t, "Bloom loves you. Visit Bloom.", out)
}
