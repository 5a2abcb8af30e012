package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeReminderDays(t *testing.T) {
	assert.Equal(t, []int{14, 7, 1}, NormalizeReminderDays([]int{1, 7, 14}))
	assert.Equal(t, []int{7, 1}, NormalizeReminderDays([]int{7, 1, 7, 1}))
	assert.Equal(t, []int{30, 0}, NormalizeReminderDays([]int{0, -3, 30, 400}))
	// Nothing valid falls back to the defaults.
	assert.Equal(t, []int{7, 1}, NormalizeReminderDays(nil))
	assert.Equal(t, []int{7, 1}, NormalizeReminderDays([]int{-1, 999}))
}

func TestDefaultSettingsStartDisabled(t *testing.T) {
	s := DefaultSettings()
	assert.False(t, s.EnabledAny())
	assert.Equal(t, []int{7, 1}, s.ReminderDays)
	assert.NotEmpty(t, s.BirthdaySubject)
}

func TestEnabledFor(t *testing.T) {
	s := ReminderSettings{BirthdayEnabled: true}
	assert.True(t, s.EnabledFor(ReminderBirthday))
	assert.False(t, s.EnabledFor(ReminderAnniversary))
	assert.False(t, s.EnabledFor(ReminderOccasion))
	assert.True(t, s.EnabledAny())
}

func TestSubjectAndTemplateFor(t *testing.T) {
	tmpl := "<p>{{firstName}}</p>"
	s := ReminderSettings{
		BirthdaySubject:    "b",
		AnniversarySubject: "a",
		OccasionSubject:    "o",
		OccasionTemplate:   &tmpl,
	}
	assert.Equal(t, "b", s.SubjectFor(ReminderBirthday))
	assert.Equal(t, "a", s.SubjectFor(ReminderAnniversary))
	assert.Equal(t, "o", s.SubjectFor(ReminderOccasion))
	assert.Nil(t, s.TemplateFor(ReminderBirthday))
	assert.Equal(t, &tmpl, s.TemplateFor(ReminderOccasion))
}
