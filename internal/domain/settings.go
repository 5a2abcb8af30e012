package domain

import (
	"sort"
	"time"
)

// ReminderSettings is the singleton configuration row. It is created lazily
// with defaults on first read and never deleted.
type ReminderSettings struct {
	ID                  string    `json:"id"`
	BirthdayEnabled     bool      `json:"birthdayEnabled"`
	AnniversaryEnabled  bool      `json:"anniversaryEnabled"`
	OccasionEnabled     bool      `json:"occasionEnabled"`
	ReminderDays        []int     `json:"reminderDaysBefore"`
	BirthdaySubject     string    `json:"birthdaySubject"`
	BirthdayTemplate    *string   `json:"birthdayTemplate"`
	AnniversarySubject  string    `json:"anniversarySubject"`
	AnniversaryTemplate *string   `json:"anniversaryTemplate"`
	OccasionSubject     string    `json:"occasionSubject"`
	OccasionTemplate    *string   `json:"occasionTemplate"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

// SettingsPatch is a sparse update; nil fields are left unchanged.
type SettingsPatch struct {
	BirthdayEnabled     *bool   `json:"birthdayEnabled"`
	AnniversaryEnabled  *bool   `json:"anniversaryEnabled"`
	OccasionEnabled     *bool   `json:"occasionEnabled"`
	ReminderDays        []int   `json:"reminderDaysBefore"`
	BirthdaySubject     *string `json:"birthdaySubject"`
	BirthdayTemplate    *string `json:"birthdayTemplate"`
	AnniversarySubject  *string `json:"anniversarySubject"`
	AnniversaryTemplate *string `json:"anniversaryTemplate"`
	OccasionSubject     *string `json:"occasionSubject"`
	OccasionTemplate    *string `json:"occasionTemplate"`
}

// DefaultSettings returns the row written on first read. All toggles start
// off, so a fresh install never sends anything until an operator opts in.
func DefaultSettings() ReminderSettings {
	return ReminderSettings{
		BirthdayEnabled:    false,
		AnniversaryEnabled: false,
		OccasionEnabled:    false,
		ReminderDays:       []int{7, 1},
		BirthdaySubject:    "A birthday you care about is coming up",
		AnniversarySubject: "Your anniversary is coming up",
		OccasionSubject:    "A special occasion is coming up",
	}
}

// EnabledAny reports whether at least one reminder type is switched on.
func (s ReminderSettings) EnabledAny() bool {
	return s.BirthdayEnabled || s.AnniversaryEnabled || s.OccasionEnabled
}

// EnabledFor reports whether the given type is switched on.
func (s ReminderSettings) EnabledFor(t ReminderType) bool {
	switch t {
	case ReminderBirthday:
		return s.BirthdayEnabled
	case ReminderAnniversary:
		return s.AnniversaryEnabled
	case ReminderOccasion:
		return s.OccasionEnabled
	}
	return false
}

// SubjectFor returns the configured subject line for a type.
func (s ReminderSettings) SubjectFor(t ReminderType) string {
	switch t {
	case ReminderBirthday:
		return s.BirthdaySubject
	case ReminderAnniversary:
		return s.AnniversarySubject
	default:
		return s.OccasionSubject
	}
}

// TemplateFor returns the operator-supplied template for a type, if any.
func (s ReminderSettings) TemplateFor(t ReminderType) *string {
	switch t {
	case ReminderBirthday:
		return s.BirthdayTemplate
	case ReminderAnniversary:
		return s.AnniversaryTemplate
	default:
		return s.OccasionTemplate
	}
}

// NormalizeReminderDays clamps lead times to 0-365, drops duplicates and
// returns them in descending order, so the farthest-out reminder is
// processed first. An empty result falls back to the default set.
func NormalizeReminderDays(days []int) []int {
	seen := make(map[int]struct{}, len(days))
	out := make([]int, 0, len(days))
	for _, d := range days {
		if d < 0 || d > 365 {
			continue
		}
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	if len(out) == 0 {
		return []int{7, 1}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(out)))
	return out
}
