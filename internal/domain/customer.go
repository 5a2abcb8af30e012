package domain

// Customer carries the calendar facts the matcher reads. The customer table
// itself is owned by the wider order-management stack; this service only
// reads it and flips the two opt-in flags on unsubscribe.
type Customer struct {
	ID               string  `json:"id"`
	FirstName        string  `json:"firstName"`
	LastName         string  `json:"lastName"`
	Email            *string `json:"email"`
	Phone            *string `json:"phone"`
	BirthdayOptIn    bool    `json:"birthdayOptIn"`
	BirthdayMonth    *int    `json:"birthdayMonth"`
	BirthdayDay      *int    `json:"birthdayDay"`
	AnniversaryOptIn bool    `json:"anniversaryOptIn"`
	AnniversaryMonth *int    `json:"anniversaryMonth"`
	AnniversaryDay   *int    `json:"anniversaryDay"`
}
