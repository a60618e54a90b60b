package model

import "time"

// Message is a contact-form submission.
type Message struct {
	ID          string    `json:"id" bson:"_id"`
	Email       string    `json:"email" bson:"email"`
	Content     string    `json:"content" bson:"content"`
	PhoneNumber *string   `json:"phoneNumber" bson:"phoneNumber"`
	Subject     *string   `json:"subject" bson:"subject"`
	Deleted     bool      `json:"deleted" bson:"deleted"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Subscriber is a newsletter mailing-list entry.  Unsubscribing clears
// IsActive; the row is kept so a later subscribe reactivates it.
type Subscriber struct {
	ID        string    `json:"id" bson:"_id"`
	Email     string    `json:"email" bson:"email"`
	IsActive  bool      `json:"isActive" bson:"isActive"`
	Deleted   bool      `json:"deleted" bson:"deleted"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}
