package models

import "time"

// ContactMessage is a message submitted through the contact form.
// Records are immutable once persisted.
type ContactMessage struct {
	ID        string    `json:"id" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	Email     string    `json:"email" bson:"email"`
	Phone     string    `json:"phone_number,omitempty" bson:"phone_number,omitempty"`
	Message   string    `json:"message" bson:"message"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}
