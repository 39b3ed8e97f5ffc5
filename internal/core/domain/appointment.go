package domain

import "time"

// Appointment is a single booking request recorded in the ledger.
type Appointment struct {
	ID        string    `json:"id" bson:"id"`
	Patient   string    `json:"patient" bson:"patient"`
	Contact   string    `json:"contact,omitempty" bson:"contact,omitempty"`
	Provider  string    `json:"doctor" bson:"doctor"`
	Date      string    `json:"date" bson:"date"` // YYYY-MM-DD
	Time      string    `json:"time" bson:"time"` // HH:MM[:SS]
	Reason    string    `json:"reason" bson:"reason"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}
