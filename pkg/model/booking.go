package model

import (
	"time"
)

// Booking is immutable once persisted. ID and CreatedAt are assigned by the
// repository on create; the interval is half-open [StartTime, EndTime).
type Booking struct {
	ID             string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty"`
	ClientID       string    `json:"clientId" bson:"client_id" validate:"required,min=1,max=64"`
	ProfessionalID string    `json:"professionalId" bson:"professional_id" validate:"required,min=1,max=64"`
	StartTime      time.Time `json:"startTime" bson:"start_time" validate:"required"`
	EndTime        time.Time `json:"endTime" bson:"end_time" validate:"required,gtfield=StartTime"`
	ServiceType    string    `json:"serviceType" bson:"service_type" validate:"required,min=1,max=100"`
	Notes          string    `json:"notes,omitempty" bson:"notes,omitempty" validate:"omitempty,max=2000"`
	CreatedAt      time.Time `json:"createdAt" bson:"created_at" validate:"omitempty"`
}

// Overlaps reports whether the booking's interval overlaps [start, end).
// Half-open semantics: touching endpoints do not overlap.
func (b *Booking) Overlaps(start, end time.Time) bool {
	return b.StartTime.Before(end) && start.Before(b.EndTime)
}

// StartDate returns the calendar date the booking starts on, at midnight in
// the booking's own location.
func (b *Booking) StartDate() time.Time {
	y, m, d := b.StartTime.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, b.StartTime.Location())
}

// BookingFilter describes the optional listing filters. Any subset of the
// three fields may be set; a zero filter matches everything.
type BookingFilter struct {
	ClientID       string
	ProfessionalID string
	Date           *time.Time
}
