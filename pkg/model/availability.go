package model

import "time"

// AvailabilitySlot is a free half-open interval drawn from the daily schedule
// template. Slots are derived on demand and never persisted.
type AvailabilitySlot struct {
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
}

// AvailabilityResponse lists the free slots of one professional on one
// calendar date, in chronological order. Date uses the 2006-01-02 layout.
type AvailabilityResponse struct {
	ProfessionalID string             `json:"professionalId"`
	Date           string             `json:"date"`
	AvailableSlots []AvailabilitySlot `json:"availableSlots"`
}
