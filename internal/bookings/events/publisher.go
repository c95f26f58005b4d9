package events

import (
	"context"
	"time"

	"agendo/pkg/kafka"
	"agendo/pkg/logger"
	"agendo/pkg/model"
)

const (
	EventBookingCreated = "booking.created"
	EventBookingDeleted = "booking.deleted"

	source        = "bookings"
	schemaVersion = "1"
)

// Publisher emits booking lifecycle events. Publishing is best-effort: it runs
// after the store write has committed and failures never affect the booking
// outcome.
type Publisher interface {
	BookingCreated(ctx context.Context, booking *model.Booking)
	BookingDeleted(ctx context.Context, booking *model.Booking)
}

type bookingEvent struct {
	BookingID      string    `json:"booking_id"`
	ClientID       string    `json:"client_id"`
	ProfessionalID string    `json:"professional_id"`
	StartTime      time.Time `json:"start_time"`
	EndTime        time.Time `json:"end_time"`
	ServiceType    string    `json:"service_type"`
}

type kafkaPublisher struct {
	producer *kafka.Producer
	log      *logger.Logger
}

func NewKafkaPublisher(producer *kafka.Producer, log *logger.Logger) Publisher {
	return &kafkaPublisher{
		producer: producer,
		log:      log,
	}
}

func (p *kafkaPublisher) BookingCreated(ctx context.Context, booking *model.Booking) {
	p.publish(ctx, EventBookingCreated, booking)
}

func (p *kafkaPublisher) BookingDeleted(ctx context.Context, booking *model.Booking) {
	p.publish(ctx, EventBookingDeleted, booking)
}

func (p *kafkaPublisher) publish(ctx context.Context, eventType string, booking *model.Booking) {
	// Keyed by professional id so consumers see one professional's events in
	// order.
	msg := kafka.NewMessage().
		WithKey(booking.ProfessionalID).
		WithValue(bookingEvent{
			BookingID:      booking.ID,
			ClientID:       booking.ClientID,
			ProfessionalID: booking.ProfessionalID,
			StartTime:      booking.StartTime,
			EndTime:        booking.EndTime,
			ServiceType:    booking.ServiceType,
		}).
		WithEventType(eventType).
		WithSource(source).
		WithSchemaVersion(schemaVersion).
		Build()

	if err := p.producer.Publish(ctx, msg); err != nil {
		p.log.Warn("Failed to publish booking event",
			"event_type", eventType,
			"booking_id", booking.ID,
			"professional_id", booking.ProfessionalID,
			"error", err,
		)
	}
}

// nopPublisher is used when no events topic is configured and in tests.
type nopPublisher struct{}

func NewNopPublisher() Publisher {
	return nopPublisher{}
}

func (nopPublisher) BookingCreated(context.Context, *model.Booking) {}
func (nopPublisher) BookingDeleted(context.Context, *model.Booking) {}
