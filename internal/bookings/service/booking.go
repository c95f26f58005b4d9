package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/singleflight"

	"agendo/internal/bookings/cache"
	bookingserrors "agendo/internal/bookings/errors"
	"agendo/internal/bookings/events"
	"agendo/internal/bookings/repository"
	"agendo/internal/bookings/schedule"
	"agendo/internal/bookings/validator"
	"agendo/pkg/config"
	apperrors "agendo/pkg/errors"
	"agendo/pkg/model"
)

type BookingService interface {
	Create(ctx context.Context, booking *model.Booking) error
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	List(ctx context.Context, filter model.BookingFilter, page, size int) ([]*model.Booking, int64, error)
	Delete(ctx context.Context, id string) error
	Availability(ctx context.Context, professionalID string, date time.Time) (*model.AvailabilityResponse, error)
}

type bookingService struct {
	repo      repository.BookingRepository
	validator *validator.BookingValidator
	template  *schedule.Template
	cache     *cache.AvailabilityCache
	events    events.Publisher
	cfg       *config.Config

	// Exclusive sections per professional: a conflict check and its write are
	// never interleaved with another check+write for the same professional.
	locks *professionalLocks

	// Coalesces concurrent availability misses on one key into a single
	// derivation.
	flight singleflight.Group
}

func NewBookingService(
	repo repository.BookingRepository,
	bookingValidator *validator.BookingValidator,
	template *schedule.Template,
	availabilityCache *cache.AvailabilityCache,
	publisher events.Publisher,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		validator: bookingValidator,
		template:  template,
		cache:     availabilityCache,
		events:    publisher,
		cfg:       cfg,
		locks:     newProfessionalLocks(),
	}
}

// Create persists a booking unless it overlaps an existing one for the same
// professional. The check-then-act sequence runs inside the professional's
// exclusive section; bookings for different professionals proceed in
// parallel. On conflict nothing is persisted and no cache entry is evicted.
func (s *bookingService) Create(ctx context.Context, booking *model.Booking) error {
	s.trim(booking)
	if err := s.validator.Validate(booking); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		return apperrors.Validation("Booking validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	release := s.locks.Acquire(booking.ProfessionalID)
	defer release()

	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.verifyNoConflict(sessCtx, booking); err != nil {
			return err
		}
		if err := s.repo.Create(sessCtx, booking); err != nil {
			return apperrors.Internal("Failed to create booking", err)
		}
		return nil
	})
	if err != nil {
		if apperrors.AsAppError(err).Code != apperrors.CodeConflict {
			s.cfg.Log.Error("Failed to create booking",
				"professional_id", booking.ProfessionalID,
				"error", err,
			)
		}
		return err
	}

	s.cache.Evict(booking.ProfessionalID, booking.StartDate().Format(time.DateOnly))
	s.events.BookingCreated(ctx, booking)

	s.cfg.Log.Info("Booking created successfully",
		"id", booking.ID,
		"client_id", booking.ClientID,
		"professional_id", booking.ProfessionalID,
		"start_time", booking.StartTime,
	)
	return nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}

	return booking, nil
}

// List returns one page of bookings matching any subset of the filters,
// ordered by start time ascending. Page and count are fetched concurrently.
func (s *bookingService) List(ctx context.Context, filter model.BookingFilter, page, size int) ([]*model.Booking, int64, error) {
	if page < 0 {
		return nil, 0, apperrors.InvalidInput("Page cannot be negative")
	}
	size = config.NormalizePageSize(size)

	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.CountFiltered(ctx, filter)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count bookings", "error", errCount)
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = s.repo.FindFiltered(ctx, filter, page, size)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list bookings", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return bookings, count, nil
}

// Delete removes a booking by id and evicts the availability entry for its
// professional and start date. Eviction happens only after the delete is
// durably visible; a failed delete evicts nothing.
func (s *bookingService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.repo.Delete(sessCtx, id); err != nil {
			if errors.Is(err, bookingserrors.ErrNotFound) {
				return apperrors.NotFoundWithID("Booking", id)
			}
			if errors.Is(err, bookingserrors.ErrInvalidID) {
				return apperrors.InvalidInput("Invalid booking ID format")
			}
			return apperrors.Internal("Failed to delete booking", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.cache.Evict(booking.ProfessionalID, booking.StartDate().Format(time.DateOnly))
	s.events.BookingDeleted(ctx, booking)

	s.cfg.Log.Info("Booking deleted successfully",
		"id", id,
		"professional_id", booking.ProfessionalID,
	)
	return nil
}

// Availability returns the free template slots of a professional on a date,
// served from cache when a live entry exists. Concurrent misses on the same
// key share one derivation.
func (s *bookingService) Availability(ctx context.Context, professionalID string, date time.Time) (*model.AvailabilityResponse, error) {
	if strings.TrimSpace(professionalID) == "" {
		return nil, apperrors.InvalidInput("Professional ID cannot be empty")
	}

	dateStr := date.Format(time.DateOnly)
	if resp, ok := s.cache.Get(professionalID, dateStr); ok {
		return resp, nil
	}

	v, err, _ := s.flight.Do(cache.Key(professionalID, dateStr), func() (any, error) {
		return s.deriveAvailability(ctx, professionalID, date, dateStr)
	})
	if err != nil {
		return nil, err
	}

	return v.(*model.AvailabilityResponse), nil
}

func (s *bookingService) deriveAvailability(ctx context.Context, professionalID string, date time.Time, dateStr string) (*model.AvailabilityResponse, error) {
	y, m, d := date.Date()
	dayStart := time.Date(y, m, d, 0, 0, 0, 0, date.Location())

	bookings, err := s.repo.FindByProfessionalAndWindow(ctx, professionalID, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		s.cfg.Log.Error("Failed to load bookings for availability",
			"professional_id", professionalID,
			"date", dateStr,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to compute availability", err)
	}

	resp := &model.AvailabilityResponse{
		ProfessionalID: professionalID,
		Date:           dateStr,
		AvailableSlots: s.template.Derive(date, bookings),
	}
	s.cache.Set(professionalID, dateStr, resp)

	s.cfg.Log.Debug("Availability derived",
		"professional_id", professionalID,
		"date", dateStr,
		"free_slots", len(resp.AvailableSlots),
	)
	return resp, nil
}

// verifyNoConflict is the conflict detector: it fails with a conflict error
// iff any existing booking of the professional overlaps the candidate's
// half-open interval. It performs no locking itself and is correct under
// concurrent mutation only inside the professional's exclusive section.
func (s *bookingService) verifyNoConflict(ctx context.Context, booking *model.Booking) error {
	existing, err := s.repo.FindOverlapping(ctx, booking.ProfessionalID, booking.StartTime, booking.EndTime)
	if err != nil {
		return apperrors.Internal("Failed to check existing bookings", err)
	}

	for _, b := range existing {
		if b.ID == booking.ID {
			continue
		}
		if b.Overlaps(booking.StartTime, booking.EndTime) {
			return apperrors.Conflict(fmt.Sprintf(
				"Booking time overlaps with existing booking (%s - %s)",
				b.StartTime.Format(time.RFC3339),
				b.EndTime.Format(time.RFC3339),
			))
		}
	}
	return nil
}

func (s *bookingService) trim(b *model.Booking) {
	b.ClientID = strings.TrimSpace(b.ClientID)
	b.ProfessionalID = strings.TrimSpace(b.ProfessionalID)
	b.ServiceType = strings.TrimSpace(b.ServiceType)
	b.Notes = strings.TrimSpace(b.Notes)
}
