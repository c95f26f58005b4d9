package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"

	"agendo/pkg/config"
	apperrors "agendo/pkg/errors"
	"agendo/pkg/logger"
	"agendo/pkg/model"
)

// mockBookingService lets each test pin down exactly the service behavior it
// needs. Unset methods fail the test when called.
type mockBookingService struct {
	t *testing.T

	createFn       func(ctx context.Context, booking *model.Booking) error
	getByIDFn      func(ctx context.Context, id string) (*model.Booking, error)
	listFn         func(ctx context.Context, filter model.BookingFilter, page, size int) ([]*model.Booking, int64, error)
	deleteFn       func(ctx context.Context, id string) error
	availabilityFn func(ctx context.Context, professionalID string, date time.Time) (*model.AvailabilityResponse, error)
}

func (m *mockBookingService) Create(ctx context.Context, booking *model.Booking) error {
	if m.createFn == nil {
		m.t.Fatal("unexpected call to Create")
	}
	return m.createFn(ctx, booking)
}

func (m *mockBookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if m.getByIDFn == nil {
		m.t.Fatal("unexpected call to GetByID")
	}
	return m.getByIDFn(ctx, id)
}

func (m *mockBookingService) List(ctx context.Context, filter model.BookingFilter, page, size int) ([]*model.Booking, int64, error) {
	if m.listFn == nil {
		m.t.Fatal("unexpected call to List")
	}
	return m.listFn(ctx, filter, page, size)
}

func (m *mockBookingService) Delete(ctx context.Context, id string) error {
	if m.deleteFn == nil {
		m.t.Fatal("unexpected call to Delete")
	}
	return m.deleteFn(ctx, id)
}

func (m *mockBookingService) Availability(ctx context.Context, professionalID string, date time.Time) (*model.AvailabilityResponse, error) {
	if m.availabilityFn == nil {
		m.t.Fatal("unexpected call to Availability")
	}
	return m.availabilityFn(ctx, professionalID, date)
}

func newTestRouter(t *testing.T, svc *mockBookingService) *httprouter.Router {
	t.Helper()

	cfg := &config.Config{Log: logger.New(logger.Config{Output: io.Discard})}
	router := httprouter.New()
	NewBookingHandler(svc, cfg).RegisterRoutes(router)
	return router
}

func persistedBooking() *model.Booking {
	return &model.Booking{
		ID:             "booking-1",
		ClientID:       "client-1",
		ProfessionalID: "prof-1",
		StartTime:      time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC),
		EndTime:        time.Date(2026, 3, 10, 11, 0, 0, 0, time.UTC),
		ServiceType:    "consultation",
		CreatedAt:      time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC),
	}
}

const validCreateBody = `{
	"clientId": "client-1",
	"professionalId": "prof-1",
	"startTime": "2026-03-10T10:00:00",
	"endTime": "2026-03-10T11:00:00",
	"serviceType": "consultation"
}`

func TestCreateBookingEndpoint(t *testing.T) {
	svc := &mockBookingService{
		createFn: func(ctx context.Context, booking *model.Booking) error {
			if booking.ClientID != "client-1" || booking.ProfessionalID != "prof-1" {
				t.Errorf("unexpected booking passed to service: %+v", booking)
			}
			want := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
			if !booking.StartTime.Equal(want) {
				t.Errorf("expected start %v, got %v", want, booking.StartTime)
			}
			booking.ID = "booking-1"
			booking.CreatedAt = time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
			return nil
		},
	}
	svc.t = t
	router := newTestRouter(t, svc)

	req := httptest.NewRequest(http.MethodPost, "/bookings", strings.NewReader(validCreateBody))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp bookingResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp.ID != "booking-1" {
		t.Errorf("expected assigned id in response, got %q", resp.ID)
	}
	if resp.StartTime != "2026-03-10T10:00:00" {
		t.Errorf("unexpected startTime wire format: %q", resp.StartTime)
	}
}

func TestCreateBookingEndpointConflict(t *testing.T) {
	svc := &mockBookingService{
		createFn: func(ctx context.Context, booking *model.Booking) error {
			return apperrors.Conflict("Booking time overlaps with existing booking")
		},
	}
	svc.t = t
	router := newTestRouter(t, svc)

	req := httptest.NewRequest(http.MethodPost, "/bookings", strings.NewReader(validCreateBody))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestCreateBookingEndpointValidation(t *testing.T) {
	svc := &mockBookingService{
		createFn: func(ctx context.Context, booking *model.Booking) error {
			return apperrors.Validation("Booking validation failed", nil)
		},
	}
	svc.t = t
	router := newTestRouter(t, svc)

	req := httptest.NewRequest(http.MethodPost, "/bookings", strings.NewReader(validCreateBody))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
}

func TestCreateBookingEndpointBadBody(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"empty body", ""},
		{"malformed json", `{"clientId": }`},
		{"unknown field", `{"clientId": "c", "bogus": true}`},
		{"bad timestamp", `{"clientId":"c","professionalId":"p","startTime":"10am","endTime":"2026-03-10T11:00:00","serviceType":"x"}`},
		{"missing start", `{"clientId":"c","professionalId":"p","endTime":"2026-03-10T11:00:00","serviceType":"x"}`},
		{"zoned timestamp rejected", `{"clientId":"c","professionalId":"p","startTime":"2026-03-10T10:00:00Z","endTime":"2026-03-10T11:00:00","serviceType":"x"}`},
	}

	svc := &mockBookingService{}
	svc.t = t
	router := newTestRouter(t, svc)

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/bookings", bytes.NewReader([]byte(tc.body)))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestGetBookingEndpoint(t *testing.T) {
	svc := &mockBookingService{
		getByIDFn: func(ctx context.Context, id string) (*model.Booking, error) {
			if id != "booking-1" {
				return nil, apperrors.NotFoundWithID("Booking", id)
			}
			return persistedBooking(), nil
		},
	}
	svc.t = t
	router := newTestRouter(t, svc)

	req := httptest.NewRequest(http.MethodGet, "/bookings/id/booking-1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp bookingResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp.ID != "booking-1" || resp.EndTime != "2026-03-10T11:00:00" {
		t.Errorf("unexpected response: %+v", resp)
	}

	req = httptest.NewRequest(http.MethodGet, "/bookings/id/missing", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing id, got %d", rec.Code)
	}
}

func TestListBookingsEndpoint(t *testing.T) {
	svc := &mockBookingService{
		listFn: func(ctx context.Context, filter model.BookingFilter, page, size int) ([]*model.Booking, int64, error) {
			if filter.ClientID != "client-1" || filter.ProfessionalID != "prof-1" {
				t.Errorf("filters not forwarded: %+v", filter)
			}
			if filter.Date == nil || filter.Date.Format(time.DateOnly) != "2026-03-10" {
				t.Errorf("date filter not forwarded: %v", filter.Date)
			}
			if page != 1 || size != 5 {
				t.Errorf("paging not forwarded: page=%d size=%d", page, size)
			}
			return []*model.Booking{persistedBooking()}, 6, nil
		},
	}
	svc.t = t
	router := newTestRouter(t, svc)

	req := httptest.NewRequest(http.MethodGet,
		"/bookings?clientId=client-1&professionalId=prof-1&date=2026-03-10&page=1&size=5", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Bookings      []bookingResponse `json:"bookings"`
		TotalElements int64             `json:"totalElements"`
		TotalPages    int               `json:"totalPages"`
		CurrentPage   int               `json:"currentPage"`
		PageSize      int               `json:"pageSize"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if len(resp.Bookings) != 1 || resp.TotalElements != 6 || resp.TotalPages != 2 {
		t.Errorf("unexpected page envelope: %+v", resp)
	}
}

func TestListBookingsEndpointBadQuery(t *testing.T) {
	svc := &mockBookingService{}
	svc.t = t
	router := newTestRouter(t, svc)

	for _, target := range []string{
		"/bookings?page=-1",
		"/bookings?page=abc",
		"/bookings?size=0",
		"/bookings?date=10-03-2026",
	} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", target, rec.Code)
		}
	}
}

func TestDeleteBookingEndpoint(t *testing.T) {
	svc := &mockBookingService{
		deleteFn: func(ctx context.Context, id string) error {
			if id != "booking-1" {
				return apperrors.NotFoundWithID("Booking", id)
			}
			return nil
		},
	}
	svc.t = t
	router := newTestRouter(t, svc)

	req := httptest.NewRequest(http.MethodDelete, "/bookings/booking-1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("expected empty body, got %q", rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodDelete, "/bookings/missing", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing id, got %d", rec.Code)
	}
}

func TestAvailabilityEndpoint(t *testing.T) {
	svc := &mockBookingService{
		availabilityFn: func(ctx context.Context, professionalID string, date time.Time) (*model.AvailabilityResponse, error) {
			if professionalID != "prof-1" {
				t.Errorf("professional id not forwarded: %q", professionalID)
			}
			if date.Format(time.DateOnly) != "2026-03-10" {
				t.Errorf("date not forwarded: %v", date)
			}
			return &model.AvailabilityResponse{
				ProfessionalID: professionalID,
				Date:           "2026-03-10",
				AvailableSlots: []model.AvailabilitySlot{
					{
						StartTime: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
						EndTime:   time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC),
					},
				},
			}, nil
		},
	}
	svc.t = t
	router := newTestRouter(t, svc)

	req := httptest.NewRequest(http.MethodGet, "/bookings/availability?professionalId=prof-1&date=2026-03-10", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp availabilityResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp.ProfessionalID != "prof-1" || len(resp.AvailableSlots) != 1 {
		t.Errorf("unexpected response: %+v", resp)
	}
	if resp.AvailableSlots[0].StartTime != "2026-03-10T09:00:00" {
		t.Errorf("unexpected slot wire format: %q", resp.AvailableSlots[0].StartTime)
	}
}

func TestAvailabilityEndpointBadQuery(t *testing.T) {
	svc := &mockBookingService{}
	svc.t = t
	router := newTestRouter(t, svc)

	for _, target := range []string{
		"/bookings/availability?professionalId=prof-1",
		"/bookings/availability?professionalId=prof-1&date=March+10",
	} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", target, rec.Code)
		}
	}
}
