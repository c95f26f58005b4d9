package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"agendo/internal/bookings/service"
	"agendo/pkg/config"
	apperrors "agendo/pkg/errors"
	apphttp "agendo/pkg/http"
	"agendo/pkg/model"
)

// Wire layouts. Timestamps carry no zone offset and are interpreted as UTC.
const (
	timestampLayout = "2006-01-02T15:04:05"
	dateLayout      = time.DateOnly
)

type BookingHandler struct {
	service service.BookingService
	cfg     *config.Config
}

func NewBookingHandler(svc service.BookingService, cfg *config.Config) *BookingHandler {
	return &BookingHandler{service: svc, cfg: cfg}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.HandlerFunc(http.MethodGet, "/", h.Root)
	router.HandlerFunc(http.MethodPost, "/bookings", h.Create)
	router.HandlerFunc(http.MethodGet, "/bookings", h.List)
	router.HandlerFunc(http.MethodGet, "/bookings/availability", h.Availability)
	router.Handle(http.MethodGet, "/bookings/id/:id", h.GetByID)
	router.Handle(http.MethodDelete, "/bookings/:id", h.Delete)
}

type createBookingRequest struct {
	ClientID       string `json:"clientId"`
	ProfessionalID string `json:"professionalId"`
	StartTime      string `json:"startTime"`
	EndTime        string `json:"endTime"`
	ServiceType    string `json:"serviceType"`
	Notes          string `json:"notes"`
}

type bookingResponse struct {
	ID             string `json:"id"`
	ClientID       string `json:"clientId"`
	ProfessionalID string `json:"professionalId"`
	StartTime      string `json:"startTime"`
	EndTime        string `json:"endTime"`
	ServiceType    string `json:"serviceType"`
	Notes          string `json:"notes,omitempty"`
	CreatedAt      string `json:"createdAt"`
}

func toBookingResponse(b *model.Booking) bookingResponse {
	return bookingResponse{
		ID:             b.ID,
		ClientID:       b.ClientID,
		ProfessionalID: b.ProfessionalID,
		StartTime:      b.StartTime.Format(timestampLayout),
		EndTime:        b.EndTime.Format(timestampLayout),
		ServiceType:    b.ServiceType,
		Notes:          b.Notes,
		CreatedAt:      b.CreatedAt.Format(timestampLayout),
	}
}

type availabilitySlotResponse struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

type availabilityResponse struct {
	ProfessionalID string                     `json:"professionalId"`
	Date           string                     `json:"date"`
	AvailableSlots []availabilitySlotResponse `json:"availableSlots"`
}

func toAvailabilityResponse(a *model.AvailabilityResponse) availabilityResponse {
	slots := make([]availabilitySlotResponse, 0, len(a.AvailableSlots))
	for _, s := range a.AvailableSlots {
		slots = append(slots, availabilitySlotResponse{
			StartTime: s.StartTime.Format(timestampLayout),
			EndTime:   s.EndTime.Format(timestampLayout),
		})
	}
	return availabilityResponse{
		ProfessionalID: a.ProfessionalID,
		Date:           a.Date,
		AvailableSlots: slots,
	}
}

func toBookingResponses(bookings []*model.Booking) []bookingResponse {
	out := make([]bookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, toBookingResponse(b))
	}
	return out
}

func (h *BookingHandler) Root(w http.ResponseWriter, r *http.Request) {
	apphttp.WriteSuccess(w, map[string]string{"service": "bookings", "status": "running"})
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createBookingRequest
	if err := h.decodeBody(r, &req); err != nil {
		apphttp.WriteError(w, err)
		return
	}

	booking, err := req.toModel()
	if err != nil {
		apphttp.WriteError(w, err)
		return
	}

	if err := h.service.Create(r.Context(), booking); err != nil {
		apphttp.WriteError(w, err)
		return
	}

	apphttp.WriteCreated(w, toBookingResponse(booking))
}

func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	booking, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		apphttp.WriteError(w, err)
		return
	}

	apphttp.WriteSuccess(w, toBookingResponse(booking))
}

func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	page, size, err := apphttp.ExtractPageSize(r)
	if err != nil {
		apphttp.WriteError(w, err)
		return
	}

	filter, err := listFilterFromQuery(r)
	if err != nil {
		apphttp.WriteError(w, err)
		return
	}

	bookings, total, err := h.service.List(r.Context(), filter, page, size)
	if err != nil {
		apphttp.WriteError(w, err)
		return
	}

	apphttp.WritePaginated(w, toBookingResponses(bookings), total, page, size)
}

func (h *BookingHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Delete(r.Context(), ps.ByName("id")); err != nil {
		apphttp.WriteError(w, err)
		return
	}

	apphttp.WriteNoContent(w)
}

func (h *BookingHandler) Availability(w http.ResponseWriter, r *http.Request) {
	professionalID := r.URL.Query().Get("professionalId")
	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		apphttp.WriteError(w, apperrors.InvalidInput("Query parameter 'date' is required"))
		return
	}

	date, err := time.Parse(dateLayout, dateStr)
	if err != nil {
		apphttp.WriteError(w, apperrors.InvalidInput(
			fmt.Sprintf("Invalid date %q, expected format %s", dateStr, dateLayout)))
		return
	}

	availability, err := h.service.Availability(r.Context(), professionalID, date)
	if err != nil {
		apphttp.WriteError(w, err)
		return
	}

	apphttp.WriteSuccess(w, toAvailabilityResponse(availability))
}

func (h *BookingHandler) decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if err == io.EOF {
			return apperrors.InvalidInput("Request body is required")
		}
		h.cfg.Log.Warn("Failed to decode request body", "error", err)
		return apperrors.InvalidInput("Invalid request body")
	}
	return nil
}

func (req *createBookingRequest) toModel() (*model.Booking, error) {
	start, err := parseTimestamp("startTime", req.StartTime)
	if err != nil {
		return nil, err
	}
	end, err := parseTimestamp("endTime", req.EndTime)
	if err != nil {
		return nil, err
	}

	return &model.Booking{
		ClientID:       req.ClientID,
		ProfessionalID: req.ProfessionalID,
		StartTime:      start,
		EndTime:        end,
		ServiceType:    req.ServiceType,
		Notes:          req.Notes,
	}, nil
}

func parseTimestamp(field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, apperrors.InvalidInput(fmt.Sprintf("Field '%s' is required", field))
	}
	t, err := time.Parse(timestampLayout, value)
	if err != nil {
		return time.Time{}, apperrors.InvalidInput(
			fmt.Sprintf("Invalid %s %q, expected format %s", field, value, timestampLayout))
	}
	return t, nil
}

func listFilterFromQuery(r *http.Request) (model.BookingFilter, error) {
	q := r.URL.Query()
	filter := model.BookingFilter{
		ClientID:       q.Get("clientId"),
		ProfessionalID: q.Get("professionalId"),
	}

	if dateStr := q.Get("date"); dateStr != "" {
		date, err := time.Parse(dateLayout, dateStr)
		if err != nil {
			return model.BookingFilter{}, apperrors.InvalidInput(
				fmt.Sprintf("Invalid date %q, expected format %s", dateStr, dateLayout))
		}
		filter.Date = &date
	}

	return filter, nil
}
