package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"petwalk/internal/domain"
	"petwalk/internal/service"
)

// BookingHandler handles HTTP requests for bookings.
type BookingHandler struct {
	bookingService  *service.BookingService
	trackingService *service.TrackingService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(bookingService *service.BookingService, trackingService *service.TrackingService) *BookingHandler {
	return &BookingHandler{
		bookingService:  bookingService,
		trackingService: trackingService,
	}
}

// CreateBookingRequest is the HTTP request body for creating a booking.
type CreateBookingRequest struct {
	ClientID        string    `json:"client_id"`
	PetID           string    `json:"pet_id"`
	ScheduledAt     time.Time `json:"scheduled_at"`
	DurationMinutes int       `json:"duration_minutes"`
	PriceCLP        int64     `json:"price_clp"`
}

// BookingResponse is the HTTP representation of a booking. The start
// code is only disclosed to the owning client on creation.
type BookingResponse struct {
	ID              string  `json:"id"`
	ClientID        string  `json:"client_id"`
	WalkerID        string  `json:"walker_id,omitempty"`
	PetID           string  `json:"pet_id"`
	Status          string  `json:"status"`
	ScheduledAt     string  `json:"scheduled_at"`
	DurationMinutes int     `json:"duration_minutes"`
	PriceCLP        int64   `json:"price_clp"`
	PenaltyCLP      int64   `json:"penalty_clp,omitempty"`
	StartCode       string  `json:"start_code,omitempty"`
	DistanceKm      float64 `json:"distance_km"`
	WalkedMinutes   int     `json:"walked_minutes"`
	CancelledBy     string  `json:"cancelled_by,omitempty"`
	CancelReason    string  `json:"cancel_reason,omitempty"`
	Notes           string  `json:"notes,omitempty"`
}

func toBookingResponse(b *domain.Booking, includeStartCode bool) BookingResponse {
	resp := BookingResponse{
		ID:              b.ID,
		ClientID:        b.ClientID,
		WalkerID:        b.WalkerID,
		PetID:           b.PetID,
		Status:          string(b.Status),
		ScheduledAt:     b.ScheduledAt.Format(time.RFC3339),
		DurationMinutes: b.DurationMinutes,
		PriceCLP:        b.PriceCLP,
		PenaltyCLP:      b.PenaltyCLP,
		DistanceKm:      b.DistanceKm,
		WalkedMinutes:   b.WalkedMinutes,
		CancelledBy:     string(b.CancelledBy),
		CancelReason:    b.CancelReason,
		Notes:           b.Notes,
	}
	if includeStartCode {
		resp.StartCode = b.StartCode
	}
	return resp
}

// CreateBooking handles POST /v1/bookings
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	booking, err := h.bookingService.CreateBooking(c.Request.Context(), service.CreateBookingRequest{
		ClientID:        req.ClientID,
		PetID:           req.PetID,
		ScheduledAt:     req.ScheduledAt,
		DurationMinutes: req.DurationMinutes,
		PriceCLP:        req.PriceCLP,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toBookingResponse(booking, true))
}

// GetBooking handles GET /v1/bookings/:id
func (h *BookingHandler) GetBooking(c *gin.Context) {
	booking, err := h.bookingService.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toBookingResponse(booking, false))
}

// AcceptRequest is the HTTP request body for accepting a booking.
type AcceptRequest struct {
	WalkerID string `json:"walker_id"`
}

// AcceptBooking handles POST /v1/bookings/:id/accept
func (h *BookingHandler) AcceptBooking(c *gin.Context) {
	var req AcceptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	booking, err := h.bookingService.AcceptBooking(c.Request.Context(), service.AcceptBookingRequest{
		BookingID: c.Param("id"),
		WalkerID:  req.WalkerID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toBookingResponse(booking, false))
}

// StartRequest is the HTTP request body for the start-code handshake.
type StartRequest struct {
	WalkerID  string `json:"walker_id"`
	StartCode string `json:"start_code"`
}

// StartWalk handles POST /v1/bookings/:id/start
func (h *BookingHandler) StartWalk(c *gin.Context) {
	var req StartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	booking, err := h.bookingService.StartWalk(c.Request.Context(), service.StartWalkRequest{
		BookingID: c.Param("id"),
		WalkerID:  req.WalkerID,
		StartCode: req.StartCode,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toBookingResponse(booking, false))
}

// CompleteRequest is the HTTP request body for completing a walk.
type CompleteRequest struct {
	WalkerID string `json:"walker_id"`
	Notes    string `json:"notes,omitempty"`
}

// CompleteWalk handles POST /v1/bookings/:id/complete
func (h *BookingHandler) CompleteWalk(c *gin.Context) {
	var req CompleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	booking, err := h.bookingService.CompleteWalk(c.Request.Context(), service.CompleteWalkRequest{
		BookingID: c.Param("id"),
		WalkerID:  req.WalkerID,
		Notes:     req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toBookingResponse(booking, false))
}

// TerminateRequest is the HTTP request body for early termination.
type TerminateRequest struct {
	ClientID string `json:"client_id"`
	Reason   string `json:"reason,omitempty"`
}

// TerminateEarly handles POST /v1/bookings/:id/terminate
func (h *BookingHandler) TerminateEarly(c *gin.Context) {
	var req TerminateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	booking, err := h.bookingService.TerminateEarly(c.Request.Context(), service.TerminateEarlyRequest{
		BookingID: c.Param("id"),
		ClientID:  req.ClientID,
		Reason:    req.Reason,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toBookingResponse(booking, false))
}

// CancelRequest is the HTTP request body for cancelling a booking.
type CancelRequest struct {
	ClientID string `json:"client_id"`
	Reason   string `json:"reason,omitempty"`
}

// CancelBooking handles POST /v1/bookings/:id/cancel
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	var req CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	booking, err := h.bookingService.CancelBooking(c.Request.Context(), service.CancelBookingRequest{
		BookingID: c.Param("id"),
		ClientID:  req.ClientID,
		Reason:    req.Reason,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toBookingResponse(booking, false))
}

// RoutePointRequest is the HTTP request body for recording a GPS sample.
type RoutePointRequest struct {
	WalkerID   string    `json:"walker_id"`
	Lat        float64   `json:"lat"`
	Lng        float64   `json:"lng"`
	CapturedAt time.Time `json:"captured_at,omitempty"`
}

// RoutePointResponse is the HTTP representation of a GPS sample.
type RoutePointResponse struct {
	ID         string  `json:"id"`
	BookingID  string  `json:"booking_id"`
	Lat        float64 `json:"lat"`
	Lng        float64 `json:"lng"`
	CapturedAt string  `json:"captured_at"`
}

// AppendRoutePoint handles POST /v1/bookings/:id/route
func (h *BookingHandler) AppendRoutePoint(c *gin.Context) {
	var req RoutePointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	point, err := h.trackingService.AppendRoutePoint(c.Request.Context(), service.AppendRoutePointRequest{
		BookingID:  c.Param("id"),
		WalkerID:   req.WalkerID,
		Lat:        req.Lat,
		Lng:        req.Lng,
		CapturedAt: req.CapturedAt,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, RoutePointResponse{
		ID:         point.ID,
		BookingID:  point.BookingID,
		Lat:        point.Lat,
		Lng:        point.Lng,
		CapturedAt: point.CapturedAt.Format(time.RFC3339),
	})
}

// GetRoute handles GET /v1/bookings/:id/route
func (h *BookingHandler) GetRoute(c *gin.Context) {
	points, err := h.trackingService.GetRoute(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]RoutePointResponse, 0, len(points))
	for _, p := range points {
		response = append(response, RoutePointResponse{
			ID:         p.ID,
			BookingID:  p.BookingID,
			Lat:        p.Lat,
			Lng:        p.Lng,
			CapturedAt: p.CapturedAt.Format(time.RFC3339),
		})
	}

	c.JSON(http.StatusOK, response)
}

// ListByClient handles GET /v1/clients/:id/bookings
func (h *BookingHandler) ListByClient(c *gin.Context) {
	bookings, err := h.bookingService.ListClientBookings(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		response = append(response, toBookingResponse(b, false))
	}
	c.JSON(http.StatusOK, response)
}

// ListByWalker handles GET /v1/walkers/:id/bookings
func (h *BookingHandler) ListByWalker(c *gin.Context) {
	bookings, err := h.bookingService.ListWalkerBookings(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		response = append(response, toBookingResponse(b, false))
	}
	c.JSON(http.StatusOK, response)
}
