package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"petwalk/internal/domain"
	"petwalk/internal/service"
)

// WalkerHandler handles HTTP requests for walkers.
type WalkerHandler struct {
	walkerService   *service.WalkerService
	matchingService service.MatchingServiceInterface
}

// NewWalkerHandler creates a new WalkerHandler.
func NewWalkerHandler(walkerService *service.WalkerService, matchingService service.MatchingServiceInterface) *WalkerHandler {
	return &WalkerHandler{
		walkerService:   walkerService,
		matchingService: matchingService,
	}
}

// RegisterWalkerRequest is the HTTP request body for walker registration.
type RegisterWalkerRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	RUT   string `json:"rut"`
}

// WalkerResponse is the HTTP representation of a walker.
type WalkerResponse struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Phone  string  `json:"phone"`
	RUT    string  `json:"rut"`
	Status string  `json:"status"`
	Rating float64 `json:"rating"`
}

func toWalkerResponse(w *domain.Walker) WalkerResponse {
	return WalkerResponse{
		ID:     w.ID,
		Name:   w.Name,
		Phone:  w.Phone,
		RUT:    w.RUT,
		Status: string(w.Status),
		Rating: w.Rating,
	}
}

// RegisterWalker handles POST /v1/walkers
func (h *WalkerHandler) RegisterWalker(c *gin.Context) {
	var req RegisterWalkerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	walker, err := h.walkerService.RegisterWalker(c.Request.Context(), service.RegisterWalkerRequest{
		Name:  req.Name,
		Phone: req.Phone,
		RUT:   req.RUT,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toWalkerResponse(walker))
}

// GetWalker handles GET /v1/walkers/:id
func (h *WalkerHandler) GetWalker(c *gin.Context) {
	walker, err := h.walkerService.GetWalker(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toWalkerResponse(walker))
}

// SetStatusRequest is the HTTP request body for moderating a walker.
type SetStatusRequest struct {
	Status string `json:"status"`
}

// SetWalkerStatus handles PUT /v1/admin/walkers/:id/status
func (h *WalkerHandler) SetWalkerStatus(c *gin.Context) {
	var req SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	err := h.walkerService.SetWalkerStatus(c.Request.Context(), c.Param("id"), domain.WalkerStatus(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": req.Status})
}

// LocationRequest is the HTTP request body for a walker location ping.
type LocationRequest struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// UpdateLocation handles PUT /v1/walkers/:id/location
func (h *WalkerHandler) UpdateLocation(c *gin.Context) {
	var req LocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if err := h.walkerService.UpdateLocation(c.Request.Context(), c.Param("id"), req.Lat, req.Lng); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// MatchQueryRequest is the HTTP request body for a matching query.
type MatchQueryRequest struct {
	Lat         float64   `json:"lat"`
	Lng         float64   `json:"lng"`
	ScheduledAt time.Time `json:"scheduled_at"`
}

// CandidateResponse is the HTTP representation of a ranked candidate.
type CandidateResponse struct {
	WalkerID    string  `json:"walker_id"`
	Name        string  `json:"name"`
	Rating      float64 `json:"rating"`
	DistanceKm  float64 `json:"distance_km"`
	ActiveLoad  int     `json:"active_load"`
	HasLocation bool    `json:"has_location"`
}

// Match handles POST /v1/walkers/match
func (h *WalkerHandler) Match(c *gin.Context) {
	var req MatchQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	candidates, err := h.matchingService.Match(c.Request.Context(), service.MatchRequest{
		Lat:         req.Lat,
		Lng:         req.Lng,
		ScheduledAt: req.ScheduledAt,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]CandidateResponse, 0, len(candidates))
	for _, cand := range candidates {
		response = append(response, CandidateResponse{
			WalkerID:    cand.WalkerID,
			Name:        cand.Name,
			Rating:      cand.Rating,
			DistanceKm:  cand.DistanceKm,
			ActiveLoad:  cand.ActiveLoad,
			HasLocation: cand.HasLocation,
		})
	}
	c.JSON(http.StatusOK, response)
}
