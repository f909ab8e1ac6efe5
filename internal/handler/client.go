package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"petwalk/internal/domain"
	"petwalk/internal/service"
)

// ClientHandler handles HTTP requests for clients and their pets.
type ClientHandler struct {
	clientService *service.ClientService
}

// NewClientHandler creates a new ClientHandler.
func NewClientHandler(clientService *service.ClientService) *ClientHandler {
	return &ClientHandler{clientService: clientService}
}

// RegisterClientRequest is the HTTP request body for client registration.
type RegisterClientRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	RUT   string `json:"rut"`
}

// ClientResponse is the HTTP representation of a client.
type ClientResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
	RUT   string `json:"rut"`
}

// RegisterClient handles POST /v1/clients
func (h *ClientHandler) RegisterClient(c *gin.Context) {
	var req RegisterClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	client, err := h.clientService.RegisterClient(c.Request.Context(), service.RegisterClientRequest{
		Name:  req.Name,
		Phone: req.Phone,
		RUT:   req.RUT,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, ClientResponse{
		ID:    client.ID,
		Name:  client.Name,
		Phone: client.Phone,
		RUT:   client.RUT,
	})
}

// RegisterPetRequest is the HTTP request body for adding a pet.
type RegisterPetRequest struct {
	Name    string `json:"name"`
	Species string `json:"species"`
	Breed   string `json:"breed,omitempty"`
}

// PetResponse is the HTTP representation of a pet.
type PetResponse struct {
	ID      string `json:"id"`
	OwnerID string `json:"owner_id"`
	Name    string `json:"name"`
	Species string `json:"species"`
	Breed   string `json:"breed,omitempty"`
}

func toPetResponse(p *domain.Pet) PetResponse {
	return PetResponse{
		ID:      p.ID,
		OwnerID: p.OwnerID,
		Name:    p.Name,
		Species: string(p.Species),
		Breed:   p.Breed,
	}
}

// RegisterPet handles POST /v1/clients/:id/pets
func (h *ClientHandler) RegisterPet(c *gin.Context) {
	var req RegisterPetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	pet, err := h.clientService.RegisterPet(c.Request.Context(), service.RegisterPetRequest{
		OwnerID: c.Param("id"),
		Name:    req.Name,
		Species: domain.PetSpecies(req.Species),
		Breed:   req.Breed,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toPetResponse(pet))
}

// ListPets handles GET /v1/clients/:id/pets
func (h *ClientHandler) ListPets(c *gin.Context) {
	pets, err := h.clientService.ListPets(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]PetResponse, 0, len(pets))
	for _, p := range pets {
		response = append(response, toPetResponse(p))
	}
	c.JSON(http.StatusOK, response)
}
