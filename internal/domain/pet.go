package domain

import "time"

// PetSpecies represents the kind of pet a booking is for.
type PetSpecies string

const (
	PetSpeciesDog PetSpecies = "DOG"
	PetSpeciesCat PetSpecies = "CAT"
)

// Pet represents a client's pet.
type Pet struct {
	ID        string
	OwnerID   string
	Name      string
	Species   PetSpecies
	Breed     string
	CreatedAt time.Time
}
