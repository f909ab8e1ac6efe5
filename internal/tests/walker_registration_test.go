package tests

import (
	"context"
	"errors"
	"testing"

	"petwalk/internal/domain"
	"petwalk/internal/service"
)

// ──────────────────────────────────────────────
// WALKER REGISTRATION AND MODERATION
// ──────────────────────────────────────────────

func TestRegisterWalker_StartsPendingWithCanonicalRUT(t *testing.T) {
	t.Parallel()

	walkerRepo := NewMockWalkerRepository()
	svc := service.NewWalkerService(walkerRepo, NewMockLocationStore(), nil)

	walker, err := svc.RegisterWalker(context.Background(), service.RegisterWalkerRequest{
		Name:  "Camila Soto",
		Phone: "+56 9 8765 4321",
		RUT:   "12345678-5",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if walker.Status != domain.WalkerStatusPending {
		t.Errorf("expected new walker %s, got %s", domain.WalkerStatusPending, walker.Status)
	}
	if walker.RUT != "12.345.678-5" {
		t.Errorf("expected canonical RUT, got %q", walker.RUT)
	}
}

func TestRegisterWalker_RejectsBadRUT(t *testing.T) {
	t.Parallel()

	svc := service.NewWalkerService(NewMockWalkerRepository(), NewMockLocationStore(), nil)

	_, err := svc.RegisterWalker(context.Background(), service.RegisterWalkerRequest{
		Name:  "Camila Soto",
		Phone: "+56 9 8765 4321",
		RUT:   "12345678-4", // wrong check digit
	})
	if !errors.Is(err, service.ErrInvalidRUT) {
		t.Errorf("expected ErrInvalidRUT, got %v", err)
	}
}

func TestRegisterWalker_RejectsDuplicateRUT(t *testing.T) {
	t.Parallel()

	walkerRepo := NewMockWalkerRepository()
	walkerRepo.AddWalker(&domain.Walker{
		ID:     "walker-1",
		RUT:    "12.345.678-5",
		Status: domain.WalkerStatusApproved,
	})

	svc := service.NewWalkerService(walkerRepo, NewMockLocationStore(), nil)

	_, err := svc.RegisterWalker(context.Background(), service.RegisterWalkerRequest{
		Name:  "Camila Soto",
		Phone: "+56 9 8765 4321",
		RUT:   "123456785",
	})
	if !errors.Is(err, service.ErrRUTTaken) {
		t.Errorf("expected ErrRUTTaken, got %v", err)
	}
}

func TestRegisterWalker_RejectsBadPhone(t *testing.T) {
	t.Parallel()

	svc := service.NewWalkerService(NewMockWalkerRepository(), NewMockLocationStore(), nil)

	_, err := svc.RegisterWalker(context.Background(), service.RegisterWalkerRequest{
		Name:  "Camila Soto",
		Phone: "12345",
		RUT:   "12345678-5",
	})
	if !errors.Is(err, service.ErrInvalidPhone) {
		t.Errorf("expected ErrInvalidPhone, got %v", err)
	}
}

func TestSetWalkerStatus_ApprovalFlow(t *testing.T) {
	t.Parallel()

	walkerRepo := NewMockWalkerRepository()
	walkerRepo.AddWalker(&domain.Walker{ID: "walker-1", Status: domain.WalkerStatusPending})

	svc := service.NewWalkerService(walkerRepo, NewMockLocationStore(), nil)

	if err := svc.SetWalkerStatus(context.Background(), "walker-1", domain.WalkerStatusApproved); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	walker, err := walkerRepo.GetByID(context.Background(), "walker-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if walker.Status != domain.WalkerStatusApproved {
		t.Errorf("expected %s, got %s", domain.WalkerStatusApproved, walker.Status)
	}
}

func TestSetWalkerStatus_RejectsUnknownStatus(t *testing.T) {
	t.Parallel()

	walkerRepo := NewMockWalkerRepository()
	walkerRepo.AddWalker(&domain.Walker{ID: "walker-1", Status: domain.WalkerStatusPending})

	svc := service.NewWalkerService(walkerRepo, NewMockLocationStore(), nil)

	err := svc.SetWalkerStatus(context.Background(), "walker-1", domain.WalkerStatus("BANNED"))
	if !errors.Is(err, service.ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestUpdateLocation_StoresCoordinate(t *testing.T) {
	t.Parallel()

	locationStore := NewMockLocationStore()
	svc := service.NewWalkerService(NewMockWalkerRepository(), locationStore, nil)

	if err := svc.UpdateLocation(context.Background(), "walker-1", -33.4372, -70.6342); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	coords, err := locationStore.Locations(context.Background(), []string{"walker-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	coord, ok := coords["walker-1"]
	if !ok {
		t.Fatal("expected coordinate stored")
	}
	if coord.Lat != -33.4372 || coord.Lng != -70.6342 {
		t.Errorf("stored coordinate mismatch: %+v", coord)
	}
}

func TestUpdateLocation_RejectsOutOfRange(t *testing.T) {
	t.Parallel()

	svc := service.NewWalkerService(NewMockWalkerRepository(), NewMockLocationStore(), nil)

	err := svc.UpdateLocation(context.Background(), "walker-1", -33.44, -200.0)
	if !errors.Is(err, service.ErrInvalidLocation) {
		t.Errorf("expected ErrInvalidLocation, got %v", err)
	}
}
