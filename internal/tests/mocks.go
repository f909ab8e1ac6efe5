package tests

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"petwalk/internal/domain"
	"petwalk/internal/redis"
	"petwalk/internal/repository"
)

// ──────────────────────────────────────────────
// MOCK BOOKING REPOSITORY
// ──────────────────────────────────────────────

// MockBookingRepository is a mock implementation of BookingRepository.
// The guarded mutations honor the same status preconditions as the
// SQL conditional updates.
type MockBookingRepository struct {
	mu       sync.RWMutex
	bookings map[string]*domain.Booking

	// Counters for verification
	CreateCallCount   int32
	AssignCallCount   int32
	CompleteCallCount int32
	CancelCallCount   int32

	// Error injection
	CreateError   error
	GetByIDError  error
	AssignError   error
	CompleteError error
	CancelError   error
}

// NewMockBookingRepository creates a new mock booking repository.
func NewMockBookingRepository() *MockBookingRepository {
	return &MockBookingRepository{
		bookings: make(map[string]*domain.Booking),
	}
}

// AddBooking adds a booking to the mock repository.
func (m *MockBookingRepository) AddBooking(booking *domain.Booking) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookings[booking.ID] = booking
}

// GetBooking returns the stored booking for test assertions.
func (m *MockBookingRepository) GetBooking(id string) *domain.Booking {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.bookings[id]
}

func (m *MockBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *booking
	m.bookings[booking.ID] = &copy
	return nil
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	if m.GetByIDError != nil {
		return nil, m.GetByIDError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	booking, ok := m.bookings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *booking
	return &copy, nil
}

func (m *MockBookingRepository) ListByClient(ctx context.Context, clientID string) ([]*domain.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Booking, 0)
	for _, b := range m.bookings {
		if b.ClientID == clientID {
			copy := *b
			result = append(result, &copy)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (m *MockBookingRepository) ListByWalker(ctx context.Context, walkerID string) ([]*domain.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Booking, 0)
	for _, b := range m.bookings {
		if b.WalkerID == walkerID {
			copy := *b
			result = append(result, &copy)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (m *MockBookingRepository) ListAssignedStartingBefore(ctx context.Context, cutoff time.Time) ([]*domain.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Booking, 0)
	for _, b := range m.bookings {
		if b.Status == domain.BookingStatusAssigned && b.ScheduledAt.Before(cutoff) {
			copy := *b
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockBookingRepository) Assign(ctx context.Context, id, walkerID string) (bool, error) {
	atomic.AddInt32(&m.AssignCallCount, 1)
	if m.AssignError != nil {
		return false, m.AssignError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	booking, ok := m.bookings[id]
	if !ok || booking.Status != domain.BookingStatusRequested || booking.WalkerID != "" {
		return false, nil
	}
	booking.Status = domain.BookingStatusAssigned
	booking.WalkerID = walkerID
	return true, nil
}

func (m *MockBookingRepository) MarkInProgress(ctx context.Context, id, walkerID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	booking, ok := m.bookings[id]
	if !ok || booking.Status != domain.BookingStatusAssigned || booking.WalkerID != walkerID {
		return false, nil
	}
	booking.Status = domain.BookingStatusInProgress
	return true, nil
}

func (m *MockBookingRepository) Complete(ctx context.Context, id string, upd repository.CompletionUpdate) (bool, error) {
	atomic.AddInt32(&m.CompleteCallCount, 1)
	if m.CompleteError != nil {
		return false, m.CompleteError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	booking, ok := m.bookings[id]
	if !ok || booking.Status != domain.BookingStatusInProgress {
		return false, nil
	}
	booking.Status = domain.BookingStatusCompleted
	booking.DistanceKm = upd.DistanceKm
	booking.WalkedMinutes = upd.WalkedMinutes
	booking.PriceCLP = upd.PriceCLP
	booking.PenaltyCLP = upd.PenaltyCLP
	booking.Notes = upd.Notes
	booking.CompletedAt = upd.CompletedAt
	return true, nil
}

func (m *MockBookingRepository) Cancel(ctx context.Context, id string, by domain.CancelParty, reason string, at time.Time) (bool, error) {
	atomic.AddInt32(&m.CancelCallCount, 1)
	if m.CancelError != nil {
		return false, m.CancelError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	booking, ok := m.bookings[id]
	if !ok {
		return false, nil
	}
	if booking.Status != domain.BookingStatusRequested && booking.Status != domain.BookingStatusAssigned {
		return false, nil
	}
	// Same guard as the SQL: refuse while the walker is mid-walk anywhere.
	if booking.WalkerID != "" {
		for _, other := range m.bookings {
			if other.WalkerID == booking.WalkerID && other.Status == domain.BookingStatusInProgress {
				return false, nil
			}
		}
	}
	booking.Status = domain.BookingStatusCancelled
	booking.CancelledBy = by
	booking.CancelReason = reason
	booking.CancelledAt = at
	return true, nil
}

func (m *MockBookingRepository) CountInProgressByWalker(ctx context.Context, walkerID string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, b := range m.bookings {
		if b.WalkerID == walkerID && b.Status == domain.BookingStatusInProgress {
			count++
		}
	}
	return count, nil
}

// ──────────────────────────────────────────────
// MOCK WALKER REPOSITORY
// ──────────────────────────────────────────────

// MockWalkerRepository is a mock implementation of WalkerRepository.
type MockWalkerRepository struct {
	mu      sync.RWMutex
	walkers map[string]*domain.Walker

	// Counters for verification
	CreateCallCount       int32
	UpdateStatusCallCount int32

	// Error injection
	CreateError       error
	UpdateStatusError error
}

// NewMockWalkerRepository creates a new mock walker repository.
func NewMockWalkerRepository() *MockWalkerRepository {
	return &MockWalkerRepository{
		walkers: make(map[string]*domain.Walker),
	}
}

// AddWalker adds a walker to the mock repository.
func (m *MockWalkerRepository) AddWalker(walker *domain.Walker) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.walkers[walker.ID] = walker
}

func (m *MockWalkerRepository) Create(ctx context.Context, walker *domain.Walker) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *walker
	m.walkers[walker.ID] = &copy
	return nil
}

func (m *MockWalkerRepository) GetByID(ctx context.Context, id string) (*domain.Walker, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	walker, ok := m.walkers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *walker
	return &copy, nil
}

func (m *MockWalkerRepository) GetByRUT(ctx context.Context, rut string) (*domain.Walker, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, w := range m.walkers {
		if w.RUT == rut {
			copy := *w
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockWalkerRepository) ListApproved(ctx context.Context) ([]*domain.Walker, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Walker, 0)
	for _, w := range m.walkers {
		if w.Status == domain.WalkerStatusApproved {
			copy := *w
			result = append(result, &copy)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (m *MockWalkerRepository) UpdateStatus(ctx context.Context, id string, status domain.WalkerStatus) error {
	atomic.AddInt32(&m.UpdateStatusCallCount, 1)
	if m.UpdateStatusError != nil {
		return m.UpdateStatusError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	walker, ok := m.walkers[id]
	if !ok {
		return repository.ErrNotFound
	}
	walker.Status = status
	return nil
}

// ──────────────────────────────────────────────
// MOCK CLIENT AND PET REPOSITORIES
// ──────────────────────────────────────────────

// MockClientRepository is a mock implementation of ClientRepository.
type MockClientRepository struct {
	mu      sync.RWMutex
	clients map[string]*domain.Client

	CreateCallCount int32
	CreateError     error
}

// NewMockClientRepository creates a new mock client repository.
func NewMockClientRepository() *MockClientRepository {
	return &MockClientRepository{
		clients: make(map[string]*domain.Client),
	}
}

// AddClient adds a client to the mock repository.
func (m *MockClientRepository) AddClient(client *domain.Client) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clients[client.ID] = client
}

func (m *MockClientRepository) Create(ctx context.Context, client *domain.Client) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *client
	m.clients[client.ID] = &copy
	return nil
}

func (m *MockClientRepository) GetByID(ctx context.Context, id string) (*domain.Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	client, ok := m.clients[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *client
	return &copy, nil
}

// MockPetRepository is a mock implementation of PetRepository.
type MockPetRepository struct {
	mu   sync.RWMutex
	pets map[string]*domain.Pet

	CreateCallCount int32
	CreateError     error
}

// NewMockPetRepository creates a new mock pet repository.
func NewMockPetRepository() *MockPetRepository {
	return &MockPetRepository{
		pets: make(map[string]*domain.Pet),
	}
}

// AddPet adds a pet to the mock repository.
func (m *MockPetRepository) AddPet(pet *domain.Pet) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pets[pet.ID] = pet
}

func (m *MockPetRepository) Create(ctx context.Context, pet *domain.Pet) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *pet
	m.pets[pet.ID] = &copy
	return nil
}

func (m *MockPetRepository) GetByID(ctx context.Context, id string) (*domain.Pet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	pet, ok := m.pets[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *pet
	return &copy, nil
}

func (m *MockPetRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Pet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Pet, 0)
	for _, p := range m.pets {
		if p.OwnerID == ownerID {
			copy := *p
			result = append(result, &copy)
		}
	}
	return result, nil
}

// ──────────────────────────────────────────────
// MOCK ROUTE POINT REPOSITORY
// ──────────────────────────────────────────────

// MockRoutePointRepository is a mock implementation of RoutePointRepository.
type MockRoutePointRepository struct {
	mu     sync.RWMutex
	points map[string][]*domain.RoutePoint // keyed by booking ID

	AppendCallCount int32
	AppendError     error
}

// NewMockRoutePointRepository creates a new mock route point repository.
func NewMockRoutePointRepository() *MockRoutePointRepository {
	return &MockRoutePointRepository{
		points: make(map[string][]*domain.RoutePoint),
	}
}

// AddPoint adds a route point for the given booking.
func (m *MockRoutePointRepository) AddPoint(point *domain.RoutePoint) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.points[point.BookingID] = append(m.points[point.BookingID], point)
}

func (m *MockRoutePointRepository) Append(ctx context.Context, point *domain.RoutePoint) error {
	atomic.AddInt32(&m.AppendCallCount, 1)
	if m.AppendError != nil {
		return m.AppendError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *point
	m.points[point.BookingID] = append(m.points[point.BookingID], &copy)
	return nil
}

func (m *MockRoutePointRepository) ListByBooking(ctx context.Context, bookingID string) ([]*domain.RoutePoint, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	stored := m.points[bookingID]
	result := make([]*domain.RoutePoint, 0, len(stored))
	for _, p := range stored {
		copy := *p
		result = append(result, &copy)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CapturedAt.Before(result[j].CapturedAt)
	})
	return result, nil
}

// ──────────────────────────────────────────────
// MOCK LOCATION STORE
// ──────────────────────────────────────────────

// MockLocationStore is a mock implementation of LocationStoreInterface.
type MockLocationStore struct {
	mu        sync.RWMutex
	locations map[string]redis.WalkerCoordinate

	UpdateLocationError error
	LocationsError      error
}

// NewMockLocationStore creates a new mock location store.
func NewMockLocationStore() *MockLocationStore {
	return &MockLocationStore{
		locations: make(map[string]redis.WalkerCoordinate),
	}
}

// SetLocation stores a walker location for test setup.
func (m *MockLocationStore) SetLocation(walkerID string, lat, lng float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.locations[walkerID] = redis.WalkerCoordinate{Lat: lat, Lng: lng}
}

func (m *MockLocationStore) UpdateLocation(ctx context.Context, walkerID string, lat, lng float64) error {
	if m.UpdateLocationError != nil {
		return m.UpdateLocationError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.locations[walkerID] = redis.WalkerCoordinate{Lat: lat, Lng: lng}
	return nil
}

func (m *MockLocationStore) Locations(ctx context.Context, walkerIDs []string) (map[string]redis.WalkerCoordinate, error) {
	if m.LocationsError != nil {
		return nil, m.LocationsError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make(map[string]redis.WalkerCoordinate)
	for _, id := range walkerIDs {
		if coord, ok := m.locations[id]; ok {
			result[id] = coord
		}
	}
	return result, nil
}

func (m *MockLocationStore) RemoveLocation(ctx context.Context, walkerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locations, walkerID)
	return nil
}

// ──────────────────────────────────────────────
// MOCK LOCK STORE
// ──────────────────────────────────────────────

// MockLockStore is a mock implementation of LockStoreInterface.
type MockLockStore struct {
	mu    sync.Mutex
	locks map[string]bool

	AcquireError error
}

// NewMockLockStore creates a new mock lock store.
func NewMockLockStore() *MockLockStore {
	return &MockLockStore{
		locks: make(map[string]bool),
	}
}

func (m *MockLockStore) AcquireBookingLock(ctx context.Context, bookingID string, ttl time.Duration) (bool, error) {
	if m.AcquireError != nil {
		return false, m.AcquireError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.locks[bookingID] {
		return false, nil
	}
	m.locks[bookingID] = true
	return true, nil
}

func (m *MockLockStore) ReleaseBookingLock(ctx context.Context, bookingID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, bookingID)
	return nil
}
