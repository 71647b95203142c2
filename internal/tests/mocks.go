package tests

import (
	"context"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"fleet/internal/domain"
	"fleet/internal/repository"
	"fleet/internal/service"
)

// ──────────────────────────────────────────────
// MOCK COMPANY REPOSITORY
// ──────────────────────────────────────────────

// MockCompanyRepository is a mock implementation of CompanyRepository.
type MockCompanyRepository struct {
	mu        sync.RWMutex
	companies map[string]*domain.Company

	// Counters for verification
	CreateCallCount int32
	UpdateCallCount int32

	// Error injection
	CreateError error
	UpdateError error
}

// NewMockCompanyRepository creates a new mock company repository.
func NewMockCompanyRepository() *MockCompanyRepository {
	return &MockCompanyRepository{
		companies: make(map[string]*domain.Company),
	}
}

// AddCompany adds a company to the mock repository.
func (m *MockCompanyRepository) AddCompany(company *domain.Company) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.companies[company.ID] = company
}

func (m *MockCompanyRepository) Create(ctx context.Context, company *domain.Company) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.companies {
		if !existing.Deleted && existing.NameNormalized == company.NameNormalized {
			return &repository.DuplicateKeyError{Field: "name", Value: company.Name}
		}
	}
	copy := *company
	m.companies[company.ID] = &copy
	return nil
}

func (m *MockCompanyRepository) GetByID(ctx context.Context, id string) (*domain.Company, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	company, ok := m.companies[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *company
	return &copy, nil
}

func (m *MockCompanyRepository) GetByName(ctx context.Context, name string, includeDeleted bool) (*domain.Company, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, company := range m.companies {
		if company.Name != name {
			continue
		}
		if company.Deleted && !includeDeleted {
			continue
		}
		copy := *company
		return &copy, nil
	}
	return nil, repository.ErrNotFound
}

func (m *MockCompanyRepository) List(ctx context.Context, filter repository.CompanyFilter, page repository.Page) ([]*domain.Company, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Company
	for _, company := range m.companies {
		if company.Deleted || !matchSubstring(company.Name, filter.Search) {
			continue
		}
		copy := *company
		result = append(result, &copy)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return paginate(result, page), nil
}

func (m *MockCompanyRepository) Count(ctx context.Context, filter repository.CompanyFilter) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var count int64
	for _, company := range m.companies {
		if !company.Deleted && matchSubstring(company.Name, filter.Search) {
			count++
		}
	}
	return count, nil
}

func (m *MockCompanyRepository) Update(ctx context.Context, company *domain.Company) error {
	atomic.AddInt32(&m.UpdateCallCount, 1)
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.companies[company.ID]; !ok {
		return repository.ErrNotFound
	}
	copy := *company
	m.companies[company.ID] = &copy
	return nil
}

// CountCompanies returns the number of stored companies, deleted included.
func (m *MockCompanyRepository) CountCompanies() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.companies)
}

// GetCompany returns a stored company for test assertions.
func (m *MockCompanyRepository) GetCompany(id string) *domain.Company {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.companies[id]
}

// ──────────────────────────────────────────────
// MOCK DRIVER REPOSITORY
// ──────────────────────────────────────────────

// MockDriverRepository is a mock implementation of DriverRepository.
// When Companies is set, reads populate the owning company from it.
type MockDriverRepository struct {
	mu      sync.RWMutex
	drivers map[string]*domain.Driver

	Companies *MockCompanyRepository

	// Counters for verification
	CreateCallCount int32
	UpdateCallCount int32

	// Error injection
	CreateError error
	UpdateError error
}

// NewMockDriverRepository creates a new mock driver repository.
func NewMockDriverRepository() *MockDriverRepository {
	return &MockDriverRepository{
		drivers: make(map[string]*domain.Driver),
	}
}

// AddDriver adds a driver to the mock repository.
func (m *MockDriverRepository) AddDriver(driver *domain.Driver) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drivers[driver.ID] = driver
}

func (m *MockDriverRepository) Create(ctx context.Context, driver *domain.Driver) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.drivers {
		if !existing.Deleted && existing.PhoneNumber != "" && existing.PhoneNumber == driver.PhoneNumber {
			return &repository.DuplicateKeyError{Field: "phone_number", Value: driver.PhoneNumber}
		}
	}
	copy := *driver
	copy.Company = nil
	m.drivers[driver.ID] = &copy
	return nil
}

func (m *MockDriverRepository) GetByID(ctx context.Context, id string) (*domain.Driver, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	driver, ok := m.drivers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *driver
	return &copy, nil
}

func (m *MockDriverRepository) GetByPhone(ctx context.Context, phone string, includeDeleted bool) (*domain.Driver, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, driver := range m.drivers {
		if driver.PhoneNumber != phone {
			continue
		}
		if driver.Deleted && !includeDeleted {
			continue
		}
		copy := *driver
		m.populateCompany(&copy)
		return &copy, nil
	}
	return nil, repository.ErrNotFound
}

func (m *MockDriverRepository) List(ctx context.Context, filter repository.DriverFilter, page repository.Page) ([]*domain.Driver, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Driver
	for _, driver := range m.drivers {
		if !m.matches(driver, filter) {
			continue
		}
		copy := *driver
		m.populateCompany(&copy)
		result = append(result, &copy)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].FullName < result[j].FullName })
	return paginate(result, page), nil
}

func (m *MockDriverRepository) Count(ctx context.Context, filter repository.DriverFilter) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var count int64
	for _, driver := range m.drivers {
		if m.matches(driver, filter) {
			count++
		}
	}
	return count, nil
}

func (m *MockDriverRepository) Update(ctx context.Context, driver *domain.Driver) error {
	atomic.AddInt32(&m.UpdateCallCount, 1)
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.drivers[driver.ID]; !ok {
		return repository.ErrNotFound
	}
	copy := *driver
	copy.Company = nil
	m.drivers[driver.ID] = &copy
	return nil
}

func (m *MockDriverRepository) matches(driver *domain.Driver, filter repository.DriverFilter) bool {
	if driver.Deleted {
		return false
	}
	if filter.CompanyID != "" && driver.CompanyID != filter.CompanyID {
		return false
	}
	if filter.Search != "" &&
		!matchSubstring(driver.FullName, filter.Search) &&
		!matchSubstring(driver.PhoneNumber, filter.Search) {
		return false
	}
	return true
}

func (m *MockDriverRepository) populateCompany(driver *domain.Driver) {
	if m.Companies == nil {
		return
	}
	if company := m.Companies.GetCompany(driver.CompanyID); company != nil {
		copy := *company
		driver.Company = &copy
	}
}

// CountDrivers returns the number of stored drivers, deleted included.
func (m *MockDriverRepository) CountDrivers() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.drivers)
}

// ──────────────────────────────────────────────
// MOCK VEHICLE REPOSITORY
// ──────────────────────────────────────────────

// MockVehicleRepository is a mock implementation of VehicleRepository.
type MockVehicleRepository struct {
	mu       sync.RWMutex
	vehicles map[string]*domain.Vehicle

	// Counters for verification
	CreateCallCount int32
	UpdateCallCount int32

	// Error injection
	CreateError error
	UpdateError error
}

// NewMockVehicleRepository creates a new mock vehicle repository.
func NewMockVehicleRepository() *MockVehicleRepository {
	return &MockVehicleRepository{
		vehicles: make(map[string]*domain.Vehicle),
	}
}

// AddVehicle adds a vehicle to the mock repository.
func (m *MockVehicleRepository) AddVehicle(vehicle *domain.Vehicle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vehicles[vehicle.ID] = vehicle
}

func (m *MockVehicleRepository) Create(ctx context.Context, vehicle *domain.Vehicle) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.vehicles {
		if !existing.Deleted && existing.LicencePlate == vehicle.LicencePlate {
			return &repository.DuplicateKeyError{Field: "licence_plate", Value: vehicle.LicencePlate}
		}
	}
	copy := *vehicle
	m.vehicles[vehicle.ID] = &copy
	return nil
}

func (m *MockVehicleRepository) GetByID(ctx context.Context, id string) (*domain.Vehicle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	vehicle, ok := m.vehicles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *vehicle
	return &copy, nil
}

func (m *MockVehicleRepository) GetByPlate(ctx context.Context, plate string) (*domain.Vehicle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, vehicle := range m.vehicles {
		if !vehicle.Deleted && vehicle.LicencePlate == plate {
			copy := *vehicle
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockVehicleRepository) List(ctx context.Context, page repository.Page) ([]*domain.Vehicle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Vehicle
	for _, vehicle := range m.vehicles {
		if vehicle.Deleted {
			continue
		}
		copy := *vehicle
		result = append(result, &copy)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].LicencePlate < result[j].LicencePlate })
	return paginate(result, page), nil
}

func (m *MockVehicleRepository) Count(ctx context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var count int64
	for _, vehicle := range m.vehicles {
		if !vehicle.Deleted {
			count++
		}
	}
	return count, nil
}

func (m *MockVehicleRepository) Update(ctx context.Context, vehicle *domain.Vehicle) error {
	atomic.AddInt32(&m.UpdateCallCount, 1)
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.vehicles[vehicle.ID]; !ok {
		return repository.ErrNotFound
	}
	copy := *vehicle
	m.vehicles[vehicle.ID] = &copy
	return nil
}

// CountVehicles returns the number of stored vehicles, deleted included.
func (m *MockVehicleRepository) CountVehicles() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.vehicles)
}

// ──────────────────────────────────────────────
// MOCK TRIP REPOSITORY
// ──────────────────────────────────────────────

// MockTripRepository is a mock implementation of TripRepository.
type MockTripRepository struct {
	mu    sync.RWMutex
	trips map[string]*domain.Trip

	// Counters for verification
	CreateCallCount int32
	UpdateCallCount int32

	// Error injection
	CreateError error
	UpdateError error
}

// NewMockTripRepository creates a new mock trip repository.
func NewMockTripRepository() *MockTripRepository {
	return &MockTripRepository{
		trips: make(map[string]*domain.Trip),
	}
}

// AddTrip adds a trip to the mock repository.
func (m *MockTripRepository) AddTrip(trip *domain.Trip) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trips[trip.ID] = trip
}

func (m *MockTripRepository) Create(ctx context.Context, trip *domain.Trip) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *trip
	m.trips[trip.ID] = &copy
	return nil
}

func (m *MockTripRepository) GetByID(ctx context.Context, id string) (*domain.Trip, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	trip, ok := m.trips[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *trip
	return &copy, nil
}

func (m *MockTripRepository) List(ctx context.Context, filter repository.TripFilter, page repository.Page) ([]*domain.Trip, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Trip
	for _, trip := range m.trips {
		if !m.matches(trip, filter) {
			continue
		}
		copy := *trip
		result = append(result, &copy)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ArrivalTime.After(result[j].ArrivalTime) })
	return paginate(result, page), nil
}

func (m *MockTripRepository) Count(ctx context.Context, filter repository.TripFilter) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var count int64
	for _, trip := range m.trips {
		if m.matches(trip, filter) {
			count++
		}
	}
	return count, nil
}

func (m *MockTripRepository) Update(ctx context.Context, trip *domain.Trip) error {
	atomic.AddInt32(&m.UpdateCallCount, 1)
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.trips[trip.ID]; !ok {
		return repository.ErrNotFound
	}
	copy := *trip
	m.trips[trip.ID] = &copy
	return nil
}

func (m *MockTripRepository) GetLatestByParticipants(ctx context.Context, driverID, companyID, vehicleID string, since time.Time) (*domain.Trip, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var latest *domain.Trip
	for _, trip := range m.trips {
		if trip.Deleted || trip.DriverID != driverID || trip.CompanyID != companyID || trip.VehicleID != vehicleID {
			continue
		}
		if trip.ArrivalTime.Before(since) {
			continue
		}
		if latest == nil || trip.ArrivalTime.After(latest.ArrivalTime) {
			latest = trip
		}
	}
	if latest == nil {
		return nil, nil
	}
	copy := *latest
	return &copy, nil
}

func (m *MockTripRepository) matches(trip *domain.Trip, filter repository.TripFilter) bool {
	if trip.Deleted {
		return false
	}
	if filter.CompanyID != "" && trip.CompanyID != filter.CompanyID {
		return false
	}
	if filter.DriverID != "" && trip.DriverID != filter.DriverID {
		return false
	}
	if filter.VehicleID != "" && trip.VehicleID != filter.VehicleID {
		return false
	}
	if filter.UnloadStatus != "" && trip.UnloadStatus != filter.UnloadStatus {
		return false
	}
	if filter.Search != "" && !matchSubstring(trip.Notes, filter.Search) {
		return false
	}
	return true
}

// CountTrips returns the number of stored trips, deleted included.
func (m *MockTripRepository) CountTrips() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.trips)
}

// GetTrip returns a stored trip for test assertions.
func (m *MockTripRepository) GetTrip(id string) *domain.Trip {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.trips[id]
}

// ──────────────────────────────────────────────
// MOCK TRIP CACHE
// ──────────────────────────────────────────────

// MockTripCache is an in-memory mock of the trip read cache.
type MockTripCache struct {
	mu    sync.RWMutex
	trips map[string]*domain.Trip

	// Counters for verification
	GetCallCount        int32
	SetCallCount        int32
	InvalidateCallCount int32

	// Error injection
	GetError error
}

// NewMockTripCache creates a new mock trip cache.
func NewMockTripCache() *MockTripCache {
	return &MockTripCache{
		trips: make(map[string]*domain.Trip),
	}
}

// PutTrip seeds the cache with a trip.
func (m *MockTripCache) PutTrip(trip *domain.Trip) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trips[trip.ID] = trip
}

func (m *MockTripCache) GetTrip(ctx context.Context, tripID string) (*domain.Trip, error) {
	atomic.AddInt32(&m.GetCallCount, 1)
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	trip, ok := m.trips[tripID]
	if !ok {
		return nil, nil
	}
	copy := *trip
	return &copy, nil
}

func (m *MockTripCache) SetTrip(ctx context.Context, trip *domain.Trip) error {
	atomic.AddInt32(&m.SetCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *trip
	m.trips[trip.ID] = &copy
	return nil
}

func (m *MockTripCache) InvalidateTrip(ctx context.Context, tripID string) error {
	atomic.AddInt32(&m.InvalidateCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.trips, tripID)
	return nil
}

// HasTrip reports whether the cache holds a trip.
func (m *MockTripCache) HasTrip(tripID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.trips[tripID]
	return ok
}

// ──────────────────────────────────────────────
// MOCK USER REPOSITORY
// ──────────────────────────────────────────────

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User

	// Counters for verification
	CreateCallCount int32

	// Error injection
	CreateError error
}

// NewMockUserRepository creates a new mock user repository.
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users: make(map[string]*domain.User),
	}
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if !existing.Deleted && existing.Email == user.Email {
			return &repository.DuplicateKeyError{Field: "email", Value: user.Email}
		}
	}
	copy := *user
	m.users[user.ID] = &copy
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	user, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *user
	return &copy, nil
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, user := range m.users {
		if !user.Deleted && user.Email == email {
			copy := *user
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockUserRepository) List(ctx context.Context) ([]*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.User
	for _, user := range m.users {
		if user.Deleted {
			continue
		}
		copy := *user
		result = append(result, &copy)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Email < result[j].Email })
	return result, nil
}

func (m *MockUserRepository) Update(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.ID]; !ok {
		return repository.ErrNotFound
	}
	copy := *user
	m.users[user.ID] = &copy
	return nil
}

// CountUsers returns the number of stored users, deleted included.
func (m *MockUserRepository) CountUsers() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.users)
}

// ──────────────────────────────────────────────
// HELPERS
// ──────────────────────────────────────────────

func matchSubstring(value, search string) bool {
	if search == "" {
		return true
	}
	return strings.Contains(strings.ToLower(value), strings.ToLower(search))
}

func paginate[T any](items []*T, page repository.Page) []*T {
	page = page.Normalize()
	if page.Offset >= len(items) {
		return nil
	}
	items = items[page.Offset:]
	if len(items) > page.Limit {
		items = items[:page.Limit]
	}
	return items
}

// Interface conformance checks.
var (
	_ repository.CompanyRepository = (*MockCompanyRepository)(nil)
	_ repository.DriverRepository  = (*MockDriverRepository)(nil)
	_ repository.VehicleRepository = (*MockVehicleRepository)(nil)
	_ repository.TripRepository    = (*MockTripRepository)(nil)
	_ repository.UserRepository    = (*MockUserRepository)(nil)
	_ service.TripCache            = (*MockTripCache)(nil)
)
