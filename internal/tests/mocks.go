package tests

import (
	"context"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"carpool/internal/domain"
	"carpool/internal/redis"
	"carpool/internal/repository"
)

// ──────────────────────────────────────────────
// IN-MEMORY STORE
// ──────────────────────────────────────────────

// MockStore is an in-memory implementation of repository.Store. WithinTx
// serializes transactions on a mutex and restores a snapshot on error, so the
// atomicity the services rely on holds under the race detector too.
type MockStore struct {
	txMu sync.Mutex

	users    *MockUserRepository
	rides    *MockRideRepository
	bookings *MockBookingRepository
	payments *MockPaymentRepository
	reviews  *MockReviewRepository

	// Counters for verification
	TxCallCount int32
}

// NewMockStore creates a new in-memory store.
func NewMockStore() *MockStore {
	rides := NewMockRideRepository()
	return &MockStore{
		users: NewMockUserRepository(),
		rides: rides,
		bookings: NewMockBookingRepository(func(rideID string) string {
			ride, err := rides.GetByID(context.Background(), rideID)
			if err != nil {
				return ""
			}
			return ride.DriverID
		}),
		payments: NewMockPaymentRepository(),
		reviews:  NewMockReviewRepository(),
	}
}

func (s *MockStore) Users() repository.UserRepository       { return s.users }
func (s *MockStore) Rides() repository.RideRepository       { return s.rides }
func (s *MockStore) Bookings() repository.BookingRepository { return s.bookings }
func (s *MockStore) Payments() repository.PaymentRepository { return s.payments }
func (s *MockStore) Reviews() repository.ReviewRepository   { return s.reviews }

// WithinTx runs fn with every other transaction excluded. On error the state
// is rolled back to the snapshot taken at entry.
func (s *MockStore) WithinTx(ctx context.Context, fn func(repository.Store) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	atomic.AddInt32(&s.TxCallCount, 1)

	snap := s.snapshot()
	if err := fn(s); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

// Typed accessors so tests can seed data and read counters.

func (s *MockStore) UserRepo() *MockUserRepository       { return s.users }
func (s *MockStore) RideRepo() *MockRideRepository       { return s.rides }
func (s *MockStore) BookingRepo() *MockBookingRepository { return s.bookings }
func (s *MockStore) PaymentRepo() *MockPaymentRepository { return s.payments }
func (s *MockStore) ReviewRepo() *MockReviewRepository   { return s.reviews }

type storeSnapshot struct {
	users    map[string]domain.User
	rides    map[string]domain.Ride
	bookings map[string]domain.Booking
	payments map[string]domain.Payment
	reviews  map[string]domain.Review
}

func (s *MockStore) snapshot() storeSnapshot {
	return storeSnapshot{
		users:    s.users.dump(),
		rides:    s.rides.dump(),
		bookings: s.bookings.dump(),
		payments: s.payments.dump(),
		reviews:  s.reviews.dump(),
	}
}

func (s *MockStore) restore(snap storeSnapshot) {
	s.users.load(snap.users)
	s.rides.load(snap.rides)
	s.bookings.load(snap.bookings)
	s.payments.load(snap.payments)
	s.reviews.load(snap.reviews)
}

var _ repository.Store = (*MockStore)(nil)

// ──────────────────────────────────────────────
// MOCK USER REPOSITORY
// ──────────────────────────────────────────────

// MockUserRepository is an in-memory implementation of UserRepository.
type MockUserRepository struct {
	mu    sync.RWMutex
	users map[string]domain.User

	// Counters for verification
	CreditWalletCallCount int32

	// Error injection
	CreditWalletError error
}

// NewMockUserRepository creates a new mock user repository.
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{users: make(map[string]domain.User)}
}

// AddUser seeds a user.
func (m *MockUserRepository) AddUser(user *domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = *user
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = *user
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	user, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &user, nil
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			user := u
			return &user, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockUserRepository) GetAll(ctx context.Context) ([]*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.User, 0, len(m.users))
	for _, u := range m.users {
		user := u
		result = append(result, &user)
	}
	return result, nil
}

func (m *MockUserRepository) SetApproval(ctx context.Context, id string, approved bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	user.Approved = approved
	m.users[id] = user
	return nil
}

func (m *MockUserRepository) CreditWallet(ctx context.Context, id string, amount float64) error {
	atomic.AddInt32(&m.CreditWalletCallCount, 1)
	if m.CreditWalletError != nil {
		return m.CreditWalletError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	user.WalletBalance += amount
	m.users[id] = user
	return nil
}

func (m *MockUserRepository) UpdateDriverRating(ctx context.Context, id string, rating float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	user.DriverRating = rating
	m.users[id] = user
	return nil
}

func (m *MockUserRepository) IncrementTotalRides(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	user.TotalRides++
	m.users[id] = user
	return nil
}

func (m *MockUserRepository) dump() map[string]domain.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]domain.User, len(m.users))
	for k, v := range m.users {
		out[k] = v
	}
	return out
}

func (m *MockUserRepository) load(data map[string]domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users = make(map[string]domain.User, len(data))
	for k, v := range data {
		m.users[k] = v
	}
}

// ──────────────────────────────────────────────
// MOCK RIDE REPOSITORY
// ──────────────────────────────────────────────

// MockRideRepository is an in-memory implementation of RideRepository.
type MockRideRepository struct {
	mu    sync.RWMutex
	rides map[string]domain.Ride

	// Counters for verification
	UpdateSeatsCallCount int32
	ForUpdateCallCount   int32
}

// NewMockRideRepository creates a new mock ride repository.
func NewMockRideRepository() *MockRideRepository {
	return &MockRideRepository{rides: make(map[string]domain.Ride)}
}

// AddRide seeds a ride.
func (m *MockRideRepository) AddRide(ride *domain.Ride) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rides[ride.ID] = *ride
}

func (m *MockRideRepository) Create(ctx context.Context, ride *domain.Ride) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rides[ride.ID] = *ride
	return nil
}

func (m *MockRideRepository) GetByID(ctx context.Context, id string) (*domain.Ride, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ride, ok := m.rides[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &ride, nil
}

func (m *MockRideRepository) GetByIDForUpdate(ctx context.Context, id string) (*domain.Ride, error) {
	atomic.AddInt32(&m.ForUpdateCallCount, 1)
	return m.GetByID(ctx, id)
}

func (m *MockRideRepository) Update(ctx context.Context, ride *domain.Ride) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rides[ride.ID]; !ok {
		return repository.ErrNotFound
	}
	m.rides[ride.ID] = *ride
	return nil
}

func (m *MockRideRepository) UpdateStatus(ctx context.Context, id string, status domain.RideStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ride, ok := m.rides[id]
	if !ok {
		return repository.ErrNotFound
	}
	ride.Status = status
	m.rides[id] = ride
	return nil
}

func (m *MockRideRepository) UpdateSeats(ctx context.Context, id string, availableSeats int) error {
	atomic.AddInt32(&m.UpdateSeatsCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	ride, ok := m.rides[id]
	if !ok {
		return repository.ErrNotFound
	}
	ride.AvailableSeats = availableSeats
	m.rides[id] = ride
	return nil
}

func (m *MockRideRepository) ListByDriver(ctx context.Context, driverID string) ([]*domain.Ride, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Ride
	for _, r := range m.rides {
		if r.DriverID == driverID {
			ride := r
			result = append(result, &ride)
		}
	}
	sortRidesByDate(result)
	return result, nil
}

func (m *MockRideRepository) Search(ctx context.Context, filter repository.RideSearchFilter) ([]*domain.Ride, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Ride
	for _, r := range m.rides {
		if r.Status != domain.RideStatusScheduled || r.AvailableSeats <= 0 {
			continue
		}
		if filter.Source != "" && r.Source != filter.Source {
			continue
		}
		if filter.Destination != "" && r.Destination != filter.Destination {
			continue
		}
		if !filter.Date.IsZero() {
			y1, m1, d1 := r.RideDate.Date()
			y2, m2, d2 := filter.Date.Date()
			if y1 != y2 || m1 != m2 || d1 != d2 {
				continue
			}
		}
		ride := r
		result = append(result, &ride)
	}
	sortRidesByDate(result)
	return result, nil
}

func sortRidesByDate(rides []*domain.Ride) {
	sort.Slice(rides, func(i, j int) bool {
		if !rides[i].RideDate.Equal(rides[j].RideDate) {
			return rides[i].RideDate.After(rides[j].RideDate)
		}
		return rides[i].CreatedAt.After(rides[j].CreatedAt)
	})
}

func (m *MockRideRepository) dump() map[string]domain.Ride {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]domain.Ride, len(m.rides))
	for k, v := range m.rides {
		out[k] = v
	}
	return out
}

func (m *MockRideRepository) load(data map[string]domain.Ride) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rides = make(map[string]domain.Ride, len(data))
	for k, v := range data {
		m.rides[k] = v
	}
}

// ──────────────────────────────────────────────
// MOCK BOOKING REPOSITORY
// ──────────────────────────────────────────────

// MockBookingRepository is an in-memory implementation of BookingRepository.
type MockBookingRepository struct {
	mu       sync.RWMutex
	bookings map[string]domain.Booking

	// rideOwner stands in for the rides join the SQL ListByDriver uses.
	rideOwner func(rideID string) string

	// Counters for verification
	CreateCallCount int32
}

// NewMockBookingRepository creates a new mock booking repository. rideOwner
// resolves a ride id to its driver id; it may be nil when ListByDriver is not
// exercised.
func NewMockBookingRepository(rideOwner func(rideID string) string) *MockBookingRepository {
	return &MockBookingRepository{
		bookings:  make(map[string]domain.Booking),
		rideOwner: rideOwner,
	}
}

// AddBooking seeds a booking.
func (m *MockBookingRepository) AddBooking(booking *domain.Booking) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookings[booking.ID] = *booking
}

func (m *MockBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookings[booking.ID] = *booking
	return nil
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	booking, ok := m.bookings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &booking, nil
}

func (m *MockBookingRepository) Update(ctx context.Context, booking *domain.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.bookings[booking.ID]; !ok {
		return repository.ErrNotFound
	}
	m.bookings[booking.ID] = *booking
	return nil
}

func (m *MockBookingRepository) UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	booking, ok := m.bookings[id]
	if !ok {
		return repository.ErrNotFound
	}
	booking.Status = status
	m.bookings[id] = booking
	return nil
}

func (m *MockBookingRepository) ListByRide(ctx context.Context, rideID string) ([]*domain.Booking, error) {
	return m.list(func(b domain.Booking) bool { return b.RideID == rideID })
}

func (m *MockBookingRepository) ListActiveByRide(ctx context.Context, rideID string) ([]*domain.Booking, error) {
	return m.list(func(b domain.Booking) bool {
		return b.RideID == rideID && !b.Status.IsTerminal()
	})
}

func (m *MockBookingRepository) ListByPassenger(ctx context.Context, passengerID string) ([]*domain.Booking, error) {
	return m.list(func(b domain.Booking) bool { return b.PassengerID == passengerID })
}

func (m *MockBookingRepository) ListByDriver(ctx context.Context, driverID string) ([]*domain.Booking, error) {
	if m.rideOwner == nil {
		return nil, nil
	}
	return m.list(func(b domain.Booking) bool { return m.rideOwner(b.RideID) == driverID })
}

func (m *MockBookingRepository) ListStalePending(ctx context.Context, cutoff time.Time) ([]*domain.Booking, error) {
	return m.list(func(b domain.Booking) bool {
		return b.Status == domain.BookingStatusPending && b.CreatedAt.Before(cutoff)
	})
}

func (m *MockBookingRepository) list(keep func(domain.Booking) bool) ([]*domain.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Booking
	for _, b := range m.bookings {
		if keep(b) {
			booking := b
			result = append(result, &booking)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (m *MockBookingRepository) dump() map[string]domain.Booking {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]domain.Booking, len(m.bookings))
	for k, v := range m.bookings {
		out[k] = v
	}
	return out
}

func (m *MockBookingRepository) load(data map[string]domain.Booking) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookings = make(map[string]domain.Booking, len(data))
	for k, v := range data {
		m.bookings[k] = v
	}
}

// ──────────────────────────────────────────────
// MOCK PAYMENT REPOSITORY
// ──────────────────────────────────────────────

// MockPaymentRepository is an in-memory implementation of PaymentRepository.
type MockPaymentRepository struct {
	mu       sync.RWMutex
	payments map[string]domain.Payment

	// Counters for verification
	UpdatePayoutCallCount int32
}

// NewMockPaymentRepository creates a new mock payment repository.
func NewMockPaymentRepository() *MockPaymentRepository {
	return &MockPaymentRepository{payments: make(map[string]domain.Payment)}
}

// AddPayment seeds a payment.
func (m *MockPaymentRepository) AddPayment(payment *domain.Payment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payments[payment.ID] = *payment
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payments[payment.ID] = *payment
	return nil
}

func (m *MockPaymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	payment, ok := m.payments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &payment, nil
}

func (m *MockPaymentRepository) GetByOrderID(ctx context.Context, orderID string) (*domain.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.payments {
		if p.OrderID == orderID {
			payment := p
			return &payment, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockPaymentRepository) GetBookingPayment(ctx context.Context, bookingID string) (*domain.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var newest *domain.Payment
	for _, p := range m.payments {
		if p.BookingID != bookingID || p.Type != domain.PaymentTypeBooking {
			continue
		}
		if newest == nil || p.CreatedAt.After(newest.CreatedAt) {
			payment := p
			newest = &payment
		}
	}
	return newest, nil
}

func (m *MockPaymentRepository) GetBookingPaymentForUpdate(ctx context.Context, bookingID string) (*domain.Payment, error) {
	return m.GetBookingPayment(ctx, bookingID)
}

func (m *MockPaymentRepository) Update(ctx context.Context, payment *domain.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.payments[payment.ID]; !ok {
		return repository.ErrNotFound
	}
	m.payments[payment.ID] = *payment
	return nil
}

func (m *MockPaymentRepository) UpdateStatus(ctx context.Context, id string, status domain.PaymentStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	payment, ok := m.payments[id]
	if !ok {
		return repository.ErrNotFound
	}
	payment.Status = status
	m.payments[id] = payment
	return nil
}

func (m *MockPaymentRepository) UpdatePayout(ctx context.Context, id string, status domain.PayoutStatus, date time.Time) error {
	atomic.AddInt32(&m.UpdatePayoutCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	payment, ok := m.payments[id]
	if !ok {
		return repository.ErrNotFound
	}
	payment.PayoutStatus = status
	payment.PayoutDate = date
	m.payments[id] = payment
	return nil
}

func (m *MockPaymentRepository) ListByPassenger(ctx context.Context, passengerID string) ([]*domain.Payment, error) {
	return m.list(func(p domain.Payment) bool { return p.PassengerID == passengerID }), nil
}

func (m *MockPaymentRepository) ListByDriver(ctx context.Context, driverID string) ([]*domain.Payment, error) {
	return m.list(func(p domain.Payment) bool { return p.DriverID == driverID }), nil
}

func (m *MockPaymentRepository) SumPayouts(ctx context.Context, driverID string, status domain.PayoutStatus) (float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var total float64
	for _, p := range m.payments {
		if p.DriverID == driverID &&
			p.Type == domain.PaymentTypeBooking &&
			p.Status == domain.PaymentStatusSuccess &&
			p.PayoutStatus == status {
			total += p.Amount
		}
	}
	return total, nil
}

func (m *MockPaymentRepository) list(keep func(domain.Payment) bool) []*domain.Payment {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Payment
	for _, p := range m.payments {
		if keep(p) {
			payment := p
			result = append(result, &payment)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result
}

func (m *MockPaymentRepository) dump() map[string]domain.Payment {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]domain.Payment, len(m.payments))
	for k, v := range m.payments {
		out[k] = v
	}
	return out
}

func (m *MockPaymentRepository) load(data map[string]domain.Payment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payments = make(map[string]domain.Payment, len(data))
	for k, v := range data {
		m.payments[k] = v
	}
}

// ──────────────────────────────────────────────
// MOCK REVIEW REPOSITORY
// ──────────────────────────────────────────────

// MockReviewRepository is an in-memory implementation of ReviewRepository.
type MockReviewRepository struct {
	mu      sync.RWMutex
	reviews map[string]domain.Review
}

// NewMockReviewRepository creates a new mock review repository.
func NewMockReviewRepository() *MockReviewRepository {
	return &MockReviewRepository{reviews: make(map[string]domain.Review)}
}

func (m *MockReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reviews[review.ID] = *review
	return nil
}

func (m *MockReviewRepository) GetByBookingID(ctx context.Context, bookingID string) (*domain.Review, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.reviews {
		if r.BookingID == bookingID {
			review := r
			return &review, nil
		}
	}
	return nil, nil
}

func (m *MockReviewRepository) ListByDriver(ctx context.Context, driverID string) ([]*domain.Review, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Review
	for _, r := range m.reviews {
		if r.DriverID == driverID {
			review := r
			result = append(result, &review)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (m *MockReviewRepository) AverageForDriver(ctx context.Context, driverID string) (float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var sum, count float64
	for _, r := range m.reviews {
		if r.DriverID == driverID {
			sum += float64(r.Rating)
			count++
		}
	}
	if count == 0 {
		return 0, nil
	}
	return sum / count, nil
}

func (m *MockReviewRepository) dump() map[string]domain.Review {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]domain.Review, len(m.reviews))
	for k, v := range m.reviews {
		out[k] = v
	}
	return out
}

func (m *MockReviewRepository) load(data map[string]domain.Review) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reviews = make(map[string]domain.Review, len(data))
	for k, v := range data {
		m.reviews[k] = v
	}
}

// ──────────────────────────────────────────────
// MOCK REDIS STORES
// ──────────────────────────────────────────────

// MockLockStore is an in-memory implementation of redis.LockStoreInterface.
type MockLockStore struct {
	mu    sync.Mutex
	locks map[string]bool
}

// NewMockLockStore creates a new mock lock store.
func NewMockLockStore() *MockLockStore {
	return &MockLockStore{locks: make(map[string]bool)}
}

func (m *MockLockStore) AcquireSweepLock(ctx context.Context, name string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.locks[name] {
		return false, nil
	}
	m.locks[name] = true
	return true, nil
}

func (m *MockLockStore) ReleaseSweepLock(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, name)
	return nil
}

// MockCacheStore is an in-memory implementation of redis.CacheStoreInterface.
type MockCacheStore struct {
	mu       sync.RWMutex
	searches map[string][]*domain.Ride
	wallets  map[string]redis.CachedWallet

	// Counters for verification
	SearchHitCount  int32
	SearchMissCount int32
}

// NewMockCacheStore creates a new mock cache store.
func NewMockCacheStore() *MockCacheStore {
	return &MockCacheStore{
		searches: make(map[string][]*domain.Ride),
		wallets:  make(map[string]redis.CachedWallet),
	}
}

func (m *MockCacheStore) GetSearch(ctx context.Context, key string) ([]*domain.Ride, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rides, ok := m.searches[key]
	if !ok {
		atomic.AddInt32(&m.SearchMissCount, 1)
		return nil, nil
	}
	atomic.AddInt32(&m.SearchHitCount, 1)
	return rides, nil
}

func (m *MockCacheStore) SetSearch(ctx context.Context, key string, rides []*domain.Ride) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.searches[key] = rides
	return nil
}

func (m *MockCacheStore) GetWallet(ctx context.Context, driverID string) (*redis.CachedWallet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	wallet, ok := m.wallets[driverID]
	if !ok {
		return nil, nil
	}
	return &wallet, nil
}

func (m *MockCacheStore) SetWallet(ctx context.Context, wallet *redis.CachedWallet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.wallets[wallet.DriverID] = *wallet
	return nil
}

func (m *MockCacheStore) InvalidateWallet(ctx context.Context, driverID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.wallets, driverID)
	return nil
}

var (
	_ redis.LockStoreInterface  = (*MockLockStore)(nil)
	_ redis.CacheStoreInterface = (*MockCacheStore)(nil)
)
