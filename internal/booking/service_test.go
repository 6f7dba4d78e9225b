package booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"flipfit/internal/apperr"
	"flipfit/internal/gym"
)

// Mock repositories
type MockStore struct{ mock.Mock }
type MockGymRepo struct{ mock.Mock }

func (m *MockStore) Reserve(ctx context.Context, res Reservation) (*Booking, error) {
	args := m.Called(ctx, res)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Booking), args.Error(1)
}

func (m *MockStore) CountBooked(ctx context.Context, slotID int, date time.Time) (int, error) {
	args := m.Called(ctx, slotID, date)
	return args.Int(0), args.Error(1)
}

func (m *MockStore) GetCustomerBookings(ctx context.Context, customerID int) ([]Booking, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Booking), args.Error(1)
}

func (m *MockStore) GetBookingsBySlotDate(ctx context.Context, slotID int, date time.Time) ([]BookingWithDetails, error) {
	args := m.Called(ctx, slotID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]BookingWithDetails), args.Error(1)
}

func (m *MockStore) GetBookingsByGym(ctx context.Context, gymID int) ([]BookingWithDetails, error) {
	args := m.Called(ctx, gymID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]BookingWithDetails), args.Error(1)
}

func (m *MockGymRepo) CreateGym(ctx context.Context, ownerID int, name, city string, costCents int64) (*gym.Gym, error) {
	args := m.Called(ctx, ownerID, name, city, costCents)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gym.Gym), args.Error(1)
}

func (m *MockGymRepo) GetGymByID(ctx context.Context, id int) (*gym.Gym, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gym.Gym), args.Error(1)
}

func (m *MockGymRepo) ListGyms(ctx context.Context, approvedOnly bool) ([]gym.Gym, error) {
	args := m.Called(ctx, approvedOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]gym.Gym), args.Error(1)
}

func (m *MockGymRepo) ListGymsByOwner(ctx context.Context, ownerID int) ([]gym.Gym, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]gym.Gym), args.Error(1)
}

func (m *MockGymRepo) CreateSlot(ctx context.Context, gymID int, startTime, endTime string, capacity int) (*gym.Slot, error) {
	args := m.Called(ctx, gymID, startTime, endTime, capacity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gym.Slot), args.Error(1)
}

func (m *MockGymRepo) GetSlotByID(ctx context.Context, id int) (*gym.Slot, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gym.Slot), args.Error(1)
}

func (m *MockGymRepo) ListSlotsByGym(ctx context.Context, gymID int) ([]gym.Slot, error) {
	args := m.Called(ctx, gymID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]gym.Slot), args.Error(1)
}

func (m *MockGymRepo) ListSlotsWithAvailability(ctx context.Context, gymID int, date time.Time) ([]gym.SlotWithAvailability, error) {
	args := m.Called(ctx, gymID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]gym.SlotWithAvailability), args.Error(1)
}

type recordedNotification struct {
	customerID int
	gymName    string
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []recordedNotification
}

func (f *fakeNotifier) BookingConfirmed(_ context.Context, customerID int, gymName string, _ time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, recordedNotification{customerID: customerID, gymName: gymName})
}

func testService(store Store, gymRepo gym.Repository, notifier Notifier, now time.Time) Service {
	return &service{
		store:    store,
		gymRepo:  gymRepo,
		notifier: notifier,
		now:      func() time.Time { return now },
	}
}

func approvedGym() *gym.Gym {
	return &gym.Gym{ID: 2, OwnerID: 9, Name: "Iron Temple", City: "Pune", CostCents: 1500, Approved: true}
}

func slotAt(hour int) *gym.Slot {
	return &gym.Slot{
		ID:        3,
		GymID:     2,
		StartTime: time.Date(0, 1, 1, hour, 0, 0, 0, time.UTC),
		EndTime:   time.Date(0, 1, 1, hour+1, 0, 0, 0, time.UTC),
		Capacity:  4,
	}
}

func TestServiceReserve_Success(t *testing.T) {
	store := new(MockStore)
	gymRepo := new(MockGymRepo)
	notifier := &fakeNotifier{}

	now := time.Date(2026, 9, 1, 8, 0, 0, 0, time.Local)
	date := time.Date(2026, 9, 1, 0, 0, 0, 0, time.Local)

	gymRepo.On("GetGymByID", mock.Anything, 2).Return(approvedGym(), nil)
	gymRepo.On("GetSlotByID", mock.Anything, 3).Return(slotAt(18), nil)
	store.On("Reserve", mock.Anything, Reservation{
		CustomerID: 1, GymID: 2, SlotID: 3, Date: date, CostCents: 1500, Capacity: 4,
	}).Return(&Booking{ID: 42, CustomerID: 1, GymID: 2, SlotID: 3, Status: StatusBooked}, nil)

	svc := testService(store, gymRepo, notifier, now)

	b, err := svc.Reserve(context.Background(), 1, 2, 3, date)
	require.NoError(t, err)
	assert.Equal(t, 42, b.ID)

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, 1, notifier.sent[0].customerID)
	assert.Equal(t, "Iron Temple", notifier.sent[0].gymName)

	store.AssertExpectations(t)
	gymRepo.AssertExpectations(t)
}

func TestServiceReserve_GymNotFound(t *testing.T) {
	store := new(MockStore)
	gymRepo := new(MockGymRepo)

	gymRepo.On("GetGymByID", mock.Anything, 2).Return(nil, errors.New("sql: no rows in result set"))

	svc := testService(store, gymRepo, nil, time.Now())

	_, err := svc.Reserve(context.Background(), 1, 2, 3, time.Now().AddDate(0, 0, 1))
	assert.ErrorIs(t, err, apperr.ErrMissingEntity)
	store.AssertNotCalled(t, "Reserve", mock.Anything, mock.Anything)
}

func TestServiceReserve_UnapprovedGym(t *testing.T) {
	store := new(MockStore)
	gymRepo := new(MockGymRepo)

	g := approvedGym()
	g.Approved = false
	gymRepo.On("GetGymByID", mock.Anything, 2).Return(g, nil)

	svc := testService(store, gymRepo, nil, time.Now())

	_, err := svc.Reserve(context.Background(), 1, 2, 3, time.Now().AddDate(0, 0, 1))
	assert.ErrorIs(t, err, apperr.ErrMissingEntity)
}

func TestServiceReserve_SlotFromAnotherGym(t *testing.T) {
	store := new(MockStore)
	gymRepo := new(MockGymRepo)

	slot := slotAt(18)
	slot.GymID = 99
	gymRepo.On("GetGymByID", mock.Anything, 2).Return(approvedGym(), nil)
	gymRepo.On("GetSlotByID", mock.Anything, 3).Return(slot, nil)

	svc := testService(store, gymRepo, nil, time.Now())

	_, err := svc.Reserve(context.Background(), 1, 2, 3, time.Now().AddDate(0, 0, 1))
	assert.ErrorIs(t, err, apperr.ErrMissingEntity)
	store.AssertNotCalled(t, "Reserve", mock.Anything, mock.Anything)
}

func TestServiceReserve_PastSlot(t *testing.T) {
	store := new(MockStore)
	gymRepo := new(MockGymRepo)

	gymRepo.On("GetGymByID", mock.Anything, 2).Return(approvedGym(), nil)
	gymRepo.On("GetSlotByID", mock.Anything, 3).Return(slotAt(6), nil)

	// the 06:00 window on the requested date is already behind the clock
	now := time.Date(2026, 9, 1, 8, 0, 0, 0, time.Local)
	date := time.Date(2026, 9, 1, 0, 0, 0, 0, time.Local)

	svc := testService(store, gymRepo, nil, now)

	_, err := svc.Reserve(context.Background(), 1, 2, 3, date)
	assert.ErrorIs(t, err, apperr.ErrPastSlot)
	store.AssertNotCalled(t, "Reserve", mock.Anything, mock.Anything)
}

func TestServiceReserve_StoreRejections(t *testing.T) {
	cases := []struct {
		name     string
		storeErr error
	}{
		{"insufficient balance", apperr.ErrInsufficientBalance},
		{"slot full", apperr.ErrSlotFull},
		{"store failure", apperr.Store(errors.New("connection reset"))},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := new(MockStore)
			gymRepo := new(MockGymRepo)
			notifier := &fakeNotifier{}

			now := time.Date(2026, 9, 1, 8, 0, 0, 0, time.Local)
			date := time.Date(2026, 9, 1, 0, 0, 0, 0, time.Local)

			gymRepo.On("GetGymByID", mock.Anything, 2).Return(approvedGym(), nil)
			gymRepo.On("GetSlotByID", mock.Anything, 3).Return(slotAt(18), nil)
			store.On("Reserve", mock.Anything, mock.Anything).Return(nil, tc.storeErr)

			svc := testService(store, gymRepo, notifier, now)

			_, err := svc.Reserve(context.Background(), 1, 2, 3, date)
			assert.ErrorIs(t, err, tc.storeErr)
			assert.Empty(t, notifier.sent)
		})
	}
}

// fakeStore serializes reservations against an in-memory occupancy table the
// way the SQL store serializes them with row locks.
type fakeStore struct {
	mu       sync.Mutex
	nextID   int
	occupied map[string]int
	balances map[int]int64
	bookings []Booking
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		occupied: make(map[string]int),
		balances: make(map[int]int64),
	}
}

func (f *fakeStore) Reserve(_ context.Context, res Reservation) (*Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.balances[res.CustomerID] < res.CostCents {
		return nil, apperr.ErrInsufficientBalance
	}

	key := res.Date.Format(dateFormat)
	if f.occupied[key] >= res.Capacity {
		return nil, apperr.ErrSlotFull
	}

	f.nextID++
	b := Booking{
		ID:          f.nextID,
		CustomerID:  res.CustomerID,
		GymID:       res.GymID,
		SlotID:      res.SlotID,
		Status:      StatusBooked,
		BookingDate: res.Date,
	}
	f.bookings = append(f.bookings, b)
	f.balances[res.CustomerID] -= res.CostCents
	f.occupied[key]++
	return &b, nil
}

func (f *fakeStore) CountBooked(_ context.Context, _ int, date time.Time) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.occupied[date.Format(dateFormat)], nil
}

func (f *fakeStore) GetCustomerBookings(_ context.Context, customerID int) ([]Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Booking
	for _, b := range f.bookings {
		if b.CustomerID == customerID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeStore) GetBookingsBySlotDate(context.Context, int, time.Time) ([]BookingWithDetails, error) {
	return nil, nil
}

func (f *fakeStore) GetBookingsByGym(context.Context, int) ([]BookingWithDetails, error) {
	return nil, nil
}

// Forty customers race for four places; exactly four reservations may win.
func TestServiceReserve_ConcurrentCapacity(t *testing.T) {
	store := newFakeStore()
	gymRepo := new(MockGymRepo)

	gymRepo.On("GetGymByID", mock.Anything, 2).Return(approvedGym(), nil)
	gymRepo.On("GetSlotByID", mock.Anything, 3).Return(slotAt(18), nil)

	now := time.Date(2026, 9, 1, 8, 0, 0, 0, time.Local)
	date := time.Date(2026, 9, 1, 0, 0, 0, 0, time.Local)

	const customers = 40
	for id := 1; id <= customers; id++ {
		store.balances[id] = 10000
	}

	svc := testService(store, gymRepo, nil, now)

	var wg sync.WaitGroup
	results := make(chan error, customers)
	for id := 1; id <= customers; id++ {
		wg.Add(1)
		go func(customerID int) {
			defer wg.Done()
			_, err := svc.Reserve(context.Background(), customerID, 2, 3, date)
			results <- err
		}(id)
	}
	wg.Wait()
	close(results)

	var accepted, full int
	for err := range results {
		switch {
		case err == nil:
			accepted++
		case errors.Is(err, apperr.ErrSlotFull):
			full++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 4, accepted)
	assert.Equal(t, customers-4, full)

	count, err := store.CountBooked(context.Background(), 3, date)
	require.NoError(t, err)
	assert.Equal(t, 4, count)
}

func TestServiceGetCustomerBookings(t *testing.T) {
	store := new(MockStore)
	gymRepo := new(MockGymRepo)

	store.On("GetCustomerBookings", mock.Anything, 1).Return([]Booking{{ID: 1}, {ID: 2}}, nil)

	svc := testService(store, gymRepo, nil, time.Now())

	list, err := svc.GetCustomerBookings(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
