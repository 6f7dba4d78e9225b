package booking

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"flipfit/internal/apperr"
)

type mockService struct{ mock.Mock }

func (m *mockService) Reserve(ctx context.Context, customerID, gymID, slotID int, date time.Time) (*Booking, error) {
	args := m.Called(ctx, customerID, gymID, slotID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Booking), args.Error(1)
}

func (m *mockService) GetCustomerBookings(ctx context.Context, customerID int) ([]Booking, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Booking), args.Error(1)
}

func (m *mockService) GetBookingsBySlotDate(ctx context.Context, slotID int, date time.Time) ([]BookingWithDetails, error) {
	args := m.Called(ctx, slotID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]BookingWithDetails), args.Error(1)
}

func (m *mockService) GetBookingsByGym(ctx context.Context, gymID int) ([]BookingWithDetails, error) {
	args := m.Called(ctx, gymID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]BookingWithDetails), args.Error(1)
}

func reserveRouter(svc Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := &Handler{service: svc}
	router.POST("/bookings", func(c *gin.Context) {
		c.Set("user_id", 1)
		h.Reserve(c)
	})
	return router
}

func postReserve(t *testing.T, router *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", "/bookings", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestReserveHandler_Success(t *testing.T) {
	svc := new(mockService)
	svc.On("Reserve", mock.Anything, 1, 2, 3, mock.AnythingOfType("time.Time")).
		Return(&Booking{ID: 42, CustomerID: 1, GymID: 2, SlotID: 3, Status: StatusBooked}, nil)

	router := reserveRouter(svc)

	w := postReserve(t, router, `{"gym_id": 2, "slot_id": 3, "date": "2026-09-01"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var got Booking
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, 42, got.ID)
	svc.AssertExpectations(t)
}

func TestReserveHandler_BadDate(t *testing.T) {
	svc := new(mockService)
	router := reserveRouter(svc)

	w := postReserve(t, router, `{"gym_id": 2, "slot_id": 3, "date": "01-09-2026"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "Reserve", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReserveHandler_MissingFields(t *testing.T) {
	svc := new(mockService)
	router := reserveRouter(svc)

	w := postReserve(t, router, `{"date": "2026-09-01"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReserveHandler_ErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"missing entity", apperr.Missing("gym", 2), http.StatusNotFound},
		{"past slot", apperr.ErrPastSlot, http.StatusBadRequest},
		{"insufficient balance", apperr.ErrInsufficientBalance, http.StatusPaymentRequired},
		{"slot full", apperr.ErrSlotFull, http.StatusConflict},
		{"store failure", apperr.ErrStoreFailure, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := new(mockService)
			svc.On("Reserve", mock.Anything, 1, 2, 3, mock.AnythingOfType("time.Time")).
				Return(nil, tc.err)

			router := reserveRouter(svc)

			w := postReserve(t, router, `{"gym_id": 2, "slot_id": 3, "date": "2026-09-01"}`)
			assert.Equal(t, tc.wantStatus, w.Code)
		})
	}
}

func TestReserveHandler_Unauthenticated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := &Handler{service: new(mockService)}
	router.POST("/bookings", h.Reserve)

	w := postReserve(t, router, `{"gym_id": 2, "slot_id": 3, "date": "2026-09-01"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListMyBookingsHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := new(mockService)
	svc.On("GetCustomerBookings", mock.Anything, 1).Return([]Booking{{ID: 1}, {ID: 2}}, nil)

	router := gin.New()
	h := &Handler{service: svc}
	router.GET("/bookings", func(c *gin.Context) {
		c.Set("user_id", 1)
		h.ListMyBookings(c)
	})

	req := httptest.NewRequest("GET", "/bookings", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var got []Booking
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Len(t, got, 2)
}
