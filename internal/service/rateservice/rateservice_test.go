package rateservice

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"github.com/tkamdem/stablex/internal/domain"
	"github.com/tkamdem/stablex/pkg/conversion"
)

func NewMock(t *testing.T) (*Service, *MockRateRepo, *MockUserRepo, *MockDispatcher, *MockCache) {
	ctrl := gomock.NewController(t)
	rateRepo := NewMockRateRepo(ctrl)
	userRepo := NewMockUserRepo(ctrl)
	dispatcher := NewMockDispatcher(ctrl)
	cache := NewMockCache(ctrl)
	service := New(rateRepo, userRepo, dispatcher, cache)
	defer ctrl.Finish()
	return service, rateRepo, userRepo, dispatcher, cache
}

func sampleRate() *domain.DailyRate {
	return &domain.DailyRate{
		ID:       1,
		RateDate: today(),
		BuyRate:  decimal.RequireFromString("600"),
		SellRate: decimal.RequireFromString("620"),
	}
}

func TestGetActive(t *testing.T) {
	service, rateRepo, _, _, cache := NewMock(t)
	tests := []struct {
		name          string
		prepareMock   func()
		expectedError error
	}{
		{
			name: "Cache hit skips the database",
			prepareMock: func() {
				cache.EXPECT().Get(gomock.Any(), today()).Return(sampleRate(), nil)
			},
		},
		{
			name: "Cache miss refills from the database",
			prepareMock: func() {
				cache.EXPECT().Get(gomock.Any(), today()).Return(nil, errors.New("miss"))
				rateRepo.EXPECT().FindByDate(gomock.Any(), today()).Return(sampleRate(), nil)
				cache.EXPECT().Set(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "No pair published today",
			prepareMock: func() {
				cache.EXPECT().Get(gomock.Any(), today()).Return(nil, errors.New("miss"))
				rateRepo.EXPECT().FindByDate(gomock.Any(), today()).Return(nil, nil)
			},
			expectedError: ErrRateUnavailable,
		},
		{
			name: "Database error",
			prepareMock: func() {
				cache.EXPECT().Get(gomock.Any(), today()).Return(nil, errors.New("miss"))
				rateRepo.EXPECT().FindByDate(gomock.Any(), today()).Return(nil, errors.New("db error"))
			},
			expectedError: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			rate, err := service.GetActive(context.Background())
			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError.Error(), err.Error())
			} else {
				assert.NoError(t, err)
				assert.Equal(t, 1, rate.ID)
			}
		})
	}
}

func TestUpsert(t *testing.T) {
	service, rateRepo, userRepo, dispatcher, cache := NewMock(t)
	tests := []struct {
		name          string
		buy, sell     string
		prepareMock   func()
		expectedError error
	}{
		{
			name: "Published and broadcast to active users",
			buy:  "600", sell: "620",
			prepareMock: func() {
				rateRepo.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(sampleRate(), nil)
				cache.EXPECT().Set(gomock.Any(), gomock.Any()).Return(nil)
				userRepo.EXPECT().FindActiveUsers(gomock.Any()).
					Return([]domain.User{{ID: 7}, {ID: 8}}, nil)
				dispatcher.EXPECT().
					Notify(gomock.Any(), gomock.Len(2), domain.NotifRateUpdated, gomock.Any()).
					Return(nil)
				dispatcher.EXPECT().
					Push(gomock.Any(), []int{7, 8}, gomock.Any(), gomock.Any(), gomock.Any())
			},
		},
		{
			name: "Inverted spread rejected",
			buy:  "620", sell: "600",
			expectedError: ErrInvalidRatePair,
		},
		{
			name: "Equal legs rejected",
			buy:  "600", sell: "600",
			expectedError: ErrInvalidRatePair,
		},
		{
			name: "Non-positive leg rejected",
			buy:  "0", sell: "620",
			expectedError: ErrInvalidRatePair,
		},
		{
			name: "Database error",
			buy:  "600", sell: "620",
			prepareMock: func() {
				rateRepo.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(nil, errors.New("db error"))
			},
			expectedError: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.prepareMock != nil {
				tt.prepareMock()
			}

			_, err := service.Upsert(context.Background(), today(),
				decimal.RequireFromString(tt.buy), decimal.RequireFromString(tt.sell))
			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError.Error(), err.Error())
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDelete(t *testing.T) {
	service, rateRepo, _, _, cache := NewMock(t)
	yesterday := today().AddDate(0, 0, -1)
	tests := []struct {
		name          string
		prepareMock   func()
		expectedError error
	}{
		{
			name: "Past pair deleted and cache invalidated",
			prepareMock: func() {
				rateRepo.EXPECT().FindByID(gomock.Any(), 2).
					Return(&domain.DailyRate{ID: 2, RateDate: yesterday}, nil)
				rateRepo.EXPECT().Delete(gomock.Any(), 2).Return(nil)
				cache.EXPECT().Invalidate(gomock.Any(), yesterday).Return(nil)
			},
		},
		{
			name: "Active date is protected",
			prepareMock: func() {
				rateRepo.EXPECT().FindByID(gomock.Any(), 2).Return(sampleRate(), nil)
			},
			expectedError: ErrRateProtected,
		},
		{
			name: "Unknown id",
			prepareMock: func() {
				rateRepo.EXPECT().FindByID(gomock.Any(), 2).Return(nil, nil)
			},
			expectedError: ErrRateNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			err := service.Delete(context.Background(), 2)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestHistory(t *testing.T) {
	service, rateRepo, _, _, _ := NewMock(t)

	rateRepo.EXPECT().List(gomock.Any(), 30).Return([]domain.DailyRate{*sampleRate()}, nil)

	rates, err := service.History(context.Background(), 0)
	assert.NoError(t, err)
	assert.Len(t, rates, 1)
}

func TestPreview(t *testing.T) {
	service, _, _, _, _ := NewMock(t)
	tests := []struct {
		name          string
		direction     string
		world, margin string
		amount        string
		expected      string
		expectedError error
	}{
		{
			name:      "Selling user gets the platform buy price",
			direction: domain.DirectionSell,
			world:     "600", margin: "20", amount: "10",
			expected: "5800",
		},
		{
			name:      "Buying user gets the platform sell price",
			direction: domain.DirectionBuy,
			world:     "600", margin: "20", amount: "6200",
			expected: "10",
		},
		{
			name:      "Unknown direction",
			direction: "swap",
			world:     "600", margin: "20", amount: "10",
			expectedError: conversion.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := service.Preview(tt.direction,
				decimal.RequireFromString(tt.world),
				decimal.RequireFromString(tt.margin),
				decimal.RequireFromString(tt.amount))
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				assert.NoError(t, err)
				assert.True(t, got.Equal(decimal.RequireFromString(tt.expected)))
			}
		})
	}
}

func TestTodayIsUTCMidnight(t *testing.T) {
	d := today()
	assert.Equal(t, time.UTC, d.Location())
	assert.Zero(t, d.Hour())
	assert.Zero(t, d.Minute())
}
