package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"casa/config"
	"casa/infras/otel/mocks"
	bdMocks "casa/internal/domains/blockeddate/mocks"
	"casa/internal/domains/blockeddate/model"
	"casa/internal/domains/blockeddate/model/dto"
	"casa/internal/domains/blockeddate/service"
	houseMocks "casa/internal/domains/house/mocks"
	cacheMocks "casa/shared/cache/mocks"
	"casa/shared/constant"
	"casa/shared/failure"
)

func day(t *testing.T, value string) time.Time {
	t.Helper()

	parsed, err := time.Parse(constant.DateOnlyLayout, value)
	if err != nil {
		t.Fatalf("parse %s: %v", value, err)
	}

	return parsed
}

func TestBlockedDateService_Add(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := bdMocks.NewMockBlockedDate(ctrl)
	mockHouseRepo := houseMocks.NewMockHouse(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(mockRepo, mockHouseRepo, cfg, mockCache, mockOtel)

	tests := []struct {
		name       string
		req        dto.AddBlockedDatesRequest
		houseID    int64
		setupMock  func()
		wantErr    bool
		wantCode   int
		wantResult dto.AddBlockedDatesResponse
	}{
		{
			name: "all dates added",
			req: dto.AddBlockedDatesRequest{
				Dates:  []string{"2026-06-01", "2026-06-02"},
				Reason: "maintenance",
			},
			houseID: 1,
			setupMock: func() {
				mockHouseRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)

				mockRepo.EXPECT().
					InsertSkipDuplicates(gomock.Any(), gomock.Any()).
					Return(2, nil)

				mockCache.EXPECT().
					Clear(gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()
			},
			wantErr: false,
			wantResult: dto.AddBlockedDatesResponse{
				Requested: 2,
				Added:     2,
				Skipped:   0,
			},
		},
		{
			name: "already blocked dates skipped",
			req: dto.AddBlockedDatesRequest{
				Dates: []string{"2026-06-01", "2026-06-02", "2026-06-03"},
			},
			houseID: 1,
			setupMock: func() {
				mockHouseRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)

				mockRepo.EXPECT().
					InsertSkipDuplicates(gomock.Any(), gomock.Any()).
					Return(1, nil)

				mockCache.EXPECT().
					Clear(gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()
			},
			wantErr: false,
			wantResult: dto.AddBlockedDatesResponse{
				Requested: 3,
				Added:     1,
				Skipped:   2,
			},
		},
		{
			name: "house not found",
			req: dto.AddBlockedDatesRequest{
				Dates: []string{"2026-06-01"},
			},
			houseID: 99,
			setupMock: func() {
				mockHouseRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)
			},
			wantErr:  true,
			wantCode: http.StatusNotFound,
		},
		{
			name: "invalid date",
			req: dto.AddBlockedDatesRequest{
				Dates: []string{"01-06-2026"},
			},
			houseID: 1,
			setupMock: func() {
				mockHouseRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)
			},
			wantErr:  true,
			wantCode: http.StatusBadRequest,
		},
		{
			name: "repository error",
			req: dto.AddBlockedDatesRequest{
				Dates: []string{"2026-06-01"},
			},
			houseID: 1,
			setupMock: func() {
				mockHouseRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)

				mockRepo.EXPECT().
					InsertSkipDuplicates(gomock.Any(), gomock.Any()).
					Return(0, errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "admin-user-id")
			result, err := svc.Add(ctx, tt.req, tt.houseID)

			time.Sleep(10 * time.Millisecond)

			if tt.wantErr {
				assert.Error(t, err)

				if tt.wantCode != 0 {
					assert.Equal(t, tt.wantCode, failure.GetCode(err))
				}
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantResult, result)
			}
		})
	}
}

func TestBlockedDateService_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := bdMocks.NewMockBlockedDate(ctrl)
	mockHouseRepo := houseMocks.NewMockHouse(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(mockRepo, mockHouseRepo, cfg, mockCache, mockOtel)

	blockedDates := []model.BlockedDate{
		{
			ID:          3,
			HouseID:     1,
			BlockedDate: day(t, "2026-06-02"),
			Reason:      "maintenance",
		},
	}

	tests := []struct {
		name      string
		houseID   int64
		startDate string
		endDate   string
		setupMock func()
		wantErr   bool
		wantLen   int
	}{
		{
			name:      "list within range",
			houseID:   1,
			startDate: "2026-06-01",
			endDate:   "2026-06-05",
			setupMock: func() {
				mockHouseRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)

				mockCache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss"))

				mockRepo.EXPECT().
					FindInRange(gomock.Any(), int64(1), "2026-06-01", "2026-06-05").
					Return(blockedDates, nil)

				mockCache.EXPECT().
					Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()
			},
			wantErr: false,
			wantLen: 1,
		},
		{
			name:    "list all without range",
			houseID: 1,
			setupMock: func() {
				mockHouseRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)

				mockCache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss"))

				mockRepo.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(blockedDates, nil)

				mockCache.EXPECT().
					Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()
			},
			wantErr: false,
			wantLen: 1,
		},
		{
			name:    "house not found",
			houseID: 99,
			setupMock: func() {
				mockHouseRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)
			},
			wantErr: true,
		},
		{
			name:      "repository error",
			houseID:   1,
			startDate: "2026-06-01",
			endDate:   "2026-06-05",
			setupMock: func() {
				mockHouseRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)

				mockCache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss"))

				mockRepo.EXPECT().
					FindInRange(gomock.Any(), int64(1), "2026-06-01", "2026-06-05").
					Return(nil, errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			ctx := context.Background()
			result, err := svc.List(ctx, tt.houseID, tt.startDate, tt.endDate)

			time.Sleep(10 * time.Millisecond)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Len(t, result.BlockedDates, tt.wantLen)
				assert.Equal(t, "2026-06-02", result.BlockedDates[0].BlockedDate)
			}
		})
	}
}
