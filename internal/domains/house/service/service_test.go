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
	s3Mocks "casa/infras/s3/mocks"
	bdMocks "casa/internal/domains/blockeddate/mocks"
	bookingMocks "casa/internal/domains/booking/mocks"
	houseMocks "casa/internal/domains/house/mocks"
	"casa/internal/domains/house/model"
	"casa/internal/domains/house/model/dto"
	"casa/internal/domains/house/service"
	cacheMocks "casa/shared/cache/mocks"
	"casa/shared/constant"
	"casa/shared/failure"
	gModel "casa/shared/model"
	"casa/shared/timezone"
)

func listedHouse() model.House {
	return model.House{
		ID:            1,
		Name:          "Villa Andalusia",
		Description:   "Whitewashed villa with a patio",
		City:          "Seville",
		Address:       "Calle Sierpes 10",
		PricePerNight: 150.50,
		MaxGuests:     4,
		Bedrooms:      2,
		Bathrooms:     1,
		Amenities:     []string{"wifi", "pool"},
		Images:        []string{},
		IsActive:      true,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  "admin-user-id",
			ModifiedBy: "admin-user-id",
		},
	}
}

func TestHouseService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := houseMocks.NewMockHouse(ctrl)
	mockBookingRepo := bookingMocks.NewMockBooking(ctrl)
	mockBlockedRepo := bdMocks.NewMockBlockedDate(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()
	mockS3 := s3Mocks.NewMockS3(ctrl)

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(mockRepo, mockBookingRepo, mockBlockedRepo, cfg, mockCache, mockOtel, mockS3)

	tests := []struct {
		name      string
		req       dto.CreateHouseRequest
		setupMock func()
		wantErr   bool
	}{
		{
			name: "successful creation",
			req: dto.CreateHouseRequest{
				Name:          "Villa Andalusia",
				City:          "Seville",
				PricePerNight: 150.50,
				MaxGuests:     4,
				Amenities:     []string{"wifi", "pool"},
			},
			setupMock: func() {
				mockRepo.EXPECT().
					InsertReturning(gomock.Any(), gomock.Any()).
					Return(int64(1), nil)

				mockCache.EXPECT().
					Clear(gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()
			},
			wantErr: false,
		},
		{
			name: "repository error",
			req: dto.CreateHouseRequest{
				Name:          "Villa Andalusia",
				City:          "Seville",
				PricePerNight: 150.50,
				MaxGuests:     4,
			},
			setupMock: func() {
				mockRepo.EXPECT().
					InsertReturning(gomock.Any(), gomock.Any()).
					Return(int64(0), errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "admin-user-id")
			result, err := svc.Create(ctx, tt.req)

			time.Sleep(10 * time.Millisecond)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, int64(1), result.ID)
				assert.Equal(t, tt.req.Name, result.Name)
				assert.True(t, result.IsActive)
			}
		})
	}
}

func TestHouseService_GetActive(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := houseMocks.NewMockHouse(ctrl)
	mockBookingRepo := bookingMocks.NewMockBooking(ctrl)
	mockBlockedRepo := bdMocks.NewMockBlockedDate(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()
	mockS3 := s3Mocks.NewMockS3(ctrl)

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(mockRepo, mockBookingRepo, mockBlockedRepo, cfg, mockCache, mockOtel, mockS3)

	tests := []struct {
		name      string
		id        int64
		setupMock func()
		wantErr   bool
	}{
		{
			name: "active house",
			id:   1,
			setupMock: func() {
				mockCache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss"))

				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(listedHouse(), nil)

				mockCache.EXPECT().
					Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()
			},
			wantErr: false,
		},
		{
			name: "deactivated house hidden",
			id:   1,
			setupMock: func() {
				house := listedHouse()
				house.IsActive = false

				mockCache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss"))

				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(house, nil)

				mockCache.EXPECT().
					Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()
			},
			wantErr: true,
		},
		{
			name: "house not found",
			id:   99,
			setupMock: func() {
				mockCache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss"))

				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.House{}, nil)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			ctx := context.Background()
			result, err := svc.GetActive(ctx, tt.id)

			time.Sleep(10 * time.Millisecond)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.id, result.ID)
				assert.True(t, result.IsActive)
			}
		})
	}
}

func TestHouseService_Update(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := houseMocks.NewMockHouse(ctrl)
	mockBookingRepo := bookingMocks.NewMockBooking(ctrl)
	mockBlockedRepo := bdMocks.NewMockBlockedDate(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()
	mockS3 := s3Mocks.NewMockS3(ctrl)

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(mockRepo, mockBookingRepo, mockBlockedRepo, cfg, mockCache, mockOtel, mockS3)

	newName := "Villa Granada"

	tests := []struct {
		name      string
		req       dto.UpdateHouseRequest
		setupMock func()
		wantErr   bool
	}{
		{
			name: "successful update with amenities",
			req: dto.UpdateHouseRequest{
				Name:      &newName,
				Amenities: []string{"wifi", "parking"},
			},
			setupMock: func() {
				mockRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)

				mockRepo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)

				mockCache.EXPECT().
					Delete(gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()

				mockCache.EXPECT().
					Clear(gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()
			},
			wantErr: false,
		},
		{
			name: "house not found",
			req: dto.UpdateHouseRequest{
				Name: &newName,
			},
			setupMock: func() {
				mockRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)
			},
			wantErr: true,
		},
		{
			name: "update error",
			req: dto.UpdateHouseRequest{
				Name: &newName,
			},
			setupMock: func() {
				mockRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)

				mockRepo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "admin-user-id")
			err := svc.Update(ctx, tt.req, 1)

			time.Sleep(10 * time.Millisecond)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestHouseService_ToggleActive(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := houseMocks.NewMockHouse(ctrl)
	mockBookingRepo := bookingMocks.NewMockBooking(ctrl)
	mockBlockedRepo := bdMocks.NewMockBlockedDate(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()
	mockS3 := s3Mocks.NewMockS3(ctrl)

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(mockRepo, mockBookingRepo, mockBlockedRepo, cfg, mockCache, mockOtel, mockS3)

	tests := []struct {
		name       string
		id         int64
		setupMock  func()
		wantErr    bool
		wantActive bool
	}{
		{
			name: "successful deactivation",
			id:   1,
			setupMock: func() {
				house := listedHouse()
				house.IsActive = false

				mockRepo.EXPECT().
					ToggleActive(gomock.Any(), int64(1), "admin-user-id").
					Return(house, nil)

				mockCache.EXPECT().
					Delete(gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()

				mockCache.EXPECT().
					Clear(gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()
			},
			wantErr:    false,
			wantActive: false,
		},
		{
			name: "house not found",
			id:   99,
			setupMock: func() {
				mockRepo.EXPECT().
					ToggleActive(gomock.Any(), int64(99), "admin-user-id").
					Return(model.House{}, nil)
			},
			wantErr: true,
		},
		{
			name: "repository error",
			id:   1,
			setupMock: func() {
				mockRepo.EXPECT().
					ToggleActive(gomock.Any(), int64(1), "admin-user-id").
					Return(model.House{}, errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "admin-user-id")
			result, err := svc.ToggleActive(ctx, tt.id)

			time.Sleep(10 * time.Millisecond)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantActive, result.IsActive)
			}
		})
	}
}

func TestHouseService_UploadImages(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := houseMocks.NewMockHouse(ctrl)
	mockBookingRepo := bookingMocks.NewMockBooking(ctrl)
	mockBlockedRepo := bdMocks.NewMockBlockedDate(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()
	mockS3 := s3Mocks.NewMockS3(ctrl)

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600
	cfg.External.S3.BucketName = "casa-media"

	svc := service.New(mockRepo, mockBookingRepo, mockBlockedRepo, cfg, mockCache, mockOtel, mockS3)

	t.Run("house not found", func(t *testing.T) {
		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.House{}, nil)

		ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "admin-user-id")
		_, err := svc.UploadImages(ctx, dto.UploadHouseImagesRequest{}, 99)

		assert.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("no images keeps listing unchanged", func(t *testing.T) {
		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(listedHouse(), nil)

		mockRepo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil)

		mockCache.EXPECT().
			Delete(gomock.Any(), gomock.Any()).
			Return(nil).
			AnyTimes()

		mockCache.EXPECT().
			Clear(gomock.Any(), gomock.Any()).
			Return(nil).
			AnyTimes()

		ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "admin-user-id")
		result, err := svc.UploadImages(ctx, dto.UploadHouseImagesRequest{}, 1)

		time.Sleep(10 * time.Millisecond)

		assert.NoError(t, err)
		assert.Empty(t, result.Images)
	})
}

func TestHouseService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := houseMocks.NewMockHouse(ctrl)
	mockBookingRepo := bookingMocks.NewMockBooking(ctrl)
	mockBlockedRepo := bdMocks.NewMockBlockedDate(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()
	mockS3 := s3Mocks.NewMockS3(ctrl)

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600
	cfg.External.S3.BucketName = "casa-media"

	svc := service.New(mockRepo, mockBookingRepo, mockBlockedRepo, cfg, mockCache, mockOtel, mockS3)

	tests := []struct {
		name      string
		id        int64
		setupMock func()
		wantErr   bool
		wantCode  int
	}{
		{
			name: "successful deletion removes blocked dates",
			id:   1,
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(listedHouse(), nil)

				mockBookingRepo.EXPECT().
					Count(gomock.Any(), gomock.Any()).
					Return(0, nil)

				mockBlockedRepo.EXPECT().
					Delete(gomock.Any(), gomock.Any()).
					Return(nil)

				mockRepo.EXPECT().
					Delete(gomock.Any(), gomock.Any()).
					Return(nil)

				mockCache.EXPECT().
					Delete(gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()

				mockCache.EXPECT().
					Clear(gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()
			},
			wantErr: false,
		},
		{
			name: "house not found",
			id:   99,
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.House{}, nil)
			},
			wantErr:  true,
			wantCode: http.StatusNotFound,
		},
		{
			name: "house has non-cancelled bookings",
			id:   1,
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(listedHouse(), nil)

				mockBookingRepo.EXPECT().
					Count(gomock.Any(), gomock.Any()).
					Return(2, nil)
			},
			wantErr:  true,
			wantCode: http.StatusConflict,
		},
		{
			name: "blocked date cleanup error",
			id:   1,
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(listedHouse(), nil)

				mockBookingRepo.EXPECT().
					Count(gomock.Any(), gomock.Any()).
					Return(0, nil)

				mockBlockedRepo.EXPECT().
					Delete(gomock.Any(), gomock.Any()).
					Return(errors.New("database error"))
			},
			wantErr: true,
		},
		{
			name: "delete error",
			id:   1,
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(listedHouse(), nil)

				mockBookingRepo.EXPECT().
					Count(gomock.Any(), gomock.Any()).
					Return(0, nil)

				mockBlockedRepo.EXPECT().
					Delete(gomock.Any(), gomock.Any()).
					Return(nil)

				mockRepo.EXPECT().
					Delete(gomock.Any(), gomock.Any()).
					Return(errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "admin-user-id")
			err := svc.Delete(ctx, tt.id)

			time.Sleep(10 * time.Millisecond)

			if tt.wantErr {
				assert.Error(t, err)

				if tt.wantCode != 0 {
					assert.Equal(t, tt.wantCode, failure.GetCode(err))
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
