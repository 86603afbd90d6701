package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"casa/config"
	"casa/infras/otel"
	"casa/infras/s3"
	bdModel "casa/internal/domains/blockeddate/model"
	bdRepo "casa/internal/domains/blockeddate/repository"
	bookingModel "casa/internal/domains/booking/model"
	bookingRepo "casa/internal/domains/booking/repository"
	"casa/internal/domains/house/model"
	"casa/internal/domains/house/model/dto"
	"casa/internal/domains/house/repository"
	"casa/shared"
	"casa/shared/cache"
	"casa/shared/constant"
	gDto "casa/shared/dto"
	"casa/shared/failure"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetHouse    = "house:get"
	cacheGetAllHouse = "house:gets"
	cacheCountHouse  = "house:count"
)

type House interface {
	Create(ctx context.Context, req dto.CreateHouseRequest) (dto.HouseResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetHousesResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id int64) (dto.HouseResponse, error)
	GetActive(ctx context.Context, id int64) (dto.HouseResponse, error)
	Update(ctx context.Context, req dto.UpdateHouseRequest, id int64) error
	ToggleActive(ctx context.Context, id int64) (dto.HouseResponse, error)
	UploadImages(ctx context.Context, req dto.UploadHouseImagesRequest, id int64) (dto.HouseResponse, error)
	Delete(ctx context.Context, id int64) error
}

type serviceImpl struct {
	repo        repository.House
	bookingRepo bookingRepo.Booking
	blockedRepo bdRepo.BlockedDate
	cfg         *config.Config
	cache       cache.RedisCache
	otel        otel.Otel
	s3          s3.S3
}

func New(repo repository.House, bookingRepo bookingRepo.Booking, blockedRepo bdRepo.BlockedDate, cfg *config.Config, cache cache.RedisCache, otel otel.Otel, s3 s3.S3) House {
	return &serviceImpl{
		repo:        repo,
		bookingRepo: bookingRepo,
		blockedRepo: blockedRepo,
		cfg:         cfg,
		cache:       cache,
		otel:        otel,
		s3:          s3,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateHouseRequest) (res dto.HouseResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	house := req.ToModel(user)

	id, err := s.repo.InsertReturning(ctx, house)
	if err != nil {
		log.Error().Err(err).Msg("failed to create house")

		return res, fmt.Errorf("failed to create house: %w", err)
	}

	house.ID = id
	res.FromModel(house)

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllHouse)
		shared.InvalidateCaches(c, s.cache, cacheCountHouse)
	}()

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetHousesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllHouse, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for houses")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count houses")

		return res, fmt.Errorf("failed to count houses: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get houses")

		return res, fmt.Errorf("failed to get houses: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save houses to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountHouse, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for house count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count houses")

		return res, fmt.Errorf("failed to count houses: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save house count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id int64) (res dto.HouseResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetHouse, strconv.FormatInt(id, 10))

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for house")

		return res, nil
	}

	house, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get house")

		return res, fmt.Errorf("failed to get house: %w", err)
	}

	if house.ID == 0 {
		return res, failure.NotFound("house not found") //nolint:wrapcheck
	}

	res.FromModel(house)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save house to cache")
		}
	}()

	return res, nil
}

// GetActive is the public-surface lookup. Deactivated listings are
// indistinguishable from missing ones.
func (s *serviceImpl) GetActive(ctx context.Context, id int64) (res dto.HouseResponse, err error) {
	res, err = s.Get(ctx, id)
	if err != nil {
		return res, err
	}

	if !res.IsActive {
		return dto.HouseResponse{}, failure.NotFound("house not found") //nolint:wrapcheck
	}

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateHouseRequest, id int64) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if house exists")

		return fmt.Errorf("failed to check if house exists: %w", err)
	}

	if !exist {
		return failure.NotFound("house not found") //nolint:wrapcheck
	}

	updatedFields := shared.TransformFields(req, user)
	if req.Amenities != nil {
		updatedFields[model.FieldAmenities] = pq.StringArray(req.Amenities)
	}

	if err = s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update house")

		return fmt.Errorf("failed to update house: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

// ToggleActive flips the listing's visibility. The flip happens in one
// statement in the store, so concurrent toggles cannot lose updates.
func (s *serviceImpl) ToggleActive(ctx context.Context, id int64) (res dto.HouseResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ToggleActive")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	house, err := s.repo.ToggleActive(ctx, id, user)
	if err != nil {
		log.Error().Err(err).Msg("failed to toggle house status")

		return res, fmt.Errorf("failed to toggle house status: %w", err)
	}

	if house.ID == 0 {
		return res, failure.NotFound("house not found") //nolint:wrapcheck
	}

	res.FromModel(house)

	s.invalidate(ctx, id)

	return res, nil
}

func (s *serviceImpl) UploadImages(ctx context.Context, req dto.UploadHouseImagesRequest, id int64) (res dto.HouseResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UploadImages")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	house, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get house")

		return res, fmt.Errorf("failed to get house: %w", err)
	}

	if house.ID == 0 {
		return res, failure.NotFound("house not found") //nolint:wrapcheck
	}

	bucketName := s.cfg.External.S3.BucketName
	uploaded := []string{}

	for i, header := range req.Images {
		filename := uuid.NewString()

		parts := strings.Split(header.Filename, ".")
		if len(parts) > 1 {
			filename = fmt.Sprintf("%s.%s", filename, parts[len(parts)-1])
		}

		url, uploadErr := s.s3.UploadFile(ctx, bucketName, model.EntityName, req.Files[i], header, filename)
		if uploadErr != nil {
			log.Error().Err(uploadErr).Msg("failed to upload image to S3")

			// Roll back objects uploaded so far.
			for _, name := range uploaded {
				_ = s.s3.DeleteFile(ctx, bucketName, model.EntityName, s.s3.GetObjectNameFromURL(bucketName, name))
			}

			return res, fmt.Errorf("failed to upload image: %w", uploadErr)
		}

		uploaded = append(uploaded, url)
	}

	house.Images = append(house.Images, uploaded...)

	updatedFields := shared.TransformFields(struct{}{}, user)
	updatedFields[model.FieldImages] = house.Images

	if err = s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to persist house images")

		for _, name := range uploaded {
			_ = s.s3.DeleteFile(ctx, bucketName, model.EntityName, s.s3.GetObjectNameFromURL(bucketName, name))
		}

		return res, fmt.Errorf("failed to persist house images: %w", err)
	}

	res.FromModel(house)

	s.invalidate(ctx, id)

	return res, nil
}

// Delete removes a listing that has no non-cancelled stays. Blocked dates do
// not guard deletion; they are removed along with the listing.
func (s *serviceImpl) Delete(ctx context.Context, id int64) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	house, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get house")

		return fmt.Errorf("failed to get house: %w", err)
	}

	if house.ID == 0 {
		return failure.NotFound("house not found") //nolint:wrapcheck
	}

	activeBookings, err := s.bookingRepo.Count(ctx, gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    bookingModel.FieldHouseID,
				Operator: gDto.FilterOperatorEq,
				Value:    id,
				Table:    bookingModel.TableName,
			},
			gDto.Filter{
				Field:    bookingModel.FieldStatus,
				Operator: gDto.FilterOperatorNotEq,
				Value:    bookingModel.StatusCancelled,
				Table:    bookingModel.TableName,
			},
		},
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to count house bookings")

		return fmt.Errorf("failed to count house bookings: %w", err)
	}

	if activeBookings > 0 {
		return failure.Conflict("house has non-cancelled bookings") //nolint:wrapcheck
	}

	if err = s.blockedRepo.Delete(ctx, shared.FilterByID(id, bdModel.FieldHouseID, bdModel.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to delete house blocked dates")

		return fmt.Errorf("failed to delete house blocked dates: %w", err)
	}

	if err = s.repo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to delete house")

		return fmt.Errorf("failed to delete house: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)
		bucketName := s.cfg.External.S3.BucketName

		for _, image := range house.Images {
			objectName := s.s3.GetObjectNameFromURL(bucketName, image)
			if objectName == constant.Empty {
				continue
			}

			if err := s.s3.DeleteFile(c, bucketName, model.EntityName, objectName); err != nil {
				log.Error().Err(err).Str("object", objectName).Msg("failed to delete house image from S3")
			}
		}
	}()

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) invalidate(ctx context.Context, id int64) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetHouse, strconv.FormatInt(id, 10))); err != nil {
			log.Error().Err(err).Msg("failed to delete house from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllHouse)
		shared.InvalidateCaches(c, s.cache, cacheCountHouse)
	}()
}
