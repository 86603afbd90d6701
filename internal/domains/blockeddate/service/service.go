package service

import (
	"context"
	"fmt"
	"strconv"

	"casa/config"
	"casa/infras/otel"
	"casa/internal/domains/blockeddate/model"
	"casa/internal/domains/blockeddate/model/dto"
	"casa/internal/domains/blockeddate/repository"
	houseModel "casa/internal/domains/house/model"
	houseRepo "casa/internal/domains/house/repository"
	"casa/shared"
	"casa/shared/cache"
	"casa/shared/constant"
	gDto "casa/shared/dto"
	"casa/shared/failure"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetAllBlockedDate = "blocked_date:gets"
)

type BlockedDate interface {
	Add(ctx context.Context, req dto.AddBlockedDatesRequest, houseID int64) (dto.AddBlockedDatesResponse, error)
	List(ctx context.Context, houseID int64, startDate, endDate string) (dto.GetBlockedDatesResponse, error)
}

type serviceImpl struct {
	repo      repository.BlockedDate
	houseRepo houseRepo.House
	cfg       *config.Config
	cache     cache.RedisCache
	otel      otel.Otel
}

func New(repo repository.BlockedDate, houseRepo houseRepo.House, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) BlockedDate {
	return &serviceImpl{
		repo:      repo,
		houseRepo: houseRepo,
		cfg:       cfg,
		cache:     cache,
		otel:      otel,
	}
}

// Add blocks the given days for a house. Days already blocked are skipped, not
// errors. Existing bookings on those days are left alone; blocking only
// affects future admissions.
func (s *serviceImpl) Add(ctx context.Context, req dto.AddBlockedDatesRequest, houseID int64) (res dto.AddBlockedDatesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Add")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	exist, err := s.houseRepo.Exist(ctx, shared.FilterByID(houseID, houseModel.FieldID, houseModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if house exists")

		return res, fmt.Errorf("failed to check if house exists: %w", err)
	}

	if !exist {
		return res, failure.NotFound("house not found") //nolint:wrapcheck
	}

	models, err := req.ToModels(houseID, user)
	if err != nil {
		return res, failure.BadRequest(err) //nolint:wrapcheck
	}

	added, err := s.repo.InsertSkipDuplicates(ctx, models)
	if err != nil {
		log.Error().Err(err).Msg("failed to insert blocked dates")

		return res, fmt.Errorf("failed to insert blocked dates: %w", err)
	}

	res = dto.AddBlockedDatesResponse{
		Requested: len(models),
		Added:     added,
		Skipped:   len(models) - added,
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllBlockedDate)
	}()

	return res, nil
}

// List returns a house's blocked days, optionally limited to [startDate, endDate).
func (s *serviceImpl) List(ctx context.Context, houseID int64, startDate, endDate string) (res dto.GetBlockedDatesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".List")
	defer scope.End()
	defer scope.TraceIfError(err)

	exist, err := s.houseRepo.Exist(ctx, shared.FilterByID(houseID, houseModel.FieldID, houseModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if house exists")

		return res, fmt.Errorf("failed to check if house exists: %w", err)
	}

	if !exist {
		return res, failure.NotFound("house not found") //nolint:wrapcheck
	}

	cacheKey := shared.BuildCacheKey(cacheGetAllBlockedDate, strconv.FormatInt(houseID, 10), startDate, endDate)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for blocked dates")

		return res, nil
	}

	var models []model.BlockedDate

	if startDate != constant.Empty && endDate != constant.Empty {
		models, err = s.repo.FindInRange(ctx, houseID, startDate, endDate)
	} else {
		filter := gDto.FilterGroup{
			Filters: []any{
				gDto.Filter{
					Field:    model.FieldHouseID,
					Operator: gDto.FilterOperatorEq,
					Value:    houseID,
					Table:    model.TableName,
				},
			},
		}
		params := gDto.QueryParams{
			SortBy:  model.TableName + "." + model.FieldBlockedDate,
			SortDir: gDto.SortDirAsc,
		}

		models, err = s.repo.GetAll(ctx, params, filter)
	}

	if err != nil {
		log.Error().Err(err).Msg("failed to get blocked dates")

		return res, fmt.Errorf("failed to get blocked dates: %w", err)
	}

	res.FromModels(models)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save blocked dates to cache")
		}
	}()

	return res, nil
}
