package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"casa/config"
	"casa/infras/kafka"
	"casa/infras/otel"
	bdModel "casa/internal/domains/blockeddate/model"
	bdRepo "casa/internal/domains/blockeddate/repository"
	"casa/internal/domains/booking/model"
	"casa/internal/domains/booking/model/dto"
	"casa/internal/domains/booking/repository"
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
	cacheGetBooking    = "booking:get"
	cacheGetAllBooking = "booking:gets"
	cacheCountBooking  = "booking:count"
	cacheBookingStats  = "booking:stats"
)

const (
	eventBookingCreated       = "booking.created"
	eventBookingStatusChanged = "booking.status_changed"
)

type Booking interface {
	CheckAvailability(ctx context.Context, houseID int64, startDate, endDate string) (dto.AvailabilityResponse, error)
	Create(ctx context.Context, req dto.CreateBookingRequest) (dto.BookingResponse, error)
	Get(ctx context.Context, id int64) (dto.BookingResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	UpdateStatus(ctx context.Context, id int64, req dto.UpdateBookingStatusRequest) error
	Stats(ctx context.Context) (dto.StatsResponse, error)
}

type serviceImpl struct {
	repo        repository.Booking
	houseRepo   houseRepo.House
	blockedRepo bdRepo.BlockedDate
	cfg         *config.Config
	cache       cache.RedisCache
	otel        otel.Otel
	kafka       kafka.Client
}

func New(
	repo repository.Booking,
	houseRepo houseRepo.House,
	blockedRepo bdRepo.BlockedDate,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
	kafkaClient kafka.Client,
) Booking {
	return &serviceImpl{
		repo:        repo,
		houseRepo:   houseRepo,
		blockedRepo: blockedRepo,
		cfg:         cfg,
		cache:       cache,
		otel:        otel,
		kafka:       kafkaClient,
	}
}

// CheckAvailability reports whether [startDate, endDate) is free for the house
// and enumerates every colliding stay and blocked day. Read-only.
func (s *serviceImpl) CheckAvailability(ctx context.Context, houseID int64, startDate, endDate string) (res dto.AvailabilityResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CheckAvailability")
	defer scope.End()
	defer scope.TraceIfError(err)

	start, end, err := parseDateRange(startDate, endDate)
	if err != nil {
		return res, err
	}

	house, err := s.activeHouse(ctx, houseID)
	if err != nil {
		return res, err
	}

	conflicts, blocked, err := s.findCollisions(ctx, house.ID, startDate, endDate)
	if err != nil {
		return res, err
	}

	res.FromConflicts(house.ID, start, end, conflicts, blocked)

	return res, nil
}

// Create admits a booking for the requested dates. The conflict check and the
// insert are serialized per house inside the repository, so overlapping
// requests racing for the same house cannot both succeed.
func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	if user == constant.Empty {
		user = constant.ContextGuest
	}

	checkIn, checkOut, err := req.ParseDates()
	if err != nil {
		return res, failure.BadRequest(err) //nolint:wrapcheck
	}

	if !checkIn.Before(checkOut) {
		return res, failure.BadRequestFromString("check_out_date must be after check_in_date") //nolint:wrapcheck
	}

	house, err := s.activeHouse(ctx, req.HouseID)
	if err != nil {
		return res, err
	}

	if req.Guests > house.MaxGuests {
		return res, failure.BadRequestFromString(fmt.Sprintf("house accommodates at most %d guests", house.MaxGuests)) //nolint:wrapcheck
	}

	booking := req.ToModel(user, checkIn, checkOut, house.PricePerNight)

	id, err := s.repo.Admit(ctx, booking)
	if errors.Is(err, repository.ErrHouseUnavailable) {
		return res, failure.NotFound("house not found") //nolint:wrapcheck
	}

	if errors.Is(err, repository.ErrDatesConflict) {
		return res, s.conflictFailure(ctx, house.ID, checkIn, checkOut, req)
	}

	if err != nil {
		log.Error().Err(err).Int64("houseID", req.HouseID).Msg("failed to admit booking")

		return res, fmt.Errorf("failed to admit booking: %w", err)
	}

	booking.ID = id
	booking.HouseName = house.Name
	booking.HouseCity = house.City

	res.FromModel(booking)

	s.publishEvent(ctx, eventBookingCreated, res)

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
		shared.InvalidateCaches(c, s.cache, cacheCountBooking)
		shared.InvalidateCaches(c, s.cache, cacheBookingStats)
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id int64) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetBooking, strconv.FormatInt(id, 10))

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking")

		return res, nil
	}

	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return res, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == 0 {
		return res, failure.NotFound("booking not found") //nolint:wrapcheck
	}

	res.FromModel(booking)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bookings to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking count to cache")
		}
	}()

	return res, nil
}

// UpdateStatus moves a confirmed booking to cancelled or completed. Both
// target states are terminal; cancelled stays stop blocking availability.
func (s *serviceImpl) UpdateStatus(ctx context.Context, id int64, req dto.UpdateBookingStatusRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateStatus")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	booking, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == 0 {
		return failure.NotFound("booking not found") //nolint:wrapcheck
	}

	if booking.Status != model.StatusConfirmed {
		return failure.Conflict(fmt.Sprintf("booking is already %s", booking.Status)) //nolint:wrapcheck
	}

	updatedFields := shared.TransformFields(struct {
		Status string `db:"status"`
	}{Status: req.Status}, user)

	if err = s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update booking status")

		return fmt.Errorf("failed to update booking status: %w", err)
	}

	booking.Status = req.Status
	res := dto.BookingResponse{}
	res.FromModel(booking)

	s.publishEvent(ctx, eventBookingStatusChanged, res)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetBooking, strconv.FormatInt(id, 10))); err != nil {
			log.Error().Err(err).Msg("failed to delete booking from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
		shared.InvalidateCaches(c, s.cache, cacheCountBooking)
		shared.InvalidateCaches(c, s.cache, cacheBookingStats)
	}()

	return nil
}

func (s *serviceImpl) Stats(ctx context.Context) (res dto.StatsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Stats")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheBookingStats)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking stats")

		return res, nil
	}

	stats, err := s.repo.Stats(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to aggregate booking stats")

		return res, fmt.Errorf("failed to aggregate booking stats: %w", err)
	}

	totalHouses, err := s.houseRepo.Count(ctx, gDto.FilterGroup{})
	if err != nil {
		log.Error().Err(err).Msg("failed to count houses")

		return res, fmt.Errorf("failed to count houses: %w", err)
	}

	activeHouses, err := s.houseRepo.Count(ctx, gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    houseModel.FieldIsActive,
				Operator: gDto.FilterOperatorEq,
				Value:    true,
				Table:    houseModel.TableName,
			},
		},
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to count active houses")

		return res, fmt.Errorf("failed to count active houses: %w", err)
	}

	res = dto.StatsResponse{
		TotalHouses:       totalHouses,
		ActiveHouses:      activeHouses,
		TotalBookings:     stats.TotalBookings,
		ConfirmedBookings: stats.ConfirmedBookings,
		CompletedBookings: stats.CompletedBookings,
		CancelledBookings: stats.CancelledBookings,
		TotalRevenue:      stats.TotalRevenue,
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking stats to cache")
		}
	}()

	return res, nil
}

// activeHouse loads the house and hides inactive listings behind NotFound, so
// a deactivation mid-flight cannot let a booking slip through.
func (s *serviceImpl) activeHouse(ctx context.Context, houseID int64) (houseModel.House, error) {
	house, err := s.houseRepo.Get(ctx, shared.FilterByID(houseID, houseModel.FieldID, houseModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get house")

		return house, fmt.Errorf("failed to get house: %w", err)
	}

	if house.ID == 0 || !house.IsActive {
		return house, failure.NotFound("house not found") //nolint:wrapcheck
	}

	return house, nil
}

func (s *serviceImpl) findCollisions(ctx context.Context, houseID int64, start, end string) ([]model.Booking, []bdModel.BlockedDate, error) {
	conflicts, err := s.repo.FindConflicts(ctx, houseID, start, end)
	if err != nil {
		log.Error().Err(err).Msg("failed to find conflicting bookings")

		return nil, nil, fmt.Errorf("failed to find conflicting bookings: %w", err)
	}

	blocked, err := s.blockedRepo.FindInRange(ctx, houseID, start, end)
	if err != nil {
		log.Error().Err(err).Msg("failed to find blocked dates")

		return nil, nil, fmt.Errorf("failed to find blocked dates: %w", err)
	}

	return conflicts, blocked, nil
}

// conflictFailure rebuilds the colliding set after a lost admission race so the
// rejection carries the full picture, mirroring CheckAvailability.
func (s *serviceImpl) conflictFailure(ctx context.Context, houseID int64, checkIn, checkOut time.Time, req dto.CreateBookingRequest) error {
	details := dto.AvailabilityResponse{}

	conflicts, blocked, err := s.findCollisions(ctx, houseID, req.CheckInDate, req.CheckOutDate)
	if err != nil {
		// The admission verdict stands even if the detail lookup failed.
		log.Error().Err(err).Msg("failed to enumerate conflicts for rejection details")
	} else {
		details.FromConflicts(houseID, checkIn, checkOut, conflicts, blocked)
	}

	return failure.ConflictWithDetails("requested dates are not available", details) //nolint:wrapcheck
}

// publishEvent emits the booking change to the event topic without holding up
// the request.
func (s *serviceImpl) publishEvent(ctx context.Context, key string, value any) {
	go func() {
		c := context.WithoutCancel(ctx)

		message := kafka.Message{
			Key:   key,
			Value: value,
		}

		if err := s.kafka.SendMessages(c, s.cfg.Kafka.BookingTopic, message); err != nil {
			log.Error().Err(err).Str("event", key).Msg("failed to publish booking event")
		}
	}()
}

func parseDateRange(startDate, endDate string) (start, end time.Time, err error) {
	start, err = time.Parse(constant.DateOnlyLayout, startDate)
	if err != nil {
		return start, end, failure.BadRequestFromString("invalid start_date, expected YYYY-MM-DD") //nolint:wrapcheck
	}

	end, err = time.Parse(constant.DateOnlyLayout, endDate)
	if err != nil {
		return start, end, failure.BadRequestFromString("invalid end_date, expected YYYY-MM-DD") //nolint:wrapcheck
	}

	if !start.Before(end) {
		return start, end, failure.BadRequestFromString("end_date must be after start_date") //nolint:wrapcheck
	}

	return start, end, nil
}
