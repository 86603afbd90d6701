//go:build wireinject
// +build wireinject

package di

import (
	"casa/config"
	"casa/infras/jwt"
	"casa/infras/kafka"
	"casa/infras/otel"
	"casa/infras/postgres"
	"casa/infras/redis"
	"casa/infras/s3"
	"casa/permissions"
	"casa/shared/cache"
	"casa/transport/http"
	"casa/transport/http/middleware"
	"casa/transport/http/router"

	"github.com/google/wire"

	authService "casa/internal/domains/auth/service"
	blockedDateRepository "casa/internal/domains/blockeddate/repository"
	blockedDateService "casa/internal/domains/blockeddate/service"
	bookingRepository "casa/internal/domains/booking/repository"
	bookingService "casa/internal/domains/booking/service"
	houseRepository "casa/internal/domains/house/repository"
	houseService "casa/internal/domains/house/service"
	userRepository "casa/internal/domains/user/repository"

	authHandler "casa/internal/handlers/auth"
	blockedDateHandler "casa/internal/handlers/blockeddate"
	bookingHandler "casa/internal/handlers/booking"
	houseHandler "casa/internal/handlers/house"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	s3.New,
	kafka.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var houseDomain = wire.NewSet(
	houseRepository.New,
	houseService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingService.New,
)

var blockedDateDomain = wire.NewSet(
	blockedDateRepository.New,
	blockedDateService.New,
)

var authDomain = wire.NewSet(
	userRepository.New,
	authService.New,
)

var domains = wire.NewSet(
	houseDomain,
	bookingDomain,
	blockedDateDomain,
	authDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	houseHandler.New,
	bookingHandler.New,
	blockedDateHandler.New,
	router.New,
)

func InitializeService() (*http.HTTP, error) {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}, nil
}
