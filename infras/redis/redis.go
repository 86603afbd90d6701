package redis

import (
	"context"
	"net"

	"casa/config"
	"casa/shared/failure"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// New creates a redis client and verifies connectivity before returning.
func New(config *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(config.Cache.Redis.Primary.Host, config.Cache.Redis.Primary.Port),
		Password: config.Cache.Redis.Primary.Password,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Error().Err(err).Msg("Failed connecting to redis")
		return nil, failure.InternalError(err)
	}

	log.
		Info().
		Str("host", config.Cache.Redis.Primary.Host).
		Str("port", config.Cache.Redis.Primary.Port).
		Msg("Connected to redis")

	return client, nil
}
