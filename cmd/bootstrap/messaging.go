package bootstrap

import (
	"context"
	"log/slog"
	"os"

	"travel-booking/internal/infra/lease"
	"travel-booking/internal/infra/messaging"
	"travel-booking/internal/pkg/clock"
	"travel-booking/internal/pkg/config"
	"travel-booking/internal/pkg/errs"
	"travel-booking/internal/usecase/outbox"
	"travel-booking/internal/usecase/sweeper"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var MessagingModule = fx.Module("messaging",
	fx.Provide(
		NewPublisher,
		NewLease,
	),
)

// NewPublisher connects to RabbitMQ when RABBIT_URL is set and logs events otherwise.
func NewPublisher(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) (outbox.Publisher, error) {
	if cfg.Rabbit.URL == "" {
		return messaging.NewLogPublisher(logger), nil
	}
	pub, err := messaging.NewRabbitPublisher(cfg.Rabbit.URL, cfg.Rabbit.Exchange, logger)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return pub.Close()
		},
	})
	return pub, nil
}

// NewLease shares the sweeper lease through Redis when REDIS_ADDR is set.
func NewLease(lc fx.Lifecycle, cfg config.Config, clk clock.Clock) (sweeper.Lease, error) {
	if cfg.Redis.Addr == "" {
		return lease.NewLocalLease(clk), nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		_ = client.Close()
		return nil, errs.Wrap(err, "failed to connect to redis")
	}
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return client.Close()
		},
	})
	host, _ := os.Hostname()
	return lease.NewRedisLease(client, host), nil
}
