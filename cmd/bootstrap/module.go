package bootstrap

import (
	"travel-booking/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	ObservabilityModule,
	DBModule,
	JWTModule,
	MessagingModule,
	components.UseCaseModule,
	components.HandlerModule,
	WorkersModule,
)
