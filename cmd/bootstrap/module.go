package bootstrap

import (
	"lab-booking/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	WindowModule,
	components.PersistenceModule,
	components.UseCaseModule,
	components.HandlerModule,
)
