package components

import (
	"slot-booking/internal/infra/cache"
	"slot-booking/internal/infra/readstore"
	"slot-booking/internal/infra/uow"
	"slot-booking/internal/usecase/commands"
	"slot-booking/internal/usecase/queries"

	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	readstoreModule,
	cacheModule,
	fx.Provide(
		uow.NewPostgresUoW,
	),
)

var readstoreModule = fx.Module("persistence/readstore",
	fx.Provide(
		readstore.NewAvailabilityReadStore,
		readstore.NewBookingReadStore,
		readstore.NewSessionReadStore,
	),
)

var cacheModule = fx.Module("persistence/cache",
	fx.Provide(
		fx.Annotate(
			cache.NewAvailabilityCache,
			fx.As(new(queries.AvailabilitySnapshotCache)),
			fx.As(new(commands.AvailabilityInvalidator)),
		),
	),
)
