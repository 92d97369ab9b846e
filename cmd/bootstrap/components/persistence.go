package components

import (
	"villa-reservation/internal/infra/db"
	"villa-reservation/internal/infra/readstore"
	"villa-reservation/internal/infra/uow"
	"villa-reservation/internal/pkg/config"
	"villa-reservation/internal/usecase/queries"
	"villa-reservation/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	baseOption,
	readstoreModule,
	repositoryModule,
)

var baseOption = fx.Provide(
	NewDBTX,
)

var readstoreModule = fx.Module("persistence/readstore",
	fx.Provide(
		// Booking
		fx.Annotate(
			readstore.NewBookingReadStore,
			fx.As(new(queries.BookingReadStore)),
			fx.As(new(queries.AvailabilityReadStore)),
		),
		// Reporting
		fx.Annotate(
			readstore.NewReportReadStore,
			fx.As(new(queries.ReportReadStore)),
		),
		// Admin accounts
		fx.Annotate(
			readstore.NewAdminAccountReadStore,
			fx.As(new(queries.AdminAccountReadStore)),
		),
	),
)

// Write-side repositories are built per transaction by the UoW.
var repositoryModule = fx.Module("persistence/repository",
	fx.Provide(
		NewPostgresUoW,
		func(u *uow.PostgresUoW) shared.UnitOfWork { return u },
	),
)

func NewDBTX(pool *pgxpool.Pool) db.DBTX {
	return pool
}

func NewPostgresUoW(pool *pgxpool.Pool, cfg config.Config) *uow.PostgresUoW {
	return uow.NewPostgresUoW(pool, cfg.Booking.Currency)
}
