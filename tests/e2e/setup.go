//go:build e2e

package e2e

import (
	"context"
	"testing"
	"time"

	"villa-reservation/cmd/bootstrap"
	"villa-reservation/cmd/bootstrap/components"
	"villa-reservation/internal/pkg/config"
	"villa-reservation/tests/common/dbtest"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/fx"
)

// SharedSuite boots the full application graph against a real database and a fake
// payment gateway. Each suite gets its own database; each subtest starts empty.
type SharedSuite struct {
	suite.Suite
	Router  *gin.Engine
	DB      *pgxpool.Pool
	Config  config.Config
	Gateway *FakeGateway
}

func (s *SharedSuite) SetupSuite() {
	t := s.T()
	gin.SetMode(gin.TestMode)

	s.Gateway = NewFakeGateway(t)
	pool, dbCfg := sharedPostgres(t).createDatabase(t)
	s.DB = pool
	s.Config = e2eConfig(dbCfg, s.Gateway.URL())
	s.Router = startApp(t, pool, s.Config)
}

func (s *SharedSuite) SetupSubTest() {
	require.NoError(s.T(), dbtest.ResetDB(s.DB), "failed to reset database state")
	s.Gateway.Reset()
}

func e2eConfig(dbCfg config.DBConfig, gatewayURL string) config.Config {
	cfg := config.NewTestConfig()
	cfg.DB = dbCfg
	cfg.Payment.APIBase = gatewayURL
	cfg.Payment.MaxAttempts = 2
	// gateway-down scenarios must not leave the breaker open for later tests
	cfg.Payment.BreakerThreshold = 1000
	return cfg
}

// startApp wires the production modules with the suite's pool and config in place of
// ConfigModule and DBModule, so no environment variables are read.
func startApp(t *testing.T, pool *pgxpool.Pool, cfg config.Config) *gin.Engine {
	t.Helper()

	var router *gin.Engine
	app := fx.New(
		fx.Supply(pool, cfg),
		fx.Provide(func() *gin.Engine { return gin.New() }),
		bootstrap.LoggerModule,
		bootstrap.JWTModule,
		bootstrap.GatewayModule,
		bootstrap.MessagingModule,
		bootstrap.LockModule,
		components.PersistenceModule,
		components.UseCaseModule,
		components.HandlerModule,
		bootstrap.OutboxModule,
		fx.Populate(&router),
		fx.NopLogger,
	)

	startCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	require.NoError(t, app.Start(startCtx), "failed to start application")

	t.Cleanup(func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := app.Stop(stopCtx); err != nil {
			t.Logf("failed to stop application: %v", err)
		}
	})

	require.NotNil(t, router, "application started without a router")
	return router
}
