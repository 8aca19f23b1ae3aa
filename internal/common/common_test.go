package common

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/niraihan/real-estate-server/internal/config"
	"github.com/niraihan/real-estate-server/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig(t *testing.T) *models.Config {
	t.Helper()
	return &models.Config{
		Backend: config.BackendSQLite,
		Database: models.DatabaseConfig{
			Path:             filepath.Join(t.TempDir(), "market.db"),
			MaxOpenConns:     4,
			MaxIdleConns:     2,
			ConnMaxLifetime:  time.Minute,
			ConnMaxIdleTime:  time.Minute,
			PingTimeout:      5 * time.Second,
			BusyTimeout:      5 * time.Second,
			OperationTimeout: 5 * time.Second,
		},
	}
}

func writeSeed(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadSeedConfig(t *testing.T) {
	path := writeSeed(t, `
users:
  - email: admin@example.com
    name: Admin
    role: admin
  - email: buyer@example.com
`)
	seed, err := LoadSeedConfig(path)
	require.NoError(t, err)
	require.Len(t, seed.Users, 2)
	assert.Equal(t, "admin", seed.Users[0].Role)
	assert.Empty(t, seed.Users[1].Role)

	_, err = LoadSeedConfig(writeSeed(t, "users:\n  - name: nobody\n"))
	assert.ErrorContains(t, err, "missing email")

	_, err = LoadSeedConfig(writeSeed(t, "users:\n  - email: x@example.com\n    role: owner\n"))
	assert.ErrorContains(t, err, "unknown role")

	_, err = LoadSeedConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestInitializeServicesAndSeed(t *testing.T) {
	ctx := context.Background()
	services, err := InitializeServices(ctx, testConfig(t))
	require.NoError(t, err)
	defer services.Close()

	require.NoError(t, services.Market.HealthCheck(ctx))

	seed, err := LoadSeedConfig(writeSeed(t, `
users:
  - email: Admin@Example.com
    name: Admin
    role: admin
  - email: agent@example.com
    name: Agent
    role: agent
`))
	require.NoError(t, err)

	created, err := SeedUsers(ctx, services.Market, seed)
	require.NoError(t, err)
	assert.Equal(t, 2, created)

	created, err = SeedUsers(ctx, services.Market, seed)
	require.NoError(t, err)
	assert.Zero(t, created)

	admin, err := services.Store.GetUserByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, admin.Role)
}

func TestInitializeServicesRejectsUnknownBackend(t *testing.T) {
	cfg := testConfig(t)
	cfg.Backend = "redis"
	_, err := InitializeServices(context.Background(), cfg)
	assert.ErrorContains(t, err, "unsupported store backend")
}

func TestPrinters(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintUsers(&buf, []models.User{{Id: "u1", Email: "a@example.com", Name: "A", Role: models.RoleAgent}}))
	assert.Contains(t, buf.String(), "a@example.com")
	assert.Contains(t, buf.String(), "agent")

	buf.Reset()
	require.NoError(t, PrintSales(&buf, []models.SaleRecord{{
		PropertyId: "p1", BuyerEmail: "b@example.com", AgentEmail: "a@example.com",
		SoldPrice: decimal.RequireFromString("1250.5"), TransactionId: "tx-1",
	}}))
	assert.Contains(t, buf.String(), "1250.50")
	assert.Contains(t, buf.String(), "tx-1")

	buf.Reset()
	PrintSettlement(&buf, &models.SettlementResult{OfferId: "o1", PropertyId: "p1", TransactionId: "tx-1", CompetingRejected: 2})
	assert.Contains(t, buf.String(), "Rejected rivals:  2")
	assert.Contains(t, buf.String(), "└  ")
}

// The server builds its logger before loading configuration, so a config
// failure is reported through a live global logger rather than the no-op one.
func TestInitializeLoggerReplacesGlobal(t *testing.T) {
	previous := zap.L()

	logger, cleanup := InitializeLogger()
	t.Cleanup(func() {
		cleanup()
		zap.ReplaceGlobals(previous)
	})

	assert.Same(t, logger, zap.L())
	assert.True(t, zap.L().Core().Enabled(zap.ErrorLevel))
}

func TestIsIgnorableSyncError(t *testing.T) {
	assert.False(t, isIgnorableSyncError(os.ErrInvalid))
	assert.True(t, isIgnorableSyncError(&os.PathError{Op: "sync", Path: "/dev/stderr", Err: errInappropriateIoctl{}}))
}

type errInappropriateIoctl struct{}

func (errInappropriateIoctl) Error() string { return "inappropriate ioctl for device" }
