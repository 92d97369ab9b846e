//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"villa-reservation/internal/domain/booking"
	"villa-reservation/internal/domain/user"
	"villa-reservation/internal/infra/db"
	"villa-reservation/internal/infra/repository"
	"villa-reservation/internal/pkg/password"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

const DefaultPassword = "password123"

// CreateTestAdmin upserts an active back-office account with DefaultPassword.
func CreateTestAdmin(t *testing.T, conn db.DBTX, email string, role user.Role) uuid.UUID {
	t.Helper()

	addr, err := user.NewEmail(email)
	require.NoError(t, err)
	hash, err := password.Hash(DefaultPassword)
	require.NoError(t, err)

	id, err := repository.NewAdminRepository(conn).Upsert(context.Background(), conn, addr, hash, role)
	require.NoError(t, err)
	return id
}

func DeactivateAdmin(t *testing.T, conn db.DBTX, id uuid.UUID) {
	t.Helper()
	_, err := conn.Exec(context.Background(), "UPDATE admin_users SET is_active = false WHERE id = $1", id)
	require.NoError(t, err)
}

// InsertBooking stores b through the production repository so the exclusion
// constraint applies.
func InsertBooking(t *testing.T, conn db.DBTX, b *booking.Booking) {
	t.Helper()
	err := repository.NewBookingRepository(conn, "jpy").Create(context.Background(), conn, b)
	require.NoError(t, err)
}

func CountNotificationJobs(t *testing.T, conn db.DBTX, topic string) int {
	t.Helper()
	var n int
	err := conn.QueryRow(context.Background(),
		"SELECT count(*) FROM notification_jobs WHERE topic = $1", topic).Scan(&n)
	require.NoError(t, err)
	return n
}

func BookingStatus(t *testing.T, conn db.DBTX, id uuid.UUID) string {
	t.Helper()
	var s string
	err := conn.QueryRow(context.Background(),
		"SELECT payment_status FROM bookings WHERE id = $1", id).Scan(&s)
	require.NoError(t, err)
	return s
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations', 'atlas_schema_revisions')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	_, err := pool.Exec(ctx, sqlAny.(string))
	return err
}
