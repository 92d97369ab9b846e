package readstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"villa-reservation/internal/infra"
	"villa-reservation/internal/infra/db"
	"villa-reservation/internal/usecase/queries"
)

// ReportReadStore serves the back-office listing and statistics. It only issues SELECTs.
type ReportReadStore struct {
	db db.DBTX
}

func NewReportReadStore(db db.DBTX) *ReportReadStore {
	return &ReportReadStore{db: db}
}

func (r *ReportReadStore) List(ctx context.Context, filter queries.AdminBookingFilter, limit int) ([]queries.BookingView, error) {
	where, args := filterClause(filter, true)
	args = append(args, limit)
	sql := fmt.Sprintf(`SELECT %s FROM bookings %s ORDER BY created_at DESC, id DESC LIMIT $%d`,
		bookingViewColumns, where, len(args))

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to list bookings", err)
	}
	return collectBookingViews(rows)
}

func (r *ReportReadStore) CountByStatus(ctx context.Context, filter queries.AdminBookingFilter) (map[string]int64, error) {
	where, args := filterClause(filter, false)
	rows, err := r.db.Query(ctx, `SELECT payment_status, count(*) FROM bookings `+where+` GROUP BY payment_status`, args...)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to count bookings", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var (
			status string
			n      int64
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to scan booking count", err)
		}
		counts[status] = n
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to iterate booking counts", err)
	}
	return counts, nil
}

func (r *ReportReadStore) CompletedRevenue(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.QueryRow(ctx,
		`SELECT COALESCE(SUM(total_amount), 0)::bigint FROM bookings WHERE payment_status = 'completed'`,
	).Scan(&total)
	if err != nil {
		return 0, infra.WrapRepoErr(infra.KindDBFailure, "failed to sum revenue", err)
	}
	return total, nil
}

func (r *ReportReadStore) OccupyingCheckInBetween(ctx context.Context, from, to time.Time) ([]queries.OccupancyView, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, check_in, check_out, payment_status
		FROM bookings
		WHERE payment_status = ANY($1) AND check_in >= $2 AND check_in < $3
		ORDER BY check_in`,
		occupyingStatuses(), from, to,
	)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to list occupying bookings", err)
	}
	return collectOccupancy(rows)
}

// filterClause builds a WHERE clause from the admin filter. From/To bound check-in.
func filterClause(f queries.AdminBookingFilter, withCursor bool) (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if f.Status != nil {
		add("payment_status = $%d", f.Status.String())
	}
	if f.From != nil {
		add("check_in >= $%d", *f.From)
	}
	if f.To != nil {
		add("check_in < $%d", *f.To)
	}
	if withCursor && f.AfterCreatedAt != nil && f.AfterID != nil {
		args = append(args, *f.AfterCreatedAt, *f.AfterID)
		conds = append(conds, fmt.Sprintf("(created_at, id) < ($%d, $%d)", len(args)-1, len(args)))
	}

	if len(conds) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}
