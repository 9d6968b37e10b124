package output

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/noumanabid-jpg/Promo-Calculator/internal/models"
)

// MetricsOutput writes weekly KPI rows for reporting. It runs on a plain
// database/sql connection, separate from the repositories' pgx pool.
type MetricsOutput struct {
	db *sql.DB
}

func NewMetricsOutput(config *models.DatabaseConfig) (*MetricsOutput, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		config.Host, config.Port, config.User, config.Password, config.DBName, config.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("error pinging database: %w", err)
	}

	return &MetricsOutput{db: db}, nil
}

// WriteWeekKPI upserts the week's metrics row; re-measuring a week
// overwrites its earlier numbers.
func (m *MetricsOutput) WriteWeekKPI(ctx context.Context, kpi models.WeekKPI) error {
	query := `
        INSERT INTO promo_metrics (
            week, units, revenue, orders, gm, markdown, retention14, computed_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        ON CONFLICT (week) DO UPDATE
        SET units = EXCLUDED.units,
            revenue = EXCLUDED.revenue,
            orders = EXCLUDED.orders,
            gm = EXCLUDED.gm,
            markdown = EXCLUDED.markdown,
            retention14 = EXCLUDED.retention14,
            computed_at = EXCLUDED.computed_at
    `
	_, err := m.db.ExecContext(ctx, query,
		kpi.Week,
		kpi.Units,
		kpi.Revenue,
		kpi.Orders,
		kpi.GrossMargin,
		kpi.Markdown,
		kpi.Retention14,
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert metrics for week %s: %w", kpi.Week, err)
	}
	return nil
}

func (m *MetricsOutput) Close() error {
	return m.db.Close()
}
