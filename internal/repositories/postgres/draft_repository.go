package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/noumanabid-jpg/Promo-Calculator/internal/models"
)

type DraftRepository struct {
	pool *pgxpool.Pool
}

func NewDraftRepository(pool *pgxpool.Pool) *DraftRepository {
	return &DraftRepository{pool: pool}
}

func (r *DraftRepository) Get(ctx context.Context, weekKey string) (*models.DraftWeek, error) {
	query := `
        SELECT week_key, status, items, updated_at
        FROM promo_weeks
        WHERE week_key = $1
    `
	draft := &models.DraftWeek{}
	var items []byte
	err := r.pool.QueryRow(ctx, query, weekKey).Scan(
		&draft.WeekKey,
		&draft.Status,
		&items,
		&draft.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read draft %s: %w", weekKey, err)
	}
	if err := json.Unmarshal(items, &draft.Items); err != nil {
		return nil, fmt.Errorf("failed to decode draft items for %s: %w", weekKey, err)
	}
	return draft, nil
}

func (r *DraftRepository) Save(ctx context.Context, draft *models.DraftWeek) error {
	items, err := json.Marshal(draft.Items)
	if err != nil {
		return fmt.Errorf("failed to encode draft items: %w", err)
	}

	query := `
        INSERT INTO promo_weeks (week_key, status, items, updated_at)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (week_key) DO UPDATE
        SET status = EXCLUDED.status,
            items = EXCLUDED.items,
            updated_at = EXCLUDED.updated_at
    `
	updatedAt := draft.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}
	_, err = r.pool.Exec(ctx, query, draft.WeekKey, draft.Status, items, updatedAt)
	if err != nil {
		return fmt.Errorf("failed to save draft %s: %w", draft.WeekKey, err)
	}
	return nil
}

func (r *DraftRepository) UpdateStatus(ctx context.Context, weekKey, status string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE promo_weeks SET status = $2, updated_at = $3 WHERE week_key = $1`,
		weekKey, status, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to update draft status for %s: %w", weekKey, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("no draft found for week %s", weekKey)
	}
	return nil
}
