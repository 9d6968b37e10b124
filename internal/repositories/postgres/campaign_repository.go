package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/noumanabid-jpg/Promo-Calculator/internal/models"
)

type CampaignRepository struct {
	pool *pgxpool.Pool
}

func NewCampaignRepository(pool *pgxpool.Pool) *CampaignRepository {
	return &CampaignRepository{pool: pool}
}

func (r *CampaignRepository) Create(ctx context.Context, campaign *models.Campaign) error {
	snapshot, err := json.Marshal(campaign.Snapshot)
	if err != nil {
		return fmt.Errorf("failed to encode campaign snapshot: %w", err)
	}

	query := `
        INSERT INTO campaigns (
            id, week, created_at, product_ids, variant_ids,
            product_count, item_count, snapshot, rolled_back
        ) VALUES (
            $1, $2, $3, $4, $5, $6, $7, $8, $9
        )
    `
	_, err = r.pool.Exec(ctx, query,
		campaign.ID,
		campaign.Week,
		campaign.CreatedAt,
		campaign.ProductIDs,
		campaign.VariantIDs,
		campaign.ProductCount,
		campaign.ItemCount,
		snapshot,
		campaign.RolledBack,
	)
	if err != nil {
		return fmt.Errorf("failed to record campaign %s: %w", campaign.ID, err)
	}
	return nil
}

func (r *CampaignRepository) Get(ctx context.Context, id string) (*models.Campaign, error) {
	return r.queryOne(ctx, `
        SELECT id, week, created_at, product_ids, variant_ids,
               product_count, item_count, snapshot, rolled_back
        FROM campaigns
        WHERE id = $1
    `, id)
}

func (r *CampaignRepository) Latest(ctx context.Context) (*models.Campaign, error) {
	return r.queryOne(ctx, `
        SELECT id, week, created_at, product_ids, variant_ids,
               product_count, item_count, snapshot, rolled_back
        FROM campaigns
        WHERE NOT rolled_back
        ORDER BY created_at DESC
        LIMIT 1
    `)
}

func (r *CampaignRepository) List(ctx context.Context, limit int) ([]*models.Campaign, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx, `
        SELECT id, week, created_at, product_ids, variant_ids,
               product_count, item_count, snapshot, rolled_back
        FROM campaigns
        ORDER BY created_at DESC
        LIMIT $1
    `, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list campaigns: %w", err)
	}
	defer rows.Close()

	var campaigns []*models.Campaign
	for rows.Next() {
		campaign, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		campaigns = append(campaigns, campaign)
	}
	return campaigns, rows.Err()
}

func (r *CampaignRepository) MarkRolledBack(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE campaigns SET rolled_back = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to mark campaign %s rolled back: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("no campaign found with id %s", id)
	}
	return nil
}

func (r *CampaignRepository) queryOne(ctx context.Context, query string, args ...interface{}) (*models.Campaign, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to read campaign: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, nil
	}
	return scanCampaign(rows)
}

func scanCampaign(row pgx.Row) (*models.Campaign, error) {
	campaign := &models.Campaign{}
	var snapshot []byte
	err := row.Scan(
		&campaign.ID,
		&campaign.Week,
		&campaign.CreatedAt,
		&campaign.ProductIDs,
		&campaign.VariantIDs,
		&campaign.ProductCount,
		&campaign.ItemCount,
		&snapshot,
		&campaign.RolledBack,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan campaign: %w", err)
	}
	if len(snapshot) > 0 {
		if err := json.Unmarshal(snapshot, &campaign.Snapshot); err != nil {
			return nil, fmt.Errorf("failed to decode campaign snapshot: %w", err)
		}
	}
	return campaign, nil
}
