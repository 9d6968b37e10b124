package repositories

import (
	"context"

	"github.com/noumanabid-jpg/Promo-Calculator/internal/models"
)

// DraftRepository persists weekly drafts keyed by week. Get returns nil
// (not an error) for absent weeks so fatigue lookups can walk missing ones.
type DraftRepository interface {
	Get(ctx context.Context, weekKey string) (*models.DraftWeek, error)
	Save(ctx context.Context, draft *models.DraftWeek) error
	UpdateStatus(ctx context.Context, weekKey, status string) error
}

// CampaignRepository records publish events. Campaigns are append-only apart
// from the rolled-back mark.
type CampaignRepository interface {
	Create(ctx context.Context, campaign *models.Campaign) error
	Get(ctx context.Context, id string) (*models.Campaign, error)
	Latest(ctx context.Context) (*models.Campaign, error)
	List(ctx context.Context, limit int) ([]*models.Campaign, error)
	MarkRolledBack(ctx context.Context, id string) error
}
