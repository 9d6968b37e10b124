package planner

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/lucsky/cuid"

	"github.com/noumanabid-jpg/Promo-Calculator/internal/engine"
	"github.com/noumanabid-jpg/Promo-Calculator/internal/events"
	"github.com/noumanabid-jpg/Promo-Calculator/internal/models"
)

// ItemError records a per-item failure during publish or rollback. These are
// collected and reported, never fatal to the whole operation.
type ItemError struct {
	VariantID string `json:"variant_id"`
	Err       string `json:"error"`
}

// Publish pushes the week's promo prices live: snapshot current prices,
// apply each promo price with the regular price as compare-at, record the
// campaign, mark the draft published, and emit price events. A week
// publishes exactly once.
func (p *Planner) Publish(ctx context.Context, weekKey string) (*models.Campaign, []ItemError, error) {
	draft, err := p.Drafts.Get(ctx, weekKey)
	if err != nil {
		return nil, nil, err
	}
	if draft == nil || len(draft.Items) == 0 {
		return nil, nil, fmt.Errorf("no draft items to publish for week %s", weekKey)
	}
	if draft.Status != models.StatusDraft {
		return nil, nil, fmt.Errorf("week %s is already %s", weekKey, draft.Status)
	}

	now := time.Now().UTC()
	campaign := &models.Campaign{
		ID:        cuid.New(),
		Week:      weekKey,
		CreatedAt: now,
	}

	var itemErrors []ItemError
	var priceEvents []events.PriceEvent
	seenProducts := make(map[string]bool)

	for i := range draft.Items {
		it := &draft.Items[i]

		snapshot, err := p.Catalog.VariantSnapshot(ctx, it.VariantID)
		if err != nil {
			itemErrors = append(itemErrors, ItemError{VariantID: it.VariantID, Err: err.Error()})
			continue
		}

		regular := engine.Money(it.RegularPrice)
		if err := p.Catalog.UpdateVariantPrice(ctx, it.VariantID, it.PromoPrice, &regular); err != nil {
			itemErrors = append(itemErrors, ItemError{VariantID: it.VariantID, Err: err.Error()})
			continue
		}

		campaign.Snapshot = append(campaign.Snapshot, *snapshot)
		campaign.VariantIDs = append(campaign.VariantIDs, it.VariantID)
		if !seenProducts[it.ProductID] {
			seenProducts[it.ProductID] = true
			campaign.ProductIDs = append(campaign.ProductIDs, it.ProductID)
		}

		priceEvents = append(priceEvents, events.PriceEvent{
			Action:    "publish",
			Week:      weekKey,
			VariantID: it.VariantID,
			Price:     it.PromoPrice,
			CompareAt: &regular,
			At:        now,
		})
	}

	if len(campaign.VariantIDs) == 0 {
		return nil, itemErrors, fmt.Errorf("no variants updated for week %s", weekKey)
	}

	campaign.ProductCount = len(campaign.ProductIDs)
	campaign.ItemCount = len(campaign.VariantIDs)

	if err := p.Campaigns.Create(ctx, campaign); err != nil {
		return nil, itemErrors, err
	}
	if err := p.Drafts.UpdateStatus(ctx, weekKey, models.StatusPublished); err != nil {
		return campaign, itemErrors, err
	}

	if err := events.Emit(p.Events, p.Config.Kafka.Topic, priceEvents); err != nil {
		// prices are live at this point; the event stream lagging is not
		// a reason to unwind the publish
		log.Printf("price events not fully emitted: %v", err)
	}

	log.Printf("published week %s: campaign %s, %d variants updated, %d errors",
		weekKey, campaign.ID, campaign.ItemCount, len(itemErrors))
	return campaign, itemErrors, nil
}

// Rollback restores the snapshot prices of a campaign. An empty campaignID
// rolls back the most recent campaign not yet rolled back.
func (p *Planner) Rollback(ctx context.Context, campaignID string) (*models.Campaign, []ItemError, error) {
	var campaign *models.Campaign
	var err error
	if campaignID == "" {
		campaign, err = p.Campaigns.Latest(ctx)
	} else {
		campaign, err = p.Campaigns.Get(ctx, campaignID)
	}
	if err != nil {
		return nil, nil, err
	}
	if campaign == nil {
		return nil, nil, fmt.Errorf("no campaign snapshot found to rollback")
	}
	if campaign.RolledBack {
		return nil, nil, fmt.Errorf("campaign %s is already rolled back", campaign.ID)
	}
	if len(campaign.Snapshot) == 0 {
		return nil, nil, fmt.Errorf("campaign %s has no variants in its snapshot", campaign.ID)
	}

	now := time.Now().UTC()
	var itemErrors []ItemError
	var priceEvents []events.PriceEvent
	restored := 0

	for _, snap := range campaign.Snapshot {
		if err := p.Catalog.UpdateVariantPrice(ctx, snap.VariantID, snap.Price, snap.CompareAtPrice); err != nil {
			itemErrors = append(itemErrors, ItemError{VariantID: snap.VariantID, Err: err.Error()})
			continue
		}
		restored++
		priceEvents = append(priceEvents, events.PriceEvent{
			Action:    "rollback",
			Week:      campaign.Week,
			VariantID: snap.VariantID,
			Price:     snap.Price,
			CompareAt: snap.CompareAtPrice,
			At:        now,
		})
	}

	if restored == 0 {
		return campaign, itemErrors, fmt.Errorf("no variants restored for campaign %s", campaign.ID)
	}

	if err := p.Campaigns.MarkRolledBack(ctx, campaign.ID); err != nil {
		return campaign, itemErrors, err
	}
	if err := p.Drafts.UpdateStatus(ctx, campaign.Week, models.StatusReverted); err != nil {
		log.Printf("campaign %s rolled back but draft status not updated: %v", campaign.ID, err)
	}

	if err := events.Emit(p.Events, p.Config.Kafka.Topic, priceEvents); err != nil {
		log.Printf("price events not fully emitted: %v", err)
	}

	log.Printf("rolled back campaign %s: %d variants restored, %d errors",
		campaign.ID, restored, len(itemErrors))
	return campaign, itemErrors, nil
}
