package shopify

import (
	"context"
	"fmt"
	"strconv"

	"github.com/noumanabid-jpg/Promo-Calculator/internal/engine"
	"github.com/noumanabid-jpg/Promo-Calculator/internal/models"
)

type restVariant struct {
	ID              int64   `json:"id"`
	Price           string  `json:"price"`
	CompareAtPrice  *string `json:"compare_at_price"`
	InventoryItemID int64   `json:"inventory_item_id"`
}

// VariantSnapshot reads a variant's live price and compare-at price so a
// publish can be rolled back later.
func (c *Client) VariantSnapshot(ctx context.Context, variantID string) (*models.VariantSnapshot, error) {
	var resp struct {
		Variant restVariant `json:"variant"`
	}
	path := fmt.Sprintf("/variants/%s.json", legacyID(variantID))
	if err := c.rest(ctx, "GET", path, nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to snapshot variant %s: %w", variantID, err)
	}

	snapshot := &models.VariantSnapshot{
		VariantID: variantID,
		Price:     engine.Money(parseAmount(resp.Variant.Price)),
	}
	if resp.Variant.CompareAtPrice != nil {
		compareAt := engine.Money(parseAmount(*resp.Variant.CompareAtPrice))
		snapshot.CompareAtPrice = &compareAt
	}
	return snapshot, nil
}

// UpdateVariantPrice pushes a price (and optional compare-at price) to the
// catalog source. A nil compareAt clears the field.
func (c *Client) UpdateVariantPrice(ctx context.Context, variantID string, price float64, compareAt *float64) error {
	variant := map[string]interface{}{
		"id":    legacyID(variantID),
		"price": formatAmount(price),
	}
	if compareAt != nil {
		variant["compare_at_price"] = formatAmount(*compareAt)
	} else {
		variant["compare_at_price"] = nil
	}

	path := fmt.Sprintf("/variants/%s.json", legacyID(variantID))
	body := map[string]interface{}{"variant": variant}
	if err := c.rest(ctx, "PUT", path, body, nil); err != nil {
		return fmt.Errorf("failed to update price for variant %s: %w", variantID, err)
	}
	return nil
}

// VariantUnitCost resolves a variant's unit cost through its inventory item.
func (c *Client) VariantUnitCost(ctx context.Context, variantID string) (float64, error) {
	var variantResp struct {
		Variant restVariant `json:"variant"`
	}
	path := fmt.Sprintf("/variants/%s.json", legacyID(variantID))
	if err := c.rest(ctx, "GET", path, nil, &variantResp); err != nil {
		return 0, fmt.Errorf("failed to fetch variant %s: %w", variantID, err)
	}
	if variantResp.Variant.InventoryItemID == 0 {
		return 0, fmt.Errorf("no inventory item for variant %s", variantID)
	}

	var invResp struct {
		InventoryItem struct {
			Cost string `json:"cost"`
		} `json:"inventory_item"`
	}
	path = fmt.Sprintf("/inventory_items/%d.json", variantResp.Variant.InventoryItemID)
	if err := c.rest(ctx, "GET", path, nil, &invResp); err != nil {
		return 0, fmt.Errorf("failed to fetch inventory item for variant %s: %w", variantID, err)
	}
	return engine.Money(parseAmount(invResp.InventoryItem.Cost)), nil
}

const heroMetafieldMutation = `#graphql
mutation SetHero($ownerId: ID!) {
  metafieldsSet(metafields: [{ownerId: $ownerId, namespace: "custom", key: "hero", value: "true", type: "boolean"}]) {
    userErrors {
      field
      message
    }
  }
}`

// SetHeroFlag marks a product as a hero for future scoring boosts.
func (c *Client) SetHeroFlag(ctx context.Context, productID string) error {
	var resp struct {
		MetafieldsSet struct {
			UserErrors []struct {
				Message string `json:"message"`
			} `json:"userErrors"`
		} `json:"metafieldsSet"`
	}
	err := c.graphql(ctx, heroMetafieldMutation, map[string]interface{}{"ownerId": productID}, &resp)
	if err != nil {
		return fmt.Errorf("failed to set hero flag on %s: %w", productID, err)
	}
	if len(resp.MetafieldsSet.UserErrors) > 0 {
		return fmt.Errorf("hero metafield rejected for %s: %s", productID, resp.MetafieldsSet.UserErrors[0].Message)
	}
	return nil
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(engine.Money(v), 'f', 2, 64)
}
