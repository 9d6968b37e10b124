package shopify

import (
	"context"
	"strings"

	"github.com/schollz/progressbar/v3"

	"github.com/noumanabid-jpg/Promo-Calculator/internal/engine"
	"github.com/noumanabid-jpg/Promo-Calculator/internal/models"
)

const productsQuery = `#graphql
query VariantsForPromo($first: Int!, $after: String) {
  products(first: $first, after: $after) {
    pageInfo {
      hasNextPage
      endCursor
    }
    nodes {
      id
      title
      productType
      tags
      variants(first: 50) {
        nodes {
          id
          title
          sku
          price
          compareAtPrice
          inventoryQuantity
          inventoryItem {
            unitCost {
              amount
            }
          }
        }
      }
    }
  }
}`

type productsResponse struct {
	Products struct {
		PageInfo struct {
			HasNextPage bool   `json:"hasNextPage"`
			EndCursor   string `json:"endCursor"`
		} `json:"pageInfo"`
		Nodes []struct {
			ID          string   `json:"id"`
			Title       string   `json:"title"`
			ProductType string   `json:"productType"`
			Tags        []string `json:"tags"`
			Variants    struct {
				Nodes []struct {
					ID                string  `json:"id"`
					Title             string  `json:"title"`
					SKU               string  `json:"sku"`
					Price             string  `json:"price"`
					CompareAtPrice    *string `json:"compareAtPrice"`
					InventoryQuantity int     `json:"inventoryQuantity"`
					InventoryItem     *struct {
						UnitCost *struct {
							Amount string `json:"amount"`
						} `json:"unitCost"`
					} `json:"inventoryItem"`
				} `json:"nodes"`
			} `json:"variants"`
		} `json:"nodes"`
	} `json:"products"`
}

// FetchCandidates walks the whole catalog page by page and maps every
// variant into a CandidateItem. Missing unit costs fall back to the
// configured ratio of price and are flagged as estimated. Velocity is left
// at zero; the planner fills it from the trailing order window.
func (c *Client) FetchCandidates(ctx context.Context, cfg models.PlannerConfig) ([]models.CandidateItem, error) {
	bar := progressbar.Default(-1, "fetching catalog")
	defer bar.Close()

	var candidates []models.CandidateItem
	var cursor *string

	for {
		variables := map[string]interface{}{"first": c.pageSize}
		if cursor != nil {
			variables["after"] = *cursor
		}

		var page productsResponse
		if err := c.graphql(ctx, productsQuery, variables, &page); err != nil {
			return nil, err
		}

		for _, p := range page.Products.Nodes {
			category := strings.ToLower(p.ProductType)
			if category == "" {
				category = models.CategoryOther
			}
			tags := make([]string, 0, len(p.Tags))
			for _, t := range p.Tags {
				tags = append(tags, strings.ToLower(t))
			}

			for _, v := range p.Variants.Nodes {
				item := models.CandidateItem{
					ProductID:         p.ID,
					VariantID:         v.ID,
					SKU:               v.SKU,
					Title:             p.Title,
					VariantLabel:      v.Title,
					Category:          category,
					Tags:              tags,
					RegularPrice:      engine.Money(parseAmount(v.Price)),
					InventoryQuantity: v.InventoryQuantity,
				}
				if v.CompareAtPrice != nil {
					item.CompareAtPrice = engine.Money(parseAmount(*v.CompareAtPrice))
				}
				if v.InventoryItem != nil && v.InventoryItem.UnitCost != nil {
					item.UnitCost = engine.Money(parseAmount(v.InventoryItem.UnitCost.Amount))
				}
				ApplyCostFallback(&item, cfg.CostFallbackRatio)

				item.DoNotDiscount = item.HasTag(cfg.DoNotDiscountTag)
				item.IsHero = item.HasTag(cfg.HeroTag)

				candidates = append(candidates, item)
				_ = bar.Add(1)
			}
		}

		if !page.Products.PageInfo.HasNextPage {
			break
		}
		cursor = &page.Products.PageInfo.EndCursor
	}

	return candidates, nil
}

// ApplyCostFallback is the single place the cost-estimation policy lives:
// when the source has no usable unit cost, estimate it as a ratio of price
// and flag the item so reporting can tell real from estimated cost.
func ApplyCostFallback(item *models.CandidateItem, ratio float64) {
	if item.UnitCost > 0 || item.RegularPrice <= 0 {
		return
	}
	if ratio <= 0 || ratio >= 1 {
		return
	}
	estimated := engine.Money(item.RegularPrice * ratio)
	if estimated < 0.01 {
		estimated = 0.01
	}
	item.UnitCost = estimated
	item.CostEstimated = true
}
