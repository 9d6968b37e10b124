package shopify

import (
	"context"
	"time"

	"github.com/noumanabid-jpg/Promo-Calculator/internal/models"
)

const ordersQuery = `#graphql
query OrdersSince($query: String!) {
  orders(first: 250, query: $query) {
    nodes {
      id
      createdAt
      lineItems(first: 50) {
        nodes {
          quantity
          variant {
            id
          }
        }
      }
    }
  }
}`

type ordersResponse struct {
	Orders struct {
		Nodes []struct {
			ID        string `json:"id"`
			CreatedAt string `json:"createdAt"`
			LineItems struct {
				Nodes []struct {
					Quantity int `json:"quantity"`
					Variant  *struct {
						ID string `json:"id"`
					} `json:"variant"`
				} `json:"nodes"`
			} `json:"lineItems"`
		} `json:"nodes"`
	} `json:"orders"`
}

// FetchOrdersSince pulls orders created in the last sinceDays days, line
// items only. Customer fields are deliberately absent so the query needs no
// read_customers scope.
func (c *Client) FetchOrdersSince(ctx context.Context, sinceDays int) ([]models.Order, error) {
	since := time.Now().UTC().AddDate(0, 0, -sinceDays).Format("2006-01-02")

	var resp ordersResponse
	err := c.graphql(ctx, ordersQuery, map[string]interface{}{
		"query": "created_at:>=" + since,
	}, &resp)
	if err != nil {
		return nil, err
	}

	orders := make([]models.Order, 0, len(resp.Orders.Nodes))
	for _, node := range resp.Orders.Nodes {
		order := models.Order{ID: node.ID}
		if created, err := time.Parse(time.RFC3339, node.CreatedAt); err == nil {
			order.CreatedAt = created
		}
		for _, li := range node.LineItems.Nodes {
			if li.Variant == nil {
				continue
			}
			order.LineItems = append(order.LineItems, models.LineItem{
				VariantID: li.Variant.ID,
				Quantity:  li.Quantity,
			})
		}
		orders = append(orders, order)
	}
	return orders, nil
}
