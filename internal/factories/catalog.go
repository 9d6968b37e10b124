package factories

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/jaswdr/faker"
	"github.com/lucsky/cuid"

	"github.com/noumanabid-jpg/Promo-Calculator/internal/engine"
	"github.com/noumanabid-jpg/Promo-Calculator/internal/models"
)

var fake = faker.New()

var produceNames = map[string][]string{
	models.CategoryFruit: {
		"Gala Apples", "Bananas", "Navel Oranges", "Strawberries", "Blueberries",
		"Green Grapes", "Conference Pears", "Kiwi", "Mango", "Pineapple",
		"Raspberries", "Clementines",
	},
	models.CategoryVegetable: {
		"Carrots", "Broccoli", "Baby Spinach", "Vine Tomatoes", "Red Peppers",
		"Cucumber", "Courgettes", "Red Onions", "White Potatoes", "Sweet Potatoes",
		"Cauliflower", "Iceberg Lettuce",
	},
	models.CategoryOther: {
		"Sourdough Loaf", "Whole Milk", "Free Range Eggs", "Cheddar Block",
	},
}

var variantLabels = []string{"Each", "500g", "1kg", "Punnet", "Bunch", "Pack of 4"}

// CatalogFactory generates a synthetic grocery catalog and order history for
// demo runs against no live store.
type CatalogFactory struct {
	rng *rand.Rand
}

func NewCatalogFactory(seed int64) *CatalogFactory {
	return &CatalogFactory{rng: rand.New(rand.NewSource(seed))}
}

// CreateCatalog builds n candidate variants across the produce categories.
// A handful carry hero or do-not-discount tags, and some arrive without a
// source cost, exercising the fallback policy downstream.
func (f *CatalogFactory) CreateCatalog(n int, cfg models.PlannerConfig) []models.CandidateItem {
	categories := []string{models.CategoryFruit, models.CategoryVegetable, models.CategoryOther}

	items := make([]models.CandidateItem, 0, n)
	for i := 0; i < n; i++ {
		category := categories[f.rng.Intn(len(categories))]
		names := produceNames[category]
		price := engine.Money(fake.Float64(2, 1, 12))

		item := models.CandidateItem{
			ProductID:         fmt.Sprintf("gid://shopify/Product/%d", 1000+i),
			VariantID:         fmt.Sprintf("gid://shopify/ProductVariant/%d", 9000+i),
			SKU:               fmt.Sprintf("%s-%03d", category[:3], i),
			Title:             names[f.rng.Intn(len(names))],
			VariantLabel:      variantLabels[f.rng.Intn(len(variantLabels))],
			Category:          category,
			RegularPrice:      price,
			InventoryQuantity: f.rng.Intn(300),
		}

		if f.rng.Float64() < 0.8 {
			item.UnitCost = engine.Money(price * (0.4 + 0.4*f.rng.Float64()))
		}
		if f.rng.Float64() < 0.1 {
			item.Tags = append(item.Tags, cfg.HeroTag)
			item.IsHero = true
		}
		if f.rng.Float64() < 0.05 {
			item.Tags = append(item.Tags, cfg.DoNotDiscountTag)
			item.DoNotDiscount = true
		}

		items = append(items, item)
	}
	return items
}

// CreateOrders builds a trailing order window over the catalog so velocity
// and KPI paths have data to chew on.
func (f *CatalogFactory) CreateOrders(items []models.CandidateItem, days, count int) []models.Order {
	if len(items) == 0 || count <= 0 {
		return nil
	}
	now := time.Now().UTC()

	orders := make([]models.Order, 0, count)
	for i := 0; i < count; i++ {
		order := models.Order{
			ID:        cuid.New(),
			CreatedAt: now.AddDate(0, 0, -f.rng.Intn(days)),
		}
		lines := 1 + f.rng.Intn(4)
		for j := 0; j < lines; j++ {
			it := items[f.rng.Intn(len(items))]
			qty := 1 + f.rng.Intn(5)
			order.LineItems = append(order.LineItems, models.LineItem{
				VariantID: it.VariantID,
				Quantity:  qty,
			})
			order.TotalAmount += engine.Money(it.RegularPrice * float64(qty))
		}
		orders = append(orders, order)
	}
	return orders
}
