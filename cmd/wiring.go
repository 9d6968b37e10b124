package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/noumanabid-jpg/Promo-Calculator/internal/events"
	"github.com/noumanabid-jpg/Promo-Calculator/internal/factories"
	"github.com/noumanabid-jpg/Promo-Calculator/internal/models"
	"github.com/noumanabid-jpg/Promo-Calculator/internal/output"
	"github.com/noumanabid-jpg/Promo-Calculator/internal/planner"
	"github.com/noumanabid-jpg/Promo-Calculator/internal/repositories/postgres"
	"github.com/noumanabid-jpg/Promo-Calculator/internal/shopify"
)

// buildPlanner wires the planner's collaborators from configuration. The
// returned cleanup closes the pool, sink and metrics connections.
func buildPlanner(ctx context.Context, cfg *models.Config) (*planner.Planner, func(), error) {
	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to store: %w", err)
	}

	var catalog planner.CatalogSource
	if cfg.Demo {
		catalog = factories.NewDemoSource(time.Now().UnixNano())
	} else {
		client, err := shopify.NewClient(cfg.Shopify)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
		catalog = client
	}

	sink, err := events.NewSink(cfg.Kafka)
	if err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("creating event sink: %w", err)
	}

	metrics, err := output.NewMetricsOutput(&cfg.Database)
	if err != nil {
		pool.Close()
		_ = sink.Close()
		return nil, nil, fmt.Errorf("connecting metrics output: %w", err)
	}

	p := &planner.Planner{
		Config:    cfg,
		Catalog:   catalog,
		Drafts:    postgres.NewDraftRepository(pool),
		Campaigns: postgres.NewCampaignRepository(pool),
		Events:    sink,
		Metrics:   metrics,
	}

	cleanup := func() {
		if err := sink.Close(); err != nil {
			log.Printf("error closing event sink: %v", err)
		}
		if err := metrics.Close(); err != nil {
			log.Printf("error closing metrics output: %v", err)
		}
		pool.Close()
	}
	return p, cleanup, nil
}

func loadConfigOrExit() *models.Config {
	cfg, err := models.LoadConfig(cfgFile)
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}
	return cfg
}
