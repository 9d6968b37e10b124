package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/noumanabid-jpg/Promo-Calculator/internal/export"
	"github.com/noumanabid-jpg/Promo-Calculator/internal/models"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate this week's promo draft from the catalog snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfigOrExit()
		ctx := context.Background()

		p, cleanup, err := buildPlanner(ctx, cfg)
		if err != nil {
			return err
		}
		defer cleanup()

		draft, diag, err := p.GenerateDraft(ctx, time.Now())
		if err != nil {
			return err
		}

		printJSON(map[string]interface{}{
			"week":  draft.WeekKey,
			"items": draft.Items,
			"debug": diag,
		})
		return nil
	},
}

var draftCmd = &cobra.Command{
	Use:   "draft",
	Short: "Show the draft for a week (defaults to the current week)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfigOrExit()
		ctx := context.Background()

		p, cleanup, err := buildPlanner(ctx, cfg)
		if err != nil {
			return err
		}
		defer cleanup()

		draft, err := p.CurrentDraft(ctx, weekOrNow(cmd))
		if err != nil {
			return err
		}
		printJSON(draft)
		return nil
	},
}

var draftSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Overwrite a week's draft items from a JSON file",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfigOrExit()
		ctx := context.Background()

		file, _ := cmd.Flags().GetString("file")
		if file == "" {
			return fmt.Errorf("--file is required")
		}
		raw, err := os.ReadFile(file)
		if err != nil {
			return err
		}
		var items []models.PricedItem
		if err := json.Unmarshal(raw, &items); err != nil {
			return fmt.Errorf("failed to decode draft items: %w", err)
		}

		p, cleanup, err := buildPlanner(ctx, cfg)
		if err != nil {
			return err
		}
		defer cleanup()

		week := weekOrNow(cmd)
		if err := p.SaveDraft(ctx, week, items); err != nil {
			return err
		}
		fmt.Printf("saved %d items for week %s\n", len(items), week)
		return nil
	},
}

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Replace estimated unit costs in a week's draft with real costs",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfigOrExit()
		ctx := context.Background()

		p, cleanup, err := buildPlanner(ctx, cfg)
		if err != nil {
			return err
		}
		defer cleanup()

		enriched, err := p.EnrichCost(ctx, weekOrNow(cmd))
		if err != nil {
			return err
		}
		fmt.Printf("enriched %d items\n", enriched)
		return nil
	},
}

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Push a week's promo prices live and record the campaign",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfigOrExit()
		ctx := context.Background()

		p, cleanup, err := buildPlanner(ctx, cfg)
		if err != nil {
			return err
		}
		defer cleanup()

		campaign, itemErrors, err := p.Publish(ctx, weekOrNow(cmd))
		if err != nil {
			return err
		}
		printJSON(map[string]interface{}{
			"ok":       len(itemErrors) == 0,
			"campaign": campaign,
			"errors":   itemErrors,
		})
		return nil
	},
}

var rollbackCmd = &cobra.Command{
	Use:   "rollback [campaign-id]",
	Short: "Restore pre-campaign prices (latest campaign when no id given)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfigOrExit()
		ctx := context.Background()

		p, cleanup, err := buildPlanner(ctx, cfg)
		if err != nil {
			return err
		}
		defer cleanup()

		campaignID := ""
		if len(args) > 0 {
			campaignID = args[0]
		}

		campaign, itemErrors, err := p.Rollback(ctx, campaignID)
		if err != nil {
			return err
		}
		printJSON(map[string]interface{}{
			"ok":       len(itemErrors) == 0,
			"campaign": campaign.ID,
			"week":     campaign.Week,
			"errors":   itemErrors,
		})
		return nil
	},
}

var campaignsCmd = &cobra.Command{
	Use:   "campaigns",
	Short: "List recorded campaigns, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfigOrExit()
		ctx := context.Background()

		p, cleanup, err := buildPlanner(ctx, cfg)
		if err != nil {
			return err
		}
		defer cleanup()

		campaigns, err := p.Campaigns.List(ctx, 50)
		if err != nil {
			return err
		}
		printJSON(campaigns)
		return nil
	},
}

var measureCmd = &cobra.Command{
	Use:   "measure",
	Short: "Compute KPIs for last week's published promo and learn heroes",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfigOrExit()
		ctx := context.Background()

		p, cleanup, err := buildPlanner(ctx, cfg)
		if err != nil {
			return err
		}
		defer cleanup()

		kpi, err := p.Measure(ctx, time.Now())
		if err != nil {
			return err
		}
		if kpi == nil {
			fmt.Println("no published promo to measure")
			return nil
		}
		printJSON(kpi)
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a week's draft as CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfigOrExit()
		ctx := context.Background()

		p, cleanup, err := buildPlanner(ctx, cfg)
		if err != nil {
			return err
		}
		defer cleanup()

		draft, err := p.CurrentDraft(ctx, weekOrNow(cmd))
		if err != nil {
			return err
		}
		if draft.Status == models.StatusEmpty {
			return fmt.Errorf("no draft to export for week %s", draft.WeekKey)
		}

		location, err := export.ExportDraftCSV(cfg.Export, draft)
		if err != nil {
			return err
		}
		fmt.Println("exported", location)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{draftCmd, draftSaveCmd, enrichCmd, publishCmd, exportCmd} {
		c.Flags().String("week", "", "Week key (YYYY-MM-DD), defaults to today")
	}
	draftSaveCmd.Flags().String("file", "", "JSON file of priced items to save")
	draftCmd.AddCommand(draftSaveCmd)
}

func weekOrNow(cmd *cobra.Command) string {
	week, _ := cmd.Flags().GetString("week")
	if week != "" {
		return week
	}
	return models.WeekKey(time.Now())
}

func printJSON(v interface{}) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintln(os.Stderr, "error encoding output:", err)
	}
}
