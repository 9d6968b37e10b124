package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/noumanabid-jpg/Promo-Calculator/internal/models"
)

var draftHeader = []string{
	"week", "sku", "title", "variant", "category",
	"price", "promo_price", "margin_promo", "round_rule",
	"inventory", "velocity", "score", "cost_estimated",
}

// WriteDraftCSV renders a draft week as CSV, one row per priced item.
func WriteDraftCSV(w io.Writer, draft *models.DraftWeek) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(draftHeader); err != nil {
		return err
	}
	for i := range draft.Items {
		it := &draft.Items[i]
		row := []string{
			draft.WeekKey,
			it.SKU,
			it.Title,
			it.VariantLabel,
			it.Category,
			formatPrice(it.RegularPrice),
			formatPrice(it.PromoPrice),
			strconv.FormatFloat(it.MarginAtPromo, 'f', 4, 64),
			it.RoundingRule,
			strconv.Itoa(it.InventoryQuantity),
			strconv.Itoa(it.RecentVelocity),
			strconv.FormatFloat(it.Score, 'f', 4, 64),
			strconv.FormatBool(it.CostEstimated),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportDraftCSV writes the draft CSV to the configured destination and
// returns the path or object key written.
func ExportDraftCSV(cfg models.ExportConfig, draft *models.DraftWeek) (string, error) {
	name := fmt.Sprintf("draft_%s.csv", draft.WeekKey)

	w, location, err := openDestination(cfg, name)
	if err != nil {
		return "", err
	}
	if err := WriteDraftCSV(w, draft); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("failed to write draft csv: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", err
	}
	return location, nil
}

// openDestination returns a write-closer for the named export file, either a
// local file under the output path or a cloud object via the writer factory.
func openDestination(cfg models.ExportConfig, name string) (io.WriteCloser, string, error) {
	if cfg.OutputDestination == "local" || cfg.OutputDestination == "" {
		dir := filepath.Join(cfg.OutputPath, cfg.OutputFolder)
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return nil, "", err
		}
		path := filepath.Join(dir, name)
		f, err := os.Create(path)
		if err != nil {
			return nil, "", err
		}
		return f, path, nil
	}

	factory, err := cloudFactory(cfg)
	if err != nil {
		return nil, "", err
	}
	objectPath := filepath.Join(cfg.OutputFolder, name)
	w, err := factory.NewWriter(cfg.CloudStorage.BucketName, objectPath)
	if err != nil {
		return nil, "", err
	}
	return w, objectPath, nil
}

func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
