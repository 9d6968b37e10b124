package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/source"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/noumanabid-jpg/Promo-Calculator/internal/cloudwriter"
	"github.com/noumanabid-jpg/Promo-Calculator/internal/models"
)

// ExportWeekKPIParquet writes the week's KPI row as a parquet file to the
// configured destination and returns the path or object key written.
func ExportWeekKPIParquet(cfg models.ExportConfig, kpi models.WeekKPI) (string, error) {
	name := fmt.Sprintf("metrics_%s.parquet", kpi.Week)

	var fw source.ParquetFile
	var location string

	if cfg.OutputDestination == "local" || cfg.OutputDestination == "" {
		dir := filepath.Join(cfg.OutputPath, cfg.OutputFolder)
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return "", err
		}
		location = filepath.Join(dir, name)
		var err error
		fw, err = local.NewLocalFileWriter(location)
		if err != nil {
			return "", fmt.Errorf("failed to create parquet file: %w", err)
		}
	} else {
		factory, err := cloudFactory(cfg)
		if err != nil {
			return "", err
		}
		location = filepath.Join(cfg.OutputFolder, name)
		cw, err := factory.NewWriter(cfg.CloudStorage.BucketName, location)
		if err != nil {
			return "", err
		}
		fw = &cloudParquetFile{cloudWriter: cw}
	}

	pw, err := writer.NewParquetWriter(fw, new(models.WeekKPI), 4)
	if err != nil {
		_ = fw.Close()
		return "", fmt.Errorf("failed to create parquet writer: %w", err)
	}
	if err := pw.Write(kpi); err != nil {
		_ = fw.Close()
		return "", fmt.Errorf("failed to write metrics row: %w", err)
	}
	if err := pw.WriteStop(); err != nil {
		_ = fw.Close()
		return "", fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	if err := fw.Close(); err != nil {
		return "", err
	}
	return location, nil
}

func cloudFactory(cfg models.ExportConfig) (cloudwriter.CloudWriterFactory, error) {
	switch cfg.CloudStorage.Provider {
	case "s3":
		return cloudwriter.NewS3WriterFactory(cfg.CloudStorage.Region)
	default:
		return nil, fmt.Errorf("unsupported cloud storage provider: %s", cfg.CloudStorage.Provider)
	}
}

// cloudParquetFile adapts a CloudWriter to the parquet source interface.
// Reads and seeks are write-path stubs; the library only writes forward.
type cloudParquetFile struct {
	cloudWriter cloudwriter.CloudWriter
	offset      int64
}

func (c *cloudParquetFile) Open(name string) (source.ParquetFile, error) {
	return c, nil
}

func (c *cloudParquetFile) Create(name string) (source.ParquetFile, error) {
	return c, nil
}

func (c *cloudParquetFile) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
		c.offset = offset
	case io.SeekCurrent:
		c.offset += offset
	case io.SeekEnd:
		return 0, fmt.Errorf("seek from end not supported for cloud storage")
	}
	return c.offset, nil
}

func (c *cloudParquetFile) Read(p []byte) (int, error) {
	return 0, fmt.Errorf("read not supported for cloud storage")
}

func (c *cloudParquetFile) Write(p []byte) (int, error) {
	return c.cloudWriter.Write(p)
}

func (c *cloudParquetFile) Close() error {
	return c.cloudWriter.Close()
}
