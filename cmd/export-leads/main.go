package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"techsupport_pro_go/config"
	"techsupport_pro_go/db"
	"techsupport_pro_go/logger"
	"techsupport_pro_go/services"
	"techsupport_pro_go/services/i18n"

	"go.uber.org/zap"
)

func main() {
	since := flag.String("since", "", "Only export leads received on or after this date (YYYY-MM-DD)")
	out := flag.String("out", "", "File name of the export (default leads-<timestamp>.xlsx)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Environment)
	defer log.Sync()

	if err := run(context.Background(), cfg, log, *since, *out); err != nil {
		log.Fatal("Lead export failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, log *zap.Logger, since, out string) error {
	sinceTime, err := parseSince(since)
	if err != nil {
		return err
	}

	if err := i18n.Load(); err != nil {
		return fmt.Errorf("failed to load translations: %w", err)
	}

	if err := db.Initialize(cfg, log); err != nil {
		return err
	}
	defer db.Close()
	if db.DB == nil {
		return fmt.Errorf("database is disabled, nothing to export")
	}

	leads, err := services.NewGormLeadStore(db.DB).ListLeads(ctx, sinceTime)
	if err != nil {
		return err
	}

	buf, err := services.BuildLeadWorkbook(leads, cfg.NotifyLocale)
	if err != nil {
		return err
	}

	if out == "" {
		out = services.ExportFileName(time.Now())
	}

	storage := services.NewExportStorage(ctx, cfg, log)
	size := int64(buf.Len())
	result, err := storage.UploadReader(ctx, buf, services.ExportKey(out), services.XLSXContentType, size)
	if err != nil {
		return err
	}

	fields := []zap.Field{
		zap.Int("leads", len(leads)),
		zap.String("location", result.Location),
		zap.Int64("bytes", result.FileSize),
	}
	if url, err := storage.GetSignedURL(ctx, result.Key, 24*time.Hour); err == nil {
		fields = append(fields, zap.String("download", url))
	}
	log.Info("Lead export written", fields...)
	return nil
}

// parseSince parses the -since flag. An empty value exports every lead.
func parseSince(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid -since %q, expected YYYY-MM-DD: %w", value, err)
	}
	return t, nil
}
