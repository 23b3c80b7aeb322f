package services

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/docreview/internal/client/client"
	"github.com/dmitrijs2005/docreview/internal/client/export"
	"github.com/dmitrijs2005/docreview/internal/logging"
)

// ExportResult describes a stored export archive.
type ExportResult struct {
	FileName string
	Location string
	Size     int64
}

// ExportService downloads a category archive and hands it to a sink.
type ExportService interface {
	Export(ctx context.Context, category string, sink export.Sink) (ExportResult, error)
}

type exportService struct {
	client client.Client
	log    logging.Logger
	now    func() time.Time
}

func NewExportService(c client.Client, log logging.Logger) ExportService {
	if log == nil {
		log = logging.Nop()
	}
	return &exportService{client: c, log: log, now: time.Now}
}

func (s *exportService) Export(ctx context.Context, category string, sink export.Sink) (ExportResult, error) {
	d, err := s.client.DownloadCategory(ctx, category)
	if err != nil {
		return ExportResult{}, err
	}
	defer d.Body.Close()

	name := exportFileName(d.FileName, category, s.now())
	loc, n, err := sink.Put(ctx, name, d.Body)
	if err != nil {
		return ExportResult{}, fmt.Errorf("storing export: %w", err)
	}

	s.log.Info(ctx, "category exported", "category", category, "location", loc, "bytes", n)
	return ExportResult{FileName: name, Location: loc, Size: n}, nil
}

// exportFileName keeps the server-suggested name when it is usable and
// falls back to {category}_reviewed_{timestamp}.zip.
func exportFileName(suggested, category string, now time.Time) string {
	if base := filepath.Base(suggested); suggested != "" && base != "." && base != string(filepath.Separator) {
		return base
	}
	return fmt.Sprintf("%s_reviewed_%s.zip", category, now.Format("20060102_150405"))
}
