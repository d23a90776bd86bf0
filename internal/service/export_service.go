package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-admin-console/internal/models"
	appErrors "github.com/noah-isme/sma-admin-console/pkg/errors"
	"github.com/noah-isme/sma-admin-console/pkg/export"
)

// ExportFormat selects the rendering of a roster export.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

// ExportFile is a rendered export ready to be streamed.
type ExportFile struct {
	Filename    string
	ContentType string
	Body        []byte
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportService renders roster tables to CSV or PDF. Credentials are never
// exported.
type ExportService struct {
	store  TableStore
	cache  *TableCache
	csv    csvRenderer
	pdf    pdfRenderer
	logger *zap.Logger
	now    func() time.Time
}

// NewExportService constructs an ExportService.
func NewExportService(store TableStore, cache *TableCache, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{store: store, cache: cache, csv: csv, pdf: pdf, logger: logger, now: time.Now}
}

// ExportTable renders every row of a roster table.
func (s *ExportService) ExportTable(ctx context.Context, table models.TableName, format ExportFormat) (*ExportFile, error) {
	if table == models.TableMaterials {
		return nil, appErrors.Clone(appErrors.ErrValidation, "materials cannot be exported")
	}
	schema, ok := models.SchemaFor(table)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrTableNotFound, fmt.Sprintf("table %q not found", table))
	}
	format = ExportFormat(strings.ToLower(string(format)))
	if format != ExportFormatCSV && format != ExportFormatPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}

	rows, _, err := s.cache.Load(ctx, s.store, table)
	if err != nil {
		return nil, storeFailure(err, "failed to load "+strings.ToLower(string(table)))
	}
	dataset := export.Dataset{Headers: exportHeaders(schema)}
	dataset.Rows = make([]map[string]string, len(rows))
	for i, row := range rows {
		dataset.Rows[i] = row
	}

	var (
		body        []byte
		contentType string
	)
	switch format {
	case ExportFormatCSV:
		body, err = s.csv.Render(dataset)
		contentType = "text/csv; charset=utf-8"
	case ExportFormatPDF:
		body, err = s.pdf.Render(dataset, fmt.Sprintf("%s roster", table))
		contentType = "application/pdf"
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	filename := fmt.Sprintf("%s_%s.%s", strings.ToLower(string(table)), s.now().UTC().Format("20060102_150405"), format)
	s.logger.Info("roster exported", zap.String("table", string(table)), zap.String("format", string(format)), zap.Int("rows", len(rows)))
	return &ExportFile{Filename: filename, ContentType: contentType, Body: body}, nil
}

func exportHeaders(schema models.TableSchema) []string {
	headers := make([]string, 0, len(schema.Columns))
	for _, c := range schema.Columns {
		if c == models.ColPassword {
			continue
		}
		headers = append(headers, c)
	}
	return headers
}
