package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/meetgrid/booking-api/pkg/export"
	appErrors "github.com/meetgrid/booking-api/pkg/errors"
)

// Export formats supported by the report endpoints.
const (
	FormatCSV = "csv"
	FormatPDF = "pdf"
)

type monthOverviewProvider interface {
	MonthOverview(ctx context.Context, req MonthRequest) (map[string]bool, error)
}

// ExportService renders a profile's month availability overview as a
// downloadable report.
type ExportService struct {
	overviews monthOverviewProvider
	csv       *export.CSVExporter
	pdf       *export.PDFExporter
	logger    *zap.Logger
}

// NewExportService constructs the service.
func NewExportService(overviews monthOverviewProvider, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		overviews: overviews,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
		logger:    logger,
	}
}

// ExportRequest names the month, zone and output format for the report.
type ExportRequest struct {
	Slug        string
	Year        int
	Month       int
	VisitorZone string
	Format      string
}

// ExportResult carries the rendered document and its HTTP metadata.
type ExportResult struct {
	FileName    string
	ContentType string
	Data        []byte
}

// MonthReport renders the month overview as CSV or PDF, one row per date.
func (s *ExportService) MonthReport(ctx context.Context, req ExportRequest) (*ExportResult, error) {
	if req.Format != FormatCSV && req.Format != FormatPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}

	overview, err := s.overviews.MonthOverview(ctx, MonthRequest{
		Slug:        req.Slug,
		Year:        req.Year,
		Month:       req.Month,
		VisitorZone: req.VisitorZone,
	})
	if err != nil {
		return nil, err
	}

	dates := make([]string, 0, len(overview))
	for date := range overview {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	table := export.Table{
		Columns: []string{"Date", "Weekday", "Bookable"},
		Rows:    make([][]string, 0, len(dates)),
	}
	for _, date := range dates {
		weekday := ""
		if t, err := time.Parse("2006-01-02", date); err == nil {
			weekday = t.Weekday().String()
		}
		bookable := "no"
		if overview[date] {
			bookable = "yes"
		}
		table.Rows = append(table.Rows, []string{date, weekday, bookable})
	}

	base := fmt.Sprintf("availability-%04d-%02d", req.Year, req.Month)
	switch req.Format {
	case FormatPDF:
		data, err := s.pdf.Render(table, fmt.Sprintf("Availability %04d-%02d", req.Year, req.Month))
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf report")
		}
		return &ExportResult{FileName: base + ".pdf", ContentType: "application/pdf", Data: data}, nil
	default:
		data, err := s.csv.Render(table)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv report")
		}
		return &ExportResult{FileName: base + ".csv", ContentType: "text/csv", Data: data}, nil
	}
}
