package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/freeweek-api/internal/dto"
	"github.com/noah-isme/freeweek-api/internal/engine"
	appErrors "github.com/noah-isme/freeweek-api/pkg/errors"
	"github.com/noah-isme/freeweek-api/pkg/export"
)

// Export formats accepted by the plan endpoint.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportResult is a rendered plan ready to stream to the client.
type ExportResult struct {
	Payload  []byte
	MimeType string
	Filename string
}

// ExportService renders a computed week plan as a downloadable document.
type ExportService struct {
	csv     csvRenderer
	pdf     pdfRenderer
	logger  *zap.Logger
	enabled bool
}

// NewExportService constructs an ExportService.
func NewExportService(csv csvRenderer, pdf pdfRenderer, logger *zap.Logger, enabled bool) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{csv: csv, pdf: pdf, logger: logger, enabled: enabled}
}

// SessionPlan renders the ranked windows of a computed week.
func (s *ExportService) SessionPlan(resp dto.ComputeSessionsResponse, format string) (*ExportResult, error) {
	if !s.enabled {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "exports are disabled")
	}

	dataset := planDataset(resp)
	title := fmt.Sprintf("Session plan, week of %s", time.Unix(resp.WeekFrom, 0).UTC().Format("Jan 2 2006"))
	filename := fmt.Sprintf("session-plan-%d.%s", resp.WeekFrom, format)

	switch format {
	case ExportFormatCSV:
		payload, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv plan")
		}
		return &ExportResult{Payload: payload, MimeType: "text/csv", Filename: filename}, nil
	case ExportFormatPDF:
		payload, err := s.pdf.Render(dataset, title)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf plan")
		}
		return &ExportResult{Payload: payload, MimeType: "application/pdf", Filename: filename}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
}

func planDataset(resp dto.ComputeSessionsResponse) export.Dataset {
	headers := []string{"Time", "Duration (h)", "Participants", "Missing"}
	rows := make([]map[string]string, 0, len(resp.Windows))
	for _, w := range resp.Windows {
		hours := float64(w.DurationSlots) / float64(engine.SlotsPerHour)
		rows = append(rows, map[string]string{
			"Time":         w.TimeRange,
			"Duration (h)": strconv.FormatFloat(hours, 'f', -1, 64),
			"Participants": strings.Join(w.Participants, ", "),
			"Missing":      strings.Join(w.Missing, ", "),
		})
	}
	return export.Dataset{Headers: headers, Rows: rows}
}
