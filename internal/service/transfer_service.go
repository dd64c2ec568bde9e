package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tabi-ops/tabi-api/internal/dto"
	"github.com/tabi-ops/tabi-api/internal/models"
	"github.com/tabi-ops/tabi-api/internal/store"
	appErrors "github.com/tabi-ops/tabi-api/pkg/errors"
	"github.com/tabi-ops/tabi-api/pkg/export"
)

// exportColumns fixes the schedule export order for CSV and PDF alike.
var exportColumns = []string{
	"id", "start_date", "end_date", "dmm", "segment", "operation",
	"interval_start", "hc_requested", "he_minutes", "assigned_hc",
	"assigned_he_minutes", "created_by", "status",
}

// importColumns is the template offered for bulk upload.
var importColumns = []string{
	"start_date", "end_date", "dmm", "segment", "operation",
	"interval_start", "hc_requested", "motivo",
}

// TransferService moves records across the system boundary: CSV import with
// preview-then-confirm, and CSV/PDF export.
type TransferService struct {
	store          *store.Store
	logger         *zap.Logger
	csv            *export.CSVExporter
	pdf            *export.PDFExporter
	minutesPerUnit int

	mu      sync.Mutex
	pending []dto.ImportRow

	now   func() time.Time
	newID func() string
}

func NewTransferService(st *store.Store, logger *zap.Logger, minutesPerUnit int) *TransferService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if minutesPerUnit <= 0 {
		minutesPerUnit = 10
	}
	return &TransferService{
		store:          st,
		logger:         logger,
		csv:            export.NewCSVExporter(),
		pdf:            export.NewPDFExporter(),
		minutesPerUnit: minutesPerUnit,
		now:            time.Now,
		newID:          uuid.NewString,
	}
}

// Template returns an empty import sheet with the expected headers.
func (s *TransferService) Template() ([]byte, error) {
	return s.csv.Render(export.Dataset{Headers: importColumns})
}

// ParseImport parses an uploaded CSV into the preview buffer, replacing any
// previous unconfirmed upload. Rows missing a date, interval or positive
// headcount are dropped silently and only counted.
func (s *TransferService) ParseImport(r io.Reader, actor string) (*dto.ImportPreview, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "empty or unreadable csv")
	}
	cols := map[string]int{}
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}

	dateIdx, ok := firstIndex(cols, "start_date", "date", "data")
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "csv is missing a start_date column")
	}
	intervalIdx, ok := firstIndex(cols, "interval_start", "interval", "intervalo")
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "csv is missing an interval_start column")
	}
	hcIdx, ok := firstIndex(cols, "hc_requested", "hc")
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "csv is missing an hc_requested column")
	}

	preview := &dto.ImportPreview{Rows: []dto.ImportRow{}}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			preview.Dropped++
			continue
		}

		startDate := cell(row, dateIdx)
		interval := normalizeInterval(cell(row, intervalIdx))
		hc, convErr := strconv.Atoi(cell(row, hcIdx))
		if startDate == "" || timeToMinutes(interval) < 0 || convErr != nil || hc <= 0 {
			preview.Dropped++
			continue
		}

		parsed := dto.ImportRow{
			StartDate:     startDate,
			EndDate:       lookupCell(row, cols, "end_date"),
			DMM:           lookupCell(row, cols, "dmm"),
			Segment:       lookupCell(row, cols, "segment"),
			Operation:     lookupCell(row, cols, "operation"),
			IntervalStart: interval,
			HCRequested:   hc,
			Motivo:        lookupCell(row, cols, "motivo"),
			CreatedBy:     actor,
		}
		if parsed.EndDate == "" {
			parsed.EndDate = parsed.StartDate
		}
		preview.Rows = append(preview.Rows, parsed)
	}
	preview.Count = len(preview.Rows)

	s.mu.Lock()
	s.pending = preview.Rows
	s.mu.Unlock()

	return preview, nil
}

// Pending returns the current preview buffer.
func (s *TransferService) Pending() *dto.ImportPreview {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows := append([]dto.ImportRow(nil), s.pending...)
	return &dto.ImportPreview{Rows: rows, Count: len(rows)}
}

// DiscardImport drops the preview buffer without importing.
func (s *TransferService) DiscardImport() {
	s.mu.Lock()
	s.pending = nil
	s.mu.Unlock()
}

// ConfirmImport turns the preview buffer into PENDING records and clears it.
func (s *TransferService) ConfirmImport(ctx context.Context, actor string) (*dto.ImportResult, error) {
	s.mu.Lock()
	rows := s.pending
	s.pending = nil
	s.mu.Unlock()

	if len(rows) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "no parsed rows awaiting confirmation")
	}

	err := s.store.Update(ctx, func(st *store.State) error {
		now := s.now().UTC()
		for _, row := range rows {
			st.Records = append(st.Records, &models.ScheduleRecord{
				ID:            s.newID(),
				StartDate:     row.StartDate,
				EndDate:       row.EndDate,
				DMM:           row.DMM,
				Segment:       row.Segment,
				Operation:     row.Operation,
				IntervalStart: row.IntervalStart,
				HCRequested:   row.HCRequested,
				HEMinutes:     row.HCRequested * s.minutesPerUnit,
				Motivo:        row.Motivo,
				Status:        models.StatusPending,
				CreatedAt:     now,
				CreatedBy:     row.CreatedBy,
			})
		}
		appendLog(st, actor, models.AuditActionImport,
			fmt.Sprintf("%d record(s) imported", len(rows)))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto.ImportResult{Imported: len(rows)}, nil
}

// ExportCSV renders the filtered records in the fixed column order.
func (s *TransferService) ExportCSV(ctx context.Context, filter models.RecordFilter, actor string) ([]byte, error) {
	data, err := s.dataset(ctx, filter, actor, "csv")
	if err != nil {
		return nil, err
	}
	return s.csv.Render(*data)
}

// ExportPDF renders the filtered records as a landscape table.
func (s *TransferService) ExportPDF(ctx context.Context, filter models.RecordFilter, actor string) ([]byte, error) {
	data, err := s.dataset(ctx, filter, actor, "pdf")
	if err != nil {
		return nil, err
	}
	return s.pdf.Render(*data, "Programação de HE")
}

func (s *TransferService) dataset(ctx context.Context, filter models.RecordFilter, actor, format string) (*export.Dataset, error) {
	data := &export.Dataset{Headers: exportColumns}
	now := s.now()
	err := s.store.Update(ctx, func(st *store.State) error {
		for _, rec := range st.Records {
			derived := deriveExpiry(rec, now)
			if !matches(derived, filter) {
				continue
			}
			data.Rows = append(data.Rows, []string{
				derived.ID,
				derived.StartDate,
				derived.EndDate,
				derived.DMM,
				derived.Segment,
				derived.Operation,
				derived.IntervalStart,
				strconv.Itoa(derived.HCRequested),
				strconv.Itoa(derived.HEMinutes),
				strconv.Itoa(derived.AssignedHC),
				strconv.Itoa(derived.AssignedHEMinutes),
				derived.CreatedBy,
				string(derived.Status),
			})
		}
		appendLog(st, actor, models.AuditActionExport,
			fmt.Sprintf("%d record(s) exported as %s", len(data.Rows), format))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

func firstIndex(cols map[string]int, names ...string) (int, bool) {
	for _, name := range names {
		if idx, ok := cols[name]; ok {
			return idx, true
		}
	}
	return 0, false
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func lookupCell(row []string, cols map[string]int, name string) string {
	idx, ok := cols[name]
	if !ok {
		return ""
	}
	return cell(row, idx)
}
