package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabi-ops/tabi-api/internal/models"
	"github.com/tabi-ops/tabi-api/internal/store"
	"github.com/tabi-ops/tabi-api/pkg/kv"
)

func newTransferFixture(t *testing.T, records ...*models.ScheduleRecord) (*TransferService, *store.Store) {
	t.Helper()
	st := store.New(kv.NewMemory(), nil)
	require.NoError(t, st.Load(context.Background()))
	if len(records) > 0 {
		require.NoError(t, st.Update(context.Background(), func(state *store.State) error {
			state.Records = records
			return nil
		}))
	}
	return NewTransferService(st, nil, 10), st
}

func TestParseImportDropsBadRows(t *testing.T) {
	svc, _ := newTransferFixture(t)

	upload := strings.Join([]string{
		"start_date,interval_start,hc_requested,segment,operation",
		"2026-09-01,09:00,4,LABS,LAB",
		",09:00,4,LABS,LAB",
		"2026-09-01,banana,4,LABS,LAB",
		"2026-09-01,10:00,zero,LABS,LAB",
		"2026-09-01,10:30,0,LABS,LAB",
		"2026-09-01,19:00,2,LABS,OI",
	}, "\n")

	preview, err := svc.ParseImport(strings.NewReader(upload), "100001")
	require.NoError(t, err)
	assert.Equal(t, 2, preview.Count)
	assert.Equal(t, 4, preview.Dropped)

	first := preview.Rows[0]
	assert.Equal(t, "09:00:00", first.IntervalStart)
	assert.Equal(t, "2026-09-01", first.EndDate)
	assert.Equal(t, "100001", first.CreatedBy)
}

func TestParseImportAcceptsDateAlias(t *testing.T) {
	svc, _ := newTransferFixture(t)

	preview, err := svc.ParseImport(strings.NewReader("date,interval,hc\n2026-09-01,09:00,3\n"), "100001")
	require.NoError(t, err)
	assert.Equal(t, 1, preview.Count)
}

func TestParseImportRequiresColumns(t *testing.T) {
	svc, _ := newTransferFixture(t)

	_, err := svc.ParseImport(strings.NewReader("foo,bar\n1,2\n"), "100001")
	require.Error(t, err)
}

func TestConfirmImportCreatesPendingRecords(t *testing.T) {
	svc, st := newTransferFixture(t)

	_, err := svc.ParseImport(strings.NewReader("start_date,interval_start,hc_requested\n2026-09-01,09:00,4\n"), "100001")
	require.NoError(t, err)

	result, err := svc.ConfirmImport(context.Background(), "100001")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)

	st.View(func(state *store.State) {
		require.Len(t, state.Records, 1)
		rec := state.Records[0]
		assert.Equal(t, models.StatusPending, rec.Status)
		assert.Equal(t, 40, rec.HEMinutes)
		assert.Equal(t, "09:00:00", rec.IntervalStart)
	})

	// Buffer is consumed; a second confirm has nothing to import.
	_, err = svc.ConfirmImport(context.Background(), "100001")
	require.Error(t, err)
}

func TestDiscardImportClearsBuffer(t *testing.T) {
	svc, _ := newTransferFixture(t)

	_, err := svc.ParseImport(strings.NewReader("start_date,interval_start,hc_requested\n2026-09-01,09:00,4\n"), "100001")
	require.NoError(t, err)

	svc.DiscardImport()
	assert.Zero(t, svc.Pending().Count)
}

func TestExportCSVColumnOrder(t *testing.T) {
	rec := testRecord("r1", "09:00:00", 4, 40)
	rec.CreatedBy = "100001"
	svc, _ := newTransferFixture(t, rec)

	raw, err := svc.ExportCSV(context.Background(), models.RecordFilter{}, "100001")
	require.NoError(t, err)

	rows, err := csv.NewReader(bytes.NewReader(raw)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, exportColumns, rows[0])
	assert.Equal(t, "r1", rows[1][0])
	assert.Equal(t, "09:00:00", rows[1][6])
	assert.Equal(t, "4", rows[1][7])
	assert.Equal(t, "40", rows[1][8])
	assert.Equal(t, "PUBLISHED", rows[1][12])
}

func TestExportPDFRenders(t *testing.T) {
	rec := testRecord("r1", "09:00:00", 4, 40)
	svc, _ := newTransferFixture(t, rec)

	raw, err := svc.ExportPDF(context.Background(), models.RecordFilter{}, "100001")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))
}

func TestTemplateHeaders(t *testing.T) {
	svc, _ := newTransferFixture(t)

	raw, err := svc.Template()
	require.NoError(t, err)

	rows, err := csv.NewReader(bytes.NewReader(raw)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, importColumns, rows[0])
}
