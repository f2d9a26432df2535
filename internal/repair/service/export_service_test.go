package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/bitfantasy/repairtrack/internal/repair/entity"
	"github.com/bitfantasy/repairtrack/internal/repair/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

type recordingArchiver struct {
	names []string
	err   error
}

func (a *recordingArchiver) Archive(_ context.Context, name, _ string, _ []byte) error {
	a.names = append(a.names, name)
	return a.err
}

func TestWriteCSV_BOMAndQuoting(t *testing.T) {
	var buf bytes.Buffer
	err := WriteCSV(&buf, []string{"Name", "Note"}, [][]string{
		{"Jane", `said "hi", left`},
		{"", "line"},
	})
	require.NoError(t, err)

	out := buf.Bytes()
	require.True(t, bytes.HasPrefix(out, []byte{0xEF, 0xBB, 0xBF}), "missing BOM")

	lines := strings.Split(strings.TrimSuffix(string(out[3:]), "\n"), "\n")
	assert.Equal(t, []string{
		`"Name","Note"`,
		`"Jane","said ""hi"", left"`,
		`"","line"`,
	}, lines)
}

func TestExportFileName(t *testing.T) {
	now := time.Date(2024, 7, 4, 15, 0, 0, 0, time.UTC)
	assert.Equal(t, "tickets_2024-07-04.csv", ExportFileName(ExportKindTickets, ExportFormatCSV, now))
	assert.Equal(t, "warranties_2024-07-04.xlsx", ExportFileName(ExportKindWarranties, ExportFormatXLSX, now))
}

func TestTicketExportRows_Fallbacks(t *testing.T) {
	dir := NewDirectory(
		[]entity.Customer{{ID: "c1", FullName: "Jane", OrganizationID: "gone"}},
		nil,
	)
	rows := TicketExportRows([]entity.RepairTicket{
		{CustomerID: "c1", DeviceType: entity.DeviceMic, ReceiveDate: "2024-01-01", Status: entity.RepairStatusReceived},
		{CustomerID: "c2", DeviceType: entity.DeviceMic, ReceiveDate: "2024-01-02", Status: entity.RepairStatusReceived},
	}, dir)

	require.Len(t, rows, 2)
	assert.Equal(t, "Jane", rows[0][1])
	assert.Equal(t, UnknownOrganization, rows[0][2])
	assert.Equal(t, UnknownCustomer, rows[1][1])
	assert.Equal(t, UnknownOrganization, rows[1][2])
	assert.Len(t, rows[0], len(ticketExportHeaders))
}

func TestWarrantyExportRows_Cost(t *testing.T) {
	dir := NewDirectory(nil, []entity.Organization{{ID: "o1", Name: "Service Co"}})
	rows := WarrantyExportRows([]entity.WarrantyTicket{
		{OrganizationID: "o1", Cost: decimal.NewNullDecimal(decimal.RequireFromString("12.5"))},
		{OrganizationID: "o2"},
	}, dir)

	assert.Equal(t, "Service Co", rows[0][1])
	assert.Equal(t, "12.50", rows[0][7])
	assert.Equal(t, UnknownOrganization, rows[1][1])
	assert.Equal(t, "", rows[1][7])
	assert.Len(t, rows[0], len(warrantyExportHeaders))
}

func TestExportService_TicketsCSV(t *testing.T) {
	ctx := context.Background()
	store, _ := testutil.SetupLocalStore(t)
	org := testutil.SeedOrganization(t, store, "Acme")
	customer := testutil.SeedCustomer(t, store, org.ID, "Jane Doe")
	testutil.SeedTicket(t, store, customer.ID, entity.DeviceCamera, "CAM-1", "2024-02-02")

	archiver := &recordingArchiver{err: errors.New("bucket missing")}
	svc := NewExportService(store, archiver, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC) }

	file, err := svc.ExportTickets(ctx, ExportFormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "tickets_2024-08-01.csv", file.Name)
	assert.Contains(t, file.ContentType, "text/csv")

	body := string(file.Data[3:])
	assert.True(t, strings.HasPrefix(body, `"Receive Date","Customer","Organization"`))
	assert.Contains(t, body, `"2024-02-02","Jane Doe","Acme","Camera","CAM-1"`)

	// archive failures do not fail the export
	assert.Equal(t, []string{"tickets_2024-08-01.csv"}, archiver.names)
}

func TestExportService_WarrantiesXLSX(t *testing.T) {
	ctx := context.Background()
	store, _ := testutil.SetupLocalStore(t)
	org := testutil.SeedOrganization(t, store, "Service Co")
	testutil.SeedWarranty(t, store, org.ID, entity.DeviceControl, "CTL-1", "2024-03-03")

	svc := NewExportService(store, nil, zap.NewNop())
	file, err := svc.ExportWarranties(ctx, ExportFormatXLSX)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(file.Name, ".xlsx"))

	f, err := excelize.OpenReader(bytes.NewReader(file.Data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(ExportKindWarranties)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Sent Date", rows[0][0])
	assert.Equal(t, "2024-03-03", rows[1][0])
	assert.Equal(t, "Service Co", rows[1][1])
	assert.Equal(t, "CTL-1", rows[1][3])
}

func TestExportService_UnknownFormat(t *testing.T) {
	store, _ := testutil.SetupLocalStore(t)
	_, err := NewExportService(store, nil, zap.NewNop()).ExportTickets(context.Background(), "pdf")
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}
