package service

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bitfantasy/repairtrack/internal/config"
	"github.com/bitfantasy/repairtrack/internal/metrics"
	"github.com/bitfantasy/repairtrack/internal/repair/entity"
	"github.com/bitfantasy/repairtrack/internal/repair/repository"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// 导出格式
const (
	ExportFormatCSV  = "csv"
	ExportFormatXLSX = "xlsx"
)

// 导出类型
const (
	ExportKindTickets    = "tickets"
	ExportKindWarranties = "warranties"
)

const (
	contentTypeCSV  = "text/csv; charset=utf-8"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var ticketExportHeaders = []string{
	"Receive Date", "Customer", "Organization", "Device Type", "Serial Number",
	"Device Condition", "Status", "Return Date", "Shipping Method", "Return Note",
}

var warrantyExportHeaders = []string{
	"Sent Date", "Service Center", "Device Type", "Serial Number", "Fault Description",
	"Status", "Return Date", "Cost", "Shipping Method", "Tracking Number", "Note",
}

// ExportFile 生成的导出文件
type ExportFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// Archiver 导出文件归档
type Archiver interface {
	Archive(ctx context.Context, name, contentType string, data []byte) error
}

// MinIOArchiver 将导出文件保存到 MinIO 的 exports/ 目录
type MinIOArchiver struct {
	client *minio.Client
	bucket string
}

// NewMinIOArchiver 未配置 endpoint 时返回 nil
func NewMinIOArchiver(cfg config.MinIOConfig) (*MinIOArchiver, error) {
	if cfg.Endpoint == "" {
		return nil, nil
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio client: %w", err)
	}
	return &MinIOArchiver{client: client, bucket: cfg.Bucket}, nil
}

func (a *MinIOArchiver) Archive(ctx context.Context, name, contentType string, data []byte) error {
	_, err := a.client.PutObject(ctx, a.bucket, "exports/"+name, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	return err
}

// ExportService 导出服务
type ExportService struct {
	store    *repository.Store
	archiver Archiver
	logger   *zap.Logger
	now      func() time.Time
}

// NewExportService archiver 可为 nil
func NewExportService(store *repository.Store, archiver Archiver, logger *zap.Logger) *ExportService {
	return &ExportService{store: store, archiver: archiver, logger: logger, now: time.Now}
}

// ExportFileName <kind>_<YYYY-MM-DD>.<format>
func ExportFileName(kind, format string, now time.Time) string {
	return fmt.Sprintf("%s_%s.%s", kind, now.Format(entity.DateLayout), format)
}

// TicketExportRows 维修工单导出行
func TicketExportRows(tickets []entity.RepairTicket, dir *Directory) [][]string {
	rows := make([][]string, 0, len(tickets))
	for _, t := range tickets {
		rows = append(rows, []string{
			t.ReceiveDate,
			dir.CustomerName(t.CustomerID),
			dir.CustomerOrganization(t.CustomerID, UnknownOrganization),
			t.DeviceType,
			t.SerialNumber,
			t.DeviceCondition,
			t.Status,
			t.ReturnDate,
			t.ShippingMethod,
			t.ReturnNote,
		})
	}
	return rows
}

// WarrantyExportRows 保修工单导出行
func WarrantyExportRows(warranties []entity.WarrantyTicket, dir *Directory) [][]string {
	rows := make([][]string, 0, len(warranties))
	for _, w := range warranties {
		cost := ""
		if w.Cost.Valid {
			cost = w.Cost.Decimal.StringFixed(2)
		}
		rows = append(rows, []string{
			w.SentDate,
			dir.OrganizationName(w.OrganizationID, UnknownOrganization),
			w.DeviceType,
			w.SerialNumber,
			w.FaultDescription,
			w.Status,
			w.ReturnDate,
			cost,
			w.ShippingMethod,
			w.TrackingNumber,
			w.Note,
		})
	}
	return rows
}

// WriteCSV 写出带 BOM 的 UTF-8 CSV，所有字段加双引号，字段内引号双写
func WriteCSV(w io.Writer, header []string, rows [][]string) error {
	tw := transform.NewWriter(w, unicode.UTF8BOM.NewEncoder())
	bw := bufio.NewWriter(tw)

	writeRow := func(fields []string) error {
		for i, field := range fields {
			if i > 0 {
				if err := bw.WriteByte(','); err != nil {
					return err
				}
			}
			if _, err := bw.WriteString(`"` + strings.ReplaceAll(field, `"`, `""`) + `"`); err != nil {
				return err
			}
		}
		return bw.WriteByte('\n')
	}

	if err := writeRow(header); err != nil {
		return err
	}
	for _, row := range rows {
		if err := writeRow(row); err != nil {
			return err
		}
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	return tw.Close()
}

// WriteXLSX 写出 xlsx，表头加粗
func WriteXLSX(w io.Writer, sheet string, header []string, rows [][]string) error {
	f := excelize.NewFile()
	defer f.Close()
	f.SetSheetName("Sheet1", sheet)

	boldStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})

	for i, h := range header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, boldStyle)
	}
	for r, row := range rows {
		for i, v := range row {
			cell, _ := excelize.CoordinatesToCellName(i+1, r+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	lastCol, _ := excelize.ColumnNumberToName(len(header))
	f.SetColWidth(sheet, "A", lastCol, 18)

	return f.Write(w)
}

func (s *ExportService) render(ctx context.Context, kind, format string, header []string, rows [][]string) (*ExportFile, error) {
	var buf bytes.Buffer
	file := &ExportFile{Name: ExportFileName(kind, format, s.now())}

	switch format {
	case ExportFormatCSV:
		file.ContentType = contentTypeCSV
		if err := WriteCSV(&buf, header, rows); err != nil {
			return nil, fmt.Errorf("write csv: %w", err)
		}
	case ExportFormatXLSX:
		file.ContentType = contentTypeXLSX
		if err := WriteXLSX(&buf, kind, header, rows); err != nil {
			return nil, fmt.Errorf("write xlsx: %w", err)
		}
	default:
		return nil, invalid("format", "unsupported export format %q", format)
	}
	file.Data = buf.Bytes()

	metrics.ExportsTotal.WithLabelValues(kind, format).Inc()

	if s.archiver != nil {
		if err := s.archiver.Archive(ctx, file.Name, file.ContentType, file.Data); err != nil {
			s.logger.Warn("failed to archive export", zap.String("file", file.Name), zap.Error(err))
		}
	}
	return file, nil
}

// ExportTickets 导出全部维修工单
func (s *ExportService) ExportTickets(ctx context.Context, format string) (*ExportFile, error) {
	dir := NewDirectory(s.store.Customers.List(ctx), s.store.Organizations.List(ctx))
	rows := TicketExportRows(s.store.Tickets.List(ctx), dir)
	return s.render(ctx, ExportKindTickets, format, ticketExportHeaders, rows)
}

// ExportWarranties 导出全部保修工单
func (s *ExportService) ExportWarranties(ctx context.Context, format string) (*ExportFile, error) {
	dir := NewDirectory(nil, s.store.Organizations.List(ctx))
	rows := WarrantyExportRows(s.store.Warranties.List(ctx), dir)
	return s.render(ctx, ExportKindWarranties, format, warrantyExportHeaders, rows)
}
