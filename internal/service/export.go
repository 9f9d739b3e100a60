package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"empapi/internal/model"
	"empapi/internal/repository"
	"empapi/internal/storage"
)

const (
	// XLSXContentType is the media type of rendered roster workbooks.
	XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	rosterSheet = "Employees"
)

var ErrStorageDisabled = errors.New("object storage is not configured")

var rosterHeader = []any{"ID", "Name", "Address", "Salary"}

// ExportResult describes an archived roster workbook.
type ExportResult struct {
	Key  string `json:"key"`
	URL  string `json:"url"`
	Size int64  `json:"size"`
	Rows int    `json:"rows"`
}

// ExportService renders the employee roster as a spreadsheet.
type ExportService interface {
	// WriteWorkbook renders every employee into an XLSX workbook written to w.
	// It returns the number of employee rows.
	WriteWorkbook(ctx context.Context, w io.Writer) (int, error)

	// Archive uploads a freshly rendered workbook to object storage and returns a presigned download URL.
	Archive(ctx context.Context) (*ExportResult, error)
}

type exportService struct {
	repo   repository.EmployeeRepository
	store  storage.Storage
	expiry time.Duration
}

// NewExportService constructs an ExportService. store may be nil, in which case Archive returns ErrStorageDisabled.
func NewExportService(repo repository.EmployeeRepository, store storage.Storage, expiry time.Duration) ExportService {
	if expiry <= 0 {
		expiry = 15 * time.Minute
	}
	return &exportService{repo: repo, store: store, expiry: expiry}
}

func (s *exportService) WriteWorkbook(ctx context.Context, w io.Writer) (int, error) {
	buf, rows, err := s.render(ctx)
	if err != nil {
		return 0, err
	}
	if _, err := buf.WriteTo(w); err != nil {
		return 0, fmt.Errorf("write workbook: %w", err)
	}
	return rows, nil
}

func (s *exportService) Archive(ctx context.Context) (*ExportResult, error) {
	if s.store == nil {
		return nil, ErrStorageDisabled
	}
	buf, rows, err := s.render(ctx)
	if err != nil {
		return nil, err
	}

	obj, err := s.store.Upload(ctx, storage.Object{
		Key:         "exports/employees-" + uuid.NewString() + ".xlsx",
		ContentType: XLSXContentType,
		Size:        int64(buf.Len()),
		Metadata:    map[string]string{"rows": strconv.Itoa(rows)},
	}, bytes.NewReader(buf.Bytes()))
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	url, err := s.store.SignedURL(ctx, obj.Key, s.expiry)
	if err != nil {
		// an archive nobody can download is removed
		if rmErr := s.store.Remove(ctx, obj.Key); rmErr != nil {
			return nil, fmt.Errorf("presign failed: %v; rollback delete failed: %v", err, rmErr)
		}
		return nil, fmt.Errorf("presign failed: %w", err)
	}

	return &ExportResult{Key: obj.Key, URL: url, Size: obj.Size, Rows: rows}, nil
}

func (s *exportService) render(ctx context.Context) (*bytes.Buffer, int, error) {
	items, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("list employees: %w", err)
	}
	buf, err := renderRoster(items)
	if err != nil {
		return nil, 0, fmt.Errorf("render workbook: %w", err)
	}
	return buf, len(items), nil
}

func renderRoster(items []model.Employee) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", rosterSheet); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(rosterSheet, "A1", &rosterHeader); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(rosterSheet, "A1", "D1", headerStyle); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(rosterSheet, "B", "C", 30); err != nil {
		return nil, err
	}

	for i, e := range items {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []any{e.ID, e.Name, e.Address, e.Salary}
		if err := f.SetSheetRow(rosterSheet, cell, &row); err != nil {
			return nil, err
		}
	}

	buf := new(bytes.Buffer)
	if _, err := f.WriteTo(buf); err != nil {
		return nil, err
	}
	return buf, nil
}
