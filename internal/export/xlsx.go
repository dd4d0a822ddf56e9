// Package export writes saved fault records to a spreadsheet.
package export

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/fault-logbook/backend/internal/models"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

// XLSXWriter writes one sheet: a header row followed by one row per record.
type XLSXWriter struct {
	SheetName string
}

func NewXLSXWriter() *XLSXWriter {
	return &XLSXWriter{SheetName: "Sheet1"}
}

// Write saves records to dest. The workbook is written next to dest under a
// temporary name and renamed, so dest is either the complete new file or
// left as it was.
func (w *XLSXWriter) Write(dest string, records []models.LogRecord) error {
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(err, "creating export directory")
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	if w.SheetName != "" && w.SheetName != sheet {
		if err := f.SetSheetName(sheet, w.SheetName); err != nil {
			return errors.Wrap(err, "naming sheet")
		}
		sheet = w.SheetName
	}

	if err := setRow(f, sheet, 1, models.LogHeader); err != nil {
		return err
	}
	for i, rec := range records {
		if err := setRow(f, sheet, i+2, rec.Values()); err != nil {
			return err
		}
	}

	tmp := filepath.Join(dir, ".export_"+uuid.New().String()+".xlsx")
	if err := f.SaveAs(tmp); err != nil {
		os.Remove(tmp)
		return errors.Wrapf(err, "writing %s", dest)
	}
	if err := os.Rename(tmp, dest); err != nil {
		os.Remove(tmp)
		return errors.Wrapf(err, "moving export into %s", dest)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return errors.Wrap(err, "resolving cell")
	}
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return errors.Wrapf(err, "writing row %d", row)
	}
	return nil
}
