package services

import (
	"bytes"
	"fmt"
	"html"
	"time"

	"techsupport_pro_go/models"
	"techsupport_pro_go/services/i18n"

	"github.com/xuri/excelize/v2"
)

// XLSXContentType is the MIME type of generated workbooks
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// BuildLeadWorkbook renders leads into an XLSX workbook with one sheet,
// a header row and one row per lead.
func BuildLeadWorkbook(leads []models.Lead, lang string) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := i18n.Translate(lang, "export.sheet")
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	headers := []string{
		i18n.Translate(lang, "export.header.name"),
		i18n.Translate(lang, "export.header.email"),
		i18n.Translate(lang, "export.header.company"),
		i18n.Translate(lang, "export.header.message"),
		i18n.Translate(lang, "export.header.created_at"),
	}
	if err := writeLeadHeader(f, sheet, headers); err != nil {
		return nil, err
	}

	for i, lead := range leads {
		row := i + 2
		// Stored values are HTML-escaped by the sanitizer
		values := []interface{}{
			html.UnescapeString(lead.Name),
			html.UnescapeString(lead.Email),
			html.UnescapeString(lead.CompanyOrEmpty()),
			html.UnescapeString(lead.Message),
			lead.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return nil, fmt.Errorf("failed to address cell: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, fmt.Errorf("failed to write cell %s: %w", cell, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf, nil
}

// writeLeadHeader writes the bold header row and sets the column widths
func writeLeadHeader(f *excelize.File, sheet string, headers []string) error {
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return fmt.Errorf("failed to address header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return fmt.Errorf("failed to write header %s: %w", cell, err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	if err := f.SetCellStyle(sheet, "A1", "E1", headerStyle); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	widths := []struct {
		from, to string
		width    float64
	}{
		{"A", "C", 25},
		{"D", "D", 60},
		{"E", "E", 20},
	}
	for _, w := range widths {
		if err := f.SetColWidth(sheet, w.from, w.to, w.width); err != nil {
			return fmt.Errorf("failed to set width of columns %s-%s: %w", w.from, w.to, err)
		}
	}
	return nil
}

// ExportFileName returns the file name of an export created at t
func ExportFileName(t time.Time) string {
	return fmt.Sprintf("leads-%s.xlsx", t.UTC().Format("20060102-150405"))
}
