package output

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// SummarySheet is the first worksheet of an exported workbook.
const SummarySheet = "Summary"

// maxSheetName is Excel's worksheet name limit.
const maxSheetName = 31

// SummaryHeader is the header row of the summary sheet.
var SummaryHeader = []string{"Source", "Subject", "Instrument", "Family", "Version", "Partial", "Sheet"}

// XLSXFormatter writes one workbook per run: a summary sheet plus one
// sheet per scored document.
type XLSXFormatter struct {
	outputFile string
}

// NewXLSXFormatter creates a new XLSXFormatter
func NewXLSXFormatter(outputFile string) *XLSXFormatter {
	return &XLSXFormatter{outputFile: outputFile}
}

// Format writes the workbook to the output file.
func (f *XLSXFormatter) Format(report *Report) error {
	if f.outputFile == "" {
		return errors.New("xlsx output requires an output file")
	}
	data, err := Workbook(report)
	if err != nil {
		return err
	}
	if err := os.WriteFile(f.outputFile, data, 0644); err != nil {
		return fmt.Errorf("error writing to file %s: %w", f.outputFile, err)
	}
	return nil
}

// Workbook renders a report as XLSX bytes.
func Workbook(report *Report) ([]byte, error) {
	f := excelize.NewFile()

	index, err := f.NewSheet(SummarySheet)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	rows := make([][]string, 0, len(report.Entries))
	for i, e := range report.Entries {
		sheet := SheetName(i+1, e.Result.Instrument)
		rows = append(rows, []string{
			e.Source,
			e.Subject,
			e.Result.Instrument,
			string(e.Result.Family),
			e.Result.Version,
			strconv.FormatBool(e.Result.Partial),
			sheet,
		})

		if _, err := f.NewSheet(sheet); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to create sheet %s: %w", sheet, err)
		}
		var lines [][]string
		for _, l := range Lines(e.Result) {
			lines = append(lines, l.Strings())
		}
		for _, tag := range Tags(e.Result) {
			lines = append(lines, []string{"Interpretation", "", "", "", tag})
		}
		for _, note := range e.Result.Notes {
			lines = append(lines, []string{"Note", "", "", "", note})
		}
		if err := writeSheet(f, sheet, LineHeaders, lines, headerStyle, []float64{28, 10, 10, 22, 40}); err != nil {
			f.Close()
			return nil, err
		}
	}
	for _, fail := range report.Failures {
		rows = append(rows, []string{fail.Source, "", "", "", "", "", "error: " + fail.Message})
	}
	if err := writeSheet(f, SummarySheet, SummaryHeader, rows, headerStyle, []float64{40, 20, 20, 16, 10, 10, 24}); err != nil {
		f.Close()
		return nil, err
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write to buffer: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close file: %w", err)
	}
	return buf.Bytes(), nil
}

// SheetName builds a unique worksheet name for the n-th result.
func SheetName(n int, instrument string) string {
	name := strconv.Itoa(n) + " " + strings.Map(func(r rune) rune {
		switch r {
		case '[', ']', ':', '*', '?', '/', '\\':
			return '_'
		}
		return r
	}, instrument)
	if len(name) > maxSheetName {
		name = name[:maxSheetName]
	}
	return name
}

func writeSheet(f *excelize.File, sheet string, headers []string, rows [][]string, headerStyle int, widths []float64) error {
	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return fmt.Errorf("failed to set header style: %w", err)
		}
	}

	for i, w := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return fmt.Errorf("failed to convert column number: %w", err)
		}
		if err := f.SetColWidth(sheet, col, col, w); err != nil {
			return fmt.Errorf("failed to set column width: %w", err)
		}
	}

	for r, row := range rows {
		for c, value := range row {
			if value == "" {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("failed to set cell %s: %w", cell, err)
			}
		}
	}

	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze panes: %w", err)
	}
	return nil
}
