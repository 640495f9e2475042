package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"labsight/internal/domain"
)

// WriteXLSX renders a batch of lab tests as a single-sheet workbook and
// returns the serialized bytes.
func WriteXLSX(tests []domain.LabTest) ([]byte, error) {
	f := excelize.NewFile()
	const sheet = "Lab Tests"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)
	_ = f.DeleteSheet("Sheet1")

	for i, h := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i := range tests {
		t := &tests[i]
		row := i + 2
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		write(1, t.Name)
		if t.Value.IsNumber {
			write(2, t.Value.Number)
		} else {
			write(2, t.Value.Text)
		}
		write(3, t.Unit)
		write(4, string(t.Status))
		if t.RefRange != nil {
			write(5, t.RefRange.Low)
			write(6, t.RefRange.High)
		}
	}

	_ = f.SetColWidth(sheet, "A", "A", 32) // test name
	_ = f.SetColWidth(sheet, "B", "B", 14) // value
	_ = f.SetColWidth(sheet, "C", "C", 12) // unit
	_ = f.SetColWidth(sheet, "D", "D", 10) // status
	_ = f.SetColWidth(sheet, "E", "F", 10) // ref range

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}
