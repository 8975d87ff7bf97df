package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/dvloznov/partner-warehouse/internal/domain"
)

// Sheet names of the exported workbook.
const (
	SheetBronze = "bronze"
	SheetSilver = "silver"
)

// WriteXLSX writes a workbook with a bronze sheet and, when silver is not
// nil, a silver sheet. Amounts are numeric cells; dates stay ISO text.
func WriteXLSX(w io.Writer, bronze domain.Table, silver *domain.SilverTable) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetBronze); err != nil {
		return fmt.Errorf("WriteXLSX: rename sheet: %w", err)
	}

	bronzeRows := make([][]interface{}, len(bronze.Records))
	for i, r := range bronze.Records {
		bronzeRows[i] = []interface{}{
			formatDate(r.Date),
			formatString(r.Partner),
			amountCell(r.Amount),
			formatString(r.SourceFile),
			formatTimestamp(r.IngestedAt),
		}
	}
	if err := fillSheet(f, SheetBronze, domain.BronzeColumns, bronzeRows); err != nil {
		return fmt.Errorf("WriteXLSX: %w", err)
	}

	if silver != nil {
		if _, err := f.NewSheet(SheetSilver); err != nil {
			return fmt.Errorf("WriteXLSX: new sheet: %w", err)
		}
		silverRows := make([][]interface{}, len(silver.Records))
		for i, r := range silver.Records {
			silverRows[i] = []interface{}{formatString(r.Partner), formatDate(r.Month), r.Amount}
		}
		if err := fillSheet(f, SheetSilver, domain.SilverColumns, silverRows); err != nil {
			return fmt.Errorf("WriteXLSX: %w", err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("WriteXLSX: write workbook: %w", err)
	}
	return nil
}

func fillSheet(f *excelize.File, sheet string, header []string, rows [][]interface{}) error {
	headerCells := make([]interface{}, len(header))
	for i, h := range header {
		headerCells[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &headerCells); err != nil {
		return fmt.Errorf("fillSheet %s: header: %w", sheet, err)
	}

	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("fillSheet %s: %w", sheet, err)
		}
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return fmt.Errorf("fillSheet %s: row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

func amountCell(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
