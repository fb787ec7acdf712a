package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"colmado/internal/domain"
)

var excelColumns = []string{
	"RNC/Cedula",
	"Tipo Identificacion",
	"NCF",
	"NCF Modificado",
	"Fecha",
	"Monto Gravado",
	"ITBIS",
	"Advertencia",
}

// WriteExcel renders the report rows as an XLSX workbook for
// accountant review. The XML artifact remains the filing format; this
// is a convenience view of the same build.
func WriteExcel(r *domain.ComplianceReport, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := fmt.Sprintf("Reporte %s %s", r.Kind, r.Period)
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return fmt.Errorf("report.WriteExcel sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("report.WriteExcel delete default sheet: %w", err)
	}

	for col, name := range excelColumns {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, name); err != nil {
			return fmt.Errorf("report.WriteExcel header: %w", err)
		}
	}

	for i := range r.Records {
		rec := &r.Records[i]
		values := []interface{}{
			rec.Identifier,
			rec.IdentifierType,
			rec.FiscalNumber,
			rec.ModifiedNCF,
			rec.DocumentDate.Format("2006-01-02"),
			rec.TaxableAmount.StringFixed(2),
			rec.TaxAmount.StringFixed(2),
			rec.Warning,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("report.WriteExcel row %d: %w", i, err)
			}
		}
	}

	// Totals row under the details.
	totalsRow := len(r.Records) + 3
	labelCell, _ := excelize.CoordinatesToCellName(5, totalsRow)
	taxableCell, _ := excelize.CoordinatesToCellName(6, totalsRow)
	taxCell, _ := excelize.CoordinatesToCellName(7, totalsRow)
	_ = f.SetCellValue(sheet, labelCell, fmt.Sprintf("Totales (%d registros)", r.Totals.RecordCount))
	_ = f.SetCellValue(sheet, taxableCell, r.Totals.TaxableAmount.StringFixed(2))
	_ = f.SetCellValue(sheet, taxCell, r.Totals.TaxAmount.StringFixed(2))

	if err := f.Write(w); err != nil {
		return fmt.Errorf("report.WriteExcel write: %w", err)
	}
	return nil
}
