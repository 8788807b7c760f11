// Package transfer turns patient rows into downloadable spreadsheet
// workbooks. Files accumulate under the static exports directory; there is
// no cleanup policy.
package transfer

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ardian/klinikhub/internal/domain/patient"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Patients"

// Fixed column order; consumers key off positions, not headers.
var exportHeader = []any{"ID", "Nama", "Tanggal Lahir", "Tanggal Kunjungan", "Diagnosis", "Tindakan", "Dokter"}

// WriteWorkbook serializes all rows into an xlsx file under dir and returns
// the generated file name. File names carry a second-granularity timestamp.
func WriteWorkbook(patients []patient.Patient, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}

	f := excelize.NewFile()

	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return "", err
	}

	if err := f.SetSheetRow(sheetName, "A1", &exportHeader); err != nil {
		return "", err
	}

	for i, p := range patients {
		cell, err := excelize.CoordinatesToCellName(1, i+2)

		if err != nil {
			return "", err
		}

		row := []any{p.ID, p.Nama, p.TanggalLahir.String(), p.TanggalKunjungan.String(), p.Diagnosis, p.Tindakan, p.Dokter}

		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return "", err
		}
	}

	name := fmt.Sprintf("patients_export_%s.xlsx", time.Now().Format("20060102_150405"))

	if err := f.SaveAs(filepath.Join(dir, name)); err != nil {
		return "", fmt.Errorf("write workbook: %w", err)
	}

	return name, nil
}
