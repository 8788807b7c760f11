package transfer

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ardian/klinikhub/internal/domain/patient"
	"github.com/xuri/excelize/v2"
)

func mustDate(t *testing.T, s string) patient.Date {
	t.Helper()

	d, err := patient.ParseDate(s)
	if err != nil {
		t.Fatalf("ParseDate(%q) returned error: %v", s, err)
	}
	return d
}

func TestWriteWorkbook(t *testing.T) {
	dir := t.TempDir()

	patients := []patient.Patient{
		{
			ID:               1,
			Nama:             "Ahmad Rizki",
			TanggalLahir:     mustDate(t, "1990-05-15"),
			TanggalKunjungan: mustDate(t, "2024-01-10"),
			Diagnosis:        "Demam berdarah",
			Tindakan:         "Pemberian obat dan istirahat",
			Dokter:           "Dr. Sarah",
			CreatedAt:        time.Now().UTC(),
		},
		{
			ID:               2,
			Nama:             "Siti Nurhaliza",
			TanggalLahir:     mustDate(t, "1985-08-22"),
			TanggalKunjungan: mustDate(t, "2024-01-12"),
			CreatedAt:        time.Now().UTC(),
		},
	}

	name, err := WriteWorkbook(patients, dir)
	if err != nil {
		t.Fatalf("WriteWorkbook returned error: %v", err)
	}

	if !strings.HasPrefix(name, "patients_export_") || !strings.HasSuffix(name, ".xlsx") {
		t.Fatalf("unexpected file name %q", name)
	}

	f, err := excelize.OpenFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("could not reopen workbook: %v", err)
	}
	defer f.Close()

	got, err := f.GetCellValue("Patients", "A1")
	if err != nil {
		t.Fatalf("GetCellValue returned error: %v", err)
	}
	if got != "ID" {
		t.Fatalf("expected header cell A1=ID, got %q", got)
	}

	nama, err := f.GetCellValue("Patients", "B2")
	if err != nil {
		t.Fatalf("GetCellValue returned error: %v", err)
	}
	if nama != "Ahmad Rizki" {
		t.Fatalf("expected first data row nama, got %q", nama)
	}

	visit, err := f.GetCellValue("Patients", "D3")
	if err != nil {
		t.Fatalf("GetCellValue returned error: %v", err)
	}
	if visit != "2024-01-12" {
		t.Fatalf("expected visit date in fixed column order, got %q", visit)
	}
}

func TestWriteWorkbookEmpty(t *testing.T) {
	dir := t.TempDir()

	name, err := WriteWorkbook(nil, dir)
	if err != nil {
		t.Fatalf("WriteWorkbook returned error: %v", err)
	}

	f, err := excelize.OpenFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("could not reopen workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Patients")
	if err != nil {
		t.Fatalf("GetRows returned error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected only the header row, got %d rows", len(rows))
	}
}
