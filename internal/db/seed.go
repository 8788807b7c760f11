package db

import (
	"context"
	"database/sql"

	"github.com/ardian/klinikhub/internal/domain/patient"
	"github.com/ardian/klinikhub/internal/domain/user"
	"github.com/ardian/klinikhub/internal/repo/sqlite"
	"github.com/ardian/klinikhub/internal/security"
)

// Seed creates the two fixed staff accounts and five sample visits on an
// empty database. Existing rows are never touched.
func Seed(ctx context.Context, conn *sql.DB) error {
	if err := seedUsers(ctx, conn); err != nil {
		return err
	}

	return seedPatients(ctx, conn)
}

func seedUsers(ctx context.Context, conn *sql.DB) error {
	users := sqlite.NewUsersRepo(conn)

	count, err := users.Count(ctx)

	if err != nil {
		return err
	}

	if count > 0 {
		return nil
	}

	accounts := []struct {
		username string
		password string
		role     string
	}{
		{"admin", "admin", user.RoleAdmin},
		{"dokter", "dokter", user.RoleDokter},
	}

	for _, a := range accounts {
		hash, err := security.HashPassword(a.password)

		if err != nil {
			return err
		}

		if _, err := users.Create(ctx, a.username, hash, a.role); err != nil {
			return err
		}
	}

	return nil
}

func seedPatients(ctx context.Context, conn *sql.DB) error {
	patients := sqlite.NewPatientsRepo(conn, nil)

	count, err := patients.Count(ctx)

	if err != nil {
		return err
	}

	if count > 0 {
		return nil
	}

	samples := []patient.CreateRequest{
		{Nama: "Ahmad Rizki", TanggalLahir: mustDate("1990-05-15"), TanggalKunjungan: mustDate("2024-01-10"), Diagnosis: "Demam berdarah", Tindakan: "Pemberian obat dan istirahat", Dokter: "Dr. Sarah"},
		{Nama: "Siti Nurhaliza", TanggalLahir: mustDate("1985-08-22"), TanggalKunjungan: mustDate("2024-01-12"), Diagnosis: "Hipertensi", Tindakan: "Kontrol tekanan darah", Dokter: "Dr. Budi"},
		{Nama: "Muhammad Fajar", TanggalLahir: mustDate("1995-03-08"), TanggalKunjungan: mustDate("2024-01-15"), Diagnosis: "Flu dan batuk", Tindakan: "Pemberian antibiotik", Dokter: "Dr. Sarah"},
		{Nama: "Dewi Sartika", TanggalLahir: mustDate("1988-12-03"), TanggalKunjungan: mustDate("2024-01-18"), Diagnosis: "Diabetes", Tindakan: "Kontrol gula darah", Dokter: "Dr. Budi"},
		{Nama: "Budi Santoso", TanggalLahir: mustDate("1975-06-20"), TanggalKunjungan: mustDate("2024-01-20"), Diagnosis: "Asma", Tindakan: "Pemberian inhaler", Dokter: "Dr. Sarah"},
	}

	_, err = patients.ImportBatch(ctx, samples)
	return err
}

func mustDate(s string) patient.Date {
	d, err := patient.ParseDate(s)

	if err != nil {
		panic(err)
	}

	return d
}
