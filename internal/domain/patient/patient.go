package patient

import (
	"errors"
	"time"
)

// Patient is a single clinical visit, not a patient's full history. Field
// names follow the intake forms used by the clinics this serves.
type Patient struct {
	ID               int64      `json:"id"`
	Nama             string     `json:"nama"`
	TanggalLahir     Date       `json:"tanggal_lahir"`
	TanggalKunjungan Date       `json:"tanggal_kunjungan"`
	Diagnosis        string     `json:"diagnosis"`
	Tindakan         string     `json:"tindakan"`
	Dokter           string     `json:"dokter"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        *time.Time `json:"updated_at"`
}

var ErrNotFound = errors.New("patient not found")

// CreateRequest doubles as the update payload: updates replace every mutable
// field in place.
type CreateRequest struct {
	Nama             string `json:"nama" binding:"required,max=100"`
	TanggalLahir     Date   `json:"tanggal_lahir" binding:"required"`
	TanggalKunjungan Date   `json:"tanggal_kunjungan" binding:"required"`
	Diagnosis        string `json:"diagnosis" binding:"omitempty,max=1000"`
	Tindakan         string `json:"tindakan" binding:"omitempty,max=1000"`
	Dokter           string `json:"dokter" binding:"omitempty,max=100"`
}
