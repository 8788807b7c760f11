package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/ardian/klinikhub/internal/domain/patient"
	"github.com/ardian/klinikhub/internal/observability"
)

const patientColumns = `id, nama, tanggal_lahir, tanggal_kunjungan, diagnosis, tindakan, dokter, created_at, updated_at`

type PatientsRepo struct {
	conn *sql.DB
	obs  *observability.Prom
}

// NewPatientsRepo wires a repo over an open connection; obs may be nil.
func NewPatientsRepo(conn *sql.DB, obs *observability.Prom) *PatientsRepo {
	return &PatientsRepo{
		conn: conn,
		obs:  obs,
	}
}

func (r *PatientsRepo) Create(ctx context.Context, req patient.CreateRequest) (patient.Patient, error) {
	var p patient.Patient

	err := r.obs.ObserveStore("patients.create", func() error {
		now := time.Now().UTC()

		res, err := r.conn.ExecContext(ctx,
			`INSERT INTO patients (nama, tanggal_lahir, tanggal_kunjungan, diagnosis, tindakan, dokter, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			req.Nama, req.TanggalLahir.String(), req.TanggalKunjungan.String(),
			req.Diagnosis, req.Tindakan, req.Dokter, now,
		)

		if err != nil {
			return err
		}

		id, err := res.LastInsertId()

		if err != nil {
			return err
		}

		p = patient.Patient{
			ID:               id,
			Nama:             req.Nama,
			TanggalLahir:     req.TanggalLahir,
			TanggalKunjungan: req.TanggalKunjungan,
			Diagnosis:        req.Diagnosis,
			Tindakan:         req.Tindakan,
			Dokter:           req.Dokter,
			CreatedAt:        now,
		}
		return nil
	})

	if err != nil {
		return patient.Patient{}, err
	}

	return p, nil
}

func (r *PatientsRepo) List(ctx context.Context) ([]patient.Patient, error) {
	return r.list(ctx, "patients.list",
		`SELECT `+patientColumns+` FROM patients ORDER BY id ASC`)
}

// ListByVisitDesc feeds the dashboard table, newest visit first.
func (r *PatientsRepo) ListByVisitDesc(ctx context.Context) ([]patient.Patient, error) {
	return r.list(ctx, "patients.list_by_visit",
		`SELECT `+patientColumns+` FROM patients ORDER BY tanggal_kunjungan DESC, id DESC`)
}

func (r *PatientsRepo) list(ctx context.Context, op, query string) ([]patient.Patient, error) {
	var out []patient.Patient

	err := r.obs.ObserveStore(op, func() error {
		rows, err := r.conn.QueryContext(ctx, query)

		if err != nil {
			return err
		}

		defer rows.Close()

		out = make([]patient.Patient, 0, 16)

		for rows.Next() {
			p, err := scanPatient(rows)

			if err != nil {
				return err
			}

			out = append(out, p)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return out, nil
}

func (r *PatientsRepo) GetByID(ctx context.Context, id int64) (patient.Patient, error) {
	var p patient.Patient

	err := r.obs.ObserveStore("patients.get", func() error {
		row := r.conn.QueryRowContext(ctx,
			`SELECT `+patientColumns+` FROM patients WHERE id = ?`, id)

		got, err := scanPatient(row)

		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return patient.ErrNotFound
			}
			return err
		}

		p = got
		return nil
	})

	if err != nil {
		return patient.Patient{}, err
	}

	return p, nil
}

// Update replaces every mutable field and stamps updated_at. A missing id is
// reported as patient.ErrNotFound, never as a silent no-op.
func (r *PatientsRepo) Update(ctx context.Context, id int64, req patient.CreateRequest) (patient.Patient, error) {
	err := r.obs.ObserveStore("patients.update", func() error {
		res, err := r.conn.ExecContext(ctx,
			`UPDATE patients
			 SET nama = ?, tanggal_lahir = ?, tanggal_kunjungan = ?, diagnosis = ?, tindakan = ?, dokter = ?, updated_at = ?
			 WHERE id = ?`,
			req.Nama, req.TanggalLahir.String(), req.TanggalKunjungan.String(),
			req.Diagnosis, req.Tindakan, req.Dokter, time.Now().UTC(), id,
		)

		if err != nil {
			return err
		}

		affected, err := res.RowsAffected()

		if err != nil {
			return err
		}

		if affected == 0 {
			return patient.ErrNotFound
		}

		return nil
	})

	if err != nil {
		return patient.Patient{}, err
	}

	return r.GetByID(ctx, id)
}

func (r *PatientsRepo) Delete(ctx context.Context, id int64) error {
	return r.obs.ObserveStore("patients.delete", func() error {
		res, err := r.conn.ExecContext(ctx, `DELETE FROM patients WHERE id = ?`, id)

		if err != nil {
			return err
		}

		affected, err := res.RowsAffected()

		if err != nil {
			return err
		}

		if affected == 0 {
			return patient.ErrNotFound
		}

		return nil
	})
}

func (r *PatientsRepo) Count(ctx context.Context) (int, error) {
	return r.count(ctx, "patients.count", `SELECT COUNT(*) FROM patients`)
}

func (r *PatientsRepo) CountByVisitDate(ctx context.Context, d patient.Date) (int, error) {
	return r.count(ctx, "patients.count_by_visit",
		`SELECT COUNT(*) FROM patients WHERE tanggal_kunjungan = ?`, d.String())
}

func (r *PatientsRepo) count(ctx context.Context, op, query string, args ...any) (int, error) {
	var n int

	err := r.obs.ObserveStore(op, func() error {
		return r.conn.QueryRowContext(ctx, query, args...).Scan(&n)
	})

	if err != nil {
		return 0, err
	}

	return n, nil
}

// ImportBatch inserts every entry inside one transaction. Any failed insert
// rolls the whole batch back; either all rows land or none do.
func (r *PatientsRepo) ImportBatch(ctx context.Context, reqs []patient.CreateRequest) (int, error) {
	imported := 0

	err := r.obs.ObserveStore("patients.import_batch", func() error {
		tx, err := r.conn.BeginTx(ctx, nil)

		if err != nil {
			return err
		}

		defer func() { _ = tx.Rollback() }()

		now := time.Now().UTC()

		for _, req := range reqs {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO patients (nama, tanggal_lahir, tanggal_kunjungan, diagnosis, tindakan, dokter, created_at)
				 VALUES (?, ?, ?, ?, ?, ?, ?)`,
				req.Nama, req.TanggalLahir.String(), req.TanggalKunjungan.String(),
				req.Diagnosis, req.Tindakan, req.Dokter, now,
			)

			if err != nil {
				return err
			}
		}

		if err := tx.Commit(); err != nil {
			return err
		}

		imported = len(reqs)
		return nil
	})

	if err != nil {
		return 0, err
	}

	return imported, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPatient(row rowScanner) (patient.Patient, error) {
	var (
		p         patient.Patient
		lahir     string
		kunjungan string
		updatedAt sql.NullTime
	)

	err := row.Scan(&p.ID, &p.Nama, &lahir, &kunjungan, &p.Diagnosis, &p.Tindakan, &p.Dokter, &p.CreatedAt, &updatedAt)

	if err != nil {
		return patient.Patient{}, err
	}

	if p.TanggalLahir, err = patient.ParseDate(lahir); err != nil {
		return patient.Patient{}, err
	}

	if p.TanggalKunjungan, err = patient.ParseDate(kunjungan); err != nil {
		return patient.Patient{}, err
	}

	if updatedAt.Valid {
		t := updatedAt.Time
		p.UpdatedAt = &t
	}

	return p, nil
}
