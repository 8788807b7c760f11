package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ardian/klinikhub/internal/domain/patient"
	"github.com/ardian/klinikhub/internal/http/handlers"
)

func TestImportPatients(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		repoSetup      func(*fakePatientsRepo)
		wantStatusCode int
		wantImported   int
	}{
		{
			name: "success",
			body: `{"patients": [
				{"nama": "Budi Santoso", "tanggal_lahir": "1990-05-15", "tanggal_kunjungan": "2024-01-10", "diagnosis": "Hipertensi"},
				{"nama": "Siti Aminah", "tanggal_lahir": "1985-08-22", "tanggal_kunjungan": "2024-01-11"}
			]}`,
			wantStatusCode: http.StatusOK,
			wantImported:   2,
		},
		{
			name: "one_bad_entry_rejects_the_batch",
			body: `{"patients": [
				{"nama": "Budi Santoso", "tanggal_lahir": "1990-05-15", "tanggal_kunjungan": "2024-01-10"},
				{"tanggal_lahir": "1985-08-22", "tanggal_kunjungan": "2024-01-11"}
			]}`,
			repoSetup: func(f *fakePatientsRepo) {
				f.importFn = func(ctx context.Context, reqs []patient.CreateRequest) (int, error) {
					t.Fatal("store should not be touched when validation fails")
					return 0, nil
				}
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "missing_patients_key",
			body:           `{}`,
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "store_error",
			body: `{"patients": [
				{"nama": "Budi Santoso", "tanggal_lahir": "1990-05-15", "tanggal_kunjungan": "2024-01-10"}
			]}`,
			repoSetup: func(f *fakePatientsRepo) {
				f.importFn = func(ctx context.Context, reqs []patient.CreateRequest) (int, error) {
					return 0, errors.New("constraint violation")
				}
			},
			wantStatusCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			repo := &fakePatientsRepo{}

			if tt.repoSetup != nil {
				tt.repoSetup(repo)
			}

			h := handlers.NewTransferHandler(repo, t.TempDir(), nil)

			r := setupRouter(http.MethodPost, "/api/import", h.Import)

			req := httptest.NewRequest(http.MethodPost, "/api/import", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}

			if tt.wantStatusCode != http.StatusOK {
				return
			}

			var resp struct {
				Imported int `json:"imported"`
			}

			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("unmarshal response: %v", err)
			}

			if resp.Imported != tt.wantImported {
				t.Fatalf("got imported=%d, want %d", resp.Imported, tt.wantImported)
			}
		})
	}
}

func TestExportPatients(t *testing.T) {
	dir := t.TempDir()

	repo := &fakePatientsRepo{
		listFn: func(ctx context.Context) ([]patient.Patient, error) {
			return []patient.Patient{
				{ID: 1, Nama: "Budi Santoso", TanggalLahir: mustDate(t, "1990-05-15"), TanggalKunjungan: mustDate(t, "2024-01-10")},
			}, nil
		},
	}

	h := handlers.NewTransferHandler(repo, dir, nil)
	r := setupRouter(http.MethodGet, "/api/export", h.Export)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/export", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want %d, body=%s", w.Code, http.StatusOK, w.Body.String())
	}

	var resp struct {
		DownloadURL string `json:"download_url"`
	}

	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}

	if !strings.HasPrefix(resp.DownloadURL, "/static/exports/patients_export_") ||
		!strings.HasSuffix(resp.DownloadURL, ".xlsx") {
		t.Fatalf("unexpected download url %q", resp.DownloadURL)
	}

	// the advertised file must exist on disk
	name := filepath.Base(resp.DownloadURL)

	if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
		t.Fatalf("export file missing: %v", err)
	}
}

func TestExportPatientsStoreError(t *testing.T) {
	repo := &fakePatientsRepo{
		listFn: func(ctx context.Context) ([]patient.Patient, error) {
			return nil, errors.New("db error")
		},
	}

	h := handlers.NewTransferHandler(repo, t.TempDir(), nil)
	r := setupRouter(http.MethodGet, "/api/export", h.Export)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/export", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("got status %d, want %d", w.Code, http.StatusInternalServerError)
	}
}
