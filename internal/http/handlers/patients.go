package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ardian/klinikhub/internal/config"
	"github.com/ardian/klinikhub/internal/domain/patient"
	"github.com/ardian/klinikhub/internal/http/middlewares"
	"github.com/gin-gonic/gin"
)

// PatientStore is everything the request handlers need from the persistence
// layer. Handlers hold transient copies only; rows are owned by the store.
type PatientStore interface {
	Create(ctx context.Context, req patient.CreateRequest) (patient.Patient, error)
	List(ctx context.Context) ([]patient.Patient, error)
	ListByVisitDesc(ctx context.Context) ([]patient.Patient, error)
	GetByID(ctx context.Context, id int64) (patient.Patient, error)
	Update(ctx context.Context, id int64, req patient.CreateRequest) (patient.Patient, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
	CountByVisitDate(ctx context.Context, d patient.Date) (int, error)
	ImportBatch(ctx context.Context, reqs []patient.CreateRequest) (int, error)
}

// PatientPages serves the server-rendered patient screens.
type PatientPages struct {
	repo PatientStore
}

func NewPatientPages(repo PatientStore) *PatientPages {
	return &PatientPages{repo: repo}
}

func (h *PatientPages) Home(ctx *gin.Context) {
	ctx.HTML(http.StatusOK, "index.html", gin.H{})
}

func (h *PatientPages) List(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	patients, err := h.repo.List(cctx)

	if err != nil {
		RenderErrorPage(ctx, http.StatusInternalServerError, "Could not list patients")
		return
	}

	u, _ := middlewares.CurrentUser(ctx)

	ctx.HTML(http.StatusOK, "patients_list.html", gin.H{
		"Patients": patients,
		"Role":     u.Role,
	})
}

func (h *PatientPages) NewForm(ctx *gin.Context) {
	ctx.HTML(http.StatusOK, "patient_new.html", gin.H{})
}

func (h *PatientPages) Create(ctx *gin.Context) {
	req, err := parsePatientForm(ctx)

	if err != nil {
		RenderErrorPage(ctx, http.StatusBadRequest, err.Error())
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	_, err = h.repo.Create(cctx, req)

	if err != nil {
		RenderErrorPage(ctx, http.StatusInternalServerError, "Could not create patient")
		return
	}

	ctx.Redirect(http.StatusSeeOther, "/patients")
}

func (h *PatientPages) EditForm(ctx *gin.Context) {
	id, ok := patientID(ctx)

	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	p, err := h.repo.GetByID(cctx, id)

	if err != nil {
		if errors.Is(err, patient.ErrNotFound) {
			RenderErrorPage(ctx, http.StatusNotFound, "Patient not found")
			return
		}
		RenderErrorPage(ctx, http.StatusInternalServerError, "Could not fetch patient")
		return
	}

	ctx.HTML(http.StatusOK, "patient_edit.html", gin.H{
		"Patient": p,
	})
}

// Update backs both PUT /patients/:id and its POST alias for plain HTML
// forms.
func (h *PatientPages) Update(ctx *gin.Context) {
	id, ok := patientID(ctx)

	if !ok {
		return
	}

	req, err := parsePatientForm(ctx)

	if err != nil {
		RenderErrorPage(ctx, http.StatusBadRequest, err.Error())
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	_, err = h.repo.Update(cctx, id, req)

	if err != nil {
		if errors.Is(err, patient.ErrNotFound) {
			RenderErrorPage(ctx, http.StatusNotFound, "Patient not found")
			return
		}
		RenderErrorPage(ctx, http.StatusInternalServerError, "Could not update patient")
		return
	}

	ctx.Redirect(http.StatusSeeOther, "/patients")
}

func (h *PatientPages) Delete(ctx *gin.Context) {
	id, ok := patientID(ctx)

	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	err := h.repo.Delete(cctx, id)

	if err != nil {
		if errors.Is(err, patient.ErrNotFound) {
			RenderErrorPage(ctx, http.StatusNotFound, "Patient not found")
			return
		}
		RenderErrorPage(ctx, http.StatusInternalServerError, "Could not delete patient")
		return
	}

	ctx.Redirect(http.StatusSeeOther, "/patients")
}

func patientID(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)

	if err != nil || id <= 0 {
		RenderErrorPage(ctx, http.StatusNotFound, "Patient not found")
		return 0, false
	}

	return id, true
}

// parsePatientForm validates the HTML form fields. Dates are strict
// YYYY-MM-DD; a malformed date fails the whole request.
func parsePatientForm(ctx *gin.Context) (patient.CreateRequest, error) {
	var req patient.CreateRequest

	req.Nama = strings.TrimSpace(ctx.PostForm("nama"))

	if req.Nama == "" {
		return patient.CreateRequest{}, errors.New("nama is required")
	}

	lahir, err := patient.ParseDate(ctx.PostForm("tanggal_lahir"))

	if err != nil {
		return patient.CreateRequest{}, err
	}

	kunjungan, err := patient.ParseDate(ctx.PostForm("tanggal_kunjungan"))

	if err != nil {
		return patient.CreateRequest{}, err
	}

	req.TanggalLahir = lahir
	req.TanggalKunjungan = kunjungan
	req.Diagnosis = ctx.PostForm("diagnosis")
	req.Tindakan = ctx.PostForm("tindakan")
	req.Dokter = ctx.PostForm("dokter")

	return req, nil
}
