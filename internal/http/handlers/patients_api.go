package handlers

import (
	"net/http"
	"time"

	"github.com/ardian/klinikhub/internal/config"
	"github.com/ardian/klinikhub/internal/domain/patient"
	"github.com/gin-gonic/gin"
)

// PatientsAPI is the JSON face of the same store the pages use.
type PatientsAPI struct {
	repo PatientStore
}

func NewPatientsAPI(repo PatientStore) *PatientsAPI {
	return &PatientsAPI{repo: repo}
}

func (h *PatientsAPI) List(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	patients, err := h.repo.List(cctx)

	if err != nil {
		RespondInternal(ctx, "Could not list patients")
		return
	}

	RespondJSONWithETag(ctx, http.StatusOK, patients)
}

func (h *PatientsAPI) Create(ctx *gin.Context) {
	var req patient.CreateRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	p, err := h.repo.Create(cctx, req)

	if err != nil {
		RespondInternal(ctx, "Could not create patient")
		return
	}

	ctx.JSON(http.StatusCreated, p)
}
