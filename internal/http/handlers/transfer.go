package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/ardian/klinikhub/internal/config"
	"github.com/ardian/klinikhub/internal/domain/patient"
	"github.com/ardian/klinikhub/internal/observability"
	"github.com/ardian/klinikhub/internal/transfer"
	"github.com/gin-gonic/gin"
)

// TransferHandler covers bulk JSON import and spreadsheet export.
type TransferHandler struct {
	repo      PatientStore
	exportDir string
	obs       *observability.Prom
}

func NewTransferHandler(repo PatientStore, exportDir string, obs *observability.Prom) *TransferHandler {
	return &TransferHandler{
		repo:      repo,
		exportDir: exportDir,
		obs:       obs,
	}
}

type ImportRequest struct {
	Patients []patient.CreateRequest `json:"patients" binding:"required,dive"`
}

// Import persists a batch all-or-nothing: one bad entry rejects the whole
// request and leaves the table untouched.
func (h *TransferHandler) Import(ctx *gin.Context) {
	var req ImportRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(10 * time.Second)
	defer cancel()

	n, err := h.repo.ImportBatch(cctx, req.Patients)

	if err != nil {
		RespondBadRequest(ctx, fmt.Sprintf("import failed: %v", err), nil)
		return
	}

	if h.obs != nil {
		h.obs.ImportedRows.Add(float64(n))
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message":  fmt.Sprintf("Successfully imported %d patients", n),
		"imported": n,
	})
}

// Export writes every row to a timestamped workbook and hands back a
// download link. Old exports are never reaped.
func (h *TransferHandler) Export(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(10 * time.Second)
	defer cancel()

	patients, err := h.repo.List(cctx)

	if err != nil {
		h.countExport("error")
		RespondInternal(ctx, "Could not read patients")
		return
	}

	name, err := transfer.WriteWorkbook(patients, h.exportDir)

	if err != nil {
		h.countExport("error")
		RespondInternal(ctx, "Could not write export file")
		return
	}

	h.countExport("ok")

	ctx.JSON(http.StatusOK, gin.H{
		"download_url": "/static/exports/" + name,
	})
}

func (h *TransferHandler) countExport(result string) {
	if h.obs != nil {
		h.obs.ExportsTotal.WithLabelValues(result).Inc()
	}
}
