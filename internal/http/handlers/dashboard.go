package handlers

import (
	"net/http"
	"time"

	"github.com/ardian/klinikhub/internal/config"
	"github.com/ardian/klinikhub/internal/domain/patient"
	"github.com/ardian/klinikhub/internal/http/middlewares"
	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	repo PatientStore
}

func NewDashboardHandler(repo PatientStore) *DashboardHandler {
	return &DashboardHandler{repo: repo}
}

// Show renders the visit statistics plus the full table, newest visit first.
func (h *DashboardHandler) Show(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	total, err := h.repo.Count(cctx)

	if err != nil {
		RenderErrorPage(ctx, http.StatusInternalServerError, "Could not load dashboard")
		return
	}

	today, err := h.repo.CountByVisitDate(cctx, patient.Today())

	if err != nil {
		RenderErrorPage(ctx, http.StatusInternalServerError, "Could not load dashboard")
		return
	}

	patients, err := h.repo.ListByVisitDesc(cctx)

	if err != nil {
		RenderErrorPage(ctx, http.StatusInternalServerError, "Could not load dashboard")
		return
	}

	u, _ := middlewares.CurrentUser(ctx)

	ctx.HTML(http.StatusOK, "dashboard.html", gin.H{
		"TotalPatients": total,
		"TodayPatients": today,
		"Patients":      patients,
		"Role":          u.Role,
	})
}
