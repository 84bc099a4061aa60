// controllers/report.go
package controllers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"salonsmart-backend/models"
	"salonsmart-backend/services"
	"salonsmart-backend/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportController handles all reporting functions
type ReportController struct {
	reports *services.ReportService
	log     *zap.Logger
}

func NewReportController(reports *services.ReportService, log *zap.Logger) *ReportController {
	return &ReportController{reports: reports, log: log}
}

// months reads ?months=; zero lets the service pick its default.
func months(c *gin.Context) (int, bool) {
	raw := c.Query("months")
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		utils.RespondWithError(c, http.StatusBadRequest, "months must be a positive number")
		return 0, false
	}
	return n, true
}

func (rc *ReportController) GetReportAnalytics(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	n, ok := months(c)
	if !ok {
		return
	}
	summary, err := rc.reports.Summary(c.Request.Context(), a, n)
	if err != nil {
		respondError(c, rc.log, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// ExportReport streams the analytics as an xlsx download.
func (rc *ReportController) ExportReport(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	n, ok := months(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := rc.reports.Export(c.Request.Context(), a, n, &buf); err != nil {
		respondError(c, rc.log, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="salonsmart-report-%s.xlsx"`, time.Now().Format(models.DateFormat)))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
