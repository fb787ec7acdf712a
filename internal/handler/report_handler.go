package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"colmado/internal/domain"
	"colmado/internal/service"
)

// ReportHandler handles compliance report endpoints.
type ReportHandler struct {
	reportService service.ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Build handles GET /api/v1/reports/:kind and returns the report as JSON.
func (h *ReportHandler) Build(c *gin.Context) {
	kind, year, month, ok := h.params(c)
	if !ok {
		return
	}
	r, err := h.reportService.Build(c.Request.Context(), year, month, kind)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, r)
}

// DownloadXML handles GET /api/v1/reports/:kind/xml and streams the
// declaration file.
func (h *ReportHandler) DownloadXML(c *gin.Context) {
	kind, year, month, ok := h.params(c)
	if !ok {
		return
	}
	r, out, err := h.reportService.BuildXML(c.Request.Context(), year, month, kind)
	if err != nil {
		HandleError(c, err)
		return
	}
	filename := fmt.Sprintf("%s_%s.xml", kind, r.Period)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "application/xml", out)
}

// DownloadExcel handles GET /api/v1/reports/:kind/xlsx.
func (h *ReportHandler) DownloadExcel(c *gin.Context) {
	kind, year, month, ok := h.params(c)
	if !ok {
		return
	}
	filename := fmt.Sprintf("%s_%d%02d.xlsx", kind, year, month)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := h.reportService.WriteExcel(c.Request.Context(), year, month, kind, c.Writer); err != nil {
		HandleError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (h *ReportHandler) params(c *gin.Context) (domain.ReportKind, int, time.Month, bool) {
	kind := domain.ReportKind(c.Param("kind"))
	if kind != domain.ReportPurchases && kind != domain.ReportSales {
		RespondError(c, http.StatusBadRequest, "INVALID_KIND", "report kind must be 606 or 607")
		return "", 0, 0, false
	}
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_PERIOD", "year query parameter is required")
		return "", 0, 0, false
	}
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil || month < 1 || month > 12 {
		RespondError(c, http.StatusBadRequest, "INVALID_PERIOD", "month query parameter must be 1-12")
		return "", 0, 0, false
	}
	return kind, year, time.Month(month), true
}
