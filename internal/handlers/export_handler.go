package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"fincheck/internal/export"
	"fincheck/internal/services"
)

// ExportHandler streams Excel and PDF reports.
type ExportHandler struct {
	exportService services.ExportServicer
	fontPath      string
	clock         clock
}

// NewExportHandler creates a new ExportHandler. fontPath is the TrueType font
// used for PDF output; PDF export is disabled without it.
func NewExportHandler(exportService services.ExportServicer, fontPath string) *ExportHandler {
	return &ExportHandler{exportService: exportService, fontPath: fontPath}
}

// ExportQuery are the export query parameters.
type ExportQuery struct {
	Format export.Format `form:"format" binding:"required,export_format"`
	Type   export.Kind   `form:"type" binding:"omitempty,export_kind"`
	Days   int           `form:"days" binding:"omitempty,min=1"`
}

// Export renders a report file
// @Summary     Export a report
// @Description Premium only. Excel or PDF report of the trailing window.
// @Tags        export
// @Produce     application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Produce     application/pdf
// @Security    BearerAuth
// @Param       format query string true  "excel or pdf"
// @Param       type   query string false "transactions, budget, all, income or expense (default all)"
// @Param       days   query int    false "Trailing window in days (default 30)"
// @Success     200 {file} file "Report"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     403 {object} ErrorResponse "Premium required"
// @Failure     404 {object} ErrorResponse "No data in range"
// @Failure     503 {object} ErrorResponse "Format not configured"
// @Router      /export [get]
func (h *ExportHandler) Export(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var q ExportQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondWithError(c, bindError(err))
		return
	}
	if q.Type == "" {
		q.Type = export.KindAll
	}

	renderer, err := export.NewRenderer(q.Format, h.fontPath)
	if err != nil {
		respondWithError(c, err)
		return
	}

	report, err := h.exportService.BuildReport(userID, q.Type, q.Days, h.clock.now())
	if err != nil {
		respondWithError(c, err)
		return
	}

	body, err := renderer.Render(report)
	if err != nil {
		respondWithError(c, err)
		return
	}

	filename := export.Filename(report.Kind, report.Days, renderer.Extension())
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, renderer.ContentType(), body)
}
